package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpofin/finsync/internal/http/auth"
)

func testRouter() http.Handler {
	h := auth.NewHandler("test-secret", "ops@bpo.com.br", "s3nha")

	router := chi.NewRouter()
	router.Route("/auth", h.Routes)
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware("test-secret"))
		r.Get("/protected", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	return router
}

func login(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestLoginAndMiddleware(t *testing.T) {
	router := testRouter()

	rec := login(t, router, `{"email":"ops@bpo.com.br","password":"s3nha"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)

	protected := httptest.NewRecorder()
	router.ServeHTTP(protected, req)
	assert.Equal(t, http.StatusNoContent, protected.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := testRouter()

	rec := login(t, router, `{"email":"ops@bpo.com.br","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRejectsMissingAndBogusTokens(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
