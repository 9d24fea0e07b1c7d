package f360

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		BaseURL:    srv.URL,
		LoginToken: "shared-secret",
	})
	c.sleep = func(context.Context, time.Duration) error { return nil }

	return c, srv
}

func loginHandler(logins *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logins.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"Token": "bearer-1"})
	}
}

func TestClient_TokenReuse(t *testing.T) {
	var logins atomic.Int32

	mux := http.NewServeMux()
	mux.Handle("/PublicLoginAPI/DoLogin", loginHandler(&logins))

	c, _ := testClient(t, mux)

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	tok, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bearer-1", tok)

	// 50 minutes later: still outside the 5-minute margin, no new login.
	now = now.Add(50 * time.Minute)

	_, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), logins.Load())

	// 56 minutes in: within the margin, a fresh login happens.
	now = now.Add(6 * time.Minute)

	_, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), logins.Load())
}

func TestClient_LoginRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/PublicLoginAPI/DoLogin", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid credential", http.StatusUnauthorized)
	})

	c, _ := testClient(t, mux)

	_, err := c.Token(context.Background())

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)
	assert.Contains(t, authErr.Body, "invalid credential")
}

func TestClient_RequestReport(t *testing.T) {
	tests := []struct {
		name      string
		result    string
		wantZero  bool
		wantCNPJs []string
		sendCNPJs []string
	}{
		{
			name:      "HandleReturned",
			result:    "abc-123",
			sendCNPJs: []string{"12345678000199"},
			wantCNPJs: []string{"12345678000199"},
		},
		{
			name:      "NothingToGenerate",
			result:    "",
			wantZero:  true,
			wantCNPJs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logins atomic.Int32

			var gotBody map[string]any

			mux := http.NewServeMux()
			mux.Handle("/PublicLoginAPI/DoLogin", loginHandler(&logins))
			mux.HandleFunc("/PublicRelatorioAPI/GerarRelatorio", func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
				json.NewEncoder(w).Encode(map[string]string{"Result": tt.result})
			})

			c, _ := testClient(t, mux)

			h, err := c.RequestReport(context.Background(), ReportRequest{
				Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
				CNPJs: tt.sendCNPJs,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantZero, h.IsZero())

			assert.Equal(t, "2025-03-01", gotBody["DataInicio"])
			assert.Equal(t, "2025-03-31", gotBody["DataFim"])
			assert.Equal(t, false, gotBody["EnviarNotificacao"])

			cnpjs, ok := gotBody["CNPJs"].([]any)
			require.True(t, ok, "CNPJs must always be an array")
			assert.Len(t, cnpjs, len(tt.wantCNPJs))
		})
	}
}

func TestClient_AwaitReport_PendingThenReady(t *testing.T) {
	var logins, downloads atomic.Int32

	mux := http.NewServeMux()
	mux.Handle("/PublicLoginAPI/DoLogin", loginHandler(&logins))
	mux.HandleFunc("/PublicRelatorioAPI/Download", func(w http.ResponseWriter, r *http.Request) {
		if downloads.Add(1) <= 2 {
			http.Error(w, "Relatório com status 'Aguardando'", http.StatusBadRequest)
			return
		}

		json.NewEncoder(w).Encode([]map[string]any{
			{"DataCompetencia": "2025-03-10T00:00:00", "ValorLcto": -1500.50},
		})
	})

	c, _ := testClient(t, mux)

	rows, err := c.AwaitReport(context.Background(), ReportHandle{ID: "abc"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-03-10T00:00:00", rows[0].DataCompetencia)
	assert.Equal(t, int32(3), downloads.Load())
}

func TestClient_AwaitReport_Timeout(t *testing.T) {
	var logins, downloads atomic.Int32

	mux := http.NewServeMux()
	mux.Handle("/PublicLoginAPI/DoLogin", loginHandler(&logins))
	mux.HandleFunc("/PublicRelatorioAPI/Download", func(w http.ResponseWriter, r *http.Request) {
		downloads.Add(1)
		http.Error(w, "Relatório com status 'Processando'", http.StatusBadRequest)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		BaseURL:      srv.URL,
		LoginToken:   "shared-secret",
		PollAttempts: 4,
	})
	c.sleep = func(context.Context, time.Duration) error { return nil }

	_, err := c.AwaitReport(context.Background(), ReportHandle{ID: "abc"})
	require.ErrorIs(t, err, ErrReportTimeout)
	assert.Equal(t, int32(4), downloads.Load())
}

func TestClient_AwaitReport_TerminalError(t *testing.T) {
	var logins, downloads atomic.Int32

	mux := http.NewServeMux()
	mux.Handle("/PublicLoginAPI/DoLogin", loginHandler(&logins))
	mux.HandleFunc("/PublicRelatorioAPI/Download", func(w http.ResponseWriter, r *http.Request) {
		downloads.Add(1)
		http.Error(w, "Relatório com status 'Erro'", http.StatusBadRequest)
	})

	c, _ := testClient(t, mux)

	_, err := c.AwaitReport(context.Background(), ReportHandle{ID: "abc"})
	require.ErrorIs(t, err, ErrReportFailed)
	assert.Equal(t, int32(1), downloads.Load(), "terminal error must not be retried")
}

func TestClient_AwaitReport_UnknownFailureRetried(t *testing.T) {
	var logins, downloads atomic.Int32

	mux := http.NewServeMux()
	mux.Handle("/PublicLoginAPI/DoLogin", loginHandler(&logins))
	mux.HandleFunc("/PublicRelatorioAPI/Download", func(w http.ResponseWriter, r *http.Request) {
		if downloads.Add(1) == 1 {
			http.NotFound(w, r)
			return
		}

		w.Write([]byte(`{"DataCompetencia": "2025-03-10T00:00:00"}`))
	})

	c, _ := testClient(t, mux)

	rows, err := c.AwaitReport(context.Background(), ReportHandle{ID: "abc"})
	require.NoError(t, err)
	assert.Len(t, rows, 1, "bare object is wrapped into a one-element slice")
}

func TestDecodeReportBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantLen int
		wantErr bool
	}{
		{name: "Array", body: `[{"CNPJEmpresa":"1"},{"CNPJEmpresa":"2"}]`, wantLen: 2},
		{name: "BareObject", body: `{"CNPJEmpresa":"1"}`, wantLen: 1},
		{name: "Scalar", body: `"done"`, wantErr: true},
		{name: "Empty", body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := decodeReportBody([]byte(tt.body))

			if tt.wantErr {
				var fe *FormatError
				require.ErrorAs(t, err, &fe)

				return
			}

			require.NoError(t, err)
			assert.Len(t, rows, tt.wantLen)
		})
	}
}

func TestClassifyDownloadStatus(t *testing.T) {
	tests := []struct {
		msg  string
		want downloadStatus
	}{
		{"Relatório com status 'Aguardando'", statusPending},
		{"Relatório com status 'Processando'", statusPending},
		{"Relatório com status 'Erro'", statusFailed},
		{"404 page not found", statusUnknown},
		{"connection refused", statusUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyDownloadStatus(tt.msg), tt.msg)
	}
}

func TestClient_AwaitReport_Cancelled(t *testing.T) {
	var logins atomic.Int32

	mux := http.NewServeMux()
	mux.Handle("/PublicLoginAPI/DoLogin", loginHandler(&logins))
	mux.HandleFunc("/PublicRelatorioAPI/Download", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Relatório com status 'Aguardando'", http.StatusBadRequest)
	})

	c, _ := testClient(t, mux)
	c.sleep = sleepCtx

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.AwaitReport(ctx, ReportHandle{ID: "abc"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
