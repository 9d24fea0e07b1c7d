package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bpofin/finsync/internal/http/auth"
	"github.com/bpofin/finsync/internal/http/cashflow"
	"github.com/bpofin/finsync/internal/http/company"
	"github.com/bpofin/finsync/internal/http/importrun"
	"github.com/bpofin/finsync/internal/http/ledger"
)

type Config struct {
	JWTSecret      string
	AllowedOrigins []string
}

func New(
	cfg Config,
	authV1 *auth.Handler,
	ledgerV1 *ledger.Handler,
	cashflowV1 *cashflow.Handler,
	companiesV1 *company.Handler,
	importsV1 *importrun.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(cfg.JWTSecret))

			r.Route("/ledger", ledgerV1.Routes)
			r.Route("/cashflow", cashflowV1.Routes)
			r.Route("/companies", companiesV1.Routes)
			r.Route("/imports", importsV1.Routes)
		})
	})

	return router
}
