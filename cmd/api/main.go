package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/bpofin/finsync/internal/company"
	companyStore "github.com/bpofin/finsync/internal/company/store"
	"github.com/bpofin/finsync/internal/config"
	"github.com/bpofin/finsync/internal/database"
	"github.com/bpofin/finsync/internal/f360"
	finsyncHttp "github.com/bpofin/finsync/internal/http"
	authHandler "github.com/bpofin/finsync/internal/http/auth"
	cashflowHandler "github.com/bpofin/finsync/internal/http/cashflow"
	companyHandler "github.com/bpofin/finsync/internal/http/company"
	importHandler "github.com/bpofin/finsync/internal/http/importrun"
	ledgerHandler "github.com/bpofin/finsync/internal/http/ledger"
	"github.com/bpofin/finsync/internal/importer"
	"github.com/bpofin/finsync/internal/ingest"
	"github.com/bpofin/finsync/internal/ledger"
	ledgerStore "github.com/bpofin/finsync/internal/ledger/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		companySvc = company.NewService(companyStore.New(db))
		ledgerSvc  = ledger.NewService(ledgerStore.New(db), cfg.Import.BatchSize, cfg.Import.UpsertRetries)
		importSvc  = importer.NewService()
		erp        = f360.NewClient(f360.Config{
			BaseURL:      cfg.F360.BaseURL,
			LoginToken:   cfg.F360.Token,
			TokenTTL:     cfg.F360.TokenTTL,
			TokenMargin:  cfg.F360.TokenMargin,
			PollAttempts: cfg.F360.PollAttempts,
			PollInterval: cfg.F360.PollInterval,
		})
		runner = ingest.NewRunner(erp, ledgerSvc, cfg.Import.CompanyDelay)
	)

	var (
		authH     = authHandler.NewHandler(cfg.Auth.JWTSecret, cfg.Auth.Email, cfg.Auth.Password)
		ledgerH   = ledgerHandler.NewHandler(ledgerSvc)
		cashflowH = cashflowHandler.NewHandler(ledgerSvc)
		companyH  = companyHandler.NewHandler(companySvc)
		importH   = importHandler.NewHandler(runner, companySvc, importSvc, ledgerSvc)
	)

	router := finsyncHttp.New(finsyncHttp.Config{
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, authH, ledgerH, cashflowH, companyH, importH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
