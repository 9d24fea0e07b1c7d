package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bpofin/finsync/internal/company"
	companyStore "github.com/bpofin/finsync/internal/company/store"
	"github.com/bpofin/finsync/internal/config"
	"github.com/bpofin/finsync/internal/database"
	"github.com/bpofin/finsync/internal/f360"
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

	rng, err := importRange(cfg)
	if err != nil {
		slog.Error("invalid import range", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		companySvc = company.NewService(companyStore.New(db))
		ledgerSvc  = ledger.NewService(ledgerStore.New(db), cfg.Import.BatchSize, cfg.Import.UpsertRetries)
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

	companies, err := companySvc.List(ctx)
	if err != nil {
		slog.Error("failed to list companies", "error", err)
		os.Exit(1)
	}

	if len(companies) == 0 {
		slog.Error("no companies registered, nothing to import")
		os.Exit(1)
	}

	summary := runner.Run(ctx, companies, rng)
	printSummary(summary, rng)

	if summary.CompaniesProcessed == 0 {
		os.Exit(1)
	}
}

func importRange(cfg *config.Config) (ingest.DateRange, error) {
	now := time.Now().UTC()
	rng := ingest.DateRange{
		Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}

	if cfg.Import.StartDate != "" {
		start, err := time.Parse(time.DateOnly, cfg.Import.StartDate)
		if err != nil {
			return rng, fmt.Errorf("parsing IMPORT_START_DATE: %w", err)
		}

		rng.Start = start
	}

	if cfg.Import.EndDate != "" {
		end, err := time.Parse(time.DateOnly, cfg.Import.EndDate)
		if err != nil {
			return rng, fmt.Errorf("parsing IMPORT_END_DATE: %w", err)
		}

		rng.End = end
	}

	if rng.End.Before(rng.Start) {
		return rng, fmt.Errorf("end date %s before start date %s",
			rng.End.Format(time.DateOnly), rng.Start.Format(time.DateOnly))
	}

	return rng, nil
}

func printSummary(s ingest.Summary, rng ingest.DateRange) {
	fmt.Println()
	fmt.Printf("Import %s a %s\n", rng.Start.Format(time.DateOnly), rng.End.Format(time.DateOnly))
	fmt.Printf("  companies:  %d/%d processed\n", s.CompaniesProcessed, s.CompaniesTotal)
	fmt.Printf("  ledger:     %d inserted, %d duplicates skipped\n", s.LedgerInserted, s.LedgerSkipped)
	fmt.Printf("  cash flow:  %d inserted, %d duplicates skipped\n", s.CashFlowInserted, s.CashFlowSkipped)

	if s.RowsDropped > 0 || s.RowsUnknownCompany > 0 || s.RowsDefaultNature > 0 {
		fmt.Printf("  rows:       %d dropped, %d unknown company, %d defaulted to expense\n",
			s.RowsDropped, s.RowsUnknownCompany, s.RowsDefaultNature)
	}

	if len(s.Errors) > 0 {
		fmt.Printf("  errors:\n")

		for _, e := range s.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}
}
