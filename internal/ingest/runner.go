package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bpofin/finsync/internal/company"
	"github.com/bpofin/finsync/internal/f360"
	"github.com/bpofin/finsync/internal/ledger"
)

// ReportClient is the slice of the ERP client the runner needs.
//
//go:generate mockgen -source=runner.go -destination=client_mock.go -package=ingest
type ReportClient interface {
	RequestReport(ctx context.Context, req f360.ReportRequest) (f360.ReportHandle, error)
	AwaitReport(ctx context.Context, h f360.ReportHandle) ([]f360.RawRow, error)
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

// CompanyError records a company whose import was aborted. Other
// companies in the same run are unaffected.
type CompanyError struct {
	Company string
	Err     error
}

func (e CompanyError) String() string {
	return fmt.Sprintf("%s: %v", e.Company, e.Err)
}

// Summary is the outcome of one multi-company run.
type Summary struct {
	CompaniesTotal     int
	CompaniesProcessed int

	LedgerInserted   int
	LedgerSkipped    int
	CashFlowInserted int
	CashFlowSkipped  int

	RowsDropped        int // zero amount or no usable date
	RowsUnknownCompany int // CNPJ not in the registry
	RowsDefaultNature  int // classified by the default rule, review manually

	Errors []CompanyError
}

// Runner drives the per-company import pipeline one company at a
// time. The ERP rate-limits aggressively, so companies are never
// processed concurrently.
type Runner struct {
	erp     ReportClient
	entries *ledger.Service
	delay   time.Duration

	// Injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewRunner(erp ReportClient, entries *ledger.Service, companyDelay time.Duration) *Runner {
	return &Runner{
		erp:     erp,
		entries: entries,
		delay:   companyDelay,
		sleep:   sleepCtx,
	}
}

// Run imports the date range for every company in order. A company's
// failure is recorded and the run moves on; only context cancellation
// stops the loop early.
func (r *Runner) Run(ctx context.Context, companies []*company.Company, rng DateRange) Summary {
	summary := Summary{CompaniesTotal: len(companies)}
	registry := BuildRegistry(companies)

	for i, comp := range companies {
		slog.Info("importing company",
			"company", comp.Name,
			"cnpj", comp.CNPJ,
			"start", rng.Start.Format(time.DateOnly),
			"end", rng.End.Format(time.DateOnly),
		)

		if err := r.runCompany(ctx, comp, registry, rng, &summary); err != nil {
			summary.Errors = append(summary.Errors, CompanyError{Company: comp.Name, Err: err})
			slog.Warn("company import failed", "company", comp.Name, "error", err)

			if ctx.Err() != nil {
				break
			}
		} else {
			summary.CompaniesProcessed++
		}

		if i < len(companies)-1 {
			if err := r.sleep(ctx, r.delay); err != nil {
				break
			}
		}
	}

	return summary
}

func (r *Runner) runCompany(ctx context.Context, comp *company.Company, registry map[string]*company.Company, rng DateRange, summary *Summary) error {
	handle, err := r.erp.RequestReport(ctx, f360.ReportRequest{
		Start: rng.Start,
		End:   rng.End,
		CNPJs: []string{comp.CNPJ},
	})
	if err != nil {
		return err
	}

	if handle.IsZero() {
		slog.Info("nothing to generate", "company", comp.Name)
		return nil
	}

	rows, err := r.erp.AwaitReport(ctx, handle)
	if err != nil {
		return err
	}

	batch := NormalizeRows(rows, registry, comp)
	summary.RowsDropped += batch.Dropped
	summary.RowsUnknownCompany += batch.Unknown
	summary.RowsDefaultNature += batch.Defaulted

	ledgerStats, err := r.entries.ImportEntries(ctx, batch.Entries)
	if err != nil {
		return err
	}

	cashStats, err := r.entries.ImportCashFlows(ctx, batch.CashFlows)
	if err != nil {
		return err
	}

	summary.LedgerInserted += ledgerStats.Inserted
	summary.LedgerSkipped += ledgerStats.Skipped
	summary.CashFlowInserted += cashStats.Inserted
	summary.CashFlowSkipped += cashStats.Skipped

	for _, werr := range append(ledgerStats.Errors, cashStats.Errors...) {
		summary.Errors = append(summary.Errors, CompanyError{Company: comp.Name, Err: werr})
	}

	slog.Info("company imported",
		"company", comp.Name,
		"ledger", ledgerStats.Inserted,
		"cashflow", cashStats.Inserted,
		"skipped", ledgerStats.Skipped+cashStats.Skipped,
	)

	return nil
}

// RowBatch is the result of normalizing a set of raw rows.
type RowBatch struct {
	Entries   []ledger.CreateParams
	CashFlows []ledger.CashFlowParams
	Dropped   int
	Unknown   int
	Defaulted int
}

// BuildRegistry indexes companies by normalized CNPJ.
func BuildRegistry(companies []*company.Company) map[string]*company.Company {
	registry := make(map[string]*company.Company, len(companies))
	for _, c := range companies {
		registry[company.NormalizeCNPJ(c.CNPJ)] = c
	}

	return registry
}

// NormalizeRows resolves each row's CNPJ against the registry and maps
// surviving rows to persistence params. Rows without a CNPJ attribute
// to fallback; with a nil fallback they count as unknown.
func NormalizeRows(rows []f360.RawRow, registry map[string]*company.Company, fallback *company.Company) RowBatch {
	var batch RowBatch

	for _, row := range rows {
		owner := fallback

		if cnpj := company.NormalizeCNPJ(row.CNPJEmpresa); cnpj != "" {
			owner = registry[cnpj]
		}

		if owner == nil {
			batch.Unknown++
			continue
		}

		n, ok := NormalizeRow(row, owner.ID)
		if !ok {
			batch.Dropped++
			continue
		}

		if n.Rule == RuleDefault {
			batch.Defaulted++
			slog.Warn("nature unresolvable, defaulted to expense",
				"company", owner.Name, "account", n.Ledger.Account, "source_id", n.Ledger.SourceID)
		}

		batch.Entries = append(batch.Entries, n.Ledger)
		if n.CashFlow != nil {
			batch.CashFlows = append(batch.CashFlows, *n.CashFlow)
		}
	}

	return batch
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
