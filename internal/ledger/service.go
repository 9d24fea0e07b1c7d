package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	InsertEntries(ctx context.Context, entries []*Entry) error
	InsertCashFlows(ctx context.Context, entries []*CashFlowEntry) error

	ListEntries(ctx context.Context, filter ListFilter) ([]*Entry, error)
	ListCashFlows(ctx context.Context, filter CashFlowFilter) ([]*CashFlowEntry, error)

	DRESummary(ctx context.Context, filter ListFilter) ([]DRELine, error)
	DFCSummary(ctx context.Context, filter CashFlowFilter) ([]DFCLine, error)
}

const (
	defaultBatchSize     = 100
	defaultUpsertRetries = 3
	retryBackoffStep     = time.Second
)

// Service persists normalized entries in duplicate-tolerant batches and
// serves the dashboard's read queries.
type Service struct {
	repo      Repository
	batchSize int
	retries   int

	// Injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewService(repo Repository, batchSize, retries int) *Service {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	if retries <= 0 {
		retries = defaultUpsertRetries
	}

	return &Service{
		repo:      repo,
		batchSize: batchSize,
		retries:   retries,
		sleep:     sleepCtx,
	}
}

// UpsertStats summarizes one ImportEntries/ImportCashFlows call. Row
// counts, not batch counts: a skipped 100-row batch adds 100 to Skipped.
type UpsertStats struct {
	Inserted int
	Skipped  int
	Dropped  int
	Errors   []error
}

func (s *UpsertStats) add(o UpsertStats) {
	s.Inserted += o.Inserted
	s.Skipped += o.Skipped
	s.Dropped += o.Dropped
	s.Errors = append(s.Errors, o.Errors...)
}

// ImportEntries writes ledger entries in batches. Duplicate-key
// collisions are counted as skipped; other failures are retried with
// linearly increasing backoff and, once the retries are spent, the
// batch is dropped with a warning. Only context cancellation aborts
// the call.
func (s *Service) ImportEntries(ctx context.Context, params []CreateParams) (UpsertStats, error) {
	var stats UpsertStats

	for i := 0; i < len(params); i += s.batchSize {
		batch := params[i:min(i+s.batchSize, len(params))]
		entries := paramsToEntries(batch)

		res, err := s.writeBatch(ctx, "ledger_entries", i/s.batchSize, len(batch), func() error {
			return s.repo.InsertEntries(ctx, entries)
		})
		if err != nil {
			return stats, err
		}

		stats.add(res)
	}

	return stats, nil
}

// ImportCashFlows is ImportEntries for the cash-flow table.
func (s *Service) ImportCashFlows(ctx context.Context, params []CashFlowParams) (UpsertStats, error) {
	var stats UpsertStats

	for i := 0; i < len(params); i += s.batchSize {
		batch := params[i:min(i+s.batchSize, len(params))]
		entries := paramsToCashFlows(batch)

		res, err := s.writeBatch(ctx, "cashflow_entries", i/s.batchSize, len(batch), func() error {
			return s.repo.InsertCashFlows(ctx, entries)
		})
		if err != nil {
			return stats, err
		}

		stats.add(res)
	}

	return stats, nil
}

// writeBatch runs one batch write through the retry/duplicate policy.
// The returned error is non-nil only for context cancellation.
func (s *Service) writeBatch(ctx context.Context, table string, batchIdx, rows int, write func() error) (UpsertStats, error) {
	var lastErr error

	for attempt := 1; attempt <= s.retries; attempt++ {
		err := write()
		if err == nil {
			return UpsertStats{Inserted: rows}, nil
		}

		if errors.Is(err, ErrDuplicate) {
			return UpsertStats{Skipped: rows}, nil
		}

		if ctx.Err() != nil {
			return UpsertStats{}, ctx.Err()
		}

		lastErr = err

		if attempt == s.retries {
			break
		}

		if err := s.sleep(ctx, time.Duration(attempt)*retryBackoffStep); err != nil {
			return UpsertStats{}, err
		}
	}

	perr := &PersistenceError{Table: table, Batch: batchIdx, Rows: rows, Err: lastErr}
	slog.Warn("dropping batch after retries", "table", table, "batch", batchIdx, "rows", rows, "error", lastErr)

	return UpsertStats{Dropped: rows, Errors: []error{perr}}, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	return s.repo.ListEntries(ctx, filter)
}

func (s *Service) ListCashFlows(ctx context.Context, filter CashFlowFilter) ([]*CashFlowEntry, error) {
	return s.repo.ListCashFlows(ctx, filter)
}

func (s *Service) DRESummary(ctx context.Context, filter ListFilter) ([]DRELine, error) {
	return s.repo.DRESummary(ctx, filter)
}

func (s *Service) DFCSummary(ctx context.Context, filter CashFlowFilter) ([]DFCLine, error) {
	return s.repo.DFCSummary(ctx, filter)
}

func paramsToEntries(params []CreateParams) []*Entry {
	entries := make([]*Entry, len(params))
	for i, p := range params {
		entries[i] = &Entry{
			CompanyID:   p.CompanyID,
			Date:        p.Date,
			Account:     p.Account,
			Nature:      p.Nature,
			AmountCents: p.AmountCents,
			Description: p.Description,
			Source:      p.Source,
			SourceID:    p.SourceID,
		}
	}

	return entries
}

func paramsToCashFlows(params []CashFlowParams) []*CashFlowEntry {
	entries := make([]*CashFlowEntry, len(params))
	for i, p := range params {
		entries[i] = &CashFlowEntry{
			CompanyID:   p.CompanyID,
			Date:        p.Date,
			Direction:   p.Direction,
			Category:    p.Category,
			AmountCents: p.AmountCents,
			BankAccount: p.BankAccount,
			Description: p.Description,
			Source:      p.Source,
			SourceID:    p.SourceID,
		}
	}

	return entries
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
