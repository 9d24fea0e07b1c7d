package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bpofin/finsync/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// isDuplicate decides whether an insert failure is a natural-key
// collision. Primary signal is the Postgres unique_violation code; the
// substring fallback covers errors re-wrapped by poolers, at a small
// false-positive risk.
func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	msg := err.Error()

	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

func (s *Store) InsertEntries(ctx context.Context, entries []*ledger.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning insert tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO ledger_entries (company_id, entry_date, account, nature, amount_cents, description, source, source_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, query,
			e.CompanyID,
			e.Date,
			e.Account,
			e.Nature,
			e.AmountCents,
			e.Description,
			e.Source,
			e.SourceID,
		); err != nil {
			if isDuplicate(err) {
				return ledger.ErrDuplicate
			}

			return fmt.Errorf("inserting ledger entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing ledger batch: %w", err)
	}

	return nil
}

func (s *Store) InsertCashFlows(ctx context.Context, entries []*ledger.CashFlowEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning insert tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO cashflow_entries (company_id, entry_date, direction, category, amount_cents, bank_account, description, source, source_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, query,
			e.CompanyID,
			e.Date,
			e.Direction,
			e.Category,
			e.AmountCents,
			e.BankAccount,
			e.Description,
			e.Source,
			e.SourceID,
		); err != nil {
			if isDuplicate(err) {
				return ledger.ErrDuplicate
			}

			return fmt.Errorf("inserting cashflow entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing cashflow batch: %w", err)
	}

	return nil
}

func (s *Store) ListEntries(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Entry, error) {
	query := `
		SELECT id, company_id, entry_date, account, nature, amount_cents, description, source, source_id, created_at
		FROM ledger_entries
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.CompanyID != nil {
		query += fmt.Sprintf(" AND company_id = $%d", argIdx)

		args = append(args, *filter.CompanyID)
		argIdx++
	}

	if filter.Nature != nil {
		query += fmt.Sprintf(" AND nature = $%d", argIdx)

		args = append(args, *filter.Nature)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND entry_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND entry_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY entry_date ASC, account ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry

	for rows.Next() {
		var e ledger.Entry

		var nature string

		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.Date, &e.Account, &nature, &e.AmountCents,
			&e.Description, &e.Source, &e.SourceID, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}

		e.Nature = ledger.Nature(nature)
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledger entries: %w", err)
	}

	return entries, nil
}

func (s *Store) ListCashFlows(ctx context.Context, filter ledger.CashFlowFilter) ([]*ledger.CashFlowEntry, error) {
	query := `
		SELECT id, company_id, entry_date, direction, category, amount_cents, bank_account, description, source, source_id, created_at
		FROM cashflow_entries
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.CompanyID != nil {
		query += fmt.Sprintf(" AND company_id = $%d", argIdx)

		args = append(args, *filter.CompanyID)
		argIdx++
	}

	if filter.Direction != nil {
		query += fmt.Sprintf(" AND direction = $%d", argIdx)

		args = append(args, *filter.Direction)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND entry_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND entry_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY entry_date ASC, category ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing cashflow entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.CashFlowEntry

	for rows.Next() {
		var e ledger.CashFlowEntry

		var direction string

		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.Date, &direction, &e.Category, &e.AmountCents,
			&e.BankAccount, &e.Description, &e.Source, &e.SourceID, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning cashflow entry: %w", err)
		}

		e.Direction = ledger.Direction(direction)
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cashflow entries: %w", err)
	}

	return entries, nil
}

func (s *Store) DRESummary(ctx context.Context, filter ledger.ListFilter) ([]ledger.DRELine, error) {
	query := `
		SELECT date_trunc('month', entry_date) AS month,
			COALESCE(SUM(amount_cents) FILTER (WHERE nature = 'receita'), 0) AS revenue,
			COALESCE(SUM(amount_cents) FILTER (WHERE nature = 'despesa'), 0) AS expense
		FROM ledger_entries
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.CompanyID != nil {
		query += fmt.Sprintf(" AND company_id = $%d", argIdx)

		args = append(args, *filter.CompanyID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND entry_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND entry_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " GROUP BY 1 ORDER BY 1 ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summarizing ledger: %w", err)
	}
	defer rows.Close()

	var lines []ledger.DRELine

	for rows.Next() {
		var l ledger.DRELine
		if err := rows.Scan(&l.Month, &l.RevenueCents, &l.ExpenseCents); err != nil {
			return nil, fmt.Errorf("scanning summary line: %w", err)
		}

		l.NetCents = l.RevenueCents - l.ExpenseCents
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating summary lines: %w", err)
	}

	return lines, nil
}

func (s *Store) DFCSummary(ctx context.Context, filter ledger.CashFlowFilter) ([]ledger.DFCLine, error) {
	query := `
		SELECT date_trunc('month', entry_date) AS month,
			COALESCE(SUM(amount_cents) FILTER (WHERE direction = 'entrada'), 0) AS cash_in,
			COALESCE(SUM(amount_cents) FILTER (WHERE direction = 'saida'), 0) AS cash_out
		FROM cashflow_entries
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.CompanyID != nil {
		query += fmt.Sprintf(" AND company_id = $%d", argIdx)

		args = append(args, *filter.CompanyID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND entry_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND entry_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " GROUP BY 1 ORDER BY 1 ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summarizing cashflow: %w", err)
	}
	defer rows.Close()

	var lines []ledger.DFCLine

	for rows.Next() {
		var l ledger.DFCLine
		if err := rows.Scan(&l.Month, &l.InCents, &l.OutCents); err != nil {
			return nil, fmt.Errorf("scanning summary line: %w", err)
		}

		l.NetCents = l.InCents - l.OutCents
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating summary lines: %w", err)
	}

	return lines, nil
}
