package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bpofin/finsync/internal/company"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindByCNPJ(ctx context.Context, cnpj string) (*company.Company, error) {
	query := `SELECT id, cnpj, name FROM companies WHERE cnpj = $1`

	var c company.Company
	if err := s.db.QueryRowContext(ctx, query, cnpj).Scan(&c.ID, &c.CNPJ, &c.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, company.ErrNotFound
		}

		return nil, fmt.Errorf("finding company: %w", err)
	}

	return &c, nil
}

func (s *Store) List(ctx context.Context) ([]*company.Company, error) {
	query := `SELECT id, cnpj, name FROM companies ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	var companies []*company.Company

	for rows.Next() {
		var c company.Company
		if err := rows.Scan(&c.ID, &c.CNPJ, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}

		companies = append(companies, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating companies: %w", err)
	}

	return companies, nil
}
