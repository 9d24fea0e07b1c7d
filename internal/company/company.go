// Package company is the read-only registry of the BPO's client
// companies. Imported rows resolve their CNPJ against it; rows for
// unknown companies are skipped.
package company

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("company: not found")

type Company struct {
	ID   uuid.UUID
	CNPJ string
	Name string
}

// NormalizeCNPJ strips formatting from a CNPJ, keeping digits only.
// "12.345.678/0001-99" becomes "12345678000199".
func NormalizeCNPJ(s string) string {
	var b strings.Builder

	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

//go:generate mockgen -source=company.go -destination=repository_mock.go -package=company
type Repository interface {
	FindByCNPJ(ctx context.Context, cnpj string) (*Company, error)
	List(ctx context.Context) ([]*Company, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Lookup resolves a CNPJ in any formatting to a registered company.
func (s *Service) Lookup(ctx context.Context, cnpj string) (*Company, error) {
	return s.repo.FindByCNPJ(ctx, NormalizeCNPJ(cnpj))
}

func (s *Service) List(ctx context.Context) ([]*Company, error) {
	return s.repo.List(ctx)
}
