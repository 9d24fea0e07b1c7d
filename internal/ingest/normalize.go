package ingest

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bpofin/finsync/internal/f360"
	"github.com/bpofin/finsync/internal/ledger"
)

const (
	// Downstream text columns are varchar(500).
	maxTextLen = 500

	// SourceF360 tags entries imported through the ERP API or its CSV
	// exports.
	SourceF360 = "f360"
)

// Normalized is the one or two records a surviving raw row maps to.
// CashFlow is nil when the row has no settlement date.
type Normalized struct {
	Ledger   ledger.CreateParams
	CashFlow *ledger.CashFlowParams
	Rule     string
}

// NormalizeRow maps a raw report row onto the target record shapes.
// Rows with a zero amount or without a usable competence/lct date are
// dropped (ok=false).
func NormalizeRow(row f360.RawRow, companyID uuid.UUID) (Normalized, bool) {
	cents, ok := parseAmountCents(string(row.ValorLcto))
	if !ok || cents == 0 {
		return Normalized{}, false
	}

	date, ok := parseDay(row.DataCompetencia)
	if !ok {
		date, ok = parseDay(row.DataLcto)
	}

	if !ok {
		return Normalized{}, false
	}

	nature, rule := ClassifyNature(row)

	if cents < 0 {
		cents = -cents
	}

	account := truncate(strings.TrimSpace(row.NomePlanoDeContas), maxTextLen)
	description := truncate(strings.TrimSpace(row.Historico), maxTextLen)

	n := Normalized{
		Ledger: ledger.CreateParams{
			CompanyID:   companyID,
			Date:        date,
			Account:     account,
			Nature:      nature,
			AmountCents: cents,
			Description: description,
			Source:      SourceF360,
			SourceID:    strings.TrimSpace(row.NumeroTitulo),
		},
		Rule: rule,
	}

	if settled, ok := parseDay(row.DataLiquidacao); ok {
		n.CashFlow = &ledger.CashFlowParams{
			CompanyID:   companyID,
			Date:        settled,
			Direction:   ledger.DirectionFor(nature),
			Category:    account,
			AmountCents: cents,
			BankAccount: "",
			Description: description,
			Source:      SourceF360,
			SourceID:    strings.TrimSpace(row.NumeroTitulo),
		}
	}

	return n, true
}

// parseAmountCents reads the ERP's amount field, which arrives either
// as a JSON number or as a quoted string, in dot-decimal ("-1500.50")
// or pt-BR ("1.234,56") notation.
func parseAmountCents(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"`)

	if s == "" || s == "null" {
		return 0, false
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), true
}

var dayLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.DateOnly,
	"02/01/2006",
}

// parseDay parses a date in any of the formats the ERP emits and
// discards the time-of-day component.
func parseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dayLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}

		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}

	return string(r[:max])
}
