package ingest

import (
	"bytes"
	"strings"

	"github.com/bpofin/finsync/internal/f360"
	"github.com/bpofin/finsync/internal/ledger"
)

// The ERP exposes different fields depending on how the report was
// configured, so nature classification degrades through increasingly
// weak heuristics. Rules run top to bottom; the first match wins.
type natureRule struct {
	name  string
	apply func(row f360.RawRow) (ledger.Nature, bool)
}

// RuleDefault marks rows no heuristic could resolve. They classify as
// expense, mirroring the source system; the runner logs them for
// manual review.
const RuleDefault = "default"

var natureRules = []natureRule{
	{name: "account-type-label", apply: byAccountTypeLabel},
	{name: "type-flag", apply: byTypeFlag},
	{name: "debit-credit", apply: byDebitCredit},
	{name: "account-name", apply: byAccountName},
}

// ClassifyNature determines whether a row is revenue or expense and
// reports which rule decided it.
func ClassifyNature(row f360.RawRow) (ledger.Nature, string) {
	for _, r := range natureRules {
		if nature, ok := r.apply(row); ok {
			return nature, r.name
		}
	}

	return ledger.NatureExpense, RuleDefault
}

func byAccountTypeLabel(row f360.RawRow) (ledger.Nature, bool) {
	label := strings.ToLower(row.TipoPlanoDeContas)

	switch {
	case containsAny(label, "receber", "receita"):
		return ledger.NatureRevenue, true
	case containsAny(label, "pagar", "despesa"):
		return ledger.NatureExpense, true
	}

	return "", false
}

// byTypeFlag reads the Tipo field, which shows up as a JSON bool or as
// the strings "true"/"false" depending on the export path.
func byTypeFlag(row f360.RawRow) (ledger.Nature, bool) {
	switch string(bytes.ToLower(bytes.Trim(row.Tipo, `" `))) {
	case "true":
		return ledger.NatureRevenue, true
	case "false":
		return ledger.NatureExpense, true
	}

	return "", false
}

func byDebitCredit(row f360.RawRow) (ledger.Nature, bool) {
	credit := strings.TrimSpace(row.ContaCredito)
	debit := strings.TrimSpace(row.ContaDebito)

	switch {
	case credit != "" && debit == "":
		return ledger.NatureRevenue, true
	case debit != "" && credit == "":
		return ledger.NatureExpense, true
	}

	return "", false
}

func byAccountName(row f360.RawRow) (ledger.Nature, bool) {
	name := strings.ToLower(row.NomePlanoDeContas)

	switch {
	case containsAny(name, "receita", "venda", "faturamento"):
		return ledger.NatureRevenue, true
	case containsAny(name, "despesa", "custo", "pagamento"):
		return ledger.NatureExpense, true
	}

	return "", false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}
