package ingest_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bpofin/finsync/internal/f360"
	"github.com/bpofin/finsync/internal/ingest"
	"github.com/bpofin/finsync/internal/ledger"
)

func TestClassifyNature(t *testing.T) {
	tests := []struct {
		name     string
		row      f360.RawRow
		want     ledger.Nature
		wantRule string
	}{
		{
			name:     "TypeLabelReceber",
			row:      f360.RawRow{TipoPlanoDeContas: "Conta a Receber"},
			want:     ledger.NatureRevenue,
			wantRule: "account-type-label",
		},
		{
			name:     "TypeLabelPagar",
			row:      f360.RawRow{TipoPlanoDeContas: "Conta a Pagar"},
			want:     ledger.NatureExpense,
			wantRule: "account-type-label",
		},
		{
			name:     "TypeLabelCaseInsensitive",
			row:      f360.RawRow{TipoPlanoDeContas: "RECEITA OPERACIONAL"},
			want:     ledger.NatureRevenue,
			wantRule: "account-type-label",
		},
		{
			name: "LabelWinsOverConflictingFlag",
			row: f360.RawRow{
				TipoPlanoDeContas: "Conta a Pagar",
				Tipo:              json.RawMessage(`true`),
			},
			want:     ledger.NatureExpense,
			wantRule: "account-type-label",
		},
		{
			name:     "BoolFlagTrue",
			row:      f360.RawRow{Tipo: json.RawMessage(`true`)},
			want:     ledger.NatureRevenue,
			wantRule: "type-flag",
		},
		{
			name:     "StringFlagFalse",
			row:      f360.RawRow{Tipo: json.RawMessage(`"false"`)},
			want:     ledger.NatureExpense,
			wantRule: "type-flag",
		},
		{
			name:     "CreditOnly",
			row:      f360.RawRow{ContaCredito: "Banco Itau"},
			want:     ledger.NatureRevenue,
			wantRule: "debit-credit",
		},
		{
			name:     "DebitOnly",
			row:      f360.RawRow{ContaDebito: "Banco Itau"},
			want:     ledger.NatureExpense,
			wantRule: "debit-credit",
		},
		{
			name:     "BothAccountsFallsThrough",
			row:      f360.RawRow{ContaDebito: "A", ContaCredito: "B", NomePlanoDeContas: "Venda de Servicos"},
			want:     ledger.NatureRevenue,
			wantRule: "account-name",
		},
		{
			name:     "AccountNameCusto",
			row:      f360.RawRow{NomePlanoDeContas: "Custo com Pessoal"},
			want:     ledger.NatureExpense,
			wantRule: "account-name",
		},
		{
			name:     "NothingResolvesDefaultsToExpense",
			row:      f360.RawRow{NomePlanoDeContas: "Ajustes Diversos"},
			want:     ledger.NatureExpense,
			wantRule: ingest.RuleDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := ingest.ClassifyNature(tt.row)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRule, rule)
		})
	}
}
