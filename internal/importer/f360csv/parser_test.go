package f360csv_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpofin/finsync/internal/importer/f360csv"
	"github.com/bpofin/finsync/internal/ingest"
	"github.com/bpofin/finsync/internal/ledger"
)

const sampleExport = `Relatório Gerencial;;;;;;
Período: 01/03/2025 a 31/03/2025;;;;;;
Data de Competência;Data de Liquidação;Plano de Contas;Tipo de Plano de Contas;Valor;CNPJ Empresa;Histórico
10/03/2025;12/03/2025;Aluguel;Conta a Pagar;-1.500,50;12.345.678/0001-99;Aluguel março
15/03/2025;;Mensalidade;Conta a Receber;2.000,00;12.345.678/0001-99;Honorários
Total;;;;500,50;;
`

func TestParser_Parse(t *testing.T) {
	rows, err := f360csv.NewParser().Parse(strings.NewReader(sampleExport))
	require.NoError(t, err)
	require.Len(t, rows, 2, "title block and footer are skipped")

	assert.Equal(t, "10/03/2025", rows[0].DataCompetencia)
	assert.Equal(t, "12/03/2025", rows[0].DataLiquidacao)
	assert.Equal(t, "Aluguel", rows[0].NomePlanoDeContas)
	assert.Equal(t, "Conta a Pagar", rows[0].TipoPlanoDeContas)
	assert.Equal(t, "12.345.678/0001-99", rows[0].CNPJEmpresa)

	assert.Equal(t, "", rows[1].DataLiquidacao)
}

func TestParser_ValuedTotalFooterSkipped(t *testing.T) {
	rows, err := f360csv.NewParser().Parse(strings.NewReader(sampleExport))
	require.NoError(t, err)

	// The Total line carries the period sum (500,50) in the value
	// column; it must not surface as an entry.
	for _, row := range rows {
		assert.NotEqual(t, "Total", row.DataCompetencia)
		assert.NotContains(t, string(row.ValorLcto), "500,50")
	}
}

func TestParser_RowsFeedNormalizer(t *testing.T) {
	rows, err := f360csv.NewParser().Parse(strings.NewReader(sampleExport))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	companyID := uuid.New()

	first, ok := ingest.NormalizeRow(rows[0], companyID)
	require.True(t, ok)
	assert.Equal(t, ledger.NatureExpense, first.Ledger.Nature)
	assert.Equal(t, int64(150050), first.Ledger.AmountCents)
	require.NotNil(t, first.CashFlow)
	assert.Equal(t, ledger.DirectionOut, first.CashFlow.Direction)

	second, ok := ingest.NormalizeRow(rows[1], companyID)
	require.True(t, ok)
	assert.Equal(t, ledger.NatureRevenue, second.Ledger.Nature)
	assert.Nil(t, second.CashFlow, "no settlement date in the export row")
}

func TestParser_NoHeader(t *testing.T) {
	_, err := f360csv.NewParser().Parse(strings.NewReader("a;b;c\n1;2;3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no F360 report header")
}
