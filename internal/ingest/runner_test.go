package ingest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bpofin/finsync/internal/company"
	"github.com/bpofin/finsync/internal/f360"
	"github.com/bpofin/finsync/internal/ledger"
)

func testRange() DateRange {
	return DateRange{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func newTestRunner(t *testing.T) (*Runner, *MockReportClient, *ledger.MockRepository, *int) {
	t.Helper()

	ctrl := gomock.NewController(t)
	erp := NewMockReportClient(ctrl)
	repo := ledger.NewMockRepository(ctrl)

	r := NewRunner(erp, ledger.NewService(repo, 100, 3), 3*time.Second)

	var sleeps int

	r.sleep = func(context.Context, time.Duration) error {
		sleeps++
		return nil
	}

	return r, erp, repo, &sleeps
}

func expenseRow(cnpj string) f360.RawRow {
	return f360.RawRow{
		DataCompetencia:   "2025-03-10T00:00:00",
		DataLiquidacao:    "2025-03-12T00:00:00",
		ValorLcto:         json.RawMessage(`"-1500.50"`),
		TipoPlanoDeContas: "Conta a Pagar",
		NomePlanoDeContas: "Aluguel",
		CNPJEmpresa:       cnpj,
	}
}

func TestRunner_PartialFailureIsolation(t *testing.T) {
	r, erp, repo, sleeps := newTestRunner(t)

	companies := []*company.Company{
		{ID: uuid.New(), CNPJ: "11111111000111", Name: "A"},
		{ID: uuid.New(), CNPJ: "22222222000122", Name: "B"},
		{ID: uuid.New(), CNPJ: "33333333000133", Name: "C"},
	}

	handleFor := map[string]f360.ReportHandle{
		"11111111000111": {ID: "rep-a"},
		"33333333000133": {ID: "rep-c"},
	}

	erp.EXPECT().
		RequestReport(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req f360.ReportRequest) (f360.ReportHandle, error) {
			require.Len(t, req.CNPJs, 1)

			if req.CNPJs[0] == "22222222000122" {
				return f360.ReportHandle{}, &f360.AuthenticationError{Status: 500, Body: "login broke"}
			}

			return handleFor[req.CNPJs[0]], nil
		}).
		Times(3)

	erp.EXPECT().
		AwaitReport(gomock.Any(), f360.ReportHandle{ID: "rep-a"}).
		Return([]f360.RawRow{expenseRow("11.111.111/0001-11")}, nil)
	erp.EXPECT().
		AwaitReport(gomock.Any(), f360.ReportHandle{ID: "rep-c"}).
		Return([]f360.RawRow{expenseRow("")}, nil)

	repo.EXPECT().InsertEntries(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	repo.EXPECT().InsertCashFlows(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	summary := r.Run(context.Background(), companies, testRange())

	assert.Equal(t, 3, summary.CompaniesTotal)
	assert.Equal(t, 2, summary.CompaniesProcessed)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "B", summary.Errors[0].Company)
	assert.Equal(t, 2, summary.LedgerInserted)
	assert.Equal(t, 2, summary.CashFlowInserted)
	assert.Equal(t, 2, *sleeps, "inter-company delay applies between companies, not after the last")
}

func TestRunner_UnknownCompanyRowsSkipped(t *testing.T) {
	r, erp, _, _ := newTestRunner(t)

	companies := []*company.Company{
		{ID: uuid.New(), CNPJ: "11111111000111", Name: "A"},
	}

	erp.EXPECT().
		RequestReport(gomock.Any(), gomock.Any()).
		Return(f360.ReportHandle{ID: "rep"}, nil)
	erp.EXPECT().
		AwaitReport(gomock.Any(), gomock.Any()).
		Return([]f360.RawRow{expenseRow("99.999.999/0001-99")}, nil)

	summary := r.Run(context.Background(), companies, testRange())

	assert.Equal(t, 1, summary.CompaniesProcessed)
	assert.Equal(t, 1, summary.RowsUnknownCompany)
	assert.Equal(t, 0, summary.LedgerInserted)
}

func TestRunner_NothingToGenerate(t *testing.T) {
	r, erp, _, _ := newTestRunner(t)

	companies := []*company.Company{
		{ID: uuid.New(), CNPJ: "11111111000111", Name: "A"},
	}

	erp.EXPECT().
		RequestReport(gomock.Any(), gomock.Any()).
		Return(f360.ReportHandle{}, nil)

	summary := r.Run(context.Background(), companies, testRange())

	assert.Equal(t, 1, summary.CompaniesProcessed)
	assert.Empty(t, summary.Errors)
}

func TestRunner_RerunSkipsDuplicates(t *testing.T) {
	r, erp, repo, _ := newTestRunner(t)

	companies := []*company.Company{
		{ID: uuid.New(), CNPJ: "11111111000111", Name: "A"},
	}

	erp.EXPECT().
		RequestReport(gomock.Any(), gomock.Any()).
		Return(f360.ReportHandle{ID: "rep"}, nil)
	erp.EXPECT().
		AwaitReport(gomock.Any(), gomock.Any()).
		Return([]f360.RawRow{expenseRow("11111111000111")}, nil)

	repo.EXPECT().InsertEntries(gomock.Any(), gomock.Any()).Return(ledger.ErrDuplicate)
	repo.EXPECT().InsertCashFlows(gomock.Any(), gomock.Any()).Return(ledger.ErrDuplicate)

	summary := r.Run(context.Background(), companies, testRange())

	assert.Equal(t, 1, summary.CompaniesProcessed)
	assert.Equal(t, 0, summary.LedgerInserted)
	assert.Equal(t, 1, summary.LedgerSkipped)
	assert.Equal(t, 1, summary.CashFlowSkipped)
	assert.Empty(t, summary.Errors, "re-imports must not be treated as failures")
}

func TestRunner_DroppedRowsCounted(t *testing.T) {
	r, erp, _, _ := newTestRunner(t)

	companies := []*company.Company{
		{ID: uuid.New(), CNPJ: "11111111000111", Name: "A"},
	}

	zeroRow := f360.RawRow{
		DataCompetencia: "2025-03-10T00:00:00",
		ValorLcto:       json.RawMessage(`0`),
	}

	erp.EXPECT().
		RequestReport(gomock.Any(), gomock.Any()).
		Return(f360.ReportHandle{ID: "rep"}, nil)
	erp.EXPECT().
		AwaitReport(gomock.Any(), gomock.Any()).
		Return([]f360.RawRow{zeroRow}, nil)

	summary := r.Run(context.Background(), companies, testRange())

	assert.Equal(t, 1, summary.RowsDropped)
	assert.Equal(t, 0, summary.LedgerInserted)
}
