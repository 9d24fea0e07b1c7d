package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T, batchSize, retries int) (*Service, *MockRepository, *[]time.Duration) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)

	svc := NewService(repo, batchSize, retries)

	var slept []time.Duration

	svc.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	return svc, repo, &slept
}

func makeParams(n int) []CreateParams {
	params := make([]CreateParams, n)
	for i := range params {
		params[i] = CreateParams{
			Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i%28),
			Account:     "Aluguel",
			Nature:      NatureExpense,
			AmountCents: 150050,
			Source:      "f360",
		}
	}

	return params
}

func TestService_ImportEntries_Batching(t *testing.T) {
	svc, repo, _ := newTestService(t, 100, 3)

	var batchSizes []int

	repo.EXPECT().
		InsertEntries(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entries []*Entry) error {
			batchSizes = append(batchSizes, len(entries))
			return nil
		}).
		Times(3)

	stats, err := svc.ImportEntries(context.Background(), makeParams(250))
	require.NoError(t, err)
	assert.Equal(t, 250, stats.Inserted)
	assert.Equal(t, []int{100, 100, 50}, batchSizes)
	assert.Empty(t, stats.Errors)
}

func TestService_ImportEntries_DuplicatesSkipped(t *testing.T) {
	svc, repo, slept := newTestService(t, 100, 3)

	repo.EXPECT().
		InsertEntries(gomock.Any(), gomock.Any()).
		Return(ErrDuplicate)

	stats, err := svc.ImportEntries(context.Background(), makeParams(40))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Inserted)
	assert.Equal(t, 40, stats.Skipped)
	assert.Empty(t, stats.Errors)
	assert.Empty(t, *slept, "duplicates must not be retried")
}

func TestService_ImportEntries_RetryThenSuccess(t *testing.T) {
	svc, repo, slept := newTestService(t, 100, 3)

	gomock.InOrder(
		repo.EXPECT().InsertEntries(gomock.Any(), gomock.Any()).Return(errors.New("connection reset")),
		repo.EXPECT().InsertEntries(gomock.Any(), gomock.Any()).Return(nil),
	)

	stats, err := svc.ImportEntries(context.Background(), makeParams(10))
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Inserted)
	assert.Equal(t, []time.Duration{time.Second}, *slept, "linear backoff starts at 1s")
}

func TestService_ImportEntries_RetriesExhausted(t *testing.T) {
	svc, repo, slept := newTestService(t, 100, 3)

	repo.EXPECT().
		InsertEntries(gomock.Any(), gomock.Any()).
		Return(errors.New("boom")).
		Times(3)

	stats, err := svc.ImportEntries(context.Background(), makeParams(10))
	require.NoError(t, err, "a dropped batch is a warning, not a failure")
	assert.Equal(t, 10, stats.Dropped)
	require.Len(t, stats.Errors, 1)

	var perr *PersistenceError
	require.ErrorAs(t, stats.Errors[0], &perr)
	assert.Equal(t, "ledger_entries", perr.Table)
	assert.Equal(t, 10, perr.Rows)

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *slept)
}

func TestService_ImportEntries_Cancelled(t *testing.T) {
	svc, repo, _ := newTestService(t, 100, 3)

	ctx, cancel := context.WithCancel(context.Background())

	repo.EXPECT().
		InsertEntries(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, []*Entry) error {
			cancel()
			return errors.New("connection reset")
		})

	_, err := svc.ImportEntries(ctx, makeParams(10))
	require.ErrorIs(t, err, context.Canceled)
}

func TestService_ImportCashFlows_DuplicatesSkipped(t *testing.T) {
	svc, repo, _ := newTestService(t, 100, 3)

	repo.EXPECT().
		InsertCashFlows(gomock.Any(), gomock.Any()).
		Return(ErrDuplicate)

	params := []CashFlowParams{{
		Date:        time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Direction:   DirectionOut,
		Category:    "Aluguel",
		AmountCents: 150050,
		Source:      "f360",
	}}

	stats, err := svc.ImportCashFlows(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)
}

func TestDirectionFor(t *testing.T) {
	assert.Equal(t, DirectionIn, DirectionFor(NatureRevenue))
	assert.Equal(t, DirectionOut, DirectionFor(NatureExpense))
}
