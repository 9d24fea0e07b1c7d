package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Nature classifies an income-statement entry. Values are stored as the
// accounting team reads them in the dashboard.
type Nature string

const (
	NatureRevenue Nature = "receita"
	NatureExpense Nature = "despesa"
)

// Direction classifies a cash-flow entry, derived from the nature of
// the ledger entry it originated from.
type Direction string

const (
	DirectionIn  Direction = "entrada"
	DirectionOut Direction = "saida"
)

// DirectionFor maps a ledger nature onto a cash-flow direction.
func DirectionFor(n Nature) Direction {
	if n == NatureRevenue {
		return DirectionIn
	}

	return DirectionOut
}

// Entry is one income-statement (DRE) line. AmountCents is always
// non-negative; the sign lives in Nature.
type Entry struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	Date        time.Time
	Account     string
	Nature      Nature
	AmountCents int64
	Description string
	Source      string
	SourceID    string
	CreatedAt   time.Time
}

// CashFlowEntry is one cash-flow (DFC) line, dated by settlement.
// BankAccount is empty-string, never null, so it can take part in the
// table's uniqueness constraint.
type CashFlowEntry struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	Date        time.Time
	Direction   Direction
	Category    string
	AmountCents int64
	BankAccount string
	Description string
	Source      string
	SourceID    string
	CreatedAt   time.Time
}

type CreateParams struct {
	CompanyID   uuid.UUID
	Date        time.Time
	Account     string
	Nature      Nature
	AmountCents int64
	Description string
	Source      string
	SourceID    string
}

type CashFlowParams struct {
	CompanyID   uuid.UUID
	Date        time.Time
	Direction   Direction
	Category    string
	AmountCents int64
	BankAccount string
	Description string
	Source      string
	SourceID    string
}

type ListFilter struct {
	CompanyID *uuid.UUID
	Nature    *Nature
	StartDate *time.Time
	EndDate   *time.Time
}

type CashFlowFilter struct {
	CompanyID *uuid.UUID
	Direction *Direction
	StartDate *time.Time
	EndDate   *time.Time
}

// DRELine is one month of the income-statement summary.
type DRELine struct {
	Month        time.Time
	RevenueCents int64
	ExpenseCents int64
	NetCents     int64
}

// DFCLine is one month of the cash-flow summary.
type DFCLine struct {
	Month    time.Time
	InCents  int64
	OutCents int64
	NetCents int64
}
