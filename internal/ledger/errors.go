package ledger

import (
	"errors"
	"fmt"
)

// ErrDuplicate is returned by stores when an insert collides with the
// natural-key uniqueness constraint. Re-runs over the same date range
// are expected to collide; callers treat this as a no-op.
var ErrDuplicate = errors.New("ledger: duplicate entry")

// PersistenceError records a batch that was dropped after the write
// retries were exhausted. It is a warning condition, not fatal to the
// import run.
type PersistenceError struct {
	Table string
	Batch int
	Rows  int
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger: dropped batch %d (%d rows) for %s: %v", e.Batch, e.Rows, e.Table, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
