package executor

import (
	"time"

	engineerrors "github.com/covenantlabs/covenant/covenant/errors"
)

// Costs holds the per-operation gas unit costs and execution limits. The
// values are policy, not protocol; they are configurable through the engine
// component parameters.
type Costs struct {
	Base         uint64
	StorageWrite uint64
	StorageRead  uint64
	Computation  uint64
	Log          uint64

	MaxGasLimit      uint64
	MaxExecutionTime time.Duration
}

// DefaultCosts returns the standard cost table.
func DefaultCosts() Costs {
	return Costs{
		Base:             21_000,
		StorageWrite:     20_000,
		StorageRead:      800,
		Computation:      3,
		Log:              375,
		MaxGasLimit:      10_000_000,
		MaxExecutionTime: 30 * time.Second,
	}
}

// Tracker meters gas for a single execution. It is bound to one execution
// and never shared; charges are strictly ordered before the state mutation
// they pay for.
type Tracker struct {
	executionID string
	limit       uint64
	consumed    uint64
}

// NewTracker creates a tracker with the given budget.
func NewTracker(executionID string, limit uint64) *Tracker {
	return &Tracker{
		executionID: executionID,
		limit:       limit,
	}
}

// Consume charges amount against the budget. On exhaustion the consumed
// total is pinned to the limit, so a failed execution reports
// gasUsed == gasLimit.
func (t *Tracker) Consume(amount uint64) error {
	if t.consumed+amount > t.limit {
		t.consumed = t.limit
		return &engineerrors.OutOfGasError{
			ExecutionID: t.executionID,
			Limit:       t.limit,
			Requested:   amount,
		}
	}
	t.consumed += amount
	return nil
}

// Used returns the gas consumed so far.
func (t *Tracker) Used() uint64 { return t.consumed }

// Remaining returns the gas left in the budget.
func (t *Tracker) Remaining() uint64 { return t.limit - t.consumed }

// Limit returns the execution's gas budget.
func (t *Tracker) Limit() uint64 { return t.limit }
