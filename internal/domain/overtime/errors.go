package overtime

import (
	"errors"
	"fmt"
)

// Overtime ledger errors
var (
	ErrEntryNotFound     = errors.New("work entry not found")
	ErrInvalidTimeWindow = errors.New("invalid time window")
	ErrDuplicateEntry    = errors.New("duplicate work entry for this worker, date and time window")
	ErrPaidCapExceeded   = errors.New("monthly paid overtime would exceed the 72 hour cap")

	// ErrNoOvertimeToRecord is a business outcome, not a failure. It is
	// returned wrapped in *NoOvertimeError which carries the breakdown.
	ErrNoOvertimeToRecord = errors.New("no overtime to record")

	// ErrPartialLedgerUpdate means an entry write and its summary increment
	// may have diverged. Requires operator attention.
	ErrPartialLedgerUpdate = errors.New("partial ledger update")
)

// NoOvertimeError explains why an entry produced no overtime.
type NoOvertimeError struct {
	TotalWorkedMinutes   int
	BaseHoursPerDay      float64
	BaseMinutes          int
	LunchDeductedMinutes int
}

func (e *NoOvertimeError) Error() string {
	return fmt.Sprintf("%s: worker worked %dh %dm, which is within the %gh base hours",
		ErrNoOvertimeToRecord, e.TotalWorkedMinutes/60, e.TotalWorkedMinutes%60, e.BaseHoursPerDay)
}

func (e *NoOvertimeError) Is(target error) bool {
	return target == ErrNoOvertimeToRecord
}
