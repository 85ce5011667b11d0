package overtime

import (
	"math"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
)

// BaseMinutes converts a worker's daily base hours to minutes, falling back
// to the default when the worker has none recorded.
func BaseMinutes(baseHoursPerDay float64) int {
	if baseHoursPerDay <= 0 {
		baseHoursPerDay = overtime.DefaultBaseHoursPerDay
	}
	return int(math.Round(baseHoursPerDay * 60))
}

// SplitOvertime divides the overtime of one entry into paid and unpaid
// minutes given what has already been paid in the month. It returns a
// *overtime.NoOvertimeError when the entry does not exceed base hours.
func SplitOvertime(window overtime.WorkWindow, baseHoursPerDay float64, alreadyPaid int) (overtime.Split, error) {
	if baseHoursPerDay <= 0 {
		baseHoursPerDay = overtime.DefaultBaseHoursPerDay
	}
	base := BaseMinutes(baseHoursPerDay)

	ot := max(window.TotalWorkedMinutes-base, 0)
	if ot == 0 {
		return overtime.Split{}, &overtime.NoOvertimeError{
			TotalWorkedMinutes:   window.TotalWorkedMinutes,
			BaseHoursPerDay:      baseHoursPerDay,
			BaseMinutes:          base,
			LunchDeductedMinutes: window.LunchDeductedMinutes,
		}
	}

	remaining := overtime.RemainingPaid(alreadyPaid)
	paid := min(ot, remaining)

	return overtime.Split{
		BaseMinutes:          base,
		OvertimeMinutes:      ot,
		PaidMinutes:          paid,
		UnpaidMinutes:        ot - paid,
		RemainingPaidMinutes: remaining,
	}, nil
}
