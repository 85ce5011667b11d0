package overtime

import (
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

// ResolveWindow turns a calendar date and a start/end clock pair into worked
// minutes. An end that is not strictly after the start rolls over to the
// next day. Dates are naive and anchored at midnight UTC.
func ResolveWindow(date, start, end string, deductLunch bool) (overtime.WorkWindow, error) {
	day, ok := validator.IsValidDate(date)
	if !ok {
		return overtime.WorkWindow{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", overtime.ErrInvalidTimeWindow, date)
	}

	startOffset, startClock, err := parseClock(start)
	if err != nil {
		return overtime.WorkWindow{}, fmt.Errorf("%w: start_time %q must be HH:MM", overtime.ErrInvalidTimeWindow, start)
	}
	endOffset, endClock, err := parseClock(end)
	if err != nil {
		return overtime.WorkWindow{}, fmt.Errorf("%w: end_time %q must be HH:MM", overtime.ErrInvalidTimeWindow, end)
	}

	startAt := day.Add(startOffset)
	endAt := day.Add(endOffset)
	overnight := false
	if !endAt.After(startAt) {
		endAt = endAt.Add(24 * time.Hour)
		overnight = true
	}

	worked := int(math.Round(endAt.Sub(startAt).Minutes()))
	lunch := 0
	if deductLunch {
		lunch = min(overtime.LunchBreakMinutes, worked)
		worked -= lunch
	}

	return overtime.WorkWindow{
		Date:                 day,
		Start:                startAt,
		End:                  endAt,
		StartClock:           startClock,
		EndClock:             endClock,
		Overnight:            overnight,
		LunchDeductedMinutes: lunch,
		TotalWorkedMinutes:   worked,
	}, nil
}

// parseClock returns the offset from midnight and the canonical clock text.
// The canonical form is HH:MM, widened to HH:MM:SS only for a non-zero
// second, so one instant always maps to one string.
func parseClock(clock string) (time.Duration, string, error) {
	if !validator.IsValidClock(clock) {
		return 0, "", fmt.Errorf("invalid clock %q", clock)
	}

	layout := "15:04"
	if len(clock) == len("15:04:05") {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, clock)
	if err != nil {
		return 0, "", err
	}

	offset := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
	canonical := "15:04"
	if t.Second() != 0 {
		canonical = "15:04:05"
	}
	return offset, t.Format(canonical), nil
}
