package overtime

import (
	"time"
)

const (
	// PaidLimitMinutes is the monthly paid-overtime ceiling (72 hours).
	// Historical data is checked against this value; do not change it without a migration note.
	PaidLimitMinutes = 72 * 60

	// LunchBreakMinutes is deducted from an entry when DeductLunch is set.
	LunchBreakMinutes = 60

	// DefaultBaseHoursPerDay applies when a worker has no base hours recorded.
	DefaultBaseHoursPerDay = 8.0
)

// WorkEntry is one clock-in/clock-out record. Derived minute fields are
// computed at write time and never recomputed lazily.
type WorkEntry struct {
	ID                  string
	WorkerID            string
	Date                time.Time // naive calendar date at midnight UTC
	StartTime           string    // HH:MM
	EndTime             string    // HH:MM
	DeductLunch         bool
	TotalWorkedMinutes  int
	BaseMinutesDeducted int
	OvertimeMinutes     int
	PaidMinutes         int
	UnpaidMinutes       int
	Month               int
	Year                int
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// DTO / Join
	WorkerName       *string
	WorkerDepartment *string
}

// Key returns the aggregation key the entry contributes to.
func (e WorkEntry) Key() SummaryKey {
	return SummaryKey{WorkerID: e.WorkerID, Month: e.Month, Year: e.Year}
}

// Contribution is what the entry adds to its monthly summary.
func (e WorkEntry) Contribution() SummaryDelta {
	return SummaryDelta{
		OvertimeMinutes: e.OvertimeMinutes,
		PaidMinutes:     e.PaidMinutes,
		UnpaidMinutes:   e.UnpaidMinutes,
	}
}

// SummaryKey identifies one MonthlySummary row.
type SummaryKey struct {
	WorkerID string
	Month    int
	Year     int
}

// MonthlySummary is the denormalized rollup for one (worker, month, year).
type MonthlySummary struct {
	ID                   string
	WorkerID             string
	Month                int
	Year                 int
	TotalOvertimeMinutes int
	TotalPaidMinutes     int
	TotalUnpaidMinutes   int
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// DTO / Join
	WorkerName         *string
	WorkerEmployeeCode *string
	WorkerDepartment   *string
}

func (s MonthlySummary) Key() SummaryKey {
	return SummaryKey{WorkerID: s.WorkerID, Month: s.Month, Year: s.Year}
}

// Totals returns the summary counters as a delta from zero.
func (s MonthlySummary) Totals() SummaryDelta {
	return SummaryDelta{
		OvertimeMinutes: s.TotalOvertimeMinutes,
		PaidMinutes:     s.TotalPaidMinutes,
		UnpaidMinutes:   s.TotalUnpaidMinutes,
	}
}

// RemainingPaidMinutes is the paid allowance left in the month.
func (s MonthlySummary) RemainingPaidMinutes() int {
	return RemainingPaid(s.TotalPaidMinutes)
}

// RemainingPaid returns the paid allowance left after alreadyPaid minutes.
func RemainingPaid(alreadyPaid int) int {
	return max(PaidLimitMinutes-alreadyPaid, 0)
}

// SummaryDelta is an increment applied to a MonthlySummary.
type SummaryDelta struct {
	OvertimeMinutes int
	PaidMinutes     int
	UnpaidMinutes   int
}

func (d SummaryDelta) Negate() SummaryDelta {
	return SummaryDelta{
		OvertimeMinutes: -d.OvertimeMinutes,
		PaidMinutes:     -d.PaidMinutes,
		UnpaidMinutes:   -d.UnpaidMinutes,
	}
}

func (d SummaryDelta) Sub(o SummaryDelta) SummaryDelta {
	return SummaryDelta{
		OvertimeMinutes: d.OvertimeMinutes - o.OvertimeMinutes,
		PaidMinutes:     d.PaidMinutes - o.PaidMinutes,
		UnpaidMinutes:   d.UnpaidMinutes - o.UnpaidMinutes,
	}
}

func (d SummaryDelta) Add(o SummaryDelta) SummaryDelta {
	return d.Sub(o.Negate())
}

func (d SummaryDelta) IsZero() bool {
	return d == SummaryDelta{}
}

// WorkWindow is a resolved start/end pair on a calendar date.
type WorkWindow struct {
	Date                 time.Time
	Start                time.Time
	End                  time.Time
	StartClock           string
	EndClock             string
	Overnight            bool
	LunchDeductedMinutes int
	TotalWorkedMinutes   int
}

// Split is the overtime breakdown of a single entry against the monthly cap.
type Split struct {
	BaseMinutes          int
	OvertimeMinutes      int
	PaidMinutes          int
	UnpaidMinutes        int
	RemainingPaidMinutes int // allowance before this entry
}
