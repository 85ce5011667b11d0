package overtime

import (
	"math"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/validator"
)

type AddEntryRequest struct {
	WorkerID    string `json:"worker_id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	DeductLunch *bool  `json:"deduct_lunch,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Validate only checks presence. Date and clock formats are checked by the
// window resolver so that malformed values surface as ErrInvalidTimeWindow.
func (r *AddEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id is required",
		})
	}
	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	}
	if validator.IsEmpty(r.StartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time is required",
		})
	}
	if validator.IsEmpty(r.EndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time is required",
		})
	}
	if len(r.Notes) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ShouldDeductLunch defaults to true when the flag is omitted.
func (r *AddEntryRequest) ShouldDeductLunch() bool {
	return r.DeductLunch == nil || *r.DeductLunch
}

// UpdateEntryRequest changes the window of an existing entry. The date is
// fixed because the entry's summary key must not move.
type UpdateEntryRequest struct {
	ID          string  `json:"-"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	DeductLunch *bool   `json:"deduct_lunch,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func (r *UpdateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.StartTime != nil && validator.IsEmpty(*r.StartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must not be empty",
		})
	}
	if r.EndTime != nil && validator.IsEmpty(*r.EndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must not be empty",
		})
	}
	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EntryFilter narrows entry listings. Month and Year must be given together.
type EntryFilter struct {
	Month      *int
	Year       *int
	Department *string
}

func (f EntryFilter) Validate() error {
	var errs validator.ValidationErrors

	if (f.Month == nil) != (f.Year == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month and year must be provided together",
		})
	}
	if f.Month != nil && !validator.IsValidMonth(*f.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be a number between 1 and 12",
		})
	}
	if f.Year != nil && !validator.IsValidYear(*f.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a four digit number",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BreakdownResponse struct {
	TotalWorkedMinutes   int     `json:"total_worked_minutes"`
	TotalWorkedHours     float64 `json:"total_worked_hours"`
	LunchDeductedMinutes int     `json:"lunch_deducted_minutes"`
	BaseHoursPerDay      float64 `json:"base_hours_per_day"`
	BaseMinutesDeducted  int     `json:"base_minutes_deducted"`
	OvertimeMinutes      int     `json:"overtime_minutes"`
	PaidMinutes          int     `json:"paid_minutes"`
	UnpaidMinutes        int     `json:"unpaid_minutes"`
	Overnight            bool    `json:"overnight"`
}

type EntryResponse struct {
	ID                  string  `json:"id"`
	WorkerID            string  `json:"worker_id"`
	WorkerName          *string `json:"worker_name,omitempty"`
	WorkerDepartment    *string `json:"worker_department,omitempty"`
	Date                string  `json:"date"`
	StartTime           string  `json:"start_time"`
	EndTime             string  `json:"end_time"`
	DeductLunch         bool    `json:"deduct_lunch"`
	TotalWorkedMinutes  int     `json:"total_worked_minutes"`
	BaseMinutesDeducted int     `json:"base_minutes_deducted"`
	OvertimeMinutes     int     `json:"overtime_minutes"`
	PaidMinutes         int     `json:"paid_minutes"`
	UnpaidMinutes       int     `json:"unpaid_minutes"`
	Month               int     `json:"month"`
	Year                int     `json:"year"`
	Notes               string  `json:"notes,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

type AddEntryResponse struct {
	Entry                     EntryResponse     `json:"entry"`
	Breakdown                 BreakdownResponse `json:"breakdown"`
	RemainingPaidMinutesAfter int               `json:"remaining_paid_minutes_after"`
}

type UpdateEntryResponse struct {
	Entry                     EntryResponse     `json:"entry"`
	Breakdown                 BreakdownResponse `json:"breakdown"`
	PreviousPaidMinutes       int               `json:"previous_paid_minutes"`
	RemainingPaidMinutesAfter int               `json:"remaining_paid_minutes_after"`
}

type DeleteEntryResponse struct {
	ID              string `json:"id"`
	RemovedOvertime int    `json:"removed_overtime_minutes"`
	RemovedPaid     int    `json:"removed_paid_minutes"`
	RemovedUnpaid   int    `json:"removed_unpaid_minutes"`
	SummaryAdjusted bool   `json:"summary_adjusted"`
}

type MonthlySummaryResponse struct {
	WorkerID             string  `json:"worker_id"`
	WorkerName           *string `json:"worker_name,omitempty"`
	WorkerEmployeeCode   *string `json:"worker_employee_code,omitempty"`
	WorkerDepartment     *string `json:"worker_department,omitempty"`
	Month                int     `json:"month"`
	Year                 int     `json:"year"`
	TotalOvertimeMinutes int     `json:"total_overtime_minutes"`
	TotalPaidMinutes     int     `json:"total_paid_minutes"`
	TotalUnpaidMinutes   int     `json:"total_unpaid_minutes"`
	TotalOvertimeHours   float64 `json:"total_overtime_hours"`
	TotalPaidHours       float64 `json:"total_paid_hours"`
	TotalUnpaidHours     float64 `json:"total_unpaid_hours"`
	RemainingPaidMinutes int     `json:"remaining_paid_minutes"`
	RemainingPaidHours   float64 `json:"remaining_paid_hours"`
}

type ListEntriesResponse struct {
	Entries              []EntryResponse `json:"entries"`
	Count                int             `json:"count"`
	TotalOvertimeMinutes int             `json:"total_overtime_minutes"`
	TotalPaidMinutes     int             `json:"total_paid_minutes"`
	TotalUnpaidMinutes   int             `json:"total_unpaid_minutes"`
}

type AuditRow struct {
	WorkerID string       `json:"worker_id"`
	Month    int          `json:"month"`
	Year     int          `json:"year"`
	Stored   SummaryTotal `json:"stored"`
	Actual   SummaryTotal `json:"actual"`
	Missing  bool         `json:"summary_missing"`
	Repaired bool         `json:"repaired"`
}

type SummaryTotal struct {
	OvertimeMinutes int `json:"overtime_minutes"`
	PaidMinutes     int `json:"paid_minutes"`
	UnpaidMinutes   int `json:"unpaid_minutes"`
}

type AuditResult struct {
	Month    int        `json:"month"`
	Year     int        `json:"year"`
	Checked  int        `json:"checked"`
	Drifted  []AuditRow `json:"drifted"`
	Repaired int        `json:"repaired"`
}

// MinutesToHours converts minutes to hours rounded to two decimals.
func MinutesToHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}

func TotalOf(d SummaryDelta) SummaryTotal {
	return SummaryTotal{
		OvertimeMinutes: d.OvertimeMinutes,
		PaidMinutes:     d.PaidMinutes,
		UnpaidMinutes:   d.UnpaidMinutes,
	}
}

func NewEntryResponse(e WorkEntry) EntryResponse {
	return EntryResponse{
		ID:                  e.ID,
		WorkerID:            e.WorkerID,
		WorkerName:          e.WorkerName,
		WorkerDepartment:    e.WorkerDepartment,
		Date:                e.Date.Format("2006-01-02"),
		StartTime:           e.StartTime,
		EndTime:             e.EndTime,
		DeductLunch:         e.DeductLunch,
		TotalWorkedMinutes:  e.TotalWorkedMinutes,
		BaseMinutesDeducted: e.BaseMinutesDeducted,
		OvertimeMinutes:     e.OvertimeMinutes,
		PaidMinutes:         e.PaidMinutes,
		UnpaidMinutes:       e.UnpaidMinutes,
		Month:               e.Month,
		Year:                e.Year,
		Notes:               e.Notes,
		CreatedAt:           e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:           e.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func NewMonthlySummaryResponse(s MonthlySummary) MonthlySummaryResponse {
	remaining := s.RemainingPaidMinutes()
	return MonthlySummaryResponse{
		WorkerID:             s.WorkerID,
		WorkerName:           s.WorkerName,
		WorkerEmployeeCode:   s.WorkerEmployeeCode,
		WorkerDepartment:     s.WorkerDepartment,
		Month:                s.Month,
		Year:                 s.Year,
		TotalOvertimeMinutes: s.TotalOvertimeMinutes,
		TotalPaidMinutes:     s.TotalPaidMinutes,
		TotalUnpaidMinutes:   s.TotalUnpaidMinutes,
		TotalOvertimeHours:   MinutesToHours(s.TotalOvertimeMinutes),
		TotalPaidHours:       MinutesToHours(s.TotalPaidMinutes),
		TotalUnpaidHours:     MinutesToHours(s.TotalUnpaidMinutes),
		RemainingPaidMinutes: remaining,
		RemainingPaidHours:   MinutesToHours(remaining),
	}
}
