package worker

import "github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/validator"

type CreateWorkerRequest struct {
	Name            string   `json:"name"`
	EmployeeCode    *string  `json:"employee_code,omitempty"`
	Department      *string  `json:"department,omitempty"`
	Role            *string  `json:"role,omitempty"`
	BaseHoursPerDay *float64 `json:"base_hours_per_day,omitempty"`
}

func (r *CreateWorkerRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}
	if r.EmployeeCode != nil && len(*r.EmployeeCode) > 50 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code must not exceed 50 characters",
		})
	}
	if r.Department != nil && len(*r.Department) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department must not exceed 100 characters",
		})
	}
	if r.BaseHoursPerDay != nil && (*r.BaseHoursPerDay <= 0 || *r.BaseHoursPerDay > 24) {
		errs = append(errs, validator.ValidationError{
			Field:   "base_hours_per_day",
			Message: "base_hours_per_day must be greater than 0 and at most 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateWorkerRequest changes only the fields that are set. An empty
// employee_code clears it. A new base_hours_per_day applies to entries
// recorded or edited afterwards.
type UpdateWorkerRequest struct {
	ID              string   `json:"-"`
	Name            *string  `json:"name,omitempty"`
	EmployeeCode    *string  `json:"employee_code,omitempty"`
	Department      *string  `json:"department,omitempty"`
	Role            *string  `json:"role,omitempty"`
	BaseHoursPerDay *float64 `json:"base_hours_per_day,omitempty"`
}

func (r *UpdateWorkerRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.Name != nil && len(*r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}
	if r.EmployeeCode != nil && len(*r.EmployeeCode) > 50 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code must not exceed 50 characters",
		})
	}
	if r.Department != nil && len(*r.Department) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department must not exceed 100 characters",
		})
	}
	if r.BaseHoursPerDay != nil && (*r.BaseHoursPerDay <= 0 || *r.BaseHoursPerDay > 24) {
		errs = append(errs, validator.ValidationError{
			Field:   "base_hours_per_day",
			Message: "base_hours_per_day must be greater than 0 and at most 24",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListFilter narrows worker listings.
type ListFilter struct {
	Department *string
}

// ListWorkersRequest lists workers with their paid-overtime usage for a month.
type ListWorkersRequest struct {
	Month      int
	Year       int
	Department *string
}

type WorkerResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	EmployeeCode    *string `json:"employee_code,omitempty"`
	Department      string  `json:"department"`
	Role            string  `json:"role"`
	BaseHoursPerDay float64 `json:"base_hours_per_day"`
	CreatedAt       string  `json:"created_at"`
}

type WorkerWithUsageResponse struct {
	WorkerResponse
	Month            int     `json:"month"`
	Year             int     `json:"year"`
	UsedMinutes      int     `json:"used_minutes"`
	UsedHours        float64 `json:"used_hours"`
	RemainingMinutes int     `json:"remaining_minutes"`
	RemainingHours   float64 `json:"remaining_hours"`
}

func NewWorkerResponse(w Worker) WorkerResponse {
	return WorkerResponse{
		ID:              w.ID,
		Name:            w.Name,
		EmployeeCode:    w.EmployeeCode,
		Department:      w.Department,
		Role:            w.Role,
		BaseHoursPerDay: w.BaseHoursPerDay,
		CreatedAt:       w.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
