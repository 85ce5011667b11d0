package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/auth"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/worker"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Not a failure: the request was well formed but nothing is recorded.
	var noOvertime *overtime.NoOvertimeError
	if errors.As(err, &noOvertime) {
		BadRequest(w, noOvertime.Error(), map[string]string{
			"total_worked_minutes":   fmt.Sprint(noOvertime.TotalWorkedMinutes),
			"lunch_deducted_minutes": fmt.Sprint(noOvertime.LunchDeductedMinutes),
			"base_hours_per_day":     fmt.Sprint(noOvertime.BaseHoursPerDay),
			"base_minutes":           fmt.Sprint(noOvertime.BaseMinutes),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, "Username already registered")

	// Worker domain errors
	case errors.Is(err, worker.ErrWorkerNotFound):
		NotFound(w, "Worker not found")
	case errors.Is(err, worker.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, worker.ErrWorkerHasEntries):
		Fail(w, http.StatusConflict, "WORKER_HAS_ENTRIES",
			"Worker has recorded overtime; delete its work entries first", nil)

	// Overtime domain errors
	case errors.Is(err, overtime.ErrEntryNotFound):
		NotFound(w, "Work entry not found")
	case errors.Is(err, overtime.ErrDuplicateEntry):
		Conflict(w, "A work entry for this worker, date and time window already exists")
	case errors.Is(err, overtime.ErrInvalidTimeWindow):
		UnprocessableEntity(w, "INVALID_TIME_WINDOW", err.Error())
	case errors.Is(err, overtime.ErrPaidCapExceeded):
		Conflict(w, "Monthly paid overtime cap would be exceeded")
	case errors.Is(err, overtime.ErrPartialLedgerUpdate):
		Fail(w, http.StatusInternalServerError, "PARTIAL_LEDGER_UPDATE",
			"The work entry and its monthly summary may be out of sync; run an audit for this month", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
