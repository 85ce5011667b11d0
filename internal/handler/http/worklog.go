package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/worker"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/handler/http/response"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/validator"
)

type WorklogHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListByWorker(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type worklogHandlerImpl struct {
	ledgerService overtime.LedgerService
}

func NewWorklogHandler(ledgerService overtime.LedgerService) WorklogHandler {
	return &worklogHandlerImpl{
		ledgerService: ledgerService,
	}
}

// Create records a work entry and folds its overtime into the month.
func (h *worklogHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req overtime.AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddEntry decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.ledgerService.AddEntry(r.Context(), req)
	if err != nil {
		slog.Error("AddEntry service error", "worker_id", req.WorkerID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Work entry recorded successfully", result)
}

// List implements WorklogHandler.
func (h *worklogHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEntryFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if department := r.URL.Query().Get("department"); department != "" {
		filter.Department = &department
	}

	result, err := h.ledgerService.ListEntries(r.Context(), filter)
	if err != nil {
		slog.Error("ListEntries service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByWorker implements WorklogHandler.
func (h *worklogHandlerImpl) ListByWorker(w http.ResponseWriter, r *http.Request) {
	workerID, ok := idParam(w, r, "workerID", worker.ErrWorkerNotFound)
	if !ok {
		return
	}

	filter, err := parseEntryFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.ledgerService.ListWorkerEntries(r.Context(), workerID, filter)
	if err != nil {
		slog.Error("ListWorkerEntries service error", "worker_id", workerID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements WorklogHandler.
func (h *worklogHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", overtime.ErrEntryNotFound)
	if !ok {
		return
	}

	result, err := h.ledgerService.GetEntry(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements WorklogHandler.
func (h *worklogHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", overtime.ErrEntryNotFound)
	if !ok {
		return
	}

	var req overtime.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateEntry decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.ledgerService.UpdateEntry(r.Context(), req)
	if err != nil {
		slog.Error("UpdateEntry service error", "id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work entry updated successfully", result)
}

// Delete implements WorklogHandler.
func (h *worklogHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", overtime.ErrEntryNotFound)
	if !ok {
		return
	}

	result, err := h.ledgerService.DeleteEntry(r.Context(), id)
	if err != nil {
		slog.Error("DeleteEntry service error", "id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work entry deleted successfully", result)
}

// parseEntryFilter reads the optional month and year query values. Pairing
// is checked by the service.
func parseEntryFilter(r *http.Request) (overtime.EntryFilter, error) {
	var filter overtime.EntryFilter
	var errs validator.ValidationErrors

	query := r.URL.Query()
	if m := query.Get("month"); m != "" {
		month, err := strconv.Atoi(m)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be a number"})
		} else {
			filter.Month = &month
		}
	}
	if y := query.Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a number"})
		} else {
			filter.Year = &year
		}
	}

	if len(errs) > 0 {
		return filter, errs
	}
	return filter, nil
}
