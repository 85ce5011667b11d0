package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/worker"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/handler/http/response"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/validator"
)

type WorkerHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type workerHandlerImpl struct {
	workerService worker.WorkerService
}

func NewWorkerHandler(workerService worker.WorkerService) WorkerHandler {
	return &workerHandlerImpl{
		workerService: workerService,
	}
}

// Create implements WorkerHandler.
func (h *workerHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req worker.CreateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateWorker decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.workerService.CreateWorker(r.Context(), req)
	if err != nil {
		slog.Error("CreateWorker service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Worker created successfully", result)
}

// List returns workers with their paid overtime usage. Without month and
// year the current month is used.
func (h *workerHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	now := time.Now()
	req := worker.ListWorkersRequest{Month: int(now.Month()), Year: now.Year()}
	if query.Get("month") != "" || query.Get("year") != "" {
		month, year, err := validator.ParseMonthYear(query.Get("month"), query.Get("year"))
		if err != nil {
			response.HandleError(w, err)
			return
		}
		req.Month, req.Year = month, year
	}
	if department := query.Get("department"); department != "" {
		req.Department = &department
	}

	results, err := h.workerService.ListWorkers(r.Context(), req)
	if err != nil {
		slog.Error("ListWorkers service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, &response.Meta{TotalItems: int64(len(results))})
}

// Get implements WorkerHandler.
func (h *workerHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", worker.ErrWorkerNotFound)
	if !ok {
		return
	}

	result, err := h.workerService.GetWorker(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements WorkerHandler.
func (h *workerHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", worker.ErrWorkerNotFound)
	if !ok {
		return
	}

	var req worker.UpdateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateWorker decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	result, err := h.workerService.UpdateWorker(r.Context(), req)
	if err != nil {
		slog.Error("UpdateWorker service error", "id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Worker updated successfully", result)
}

// Delete implements WorkerHandler.
func (h *workerHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", worker.ErrWorkerNotFound)
	if !ok {
		return
	}

	if err := h.workerService.DeleteWorker(r.Context(), id); err != nil {
		slog.Error("DeleteWorker service error", "id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Worker deleted successfully", nil)
}
