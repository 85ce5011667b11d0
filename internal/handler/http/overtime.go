package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/worker"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/handler/http/response"
)

type OvertimeHandler interface {
	GetWorkerMonth(w http.ResponseWriter, r *http.Request)
	ListWorkerSummaries(w http.ResponseWriter, r *http.Request)
	ListMonth(w http.ResponseWriter, r *http.Request)
	Audit(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	ledgerService overtime.LedgerService
}

func NewOvertimeHandler(ledgerService overtime.LedgerService) OvertimeHandler {
	return &overtimeHandlerImpl{
		ledgerService: ledgerService,
	}
}

// GetWorkerMonth implements OvertimeHandler.
func (h *overtimeHandlerImpl) GetWorkerMonth(w http.ResponseWriter, r *http.Request) {
	workerID, ok := idParam(w, r, "workerID", worker.ErrWorkerNotFound)
	if !ok {
		return
	}
	month, year, ok := monthYearParams(w, r)
	if !ok {
		return
	}

	result, err := h.ledgerService.GetWorkerMonthSummary(r.Context(), workerID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListWorkerSummaries implements OvertimeHandler.
func (h *overtimeHandlerImpl) ListWorkerSummaries(w http.ResponseWriter, r *http.Request) {
	workerID, ok := idParam(w, r, "workerID", worker.ErrWorkerNotFound)
	if !ok {
		return
	}

	results, err := h.ledgerService.GetWorkerSummaries(r.Context(), workerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ListMonth implements OvertimeHandler.
func (h *overtimeHandlerImpl) ListMonth(w http.ResponseWriter, r *http.Request) {
	month, year, ok := monthYearParams(w, r)
	if !ok {
		return
	}

	results, err := h.ledgerService.GetAllWorkerSummaries(r.Context(), month, year)
	if err != nil {
		slog.Error("GetAllWorkerSummaries service error", "month", month, "year", year, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Audit compares stored summaries with their entries; repair=true rewrites
// drifted rows.
func (h *overtimeHandlerImpl) Audit(w http.ResponseWriter, r *http.Request) {
	month, year, ok := monthYearParams(w, r)
	if !ok {
		return
	}

	repair := false
	if v := r.URL.Query().Get("repair"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "repair must be true or false", nil)
			return
		}
		repair = parsed
	}

	result, err := h.ledgerService.AuditMonth(r.Context(), month, year, repair)
	if err != nil {
		slog.Error("AuditMonth service error", "month", month, "year", year, "error", err)
		response.HandleError(w, err)
		return
	}

	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		slog.Info("Overtime audit completed",
			"by", claims.Username, "month", month, "year", year,
			"checked", result.Checked, "drifted", len(result.Drifted), "repaired", result.Repaired)
	}
	response.Success(w, result)
}
