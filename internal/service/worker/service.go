package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/worker"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/validator"
)

type workerServiceImpl struct {
	workerRepo  worker.WorkerRepository
	summaryRepo overtime.SummaryRepository
}

func NewWorkerService(workerRepo worker.WorkerRepository, summaryRepo overtime.SummaryRepository) worker.WorkerService {
	return &workerServiceImpl{
		workerRepo:  workerRepo,
		summaryRepo: summaryRepo,
	}
}

// CreateWorker implements worker.WorkerService.
func (s *workerServiceImpl) CreateWorker(ctx context.Context, req worker.CreateWorkerRequest) (worker.WorkerResponse, error) {
	if err := req.Validate(); err != nil {
		return worker.WorkerResponse{}, err
	}

	w := worker.Worker{
		Name:            strings.TrimSpace(req.Name),
		Department:      worker.DefaultDepartment,
		Role:            worker.DefaultRole,
		BaseHoursPerDay: overtime.DefaultBaseHoursPerDay,
	}
	if req.EmployeeCode != nil && !validator.IsEmpty(*req.EmployeeCode) {
		code := strings.TrimSpace(*req.EmployeeCode)
		w.EmployeeCode = &code
	}
	if req.Department != nil && !validator.IsEmpty(*req.Department) {
		w.Department = strings.TrimSpace(*req.Department)
	}
	if req.Role != nil && !validator.IsEmpty(*req.Role) {
		w.Role = strings.TrimSpace(*req.Role)
	}
	if req.BaseHoursPerDay != nil {
		w.BaseHoursPerDay = *req.BaseHoursPerDay
	}

	created, err := s.workerRepo.Create(ctx, w)
	if err != nil {
		if errors.Is(err, worker.ErrEmployeeCodeExists) {
			return worker.WorkerResponse{}, err
		}
		return worker.WorkerResponse{}, fmt.Errorf("failed to create worker: %w", err)
	}

	slog.Info("Created worker", "worker_id", created.ID, "department", created.Department)

	return worker.NewWorkerResponse(created), nil
}

// GetWorker implements worker.WorkerService.
func (s *workerServiceImpl) GetWorker(ctx context.Context, id string) (worker.WorkerResponse, error) {
	w, err := s.workerRepo.GetByID(ctx, id)
	if err != nil {
		return worker.WorkerResponse{}, err
	}
	return worker.NewWorkerResponse(w), nil
}

// UpdateWorker implements worker.WorkerService.
func (s *workerServiceImpl) UpdateWorker(ctx context.Context, req worker.UpdateWorkerRequest) (worker.WorkerResponse, error) {
	if err := req.Validate(); err != nil {
		return worker.WorkerResponse{}, err
	}

	w, err := s.workerRepo.GetByID(ctx, req.ID)
	if err != nil {
		return worker.WorkerResponse{}, err
	}

	if req.Name != nil {
		w.Name = strings.TrimSpace(*req.Name)
	}
	if req.EmployeeCode != nil {
		w.EmployeeCode = nil
		if code := strings.TrimSpace(*req.EmployeeCode); code != "" {
			w.EmployeeCode = &code
		}
	}
	if req.Department != nil && !validator.IsEmpty(*req.Department) {
		w.Department = strings.TrimSpace(*req.Department)
	}
	if req.Role != nil && !validator.IsEmpty(*req.Role) {
		w.Role = strings.TrimSpace(*req.Role)
	}
	if req.BaseHoursPerDay != nil {
		w.BaseHoursPerDay = *req.BaseHoursPerDay
	}

	updated, err := s.workerRepo.Update(ctx, w)
	if err != nil {
		if errors.Is(err, worker.ErrWorkerNotFound) || errors.Is(err, worker.ErrEmployeeCodeExists) {
			return worker.WorkerResponse{}, err
		}
		return worker.WorkerResponse{}, fmt.Errorf("failed to update worker: %w", err)
	}

	slog.Info("Updated worker", "worker_id", updated.ID, "base_hours_per_day", updated.BaseHoursPerDay)

	return worker.NewWorkerResponse(updated), nil
}

// DeleteWorker implements worker.WorkerService. Workers with recorded
// overtime cannot be deleted.
func (s *workerServiceImpl) DeleteWorker(ctx context.Context, id string) error {
	if err := s.workerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, worker.ErrWorkerNotFound) || errors.Is(err, worker.ErrWorkerHasEntries) {
			return err
		}
		return fmt.Errorf("failed to delete worker: %w", err)
	}

	slog.Info("Deleted worker", "worker_id", id)
	return nil
}

// ListWorkers implements worker.WorkerService. Each worker carries the paid
// overtime used and remaining in the requested month.
func (s *workerServiceImpl) ListWorkers(ctx context.Context, req worker.ListWorkersRequest) ([]worker.WorkerWithUsageResponse, error) {
	if !validator.IsValidMonth(req.Month) || !validator.IsValidYear(req.Year) {
		return nil, validator.ValidationErrors{{
			Field:   "month",
			Message: "month and year must be a valid calendar month",
		}}
	}

	workers, err := s.workerRepo.List(ctx, worker.ListFilter{Department: req.Department})
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}

	summaries, err := s.summaryRepo.ListByMonth(ctx, req.Month, req.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to list month summaries: %w", err)
	}
	used := make(map[string]int, len(summaries))
	for _, sum := range summaries {
		used[sum.WorkerID] = sum.TotalPaidMinutes
	}

	responses := make([]worker.WorkerWithUsageResponse, 0, len(workers))
	for _, w := range workers {
		paid := used[w.ID]
		remaining := overtime.RemainingPaid(paid)
		responses = append(responses, worker.WorkerWithUsageResponse{
			WorkerResponse:   worker.NewWorkerResponse(w),
			Month:            req.Month,
			Year:             req.Year,
			UsedMinutes:      paid,
			UsedHours:        overtime.MinutesToHours(paid),
			RemainingMinutes: remaining,
			RemainingHours:   overtime.MinutesToHours(remaining),
		})
	}
	return responses, nil
}
