package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/worker"
	"github.com/google/uuid"
)

type workerRepositoryImpl struct {
	s *Store
}

func NewWorkerRepository(s *Store) worker.WorkerRepository {
	return &workerRepositoryImpl{s: s}
}

// Create implements worker.WorkerRepository.
func (r *workerRepositoryImpl) Create(ctx context.Context, w worker.Worker) (worker.Worker, error) {
	defer r.s.lock(ctx)()

	if w.EmployeeCode != nil {
		for _, existing := range r.s.workers {
			if existing.EmployeeCode != nil && *existing.EmployeeCode == *w.EmployeeCode {
				return worker.Worker{}, worker.ErrEmployeeCodeExists
			}
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return worker.Worker{}, err
	}
	now := r.s.now()
	w.ID = id.String()
	w.CreatedAt = now
	w.UpdatedAt = now
	r.s.workers[w.ID] = w
	return w, nil
}

// GetByID implements worker.WorkerRepository.
func (r *workerRepositoryImpl) GetByID(ctx context.Context, id string) (worker.Worker, error) {
	defer r.s.lock(ctx)()

	w, ok := r.s.workers[id]
	if !ok {
		return worker.Worker{}, worker.ErrWorkerNotFound
	}
	return w, nil
}

// Update implements worker.WorkerRepository.
func (r *workerRepositoryImpl) Update(ctx context.Context, w worker.Worker) (worker.Worker, error) {
	defer r.s.lock(ctx)()

	existing, ok := r.s.workers[w.ID]
	if !ok {
		return worker.Worker{}, worker.ErrWorkerNotFound
	}
	if w.EmployeeCode != nil {
		for id, other := range r.s.workers {
			if id != w.ID && other.EmployeeCode != nil && *other.EmployeeCode == *w.EmployeeCode {
				return worker.Worker{}, worker.ErrEmployeeCodeExists
			}
		}
	}

	w.CreatedAt = existing.CreatedAt
	w.UpdatedAt = r.s.now()
	r.s.workers[w.ID] = w
	return w, nil
}

// Delete implements worker.WorkerRepository.
func (r *workerRepositoryImpl) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.workers[id]; !ok {
		return worker.ErrWorkerNotFound
	}
	for _, e := range r.s.entries {
		if e.WorkerID == id {
			return worker.ErrWorkerHasEntries
		}
	}
	var zeroed []overtime.SummaryKey
	for key, sum := range r.s.summaries {
		if sum.WorkerID != id {
			continue
		}
		if sum.TotalOvertimeMinutes != 0 || sum.TotalPaidMinutes != 0 || sum.TotalUnpaidMinutes != 0 {
			return worker.ErrWorkerHasEntries
		}
		zeroed = append(zeroed, key)
	}

	for _, key := range zeroed {
		delete(r.s.summaries, key)
	}
	delete(r.s.workers, id)
	return nil
}

// List implements worker.WorkerRepository.
func (r *workerRepositoryImpl) List(ctx context.Context, filter worker.ListFilter) ([]worker.Worker, error) {
	defer r.s.lock(ctx)()

	workers := make([]worker.Worker, 0, len(r.s.workers))
	for _, w := range r.s.workers {
		if filter.Department != nil && w.Department != *filter.Department {
			continue
		}
		workers = append(workers, w)
	}
	slices.SortFunc(workers, func(a, b worker.Worker) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return workers, nil
}
