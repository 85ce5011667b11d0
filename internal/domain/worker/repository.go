package worker

import (
	"context"
)

type WorkerRepository interface {
	Create(ctx context.Context, w Worker) (Worker, error)
	GetByID(ctx context.Context, id string) (Worker, error)
	List(ctx context.Context, filter ListFilter) ([]Worker, error)
	Update(ctx context.Context, w Worker) (Worker, error)
	// Delete removes a worker with no ledger history. Zeroed summaries go
	// with it; entries or non-zero summaries fail with ErrWorkerHasEntries.
	Delete(ctx context.Context, id string) error
}
