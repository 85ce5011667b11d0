package worker

import (
	"context"
)

type WorkerService interface {
	CreateWorker(ctx context.Context, req CreateWorkerRequest) (WorkerResponse, error)
	GetWorker(ctx context.Context, id string) (WorkerResponse, error)
	ListWorkers(ctx context.Context, req ListWorkersRequest) ([]WorkerWithUsageResponse, error)
	UpdateWorker(ctx context.Context, req UpdateWorkerRequest) (WorkerResponse, error)
	DeleteWorker(ctx context.Context, id string) error
}
