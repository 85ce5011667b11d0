package overtime

import (
	"context"
)

// WorkEntryRepository - interface for work_entries table
type WorkEntryRepository interface {
	Create(ctx context.Context, entry WorkEntry) (WorkEntry, error)
	GetByID(ctx context.Context, id string) (WorkEntry, error)
	Update(ctx context.Context, entry WorkEntry) (WorkEntry, error)
	Delete(ctx context.Context, id string) error
	ListByWorker(ctx context.Context, workerID string, filter EntryFilter) ([]WorkEntry, error)
	List(ctx context.Context, filter EntryFilter) ([]WorkEntry, error)
	// SumByKey recomputes the contribution of all entries for one key.
	SumByKey(ctx context.Context, key SummaryKey) (SummaryDelta, error)
	// SumByMonth recomputes contributions for every worker with entries in the month.
	SumByMonth(ctx context.Context, month, year int) (map[SummaryKey]SummaryDelta, error)
}

// SummaryRepository - interface for overtime_summaries table
type SummaryRepository interface {
	// GetByKey returns nil when no summary exists for the key.
	GetByKey(ctx context.Context, key SummaryKey) (*MonthlySummary, error)
	// LockByKey serializes writers on the key until the surrounding
	// transaction ends and returns the current row, or nil when absent.
	LockByKey(ctx context.Context, key SummaryKey) (*MonthlySummary, error)
	// Increment atomically adds delta, creating the row when missing.
	Increment(ctx context.Context, key SummaryKey, delta SummaryDelta) (MonthlySummary, error)
	// Overwrite replaces the totals, creating the row when missing.
	Overwrite(ctx context.Context, key SummaryKey, totals SummaryDelta) (MonthlySummary, error)
	ListByWorker(ctx context.Context, workerID string) ([]MonthlySummary, error)
	ListByMonth(ctx context.Context, month, year int) ([]MonthlySummary, error)
}

// Transactor runs fn inside a single storage transaction. Repositories
// called with the ctx passed to fn take part in that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
