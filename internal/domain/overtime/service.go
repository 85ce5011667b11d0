package overtime

import (
	"context"
)

type LedgerService interface {
	// Entries
	AddEntry(ctx context.Context, req AddEntryRequest) (AddEntryResponse, error)
	UpdateEntry(ctx context.Context, req UpdateEntryRequest) (UpdateEntryResponse, error)
	DeleteEntry(ctx context.Context, id string) (DeleteEntryResponse, error)
	GetEntry(ctx context.Context, id string) (EntryResponse, error)
	ListWorkerEntries(ctx context.Context, workerID string, filter EntryFilter) (ListEntriesResponse, error)
	ListEntries(ctx context.Context, filter EntryFilter) (ListEntriesResponse, error)
	// Summaries
	GetWorkerMonthSummary(ctx context.Context, workerID string, month, year int) (MonthlySummaryResponse, error)
	GetWorkerSummaries(ctx context.Context, workerID string) ([]MonthlySummaryResponse, error)
	GetAllWorkerSummaries(ctx context.Context, month, year int) ([]MonthlySummaryResponse, error)
	// Maintenance
	AuditMonth(ctx context.Context, month, year int, repair bool) (AuditResult, error)
}
