package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
	"github.com/google/uuid"
)

type workEntryRepositoryImpl struct {
	s *Store
}

func NewWorkEntryRepository(s *Store) overtime.WorkEntryRepository {
	return &workEntryRepositoryImpl{s: s}
}

// Create implements overtime.WorkEntryRepository.
func (r *workEntryRepositoryImpl) Create(ctx context.Context, entry overtime.WorkEntry) (overtime.WorkEntry, error) {
	defer r.s.lock(ctx)()

	if r.duplicate(entry) {
		return overtime.WorkEntry{}, overtime.ErrDuplicateEntry
	}

	id, err := uuid.NewV7()
	if err != nil {
		return overtime.WorkEntry{}, err
	}
	now := r.s.now()
	entry.ID = id.String()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	entry.WorkerName = nil
	entry.WorkerDepartment = nil
	r.s.entries[entry.ID] = entry
	return entry, nil
}

// GetByID implements overtime.WorkEntryRepository.
func (r *workEntryRepositoryImpl) GetByID(ctx context.Context, id string) (overtime.WorkEntry, error) {
	defer r.s.lock(ctx)()

	entry, ok := r.s.entries[id]
	if !ok {
		return overtime.WorkEntry{}, overtime.ErrEntryNotFound
	}
	return r.s.joinEntry(entry), nil
}

// Update implements overtime.WorkEntryRepository.
func (r *workEntryRepositoryImpl) Update(ctx context.Context, entry overtime.WorkEntry) (overtime.WorkEntry, error) {
	defer r.s.lock(ctx)()

	existing, ok := r.s.entries[entry.ID]
	if !ok {
		return overtime.WorkEntry{}, overtime.ErrEntryNotFound
	}
	if r.duplicate(entry) {
		return overtime.WorkEntry{}, overtime.ErrDuplicateEntry
	}

	// Key and creation fields are immutable.
	entry.WorkerID = existing.WorkerID
	entry.Date = existing.Date
	entry.Month = existing.Month
	entry.Year = existing.Year
	entry.CreatedAt = existing.CreatedAt
	entry.UpdatedAt = r.s.now()
	entry.WorkerName = nil
	entry.WorkerDepartment = nil
	r.s.entries[entry.ID] = entry
	return entry, nil
}

// Delete implements overtime.WorkEntryRepository.
func (r *workEntryRepositoryImpl) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.entries[id]; !ok {
		return overtime.ErrEntryNotFound
	}
	delete(r.s.entries, id)
	return nil
}

// ListByWorker implements overtime.WorkEntryRepository.
func (r *workEntryRepositoryImpl) ListByWorker(ctx context.Context, workerID string, filter overtime.EntryFilter) ([]overtime.WorkEntry, error) {
	defer r.s.lock(ctx)()

	return r.list(func(e overtime.WorkEntry) bool {
		return e.WorkerID == workerID && r.matches(e, filter)
	}), nil
}

// List implements overtime.WorkEntryRepository.
func (r *workEntryRepositoryImpl) List(ctx context.Context, filter overtime.EntryFilter) ([]overtime.WorkEntry, error) {
	defer r.s.lock(ctx)()

	return r.list(func(e overtime.WorkEntry) bool {
		return r.matches(e, filter)
	}), nil
}

// SumByKey implements overtime.WorkEntryRepository.
func (r *workEntryRepositoryImpl) SumByKey(ctx context.Context, key overtime.SummaryKey) (overtime.SummaryDelta, error) {
	defer r.s.lock(ctx)()

	var total overtime.SummaryDelta
	for _, e := range r.s.entries {
		if e.Key() == key {
			total = total.Add(e.Contribution())
		}
	}
	return total, nil
}

// SumByMonth implements overtime.WorkEntryRepository.
func (r *workEntryRepositoryImpl) SumByMonth(ctx context.Context, month, year int) (map[overtime.SummaryKey]overtime.SummaryDelta, error) {
	defer r.s.lock(ctx)()

	totals := make(map[overtime.SummaryKey]overtime.SummaryDelta)
	for _, e := range r.s.entries {
		if e.Month != month || e.Year != year {
			continue
		}
		totals[e.Key()] = totals[e.Key()].Add(e.Contribution())
	}
	return totals, nil
}

func (r *workEntryRepositoryImpl) duplicate(entry overtime.WorkEntry) bool {
	for _, e := range r.s.entries {
		if e.ID == entry.ID {
			continue
		}
		if e.WorkerID == entry.WorkerID && e.Date.Equal(entry.Date) &&
			e.StartTime == entry.StartTime && e.EndTime == entry.EndTime {
			return true
		}
	}
	return false
}

func (r *workEntryRepositoryImpl) matches(e overtime.WorkEntry, filter overtime.EntryFilter) bool {
	if filter.Month != nil && e.Month != *filter.Month {
		return false
	}
	if filter.Year != nil && e.Year != *filter.Year {
		return false
	}
	if filter.Department != nil {
		w, ok := r.s.workers[e.WorkerID]
		if !ok || w.Department != *filter.Department {
			return false
		}
	}
	return true
}

// list returns matching entries newest first.
func (r *workEntryRepositoryImpl) list(keep func(overtime.WorkEntry) bool) []overtime.WorkEntry {
	entries := make([]overtime.WorkEntry, 0)
	for _, e := range r.s.entries {
		if keep(e) {
			entries = append(entries, r.s.joinEntry(e))
		}
	}
	slices.SortFunc(entries, func(a, b overtime.WorkEntry) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		if c := strings.Compare(b.StartTime, a.StartTime); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return entries
}
