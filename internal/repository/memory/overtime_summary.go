package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
	"github.com/google/uuid"
)

type summaryRepositoryImpl struct {
	s *Store
}

func NewSummaryRepository(s *Store) overtime.SummaryRepository {
	return &summaryRepositoryImpl{s: s}
}

// GetByKey implements overtime.SummaryRepository.
func (r *summaryRepositoryImpl) GetByKey(ctx context.Context, key overtime.SummaryKey) (*overtime.MonthlySummary, error) {
	defer r.s.lock(ctx)()

	sum, ok := r.s.summaries[key]
	if !ok {
		return nil, nil
	}
	joined := r.s.joinSummary(sum)
	return &joined, nil
}

// LockByKey implements overtime.SummaryRepository. Inside a transaction the
// whole store is already held, so this is a plain read.
func (r *summaryRepositoryImpl) LockByKey(ctx context.Context, key overtime.SummaryKey) (*overtime.MonthlySummary, error) {
	return r.GetByKey(ctx, key)
}

// Increment implements overtime.SummaryRepository.
func (r *summaryRepositoryImpl) Increment(ctx context.Context, key overtime.SummaryKey, delta overtime.SummaryDelta) (overtime.MonthlySummary, error) {
	defer r.s.lock(ctx)()

	sum, err := r.row(key)
	if err != nil {
		return overtime.MonthlySummary{}, err
	}
	sum.TotalOvertimeMinutes += delta.OvertimeMinutes
	sum.TotalPaidMinutes += delta.PaidMinutes
	sum.TotalUnpaidMinutes += delta.UnpaidMinutes
	if sum.TotalPaidMinutes > overtime.PaidLimitMinutes {
		return overtime.MonthlySummary{}, overtime.ErrPaidCapExceeded
	}
	sum.UpdatedAt = r.s.now()
	r.s.summaries[key] = sum
	return r.s.joinSummary(sum), nil
}

// Overwrite implements overtime.SummaryRepository.
func (r *summaryRepositoryImpl) Overwrite(ctx context.Context, key overtime.SummaryKey, totals overtime.SummaryDelta) (overtime.MonthlySummary, error) {
	defer r.s.lock(ctx)()

	sum, err := r.row(key)
	if err != nil {
		return overtime.MonthlySummary{}, err
	}
	sum.TotalOvertimeMinutes = totals.OvertimeMinutes
	sum.TotalPaidMinutes = totals.PaidMinutes
	sum.TotalUnpaidMinutes = totals.UnpaidMinutes
	if sum.TotalPaidMinutes > overtime.PaidLimitMinutes {
		return overtime.MonthlySummary{}, overtime.ErrPaidCapExceeded
	}
	sum.UpdatedAt = r.s.now()
	r.s.summaries[key] = sum
	return r.s.joinSummary(sum), nil
}

// ListByWorker implements overtime.SummaryRepository.
func (r *summaryRepositoryImpl) ListByWorker(ctx context.Context, workerID string) ([]overtime.MonthlySummary, error) {
	defer r.s.lock(ctx)()

	summaries := make([]overtime.MonthlySummary, 0)
	for key, sum := range r.s.summaries {
		if key.WorkerID == workerID {
			summaries = append(summaries, r.s.joinSummary(sum))
		}
	}
	slices.SortFunc(summaries, func(a, b overtime.MonthlySummary) int {
		if a.Year != b.Year {
			return b.Year - a.Year
		}
		return b.Month - a.Month
	})
	return summaries, nil
}

// ListByMonth implements overtime.SummaryRepository.
func (r *summaryRepositoryImpl) ListByMonth(ctx context.Context, month, year int) ([]overtime.MonthlySummary, error) {
	defer r.s.lock(ctx)()

	summaries := make([]overtime.MonthlySummary, 0)
	for key, sum := range r.s.summaries {
		if key.Month == month && key.Year == year {
			summaries = append(summaries, r.s.joinSummary(sum))
		}
	}
	slices.SortFunc(summaries, func(a, b overtime.MonthlySummary) int {
		var an, bn string
		if a.WorkerName != nil {
			an = *a.WorkerName
		}
		if b.WorkerName != nil {
			bn = *b.WorkerName
		}
		if c := strings.Compare(an, bn); c != 0 {
			return c
		}
		return strings.Compare(a.WorkerID, b.WorkerID)
	})
	return summaries, nil
}

// row returns the stored summary for key or a fresh zero row.
func (r *summaryRepositoryImpl) row(key overtime.SummaryKey) (overtime.MonthlySummary, error) {
	if sum, ok := r.s.summaries[key]; ok {
		return sum, nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return overtime.MonthlySummary{}, err
	}
	return overtime.MonthlySummary{
		ID:        id.String(),
		WorkerID:  key.WorkerID,
		Month:     key.Month,
		Year:      key.Year,
		CreatedAt: r.s.now(),
	}, nil
}
