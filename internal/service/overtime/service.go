package overtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/worker"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/database"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/validator"
	"golang.org/x/sync/singleflight"
)

type ledgerServiceImpl struct {
	txm         overtime.Transactor
	entryRepo   overtime.WorkEntryRepository
	summaryRepo overtime.SummaryRepository
	workerRepo  worker.WorkerRepository
	locks       *keyLocks
	audits      *singleflight.Group
}

func NewLedgerService(
	txm overtime.Transactor,
	entryRepo overtime.WorkEntryRepository,
	summaryRepo overtime.SummaryRepository,
	workerRepo worker.WorkerRepository,
) overtime.LedgerService {
	return &ledgerServiceImpl{
		txm:         txm,
		entryRepo:   entryRepo,
		summaryRepo: summaryRepo,
		workerRepo:  workerRepo,
		locks:       newKeyLocks(),
		audits:      &singleflight.Group{},
	}
}

// AddEntry implements overtime.LedgerService.
func (s *ledgerServiceImpl) AddEntry(ctx context.Context, req overtime.AddEntryRequest) (overtime.AddEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.AddEntryResponse{}, err
	}

	w, err := s.workerRepo.GetByID(ctx, req.WorkerID)
	if err != nil {
		return overtime.AddEntryResponse{}, err
	}

	window, err := ResolveWindow(req.Date, req.StartTime, req.EndTime, req.ShouldDeductLunch())
	if err != nil {
		return overtime.AddEntryResponse{}, err
	}

	// Whether there is any overtime does not depend on the monthly baseline.
	if _, err := SplitOvertime(window, w.BaseHoursPerDay, 0); err != nil {
		return overtime.AddEntryResponse{}, err
	}

	key := overtime.SummaryKey{
		WorkerID: w.ID,
		Month:    int(window.Date.Month()),
		Year:     window.Date.Year(),
	}

	unlock := s.locks.Lock(key)
	defer unlock()

	var (
		created overtime.WorkEntry
		split   overtime.Split
		summary overtime.MonthlySummary
	)
	err = s.runLedgerTx(ctx, "add_entry", key, func(ctx context.Context, applied *bool) error {
		current, err := s.summaryRepo.LockByKey(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to lock overtime summary: %w", err)
		}
		alreadyPaid := 0
		if current != nil {
			alreadyPaid = current.TotalPaidMinutes
		}

		split, err = SplitOvertime(window, w.BaseHoursPerDay, alreadyPaid)
		if err != nil {
			return err
		}

		created, err = s.entryRepo.Create(ctx, overtime.WorkEntry{
			WorkerID:            w.ID,
			Date:                window.Date,
			StartTime:           window.StartClock,
			EndTime:             window.EndClock,
			DeductLunch:         req.ShouldDeductLunch(),
			TotalWorkedMinutes:  window.TotalWorkedMinutes,
			BaseMinutesDeducted: split.BaseMinutes,
			OvertimeMinutes:     split.OvertimeMinutes,
			PaidMinutes:         split.PaidMinutes,
			UnpaidMinutes:       split.UnpaidMinutes,
			Month:               key.Month,
			Year:                key.Year,
			Notes:               strings.TrimSpace(req.Notes),
		})
		if err != nil {
			return fmt.Errorf("failed to create work entry: %w", err)
		}
		*applied = true

		summary, err = s.summaryRepo.Increment(ctx, key, created.Contribution())
		if err != nil {
			return fmt.Errorf("failed to increment overtime summary: %w", err)
		}
		return nil
	})
	if err != nil {
		return overtime.AddEntryResponse{}, err
	}

	created.WorkerName = &w.Name
	created.WorkerDepartment = &w.Department

	slog.Info("Recorded overtime entry",
		"entry_id", created.ID,
		"worker_id", w.ID,
		"month", key.Month,
		"year", key.Year,
		"overtime_minutes", created.OvertimeMinutes,
		"paid_minutes", created.PaidMinutes,
		"unpaid_minutes", created.UnpaidMinutes,
	)

	return overtime.AddEntryResponse{
		Entry:                     overtime.NewEntryResponse(created),
		Breakdown:                 breakdownOf(window, w.BaseHoursPerDay, split),
		RemainingPaidMinutesAfter: summary.RemainingPaidMinutes(),
	}, nil
}

// UpdateEntry implements overtime.LedgerService.
func (s *ledgerServiceImpl) UpdateEntry(ctx context.Context, req overtime.UpdateEntryRequest) (overtime.UpdateEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.UpdateEntryResponse{}, err
	}

	existing, err := s.entryRepo.GetByID(ctx, req.ID)
	if err != nil {
		return overtime.UpdateEntryResponse{}, err
	}

	w, err := s.workerRepo.GetByID(ctx, existing.WorkerID)
	if err != nil {
		return overtime.UpdateEntryResponse{}, err
	}

	key := existing.Key()
	unlock := s.locks.Lock(key)
	defer unlock()

	var (
		updated overtime.WorkEntry
		window  overtime.WorkWindow
		split   overtime.Split
		old     overtime.WorkEntry
		after   int
	)
	err = s.runLedgerTx(ctx, "update_entry", key, func(ctx context.Context, applied *bool) error {
		// Reload under the key lock so the delta is taken from the stored row.
		old, err = s.entryRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		current, err := s.summaryRepo.LockByKey(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to lock overtime summary: %w", err)
		}
		baseline := 0
		if current == nil {
			slog.Warn("Overtime summary missing for existing entry, using zero baseline",
				"entry_id", old.ID,
				"worker_id", key.WorkerID,
				"month", key.Month,
				"year", key.Year,
			)
		} else {
			baseline = max(current.TotalPaidMinutes-old.PaidMinutes, 0)
		}

		start := old.StartTime
		if req.StartTime != nil {
			start = *req.StartTime
		}
		end := old.EndTime
		if req.EndTime != nil {
			end = *req.EndTime
		}
		deductLunch := old.DeductLunch
		if req.DeductLunch != nil {
			deductLunch = *req.DeductLunch
		}

		window, err = ResolveWindow(old.Date.Format(dateLayout), start, end, deductLunch)
		if err != nil {
			return err
		}
		split, err = SplitOvertime(window, w.BaseHoursPerDay, baseline)
		if err != nil {
			return err
		}

		next := old
		next.StartTime = window.StartClock
		next.EndTime = window.EndClock
		next.DeductLunch = deductLunch
		next.TotalWorkedMinutes = window.TotalWorkedMinutes
		next.BaseMinutesDeducted = split.BaseMinutes
		next.OvertimeMinutes = split.OvertimeMinutes
		next.PaidMinutes = split.PaidMinutes
		next.UnpaidMinutes = split.UnpaidMinutes
		if req.Notes != nil {
			next.Notes = strings.TrimSpace(*req.Notes)
		}

		updated, err = s.entryRepo.Update(ctx, next)
		if err != nil {
			return fmt.Errorf("failed to update work entry: %w", err)
		}
		*applied = true

		delta := updated.Contribution().Sub(old.Contribution())
		if current == nil {
			delta = updated.Contribution()
		}
		if current != nil && delta.IsZero() {
			after = current.RemainingPaidMinutes()
			return nil
		}

		summary, err := s.summaryRepo.Increment(ctx, key, delta)
		if err != nil {
			return fmt.Errorf("failed to apply overtime summary delta: %w", err)
		}
		after = summary.RemainingPaidMinutes()
		return nil
	})
	if err != nil {
		return overtime.UpdateEntryResponse{}, err
	}

	updated.WorkerName = &w.Name
	updated.WorkerDepartment = &w.Department

	slog.Info("Updated overtime entry",
		"entry_id", updated.ID,
		"worker_id", w.ID,
		"paid_delta", updated.PaidMinutes-old.PaidMinutes,
		"unpaid_delta", updated.UnpaidMinutes-old.UnpaidMinutes,
	)

	return overtime.UpdateEntryResponse{
		Entry:                     overtime.NewEntryResponse(updated),
		Breakdown:                 breakdownOf(window, w.BaseHoursPerDay, split),
		PreviousPaidMinutes:       old.PaidMinutes,
		RemainingPaidMinutesAfter: after,
	}, nil
}

// DeleteEntry implements overtime.LedgerService.
func (s *ledgerServiceImpl) DeleteEntry(ctx context.Context, id string) (overtime.DeleteEntryResponse, error) {
	if validator.IsEmpty(id) {
		return overtime.DeleteEntryResponse{}, overtime.ErrEntryNotFound
	}

	existing, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return overtime.DeleteEntryResponse{}, err
	}

	key := existing.Key()
	unlock := s.locks.Lock(key)
	defer unlock()

	var (
		removed  overtime.WorkEntry
		adjusted bool
	)
	err = s.runLedgerTx(ctx, "delete_entry", key, func(ctx context.Context, applied *bool) error {
		removed, err = s.entryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		current, err := s.summaryRepo.LockByKey(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to lock overtime summary: %w", err)
		}

		// The reversal is taken from the stored row before it is removed.
		if current == nil {
			slog.Warn("Overtime summary missing for deleted entry, skipping reversal",
				"entry_id", removed.ID,
				"worker_id", key.WorkerID,
				"month", key.Month,
				"year", key.Year,
			)
		} else {
			if _, err := s.summaryRepo.Increment(ctx, key, removed.Contribution().Negate()); err != nil {
				return fmt.Errorf("failed to reverse overtime summary: %w", err)
			}
			*applied = true
			adjusted = true
		}

		if err := s.entryRepo.Delete(ctx, removed.ID); err != nil {
			return fmt.Errorf("failed to delete work entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return overtime.DeleteEntryResponse{}, err
	}

	slog.Info("Deleted overtime entry",
		"entry_id", removed.ID,
		"worker_id", key.WorkerID,
		"paid_minutes", removed.PaidMinutes,
	)

	return overtime.DeleteEntryResponse{
		ID:              removed.ID,
		RemovedOvertime: removed.OvertimeMinutes,
		RemovedPaid:     removed.PaidMinutes,
		RemovedUnpaid:   removed.UnpaidMinutes,
		SummaryAdjusted: adjusted,
	}, nil
}

// GetEntry implements overtime.LedgerService.
func (s *ledgerServiceImpl) GetEntry(ctx context.Context, id string) (overtime.EntryResponse, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return overtime.EntryResponse{}, err
	}
	return overtime.NewEntryResponse(entry), nil
}

// ListWorkerEntries implements overtime.LedgerService.
func (s *ledgerServiceImpl) ListWorkerEntries(ctx context.Context, workerID string, filter overtime.EntryFilter) (overtime.ListEntriesResponse, error) {
	if err := filter.Validate(); err != nil {
		return overtime.ListEntriesResponse{}, err
	}
	if _, err := s.workerRepo.GetByID(ctx, workerID); err != nil {
		return overtime.ListEntriesResponse{}, err
	}

	entries, err := s.entryRepo.ListByWorker(ctx, workerID, filter)
	if err != nil {
		return overtime.ListEntriesResponse{}, fmt.Errorf("failed to list worker entries: %w", err)
	}
	return listResponse(entries), nil
}

// ListEntries implements overtime.LedgerService.
func (s *ledgerServiceImpl) ListEntries(ctx context.Context, filter overtime.EntryFilter) (overtime.ListEntriesResponse, error) {
	if err := filter.Validate(); err != nil {
		return overtime.ListEntriesResponse{}, err
	}

	entries, err := s.entryRepo.List(ctx, filter)
	if err != nil {
		return overtime.ListEntriesResponse{}, fmt.Errorf("failed to list entries: %w", err)
	}
	return listResponse(entries), nil
}

// GetWorkerMonthSummary implements overtime.LedgerService.
func (s *ledgerServiceImpl) GetWorkerMonthSummary(ctx context.Context, workerID string, month, year int) (overtime.MonthlySummaryResponse, error) {
	if err := validateMonthYear(month, year); err != nil {
		return overtime.MonthlySummaryResponse{}, err
	}

	w, err := s.workerRepo.GetByID(ctx, workerID)
	if err != nil {
		return overtime.MonthlySummaryResponse{}, err
	}

	summary, err := s.summaryRepo.GetByKey(ctx, overtime.SummaryKey{WorkerID: w.ID, Month: month, Year: year})
	if err != nil {
		return overtime.MonthlySummaryResponse{}, fmt.Errorf("failed to get overtime summary: %w", err)
	}
	if summary == nil {
		// An absent summary reads as zero.
		summary = &overtime.MonthlySummary{WorkerID: w.ID, Month: month, Year: year}
	}
	summary.WorkerName = &w.Name
	summary.WorkerEmployeeCode = w.EmployeeCode
	summary.WorkerDepartment = &w.Department

	return overtime.NewMonthlySummaryResponse(*summary), nil
}

// GetWorkerSummaries implements overtime.LedgerService.
func (s *ledgerServiceImpl) GetWorkerSummaries(ctx context.Context, workerID string) ([]overtime.MonthlySummaryResponse, error) {
	if _, err := s.workerRepo.GetByID(ctx, workerID); err != nil {
		return nil, err
	}

	summaries, err := s.summaryRepo.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list worker summaries: %w", err)
	}

	responses := make([]overtime.MonthlySummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		responses = append(responses, overtime.NewMonthlySummaryResponse(summary))
	}
	return responses, nil
}

// GetAllWorkerSummaries implements overtime.LedgerService.
func (s *ledgerServiceImpl) GetAllWorkerSummaries(ctx context.Context, month, year int) ([]overtime.MonthlySummaryResponse, error) {
	if err := validateMonthYear(month, year); err != nil {
		return nil, err
	}

	summaries, err := s.summaryRepo.ListByMonth(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list month summaries: %w", err)
	}

	responses := make([]overtime.MonthlySummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		responses = append(responses, overtime.NewMonthlySummaryResponse(summary))
	}
	return responses, nil
}

// AuditMonth implements overtime.LedgerService. It recomputes each summary of
// the month from its entries and optionally overwrites drifted rows.
func (s *ledgerServiceImpl) AuditMonth(ctx context.Context, month, year int, repair bool) (overtime.AuditResult, error) {
	if err := validateMonthYear(month, year); err != nil {
		return overtime.AuditResult{}, err
	}

	// Concurrent audits of the same month share one pass. The pass outlives
	// any single caller; each caller stops waiting when its own ctx ends.
	passCtx := context.WithoutCancel(ctx)
	ch := s.audits.DoChan(fmt.Sprintf("%04d-%02d-%t", year, month, repair), func() (interface{}, error) {
		return s.auditMonth(passCtx, month, year, repair)
	})

	select {
	case <-ctx.Done():
		return overtime.AuditResult{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return overtime.AuditResult{}, res.Err
		}
		if res.Shared {
			slog.Debug("Joined running overtime audit", "month", month, "year", year)
		}
		return res.Val.(overtime.AuditResult), nil
	}
}

func (s *ledgerServiceImpl) auditMonth(ctx context.Context, month, year int, repair bool) (overtime.AuditResult, error) {
	actuals, err := s.entryRepo.SumByMonth(ctx, month, year)
	if err != nil {
		return overtime.AuditResult{}, fmt.Errorf("failed to sum entries: %w", err)
	}
	stored, err := s.summaryRepo.ListByMonth(ctx, month, year)
	if err != nil {
		return overtime.AuditResult{}, fmt.Errorf("failed to list month summaries: %w", err)
	}

	keys := make([]overtime.SummaryKey, 0, len(actuals)+len(stored))
	seen := make(map[overtime.SummaryKey]bool)
	for key := range actuals {
		keys = append(keys, key)
		seen[key] = true
	}
	for _, summary := range stored {
		if !seen[summary.Key()] {
			keys = append(keys, summary.Key())
		}
	}
	slices.SortFunc(keys, func(a, b overtime.SummaryKey) int {
		return strings.Compare(a.WorkerID, b.WorkerID)
	})

	result := overtime.AuditResult{Month: month, Year: year, Drifted: []overtime.AuditRow{}}
	for _, key := range keys {
		row, drifted, err := s.auditKey(ctx, key, repair)
		if err != nil {
			return overtime.AuditResult{}, err
		}
		result.Checked++
		if !drifted {
			continue
		}
		result.Drifted = append(result.Drifted, row)
		if row.Repaired {
			result.Repaired++
		}
	}

	slog.Info("Audited overtime summaries",
		"month", month,
		"year", year,
		"checked", result.Checked,
		"drifted", len(result.Drifted),
		"repaired", result.Repaired,
	)
	return result, nil
}

func (s *ledgerServiceImpl) auditKey(ctx context.Context, key overtime.SummaryKey, repair bool) (overtime.AuditRow, bool, error) {
	unlock := s.locks.Lock(key)
	defer unlock()

	var (
		row     overtime.AuditRow
		drifted bool
	)
	err := s.runLedgerTx(ctx, "audit_summary", key, func(ctx context.Context, applied *bool) error {
		current, err := s.summaryRepo.LockByKey(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to lock overtime summary: %w", err)
		}
		actual, err := s.entryRepo.SumByKey(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to sum entries: %w", err)
		}

		var storedTotals overtime.SummaryDelta
		if current != nil {
			storedTotals = current.Totals()
		}
		if current != nil && storedTotals == actual {
			return nil
		}
		if current == nil && actual.IsZero() {
			return nil
		}

		drifted = true
		row = overtime.AuditRow{
			WorkerID: key.WorkerID,
			Month:    key.Month,
			Year:     key.Year,
			Stored:   overtime.TotalOf(storedTotals),
			Actual:   overtime.TotalOf(actual),
			Missing:  current == nil,
		}

		if !repair {
			return nil
		}
		if _, err := s.summaryRepo.Overwrite(ctx, key, actual); err != nil {
			return fmt.Errorf("failed to overwrite overtime summary: %w", err)
		}
		row.Repaired = true

		slog.Warn("Repaired drifted overtime summary",
			"worker_id", key.WorkerID,
			"month", key.Month,
			"year", key.Year,
			"stored_paid", storedTotals.PaidMinutes,
			"actual_paid", actual.PaidMinutes,
		)
		return nil
	})
	return row, drifted, err
}

// runLedgerTx runs fn in a transaction. fn sets *applied once it has written
// to storage. A failure after that point whose rollback also failed leaves the
// entry and its summary possibly out of step and is reported as
// overtime.ErrPartialLedgerUpdate.
func (s *ledgerServiceImpl) runLedgerTx(ctx context.Context, op string, key overtime.SummaryKey, fn func(ctx context.Context, applied *bool) error) error {
	applied := false
	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		return fn(ctx, &applied)
	})
	if err == nil {
		return nil
	}

	if applied && errors.Is(err, database.ErrRollbackFailed) {
		slog.Error("Partial ledger update, run an audit for this month",
			"operation", op,
			"worker_id", key.WorkerID,
			"month", key.Month,
			"year", key.Year,
			"error", err,
		)
		return fmt.Errorf("%w: %w", overtime.ErrPartialLedgerUpdate, err)
	}
	return err
}

func validateMonthYear(month, year int) error {
	var errs validator.ValidationErrors
	if !validator.IsValidMonth(month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be a number between 1 and 12",
		})
	}
	if !validator.IsValidYear(year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a four digit number",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func breakdownOf(window overtime.WorkWindow, baseHoursPerDay float64, split overtime.Split) overtime.BreakdownResponse {
	if baseHoursPerDay <= 0 {
		baseHoursPerDay = overtime.DefaultBaseHoursPerDay
	}
	return overtime.BreakdownResponse{
		TotalWorkedMinutes:   window.TotalWorkedMinutes,
		TotalWorkedHours:     overtime.MinutesToHours(window.TotalWorkedMinutes),
		LunchDeductedMinutes: window.LunchDeductedMinutes,
		BaseHoursPerDay:      baseHoursPerDay,
		BaseMinutesDeducted:  split.BaseMinutes,
		OvertimeMinutes:      split.OvertimeMinutes,
		PaidMinutes:          split.PaidMinutes,
		UnpaidMinutes:        split.UnpaidMinutes,
		Overnight:            window.Overnight,
	}
}

func listResponse(entries []overtime.WorkEntry) overtime.ListEntriesResponse {
	resp := overtime.ListEntriesResponse{
		Entries: make([]overtime.EntryResponse, 0, len(entries)),
		Count:   len(entries),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, overtime.NewEntryResponse(e))
		resp.TotalOvertimeMinutes += e.OvertimeMinutes
		resp.TotalPaidMinutes += e.PaidMinutes
		resp.TotalUnpaidMinutes += e.UnpaidMinutes
	}
	return resp
}
