package worker

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/worker"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/validator"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/repository/memory"
	serviceOvertime "github.com/cmlabs-hris/overtime-ledger-go/internal/service/overtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestWorkerService() (worker.WorkerService, overtime.SummaryRepository) {
	store := memory.NewStore()
	summaries := memory.NewSummaryRepository(store)
	return NewWorkerService(memory.NewWorkerRepository(store), summaries), summaries
}

func TestCreateWorker_Defaults(t *testing.T) {
	svc, _ := newTestWorkerService()

	resp, err := svc.CreateWorker(context.Background(), worker.CreateWorkerRequest{Name: "  Rina  "})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Rina", resp.Name)
	assert.Equal(t, worker.DefaultDepartment, resp.Department)
	assert.Equal(t, worker.DefaultRole, resp.Role)
	assert.Equal(t, 8.0, resp.BaseHoursPerDay)
	assert.Nil(t, resp.EmployeeCode)
}

func TestCreateWorker_DuplicateEmployeeCode(t *testing.T) {
	svc, _ := newTestWorkerService()
	ctx := context.Background()

	_, err := svc.CreateWorker(ctx, worker.CreateWorkerRequest{Name: "A", EmployeeCode: strPtr("EMP-1")})
	require.NoError(t, err)

	_, err = svc.CreateWorker(ctx, worker.CreateWorkerRequest{Name: "B", EmployeeCode: strPtr("EMP-1")})
	assert.ErrorIs(t, err, worker.ErrEmployeeCodeExists)
}

func TestCreateWorker_Validation(t *testing.T) {
	svc, _ := newTestWorkerService()
	zero := 0.0

	_, err := svc.CreateWorker(context.Background(), worker.CreateWorkerRequest{Name: " ", BaseHoursPerDay: &zero})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "name")
	assert.Contains(t, errs.ToMap(), "base_hours_per_day")
}

func TestGetWorker_NotFound(t *testing.T) {
	svc, _ := newTestWorkerService()

	_, err := svc.GetWorker(context.Background(), "missing")
	assert.ErrorIs(t, err, worker.ErrWorkerNotFound)
}

func TestListWorkers_WithUsage(t *testing.T) {
	svc, summaries := newTestWorkerService()
	ctx := context.Background()

	busy, err := svc.CreateWorker(ctx, worker.CreateWorkerRequest{Name: "Busy", Department: strPtr("Warehouse")})
	require.NoError(t, err)
	_, err = svc.CreateWorker(ctx, worker.CreateWorkerRequest{Name: "Idle", Department: strPtr("Warehouse")})
	require.NoError(t, err)
	_, err = svc.CreateWorker(ctx, worker.CreateWorkerRequest{Name: "Office", Department: strPtr("Admin")})
	require.NoError(t, err)

	_, err = summaries.Increment(ctx, overtime.SummaryKey{WorkerID: busy.ID, Month: 3, Year: 2025},
		overtime.SummaryDelta{OvertimeMinutes: 90, PaidMinutes: 90})
	require.NoError(t, err)

	list, err := svc.ListWorkers(ctx, worker.ListWorkersRequest{Month: 3, Year: 2025, Department: strPtr("Warehouse")})
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "Busy", list[0].Name)
	assert.Equal(t, 90, list[0].UsedMinutes)
	assert.Equal(t, 1.5, list[0].UsedHours)
	assert.Equal(t, 4230, list[0].RemainingMinutes)
	assert.Equal(t, 70.5, list[0].RemainingHours)

	assert.Equal(t, "Idle", list[1].Name)
	assert.Equal(t, 0, list[1].UsedMinutes)
	assert.Equal(t, overtime.PaidLimitMinutes, list[1].RemainingMinutes)
}

func TestListWorkers_InvalidMonth(t *testing.T) {
	svc, _ := newTestWorkerService()

	_, err := svc.ListWorkers(context.Background(), worker.ListWorkersRequest{Month: 13, Year: 2025})
	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs)
}

type ledgerFixture struct {
	workers worker.WorkerService
	ledger  overtime.LedgerService
}

func newLedgerFixture() ledgerFixture {
	store := memory.NewStore()
	workerRepo := memory.NewWorkerRepository(store)
	entries := memory.NewWorkEntryRepository(store)
	summaries := memory.NewSummaryRepository(store)
	return ledgerFixture{
		workers: NewWorkerService(workerRepo, summaries),
		ledger:  serviceOvertime.NewLedgerService(store, entries, summaries, workerRepo),
	}
}

func TestUpdateWorker(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	created, err := f.workers.CreateWorker(ctx, worker.CreateWorkerRequest{Name: "Sari", EmployeeCode: strPtr("EMP-7")})
	require.NoError(t, err)
	_, err = f.workers.CreateWorker(ctx, worker.CreateWorkerRequest{Name: "Tono", EmployeeCode: strPtr("EMP-8")})
	require.NoError(t, err)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		resp, err := f.workers.UpdateWorker(ctx, worker.UpdateWorkerRequest{ID: created.ID, Department: strPtr("Logistics")})
		require.NoError(t, err)
		assert.Equal(t, "Sari", resp.Name)
		assert.Equal(t, "Logistics", resp.Department)
		require.NotNil(t, resp.EmployeeCode)
		assert.Equal(t, "EMP-7", *resp.EmployeeCode)
	})

	t.Run("empty employee code clears it", func(t *testing.T) {
		resp, err := f.workers.UpdateWorker(ctx, worker.UpdateWorkerRequest{ID: created.ID, EmployeeCode: strPtr(" ")})
		require.NoError(t, err)
		assert.Nil(t, resp.EmployeeCode)
	})

	t.Run("employee code taken by another worker", func(t *testing.T) {
		_, err := f.workers.UpdateWorker(ctx, worker.UpdateWorkerRequest{ID: created.ID, EmployeeCode: strPtr("EMP-8")})
		assert.ErrorIs(t, err, worker.ErrEmployeeCodeExists)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := f.workers.UpdateWorker(ctx, worker.UpdateWorkerRequest{ID: "missing", Name: strPtr("X")})
		assert.ErrorIs(t, err, worker.ErrWorkerNotFound)
	})

	t.Run("invalid base hours", func(t *testing.T) {
		over := 25.0
		_, err := f.workers.UpdateWorker(ctx, worker.UpdateWorkerRequest{ID: created.ID, BaseHoursPerDay: &over})
		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "base_hours_per_day")
	})
}

func TestUpdateWorker_BaseHoursApplyToNewEntries(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	created, err := f.workers.CreateWorker(ctx, worker.CreateWorkerRequest{Name: "Yusuf"})
	require.NoError(t, err)

	first, err := f.ledger.AddEntry(ctx, overtime.AddEntryRequest{
		WorkerID: created.ID, Date: "2025-03-10", StartTime: "08:00", EndTime: "19:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 120, first.Entry.OvertimeMinutes)

	ten := 10.0
	_, err = f.workers.UpdateWorker(ctx, worker.UpdateWorkerRequest{ID: created.ID, BaseHoursPerDay: &ten})
	require.NoError(t, err)

	_, err = f.ledger.AddEntry(ctx, overtime.AddEntryRequest{
		WorkerID: created.ID, Date: "2025-03-11", StartTime: "08:00", EndTime: "19:00",
	})
	var noOvertime *overtime.NoOvertimeError
	assert.ErrorAs(t, err, &noOvertime)

	entry, err := f.ledger.GetEntry(ctx, first.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, entry.OvertimeMinutes)
}

func TestDeleteWorker(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	created, err := f.workers.CreateWorker(ctx, worker.CreateWorkerRequest{Name: "Lina"})
	require.NoError(t, err)
	entry, err := f.ledger.AddEntry(ctx, overtime.AddEntryRequest{
		WorkerID: created.ID, Date: "2025-03-10", StartTime: "08:00", EndTime: "20:00",
	})
	require.NoError(t, err)

	err = f.workers.DeleteWorker(ctx, created.ID)
	assert.ErrorIs(t, err, worker.ErrWorkerHasEntries)

	_, err = f.ledger.DeleteEntry(ctx, entry.Entry.ID)
	require.NoError(t, err)

	require.NoError(t, f.workers.DeleteWorker(ctx, created.ID))
	_, err = f.workers.GetWorker(ctx, created.ID)
	assert.ErrorIs(t, err, worker.ErrWorkerNotFound)

	assert.ErrorIs(t, f.workers.DeleteWorker(ctx, created.ID), worker.ErrWorkerNotFound)
}
