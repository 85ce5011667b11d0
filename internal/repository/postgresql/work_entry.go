package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type workEntryRepositoryImpl struct {
	db *database.DB
}

func NewWorkEntryRepository(db *database.DB) overtime.WorkEntryRepository {
	return &workEntryRepositoryImpl{db: db}
}

const workEntryColumns = `
	we.id, we.worker_id, we.work_date, we.start_time, we.end_time, we.deduct_lunch,
	we.total_worked_minutes, we.base_minutes_deducted, we.overtime_minutes,
	we.paid_minutes, we.unpaid_minutes, we.month, we.year, we.notes,
	we.created_at, we.updated_at`

func scanWorkEntry(row pgx.Row, extra ...any) (overtime.WorkEntry, error) {
	var e overtime.WorkEntry
	dest := []any{
		&e.ID, &e.WorkerID, &e.Date, &e.StartTime, &e.EndTime, &e.DeductLunch,
		&e.TotalWorkedMinutes, &e.BaseMinutesDeducted, &e.OvertimeMinutes,
		&e.PaidMinutes, &e.UnpaidMinutes, &e.Month, &e.Year, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return overtime.WorkEntry{}, err
	}
	return e, nil
}

// Create implements overtime.WorkEntryRepository.
func (r *workEntryRepositoryImpl) Create(ctx context.Context, entry overtime.WorkEntry) (overtime.WorkEntry, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return overtime.WorkEntry{}, fmt.Errorf("failed to generate entry id: %w", err)
	}

	query := `
		INSERT INTO work_entries AS we (
			id, worker_id, work_date, start_time, end_time, deduct_lunch,
			total_worked_minutes, base_minutes_deducted, overtime_minutes,
			paid_minutes, unpaid_minutes, month, year, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + workEntryColumns

	created, err := scanWorkEntry(q.QueryRow(ctx, query,
		id.String(), entry.WorkerID, entry.Date, entry.StartTime, entry.EndTime, entry.DeductLunch,
		entry.TotalWorkedMinutes, entry.BaseMinutesDeducted, entry.OvertimeMinutes,
		entry.PaidMinutes, entry.UnpaidMinutes, entry.Month, entry.Year, entry.Notes,
	))
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return overtime.WorkEntry{}, overtime.ErrDuplicateEntry
		}
		return overtime.WorkEntry{}, err
	}

	return created, nil
}

// GetByID implements overtime.WorkEntryRepository.
func (r *workEntryRepositoryImpl) GetByID(ctx context.Context, id string) (overtime.WorkEntry, error) {
	q := GetQuerier(ctx, r.db)

	if err := uuid.Validate(id); err != nil {
		return overtime.WorkEntry{}, overtime.ErrEntryNotFound
	}

	query := `
		SELECT ` + workEntryColumns + `, w.name, w.department
		FROM work_entries we
		JOIN workers w ON w.id = we.worker_id
		WHERE we.id = $1
	`

	var name, dept string
	entry, err := scanWorkEntry(q.QueryRow(ctx, query, id), &name, &dept)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.WorkEntry{}, overtime.ErrEntryNotFound
		}
		return overtime.WorkEntry{}, err
	}
	entry.WorkerName = &name
	entry.WorkerDepartment = &dept

	return entry, nil
}

// Update implements overtime.WorkEntryRepository. The worker and date of an
// entry never change.
func (r *workEntryRepositoryImpl) Update(ctx context.Context, entry overtime.WorkEntry) (overtime.WorkEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_entries AS we
		SET start_time = $2,
			end_time = $3,
			deduct_lunch = $4,
			total_worked_minutes = $5,
			base_minutes_deducted = $6,
			overtime_minutes = $7,
			paid_minutes = $8,
			unpaid_minutes = $9,
			notes = $10,
			updated_at = NOW()
		WHERE we.id = $1
		RETURNING ` + workEntryColumns

	updated, err := scanWorkEntry(q.QueryRow(ctx, query,
		entry.ID, entry.StartTime, entry.EndTime, entry.DeductLunch,
		entry.TotalWorkedMinutes, entry.BaseMinutesDeducted, entry.OvertimeMinutes,
		entry.PaidMinutes, entry.UnpaidMinutes, entry.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.WorkEntry{}, overtime.ErrEntryNotFound
		}
		if pgErrorCode(err) == pgUniqueViolation {
			return overtime.WorkEntry{}, overtime.ErrDuplicateEntry
		}
		return overtime.WorkEntry{}, err
	}

	return updated, nil
}

// Delete implements overtime.WorkEntryRepository.
func (r *workEntryRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM work_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return overtime.ErrEntryNotFound
	}
	return nil
}

// ListByWorker implements overtime.WorkEntryRepository.
func (r *workEntryRepositoryImpl) ListByWorker(ctx context.Context, workerID string, filter overtime.EntryFilter) ([]overtime.WorkEntry, error) {
	if err := uuid.Validate(workerID); err != nil {
		return []overtime.WorkEntry{}, nil
	}
	return r.list(ctx, &workerID, filter)
}

// List implements overtime.WorkEntryRepository.
func (r *workEntryRepositoryImpl) List(ctx context.Context, filter overtime.EntryFilter) ([]overtime.WorkEntry, error) {
	return r.list(ctx, nil, filter)
}

func (r *workEntryRepositoryImpl) list(ctx context.Context, workerID *string, filter overtime.EntryFilter) ([]overtime.WorkEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + workEntryColumns + `, w.name, w.department
		FROM work_entries we
		JOIN workers w ON w.id = we.worker_id
		WHERE ($1::uuid IS NULL OR we.worker_id = $1)
		  AND ($2::int IS NULL OR we.month = $2)
		  AND ($3::int IS NULL OR we.year = $3)
		  AND ($4::text IS NULL OR w.department = $4)
		ORDER BY we.work_date DESC, we.start_time DESC, we.id
	`

	rows, err := q.Query(ctx, query, workerID, filter.Month, filter.Year, filter.Department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]overtime.WorkEntry, 0)
	for rows.Next() {
		var name, dept string
		entry, err := scanWorkEntry(rows, &name, &dept)
		if err != nil {
			return nil, err
		}
		entry.WorkerName = &name
		entry.WorkerDepartment = &dept
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// SumByKey implements overtime.WorkEntryRepository.
func (r *workEntryRepositoryImpl) SumByKey(ctx context.Context, key overtime.SummaryKey) (overtime.SummaryDelta, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(overtime_minutes), 0),
			   COALESCE(SUM(paid_minutes), 0),
			   COALESCE(SUM(unpaid_minutes), 0)
		FROM work_entries
		WHERE worker_id = $1 AND month = $2 AND year = $3
	`

	var total overtime.SummaryDelta
	err := q.QueryRow(ctx, query, key.WorkerID, key.Month, key.Year).Scan(
		&total.OvertimeMinutes, &total.PaidMinutes, &total.UnpaidMinutes,
	)
	if err != nil {
		return overtime.SummaryDelta{}, err
	}
	return total, nil
}

// SumByMonth implements overtime.WorkEntryRepository.
func (r *workEntryRepositoryImpl) SumByMonth(ctx context.Context, month, year int) (map[overtime.SummaryKey]overtime.SummaryDelta, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT worker_id, SUM(overtime_minutes), SUM(paid_minutes), SUM(unpaid_minutes)
		FROM work_entries
		WHERE month = $1 AND year = $2
		GROUP BY worker_id
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[overtime.SummaryKey]overtime.SummaryDelta)
	for rows.Next() {
		var (
			workerID string
			total    overtime.SummaryDelta
		)
		if err := rows.Scan(&workerID, &total.OvertimeMinutes, &total.PaidMinutes, &total.UnpaidMinutes); err != nil {
			return nil, err
		}
		totals[overtime.SummaryKey{WorkerID: workerID, Month: month, Year: year}] = total
	}

	return totals, rows.Err()
}
