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

type summaryRepositoryImpl struct {
	db *database.DB
}

func NewSummaryRepository(db *database.DB) overtime.SummaryRepository {
	return &summaryRepositoryImpl{db: db}
}

const summaryColumns = `
	os.id, os.worker_id, os.month, os.year,
	os.total_overtime_minutes, os.total_paid_minutes, os.total_unpaid_minutes,
	os.created_at, os.updated_at`

func scanSummary(row pgx.Row, extra ...any) (overtime.MonthlySummary, error) {
	var s overtime.MonthlySummary
	dest := []any{
		&s.ID, &s.WorkerID, &s.Month, &s.Year,
		&s.TotalOvertimeMinutes, &s.TotalPaidMinutes, &s.TotalUnpaidMinutes,
		&s.CreatedAt, &s.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return overtime.MonthlySummary{}, err
	}
	return s, nil
}

// lockName is the advisory lock identity of a summary key.
func lockName(key overtime.SummaryKey) string {
	return fmt.Sprintf("overtime_summary:%s:%04d-%02d", key.WorkerID, key.Year, key.Month)
}

// GetByKey implements overtime.SummaryRepository.
func (r *summaryRepositoryImpl) GetByKey(ctx context.Context, key overtime.SummaryKey) (*overtime.MonthlySummary, error) {
	return r.getByKey(ctx, key, false)
}

// LockByKey implements overtime.SummaryRepository. A transaction-scoped
// advisory lock covers the key even before its summary row exists.
func (r *summaryRepositoryImpl) LockByKey(ctx context.Context, key overtime.SummaryKey) (*overtime.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockName(key)); err != nil {
		return nil, fmt.Errorf("failed to take summary lock: %w", err)
	}
	return r.getByKey(ctx, key, true)
}

func (r *summaryRepositoryImpl) getByKey(ctx context.Context, key overtime.SummaryKey, forUpdate bool) (*overtime.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	if err := uuid.Validate(key.WorkerID); err != nil {
		return nil, nil
	}

	query := `
		SELECT ` + summaryColumns + `, w.name, w.employee_code, w.department
		FROM overtime_summaries os
		JOIN workers w ON w.id = os.worker_id
		WHERE os.worker_id = $1 AND os.month = $2 AND os.year = $3
	`
	if forUpdate {
		query += ` FOR UPDATE OF os`
	}

	var (
		name, dept string
		code       *string
	)
	s, err := scanSummary(q.QueryRow(ctx, query, key.WorkerID, key.Month, key.Year), &name, &code, &dept)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.WorkerName = &name
	s.WorkerEmployeeCode = code
	s.WorkerDepartment = &dept

	return &s, nil
}

// Increment implements overtime.SummaryRepository.
func (r *summaryRepositoryImpl) Increment(ctx context.Context, key overtime.SummaryKey, delta overtime.SummaryDelta) (overtime.MonthlySummary, error) {
	return r.upsert(ctx, key, delta, `
		total_overtime_minutes = os.total_overtime_minutes + EXCLUDED.total_overtime_minutes,
		total_paid_minutes = os.total_paid_minutes + EXCLUDED.total_paid_minutes,
		total_unpaid_minutes = os.total_unpaid_minutes + EXCLUDED.total_unpaid_minutes,
		updated_at = NOW()`)
}

// Overwrite implements overtime.SummaryRepository.
func (r *summaryRepositoryImpl) Overwrite(ctx context.Context, key overtime.SummaryKey, totals overtime.SummaryDelta) (overtime.MonthlySummary, error) {
	return r.upsert(ctx, key, totals, `
		total_overtime_minutes = EXCLUDED.total_overtime_minutes,
		total_paid_minutes = EXCLUDED.total_paid_minutes,
		total_unpaid_minutes = EXCLUDED.total_unpaid_minutes,
		updated_at = NOW()`)
}

func (r *summaryRepositoryImpl) upsert(ctx context.Context, key overtime.SummaryKey, values overtime.SummaryDelta, set string) (overtime.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return overtime.MonthlySummary{}, fmt.Errorf("failed to generate summary id: %w", err)
	}

	query := `
		INSERT INTO overtime_summaries AS os (
			id, worker_id, month, year,
			total_overtime_minutes, total_paid_minutes, total_unpaid_minutes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (worker_id, month, year) DO UPDATE SET ` + set + `
		RETURNING ` + summaryColumns

	s, err := scanSummary(q.QueryRow(ctx, query,
		id.String(), key.WorkerID, key.Month, key.Year,
		values.OvertimeMinutes, values.PaidMinutes, values.UnpaidMinutes,
	))
	if err != nil {
		if pgErrorCode(err) == pgCheckViolation {
			return overtime.MonthlySummary{}, fmt.Errorf("%w: %w", overtime.ErrPaidCapExceeded, err)
		}
		return overtime.MonthlySummary{}, err
	}

	return s, nil
}

// ListByWorker implements overtime.SummaryRepository.
func (r *summaryRepositoryImpl) ListByWorker(ctx context.Context, workerID string) ([]overtime.MonthlySummary, error) {
	if err := uuid.Validate(workerID); err != nil {
		return []overtime.MonthlySummary{}, nil
	}
	return r.list(ctx, `os.worker_id = $1`, `os.year DESC, os.month DESC`, workerID)
}

// ListByMonth implements overtime.SummaryRepository.
func (r *summaryRepositoryImpl) ListByMonth(ctx context.Context, month, year int) ([]overtime.MonthlySummary, error) {
	return r.list(ctx, `os.month = $1 AND os.year = $2`, `w.name, os.worker_id`, month, year)
}

func (r *summaryRepositoryImpl) list(ctx context.Context, where, orderBy string, args ...any) ([]overtime.MonthlySummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + summaryColumns + `, w.name, w.employee_code, w.department
		FROM overtime_summaries os
		JOIN workers w ON w.id = os.worker_id
		WHERE ` + where + `
		ORDER BY ` + orderBy

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]overtime.MonthlySummary, 0)
	for rows.Next() {
		var (
			name, dept string
			code       *string
		)
		s, err := scanSummary(rows, &name, &code, &dept)
		if err != nil {
			return nil, err
		}
		s.WorkerName = &name
		s.WorkerEmployeeCode = code
		s.WorkerDepartment = &dept
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}
