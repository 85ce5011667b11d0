package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/worker"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type workerRepositoryImpl struct {
	db *database.DB
}

func NewWorkerRepository(db *database.DB) worker.WorkerRepository {
	return &workerRepositoryImpl{db: db}
}

// Create implements worker.WorkerRepository.
func (r *workerRepositoryImpl) Create(ctx context.Context, w worker.Worker) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return worker.Worker{}, fmt.Errorf("failed to generate worker id: %w", err)
	}

	query := `
		INSERT INTO workers (id, name, employee_code, department, role, base_hours_per_day)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, employee_code, department, role, base_hours_per_day, created_at, updated_at
	`

	var created worker.Worker
	err = q.QueryRow(ctx, query,
		id.String(), w.Name, w.EmployeeCode, w.Department, w.Role, w.BaseHoursPerDay,
	).Scan(
		&created.ID,
		&created.Name,
		&created.EmployeeCode,
		&created.Department,
		&created.Role,
		&created.BaseHoursPerDay,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return worker.Worker{}, worker.ErrEmployeeCodeExists
		}
		return worker.Worker{}, err
	}

	return created, nil
}

// GetByID implements worker.WorkerRepository.
func (r *workerRepositoryImpl) GetByID(ctx context.Context, id string) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	if err := uuid.Validate(id); err != nil {
		return worker.Worker{}, worker.ErrWorkerNotFound
	}

	query := `
		SELECT id, name, employee_code, department, role, base_hours_per_day, created_at, updated_at
		FROM workers
		WHERE id = $1
	`

	var w worker.Worker
	err := q.QueryRow(ctx, query, id).Scan(
		&w.ID,
		&w.Name,
		&w.EmployeeCode,
		&w.Department,
		&w.Role,
		&w.BaseHoursPerDay,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worker.Worker{}, worker.ErrWorkerNotFound
		}
		return worker.Worker{}, err
	}

	return w, nil
}

// Update implements worker.WorkerRepository.
func (r *workerRepositoryImpl) Update(ctx context.Context, w worker.Worker) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	if err := uuid.Validate(w.ID); err != nil {
		return worker.Worker{}, worker.ErrWorkerNotFound
	}

	query := `
		UPDATE workers
		SET name = $2, employee_code = $3, department = $4, role = $5,
		    base_hours_per_day = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, employee_code, department, role, base_hours_per_day, created_at, updated_at
	`

	var updated worker.Worker
	err := q.QueryRow(ctx, query,
		w.ID, w.Name, w.EmployeeCode, w.Department, w.Role, w.BaseHoursPerDay,
	).Scan(
		&updated.ID,
		&updated.Name,
		&updated.EmployeeCode,
		&updated.Department,
		&updated.Role,
		&updated.BaseHoursPerDay,
		&updated.CreatedAt,
		&updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worker.Worker{}, worker.ErrWorkerNotFound
		}
		if pgErrorCode(err) == pgUniqueViolation {
			return worker.Worker{}, worker.ErrEmployeeCodeExists
		}
		return worker.Worker{}, err
	}

	return updated, nil
}

// Delete implements worker.WorkerRepository.
func (r *workerRepositoryImpl) Delete(ctx context.Context, id string) error {
	if err := uuid.Validate(id); err != nil {
		return worker.ErrWorkerNotFound
	}

	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		_, err := q.Exec(ctx, `
			DELETE FROM overtime_summaries
			WHERE worker_id = $1
			  AND total_overtime_minutes = 0
			  AND total_paid_minutes = 0
			  AND total_unpaid_minutes = 0
		`, id)
		if err != nil {
			return fmt.Errorf("failed to clear zeroed summaries: %w", err)
		}

		tag, err := q.Exec(ctx, `DELETE FROM workers WHERE id = $1`, id)
		if err != nil {
			if pgErrorCode(err) == pgForeignKeyViolation {
				return worker.ErrWorkerHasEntries
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return worker.ErrWorkerNotFound
		}
		return nil
	})
}

// List implements worker.WorkerRepository.
func (r *workerRepositoryImpl) List(ctx context.Context, filter worker.ListFilter) ([]worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, employee_code, department, role, base_hours_per_day, created_at, updated_at
		FROM workers
		WHERE ($1::text IS NULL OR department = $1)
		ORDER BY name, id
	`

	rows, err := q.Query(ctx, query, filter.Department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]worker.Worker, 0)
	for rows.Next() {
		var w worker.Worker
		if err := rows.Scan(
			&w.ID, &w.Name, &w.EmployeeCode, &w.Department, &w.Role,
			&w.BaseHoursPerDay, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}

	return workers, rows.Err()
}
