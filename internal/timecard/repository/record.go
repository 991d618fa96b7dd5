package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/pkg/database"
	"github.com/timecard/timecard-backend/pkg/errors"
)

const recordColumns = `
	id, employee_id, date, clock_in, clock_out, break_start, break_end,
	break_minutes, note, created_at, updated_at
`

// RecordRepository handles attendance record persistence
type RecordRepository struct {
	db *database.DB
	// q is the transaction when the repository is bound to one
	q    sqlx.ExtContext
	lock string
}

// NewRecordRepository creates a new attendance record repository
func NewRecordRepository(db *database.DB) *RecordRepository {
	return &RecordRepository{db: db, q: db}
}

// InTx runs fn with a repository bound to a single transaction.
func (r *RecordRepository) InTx(ctx context.Context, fn func(RecordStore) error) error {
	if r.lock != "" {
		return fn(r)
	}
	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		return fn(&RecordRepository{db: r.db, q: tx, lock: " FOR UPDATE"})
	})
}

// List returns records dated within [start, end], newest first then by
// employee. Nil bounds are open.
func (r *RecordRepository) List(ctx context.Context, start, end *domain.Date) ([]domain.Record, error) {
	records := []domain.Record{}
	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE ($1::date IS NULL OR date >= $1::date)
		  AND ($2::date IS NULL OR date <= $2::date)
		ORDER BY date DESC, employee_id ASC
	`
	if err := sqlx.SelectContext(ctx, r.q, &records, query, start, end); err != nil {
		return nil, err
	}
	return records, nil
}

// ListByEmployee returns one employee's records within [start, end], newest first.
func (r *RecordRepository) ListByEmployee(ctx context.Context, employeeID string, start, end *domain.Date) ([]domain.Record, error) {
	records := []domain.Record{}
	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		  AND ($2::date IS NULL OR date >= $2::date)
		  AND ($3::date IS NULL OR date <= $3::date)
		ORDER BY date DESC
	`
	if err := sqlx.SelectContext(ctx, r.q, &records, query, employeeID, start, end); err != nil {
		return nil, err
	}
	return records, nil
}

// GetByID gets a record by ID
func (r *RecordRepository) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	var rec domain.Record
	query := `SELECT ` + recordColumns + ` FROM attendance_records WHERE id = $1` + r.lock
	err := sqlx.GetContext(ctx, r.q, &rec, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("attendance record")
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByEmployeeAndDate gets the employee's record for a day, or nil.
func (r *RecordRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date domain.Date) (*domain.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date = $2` + r.lock
	return r.getOptional(ctx, query, employeeID, date)
}

// GetOpenByEmployeeAndDate gets the employee's record for a day that is
// clocked in but not out, or nil.
func (r *RecordRepository) GetOpenByEmployeeAndDate(ctx context.Context, employeeID string, date domain.Date) (*domain.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date = $2
		  AND clock_in IS NOT NULL AND clock_out IS NULL` + r.lock
	return r.getOptional(ctx, query, employeeID, date)
}

func (r *RecordRepository) getOptional(ctx context.Context, query string, args ...interface{}) (*domain.Record, error) {
	var rec domain.Record
	err := sqlx.GetContext(ctx, r.q, &rec, query, args...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create inserts a record; a second record for the same employee and day
// is a conflict.
func (r *RecordRepository) Create(ctx context.Context, rec *domain.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	query := `
		INSERT INTO attendance_records (
			id, employee_id, date, clock_in, clock_out, break_start, break_end,
			break_minutes, note
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.q.QueryRowxContext(ctx, query,
		rec.ID, rec.EmployeeID, rec.Date, rec.ClockIn, rec.ClockOut, rec.BreakStart, rec.BreakEnd,
		rec.BreakMinutes, rec.Note,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if appErr := database.MapPQError(err); appErr != nil {
		return appErr
	}
	return err
}

// Update saves every mutable field of the record
func (r *RecordRepository) Update(ctx context.Context, rec *domain.Record) error {
	query := `
		UPDATE attendance_records
		SET clock_in = $2, clock_out = $3, break_start = $4, break_end = $5,
		    break_minutes = $6, note = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.q.QueryRowxContext(ctx, query,
		rec.ID, rec.ClockIn, rec.ClockOut, rec.BreakStart, rec.BreakEnd, rec.BreakMinutes, rec.Note,
	).Scan(&rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return errors.NotFound("attendance record")
	}
	if appErr := database.MapPQError(err); appErr != nil {
		return appErr
	}
	return err
}
