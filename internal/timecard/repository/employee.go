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

const employeeColumns = `id, name, role, hourly_rate, created_at, updated_at`

// EmployeeRepository handles employee persistence
type EmployeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns all employees ordered by name
func (r *EmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	employees := []domain.Employee{}
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY name ASC, id ASC`
	if err := sqlx.SelectContext(ctx, r.db, &employees, query); err != nil {
		return nil, err
	}
	return employees, nil
}

// GetByID gets an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	var e domain.Employee
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	err := sqlx.GetContext(ctx, r.db, &e, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("employee")
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new employee
func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	query := `
		INSERT INTO employees (id, name, role, hourly_rate)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, e.ID, e.Name, e.Role, e.HourlyRate).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if appErr := database.MapPQError(err); appErr != nil {
		return appErr
	}
	return err
}

// Update saves name, role and hourly rate
func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	query := `
		UPDATE employees
		SET name = $2, role = $3, hourly_rate = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, e.ID, e.Name, e.Role, e.HourlyRate).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return errors.NotFound("employee")
	}
	if appErr := database.MapPQError(err); appErr != nil {
		return appErr
	}
	return err
}

// Delete removes an employee; wage history and records cascade
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("employee")
	}
	return nil
}
