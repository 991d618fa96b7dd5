// Package repository persists employees, wage history and attendance
// records in PostgreSQL through sqlx.
package repository

import (
	"context"

	"github.com/timecard/timecard-backend/internal/timecard/domain"
)

// EmployeeStore is the employee persistence used by the services.
type EmployeeStore interface {
	List(ctx context.Context) ([]domain.Employee, error)
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	Create(ctx context.Context, e *domain.Employee) error
	Update(ctx context.Context, e *domain.Employee) error
	Delete(ctx context.Context, id string) error
}

// WageHistoryStore is the wage history persistence used by the services.
type WageHistoryStore interface {
	ListForEmployees(ctx context.Context, employeeIDs []string) (map[string][]domain.WageRate, error)
	Create(ctx context.Context, w *domain.WageRate) error
}

// RecordStore is the attendance record persistence used by the services.
// Lookups that find nothing return nil without an error, except GetByID.
type RecordStore interface {
	List(ctx context.Context, start, end *domain.Date) ([]domain.Record, error)
	ListByEmployee(ctx context.Context, employeeID string, start, end *domain.Date) ([]domain.Record, error)
	GetByID(ctx context.Context, id string) (*domain.Record, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date domain.Date) (*domain.Record, error)
	GetOpenByEmployeeAndDate(ctx context.Context, employeeID string, date domain.Date) (*domain.Record, error)
	Create(ctx context.Context, r *domain.Record) error
	Update(ctx context.Context, r *domain.Record) error

	// InTx runs fn against a store bound to one transaction. Reads made
	// through it lock the rows they return until fn finishes.
	InTx(ctx context.Context, fn func(RecordStore) error) error
}
