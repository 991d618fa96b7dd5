package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/timecard/timecard-backend/internal/timecard/compute"
	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/internal/timecard/repository"
	"github.com/timecard/timecard-backend/pkg/errors"
)

var (
	_ repository.RecordStore      = (*MemRecordStore)(nil)
	_ repository.EmployeeStore    = (*MemEmployeeStore)(nil)
	_ repository.WageHistoryStore = (*MemWageStore)(nil)
)

// MemRecordStore is an in-memory repository.RecordStore for service and
// handler tests. InTx runs fn against the store itself.
type MemRecordStore struct {
	mu      sync.Mutex
	records []domain.Record
}

// Add stores a copy of r without any checks.
func (m *MemRecordStore) Add(r *domain.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *r)
}

func (m *MemRecordStore) List(_ context.Context, start, end *domain.Date) ([]domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := compute.FilterByDateRange(m.records, start, end)
	compute.SortNewestFirst(out)
	return out, nil
}

func (m *MemRecordStore) ListByEmployee(ctx context.Context, employeeID string, start, end *domain.Date) ([]domain.Record, error) {
	all, _ := m.List(ctx, start, end)
	out := []domain.Record{}
	for _, r := range all {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemRecordStore) find(match func(domain.Record) bool) *domain.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if match(r) {
			copied := r
			return &copied
		}
	}
	return nil
}

func (m *MemRecordStore) GetByID(_ context.Context, id string) (*domain.Record, error) {
	if r := m.find(func(r domain.Record) bool { return r.ID == id }); r != nil {
		return r, nil
	}
	return nil, errors.NotFound("attendance record")
}

func (m *MemRecordStore) GetByEmployeeAndDate(_ context.Context, employeeID string, date domain.Date) (*domain.Record, error) {
	return m.find(func(r domain.Record) bool {
		return r.EmployeeID == employeeID && r.Date.Equal(date)
	}), nil
}

func (m *MemRecordStore) GetOpenByEmployeeAndDate(_ context.Context, employeeID string, date domain.Date) (*domain.Record, error) {
	return m.find(func(r domain.Record) bool {
		return r.EmployeeID == employeeID && r.Date.Equal(date) && r.ClockIn != nil && r.ClockOut == nil
	}), nil
}

func (m *MemRecordStore) Create(ctx context.Context, r *domain.Record) error {
	if existing, _ := m.GetByEmployeeAndDate(ctx, r.EmployeeID, r.Date); existing != nil {
		return errors.Conflict("an attendance record already exists for this date")
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.Add(r)
	return nil
}

func (m *MemRecordStore) Update(_ context.Context, r *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == r.ID {
			r.UpdatedAt = time.Now()
			m.records[i] = *r
			return nil
		}
	}
	return errors.NotFound("attendance record")
}

func (m *MemRecordStore) InTx(_ context.Context, fn func(repository.RecordStore) error) error {
	return fn(m)
}

// Len returns the number of stored records.
func (m *MemRecordStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// MemEmployeeStore is an in-memory repository.EmployeeStore.
type MemEmployeeStore struct {
	Employees []domain.Employee
}

func (m *MemEmployeeStore) List(context.Context) ([]domain.Employee, error) {
	return append([]domain.Employee(nil), m.Employees...), nil
}

func (m *MemEmployeeStore) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	for _, e := range m.Employees {
		if e.ID == id {
			copied := e
			return &copied, nil
		}
	}
	return nil, errors.NotFound("employee")
}

func (m *MemEmployeeStore) Create(_ context.Context, e *domain.Employee) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	m.Employees = append(m.Employees, *e)
	return nil
}

func (m *MemEmployeeStore) Update(_ context.Context, e *domain.Employee) error {
	for i := range m.Employees {
		if m.Employees[i].ID == e.ID {
			m.Employees[i] = *e
			return nil
		}
	}
	return errors.NotFound("employee")
}

func (m *MemEmployeeStore) Delete(_ context.Context, id string) error {
	for i := range m.Employees {
		if m.Employees[i].ID == id {
			m.Employees = append(m.Employees[:i], m.Employees[i+1:]...)
			return nil
		}
	}
	return errors.NotFound("employee")
}

// MemWageStore is an in-memory repository.WageHistoryStore.
type MemWageStore struct {
	Rates []domain.WageRate
}

func (m *MemWageStore) ListForEmployees(_ context.Context, ids []string) (map[string][]domain.WageRate, error) {
	out := make(map[string][]domain.WageRate)
	for _, id := range ids {
		for _, w := range m.Rates {
			if w.EmployeeID == id {
				out[id] = append(out[id], w)
			}
		}
	}
	return out, nil
}

func (m *MemWageStore) Create(_ context.Context, w *domain.WageRate) error {
	w.EffectiveDate = w.EffectiveDate.StartOfMonth()
	for _, existing := range m.Rates {
		if existing.EmployeeID == w.EmployeeID && existing.EffectiveDate.Equal(w.EffectiveDate) {
			return errors.Conflict("a wage entry already exists for this month")
		}
	}
	m.Rates = append(m.Rates, *w)
	return nil
}
