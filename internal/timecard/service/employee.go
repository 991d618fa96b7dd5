package service

import (
	"context"

	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/internal/timecard/events"
	"github.com/timecard/timecard-backend/internal/timecard/repository"
	"github.com/timecard/timecard-backend/pkg/actor"
	"github.com/timecard/timecard-backend/pkg/errors"
	"github.com/timecard/timecard-backend/pkg/logger"
)

// EmployeeInput carries the editable employee fields
type EmployeeInput struct {
	Name       string
	Role       string
	HourlyRate float64
}

// EmployeeService handles employee administration
type EmployeeService struct {
	employees repository.EmployeeStore
	wages     repository.WageHistoryStore
	publisher *events.TimecardEventPublisher
	logger    *logger.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(
	employees repository.EmployeeStore,
	wages repository.WageHistoryStore,
	publisher *events.TimecardEventPublisher,
	log *logger.Logger,
) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		wages:     wages,
		publisher: publisher,
		logger:    log,
	}
}

func requireAdmin(a *actor.Actor) error {
	if a == nil {
		return errors.Unauthorized("authentication required")
	}
	if !a.IsAdmin() {
		return errors.Forbidden("administrator access required")
	}
	return nil
}

// List returns all employees with their wage history, ordered by name
func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	return loadEmployees(ctx, s.employees, s.wages)
}

// Get returns one employee with their wage history
func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.wages.ListForEmployees(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	emp.WageHistory = history[id]
	return emp, nil
}

// Create adds an employee
func (s *EmployeeService) Create(ctx context.Context, a *actor.Actor, in EmployeeInput) (*domain.Employee, error) {
	if err := requireAdmin(a); err != nil {
		return nil, err
	}

	emp := &domain.Employee{Name: in.Name, Role: in.Role, HourlyRate: in.HourlyRate}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, err
	}

	s.logger.Info().Str("employee_id", emp.ID).Str("performed_by", a.UserID).Msg("employee created")
	s.publisher.PublishEmployeeCreated(ctx, emp, a.UserID)
	return emp, nil
}

// Update replaces the employee's name, role and flat rate
func (s *EmployeeService) Update(ctx context.Context, a *actor.Actor, id string, in EmployeeInput) (*domain.Employee, error) {
	if err := requireAdmin(a); err != nil {
		return nil, err
	}

	emp := &domain.Employee{ID: id, Name: in.Name, Role: in.Role, HourlyRate: in.HourlyRate}
	if err := s.employees.Update(ctx, emp); err != nil {
		return nil, err
	}

	s.logger.Info().Str("employee_id", id).Str("performed_by", a.UserID).Msg("employee updated")
	s.publisher.PublishEmployeeUpdated(ctx, emp, a.UserID)
	return emp, nil
}

// Delete removes the employee together with their records and wage history
func (s *EmployeeService) Delete(ctx context.Context, a *actor.Actor, id string) error {
	if err := requireAdmin(a); err != nil {
		return err
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("employee_id", id).Str("performed_by", a.UserID).Msg("employee deleted")
	s.publisher.PublishEmployeeDeleted(ctx, id, a.UserID)
	return nil
}

// AddWageHistory records a rate effective from the month of effectiveDate
func (s *EmployeeService) AddWageHistory(ctx context.Context, a *actor.Actor, employeeID string, hourlyRate float64, effectiveDate domain.Date) (*domain.WageRate, error) {
	if err := requireAdmin(a); err != nil {
		return nil, err
	}
	if effectiveDate.IsZero() {
		return nil, errors.BadRequest("effective date is required")
	}
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	w := &domain.WageRate{EmployeeID: employeeID, HourlyRate: hourlyRate, EffectiveDate: effectiveDate}
	if err := s.wages.Create(ctx, w); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("employee_id", employeeID).
		Str("effective_date", w.EffectiveDate.String()).
		Str("performed_by", a.UserID).
		Msg("wage history added")
	s.publisher.PublishWageHistoryCreated(ctx, w, a.UserID)
	return w, nil
}
