// Package service holds the timecard business logic: summaries over the
// attendance engine, clock punches and manual corrections, and employee
// administration.
package service

import (
	"context"
	"time"

	"github.com/timecard/timecard-backend/internal/timecard/compute"
	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/internal/timecard/repository"
	"github.com/timecard/timecard-backend/pkg/logger"
)

// SummaryQuery selects the summary range and the monthly window.
type SummaryQuery struct {
	Start *domain.Date
	End   *domain.Date
	// Month is any day of the calendar month to summarize
	Month *domain.Date
}

// EmployeeRecords is an employee with a per-day breakdown of their records.
type EmployeeRecords struct {
	Employee domain.Employee     `json:"employee"`
	Records  []domain.DailyEntry `json:"records"`
}

// SummaryService builds attendance summaries
type SummaryService struct {
	employees repository.EmployeeStore
	wages     repository.WageHistoryStore
	records   repository.RecordStore
	logger    *logger.Logger
	now       func() time.Time
}

// NewSummaryService creates a new summary service
func NewSummaryService(
	employees repository.EmployeeStore,
	wages repository.WageHistoryStore,
	records repository.RecordStore,
	log *logger.Logger,
) *SummaryService {
	return &SummaryService{
		employees: employees,
		wages:     wages,
		records:   records,
		logger:    log,
		now:       time.Now,
	}
}

// Summaries returns one summary per employee, ordered by name.
func (s *SummaryService) Summaries(ctx context.Context, q SummaryQuery) ([]domain.EmployeeSummary, error) {
	employees, err := loadEmployees(ctx, s.employees, s.wages)
	if err != nil {
		return nil, err
	}

	opts := compute.SummaryOptions{
		RangeStart: q.Start,
		RangeEnd:   q.End,
		Now:        s.now(),
	}
	if q.Month != nil {
		start, end := q.Month.StartOfMonth(), q.Month.EndOfMonth()
		opts.Monthly = compute.MonthlyWindow{Start: &start, End: &end}
	}

	from, to := loadBounds(opts)
	records, err := s.records.List(ctx, from, to)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("employees", len(employees)).
		Int("records", len(records)).
		Msg("summarizing attendance")

	return compute.SummarizeEmployees(employees, records, opts), nil
}

// loadBounds returns the dates covering both the range and the monthly
// window. An open range bound stays open.
func loadBounds(opts compute.SummaryOptions) (*domain.Date, *domain.Date) {
	if opts.RangeStart == nil && opts.RangeEnd == nil {
		return nil, nil
	}
	monthStart, monthEnd := compute.ResolveMonthlyWindow(nil, opts)

	var from, to *domain.Date
	if opts.RangeStart != nil {
		d := *opts.RangeStart
		if monthStart.Before(d) {
			d = monthStart
		}
		from = &d
	}
	if opts.RangeEnd != nil {
		d := *opts.RangeEnd
		if monthEnd.After(d) {
			d = monthEnd
		}
		to = &d
	}
	return from, to
}

// DailyBreakdown returns the employee's records, newest first, each with its
// issues and pay at the rate in effect that day. Without start and end, a
// positive days keeps the records of the last days days up to the newest one.
func (s *SummaryService) DailyBreakdown(ctx context.Context, employeeID string, start, end *domain.Date, days int) (*EmployeeRecords, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	history, err := s.wages.ListForEmployees(ctx, []string{emp.ID})
	if err != nil {
		return nil, err
	}
	emp.WageHistory = history[emp.ID]

	records, err := s.records.ListByEmployee(ctx, emp.ID, start, end)
	if err != nil {
		return nil, err
	}
	if start == nil && end == nil && days > 0 {
		records = compute.RecordsWithinDays(emp.ID, records, days)
	}

	entries := make([]domain.DailyEntry, 0, len(records))
	for _, r := range records {
		rate := compute.ResolveHourlyRate(*emp, r.Date)
		pay := compute.CalculatePay(r, rate)
		issues := compute.DetectIssues(r)
		if issues == nil {
			issues = []domain.Issue{}
		}
		entries = append(entries, domain.DailyEntry{
			Record:          r,
			Issues:          issues,
			Hours:           pay.Hours,
			Pay:             pay.Pay,
			OvertimeMinutes: pay.OvertimeMinutes,
			NightMinutes:    pay.NightMinutes,
			HourlyRate:      rate,
		})
	}

	return &EmployeeRecords{Employee: *emp, Records: entries}, nil
}

// loadEmployees lists employees with their wage history attached.
func loadEmployees(ctx context.Context, employees repository.EmployeeStore, wages repository.WageHistoryStore) ([]domain.Employee, error) {
	list, err := employees.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(list))
	for i, e := range list {
		ids[i] = e.ID
	}
	history, err := wages.ListForEmployees(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].WageHistory = history[list[i].ID]
	}
	return list, nil
}
