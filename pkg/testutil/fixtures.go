package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/timecard/timecard-backend/internal/timecard/domain"
)

// EmployeeFixture builds an employee with a fresh ID
func EmployeeFixture(name string, hourlyRate float64) *domain.Employee {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Employee{
		ID:         uuid.New().String(),
		Name:       name,
		Role:       "staff",
		HourlyRate: hourlyRate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// RecordFixture builds an attendance record for the employee on the date
// given as YYYY-MM-DD. Empty times are left unset.
func RecordFixture(employeeID, date, clockIn, clockOut string) *domain.Record {
	d, err := domain.ParseDate(date)
	if err != nil {
		panic(err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	r := &domain.Record{
		ID:         uuid.New().String(),
		EmployeeID: employeeID,
		Date:       d,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if clockIn != "" {
		r.ClockIn = PtrString(clockIn)
	}
	if clockOut != "" {
		r.ClockOut = PtrString(clockOut)
	}
	return r
}

// WithBreak sets the break window and its minutes on the record
func WithBreak(r *domain.Record, start, end string, minutes int) *domain.Record {
	r.BreakStart = PtrString(start)
	r.BreakEnd = PtrString(end)
	r.BreakMinutes = PtrInt(minutes)
	return r
}
