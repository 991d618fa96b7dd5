package compute

import (
	"time"

	"github.com/timecard/timecard-backend/internal/timecard/domain"
)

func str(s string) *string { return &s }

func intp(i int) *int { return &i }

func day(s string) domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dayp(s string) *domain.Date {
	d := day(s)
	return &d
}

func record(date, in, out string) domain.Record {
	r := domain.Record{ID: date + in, EmployeeID: "emp-1", Date: day(date)}
	if in != "" {
		r.ClockIn = str(in)
	}
	if out != "" {
		r.ClockOut = str(out)
	}
	return r
}

func withBreak(r domain.Record, minutes int) domain.Record {
	r.BreakMinutes = intp(minutes)
	return r
}

func tokyo(year int, month time.Month, d, hour, minute int) time.Time {
	return time.Date(year, month, d, hour, minute, 0, 0, domain.Location)
}
