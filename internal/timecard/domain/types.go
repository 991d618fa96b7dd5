package domain

import "time"

// Record is one employee's attendance for one calendar day.
//
// Time fields hold time-of-day strings such as "9:00" or "26:30"; hours of
// 24 and above fall on the following day(s). A nil field has not been
// punched yet.
type Record struct {
	ID           string    `json:"id" db:"id"`
	EmployeeID   string    `json:"employee_id" db:"employee_id"`
	Date         Date      `json:"date" db:"date"`
	ClockIn      *string   `json:"clock_in" db:"clock_in"`
	ClockOut     *string   `json:"clock_out" db:"clock_out"`
	BreakStart   *string   `json:"break_start" db:"break_start"`
	BreakEnd     *string   `json:"break_end" db:"break_end"`
	BreakMinutes *int      `json:"break_minutes" db:"break_minutes"`
	Note         *string   `json:"note,omitempty" db:"note"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// HasClockIn reports whether the clock-in punch is present.
func (r *Record) HasClockIn() bool { return r.ClockIn != nil && *r.ClockIn != "" }

// HasClockOut reports whether the clock-out punch is present.
func (r *Record) HasClockOut() bool { return r.ClockOut != nil && *r.ClockOut != "" }

// OnBreak reports whether a break has started and not ended.
func (r *Record) OnBreak() bool {
	return r.BreakStart != nil && *r.BreakStart != "" && (r.BreakEnd == nil || *r.BreakEnd == "")
}

// Employee is a person whose attendance is tracked.
type Employee struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Role        string     `json:"role" db:"role"`
	HourlyRate  float64    `json:"hourly_rate" db:"hourly_rate"`
	WageHistory []WageRate `json:"wage_history,omitempty" db:"-"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// WageRate is an hourly rate that applies from EffectiveDate onward.
type WageRate struct {
	ID            string    `json:"id,omitempty" db:"id"`
	EmployeeID    string    `json:"employee_id,omitempty" db:"employee_id"`
	HourlyRate    float64   `json:"hourly_rate" db:"hourly_rate"`
	EffectiveDate Date      `json:"effective_date" db:"effective_date"`
	CreatedAt     time.Time `json:"created_at,omitempty" db:"created_at"`
}

// Issue is a compliance flag raised for a record or a range of records.
type Issue string

const (
	IssueMissingClockIn    Issue = "missing_clock_in"
	IssueMissingClockOut   Issue = "missing_clock_out"
	IssueOverwork          Issue = "overwork"
	IssueInsufficientBreak Issue = "insufficient_break"
	IssueNightShift        Issue = "night_shift"
)

// Aggregate is the fold of a set of records for one employee.
type Aggregate struct {
	Records       []Record `json:"records"`
	TotalHours    float64  `json:"total_hours"`
	EstimatedPay  int64    `json:"estimated_pay"`
	MissingCount  int      `json:"missing_count"`
	OverworkCount int      `json:"overwork_count"`
	LatestRecord  *Record  `json:"latest_record,omitempty"`
	Issues        []Issue  `json:"issues"`
}

// MonthlySummary is the aggregate over a calendar-month window.
type MonthlySummary struct {
	Aggregate
	StartDate Date `json:"start_date"`
	EndDate   Date `json:"end_date"`
}

// EmployeeSummary pairs an employee with the range and monthly aggregates
// of their records. It is derived on every request and never stored.
type EmployeeSummary struct {
	Employee Employee `json:"employee"`
	Aggregate
	Monthly MonthlySummary `json:"monthly"`
}

// DailyEntry is one record annotated with its issues and pay.
type DailyEntry struct {
	Record          Record  `json:"record"`
	Issues          []Issue `json:"issues"`
	Hours           float64 `json:"hours"`
	Pay             int64   `json:"pay"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	NightMinutes    int     `json:"night_minutes"`
	HourlyRate      float64 `json:"hourly_rate"`
}
