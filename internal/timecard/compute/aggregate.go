package compute

import (
	"math"
	"sort"
	"time"

	"github.com/timecard/timecard-backend/internal/timecard/domain"
)

// IsWithinRange reports whether date lies in [start, end]. A nil bound is open.
func IsWithinRange(date domain.Date, start, end *domain.Date) bool {
	if date.IsZero() {
		return false
	}
	if start != nil && date.Before(*start) {
		return false
	}
	if end != nil && date.After(*end) {
		return false
	}
	return true
}

// FilterByDateRange keeps the records dated within [start, end], in order.
func FilterByDateRange(records []domain.Record, start, end *domain.Date) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if IsWithinRange(r.Date, start, end) {
			out = append(out, r)
		}
	}
	return out
}

// LatestDatasetDate returns the newest record date.
func LatestDatasetDate(records []domain.Record) (domain.Date, bool) {
	latest := latestRecord(records)
	if latest == nil {
		return domain.Date{}, false
	}
	return latest.Date, true
}

// latestRecord returns the record with the greatest date; the first one in
// input order wins a tie.
func latestRecord(records []domain.Record) *domain.Record {
	var latest *domain.Record
	for i := range records {
		if latest == nil || records[i].Date.After(latest.Date) {
			latest = &records[i]
		}
	}
	if latest == nil {
		return nil
	}
	r := *latest
	return &r
}

// RecordsWithinDays returns employeeID's records from the last days days of
// the dataset, counted back from its newest date, newest first.
func RecordsWithinDays(employeeID string, records []domain.Record, days int) []domain.Record {
	base, ok := LatestDatasetDate(records)
	if !ok {
		return []domain.Record{}
	}
	start := base.AddDays(-(days - 1))

	var out []domain.Record
	for _, r := range FilterByDateRange(records, &start, &base) {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	SortNewestFirst(out)
	if out == nil {
		out = []domain.Record{}
	}
	return out
}

// SortNewestFirst orders records by date descending, keeping input order on ties.
func SortNewestFirst(records []domain.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}

// MonthlyWindow selects the monthly aggregate's dates. Start and End
// override the computed bounds; either one also picks the month when set.
type MonthlyWindow struct {
	Start *domain.Date
	End   *domain.Date
}

// SummaryOptions controls SummarizeEmployees.
type SummaryOptions struct {
	RangeStart *domain.Date
	RangeEnd   *domain.Date
	Monthly    MonthlyWindow
	// Now is the last fallback for the monthly window. Zero means time.Now.
	Now time.Time
}

// ResolveMonthlyWindow returns the monthly aggregate's inclusive bounds.
// The month is taken from the first of Monthly.Start, Monthly.End, the range
// end, the range start, the dataset's latest date and Now.
func ResolveMonthlyWindow(records []domain.Record, opts SummaryOptions) (domain.Date, domain.Date) {
	var base domain.Date
	switch {
	case opts.Monthly.Start != nil:
		base = *opts.Monthly.Start
	case opts.Monthly.End != nil:
		base = *opts.Monthly.End
	case opts.RangeEnd != nil:
		base = *opts.RangeEnd
	case opts.RangeStart != nil:
		base = *opts.RangeStart
	default:
		if latest, ok := LatestDatasetDate(records); ok {
			base = latest
		} else {
			now := opts.Now
			if now.IsZero() {
				now = time.Now()
			}
			base = domain.DateOf(now)
		}
	}

	start, end := base.StartOfMonth(), base.EndOfMonth()
	if opts.Monthly.Start != nil {
		start = *opts.Monthly.Start
	}
	if opts.Monthly.End != nil {
		end = *opts.Monthly.End
	}
	return start, end
}

// SummarizeEmployees folds records into one summary per employee, in the
// order employees are given. Each summary carries a range aggregate over
// [RangeStart, RangeEnd] and a monthly aggregate over the resolved window.
func SummarizeEmployees(employees []domain.Employee, records []domain.Record, opts SummaryOptions) []domain.EmployeeSummary {
	rangeRecords := FilterByDateRange(records, opts.RangeStart, opts.RangeEnd)
	monthStart, monthEnd := ResolveMonthlyWindow(records, opts)
	monthlyRecords := FilterByDateRange(records, &monthStart, &monthEnd)

	summaries := make([]domain.EmployeeSummary, 0, len(employees))
	for _, e := range employees {
		summaries = append(summaries, domain.EmployeeSummary{
			Employee:  e,
			Aggregate: Aggregate(e, recordsOf(e.ID, rangeRecords), true),
			Monthly: domain.MonthlySummary{
				Aggregate: Aggregate(e, recordsOf(e.ID, monthlyRecords), false),
				StartDate: monthStart,
				EndDate:   monthEnd,
			},
		})
	}
	return summaries
}

func recordsOf(employeeID string, records []domain.Record) []domain.Record {
	out := []domain.Record{}
	for _, r := range records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate folds one employee's records. OverworkCount counts records
// flagged overwork or insufficient_break. With weekly set, more than 40
// total hours adds an overwork issue and one to OverworkCount. Hours are
// rounded to one decimal after summing.
func Aggregate(e domain.Employee, records []domain.Record, weekly bool) domain.Aggregate {
	var (
		totalHours float64
		pay        int64
		agg        = domain.Aggregate{Records: records, Issues: []domain.Issue{}}
		seen       = make(map[domain.Issue]bool)
	)

	addIssue := func(issue domain.Issue) {
		if !seen[issue] {
			seen[issue] = true
			agg.Issues = append(agg.Issues, issue)
		}
	}

	for _, r := range records {
		issues := DetectIssues(r)
		for _, issue := range issues {
			addIssue(issue)
		}
		if HasIssue(issues, domain.IssueMissingClockIn) {
			agg.MissingCount++
		}
		if HasIssue(issues, domain.IssueMissingClockOut) {
			agg.MissingCount++
		}
		if HasIssue(issues, domain.IssueOverwork) || HasIssue(issues, domain.IssueInsufficientBreak) {
			agg.OverworkCount++
		}

		breakdown := CalculatePay(r, ResolveHourlyRate(e, r.Date))
		totalHours += breakdown.Hours
		pay += breakdown.Pay
	}

	if weekly && totalHours > weeklyOvertimeThresholdHours {
		agg.OverworkCount++
		addIssue(domain.IssueOverwork)
	}

	agg.TotalHours = math.Round(totalHours*10) / 10
	agg.EstimatedPay = pay
	agg.LatestRecord = latestRecord(records)
	return agg
}
