package compute

import "github.com/timecard/timecard-backend/internal/timecard/domain"

const (
	dailyOvertimeThresholdMinutes = 8 * 60
	weeklyOvertimeThresholdHours  = 40
	dailyOverworkHours            = 8.0

	longShiftMinutes    = 8 * 60
	longShiftMinBreak   = 60
	mediumShiftMinutes  = 6 * 60
	mediumShiftMinBreak = 45
)

// DetectIssues classifies one record. Missing punches are flagged
// independently; the duration rules only run when both punches parse.
// The result never holds duplicates.
func DetectIssues(r domain.Record) []domain.Issue {
	var issues []domain.Issue
	if !r.HasClockIn() {
		issues = append(issues, domain.IssueMissingClockIn)
	}
	if !r.HasClockOut() {
		issues = append(issues, domain.IssueMissingClockOut)
	}

	start, okStart := parseField(r.Date, r.ClockIn)
	end, okEnd := parseField(r.Date, r.ClockOut)
	if !okStart || !okEnd {
		return issues
	}

	raw := minutesBetween(start, end)
	breakMinutes := BreakMinutes(r)

	switch {
	case raw > longShiftMinutes && breakMinutes < longShiftMinBreak:
		issues = append(issues, domain.IssueInsufficientBreak)
	case raw > mediumShiftMinutes && breakMinutes < mediumShiftMinBreak:
		issues = append(issues, domain.IssueInsufficientBreak)
	}

	if NightOverlapMinutes(start, end) > 0 {
		issues = append(issues, domain.IssueNightShift)
	}

	if hours, ok := NetHours(r); ok && hours > dailyOverworkHours {
		issues = append(issues, domain.IssueOverwork)
	}
	return issues
}

// HasIssue reports whether issues contains want.
func HasIssue(issues []domain.Issue, want domain.Issue) bool {
	for _, issue := range issues {
		if issue == want {
			return true
		}
	}
	return false
}
