package compute

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/timecard/timecard-backend/internal/timecard/domain"
)

// Hours 0-49 so that overnight shifts can be written as "26:00".
var timeOfDayPattern = regexp.MustCompile(`^([0-4]?[0-9]):[0-5][0-9]$`)

// IsValidTimeOfDay reports whether s is an H:mm or HH:mm time of day.
func IsValidTimeOfDay(s string) bool {
	return timeOfDayPattern.MatchString(s)
}

// ParseTimeOfDay resolves s against date's midnight in the business zone.
// Hours of 24 and above roll into the following day(s).
func ParseTimeOfDay(date domain.Date, s string) (time.Time, bool) {
	if date.IsZero() || !IsValidTimeOfDay(s) {
		return time.Time{}, false
	}
	h, m, _ := strings.Cut(s, ":")
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)

	// Adding a duration keeps the offset arithmetic on absolute time.
	return date.Time.Add(time.Duration(hours*60+minutes) * time.Minute), true
}

// parseField is ParseTimeOfDay for an optional record field.
func parseField(date domain.Date, s *string) (time.Time, bool) {
	if s == nil || *s == "" {
		return time.Time{}, false
	}
	return ParseTimeOfDay(date, *s)
}

// FormatTimeOfDay renders instant relative to recordDate: "HH:mm" on the
// record's own day, "H:mm" with 24 hours added per later day otherwise.
func FormatTimeOfDay(recordDate domain.Date, instant time.Time) string {
	local := instant.In(domain.Location)
	days := recordDate.DaysUntil(domain.DateOf(local))
	if days <= 0 {
		return local.Format("15:04")
	}
	return fmt.Sprintf("%d:%02d", local.Hour()+24*days, local.Minute())
}

func minutesBetween(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
