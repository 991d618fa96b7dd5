package compute

import (
	"math"
	"time"

	"github.com/timecard/timecard-backend/internal/timecard/domain"
)

const (
	nightStartHour = 22
	nightEndHour   = 5

	overtimePremium = 0.25
	nightPremium    = 0.25
)

// PayBreakdown is the result of pricing one record.
type PayBreakdown struct {
	Hours           float64 `json:"hours"`
	Pay             int64   `json:"pay"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	NightMinutes    int     `json:"night_minutes"`
}

// BreakMinutes returns the record's break length. A stored BreakMinutes is
// authoritative, even zero; otherwise a valid positive break window counts.
func BreakMinutes(r domain.Record) int {
	if r.BreakMinutes != nil {
		return *r.BreakMinutes
	}
	return BreakWindowMinutes(r.Date, r.BreakStart, r.BreakEnd)
}

// BreakWindowMinutes returns the length of [start, end) on date, or 0 when
// either bound is missing or invalid or the window is not positive.
func BreakWindowMinutes(date domain.Date, start, end *string) int {
	s, okStart := parseField(date, start)
	e, okEnd := parseField(date, end)
	if !okStart || !okEnd || !e.After(s) {
		return 0
	}
	return minutesBetween(s, e)
}

// netMinutes returns punch-to-punch minutes less the break and the parsed
// punches. ok is false when either punch is missing or invalid.
func netMinutes(r domain.Record) (net int, start, end time.Time, ok bool) {
	start, okStart := parseField(r.Date, r.ClockIn)
	end, okEnd := parseField(r.Date, r.ClockOut)
	if !okStart || !okEnd {
		return 0, start, end, false
	}
	return minutesBetween(start, end) - BreakMinutes(r), start, end, true
}

// NetHours returns worked hours after the break. ok is false when a punch is
// missing or invalid or nothing positive remains.
func NetHours(r domain.Record) (float64, bool) {
	net, _, _, ok := netMinutes(r)
	if !ok || net <= 0 {
		return 0, false
	}
	return float64(net) / 60, true
}

// NightOverlapMinutes returns the minutes of [start, end) falling in the
// night window 22:00-05:00 that begins on start's business day.
func NightOverlapMinutes(start, end time.Time) int {
	startDay := domain.DateOf(start).Time
	nightStart := startDay.Add(nightStartHour * time.Hour)
	midnight := startDay.Add(24 * time.Hour)
	nightEnd := midnight.Add(nightEndHour * time.Hour)

	return overlapMinutes(start, end, nightStart, midnight) +
		overlapMinutes(start, end, midnight, nightEnd)
}

func overlapMinutes(start, end, windowStart, windowEnd time.Time) int {
	s := start
	if windowStart.After(s) {
		s = windowStart
	}
	e := end
	if windowEnd.Before(e) {
		e = windowEnd
	}
	if !e.After(s) {
		return 0
	}
	return minutesBetween(s, e)
}

// CalculatePay prices one record at hourlyRate. Overtime beyond eight hours
// and night minutes each earn a 25% premium and stack. Pay is rounded to a
// whole currency unit.
func CalculatePay(r domain.Record, hourlyRate float64) PayBreakdown {
	net, start, end, ok := netMinutes(r)
	if !ok || net <= 0 {
		return PayBreakdown{}
	}

	overtime := max(0, net-dailyOvertimeThresholdMinutes)
	night := min(net, NightOverlapMinutes(start, end))

	base := float64(net) / 60 * hourlyRate
	overtimePay := float64(overtime) / 60 * hourlyRate * overtimePremium
	nightPay := float64(night) / 60 * hourlyRate * nightPremium

	return PayBreakdown{
		Hours:           float64(net) / 60,
		Pay:             int64(math.Round(base + overtimePay + nightPay)),
		OvertimeMinutes: overtime,
		NightMinutes:    night,
	}
}

// ResolveHourlyRate returns the rate in effect on date: the most recent wage
// entry effective on or before date, else the employee's flat rate.
func ResolveHourlyRate(e domain.Employee, date domain.Date) float64 {
	var (
		best  domain.WageRate
		found bool
	)
	for _, w := range e.WageHistory {
		if w.EffectiveDate.After(date) {
			continue
		}
		if !found || w.EffectiveDate.After(best.EffectiveDate) {
			best, found = w, true
		}
	}
	if !found {
		return e.HourlyRate
	}
	return best.HourlyRate
}
