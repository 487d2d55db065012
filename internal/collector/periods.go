package collector

import (
	"fmt"
	"time"
)

// Period is one collection window. End falls on a Sunday except for the
// final partial week, and names the snapshot files for the window.
type Period struct {
	Start time.Time
	End   time.Time
}

// FileCode is the YYYYMMDD week code the period's snapshots are written
// under.
func (p Period) FileCode() string {
	return p.End.Format("20060102")
}

// Days lists every calendar day in the period, inclusive.
func (p Period) Days() []time.Time {
	var days []time.Time
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// WeekPeriods splits a date range into Sunday-terminated weeks. The last
// period is clamped to the end date even mid-week.
func WeekPeriods(start, end time.Time) ([]Period, error) {
	start = start.Truncate(24 * time.Hour)
	end = end.Truncate(24 * time.Hour)
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	var periods []Period
	current := start
	for !current.After(end) {
		daysUntilSunday := (7 - int(current.Weekday())) % 7
		weekEnd := current.AddDate(0, 0, daysUntilSunday)
		if weekEnd.After(end) {
			weekEnd = end
		}
		periods = append(periods, Period{Start: current, End: weekEnd})
		current = weekEnd.AddDate(0, 0, 1)
	}
	return periods, nil
}
