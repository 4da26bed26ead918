// Package workdays computes the ordered business days of a date range:
// Monday through Friday, minus configured holidays.
package workdays

import (
	"time"
)

// HolidaySet holds holiday dates keyed by calendar date. Built once per run
// and never mutated afterwards.
type HolidaySet map[string]struct{}

// NewHolidaySet builds the set from parsed holiday dates.
func NewHolidaySet(dates []time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d.Format("2006-01-02")] = struct{}{}
	}
	return set
}

// Contains reports whether t's calendar date is a holiday.
func (s HolidaySet) Contains(t time.Time) bool {
	_, ok := s[t.Format("2006-01-02")]
	return ok
}

// Workdays returns every business day from start through end inclusive,
// normalized to midnight in start's location. Saturdays, Sundays and
// holidays are excluded.
func Workdays(start, end time.Time, holidays HolidaySet) []time.Time {
	loc := start.Location()
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)

	var days []time.Time
	for !day.After(last) {
		wd := day.Weekday()
		if wd != time.Saturday && wd != time.Sunday && !holidays.Contains(day) {
			days = append(days, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return days
}
