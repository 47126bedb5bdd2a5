// Package recurrence computes occurrence dates for recurring financial items.
// All functions are pure: reference times are passed in explicitly so callers
// (and tests) control "now". Dates are compared at day granularity in UTC.
package recurrence

import (
	"fmt"
	"time"
)

// Period is the repetition cadence of a recurring item.
type Period string

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
	Once    Period = "once"
)

// ParsePeriod returns the Period for s, and whether s is a recognized cadence.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case Weekly, Monthly, Yearly, Once:
		return Period(s), true
	}
	return Period(s), false
}

// Valid reports whether p is a recognized cadence.
func (p Period) Valid() bool {
	_, ok := ParsePeriod(string(p))
	return ok
}

// StartOfDay normalizes t to UTC midnight of its calendar day, so that a date
// entered as "Nov 22" stays "Nov 22" regardless of the zone it was created in.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampedDate builds a UTC-midnight date, clamping day to the last day of the
// target month: min(day, lastDayOfMonth). An anchor on the 31st lands on
// Feb 28 (29 in leap years), Apr 30, and so on.
func clampedDate(year int, month time.Month, day int) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// weeklySearchBound caps the weekly next-occurrence scan. A weekday always
// repeats within 7 days, so the bound only trips on misconfigured input.
const weeklySearchBound = 8

// NextOccurrence returns the first occurrence of an item strictly after ref.
// The boolean is false when there is no next occurrence: a one-time item
// already in the past, or an unrecognized period.
func NextOccurrence(anchor time.Time, period Period, ref time.Time) (time.Time, bool) {
	switch period {
	case Weekly:
		return nextWeekly(anchor, ref), true
	case Monthly:
		return nextMonthly(anchor, ref), true
	case Yearly:
		return nextYearly(anchor, ref), true
	case Once:
		if anchor.After(ref) {
			return anchor, true
		}
		return time.Time{}, false
	}
	return time.Time{}, false
}

func nextWeekly(anchor, ref time.Time) time.Time {
	target := anchor.Weekday()
	next := ref
	for attempts := 0; attempts < weeklySearchBound; attempts++ {
		if next.Weekday() == target && next.After(ref) {
			return next
		}
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func nextMonthly(anchor, ref time.Time) time.Time {
	day := anchor.Day()
	thisMonth := clampedDate(ref.Year(), ref.Month(), day)
	if thisMonth.After(ref) {
		return thisMonth
	}
	year, month := ref.Year(), ref.Month()+1
	if month > time.December {
		month = time.January
		year++
	}
	return clampedDate(year, month, day)
}

func nextYearly(anchor, ref time.Time) time.Time {
	thisYear := clampedDate(ref.Year(), anchor.Month(), anchor.Day())
	if thisYear.After(ref) {
		return thisYear
	}
	return clampedDate(ref.Year()+1, anchor.Month(), anchor.Day())
}

// occurrenceAt returns the n-th occurrence (0-based) stepped forward from the
// anchor. The clamp is applied per target month from the anchor's own day, so
// a day-31 anchor yields Jan 31, Feb 28, Mar 31 rather than drifting to 28.
func occurrenceAt(anchor time.Time, period Period, n int) (time.Time, bool) {
	a := StartOfDay(anchor)
	switch period {
	case Weekly:
		return a.AddDate(0, 0, 7*n), true
	case Monthly:
		target := time.Date(a.Year(), a.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
		return clampedDate(target.Year(), target.Month(), a.Day()), true
	case Yearly:
		return clampedDate(a.Year()+n, a.Month(), a.Day()), true
	case Once:
		if n == 0 {
			return a, true
		}
		return time.Time{}, false
	}
	return time.Time{}, false
}

// OccurrencesBetween expands a recurring item into every occurrence date that
// falls within [start, end], inclusive, stepping one period at a time from the
// anchor. Comparisons are at day granularity. The result is ascending and
// finite; it is empty when end precedes start or the period is unrecognized.
func OccurrencesBetween(anchor time.Time, period Period, start, end time.Time) []time.Time {
	startDay := StartOfDay(start)
	endDay := StartOfDay(end)
	if endDay.Before(startDay) {
		return nil
	}

	var occurrences []time.Time
	for n := 0; ; n++ {
		occ, ok := occurrenceAt(anchor, period, n)
		if !ok {
			break
		}
		if occ.After(endDay) {
			break
		}
		if !occ.Before(startDay) {
			occurrences = append(occurrences, occ)
		}
	}
	return occurrences
}

// FormatRelative renders an upcoming date the way the payment list shows it:
// "Today", "Tomorrow", "In N days" for the next week, else a short month-day
// label such as "Jan 2".
func FormatRelative(date, ref time.Time) string {
	days := int(StartOfDay(date).Sub(StartOfDay(ref)).Hours() / 24)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days > 1 && days <= 7:
		return fmt.Sprintf("In %d days", days)
	}
	return date.Format("Jan 2")
}

// SuppressCompletedOneTime reports whether a one-time item should be hidden:
// true once ref's calendar month (or year) is strictly after the anchor's.
// The item stays visible for the remainder of the month it occurred in.
func SuppressCompletedOneTime(anchor, ref time.Time) bool {
	if ref.Year() > anchor.Year() {
		return true
	}
	return ref.Year() == anchor.Year() && ref.Month() > anchor.Month()
}
