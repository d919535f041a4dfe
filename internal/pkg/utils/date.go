package utils

import "time"

// DateOf returns the calendar date of t as seen in loc, expressed as UTC midnight.
// All date-only values (DATE columns) use this representation.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthRange returns the first and last day of a 0-indexed month.
func MonthRange(month, year int) (first, last time.Time) {
	first = time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// DaysInMonth returns the number of days of a 0-indexed month.
func DaysInMonth(month, year int) int {
	_, last := MonthRange(month, year)
	return last.Day()
}

// MonthIndex converts a time.Month to the 0-indexed form used by payroll.
func MonthIndex(m time.Month) int {
	return int(m) - 1
}

// DatesBetween lists every date from start to end inclusive. Empty when end is before start.
func DatesBetween(start, end time.Time) []time.Time {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// CountWeekday counts the occurrences of wd in a 0-indexed month.
func CountWeekday(month, year int, wd time.Weekday) int {
	first, last := MonthRange(month, year)
	count := 0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == wd {
			count++
		}
	}
	return count
}
