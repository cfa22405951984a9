package entity

import "time"

// Epoch is the start instant used for the All condition.
var Epoch = time.Unix(0, 0).UTC()

// StartOf returns the first instant of the period selected by c, in UTC.
// Month and date periods are computed in loc. The second result is false for
// ByID and ByKeywords, which have no period. c must already be valid.
func StartOf(c Condition, loc *time.Location) (time.Time, bool) {
	start, _, ok := RangeOf(c, loc)
	return start, ok
}

// RangeOf returns the half-open interval [start, end) covered by c, in UTC.
// For All the end is the zero time, meaning unbounded.
func RangeOf(c Condition, loc *time.Location) (start, end time.Time, ok bool) {
	if loc == nil {
		loc = time.UTC
	}
	switch v := c.(type) {
	case All:
		return Epoch, time.Time{}, true
	case ByYearMonth:
		s := time.Date(v.Year, v.Month, 1, 0, 0, 0, 0, loc)
		return s.UTC(), s.AddDate(0, 1, 0).UTC(), true
	case ByDate:
		s := time.Date(v.Year, v.Month, v.Day, 0, 0, 0, 0, loc)
		return s.UTC(), s.AddDate(0, 0, 1).UTC(), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// YearMonthOf returns the month condition containing t in loc.
func YearMonthOf(t time.Time, loc *time.Location) ByYearMonth {
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	return ByYearMonth{Year: lt.Year(), Month: lt.Month()}
}

// DateOf returns the date condition containing t in loc.
func DateOf(t time.Time, loc *time.Location) ByDate {
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	return ByDate{Year: lt.Year(), Month: lt.Month(), Day: lt.Day()}
}
