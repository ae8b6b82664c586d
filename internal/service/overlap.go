package service

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not count as overlap,
// so back-to-back reservations are allowed.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// InRange reports whether the interval [start, end] touches the closed
// range [rangeStart, rangeEnd]. This is the statistics filter: a
// reservation ending exactly at rangeStart still counts.
func InRange(start, end, rangeStart, rangeEnd time.Time) bool {
	return !start.After(rangeEnd) && !end.Before(rangeStart)
}
