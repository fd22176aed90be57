// Package daterange holds the pure calendar-date arithmetic the leave
// modules share: closed-interval overlap tests and inclusive day
// enumeration. All functions work at day granularity; callers must not
// rely on the time-of-day component surviving.
package daterange

import (
	"net/http"
	"time"

	"leavedesk/internal/shared/apperror"
)

const ISO = "2006-01-02"

var ErrInvalidRange = apperror.New(
	apperror.CodeInvalidInput,
	"start_date must be before or equal end_date",
	http.StatusBadRequest,
)

var ErrInvalidFormat = apperror.New(
	apperror.CodeInvalidInput,
	"invalid date format, expected YYYY-MM-DD",
	http.StatusBadRequest,
)

// Normalize strips the time-of-day component and pins the location to
// UTC, so comparisons never drift across a midnight boundary.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Parse reads an ISO calendar date (YYYY-MM-DD).
func Parse(v string) (time.Time, error) {
	t, err := time.Parse(ISO, v)
	if err != nil {
		return time.Time{}, ErrInvalidFormat
	}
	return Normalize(t), nil
}

// Format renders a calendar date as ISO YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(ISO)
}

// Overlaps reports whether the closed intervals [aStart, aEnd] and
// [bStart, bEnd] intersect. Symmetric in its arguments.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	aStart, aEnd = Normalize(aStart), Normalize(aEnd)
	bStart, bEnd = Normalize(bStart), Normalize(bEnd)
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// Contains reports whether day falls inside the closed interval [start, end].
func Contains(start, end, day time.Time) bool {
	return Overlaps(start, end, day, day)
}

// Days expands [start, end] into the ordered inclusive sequence of
// calendar days. Fails when start is after end.
func Days(start, end time.Time) ([]time.Time, error) {
	start, end = Normalize(start), Normalize(end)
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	days := make([]time.Time, 0, InclusiveDays(start, end))
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, nil
}

// InclusiveDays returns the span length in days, counting both endpoints.
func InclusiveDays(start, end time.Time) int {
	start, end = Normalize(start), Normalize(end)
	return int(end.Sub(start).Hours()/24) + 1
}
