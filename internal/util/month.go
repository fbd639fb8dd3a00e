package util

import (
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
)

// ParseMonth parses a YYYY-MM string into the first instant of that month in
// UTC. Returns ErrInvalidMonth for anything that is not a real calendar month.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidMonth
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

// MonthRange returns the half-open UTC range [start, end) of the calendar
// month containing t.
func MonthRange(t time.Time) (start, end time.Time) {
	t = t.UTC()
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}

// CurrentMonth returns the first instant of the current calendar month in UTC.
func CurrentMonth() time.Time {
	start, _ := MonthRange(time.Now())
	return start
}

// FormatMonth renders the YYYY-MM label of the month containing t.
func FormatMonth(t time.Time) string {
	return t.UTC().Format("2006-01")
}
