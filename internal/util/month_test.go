package util

import (
	"errors"
	"testing"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
)

func TestParseMonth_Valid(t *testing.T) {
	got, err := ParseMonth("2026-02")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestParseMonth_Invalid(t *testing.T) {
	for _, input := range []string{"", "2026", "2026-13", "2026-00", "2026/02", "feb-2026", "2026-02-01"} {
		if _, err := ParseMonth(input); !errors.Is(err, domain.ErrInvalidMonth) {
			t.Errorf("Input %q: expected ErrInvalidMonth, got %v", input, err)
		}
	}
}

func TestMonthRange_HalfOpen(t *testing.T) {
	start, end := MonthRange(time.Date(2026, 1, 15, 13, 45, 0, 0, time.UTC))

	if !start.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected start %s", start)
	}
	if !end.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected end %s", end)
	}
}

func TestMonthRange_December(t *testing.T) {
	start, end := MonthRange(time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC))

	if !start.Equal(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected start %s", start)
	}
	if !end.Equal(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected rollover into January, got %s", end)
	}
}

func TestFormatMonth(t *testing.T) {
	if got := FormatMonth(time.Date(2026, 9, 17, 8, 0, 0, 0, time.UTC)); got != "2026-09" {
		t.Errorf("Expected 2026-09, got %s", got)
	}
}
