package util

import (
	"testing"
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrentWindow(t *testing.T) {
	// 2025-03-15 is a Saturday
	now := time.Date(2025, 3, 15, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		period domain.BudgetPeriod
		start  time.Time
		end    time.Time
	}{
		{"weekly starts Monday", domain.PeriodWeekly, day(2025, 3, 10), day(2025, 3, 17)},
		{"monthly starts on the 1st", domain.PeriodMonthly, day(2025, 3, 1), day(2025, 4, 1)},
		{"yearly starts Jan 1", domain.PeriodYearly, day(2025, 1, 1), day(2026, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := CurrentWindow(tt.period, now)
			if !w.Start.Equal(tt.start) || !w.End.Equal(tt.end) {
				t.Errorf("Expected [%s, %s), got [%s, %s)", tt.start, tt.end, w.Start, w.End)
			}
		})
	}
}

func TestCurrentWindow_SundayBelongsToPrecedingWeek(t *testing.T) {
	// 2025-03-16 is a Sunday
	w := CurrentWindow(domain.PeriodWeekly, day(2025, 3, 16))
	if !w.Start.Equal(day(2025, 3, 10)) {
		t.Errorf("Expected week starting 2025-03-10, got %s", w.Start)
	}
}

func TestPreviousWindow(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		period domain.BudgetPeriod
		start  time.Time
		end    time.Time
	}{
		{"weekly", domain.PeriodWeekly, day(2025, 3, 3), day(2025, 3, 10)},
		{"monthly", domain.PeriodMonthly, day(2025, 2, 1), day(2025, 3, 1)},
		{"yearly", domain.PeriodYearly, day(2024, 1, 1), day(2025, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := PreviousWindow(tt.period, now)
			if !w.Start.Equal(tt.start) || !w.End.Equal(tt.end) {
				t.Errorf("Expected [%s, %s), got [%s, %s)", tt.start, tt.end, w.Start, w.End)
			}
		})
	}
}

func TestPeriodWindow_Contains(t *testing.T) {
	w := PeriodWindow{Start: day(2025, 3, 1), End: day(2025, 4, 1)}

	if !w.Contains(day(2025, 3, 1)) {
		t.Error("Expected start to be inside the window")
	}
	if w.Contains(day(2025, 4, 1)) {
		t.Error("Expected end to be outside the window")
	}
	if w.Contains(day(2025, 2, 28)) {
		t.Error("Expected earlier date to be outside the window")
	}
}
