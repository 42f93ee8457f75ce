package util

import (
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

// PeriodWindow is a half-open date range [Start, End).
type PeriodWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w PeriodWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// CurrentWindow returns the calendar window containing now for the given
// period: weeks start on Monday, months on the 1st, years on Jan 1.
func CurrentWindow(period domain.BudgetPeriod, now time.Time) PeriodWindow {
	now = now.UTC()
	switch period {
	case domain.PeriodWeekly:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(weekday - 1))
		return PeriodWindow{Start: start, End: start.AddDate(0, 0, 7)}
	case domain.PeriodYearly:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return PeriodWindow{Start: start, End: start.AddDate(1, 0, 0)}
	default:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return PeriodWindow{Start: start, End: start.AddDate(0, 1, 0)}
	}
}

// PreviousWindow returns the window immediately before the current one.
func PreviousWindow(period domain.BudgetPeriod, now time.Time) PeriodWindow {
	current := CurrentWindow(period, now)
	switch period {
	case domain.PeriodWeekly:
		return PeriodWindow{Start: current.Start.AddDate(0, 0, -7), End: current.Start}
	case domain.PeriodYearly:
		return PeriodWindow{Start: current.Start.AddDate(-1, 0, 0), End: current.Start}
	default:
		return PeriodWindow{Start: current.Start.AddDate(0, -1, 0), End: current.Start}
	}
}
