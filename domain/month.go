package domain

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH KEY - Calendar month identity for goals and reconciliation
// =============================================================================

// MonthKey identifies a calendar month. It is the unique key of MonthlyGoal
// and the unit of reconciliation.
type MonthKey struct {
	Year  int
	Month time.Month
}

// NewMonthKey builds a key for year/month.
func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey{Year: year, Month: month}
}

// MonthOf returns the key of the month containing t.
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// ParseMonthKey parses "2006-01" formatted keys.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid month key %q (use YYYY-MM): %w", s, err)
	}
	return MonthOf(t), nil
}

// Start returns the first instant of the month (UTC).
func (m MonthKey) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the next month (UTC). Month membership
// is [Start, End): sale_date in month m iff Start <= sale_date < End.
func (m MonthKey) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// Contains reports whether t falls in this month.
func (m MonthKey) Contains(t time.Time) bool {
	return MonthOf(t) == m
}

// Next returns the following month.
func (m MonthKey) Next() MonthKey {
	return MonthOf(m.Start().AddDate(0, 1, 0))
}

// Prev returns the preceding month.
func (m MonthKey) Prev() MonthKey {
	return MonthOf(m.Start().AddDate(0, -1, 0))
}

func (m MonthKey) IsZero() bool { return m.Year == 0 && m.Month == 0 }

func (m MonthKey) String() string {
	return m.Start().Format("2006-01")
}
