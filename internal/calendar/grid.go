package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used on the wire (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// BuildMonthGrid returns the cells of the given month, preceded by nil blanks
// so that day 1 falls under its weekday column (Sunday first).
// The pair (year, month) must already be normalized, see ShiftMonth.
func BuildMonthGrid(year int, month time.Month, today time.Time, selected string) []*Day {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	blanks := int(first.Weekday())
	days := DaysInMonth(year, month)
	todayDate := truncate(today)

	grid := make([]*Day, blanks, blanks+days)
	for d := 1; d <= days; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		iso := date.Format(DateLayout)
		isPast := date.Before(todayDate)

		grid = append(grid, &Day{
			ISODate:      iso,
			DayOfMonth:   d,
			IsPast:       isPast,
			IsToday:      date.Equal(todayDate),
			IsSelected:   iso == selected,
			IsSelectable: !isPast,
		})
	}
	return grid
}

// DaysInMonth uses day 0 of the following month, which time.Date normalizes
// to the last day of the requested one.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ShiftMonth moves (year, month) by delta months, wrapping across years.
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	total := year*12 + int(month-1) + delta
	y := total / 12
	m := total % 12
	if m < 0 {
		m += 12
		y--
	}
	return y, time.Month(m + 1)
}

// IsPast reports whether the calendar date of t is strictly before today's.
func IsPast(t, today time.Time) bool {
	return truncate(t).Before(truncate(today))
}

// FormatDate renders the calendar date of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Title is the grid header, e.g. "Febrero 2024".
func Title(year int, month time.Month) string {
	if month < time.January || month > time.December {
		return fmt.Sprintf("%d-%02d", year, int(month))
	}
	return fmt.Sprintf("%s %d", monthNames[month-1], year)
}

// truncate drops the time of day, keeping the calendar date in t's own location.
func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
