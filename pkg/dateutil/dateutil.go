package dateutil

import (
	"fmt"
	"time"
)

const (
	// ISODate is the layout of stored dates, e.g. 2025-06-16
	ISODate = "2006-01-02"
	// YearMonth is the layout of report month labels, e.g. 2025-07
	YearMonth = "2006-01"
	// MonthDay is the layout of recurring calendar dates, e.g. 05-01
	MonthDay = "01-02"
)

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// ParseISODate parses a zero-padded YYYY-MM-DD string in UTC.
// Unlike time.Parse alone it rejects non-padded input such as 2025-6-1,
// so that lexical comparison of stored strings stays valid.
func ParseISODate(s string) (time.Time, error) {
	if len(s) != len(ISODate) {
		return time.Time{}, fmt.Errorf("date %q is not in YYYY-MM-DD form", s)
	}
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not in YYYY-MM-DD form: %w", s, err)
	}
	return t, nil
}

// ParseYearMonth parses a YYYY-MM label and returns its year and month.
func ParseYearMonth(s string) (int, time.Month, error) {
	if len(s) != len(YearMonth) {
		return 0, 0, fmt.Errorf("year-month %q is not in YYYY-MM form", s)
	}
	t, err := time.Parse(YearMonth, s)
	if err != nil {
		return 0, 0, fmt.Errorf("year-month %q is not in YYYY-MM form: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

// ParseMonthDay parses a recurring MM-DD date. 02-29 is accepted.
func ParseMonthDay(s string) (time.Month, int, error) {
	if len(s) != len(MonthDay) {
		return 0, 0, fmt.Errorf("month-day %q is not in MM-DD form", s)
	}
	// Parse against a leap year so 02-29 is valid.
	t, err := time.Parse("2006-"+MonthDay, "2000-"+s)
	if err != nil {
		return 0, 0, fmt.Errorf("month-day %q is not in MM-DD form: %w", s, err)
	}
	return t.Month(), t.Day(), nil
}

// FormatISO formats a date as YYYY-MM-DD
func FormatISO(date time.Time) string {
	return date.Format(ISODate)
}

// FormatMonthDay formats a date as MM-DD
func FormatMonthDay(date time.Time) string {
	return date.Format(MonthDay)
}

// ParseClock parses HH:MM and returns minutes since midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("time %q is not in HH:MM form: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q is out of range", s)
	}
	return h*60 + m, nil
}

// DaysBetween returns every day from `from` to `to` inclusive.
func DaysBetween(from, to time.Time) []time.Time {
	from, to = StartOfDay(from), StartOfDay(to)
	if to.Before(from) {
		return nil
	}

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
