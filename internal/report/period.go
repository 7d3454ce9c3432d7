package report

import (
	"fmt"
	"time"

	"github.com/username/attendance-report/internal/apperr"
	"github.com/username/attendance-report/pkg/dateutil"
)

// Period is the pay period behind a year-month label: the 16th of the
// previous month through the 15th of the labelled month, inclusive.
type Period struct {
	Start time.Time
	End   time.Time
}

// ResolvePeriod returns the pay period for a YYYY-MM label.
// "2025-01" resolves to 2024-12-16 ~ 2025-01-15.
func ResolvePeriod(yearMonth string) (Period, error) {
	year, month, err := dateutil.ParseYearMonth(yearMonth)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	end := time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes month 0 to December of the previous year
	start := time.Date(year, month-1, 16, 0, 0, 0, 0, time.UTC)

	return Period{Start: start, End: end}, nil
}

// From returns the first day as YYYY-MM-DD
func (p Period) From() string {
	return dateutil.FormatISO(p.Start)
}

// To returns the last day as YYYY-MM-DD
func (p Period) To() string {
	return dateutil.FormatISO(p.End)
}

// Contains reports whether an ISO date string lies within the period
func (p Period) Contains(date string) bool {
	return date >= p.From() && date <= p.To()
}

// Days returns every calendar day of the period
func (p Period) Days() []time.Time {
	return dateutil.DaysBetween(p.Start, p.End)
}

func (p Period) String() string {
	return p.From() + " ~ " + p.To()
}

// MarshalText renders the period as "YYYY-MM-DD ~ YYYY-MM-DD"
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
