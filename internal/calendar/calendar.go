package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/username/attendance-report/pkg/dateutil"
)

// DayKind represents the category of a day
type DayKind int

const (
	DayKindWorkday DayKind = iota + 1
	DayKindWeekend
	DayKindPublicHoliday
	DayKindCompanyHoliday
	DayKindForcedWorkday
	DayKindForcedPaidLeave
)

var dayKindNames = map[DayKind]string{
	DayKindWorkday:         "workday",
	DayKindWeekend:         "weekend",
	DayKindPublicHoliday:   "public_holiday",
	DayKindCompanyHoliday:  "company_holiday",
	DayKindForcedWorkday:   "forced_workday",
	DayKindForcedPaidLeave: "forced_paid_leave",
}

func (k DayKind) String() string {
	if name, ok := dayKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DayKind(%d)", int(k))
}

// MarshalText renders the kind by name in JSON output.
func (k DayKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Holiday is a single public holiday
type Holiday struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

// HolidayCalendar answers public-holiday questions
type HolidayCalendar interface {
	// IsHoliday reports whether the date is a public holiday and its name
	IsHoliday(date time.Time) (bool, string, error)

	// HolidaysInYear returns every public holiday of the year, ascending
	HolidaysInYear(year int) ([]Holiday, error)
}

// yearTable indexes one year of holidays by ISO date.
type yearTable map[string]string

func newYearTable(holidays []Holiday) yearTable {
	table := make(yearTable, len(holidays))
	for _, h := range holidays {
		table[dateutil.FormatISO(h.Date)] = h.Name
	}
	return table
}

func (t yearTable) lookup(date time.Time) (bool, string) {
	name, ok := t[dateutil.FormatISO(date)]
	return ok, name
}

func (t yearTable) holidays() []Holiday {
	holidays := make([]Holiday, 0, len(t))
	for key, name := range t {
		date, err := dateutil.ParseISODate(key)
		if err != nil {
			continue
		}
		holidays = append(holidays, Holiday{Date: date, Name: name})
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays
}
