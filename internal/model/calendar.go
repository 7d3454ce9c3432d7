package model

import (
	"fmt"

	"github.com/username/attendance-report/internal/apperr"
	"github.com/username/attendance-report/pkg/dateutil"
)

// OverrideType is the effect a company calendar entry has on a date.
type OverrideType string

const (
	OverrideHoliday   OverrideType = "holiday"
	OverrideWorkday   OverrideType = "workday"
	OverridePaidLeave OverrideType = "paidleave"
)

// ParseOverrideType validates an override type name.
func ParseOverrideType(s string) (OverrideType, error) {
	switch t := OverrideType(s); t {
	case OverrideHoliday, OverrideWorkday, OverridePaidLeave:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown calendar type %q (want holiday, workday or paidleave)", apperr.ErrInvalidInput, s)
}

// CalendarOverride is a company-declared exception to the weekday and
// public-holiday rules. Date is either YYYY-MM-DD or a recurring MM-DD.
type CalendarOverride struct {
	Date        string       `gorm:"primaryKey;size:10" json:"date"`
	Description string       `gorm:"size:200" json:"description"`
	Type        OverrideType `gorm:"size:16;not null" json:"type"`
}

// IsRecurring reports whether the override applies every year.
func (o CalendarOverride) IsRecurring() bool {
	return len(o.Date) == len(dateutil.MonthDay)
}

// Validate checks the date form and type of the override.
func (o CalendarOverride) Validate() error {
	if err := ValidateOverrideDate(o.Date); err != nil {
		return err
	}
	_, err := ParseOverrideType(string(o.Type))
	return err
}

// ValidateOverrideDate accepts YYYY-MM-DD or MM-DD.
func ValidateOverrideDate(s string) error {
	if len(s) == len(dateutil.MonthDay) {
		if _, _, err := dateutil.ParseMonthDay(s); err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
		}
		return nil
	}
	if _, err := dateutil.ParseISODate(s); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}
	return nil
}
