package calendar

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CompositeCalendar implements HolidayCalendar with fallback strategy
// Primary: APICalendar (network)
// Fallback: FileCalendar or JapaneseCalendar (local)
type CompositeCalendar struct {
	primary  HolidayCalendar
	fallback HolidayCalendar
	logger   *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(primary, fallback HolidayCalendar, logger *zap.Logger) *CompositeCalendar {
	return &CompositeCalendar{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// IsHoliday checks if the given date is a public holiday
func (cc *CompositeCalendar) IsHoliday(date time.Time) (bool, string, error) {
	isHoliday, name, err := cc.primary.IsHoliday(date)
	if err == nil {
		return isHoliday, name, nil
	}

	cc.logger.Warn("Primary calendar failed, falling back",
		zap.Time("date", date),
		zap.Error(err))

	return cc.fallback.IsHoliday(date)
}

// HolidaysInYear returns every public holiday of the year
func (cc *CompositeCalendar) HolidaysInYear(year int) ([]Holiday, error) {
	holidays, err := cc.primary.HolidaysInYear(year)
	if err == nil {
		return holidays, nil
	}

	cc.logger.Warn("Primary calendar failed, falling back",
		zap.Int("year", year),
		zap.Error(err))

	return cc.fallback.HolidaysInYear(year)
}

// LoadFallback loads the fallback calendar (if FileCalendar)
func (cc *CompositeCalendar) LoadFallback() error {
	if fc, ok := cc.fallback.(*FileCalendar); ok {
		if err := fc.Load(); err != nil {
			return fmt.Errorf("failed to load fallback calendar: %w", err)
		}
		cc.logger.Info("Fallback calendar loaded successfully")
	}
	return nil
}
