package calendar

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/username/attendance-report/internal/apperr"
	"github.com/username/attendance-report/internal/model"
	"github.com/username/attendance-report/pkg/dateutil"
	"go.uber.org/zap"
)

// OverrideStore persists company calendar overrides
type OverrideStore interface {
	UpsertCalendarOverride(ctx context.Context, date, description string, typ model.OverrideType) error
	GetCalendarOverride(ctx context.Context, date string) (*model.CalendarOverride, error)
	DeleteCalendarOverride(ctx context.Context, date string) error
	// ListCalendarOverrides returns exact dates within [from, to] and every
	// year-less override.
	ListCalendarOverrides(ctx context.Context, from, to string) ([]model.CalendarOverride, error)
	ListAllCalendarOverrides(ctx context.Context) ([]model.CalendarOverride, error)
}

// Service exposes classification and calendar maintenance over a store
type Service struct {
	store    OverrideStore
	holidays HolidayCalendar
	logger   *zap.Logger
}

// NewService creates a new calendar Service
func NewService(store OverrideStore, holidays HolidayCalendar, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		holidays: holidays,
		logger:   logger,
	}
}

// Holidays returns the public-holiday calendar in use
func (s *Service) Holidays() HolidayCalendar {
	return s.holidays
}

// Classifier builds a classifier holding every override relevant to
// [from, to].
func (s *Service) Classifier(ctx context.Context, from, to time.Time) (*Classifier, error) {
	overrides, err := s.store.ListCalendarOverrides(ctx, dateutil.FormatISO(from), dateutil.FormatISO(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar overrides: %w", err)
	}
	return NewDefaultClassifier(overrides, s.holidays)
}

// ClassifyDate classifies a YYYY-MM-DD date string
func (s *Service) ClassifyDate(ctx context.Context, dateStr string) (Classification, error) {
	date, err := dateutil.ParseISODate(dateStr)
	if err != nil {
		return Classification{}, fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	classifier, err := s.Classifier(ctx, date, date)
	if err != nil {
		return Classification{}, err
	}
	return classifier.ClassifyDate(date)
}

// SetOverride creates or replaces the override for a date
func (s *Service) SetOverride(ctx context.Context, date, description, typ string) (model.CalendarOverride, error) {
	o := model.CalendarOverride{
		Date:        strings.TrimSpace(date),
		Description: strings.TrimSpace(description),
		Type:        model.OverrideType(strings.TrimSpace(typ)),
	}
	if err := o.Validate(); err != nil {
		return model.CalendarOverride{}, err
	}

	if err := s.store.UpsertCalendarOverride(ctx, o.Date, o.Description, o.Type); err != nil {
		return model.CalendarOverride{}, fmt.Errorf("failed to save calendar override: %w", err)
	}

	s.logger.Info("Calendar override saved",
		zap.String("date", o.Date),
		zap.String("type", string(o.Type)),
		zap.String("description", o.Description))

	return o, nil
}

// GetOverride returns the override stored for exactly this date key
func (s *Service) GetOverride(ctx context.Context, date string) (*model.CalendarOverride, error) {
	if err := model.ValidateOverrideDate(date); err != nil {
		return nil, err
	}
	return s.store.GetCalendarOverride(ctx, date)
}

// DeleteOverride removes the override for a date key
func (s *Service) DeleteOverride(ctx context.Context, date string) error {
	if err := model.ValidateOverrideDate(date); err != nil {
		return err
	}
	if err := s.store.DeleteCalendarOverride(ctx, date); err != nil {
		return err
	}

	s.logger.Info("Calendar override deleted", zap.String("date", date))
	return nil
}

// ListOverrides returns every override, full dates first then year-less
func (s *Service) ListOverrides(ctx context.Context) ([]model.CalendarOverride, error) {
	overrides, err := s.store.ListAllCalendarOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar overrides: %w", err)
	}
	SortOverrides(overrides)
	return overrides, nil
}

// ImportResult summarises a CSV import
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportCSV loads overrides from CSV with a date,description,type header.
// Dates that already have an override are left untouched.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", apperr.ErrInvalidInput, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{"date", "description", "type"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: CSV header is missing column %q", apperr.ErrInvalidInput, required)
		}
	}

	result := &ImportResult{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return result, fmt.Errorf("%w: CSV line %d: %v", apperr.ErrInvalidInput, line, err)
		}

		date := strings.TrimSpace(record[columns["date"]])
		description := strings.TrimSpace(record[columns["description"]])
		typ := strings.TrimSpace(record[columns["type"]])

		o := model.CalendarOverride{Date: date, Description: description, Type: model.OverrideType(typ)}
		if err := o.Validate(); err != nil {
			return result, fmt.Errorf("CSV line %d: %w", line, err)
		}

		existing, err := s.store.GetCalendarOverride(ctx, date)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return result, fmt.Errorf("CSV line %d: %w", line, err)
		}
		if existing != nil {
			result.Skipped++
			s.logger.Debug("Calendar override exists, skipping", zap.String("date", date))
			continue
		}

		if err := s.store.UpsertCalendarOverride(ctx, o.Date, o.Description, o.Type); err != nil {
			return result, fmt.Errorf("CSV line %d: failed to save override: %w", line, err)
		}
		result.Imported++
	}

	s.logger.Info("Calendar CSV imported",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped))

	return result, nil
}
