// Package store persists daily entries and calendar overrides with gorm.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/username/attendance-report/internal/apperr"
	"github.com/username/attendance-report/internal/config"
	"github.com/username/attendance-report/internal/model"
)

// Store is the gorm-backed persistence for entries and calendar overrides
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open connects to the configured database and migrates the schema
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(parseLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	s := New(db, logger)
	if err := s.Migrate(); err != nil {
		return nil, err
	}

	logger.Info("Database opened", zap.String("driver", cfg.Driver))
	return s, nil
}

// New wraps an existing gorm connection
func New(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Migrate creates or updates the tables
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&model.DailyEntry{}, &model.CalendarOverride{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// entryUpdateColumns are replaced when an entry with the same
// (name, date, title) is submitted again.
var entryUpdateColumns = []string{
	"updated_at", "task", "partner",
	"start_hour", "start_minute", "end_hour", "end_minute",
	"work_minutes", "overtime_before", "overtime_after", "total_minutes",
	"b_overtime_minutes", "paid_leave_minutes",
	"is_holiday_work", "holiday_start_hour", "holiday_start_minute",
	"holiday_end_hour", "holiday_end_minute",
	"holiday_work_minutes", "holiday_total_minutes",
	"manager_approved", "director_approved", "president_approved",
}

// UpsertEntries saves entries in one transaction. An existing entry with the
// same key is replaced, approval flags included.
func (s *Store) UpsertEntries(ctx context.Context, entries []model.DailyEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}, {Name: "date"}, {Name: "title"}},
				DoUpdates: clause.AssignmentColumns(entryUpdateColumns),
			}).Create(&entries[i]).Error
			if err != nil {
				return fmt.Errorf("failed to upsert entry %s: %w", entries[i].Key(), err)
			}
		}
		return nil
	})
}

// GetEntry returns the entry for a key or apperr.ErrNotFound
func (s *Store) GetEntry(ctx context.Context, key model.EntryKey) (*model.DailyEntry, error) {
	var e model.DailyEntry
	err := s.db.WithContext(ctx).
		Where("name = ? AND date = ? AND title = ?", key.Name, key.Date, key.Title).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: entry %s", apperr.ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEntries returns an employee's entries with from <= date <= to, ordered
// by date then insertion. Dates are zero-padded ISO strings so the range
// compares lexically.
func (s *Store) ListEntries(ctx context.Context, employee, from, to string) ([]model.DailyEntry, error) {
	var entries []model.DailyEntry
	err := s.db.WithContext(ctx).
		Where("name = ? AND date BETWEEN ? AND ?", employee, from, to).
		Order("date, id").
		Find(&entries).Error
	return entries, err
}

// ListEntriesByDate returns every employee's entries for one date
func (s *Store) ListEntriesByDate(ctx context.Context, date string) ([]model.DailyEntry, error) {
	var entries []model.DailyEntry
	err := s.db.WithContext(ctx).
		Where("date = ?", date).
		Order("name, id").
		Find(&entries).Error
	return entries, err
}

// DeleteEntry removes the entry for a key or returns apperr.ErrNotFound
func (s *Store) DeleteEntry(ctx context.Context, key model.EntryKey) error {
	result := s.db.WithContext(ctx).
		Where("name = ? AND date = ? AND title = ?", key.Name, key.Date, key.Title).
		Delete(&model.DailyEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: entry %s", apperr.ErrNotFound, key)
	}
	return nil
}

// SetApproval sets one role's approval flag on an entry
func (s *Store) SetApproval(ctx context.Context, key model.EntryKey, role model.Role, approved bool) error {
	result := s.db.WithContext(ctx).
		Model(&model.DailyEntry{}).
		Where("name = ? AND date = ? AND title = ?", key.Name, key.Date, key.Title).
		Update(role.Column(), approved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: entry %s", apperr.ErrNotFound, key)
	}
	return nil
}

// UpsertCalendarOverride creates or replaces the override for a date key
func (s *Store) UpsertCalendarOverride(ctx context.Context, date, description string, typ model.OverrideType) error {
	o := model.CalendarOverride{Date: date, Description: description, Type: typ}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "type"}),
	}).Create(&o).Error
}

// GetCalendarOverride returns the override stored under exactly this date
// key or apperr.ErrNotFound
func (s *Store) GetCalendarOverride(ctx context.Context, date string) (*model.CalendarOverride, error) {
	var o model.CalendarOverride
	err := s.db.WithContext(ctx).Where("date = ?", date).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: calendar override %s", apperr.ErrNotFound, date)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// DeleteCalendarOverride removes an override or returns apperr.ErrNotFound
func (s *Store) DeleteCalendarOverride(ctx context.Context, date string) error {
	result := s.db.WithContext(ctx).Where("date = ?", date).Delete(&model.CalendarOverride{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: calendar override %s", apperr.ErrNotFound, date)
	}
	return nil
}

// ListCalendarOverrides returns full-date overrides within [from, to] plus
// every year-less MM-DD override.
func (s *Store) ListCalendarOverrides(ctx context.Context, from, to string) ([]model.CalendarOverride, error) {
	var overrides []model.CalendarOverride
	err := s.db.WithContext(ctx).
		Where("(date BETWEEN ? AND ?) OR length(date) = 5", from, to).
		Order("date").
		Find(&overrides).Error
	return overrides, err
}

// ListAllCalendarOverrides returns every stored override
func (s *Store) ListAllCalendarOverrides(ctx context.Context) ([]model.CalendarOverride, error) {
	var overrides []model.CalendarOverride
	err := s.db.WithContext(ctx).Order("date").Find(&overrides).Error
	return overrides, err
}
