// Package entry handles submission and removal of daily entries.
package entry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/username/attendance-report/internal/apperr"
	"github.com/username/attendance-report/internal/model"
	"github.com/username/attendance-report/pkg/dateutil"
)

// Store persists daily entries
type Store interface {
	UpsertEntries(ctx context.Context, entries []model.DailyEntry) error
	DeleteEntry(ctx context.Context, key model.EntryKey) error
}

// Submission is one employee's report for one day, one row per task title
type Submission struct {
	Name    string             `json:"name"`
	Date    string             `json:"date,omitempty"` // defaults to today
	Reports []model.DailyEntry `json:"reports"`
}

// Service validates submissions and writes them through the store
type Service struct {
	store  Store
	now    func() time.Time
	logger *zap.Logger
}

// NewService creates a new entry Service
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, now: time.Now, logger: logger}
}

// Submit saves every report of the submission. A report whose title was
// already submitted for that employee and date replaces the earlier one,
// including its approvals.
func (s *Service) Submit(ctx context.Context, sub Submission) ([]model.DailyEntry, error) {
	name := strings.TrimSpace(sub.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrInvalidInput)
	}
	date := strings.TrimSpace(sub.Date)
	if date == "" {
		date = dateutil.FormatISO(s.now())
	}
	if len(sub.Reports) == 0 {
		return nil, fmt.Errorf("%w: submission has no reports", apperr.ErrInvalidInput)
	}

	entries := make([]model.DailyEntry, 0, len(sub.Reports))
	seen := make(map[string]bool, len(sub.Reports))
	for i, r := range sub.Reports {
		r.ID = 0
		r.Name = name
		r.Date = date
		r.Title = strings.TrimSpace(r.Title)
		r.ManagerApproved, r.DirectorApproved, r.PresidentApproved = false, false, false
		r.ComputeTotals()

		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("report %d: %w", i+1, err)
		}
		if seen[r.Title] {
			return nil, fmt.Errorf("%w: title %q appears twice in one submission", apperr.ErrInvalidInput, r.Title)
		}
		seen[r.Title] = true
		entries = append(entries, r)
	}

	if err := s.store.UpsertEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to save entries: %w", err)
	}

	s.logger.Info("Entries submitted",
		zap.String("name", name),
		zap.String("date", date),
		zap.Int("count", len(entries)))

	return entries, nil
}

// Delete removes one entry
func (s *Service) Delete(ctx context.Context, key model.EntryKey) error {
	if key.Name == "" || key.Title == "" {
		return fmt.Errorf("%w: entry name and title are required", apperr.ErrInvalidInput)
	}
	if _, err := dateutil.ParseISODate(key.Date); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	if err := s.store.DeleteEntry(ctx, key); err != nil {
		return err
	}

	s.logger.Info("Entry deleted", zap.String("entry", key.String()))
	return nil
}
