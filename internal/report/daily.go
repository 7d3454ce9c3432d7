package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/username/attendance-report/internal/apperr"
	"github.com/username/attendance-report/internal/calendar"
	"github.com/username/attendance-report/internal/model"
	"github.com/username/attendance-report/pkg/dateutil"
)

// EmployeeDay is one employee's entries on a date with their totals
type EmployeeDay struct {
	Name               string             `json:"name"`
	Entries            []model.DailyEntry `json:"entries"`
	TotalMinutes       int                `json:"total_minutes"`
	OvertimeMinutes    int                `json:"overtime_minutes"`
	HolidayWorkMinutes int                `json:"holiday_work_minutes"`
	PaidLeaveMinutes   int                `json:"paid_leave_minutes"`
	Hours              decimal.Decimal    `json:"hours"`
	// Approvals maps each role to whether it approved every entry of the day
	Approvals map[model.Role]bool `json:"approvals"`
}

// DailySummary is the manager's view of one date across employees
type DailySummary struct {
	Date           string                  `json:"date"`
	Classification calendar.Classification `json:"classification"`
	Employees      []EmployeeDay           `json:"employees"`
}

// DailySummary groups every entry of a YYYY-MM-DD date by employee, in
// name order.
func (a *Aggregator) DailySummary(ctx context.Context, dateStr string) (*DailySummary, error) {
	date, err := dateutil.ParseISODate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	classifier, err := a.calendar.Classifier(ctx, date, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}
	classification, err := classifier.ClassifyDate(date)
	if err != nil {
		return nil, err
	}

	entries, err := a.entries.ListEntriesByDate(ctx, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	summary := &DailySummary{
		Date:           dateStr,
		Classification: classification,
		Employees:      []EmployeeDay{},
	}

	index := make(map[string]int)
	for _, e := range entries {
		i, ok := index[e.Name]
		if !ok {
			i = len(summary.Employees)
			index[e.Name] = i
			approvals := make(map[model.Role]bool, len(model.Roles))
			for _, r := range model.Roles {
				approvals[r] = true
			}
			summary.Employees = append(summary.Employees, EmployeeDay{Name: e.Name, Approvals: approvals})
		}

		day := &summary.Employees[i]
		day.Entries = append(day.Entries, e)
		day.TotalMinutes += e.TotalMinutes
		day.OvertimeMinutes += e.OvertimeBefore + e.OvertimeAfter
		if e.IsHolidayWork {
			day.HolidayWorkMinutes += e.HolidayTotalMinutes
		}
		day.PaidLeaveMinutes += e.PaidLeaveMinutes
		for _, r := range model.Roles {
			day.Approvals[r] = day.Approvals[r] && e.Approved(r)
		}
	}

	for i := range summary.Employees {
		summary.Employees[i].Hours = minutesToHours(int64(summary.Employees[i].TotalMinutes))
	}

	a.logger.Debug("Daily summary built",
		zap.String("date", dateStr),
		zap.Int("employees", len(summary.Employees)),
		zap.Int("entries", len(entries)))

	return summary, nil
}
