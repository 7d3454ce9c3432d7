package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/username/attendance-report/internal/apperr"
	"github.com/username/attendance-report/internal/calendar"
	"github.com/username/attendance-report/internal/model"
	"github.com/username/attendance-report/pkg/dateutil"
)

// EntrySource reads submitted daily entries
type EntrySource interface {
	// ListEntries returns an employee's entries with from <= date <= to
	ListEntries(ctx context.Context, employee, from, to string) ([]model.DailyEntry, error)
	ListEntriesByDate(ctx context.Context, date string) ([]model.DailyEntry, error)
}

// ClassifierSource builds a day classifier loaded with the overrides that
// matter for a date range. calendar.Service implements it.
type ClassifierSource interface {
	Classifier(ctx context.Context, from, to time.Time) (*calendar.Classifier, error)
}

const otherSuffix = "…他"

// WorkRules are the company working-time rules applied by the aggregator
type WorkRules struct {
	ScheduledStart    int // minutes since midnight
	ScheduledEnd      int // minutes since midnight
	DailyHours        int
	MainTitles        []string
	OtherSummaryLimit int // runes
}

// DefaultWorkRules returns 08:30-17:30, 8 hours a day and a 50 rune
// summary of other tasks.
func DefaultWorkRules() WorkRules {
	return WorkRules{
		ScheduledStart:    8*60 + 30,
		ScheduledEnd:      17*60 + 30,
		DailyHours:        8,
		OtherSummaryLimit: 50,
	}
}

// Aggregator computes monthly reports from daily entries
type Aggregator struct {
	entries  EntrySource
	calendar ClassifierSource
	rules    WorkRules
	pricer   Pricer
	logger   *zap.Logger
}

// NewAggregator creates a new Aggregator that prices every task at zero
func NewAggregator(entries EntrySource, cal ClassifierSource, rules WorkRules, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		entries:  entries,
		calendar: cal,
		rules:    rules,
		pricer:   ZeroPricer{},
		logger:   logger,
	}
}

// WithPricer replaces the task pricer
func (a *Aggregator) WithPricer(p Pricer) *Aggregator {
	a.pricer = p
	return a
}

// Rules returns the working-time rules in use
func (a *Aggregator) Rules() WorkRules {
	return a.rules
}

// AggregateMonth builds the report of an employee for a YYYY-MM pay period.
// mainTitles selects the tasks reported on their own line; nil means the
// configured default and an empty slice puts every task under "other".
//
// A nil report with a nil error means the employee has nothing to report in
// the period.
func (a *Aggregator) AggregateMonth(ctx context.Context, employee, yearMonth string, mainTitles []string) (*MonthlyReport, error) {
	// 1. Validate input before touching the store
	employee = strings.TrimSpace(employee)
	if employee == "" {
		return nil, fmt.Errorf("%w: employee is required", apperr.ErrInvalidInput)
	}
	period, err := ResolvePeriod(yearMonth)
	if err != nil {
		return nil, err
	}
	if mainTitles == nil {
		mainTitles = a.rules.MainTitles
	}

	// 2. Load entries of the period
	entries, err := a.entries.ListEntries(ctx, employee, period.From(), period.To())
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	if len(entries) == 0 {
		a.logger.Debug("No entries in period",
			zap.String("employee", employee),
			zap.Stringer("period", period))
		return nil, nil
	}

	// 3. Stored dates must be ISO and inside the period
	for i := range entries {
		if err := checkEntryDate(&entries[i], period); err != nil {
			return nil, err
		}
	}

	report := &MonthlyReport{
		Employee:  employee,
		YearMonth: yearMonth,
		Period:    period,
	}

	// 4. Group by title and split into main and other tasks
	isMain := make(map[string]bool, len(mainTitles))
	for _, t := range mainTitles {
		isMain[t] = true
	}
	for _, line := range a.taskLines(entries) {
		if isMain[line.Title] {
			report.MainTasks = append(report.MainTasks, line)
		} else {
			report.OtherTasks = append(report.OtherTasks, line)
		}
	}

	// 5. Collapse other tasks into one row and total everything
	report.OtherSummary = summarizeOther(report.OtherTasks, a.rules.OtherSummaryLimit)
	report.MainTotalHours, report.MainTotalAmount = sumLines(report.MainTasks)
	report.OtherTotalHours = report.OtherSummary.Hours
	report.OtherTotalAmount = report.OtherSummary.Amount
	report.TotalHours = report.MainTotalHours.Add(report.OtherTotalHours)
	report.TotalAmount = report.MainTotalAmount.Add(report.OtherTotalAmount)

	// 6. Expected workdays over the whole period
	classifier, err := a.calendar.Classifier(ctx, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}
	report.BasicTimeDays, err = classifier.CountWorkdays(period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to count workdays: %w", err)
	}

	// 7. Overtime, holiday work, paid leave, late arrival and early leave
	a.applyTimeFigures(report, entries)

	// 8. Difference to the expected hours
	report.ExpectedHours = decimal.NewFromInt(int64(report.BasicTimeDays * a.rules.DailyHours))
	report.TimeDiff = report.TotalHours.Sub(report.ExpectedHours)

	a.logger.Info("Monthly report aggregated",
		zap.String("employee", employee),
		zap.Stringer("period", period),
		zap.Int("entries", len(entries)),
		zap.Int("basic_time_days", report.BasicTimeDays),
		zap.String("total_hours", report.TotalHours.String()))

	return report, nil
}

func checkEntryDate(e *model.DailyEntry, period Period) error {
	if _, err := dateutil.ParseISODate(e.Date); err != nil {
		return fmt.Errorf("%w: entry %d has date %q: %v", apperr.ErrDataIntegrity, e.ID, e.Date, err)
	}
	if !period.Contains(e.Date) {
		return fmt.Errorf("%w: entry %d date %s outside period %s", apperr.ErrDataIntegrity, e.ID, e.Date, period)
	}
	return nil
}

// taskLines groups entries by title in order of first appearance
func (a *Aggregator) taskLines(entries []model.DailyEntry) []TaskLine {
	var titles []string
	groups := make(map[string][]*model.DailyEntry)
	for i := range entries {
		e := &entries[i]
		if _, ok := groups[e.Title]; !ok {
			titles = append(titles, e.Title)
		}
		groups[e.Title] = append(groups[e.Title], e)
	}

	lines := make([]TaskLine, 0, len(titles))
	for _, title := range titles {
		group := groups[title]

		var minutes int64
		for _, e := range group {
			minutes += int64(e.TotalMinutes)
		}
		hours := minutesToHours(minutes)

		lines = append(lines, TaskLine{
			Title:       title,
			Description: describeTask(group),
			Hours:       hours,
			Amount:      a.pricer.Amount(title, hours),
		})
	}
	return lines
}

// describeTask joins up to three distinct task descriptions with "/" and
// appends the partner summary.
func describeTask(group []*model.DailyEntry) string {
	var tasks, partners []string
	seenTask := make(map[string]bool)
	seenPartner := make(map[string]bool)
	for _, e := range group {
		if t := strings.TrimSpace(e.Task); t != "" && !seenTask[t] && len(tasks) < 3 {
			seenTask[t] = true
			tasks = append(tasks, t)
		}
		if p := strings.TrimSpace(e.Partner); p != "" && !seenPartner[p] {
			seenPartner[p] = true
			partners = append(partners, p)
		}
	}

	description := strings.Join(tasks, "/")
	partner := summarizePartners(partners)
	switch {
	case partner == "":
		return description
	case description == "":
		return partner
	default:
		return description + " / " + partner
	}
}

// summarizePartners returns "", the sole partner, or "<first> 他"
func summarizePartners(partners []string) string {
	switch len(partners) {
	case 0:
		return ""
	case 1:
		return partners[0]
	default:
		return partners[0] + " 他"
	}
}

// summarizeOther collapses other tasks into a single row titled
// "A: 1.5H / B: 2H", cut to limit runes plus "…他" when longer.
func summarizeOther(lines []TaskLine, limit int) TaskLine {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%s: %sH", l.Title, l.Hours.String()))
	}

	summary := TaskLine{Title: truncateRunes(strings.Join(parts, " / "), limit)}
	summary.Hours, summary.Amount = sumLines(lines)
	return summary
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + otherSuffix
}

func sumLines(lines []TaskLine) (hours, amount decimal.Decimal) {
	hours, amount = decimal.Zero, decimal.Zero
	for _, l := range lines {
		hours = hours.Add(l.Hours)
		amount = amount.Add(l.Amount)
	}
	return hours, amount
}

func (a *Aggregator) applyTimeFigures(report *MonthlyReport, entries []model.DailyEntry) {
	var overtime, overtimeB, holidayWork, paidLeave, lateEarly int64
	for i := range entries {
		e := &entries[i]
		overtime += int64(e.OvertimeBefore + e.OvertimeAfter)
		overtimeB += int64(e.BOvertimeMinutes)
		if e.IsHolidayWork {
			holidayWork += int64(e.HolidayTotalMinutes)
		}
		paidLeave += int64(e.PaidLeaveMinutes)
		lateEarly += int64(a.lateEarlyMinutes(e))
	}

	report.OvertimeA = minutesToHours(overtime)
	report.OvertimeB = minutesToHours(overtimeB)
	report.HolidayWork = minutesToHours(holidayWork)
	report.PaidLeave = minutesToHours(paidLeave)
	report.LateEarly = minutesToHours(lateEarly)
}

// lateEarlyMinutes is how far an entry starts after or ends before the
// scheduled times. Entries without recorded clocks contribute nothing.
func (a *Aggregator) lateEarlyMinutes(e *model.DailyEntry) int {
	minutes := 0
	if start, ok := e.StartMinutes(); ok && start > a.rules.ScheduledStart {
		minutes += start - a.rules.ScheduledStart
	}
	if end, ok := e.EndMinutes(); ok && end < a.rules.ScheduledEnd {
		minutes += a.rules.ScheduledEnd - end
	}
	return minutes
}
