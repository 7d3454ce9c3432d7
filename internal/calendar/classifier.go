package calendar

import (
	"fmt"
	"time"

	"github.com/username/attendance-report/internal/apperr"
	"github.com/username/attendance-report/internal/model"
	"github.com/username/attendance-report/pkg/dateutil"
)

// Classification is the category decided for one date.
type Classification struct {
	Date              string  `json:"date"`
	Kind              DayKind `json:"kind"`
	IsHoliday         bool    `json:"is_holiday"`
	IsWorkdayForced   bool    `json:"is_workday_forced"`
	IsPaidLeaveForced bool    `json:"is_paid_leave_forced"`
	Rule              string  `json:"rule"`
	Note              string  `json:"note,omitempty"`
}

// IsExpectedWorkday reports whether the day counts toward scheduled work.
func (c Classification) IsExpectedWorkday() bool {
	return c.Kind == DayKindWorkday || c.Kind == DayKindForcedWorkday
}

// Rule is one step of the classification chain. Apply returns ok=false
// when the rule has no opinion about the date.
type Rule interface {
	Name() string
	Apply(date time.Time) (Classification, bool, error)
}

// ExactOverrideRule applies an override declared for the exact date.
type ExactOverrideRule struct {
	Table *OverrideTable
}

func (r ExactOverrideRule) Name() string { return "exact_override" }

func (r ExactOverrideRule) Apply(date time.Time) (Classification, bool, error) {
	o, ok := r.Table.Exact(date)
	if !ok {
		return Classification{}, false, nil
	}
	return fromOverride(date, o, r.Name())
}

// RecurringOverrideRule applies a year-less MM-DD override.
type RecurringOverrideRule struct {
	Table *OverrideTable
}

func (r RecurringOverrideRule) Name() string { return "recurring_override" }

func (r RecurringOverrideRule) Apply(date time.Time) (Classification, bool, error) {
	o, ok := r.Table.Recurring(date)
	if !ok {
		return Classification{}, false, nil
	}
	return fromOverride(date, o, r.Name())
}

// WeekendRule marks Saturday and Sunday as holidays.
type WeekendRule struct{}

func (r WeekendRule) Name() string { return "weekend" }

func (r WeekendRule) Apply(date time.Time) (Classification, bool, error) {
	if !dateutil.IsWeekend(date) {
		return Classification{}, false, nil
	}
	return Classification{
		Date:      dateutil.FormatISO(date),
		Kind:      DayKindWeekend,
		IsHoliday: true,
		Rule:      r.Name(),
		Note:      date.Weekday().String(),
	}, true, nil
}

// PublicHolidayRule consults a public-holiday calendar.
type PublicHolidayRule struct {
	Calendar HolidayCalendar
}

func (r PublicHolidayRule) Name() string { return "public_holiday" }

func (r PublicHolidayRule) Apply(date time.Time) (Classification, bool, error) {
	if r.Calendar == nil {
		return Classification{}, false, nil
	}
	isHoliday, name, err := r.Calendar.IsHoliday(date)
	if err != nil {
		return Classification{}, false, fmt.Errorf("failed to check public holiday %s: %w", dateutil.FormatISO(date), err)
	}
	if !isHoliday {
		return Classification{}, false, nil
	}
	return Classification{
		Date:      dateutil.FormatISO(date),
		Kind:      DayKindPublicHoliday,
		IsHoliday: true,
		Rule:      r.Name(),
		Note:      name,
	}, true, nil
}

func fromOverride(date time.Time, o model.CalendarOverride, rule string) (Classification, bool, error) {
	c := Classification{
		Date: dateutil.FormatISO(date),
		Rule: rule,
		Note: o.Description,
	}
	switch o.Type {
	case model.OverrideHoliday:
		c.Kind = DayKindCompanyHoliday
		c.IsHoliday = true
	case model.OverrideWorkday:
		c.Kind = DayKindForcedWorkday
		c.IsWorkdayForced = true
	case model.OverridePaidLeave:
		c.Kind = DayKindForcedPaidLeave
		c.IsPaidLeaveForced = true
	default:
		return Classification{}, false, fmt.Errorf("%w: calendar override %q has unknown type %q", apperr.ErrDataIntegrity, o.Date, o.Type)
	}
	return c, true, nil
}

// Classifier runs an ordered rule chain; the first rule with an opinion
// decides. Dates no rule claims are ordinary workdays.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a Classifier with rules in precedence order
func NewClassifier(rules ...Rule) *Classifier {
	return &Classifier{rules: rules}
}

// DefaultRules returns exact override > recurring override > weekend >
// public holiday.
func DefaultRules(table *OverrideTable, holidays HolidayCalendar) []Rule {
	return []Rule{
		ExactOverrideRule{Table: table},
		RecurringOverrideRule{Table: table},
		WeekendRule{},
		PublicHolidayRule{Calendar: holidays},
	}
}

// NewDefaultClassifier builds the standard chain over stored overrides.
func NewDefaultClassifier(overrides []model.CalendarOverride, holidays HolidayCalendar) (*Classifier, error) {
	table, err := NewOverrideTable(overrides)
	if err != nil {
		return nil, err
	}
	return NewClassifier(DefaultRules(table, holidays)...), nil
}

// Rules returns the rule names in precedence order
func (c *Classifier) Rules() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.Name()
	}
	return names
}

// Classify classifies a YYYY-MM-DD date string
func (c *Classifier) Classify(dateStr string) (Classification, error) {
	date, err := dateutil.ParseISODate(dateStr)
	if err != nil {
		return Classification{}, fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}
	return c.ClassifyDate(date)
}

// ClassifyDate classifies a date
func (c *Classifier) ClassifyDate(date time.Time) (Classification, error) {
	date = dateutil.StartOfDay(date)
	for _, rule := range c.rules {
		result, ok, err := rule.Apply(date)
		if err != nil {
			return Classification{}, fmt.Errorf("rule %s: %w", rule.Name(), err)
		}
		if ok {
			return result, nil
		}
	}

	return Classification{
		Date: dateutil.FormatISO(date),
		Kind: DayKindWorkday,
		Rule: "default",
	}, nil
}

// CountWorkdays counts expected workdays from `from` to `to` inclusive
func (c *Classifier) CountWorkdays(from, to time.Time) (int, error) {
	count := 0
	for _, d := range dateutil.DaysBetween(from, to) {
		result, err := c.ClassifyDate(d)
		if err != nil {
			return 0, err
		}
		if result.IsExpectedWorkday() {
			count++
		}
	}
	return count, nil
}
