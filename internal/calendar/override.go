package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/username/attendance-report/internal/apperr"
	"github.com/username/attendance-report/internal/model"
	"github.com/username/attendance-report/pkg/dateutil"
)

// OverrideTable indexes company calendar overrides for lookup by date.
type OverrideTable struct {
	exact     map[string]model.CalendarOverride // key: YYYY-MM-DD
	recurring map[string]model.CalendarOverride // key: MM-DD
}

// NewOverrideTable indexes overrides loaded from storage. A malformed
// stored date or type is a data integrity fault.
func NewOverrideTable(overrides []model.CalendarOverride) (*OverrideTable, error) {
	t := &OverrideTable{
		exact:     make(map[string]model.CalendarOverride),
		recurring: make(map[string]model.CalendarOverride),
	}

	for _, o := range overrides {
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("%w: calendar override %q: %v", apperr.ErrDataIntegrity, o.Date, err)
		}
		if o.IsRecurring() {
			t.recurring[o.Date] = o
		} else {
			t.exact[o.Date] = o
		}
	}

	return t, nil
}

// Exact returns the override declared for exactly this date.
func (t *OverrideTable) Exact(date time.Time) (model.CalendarOverride, bool) {
	o, ok := t.exact[dateutil.FormatISO(date)]
	return o, ok
}

// Recurring returns the year-less override matching the date's month and day.
func (t *OverrideTable) Recurring(date time.Time) (model.CalendarOverride, bool) {
	o, ok := t.recurring[dateutil.FormatMonthDay(date)]
	return o, ok
}

// Lookup returns the winning override for the date; exact beats recurring.
func (t *OverrideTable) Lookup(date time.Time) (model.CalendarOverride, bool) {
	if o, ok := t.Exact(date); ok {
		return o, true
	}
	return t.Recurring(date)
}

// Len returns the number of indexed overrides
func (t *OverrideTable) Len() int {
	return len(t.exact) + len(t.recurring)
}

// SortOverrides orders full-date entries before year-less ones, each
// ascending by date.
func SortOverrides(overrides []model.CalendarOverride) {
	sort.SliceStable(overrides, func(i, j int) bool {
		ri, rj := overrides[i].IsRecurring(), overrides[j].IsRecurring()
		if ri != rj {
			return !ri
		}
		return overrides[i].Date < overrides[j].Date
	})
}
