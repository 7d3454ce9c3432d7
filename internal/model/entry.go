package model

import (
	"fmt"
	"time"

	"github.com/username/attendance-report/internal/apperr"
	"github.com/username/attendance-report/pkg/dateutil"
)

// Role is an approval role with its own checkbox on each entry.
type Role string

const (
	RoleManager   Role = "manager"
	RoleDirector  Role = "director"
	RolePresident Role = "president"
)

// Roles lists every approval role in display order.
var Roles = []Role{RoleManager, RoleDirector, RolePresident}

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: unknown role %q", apperr.ErrInvalidInput, s)
}

// Column returns the approval column that belongs to the role.
func (r Role) Column() string {
	return string(r) + "_approved"
}

// EntryKey identifies a DailyEntry. At most one entry exists per key.
type EntryKey struct {
	Name  string `json:"name"`
	Date  string `json:"date"`
	Title string `json:"title"`
}

func (k EntryKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Name, k.Date, k.Title)
}

// DailyEntry is one employee's work record for one day and one task title.
type DailyEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name    string `gorm:"size:100;not null;uniqueIndex:idx_entry_key,priority:1" json:"name"`
	Date    string `gorm:"size:10;not null;uniqueIndex:idx_entry_key,priority:2;index" json:"date"`
	Title   string `gorm:"size:200;not null;uniqueIndex:idx_entry_key,priority:3" json:"title"`
	Task    string `gorm:"size:500" json:"task"`
	Partner string `gorm:"size:200" json:"partner"`

	StartHour   *int `json:"start_hour"`
	StartMinute *int `json:"start_minute"`
	EndHour     *int `json:"end_hour"`
	EndMinute   *int `json:"end_minute"`

	WorkMinutes      int `gorm:"not null;default:0" json:"work_minutes"`
	OvertimeBefore   int `gorm:"not null;default:0" json:"overtime_before"`
	OvertimeAfter    int `gorm:"not null;default:0" json:"overtime_after"`
	TotalMinutes     int `gorm:"not null;default:0" json:"total_minutes"`
	BOvertimeMinutes int `gorm:"not null;default:0" json:"b_overtime_minutes"`
	PaidLeaveMinutes int `gorm:"not null;default:0" json:"paid_leave_minutes"`

	IsHolidayWork       bool `gorm:"not null;default:false" json:"is_holiday_work"`
	HolidayStartHour    *int `json:"holiday_start_hour"`
	HolidayStartMinute  *int `json:"holiday_start_minute"`
	HolidayEndHour      *int `json:"holiday_end_hour"`
	HolidayEndMinute    *int `json:"holiday_end_minute"`
	HolidayWorkMinutes  int  `gorm:"not null;default:0" json:"holiday_work_minutes"`
	HolidayTotalMinutes int  `gorm:"not null;default:0" json:"holiday_total_minutes"`

	ManagerApproved   bool `gorm:"not null;default:false" json:"manager_approved"`
	DirectorApproved  bool `gorm:"not null;default:false" json:"director_approved"`
	PresidentApproved bool `gorm:"not null;default:false" json:"president_approved"`
}

// Key returns the natural key of the entry.
func (e *DailyEntry) Key() EntryKey {
	return EntryKey{Name: e.Name, Date: e.Date, Title: e.Title}
}

// ComputeTotals fills the derived total columns from their parts.
// Holiday work counts holiday_work_minutes instead of work_minutes, and its
// total is also the entry total so the hours land on the task.
func (e *DailyEntry) ComputeTotals() {
	overtime := e.OvertimeBefore + e.OvertimeAfter
	if e.IsHolidayWork {
		e.HolidayTotalMinutes = e.HolidayWorkMinutes + overtime
		e.TotalMinutes = e.HolidayTotalMinutes
		return
	}
	e.TotalMinutes = e.WorkMinutes + overtime
}

// StartMinutes returns the recorded start as minutes since midnight.
func (e *DailyEntry) StartMinutes() (int, bool) {
	return clockMinutes(e.StartHour, e.StartMinute)
}

// EndMinutes returns the recorded end as minutes since midnight.
func (e *DailyEntry) EndMinutes() (int, bool) {
	return clockMinutes(e.EndHour, e.EndMinute)
}

// Approved reports the approval flag for a role.
func (e *DailyEntry) Approved(role Role) bool {
	switch role {
	case RoleManager:
		return e.ManagerApproved
	case RoleDirector:
		return e.DirectorApproved
	case RolePresident:
		return e.PresidentApproved
	}
	return false
}

// Validate checks a submitted entry before it is persisted.
func (e *DailyEntry) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: entry name is required", apperr.ErrInvalidInput)
	}
	if e.Title == "" {
		return fmt.Errorf("%w: entry title is required", apperr.ErrInvalidInput)
	}
	if _, err := dateutil.ParseISODate(e.Date); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	clocks := []struct {
		name         string
		hour, minute *int
	}{
		{"start", e.StartHour, e.StartMinute},
		{"end", e.EndHour, e.EndMinute},
		{"holiday start", e.HolidayStartHour, e.HolidayStartMinute},
		{"holiday end", e.HolidayEndHour, e.HolidayEndMinute},
	}
	for _, c := range clocks {
		if c.hour != nil && (*c.hour < 0 || *c.hour > 23) {
			return fmt.Errorf("%w: %s hour %d out of range", apperr.ErrInvalidInput, c.name, *c.hour)
		}
		if c.minute != nil && (*c.minute < 0 || *c.minute > 59) {
			return fmt.Errorf("%w: %s minute %d out of range", apperr.ErrInvalidInput, c.name, *c.minute)
		}
	}

	counts := map[string]int{
		"work_minutes":          e.WorkMinutes,
		"overtime_before":       e.OvertimeBefore,
		"overtime_after":        e.OvertimeAfter,
		"total_minutes":         e.TotalMinutes,
		"b_overtime_minutes":    e.BOvertimeMinutes,
		"paid_leave_minutes":    e.PaidLeaveMinutes,
		"holiday_work_minutes":  e.HolidayWorkMinutes,
		"holiday_total_minutes": e.HolidayTotalMinutes,
	}
	for name, v := range counts {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", apperr.ErrInvalidInput, name)
		}
	}

	return nil
}

func clockMinutes(hour, minute *int) (int, bool) {
	if hour == nil || minute == nil {
		return 0, false
	}
	return *hour*60 + *minute, true
}
