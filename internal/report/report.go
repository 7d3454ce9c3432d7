// Package report aggregates daily entries into monthly attendance reports.
package report

import (
	"github.com/shopspring/decimal"
)

// TaskLine is one task title's aggregate within a report. Hours and amounts
// are exact decimals rounded to two places.
type TaskLine struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Hours       decimal.Decimal `json:"hours"`
	Amount      decimal.Decimal `json:"amount"`
}

// MonthlyReport is the attendance summary of one employee over one pay period
type MonthlyReport struct {
	Employee  string `json:"employee"`
	YearMonth string `json:"year_month"`
	Period    Period `json:"period"`

	BasicTimeDays int             `json:"basic_time_days"`
	ExpectedHours decimal.Decimal `json:"expected_hours"`

	MainTasks []TaskLine `json:"main_tasks"`
	// OtherTasks keeps the individual non-main lines; OtherSummary is the
	// single collapsed row shown on the report.
	OtherTasks   []TaskLine `json:"other_tasks"`
	OtherSummary TaskLine   `json:"other_summary"`

	MainTotalHours   decimal.Decimal `json:"main_total_hours"`
	MainTotalAmount  decimal.Decimal `json:"main_total_amount"`
	OtherTotalHours  decimal.Decimal `json:"other_total_hours"`
	OtherTotalAmount decimal.Decimal `json:"other_total_amount"`
	TotalHours       decimal.Decimal `json:"total_hours"`
	TotalAmount      decimal.Decimal `json:"total_amount"`

	OvertimeA   decimal.Decimal `json:"overtime_a"`
	OvertimeB   decimal.Decimal `json:"overtime_b"`
	HolidayWork decimal.Decimal `json:"holiday_work"`
	PaidLeave   decimal.Decimal `json:"paid_leave"`
	LateEarly   decimal.Decimal `json:"late_early"`
	TimeDiff    decimal.Decimal `json:"time_diff"`
}

// Pricer assigns a monetary amount to a task's hours
type Pricer interface {
	Amount(title string, hours decimal.Decimal) decimal.Decimal
}

// ZeroPricer prices every task at zero
type ZeroPricer struct{}

// Amount always returns zero
func (ZeroPricer) Amount(string, decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

var minutesPerHour = decimal.NewFromInt(60)

// minutesToHours converts minutes to hours rounded to two decimal places
func minutesToHours(minutes int64) decimal.Decimal {
	return decimal.NewFromInt(minutes).Div(minutesPerHour).Round(2)
}
