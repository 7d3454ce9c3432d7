package calendar

import (
	"testing"
	"time"
)

func TestJapaneseCalendar_IsHoliday(t *testing.T) {
	cal := NewJapaneseCalendar()

	tests := []struct {
		date     string
		want     bool
		wantName string
	}{
		{"2025-01-01", true, "元日"},
		{"2025-01-13", true, "成人の日"},
		{"2025-02-24", true, "振替休日"}, // Feb 23 is a Sunday
		{"2025-03-20", true, "春分の日"},
		{"2025-05-06", true, "振替休日"}, // May 4 is a Sunday, May 5 already a holiday
		{"2025-07-21", true, "海の日"},
		{"2025-09-23", true, "秋分の日"},
		{"2025-11-24", true, "振替休日"},
		{"2026-09-22", true, "国民の休日"}, // between 敬老の日 and 秋分の日
		{"2019-05-01", true, "即位の日"},
		{"2019-04-30", true, "国民の休日"},
		{"2020-07-24", true, "スポーツの日"},
		{"2018-12-24", true, "振替休日"},
		{"2019-12-23", false, ""},
		{"2025-07-22", false, ""},
		{"2025-12-31", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			date, _ := time.Parse("2006-01-02", tt.date)
			got, name, err := cal.IsHoliday(date)
			if err != nil {
				t.Fatalf("IsHoliday(%s) error = %v", tt.date, err)
			}
			if got != tt.want {
				t.Errorf("IsHoliday(%s) = %v, want %v", tt.date, got, tt.want)
			}
			if name != tt.wantName {
				t.Errorf("IsHoliday(%s) name = %q, want %q", tt.date, name, tt.wantName)
			}
		})
	}
}

func TestJapaneseCalendar_HolidaysInYear(t *testing.T) {
	cal := NewJapaneseCalendar()

	holidays, err := cal.HolidaysInYear(2025)
	if err != nil {
		t.Fatalf("HolidaysInYear(2025) error = %v", err)
	}

	if len(holidays) != 19 {
		t.Errorf("HolidaysInYear(2025) count = %d, want 19", len(holidays))
	}
	for i := 1; i < len(holidays); i++ {
		if !holidays[i-1].Date.Before(holidays[i].Date) {
			t.Errorf("holidays not ascending at %d: %v >= %v", i, holidays[i-1].Date, holidays[i].Date)
		}
	}
	if holidays[0].Name != "元日" {
		t.Errorf("first holiday = %q, want 元日", holidays[0].Name)
	}
}

func TestJapaneseCalendar_UnsupportedYear(t *testing.T) {
	cal := NewJapaneseCalendar()

	if _, err := cal.HolidaysInYear(1999); err == nil {
		t.Error("HolidaysInYear(1999) expected error, got nil")
	}
	if _, _, err := cal.IsHoliday(time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Error("IsHoliday(2100-01-01) expected error, got nil")
	}
}

func TestNthMonday(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		n     int
		want  int
	}{
		{2025, time.January, 2, 13},
		{2025, time.July, 3, 21},
		{2025, time.September, 3, 15},
		{2025, time.October, 2, 13},
		{2024, time.January, 2, 8}, // Jan 1 2024 is a Monday
	}

	for _, tt := range tests {
		if got := nthMonday(tt.year, tt.month, tt.n); got != tt.want {
			t.Errorf("nthMonday(%d, %s, %d) = %d, want %d", tt.year, tt.month, tt.n, got, tt.want)
		}
	}
}

func TestEquinoxDays(t *testing.T) {
	tests := []struct {
		year         int
		wantVernal   int
		wantAutumnal int
	}{
		{2024, 20, 22},
		{2025, 20, 23},
		{2026, 20, 23},
		{2012, 20, 22},
	}

	for _, tt := range tests {
		if got := vernalEquinoxDay(tt.year); got != tt.wantVernal {
			t.Errorf("vernalEquinoxDay(%d) = %d, want %d", tt.year, got, tt.wantVernal)
		}
		if got := autumnalEquinoxDay(tt.year); got != tt.wantAutumnal {
			t.Errorf("autumnalEquinoxDay(%d) = %d, want %d", tt.year, got, tt.wantAutumnal)
		}
	}
}
