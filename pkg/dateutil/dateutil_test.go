package dateutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	input := time.Date(2025, 1, 15, 14, 30, 45, 123456789, time.UTC)
	expected := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	result := StartOfDay(input)

	if !result.Equal(expected) {
		t.Errorf("StartOfDay(%v) = %v, want %v", input, result, expected)
	}
}

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"Saturday", time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC), true},
		{"Sunday", time.Date(2025, 7, 6, 0, 0, 0, 0, time.UTC), true},
		{"Monday", time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC), false},
		{"Friday", time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWeekend(tt.date); got != tt.want {
				t.Errorf("IsWeekend(%s) = %v, want %v", tt.date.Format("2006-01-02 Mon"), got, tt.want)
			}
		})
	}
}

func TestParseISODate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2025-06-16", time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), false},
		{"2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"2025-02-29", time.Time{}, true},
		{"2025-6-16", time.Time{}, true},
		{"16.06.2025", time.Time{}, true},
		{"", time.Time{}, true},
		{"2025/06/16", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseISODate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseISODate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseISODate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseYearMonth(t *testing.T) {
	year, month, err := ParseYearMonth("2025-01")
	if err != nil {
		t.Fatalf("ParseYearMonth() error = %v", err)
	}
	if year != 2025 || month != time.January {
		t.Errorf("ParseYearMonth() = %d-%d, want 2025-1", year, month)
	}

	for _, bad := range []string{"2025-13", "2025-1", "202501", "July", "2025-07-01"} {
		if _, _, err := ParseYearMonth(bad); err == nil {
			t.Errorf("ParseYearMonth(%q) expected error, got nil", bad)
		}
	}
}

func TestParseMonthDay(t *testing.T) {
	month, day, err := ParseMonthDay("02-29")
	if err != nil {
		t.Fatalf("ParseMonthDay(02-29) error = %v", err)
	}
	if month != time.February || day != 29 {
		t.Errorf("ParseMonthDay(02-29) = %d-%d, want 2-29", month, day)
	}

	for _, bad := range []string{"13-01", "04-31", "5-1", "2025-05-01"} {
		if _, _, err := ParseMonthDay(bad); err == nil {
			t.Errorf("ParseMonthDay(%q) expected error, got nil", bad)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"08:30", 510, false},
		{"17:30", 1050, false},
		{"00:00", 0, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	days := DaysBetween(from, to)
	if len(days) != 4 {
		t.Fatalf("DaysBetween() returned %d days, want 4", len(days))
	}
	if FormatISO(days[0]) != "2024-12-30" || FormatISO(days[3]) != "2025-01-02" {
		t.Errorf("DaysBetween() = %s..%s, want 2024-12-30..2025-01-02",
			FormatISO(days[0]), FormatISO(days[3]))
	}

	if got := DaysBetween(to, from); got != nil {
		t.Errorf("DaysBetween(reversed) = %v, want nil", got)
	}
}
