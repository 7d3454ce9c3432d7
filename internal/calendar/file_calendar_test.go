package calendar

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func writeHolidayFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holidays.txt")
	content := `# company fallback holidays
2025-01-01 元日
2025-07-21 海の日
bad-line
2026-01-01 元日
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write holiday file: %v", err)
	}
	return path
}

func TestFileCalendar_Load(t *testing.T) {
	fc := NewFileCalendar(writeHolidayFile(t), zap.NewNop())
	if err := fc.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	holidays, err := fc.HolidaysInYear(2025)
	if err != nil {
		t.Fatalf("HolidaysInYear(2025) error = %v", err)
	}
	if len(holidays) != 2 {
		t.Errorf("HolidaysInYear(2025) count = %d, want 2", len(holidays))
	}

	ok, name, err := fc.IsHoliday(time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC))
	if err != nil || !ok || name != "海の日" {
		t.Errorf("IsHoliday(2025-07-21) = %v, %q, %v", ok, name, err)
	}

	ok, _, err = fc.IsHoliday(time.Date(2025, 7, 22, 0, 0, 0, 0, time.UTC))
	if err != nil || ok {
		t.Errorf("IsHoliday(2025-07-22) = %v, %v; want false, nil", ok, err)
	}

	if _, _, err := fc.IsHoliday(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Error("IsHoliday(2027-01-01) expected error for uncovered year, got nil")
	}
}

func TestFileCalendar_MissingFile(t *testing.T) {
	fc := NewFileCalendar(filepath.Join(t.TempDir(), "missing.txt"), zap.NewNop())
	if err := fc.Load(); err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

type failingCalendar struct{}

func (failingCalendar) IsHoliday(time.Time) (bool, string, error) {
	return false, "", errors.New("network down")
}

func (failingCalendar) HolidaysInYear(int) ([]Holiday, error) {
	return nil, errors.New("network down")
}

func TestCompositeCalendar_FallsBack(t *testing.T) {
	fallback := NewFileCalendar(writeHolidayFile(t), zap.NewNop())
	cc := NewCompositeCalendar(failingCalendar{}, fallback, zap.NewNop())
	if err := cc.LoadFallback(); err != nil {
		t.Fatalf("LoadFallback() error = %v", err)
	}

	ok, name, err := cc.IsHoliday(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil || !ok || name != "元日" {
		t.Errorf("IsHoliday(2025-01-01) = %v, %q, %v; want fallback answer", ok, name, err)
	}

	holidays, err := cc.HolidaysInYear(2026)
	if err != nil || len(holidays) != 1 {
		t.Errorf("HolidaysInYear(2026) = %v, %v; want 1 holiday", holidays, err)
	}
}

func TestCompositeCalendar_PrimaryWins(t *testing.T) {
	cc := NewCompositeCalendar(NewJapaneseCalendar(), failingCalendar{}, zap.NewNop())

	ok, name, err := cc.IsHoliday(time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC))
	if err != nil || !ok || name != "文化の日" {
		t.Errorf("IsHoliday(2025-11-03) = %v, %q, %v; want primary answer", ok, name, err)
	}
	if err := cc.LoadFallback(); err != nil {
		t.Errorf("LoadFallback() with non-file fallback error = %v", err)
	}
}
