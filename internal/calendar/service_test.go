package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/username/attendance-report/internal/apperr"
	"github.com/username/attendance-report/internal/model"
	"go.uber.org/zap"
)

type memOverrideStore struct {
	rows map[string]model.CalendarOverride
}

func newMemOverrideStore(rows ...model.CalendarOverride) *memOverrideStore {
	s := &memOverrideStore{rows: make(map[string]model.CalendarOverride)}
	for _, r := range rows {
		s.rows[r.Date] = r
	}
	return s
}

func (s *memOverrideStore) UpsertCalendarOverride(_ context.Context, date, description string, typ model.OverrideType) error {
	s.rows[date] = model.CalendarOverride{Date: date, Description: description, Type: typ}
	return nil
}

func (s *memOverrideStore) GetCalendarOverride(_ context.Context, date string) (*model.CalendarOverride, error) {
	o, ok := s.rows[date]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &o, nil
}

func (s *memOverrideStore) DeleteCalendarOverride(_ context.Context, date string) error {
	if _, ok := s.rows[date]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.rows, date)
	return nil
}

func (s *memOverrideStore) ListCalendarOverrides(_ context.Context, from, to string) ([]model.CalendarOverride, error) {
	var out []model.CalendarOverride
	for _, o := range s.rows {
		if o.IsRecurring() || (o.Date >= from && o.Date <= to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memOverrideStore) ListAllCalendarOverrides(_ context.Context) ([]model.CalendarOverride, error) {
	var out []model.CalendarOverride
	for _, o := range s.rows {
		out = append(out, o)
	}
	return out, nil
}

func TestService_ClassifyDate(t *testing.T) {
	store := newMemOverrideStore(
		model.CalendarOverride{Date: "2025-07-05", Type: model.OverrideWorkday},
		model.CalendarOverride{Date: "07-12", Type: model.OverrideHoliday, Description: "夏季"},
	)
	svc := NewService(store, NewJapaneseCalendar(), zap.NewNop())
	ctx := context.Background()

	got, err := svc.ClassifyDate(ctx, "2025-07-05")
	if err != nil {
		t.Fatalf("ClassifyDate() error = %v", err)
	}
	if got.IsHoliday || !got.IsWorkdayForced {
		t.Errorf("ClassifyDate(2025-07-05) = %+v, want forced workday", got)
	}

	got, err = svc.ClassifyDate(ctx, "2024-07-12")
	if err != nil {
		t.Fatalf("ClassifyDate() error = %v", err)
	}
	if got.Kind != DayKindCompanyHoliday || got.Note != "夏季" {
		t.Errorf("ClassifyDate(2024-07-12) = %+v, want recurring company holiday", got)
	}

	if _, err := svc.ClassifyDate(ctx, "2025-13-01"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("ClassifyDate(bad) error = %v, want ErrInvalidInput", err)
	}
}

func TestService_ClassifyDate_CorruptOverride(t *testing.T) {
	store := newMemOverrideStore(model.CalendarOverride{Date: "2025-07-05", Type: "unknown"})
	svc := NewService(store, NewJapaneseCalendar(), zap.NewNop())

	if _, err := svc.ClassifyDate(context.Background(), "2025-07-05"); !errors.Is(err, apperr.ErrDataIntegrity) {
		t.Errorf("ClassifyDate() error = %v, want ErrDataIntegrity", err)
	}
}

func TestService_OverrideRoundTrip(t *testing.T) {
	svc := NewService(newMemOverrideStore(), NewJapaneseCalendar(), zap.NewNop())
	ctx := context.Background()

	saved, err := svc.SetOverride(ctx, "2025-08-13", " お盆 ", "holiday")
	if err != nil {
		t.Fatalf("SetOverride() error = %v", err)
	}

	got, err := svc.GetOverride(ctx, "2025-08-13")
	if err != nil {
		t.Fatalf("GetOverride() error = %v", err)
	}
	if *got != saved {
		t.Errorf("GetOverride() = %+v, want %+v", *got, saved)
	}
	if got.Description != "お盆" {
		t.Errorf("Description = %q, want trimmed お盆", got.Description)
	}

	if err := svc.DeleteOverride(ctx, "2025-08-13"); err != nil {
		t.Fatalf("DeleteOverride() error = %v", err)
	}
	if _, err := svc.GetOverride(ctx, "2025-08-13"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetOverride() after delete error = %v, want ErrNotFound", err)
	}
}

func TestService_SetOverride_Invalid(t *testing.T) {
	svc := NewService(newMemOverrideStore(), NewJapaneseCalendar(), zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		date, typ string
	}{
		{"2025-8-13", "holiday"},
		{"13-01", "holiday"},
		{"2025-08-13", "vacation"},
	}
	for _, tt := range tests {
		if _, err := svc.SetOverride(ctx, tt.date, "", tt.typ); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("SetOverride(%q, %q) error = %v, want ErrInvalidInput", tt.date, tt.typ, err)
		}
	}
}

func TestService_ListOverrides(t *testing.T) {
	store := newMemOverrideStore(
		model.CalendarOverride{Date: "12-31", Type: model.OverrideHoliday},
		model.CalendarOverride{Date: "2025-08-13", Type: model.OverrideHoliday},
		model.CalendarOverride{Date: "2025-01-04", Type: model.OverrideWorkday},
	)
	svc := NewService(store, NewJapaneseCalendar(), zap.NewNop())

	list, err := svc.ListOverrides(context.Background())
	if err != nil {
		t.Fatalf("ListOverrides() error = %v", err)
	}
	want := []string{"2025-01-04", "2025-08-13", "12-31"}
	if len(list) != len(want) {
		t.Fatalf("ListOverrides() len = %d, want %d", len(list), len(want))
	}
	for i := range want {
		if list[i].Date != want[i] {
			t.Errorf("ListOverrides()[%d] = %s, want %s", i, list[i].Date, want[i])
		}
	}
}

func TestService_ImportCSV(t *testing.T) {
	store := newMemOverrideStore(model.CalendarOverride{Date: "2025-08-13", Description: "既存", Type: model.OverrideWorkday})
	svc := NewService(store, NewJapaneseCalendar(), zap.NewNop())

	csvData := "date,description,type\n" +
		"2025-08-13,お盆,holiday\n" +
		"2025-08-14,お盆,holiday\n" +
		"12-31,大晦日,holiday\n"

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if result.Imported != 2 || result.Skipped != 1 {
		t.Errorf("ImportCSV() = %+v, want 2 imported, 1 skipped", result)
	}
	if store.rows["2025-08-13"].Description != "既存" {
		t.Errorf("existing override was overwritten: %+v", store.rows["2025-08-13"])
	}
}

func TestService_ImportCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing column", "date,type\n2025-08-13,holiday\n"},
		{"bad type", "date,description,type\n2025-08-13,x,vacation\n"},
		{"bad date", "date,description,type\n2025/08/13,x,holiday\n"},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMemOverrideStore(), NewJapaneseCalendar(), zap.NewNop())
			_, err := svc.ImportCSV(context.Background(), strings.NewReader(tt.data))
			if !errors.Is(err, apperr.ErrInvalidInput) {
				t.Errorf("ImportCSV() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}
