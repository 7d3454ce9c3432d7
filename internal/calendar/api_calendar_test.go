package calendar

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newHolidayServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		switch r.URL.Path {
		case "/2025/date.json":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"2025-01-01":"元日","2025-07-21":"海の日","not-a-date":"x","2024-12-31":"prev"}`)
		case "/2026/date.json":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{}`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestAPICalendar_HolidaysInYear(t *testing.T) {
	var hits int32
	srv := newHolidayServer(t, &hits)
	defer srv.Close()

	cal := NewAPICalendar(srv.URL+"/{year}/date.json", time.Hour, zap.NewNop())

	holidays, err := cal.HolidaysInYear(2025)
	if err != nil {
		t.Fatalf("HolidaysInYear(2025) error = %v", err)
	}
	if len(holidays) != 2 {
		t.Fatalf("HolidaysInYear(2025) count = %d, want 2", len(holidays))
	}
	if holidays[1].Name != "海の日" {
		t.Errorf("second holiday = %q, want 海の日", holidays[1].Name)
	}

	ok, name, err := cal.IsHoliday(time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC))
	if err != nil || !ok || name != "海の日" {
		t.Errorf("IsHoliday(2025-07-21) = %v, %q, %v; want true, 海の日, nil", ok, name, err)
	}

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("API hits = %d, want 1 (second lookup must use cache)", got)
	}

	cal.ClearCache()
	if _, err := cal.HolidaysInYear(2025); err != nil {
		t.Fatalf("HolidaysInYear after ClearCache error = %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("API hits after ClearCache = %d, want 2", got)
	}
}

func TestAPICalendar_Errors(t *testing.T) {
	var hits int32
	srv := newHolidayServer(t, &hits)
	defer srv.Close()

	cal := NewAPICalendar(srv.URL+"/{year}/date.json", time.Hour, zap.NewNop())

	tests := []struct {
		name string
		year int
	}{
		{"not found status", 2030},
		{"empty year", 2026},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := cal.HolidaysInYear(tt.year); err == nil {
				t.Errorf("HolidaysInYear(%d) expected error, got nil", tt.year)
			}
		})
	}
}

func TestNewAPICalendar_Defaults(t *testing.T) {
	cal := NewAPICalendar("", 0, zap.NewNop())

	if cal.urlTemplate != DefaultAPIURL {
		t.Errorf("urlTemplate = %q, want %q", cal.urlTemplate, DefaultAPIURL)
	}
	if cal.cacheTTL != defaultCacheTTL {
		t.Errorf("cacheTTL = %v, want %v", cal.cacheTTL, defaultCacheTTL)
	}
}
