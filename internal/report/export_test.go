package report

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/username/attendance-report/internal/model"
)

func TestWriteXLSX(t *testing.T) {
	agg, _ := newTestAggregator([]model.DailyEntry{
		work("2025-06-16", "ProjectX", 120),
		work("2025-06-17", "ProjectX", 60),
		work("2025-07-15", "ProjectX", 480),
		work("2025-07-01", "Support", 90),
	})
	r, err := agg.AggregateMonth(context.Background(), "Alice", "2025-07", []string{"ProjectX"})
	if err != nil {
		t.Fatalf("AggregateMonth() error = %v", err)
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, r); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != SheetName {
		t.Fatalf("sheets = %v, want [%s]", sheets, SheetName)
	}

	cells := []struct {
		axis string
		want string
	}{
		{"A1", "Alice 月報 2025-07"},
		{"B2", "2025-06-16 ~ 2025-07-15"},
		{"B3", "22"},
		{"A5", "案件名"},
		{"A6", "ProjectX"},
		{"C6", "11"},
		{"A7", "Support: 1.5H"},
		{"C7", "1.5"},
		{"A8", "合計"},
		{"C8", "12.5"},
	}
	for _, c := range cells {
		got, err := f.GetCellValue(SheetName, c.axis)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", c.axis, err)
		}
		if got != c.want {
			t.Errorf("cell %s = %q, want %q", c.axis, got, c.want)
		}
	}
}

func TestXLSXFilename(t *testing.T) {
	r := &MonthlyReport{Employee: "Alice", YearMonth: "2025-07"}
	if got := XLSXFilename(r); got != "月報_Alice_2025-07.xlsx" {
		t.Errorf("XLSXFilename() = %q", got)
	}
}
