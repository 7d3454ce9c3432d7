package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the exported report
const SheetName = "月報"

// XLSXFilename returns the download name of an exported report
func XLSXFilename(r *MonthlyReport) string {
	return fmt.Sprintf("月報_%s_%s.xlsx", r.Employee, r.YearMonth)
}

// WriteXLSX renders the report as a single-sheet workbook
func WriteXLSX(w io.Writer, r *MonthlyReport) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(SheetName, "A", "A", 36)
	f.SetColWidth(SheetName, "B", "B", 40)
	f.SetColWidth(SheetName, "C", "D", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// Title and period
	f.SetCellValue(SheetName, "A1", fmt.Sprintf("%s 月報 %s", r.Employee, r.YearMonth))
	f.MergeCell(SheetName, "A1", "D1")
	f.SetCellStyle(SheetName, "A1", "A1", headerStyle)
	f.SetCellValue(SheetName, "A2", "期間")
	f.SetCellValue(SheetName, "B2", r.Period.String())
	f.SetCellValue(SheetName, "A3", "基本時間日数")
	f.SetCellValue(SheetName, "B3", r.BasicTimeDays)

	// Task table
	row := 5
	for i, h := range []string{"案件名", "内容", "時間(H)", "金額"} {
		f.SetCellValue(SheetName, cell(colName(i), row), h)
	}
	f.SetCellStyle(SheetName, cell("A", row), cell("D", row), headerStyle)
	row++

	writeLine := func(l TaskLine) {
		f.SetCellValue(SheetName, cell("A", row), l.Title)
		f.SetCellValue(SheetName, cell("B", row), l.Description)
		f.SetCellValue(SheetName, cell("C", row), number(l.Hours))
		f.SetCellValue(SheetName, cell("D", row), number(l.Amount))
		row++
	}
	for _, l := range r.MainTasks {
		writeLine(l)
	}
	if len(r.OtherTasks) > 0 {
		writeLine(r.OtherSummary)
	}
	writeLine(TaskLine{Title: "合計", Hours: r.TotalHours, Amount: r.TotalAmount})

	// Time figures
	row++
	figures := []struct {
		label string
		value decimal.Decimal
	}{
		{"主要案件合計(H)", r.MainTotalHours},
		{"その他案件合計(H)", r.OtherTotalHours},
		{"総時間(H)", r.TotalHours},
		{"所定時間(H)", r.ExpectedHours},
		{"差異(H)", r.TimeDiff},
		{"残業A(H)", r.OvertimeA},
		{"残業B(H)", r.OvertimeB},
		{"休日出勤(H)", r.HolidayWork},
		{"有給(H)", r.PaidLeave},
		{"遅刻・早退(H)", r.LateEarly},
	}
	for _, fig := range figures {
		f.SetCellValue(SheetName, cell("A", row), fig.label)
		f.SetCellValue(SheetName, cell("C", row), number(fig.value))
		row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// number converts a 2dp decimal for a numeric cell
func number(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
