package calendar

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/username/attendance-report/pkg/dateutil"
	"go.uber.org/zap"
)

// FileCalendar implements HolidayCalendar using a local text file
type FileCalendar struct {
	filePath string
	logger   *zap.Logger
	data     map[int]yearTable
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
		data:     make(map[int]yearTable),
	}
}

// Load loads holiday data from file
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Format: YYYY-MM-DD [name]
		// Example: 2025-01-01 元日
		parts := strings.SplitN(line, " ", 2)
		dateStr := parts[0]
		name := ""
		if len(parts) == 2 {
			name = strings.TrimSpace(parts[1])
		}

		date, err := dateutil.ParseISODate(dateStr)
		if err != nil {
			fc.logger.Warn("Failed to parse date", zap.String("date", dateStr), zap.Error(err))
			continue
		}

		table, ok := fc.data[date.Year()]
		if !ok {
			table = make(yearTable)
			fc.data[date.Year()] = table
		}
		table[dateStr] = name
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading calendar file: %w", err)
	}

	fc.logger.Info("Calendar file loaded",
		zap.String("file", fc.filePath),
		zap.Int("years", len(fc.data)))

	return nil
}

// IsHoliday checks if the given date is listed in the file
func (fc *FileCalendar) IsHoliday(date time.Time) (bool, string, error) {
	table, err := fc.table(date.Year())
	if err != nil {
		return false, "", err
	}
	ok, name := table.lookup(date)
	return ok, name, nil
}

// HolidaysInYear returns the listed holidays of the year
func (fc *FileCalendar) HolidaysInYear(year int) ([]Holiday, error) {
	table, err := fc.table(year)
	if err != nil {
		return nil, err
	}
	return table.holidays(), nil
}

// table fails for a year the file does not cover, so that a composite
// calendar can fall back instead of treating the year as holiday-free.
func (fc *FileCalendar) table(year int) (yearTable, error) {
	table, ok := fc.data[year]
	if !ok {
		return nil, fmt.Errorf("year not found in calendar file: %d", year)
	}
	return table, nil
}
