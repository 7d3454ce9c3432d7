package calendar

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/username/attendance-report/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	// DefaultAPIURL serves {"YYYY-MM-DD": "name"} per year
	DefaultAPIURL      = "https://holidays-jp.github.io/api/v1/{year}/date.json"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
)

// APICalendar implements HolidayCalendar using a JSON holiday API
type APICalendar struct {
	urlTemplate string
	httpClient  *http.Client
	logger      *zap.Logger
	cache       map[int]*cachedYear
	cacheMu     sync.RWMutex
	cacheTTL    time.Duration
}

type cachedYear struct {
	data      yearTable
	fetchedAt time.Time
}

// NewAPICalendar creates a new APICalendar. urlTemplate must contain {year}.
func NewAPICalendar(urlTemplate string, cacheTTL time.Duration, logger *zap.Logger) *APICalendar {
	if urlTemplate == "" {
		urlTemplate = DefaultAPIURL
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &APICalendar{
		urlTemplate: urlTemplate,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:   logger,
		cache:    make(map[int]*cachedYear),
		cacheTTL: cacheTTL,
	}
}

// IsHoliday checks if the given date is a public holiday
func (c *APICalendar) IsHoliday(date time.Time) (bool, string, error) {
	table, err := c.table(date.Year())
	if err != nil {
		return false, "", err
	}
	ok, name := table.lookup(date)
	return ok, name, nil
}

// HolidaysInYear returns every public holiday of the year
func (c *APICalendar) HolidaysInYear(year int) ([]Holiday, error) {
	table, err := c.table(year)
	if err != nil {
		return nil, err
	}
	return table.holidays(), nil
}

func (c *APICalendar) table(year int) (yearTable, error) {
	c.cacheMu.RLock()
	if cached, ok := c.cache[year]; ok {
		if time.Since(cached.fetchedAt) < c.cacheTTL {
			c.cacheMu.RUnlock()
			c.logger.Debug("Using cached holidays", zap.Int("year", year))
			return cached.data, nil
		}
	}
	c.cacheMu.RUnlock()

	table, err := c.fetchYear(year)
	if err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	c.cache[year] = &cachedYear{
		data:      table,
		fetchedAt: time.Now(),
	}
	c.cacheMu.Unlock()

	return table, nil
}

// fetchYear downloads one year of holidays
func (c *APICalendar) fetchYear(year int) (yearTable, error) {
	url := strings.ReplaceAll(c.urlTemplate, "{year}", strconv.Itoa(year))

	c.logger.Debug("Fetching holidays",
		zap.String("url", url),
		zap.Int("year", year))

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday API returned status %d", resp.StatusCode)
	}

	var raw map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse holiday API response: %w", err)
	}

	table, err := c.parseYear(year, raw)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Holidays fetched from API",
		zap.Int("year", year),
		zap.Int("holidays", len(table)))

	return table, nil
}

// parseYear keeps the entries that belong to the requested year.
// Some endpoints return several years at once.
func (c *APICalendar) parseYear(year int, raw map[string]string) (yearTable, error) {
	table := make(yearTable)
	for key, name := range raw {
		date, err := dateutil.ParseISODate(key)
		if err != nil {
			c.logger.Warn("Skipping malformed holiday date",
				zap.String("date", key),
				zap.Error(err))
			continue
		}
		if date.Year() != year {
			continue
		}
		table[key] = name
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("holiday API returned no holidays for %d", year)
	}
	return table, nil
}

// ClearCache clears the cache
func (c *APICalendar) ClearCache() {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.cache = make(map[int]*cachedYear)
	c.logger.Info("Holiday cache cleared")
}
