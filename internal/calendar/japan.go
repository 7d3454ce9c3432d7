package calendar

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

const (
	japanMinYear = 2000
	japanMaxYear = 2099
)

// JapaneseCalendar computes Japanese national holidays offline.
// Supported years are 2000 through 2099; the equinox approximation is
// only valid inside that range.
type JapaneseCalendar struct {
	mu    sync.Mutex
	years map[int]yearTable
}

// NewJapaneseCalendar creates a new JapaneseCalendar
func NewJapaneseCalendar() *JapaneseCalendar {
	return &JapaneseCalendar{
		years: make(map[int]yearTable),
	}
}

// IsHoliday checks if the given date is a national holiday
func (c *JapaneseCalendar) IsHoliday(date time.Time) (bool, string, error) {
	table, err := c.table(date.Year())
	if err != nil {
		return false, "", err
	}
	ok, name := table.lookup(date)
	return ok, name, nil
}

// HolidaysInYear returns every national holiday of the year
func (c *JapaneseCalendar) HolidaysInYear(year int) ([]Holiday, error) {
	table, err := c.table(year)
	if err != nil {
		return nil, err
	}
	return table.holidays(), nil
}

func (c *JapaneseCalendar) table(year int) (yearTable, error) {
	if year < japanMinYear || year > japanMaxYear {
		return nil, fmt.Errorf("year %d outside supported range %d-%d", year, japanMinYear, japanMaxYear)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if table, ok := c.years[year]; ok {
		return table, nil
	}
	table := japaneseHolidays(year)
	c.years[year] = table
	return table, nil
}

func japaneseHolidays(year int) yearTable {
	table := make(yearTable)
	add := func(month time.Month, day int, name string) {
		table[isoKey(year, month, day)] = name
	}

	add(time.January, 1, "元日")
	add(time.January, nthMonday(year, time.January, 2), "成人の日")
	add(time.February, 11, "建国記念の日")
	if year >= 2020 {
		add(time.February, 23, "天皇誕生日")
	}
	add(time.March, vernalEquinoxDay(year), "春分の日")
	if year >= 2007 {
		add(time.April, 29, "昭和の日")
		add(time.May, 4, "みどりの日")
	} else {
		add(time.April, 29, "みどりの日")
	}
	add(time.May, 3, "憲法記念日")
	add(time.May, 5, "こどもの日")

	switch {
	case year == 2020:
		add(time.July, 23, "海の日")
		add(time.July, 24, "スポーツの日")
		add(time.August, 10, "山の日")
	case year == 2021:
		add(time.July, 22, "海の日")
		add(time.July, 23, "スポーツの日")
		add(time.August, 8, "山の日")
	default:
		if year >= 2003 {
			add(time.July, nthMonday(year, time.July, 3), "海の日")
		} else {
			add(time.July, 20, "海の日")
		}
		if year >= 2016 {
			add(time.August, 11, "山の日")
		}
		sportsDay := "体育の日"
		if year >= 2020 {
			sportsDay = "スポーツの日"
		}
		add(time.October, nthMonday(year, time.October, 2), sportsDay)
	}

	if year >= 2003 {
		add(time.September, nthMonday(year, time.September, 3), "敬老の日")
	} else {
		add(time.September, 15, "敬老の日")
	}
	add(time.September, autumnalEquinoxDay(year), "秋分の日")
	add(time.November, 3, "文化の日")
	add(time.November, 23, "勤労感謝の日")
	if year <= 2018 {
		add(time.December, 23, "天皇誕生日")
	}
	if year == 2019 {
		add(time.May, 1, "即位の日")
		add(time.October, 22, "即位礼正殿の儀")
	}

	// A weekday sandwiched between two holidays is a holiday too.
	start := time.Date(year, time.January, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 30, 0, 0, 0, 0, time.UTC)
	var sandwiched []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			continue
		}
		if isHoliday, _ := table.lookup(d); isHoliday {
			continue
		}
		prev, _ := table.lookup(d.AddDate(0, 0, -1))
		next, _ := table.lookup(d.AddDate(0, 0, 1))
		if prev && next {
			sandwiched = append(sandwiched, d)
		}
	}
	for _, d := range sandwiched {
		add(d.Month(), d.Day(), "国民の休日")
	}

	// Substitute holidays for holidays falling on Sunday.
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	substitutes := make(map[string]bool)
	for _, key := range keys {
		d, _ := time.Parse("2006-01-02", key)
		if d.Weekday() != time.Sunday {
			continue
		}
		next := d.AddDate(0, 0, 1)
		if year >= 2007 {
			for {
				nextKey := next.Format("2006-01-02")
				if _, ok := table[nextKey]; !ok && !substitutes[nextKey] {
					break
				}
				next = next.AddDate(0, 0, 1)
			}
		} else if isHoliday, _ := table.lookup(next); isHoliday {
			continue
		}
		if next.Year() == year {
			substitutes[next.Format("2006-01-02")] = true
		}
	}
	for key := range substitutes {
		table[key] = "振替休日"
	}

	return table
}

func isoKey(year int, month time.Month, day int) string {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// nthMonday returns the day of month of the n-th Monday
func nthMonday(year int, month time.Month, n int) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Monday) - int(first.Weekday()) + 7) % 7
	return 1 + offset + 7*(n-1)
}

// vernalEquinoxDay approximates the March equinox, valid 1980-2099
func vernalEquinoxDay(year int) int {
	y := year - 1980
	return int(20.8431+0.242194*float64(y)) - y/4
}

// autumnalEquinoxDay approximates the September equinox, valid 1980-2099
func autumnalEquinoxDay(year int) int {
	y := year - 1980
	return int(23.2488+0.242194*float64(y)) - y/4
}
