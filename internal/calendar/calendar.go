// Package calendar answers working-day questions over a set of per-year
// legal-holiday tables. Everything here is pure except LoadHolidayFile.
package calendar

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pontaj/internal/work"
)

const isoDate = "2006-01-02"

// HolidayTable lists the legal holidays of one year, keyed by ISO date.
type HolidayTable struct {
	Year int               `yaml:"year"`
	Days map[string]string `yaml:"days"`
}

// Holiday is one entry of a table, resolved to a date
type Holiday struct {
	Date time.Time
	Name string
}

type Calendar struct {
	days map[string]string
}

// New builds a calendar from holiday tables. Invalid tables are rejected.
func New(tables ...HolidayTable) (*Calendar, error) {
	c := &Calendar{days: make(map[string]string)}
	if err := c.Add(tables...); err != nil {
		return nil, err
	}
	return c, nil
}

// Romania returns a calendar loaded with the built-in Romanian tables
func Romania() *Calendar {
	c, err := New(RomanianHolidays()...)
	if err != nil {
		panic(fmt.Sprintf("calendar: built-in tables are invalid: %v", err))
	}
	return c
}

// Add merges more tables into the calendar. A later table wins on the holiday
// name when two tables list the same date.
func (c *Calendar) Add(tables ...HolidayTable) error {
	for _, table := range tables {
		for iso, name := range table.Days {
			d, err := time.Parse(isoDate, iso)
			if err != nil {
				return fmt.Errorf("invalid holiday date %q: %w", iso, err)
			}
			if table.Year != 0 && d.Year() != table.Year {
				return fmt.Errorf("holiday %s does not belong to table year %d", iso, table.Year)
			}
			c.days[iso] = name
		}
	}
	return nil
}

// LoadHolidayFile reads extra holiday tables from a YAML file
func LoadHolidayFile(path string) ([]HolidayTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holiday file: %w", err)
	}

	var tables []HolidayTable
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("failed to parse holiday file %s: %w", path, err)
	}
	return tables, nil
}

// IsHoliday is an exact date match against the tables
func (c *Calendar) IsHoliday(date time.Time) bool {
	_, ok := c.days[date.Format(isoDate)]
	return ok
}

// HolidayName returns the name of the holiday on date, if any
func (c *Calendar) HolidayName(date time.Time) (string, bool) {
	name, ok := c.days[date.Format(isoDate)]
	return name, ok
}

// IsWorkingDay returns true for Monday to Friday dates that are not holidays
func (c *Calendar) IsWorkingDay(date time.Time) bool {
	return work.IsWorkDay(date) && !c.IsHoliday(date)
}

// StandardHoursForWeekday ignores holidays; see StandardHoursForDate
func (c *Calendar) StandardHoursForWeekday(day time.Weekday) float64 {
	return work.StandardHoursForWeekday(day)
}

// StandardHoursForDate is the weekday standard, zeroed on holidays
func (c *Calendar) StandardHoursForDate(date time.Time) float64 {
	if c.IsHoliday(date) {
		return 0
	}
	return work.StandardHoursForWeekday(date.Weekday())
}

// WorkingDays lists the working days in [start, end], both inclusive
func (c *Calendar) WorkingDays(start, end time.Time) []time.Time {
	var days []time.Time
	for d := dateOnly(start); !d.After(dateOnly(end)); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// StandardHoursForRange sums the weekday standard over every working day in
// [start, end]. Reports cover a few weeks at most, so a linear walk is fine.
func (c *Calendar) StandardHoursForRange(start, end time.Time) float64 {
	total := 0.0
	for _, d := range c.WorkingDays(start, end) {
		total += work.StandardHoursForWeekday(d.Weekday())
	}
	return total
}

// WorkingDayCount counts the working days of a month
func (c *Calendar) WorkingDayCount(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return len(c.WorkingDays(first, last))
}

// Holidays returns the holidays of a year in date order
func (c *Calendar) Holidays(year int) []Holiday {
	var holidays []Holiday
	for iso, name := range c.days {
		d, err := time.Parse(isoDate, iso)
		if err != nil || d.Year() != year {
			continue
		}
		holidays = append(holidays, Holiday{Date: d, Name: name})
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
