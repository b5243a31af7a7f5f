// Package attendance holds the normalized records produced from a badge
// report and the weekly/monthly reductions over them.
package attendance

import (
	"strings"
	"time"

	"github.com/pontaj/internal/timeofday"
)

// NoBadge is the placeholder used when an employee line carries no badge id
const NoBadge = "N/A"

// ReportHeader is the declared coverage of one report. Start and End are nil
// when the range line could not be read.
type ReportHeader struct {
	DateRangeText string     `json:"date_range"`
	Start         *time.Time `json:"start_date,omitempty"`
	End           *time.Time `json:"end_date,omitempty"`
}

// HasRange reports whether both ends of the declared range are known
func (h ReportHeader) HasRange() bool {
	return h.Start != nil && h.End != nil
}

// DailyRecord is one employee on one calendar day
type DailyRecord struct {
	Employee      string           `json:"employee"`
	BadgeID       string           `json:"badge_id"`
	Department    string           `json:"department,omitempty"`
	Weekday       string           `json:"weekday"`
	DateLabel     string           `json:"date_label"`
	Date          *time.Time       `json:"date,omitempty"`
	Entry         *timeofday.Value `json:"entry_time,omitempty"`
	Exit          *timeofday.Value `json:"exit_time,omitempty"`
	WorkedHours   float64          `json:"worked_hours"`
	StandardHours float64          `json:"standard_hours"`
	Difference    float64          `json:"difference"`
	Absence       bool             `json:"absence"`
}

// Key identifies a record in the history store
type Key struct {
	Employee  string
	DateLabel string
}

func (r DailyRecord) Key() Key {
	return Key{Employee: r.Employee, DateLabel: r.DateLabel}
}

// MonthToken returns the month a record belongs to. The resolved date wins;
// otherwise the month is the second whitespace-separated word of the label
// ("24 March" -> "March"). Year is 0 when only the label is known.
func (r DailyRecord) MonthToken() (month string, year int) {
	if r.Date != nil {
		return r.Date.Month().String(), r.Date.Year()
	}
	fields := strings.Fields(r.DateLabel)
	if len(fields) < 2 {
		return "", 0
	}
	return fields[1], 0
}

type WeeklySummary struct {
	Employee           string  `json:"employee"`
	Department         string  `json:"department,omitempty"`
	TotalWorkedHours   float64 `json:"total_worked_hours"`
	TotalStandardHours float64 `json:"total_standard_hours"`
	Difference         float64 `json:"difference"`
	DaysPresent        int     `json:"days_present"`
	DaysAbsent         int     `json:"days_absent"`
}

type MonthlySummary struct {
	Employee           string  `json:"employee"`
	Department         string  `json:"department,omitempty"`
	Month              string  `json:"month"`
	Year               int     `json:"year,omitempty"`
	TotalWorkedHours   float64 `json:"total_worked_hours"`
	TotalStandardHours float64 `json:"total_standard_hours"`
	Difference         float64 `json:"difference"`
}

// Warning is a data-quality note about one line of the report. Line is
// 1-based; 0 means the note concerns the report as a whole.
type Warning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Result is everything derived from one report
type Result struct {
	Header   ReportHeader     `json:"header"`
	Daily    []DailyRecord    `json:"daily"`
	Weekly   []WeeklySummary  `json:"weekly"`
	Monthly  []MonthlySummary `json:"monthly"`
	Warnings []Warning        `json:"warnings,omitempty"`
}

// Empty reports whether no attendance could be extracted
func (r *Result) Empty() bool {
	return r == nil || len(r.Daily) == 0
}
