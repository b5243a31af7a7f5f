// Package parser turns the line-oriented badge report into daily attendance
// records. Each Parse call owns its state; concurrent calls share nothing.
package parser

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pontaj/internal/attendance"
	"github.com/pontaj/internal/calendar"
)

// OvernightPolicy decides what happens when exit is earlier than entry
type OvernightPolicy string

const (
	// OvernightClamp records zero worked hours and a warning
	OvernightClamp OvernightPolicy = "clamp"
	// OvernightWrap treats the exit as the next day and adds 24 hours
	OvernightWrap OvernightPolicy = "wrap"
)

// HolidayPolicy decides the standard hours of a record dated on a holiday
type HolidayPolicy string

const (
	HolidayZero    HolidayPolicy = "zero"
	HolidayWeekday HolidayPolicy = "weekday"
)

func ParseOvernightPolicy(s string) (OvernightPolicy, error) {
	switch p := OvernightPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case OvernightClamp, OvernightWrap:
		return p, nil
	case "":
		return OvernightClamp, nil
	}
	return "", fmt.Errorf("unknown overnight policy %q (use clamp or wrap)", s)
}

func ParseHolidayPolicy(s string) (HolidayPolicy, error) {
	switch p := HolidayPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case HolidayZero, HolidayWeekday:
		return p, nil
	case "":
		return HolidayZero, nil
	}
	return "", fmt.Errorf("unknown holiday policy %q (use zero or weekday)", s)
}

type Options struct {
	Calendar     *calendar.Calendar
	Overnight    OvernightPolicy
	HolidayHours HolidayPolicy
	Logger       *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Calendar == nil {
		o.Calendar = calendar.Romania()
	}
	if o.Overnight == "" {
		o.Overnight = OvernightClamp
	}
	if o.HolidayHours == "" {
		o.HolidayHours = HolidayZero
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Extraction is the raw outcome of one parse, before aggregation
type Extraction struct {
	Header   attendance.ReportHeader
	Daily    []attendance.DailyRecord
	Warnings []attendance.Warning
}

// Parse extracts daily records from report text. It never fails: lines it
// cannot use are skipped and data problems come back as warnings. A report
// without any employee header yields no records.
func Parse(text string, opts Options) Extraction {
	opts = opts.withDefaults()
	lines := SplitLines(text)
	header := ParseHeader(lines)

	x := newExtractor(header, opts)
	for i, raw := range lines {
		x.consume(i+1, Classify(raw))
	}
	x.finish()

	if header.HasRange() {
		x.backfill()
	}
	x.sort()

	opts.Logger.Debug("report parsed",
		zap.String("range", header.DateRangeText),
		zap.Int("lines", len(lines)),
		zap.Int("records", len(x.records)),
		zap.Int("warnings", len(x.warnings)),
	)

	return Extraction{Header: header, Daily: x.records, Warnings: x.warnings}
}

// SplitLines normalizes line endings and drops a leading byte order mark and
// surrounding blank space, so the range line is always at index 1.
func SplitLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
