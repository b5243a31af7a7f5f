package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pontaj/internal/attendance"
)

var rangePattern = regexp.MustCompile(`from\s+(\d+\s+\w+\s+\d+)\s+to\s+(\d+\s+\w+\s+\d+)`)

const (
	headerDateLayout = "2 January 2006"
	dateLabelLayout  = "2 January"
	noRange          = "N/A"
)

// ParseHeader reads the declared range of a report. The range normally sits
// on the second line; when it does not, the lines before the first employee
// header are searched.
func ParseHeader(lines []string) attendance.ReportHeader {
	if len(lines) > 1 {
		if h, ok := headerFromLine(lines[1]); ok {
			return h
		}
	}
	for _, line := range lines {
		if Classify(line).Kind == KindEmployee {
			break
		}
		if h, ok := headerFromLine(line); ok {
			return h
		}
	}
	return attendance.ReportHeader{DateRangeText: noRange}
}

func headerFromLine(line string) (attendance.ReportHeader, bool) {
	m := rangePattern.FindStringSubmatch(line)
	if m == nil {
		return attendance.ReportHeader{}, false
	}
	h := attendance.ReportHeader{
		DateRangeText: fmt.Sprintf("%s - %s", m[1], m[2]),
	}
	start, errStart := parseHeaderDate(m[1])
	end, errEnd := parseHeaderDate(m[2])
	if errStart == nil && errEnd == nil {
		h.Start = &start
		h.End = &end
	}
	return h, true
}

func parseHeaderDate(s string) (time.Time, error) {
	return time.Parse(headerDateLayout, strings.Join(strings.Fields(s), " "))
}

// ResolveDate turns a "24 March" label into a calendar date using the years
// of the declared range. Of the candidate years around the range, the one
// whose date lies inside it, or nearest to it, wins; this covers reports
// spanning New Year and columns just past either end.
func ResolveDate(label string, header attendance.ReportHeader) (time.Time, bool) {
	if !header.HasRange() {
		return time.Time{}, false
	}
	day, ok := parseDateLabel(label)
	if !ok {
		return time.Time{}, false
	}

	start, end := *header.Start, *header.End
	var best time.Time
	bestDist := time.Duration(-1)
	for year := start.Year() - 1; year <= end.Year()+1; year++ {
		d := time.Date(year, day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		if d.Day() != day.Day() {
			continue
		}
		dist := distanceToRange(d, start, end)
		if bestDist < 0 || dist < bestDist {
			best, bestDist = d, dist
		}
	}
	if bestDist < 0 {
		return time.Time{}, false
	}
	return best, true
}

func distanceToRange(d, start, end time.Time) time.Duration {
	switch {
	case d.Before(start):
		return start.Sub(d)
	case d.After(end):
		return d.Sub(end)
	default:
		return 0
	}
}

// parseDateLabel accepts full or abbreviated English month names
func parseDateLabel(label string) (time.Time, bool) {
	normalized := strings.Join(strings.Fields(label), " ")
	for _, layout := range []string{dateLabelLayout, "2 Jan"} {
		if d, err := time.Parse(layout, normalized); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
