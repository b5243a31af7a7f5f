package parser

import (
	"encoding/csv"
	"regexp"
	"strings"

	"github.com/pontaj/internal/attendance"
)

// LineKind is what the classifier decided a report line is
type LineKind int

const (
	KindSkip LineKind = iota
	KindEmployee
	KindWeekdays
	KindDates
	KindTimes
)

func (k LineKind) String() string {
	switch k {
	case KindEmployee:
		return "employee"
	case KindWeekdays:
		return "weekdays"
	case KindDates:
		return "dates"
	case KindTimes:
		return "times"
	default:
		return "skip"
	}
}

// weekdayHeader is the literal prefix of the column header row
const weekdayHeader = "Mon,Tue,Wed,Thu,Fri,Sat,Sun"

// minDateCells is the shortest row accepted as a dates row
const minDateCells = 5

var (
	// name words followed by the numeric employee id: "Ion Popescu 1024"
	employeePattern = regexp.MustCompile(`^\pL[\pL'.-]*(\s+\pL[\pL'.-]*)+\s+\d+$`)
	badgePattern    = regexp.MustCompile(`(\d{3}[A-Z0-9]+)$`)
	dateCellPattern = regexp.MustCompile(`^\d{1,2}\s+\pL+$`)
	timeCellPattern = regexp.MustCompile(`^\d{1,2}:\d{2}\s*-\s*\d{1,2}:\d{2}$`)
)

// Line is one classified report line. Cells are trimmed. Employee fields are
// only set for KindEmployee.
type Line struct {
	Kind       LineKind
	Cells      []string
	Employee   string
	Department string
	BadgeID    string
}

// SplitCells splits a line on commas, honoring double quotes the way a
// spreadsheet CSV export writes them. Cells are trimmed.
func SplitCells(line string) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	cells, err := r.Read()
	if err != nil {
		cells = strings.Split(line, ",")
	}
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// Classify decides the kind of one raw line. Priority is fixed: employee
// header, weekday header, dates row, times row; anything else is skipped.
func Classify(raw string) Line {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Line{Kind: KindSkip}
	}
	cells := SplitCells(trimmed)

	if line, ok := classifyEmployee(trimmed, cells); ok {
		return line
	}
	if strings.HasPrefix(trimmed, weekdayHeader) {
		return Line{Kind: KindWeekdays, Cells: cells}
	}
	if isDateRow(cells) {
		return Line{Kind: KindDates, Cells: cells}
	}
	if isTimeRow(cells) {
		return Line{Kind: KindTimes, Cells: cells}
	}
	return Line{Kind: KindSkip, Cells: cells}
}

// classifyEmployee looks for ",<name words> <digits>,<department>" : the name
// cell is never the first cell and is always followed by a department cell,
// which may be empty.
func classifyEmployee(trimmed string, cells []string) (Line, bool) {
	if len(cells) < 2 {
		return Line{}, false
	}
	for i := 1; i < len(cells)-1; i++ {
		if !employeePattern.MatchString(cells[i]) {
			continue
		}
		badge := attendance.NoBadge
		// workbook rows come padded to the widest row
		if m := badgePattern.FindStringSubmatch(strings.TrimRight(trimmed, ", \t")); m != nil {
			badge = m[1]
		}
		return Line{
			Kind:       KindEmployee,
			Cells:      cells,
			Employee:   cells[i],
			Department: cells[i+1],
			BadgeID:    badge,
		}, true
	}
	return Line{}, false
}

func isDateRow(cells []string) bool {
	if len(cells) < minDateCells {
		return false
	}
	dates := 0
	for _, c := range cells {
		if c == "" {
			continue
		}
		if !dateCellPattern.MatchString(c) {
			return false
		}
		dates++
	}
	return dates > 0
}

func isTimeRow(cells []string) bool {
	for _, c := range cells {
		if timeCellPattern.MatchString(c) {
			return true
		}
	}
	return false
}
