package parser

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pontaj/internal/attendance"
	"github.com/pontaj/internal/timeofday"
	"github.com/pontaj/internal/work"
)

type state int

const (
	awaitingBlock state = iota
	inBlock
)

// block is the employee whose rows are currently being read
type block struct {
	employee   string
	badge      string
	department string
}

type dayKey struct {
	employee string
	day      string
}

// extractor is the working context of a single parse. Weekday and date
// labels belong to the report, not to a block: they are declared once and
// reused by every employee that follows, the last declaration winning.
type extractor struct {
	opts   Options
	header attendance.ReportHeader

	state    state
	current  block
	weekdays []string
	dates    []string // "" marks a column without a date

	pending     []string
	pendingLine int

	records   []attendance.DailyRecord
	index     map[dayKey]int
	employees []block
	known     map[string]bool
	warnings  []attendance.Warning
}

func newExtractor(header attendance.ReportHeader, opts Options) *extractor {
	return &extractor{
		opts:   opts,
		header: header,
		state:  awaitingBlock,
		index:  make(map[dayKey]int),
		known:  make(map[string]bool),
	}
}

func (x *extractor) warn(line int, format string, args ...any) {
	x.warnings = append(x.warnings, attendance.Warning{Line: line, Message: fmt.Sprintf(format, args...)})
}

func (x *extractor) consume(lineNo int, line Line) {
	switch line.Kind {
	case KindEmployee:
		x.flush()
		x.current = block{employee: line.Employee, badge: line.BadgeID, department: line.Department}
		x.state = inBlock
		if !x.known[line.Employee] {
			x.known[line.Employee] = true
			x.employees = append(x.employees, x.current)
		}
	case KindWeekdays:
		x.weekdays = line.Cells
	case KindDates:
		dates := make([]string, len(line.Cells))
		for i, c := range line.Cells {
			if dateCellPattern.MatchString(c) {
				dates[i] = c
			}
		}
		x.dates = dates
	case KindTimes:
		x.pending = line.Cells
		x.pendingLine = lineNo
		x.flush()
	}
}

// finish flushes whatever is left at end of input
func (x *extractor) finish() {
	x.flush()
}

// flush emits the pending time cells against the current block and labels
func (x *extractor) flush() {
	if x.pending == nil {
		return
	}
	cells, lineNo := x.pending, x.pendingLine
	x.pending, x.pendingLine = nil, 0

	if x.state != inBlock {
		x.warn(lineNo, "times row outside any employee block discarded")
		return
	}
	if x.weekdays == nil || x.dates == nil {
		x.warn(lineNo, "times row for %s before weekday and date headers discarded", x.current.employee)
		return
	}

	n := min(len(x.weekdays), len(x.dates), len(cells))
	if len(x.weekdays) != len(x.dates) || len(x.dates) != len(cells) {
		x.warn(lineNo, "column count mismatch for %s (weekdays=%d dates=%d times=%d), using %d",
			x.current.employee, len(x.weekdays), len(x.dates), len(cells), n)
	}

	for i := 0; i < n; i++ {
		label := x.dates[i]
		if label == "" {
			continue
		}
		x.emit(lineNo, x.record(lineNo, x.weekdays[i], label, cells[i]))
	}
}

// record builds one day. A blank or unreadable time cell under a date is an
// absence.
func (x *extractor) record(lineNo int, weekdayLabel, dateLabel, cell string) attendance.DailyRecord {
	r := attendance.DailyRecord{
		Employee:   x.current.employee,
		BadgeID:    x.current.badge,
		Department: x.current.department,
		DateLabel:  dateLabel,
	}
	if d, ok := ResolveDate(dateLabel, x.header); ok {
		r.Date = &d
	}

	day, ok := work.ParseWeekday(weekdayLabel)
	switch {
	case ok:
		r.Weekday = work.WeekdayLabel(day)
	case r.Date != nil:
		day, ok = r.Date.Weekday(), true
		r.Weekday = work.WeekdayLabel(day)
	default:
		r.Weekday = weekdayLabel
	}
	if ok {
		r.StandardHours = x.standardHours(day, r.Date)
	}

	entry, exit, parsed := timeofday.ParseRange(cell)
	if !parsed {
		r.Absence = true
		r.Difference = timeofday.RoundHours(decimal.NewFromFloat(-r.StandardHours))
		return r
	}

	r.Entry, r.Exit = &entry, &exit
	r.WorkedHours = x.workedHours(lineNo, r, &entry, &exit)
	r.Difference = timeofday.RoundHours(
		decimal.NewFromFloat(r.WorkedHours).Sub(decimal.NewFromFloat(r.StandardHours)))
	return r
}

// standardHours follows the weekday of the column. A resolved date only
// matters when it is a holiday under the zero policy.
func (x *extractor) standardHours(day time.Weekday, date *time.Time) float64 {
	if date != nil && x.opts.HolidayHours == HolidayZero && x.opts.Calendar.IsHoliday(*date) {
		return 0
	}
	return work.StandardHoursForWeekday(day)
}

func (x *extractor) workedHours(lineNo int, r attendance.DailyRecord, entry, exit *timeofday.Value) float64 {
	worked := timeofday.Duration(exit, entry)
	if worked >= 0 {
		return worked
	}
	if x.opts.Overnight == OvernightWrap {
		x.warn(lineNo, "%s on %s: exit %s before entry %s, counted as overnight shift",
			r.Employee, r.DateLabel, exit, entry)
		return timeofday.RoundHours(decimal.NewFromFloat(worked).Add(decimal.NewFromInt(24)))
	}
	x.warn(lineNo, "%s on %s: exit %s before entry %s, worked hours set to 0",
		r.Employee, r.DateLabel, exit, entry)
	return 0
}

func (x *extractor) keyOf(r attendance.DailyRecord) dayKey {
	if r.Date != nil {
		return dayKey{employee: r.Employee, day: r.Date.Format(isoDate)}
	}
	return dayKey{employee: r.Employee, day: r.DateLabel}
}

// emit appends a record unless the employee already has that day. A real
// record replaces an earlier absence; every other duplicate is dropped, with
// a warning when it carried times.
func (x *extractor) emit(lineNo int, r attendance.DailyRecord) {
	key := x.keyOf(r)
	i, exists := x.index[key]
	if !exists {
		x.index[key] = len(x.records)
		x.records = append(x.records, r)
		return
	}
	if x.records[i].Absence && !r.Absence {
		x.records[i] = r
		return
	}
	if !r.Absence {
		x.warn(lineNo, "duplicate day %s for %s dropped", r.DateLabel, r.Employee)
	}
}
