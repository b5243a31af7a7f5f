package parser

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pontaj/internal/attendance"
	"github.com/pontaj/internal/timeofday"
	"github.com/pontaj/internal/work"
)

const isoDate = "2006-01-02"

// backfill adds an absence for every employee of the report on every working
// day of the declared range that has no record yet.
func (x *extractor) backfill() {
	days := x.opts.Calendar.WorkingDays(*x.header.Start, *x.header.End)
	for _, emp := range x.employees {
		for _, d := range days {
			key := dayKey{employee: emp.employee, day: d.Format(isoDate)}
			if _, ok := x.index[key]; ok {
				continue
			}
			date := d
			standard := x.standardHours(d.Weekday(), &date)
			x.index[key] = len(x.records)
			x.records = append(x.records, attendance.DailyRecord{
				Employee:      emp.employee,
				BadgeID:       emp.badge,
				Department:    emp.department,
				Weekday:       work.WeekdayLabel(d.Weekday()),
				DateLabel:     d.Format(dateLabelLayout),
				Date:          &date,
				StandardHours: standard,
				Difference:    timeofday.RoundHours(decimal.NewFromFloat(-standard)),
				Absence:       true,
			})
		}
	}
}

// sort orders records by employee, then by date. Records without a resolved
// date follow the dated ones in report order.
func (x *extractor) sort() {
	sort.SliceStable(x.records, func(i, j int) bool {
		a, b := x.records[i], x.records[j]
		if a.Employee != b.Employee {
			return a.Employee < b.Employee
		}
		switch {
		case a.Date != nil && b.Date != nil:
			return a.Date.Before(*b.Date)
		case a.Date != nil:
			return true
		default:
			return false
		}
	})
}
