package attendance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type totals struct {
	department string
	worked     decimal.Decimal
	standard   decimal.Decimal
	present    int
	absent     int
}

func (t *totals) add(r DailyRecord) {
	if t.department == "" {
		t.department = r.Department
	}
	t.worked = t.worked.Add(decimal.NewFromFloat(r.WorkedHours))
	t.standard = t.standard.Add(decimal.NewFromFloat(r.StandardHours))
	if r.Absence {
		t.absent++
	} else {
		t.present++
	}
}

func (t *totals) hours() (worked, standard, difference float64) {
	return t.worked.InexactFloat64(), t.standard.InexactFloat64(), t.worked.Sub(t.standard).InexactFloat64()
}

// Weekly sums every record of an employee into one row. Sums are exact over
// the 2-decimal record values, so Difference equals worked minus standard.
func Weekly(daily []DailyRecord) []WeeklySummary {
	byEmployee := make(map[string]*totals)
	for _, r := range daily {
		t, ok := byEmployee[r.Employee]
		if !ok {
			t = &totals{}
			byEmployee[r.Employee] = t
		}
		t.add(r)
	}

	summaries := make([]WeeklySummary, 0, len(byEmployee))
	for employee, t := range byEmployee {
		worked, standard, diff := t.hours()
		summaries = append(summaries, WeeklySummary{
			Employee:           employee,
			Department:         t.department,
			TotalWorkedHours:   worked,
			TotalStandardHours: standard,
			Difference:         diff,
			DaysPresent:        t.present,
			DaysAbsent:         t.absent,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Employee < summaries[j].Employee
	})
	return summaries
}

type monthKey struct {
	employee string
	month    string
	year     int
}

// Monthly groups records by employee and month. Records without a month
// (empty label, no resolved date) are left out.
func Monthly(daily []DailyRecord) []MonthlySummary {
	byMonth := make(map[monthKey]*totals)
	for _, r := range daily {
		month, year := r.MonthToken()
		if month == "" {
			continue
		}
		key := monthKey{employee: r.Employee, month: month, year: year}
		t, ok := byMonth[key]
		if !ok {
			t = &totals{}
			byMonth[key] = t
		}
		t.add(r)
	}

	summaries := make([]MonthlySummary, 0, len(byMonth))
	for key, t := range byMonth {
		worked, standard, diff := t.hours()
		summaries = append(summaries, MonthlySummary{
			Employee:           key.employee,
			Department:         t.department,
			Month:              key.month,
			Year:               key.year,
			TotalWorkedHours:   worked,
			TotalStandardHours: standard,
			Difference:         diff,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.Employee != b.Employee {
			return a.Employee < b.Employee
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		ma, mb := monthNumber(a.Month), monthNumber(b.Month)
		if ma != mb {
			return ma < mb
		}
		return a.Month < b.Month
	})
	return summaries
}

// Summarize bundles the daily records with both reductions
func Summarize(header ReportHeader, daily []DailyRecord, warnings []Warning) *Result {
	return &Result{
		Header:   header,
		Daily:    daily,
		Weekly:   Weekly(daily),
		Monthly:  Monthly(daily),
		Warnings: warnings,
	}
}

// monthNumber orders month names; unknown tokens sort last
func monthNumber(name string) int {
	t, err := time.Parse("January", name)
	if err != nil {
		return 13
	}
	return int(t.Month())
}

// FilterEmployee keeps the records of one employee; an empty name keeps all
func FilterEmployee(daily []DailyRecord, employee string) []DailyRecord {
	if employee == "" {
		return daily
	}
	var filtered []DailyRecord
	for _, r := range daily {
		if r.Employee == employee {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Employees lists the distinct employees in name order
func Employees(daily []DailyRecord) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range daily {
		if !seen[r.Employee] {
			seen[r.Employee] = true
			names = append(names, r.Employee)
		}
	}
	sort.Strings(names)
	return names
}
