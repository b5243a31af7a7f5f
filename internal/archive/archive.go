package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pontaj/internal/attendance"
	"github.com/pontaj/internal/calendar"
)

var (
	ErrNoRecords       = errors.New("no records for month")
	ErrArchiveNotFound = errors.New("archive not found")
)

// RecordStore is the part of the database the archiver needs
type RecordStore interface {
	GetRecordsInRange(ctx context.Context, start, end time.Time) ([]attendance.DailyRecord, error)
	DeleteRecordsInRange(ctx context.Context, start, end time.Time) (int64, error)
	GetOldestRecordDate(ctx context.Context) (*time.Time, error)
}

// Archiver handles monthly archival of the attendance history to markdown
type Archiver struct {
	store       RecordStore
	cal         *calendar.Calendar
	historyPath string
	now         func() time.Time
}

func New(store RecordStore, cal *calendar.Calendar, historyPath string) *Archiver {
	return &Archiver{
		store:       store,
		cal:         cal,
		historyPath: historyPath,
		now:         time.Now,
	}
}

// MonthSummary contains archived month data
type MonthSummary struct {
	Month            time.Time
	WorkingDays      int
	CalendarStandard float64
	Holidays         []calendar.Holiday
	Employees        []EmployeeMonth
	WeekBreakdown    map[int]float64
	Records          []attendance.DailyRecord
}

// EmployeeMonth is one employee's totals for the month
type EmployeeMonth struct {
	Employee    string
	Department  string
	Worked      float64
	Standard    float64
	Difference  float64
	DaysPresent int
	DaysAbsent  int
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func fileName(year int, month time.Month) string {
	return fmt.Sprintf("%d-%02d.md", year, month)
}

// ArchiveMonth writes a month's records to markdown and optionally removes
// them from the database.
func (a *Archiver) ArchiveMonth(ctx context.Context, year int, month time.Month, cleanDB bool) error {
	monthStart, monthEnd := monthBounds(year, month)

	records, err := a.store.GetRecordsInRange(ctx, monthStart, monthEnd)
	if err != nil {
		return fmt.Errorf("failed to get records: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: %s %d", ErrNoRecords, month, year)
	}

	summary := a.buildSummary(monthStart, records)
	markdown := a.generateMarkdown(summary)

	if err := os.MkdirAll(a.historyPath, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	filePath := filepath.Join(a.historyPath, fileName(year, month))
	if err := os.WriteFile(filePath, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	if cleanDB {
		if _, err := a.store.DeleteRecordsInRange(ctx, monthStart, monthEnd); err != nil {
			return fmt.Errorf("failed to clean database: %w", err)
		}
	}

	return nil
}

func (a *Archiver) buildSummary(monthStart time.Time, records []attendance.DailyRecord) *MonthSummary {
	_, monthEnd := monthBounds(monthStart.Year(), monthStart.Month())
	summary := &MonthSummary{
		Month:            monthStart,
		WorkingDays:      a.cal.WorkingDayCount(monthStart.Year(), monthStart.Month()),
		CalendarStandard: a.cal.StandardHoursForRange(monthStart, monthEnd),
		Holidays:         a.holidaysIn(monthStart),
		WeekBreakdown:    make(map[int]float64),
		Records:          records,
	}

	weeks := make(map[int]decimal.Decimal)
	for _, r := range records {
		if r.Date == nil {
			continue
		}
		_, week := r.Date.ISOWeek()
		weeks[week] = weeks[week].Add(decimal.NewFromFloat(r.WorkedHours))
	}
	for week, total := range weeks {
		summary.WeekBreakdown[week] = total.InexactFloat64()
	}

	for _, w := range attendance.Weekly(records) {
		summary.Employees = append(summary.Employees, EmployeeMonth{
			Employee:    w.Employee,
			Department:  w.Department,
			Worked:      w.TotalWorkedHours,
			Standard:    w.TotalStandardHours,
			Difference:  w.Difference,
			DaysPresent: w.DaysPresent,
			DaysAbsent:  w.DaysAbsent,
		})
	}

	return summary
}

func (a *Archiver) holidaysIn(monthStart time.Time) []calendar.Holiday {
	var out []calendar.Holiday
	for _, h := range a.cal.Holidays(monthStart.Year()) {
		if h.Date.Month() == monthStart.Month() {
			out = append(out, h)
		}
	}
	return out
}

func (a *Archiver) generateMarkdown(summary *MonthSummary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", summary.Month.Format("January 2006")))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Employees | %d |\n", len(summary.Employees)))
	sb.WriteString(fmt.Sprintf("| Working Days | %d |\n", summary.WorkingDays))
	sb.WriteString(fmt.Sprintf("| Standard Hours | %.2f |\n", summary.CalendarStandard))
	sb.WriteString(fmt.Sprintf("| Records | %d |\n", len(summary.Records)))
	sb.WriteString("\n")

	if len(summary.Holidays) > 0 {
		sb.WriteString("## Holidays\n\n")
		for _, h := range summary.Holidays {
			sb.WriteString(fmt.Sprintf("- %s %s\n", h.Date.Format("2006-01-02"), h.Name))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Employees\n\n")
	sb.WriteString("| Employee | Department | Worked | Standard | Difference | vs Month | Present | Absent |\n")
	sb.WriteString("|----------|------------|--------|----------|------------|----------|---------|--------|\n")
	for _, e := range summary.Employees {
		vsMonth := decimal.NewFromFloat(e.Worked).Sub(decimal.NewFromFloat(summary.CalendarStandard)).InexactFloat64()
		sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %.2f | %+.2f | %+.2f | %d | %d |\n",
			e.Employee, e.Department, e.Worked, e.Standard, e.Difference, vsMonth, e.DaysPresent, e.DaysAbsent))
	}
	sb.WriteString("\n")

	sb.WriteString("## Weekly Breakdown\n\n")
	sb.WriteString("| Week | Hours |\n")
	sb.WriteString("|------|-------|\n")

	weeks := make([]int, 0, len(summary.WeekBreakdown))
	for w := range summary.WeekBreakdown {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	for _, w := range weeks {
		sb.WriteString(fmt.Sprintf("| W%d | %.2f |\n", w, summary.WeekBreakdown[w]))
	}
	sb.WriteString("\n")

	sb.WriteString("## Records\n\n")
	sb.WriteString("| Employee | Date | Day | Entry | Exit | Worked | Standard | Difference |\n")
	sb.WriteString("|----------|------|-----|-------|------|--------|----------|------------|\n")

	for _, r := range summary.Records {
		entry, exit := "-", "-"
		if r.Entry != nil {
			entry = r.Entry.String()
		}
		if r.Exit != nil {
			exit = r.Exit.String()
		}
		date := r.DateLabel
		if r.Date != nil {
			date = r.Date.Format("2006-01-02")
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %.2f | %.2f | %+.2f |\n",
			r.Employee, date, r.Weekday, entry, exit, r.WorkedHours, r.StandardHours, r.Difference))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("---\n*Archived: %s*\n", a.now().Format("2006-01-02 15:04")))

	return sb.String()
}

// AutoArchivePastMonths archives every complete month before the current one
func (a *Archiver) AutoArchivePastMonths(ctx context.Context) ([]string, error) {
	now := a.now()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	oldestDate, err := a.store.GetOldestRecordDate(ctx)
	if err != nil {
		return nil, err
	}
	if oldestDate == nil {
		return nil, nil
	}

	var archived []string
	monthStart := time.Date(oldestDate.Year(), oldestDate.Month(), 1, 0, 0, 0, 0, time.UTC)

	for ; monthStart.Before(currentMonth); monthStart = monthStart.AddDate(0, 1, 0) {
		filename := fileName(monthStart.Year(), monthStart.Month())

		if _, err := os.Stat(filepath.Join(a.historyPath, filename)); err == nil {
			continue
		}

		err := a.ArchiveMonth(ctx, monthStart.Year(), monthStart.Month(), true)
		if errors.Is(err, ErrNoRecords) {
			continue
		}
		if err != nil {
			return archived, err
		}

		archived = append(archived, filename)
	}

	return archived, nil
}

// ListArchives returns the archived month files in name order
func (a *Archiver) ListArchives() ([]string, error) {
	entries, err := os.ReadDir(a.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var archives []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			archives = append(archives, e.Name())
		}
	}

	sort.Strings(archives)
	return archives, nil
}

// ReadArchive reads a specific month's archive
func (a *Archiver) ReadArchive(year int, month time.Month) (string, error) {
	filename := fileName(year, month)
	data, err := os.ReadFile(filepath.Join(a.historyPath, filename))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrArchiveNotFound, filename)
	}
	return string(data), nil
}

// Summary condenses the summary and employee tables of the last monthsBack
// archives.
func (a *Archiver) Summary(monthsBack int) (string, error) {
	archives, err := a.ListArchives()
	if err != nil {
		return "", err
	}
	if len(archives) == 0 {
		return "", nil
	}

	start := max(len(archives)-monthsBack, 0)

	var sb strings.Builder
	for _, archive := range archives[start:] {
		content, err := os.ReadFile(filepath.Join(a.historyPath, archive))
		if err != nil {
			continue
		}

		section := ""
		for _, line := range strings.Split(string(content), "\n") {
			switch {
			case strings.HasPrefix(line, "# "):
				sb.WriteString(fmt.Sprintf("\n%s:\n", strings.TrimPrefix(line, "# ")))
				continue
			case strings.HasPrefix(line, "## "):
				section = strings.TrimPrefix(line, "## ")
				continue
			}
			if section != "Summary" && section != "Employees" {
				continue
			}
			if strings.HasPrefix(line, "| ") && !strings.HasPrefix(line, "| Metric") && !strings.HasPrefix(line, "| Employee") {
				sb.WriteString(fmt.Sprintf("  %s\n", line))
			}
		}
	}

	return sb.String(), nil
}
