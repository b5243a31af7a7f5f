// Package render draws attendance tables for the terminal.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pontaj/internal/attendance"
	"github.com/pontaj/internal/export"
	"github.com/pontaj/internal/storage"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4472C4")).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	positiveStyle = cellStyle.Copy().Foreground(lipgloss.Color("#2E8B57"))
	negativeStyle = cellStyle.Copy().Foreground(lipgloss.Color("#C0392B"))
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginTop(1)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#D68910"))
)

// Table renders a sheet; the columns named in signed get a color by sign
func Table(sheet export.Sheet, signed ...string) string {
	signedCols := make(map[int]bool)
	for i, h := range sheet.Headers {
		for _, name := range signed {
			if h == name {
				signedCols[i] = true
			}
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(sheet.Headers...).
		Rows(sheet.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if !signedCols[col] || row-1 >= len(sheet.Rows) || col >= len(sheet.Rows[row-1]) {
				return cellStyle
			}
			v, err := strconv.ParseFloat(sheet.Rows[row-1][col], 64)
			switch {
			case err != nil:
				return cellStyle
			case v < 0:
				return negativeStyle
			default:
				return positiveStyle
			}
		})

	return t.Render()
}

// HolidayNamer names the legal holiday falling on a date
type HolidayNamer interface {
	HolidayName(date time.Time) (string, bool)
}

// Daily renders the day table. With holidays set, a Holiday column names the
// holiday of each dated row.
func Daily(records []attendance.DailyRecord, holidays HolidayNamer) string {
	sheet := export.DailySheet(records)
	if holidays != nil {
		sheet.Headers = append(sheet.Headers, "Holiday")
		for i, r := range records {
			var name string
			if r.Date != nil {
				name, _ = holidays.HolidayName(*r.Date)
			}
			sheet.Rows[i] = append(sheet.Rows[i], name)
		}
	}
	return Table(sheet, "Difference")
}

func Weekly(summaries []attendance.WeeklySummary) string {
	return Table(export.WeeklySheet(summaries), "Difference")
}

func Monthly(summaries []attendance.MonthlySummary) string {
	return Table(export.MonthlySheet(summaries), "Difference")
}

func Imports(imports []storage.ImportRecord) string {
	sheet := export.Sheet{Headers: []string{"ID", "File", "Range", "Records", "Imported"}}
	for _, imp := range imports {
		sheet.Rows = append(sheet.Rows, []string{
			shortID(imp.ID), imp.FileName, imp.DateRange, strconv.Itoa(imp.RecordCount),
			imp.ImportedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return Table(sheet)
}

func Title(s string) string {
	return titleStyle.Render(s)
}

// Warnings lists data-quality notes, one per line
func Warnings(warnings []attendance.Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(warnStyle.Render(fmt.Sprintf("%d warning(s):", len(warnings))))
	b.WriteString("\n")
	for _, w := range warnings {
		if w.Line > 0 {
			fmt.Fprintf(&b, "  line %d: %s\n", w.Line, w.Message)
		} else {
			fmt.Fprintf(&b, "  %s\n", w.Message)
		}
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
