// Package export dumps attendance tables as CSV, Excel or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pontaj/internal/attendance"
	"github.com/pontaj/internal/timeofday"
)

type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
	FormatJSON  Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatExcel, FormatJSON:
		return f, nil
	case "excel":
		return FormatExcel, nil
	}
	return "", fmt.Errorf("unknown export format %q (use csv, xlsx or json)", s)
}

// Sheet is a flat table ready to be written in any format
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

func hours(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func clock(v *timeofday.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func DailySheet(records []attendance.DailyRecord) Sheet {
	s := Sheet{
		Name: "Daily",
		Headers: []string{"Employee", "Department", "Badge ID", "Day", "Date", "Entry Time", "Exit Time",
			"Worked Hours", "Standard Hours", "Difference", "Absence"},
	}
	for _, r := range records {
		date := r.DateLabel
		if r.Date != nil {
			date = r.Date.Format("2006-01-02")
		}
		s.Rows = append(s.Rows, []string{
			r.Employee, r.Department, r.BadgeID, r.Weekday, date, clock(r.Entry), clock(r.Exit),
			hours(r.WorkedHours), hours(r.StandardHours), hours(r.Difference), strconv.FormatBool(r.Absence),
		})
	}
	return s
}

func WeeklySheet(summaries []attendance.WeeklySummary) Sheet {
	s := Sheet{
		Name:    "Weekly",
		Headers: []string{"Employee", "Department", "Total Hours", "Standard Hours", "Difference", "Days Present", "Days Absent"},
	}
	for _, w := range summaries {
		s.Rows = append(s.Rows, []string{
			w.Employee, w.Department, hours(w.TotalWorkedHours), hours(w.TotalStandardHours), hours(w.Difference),
			strconv.Itoa(w.DaysPresent), strconv.Itoa(w.DaysAbsent),
		})
	}
	return s
}

func MonthlySheet(summaries []attendance.MonthlySummary) Sheet {
	s := Sheet{
		Name:    "Monthly",
		Headers: []string{"Employee", "Department", "Month", "Year", "Total Hours", "Standard Hours", "Difference"},
	}
	for _, m := range summaries {
		year := ""
		if m.Year != 0 {
			year = strconv.Itoa(m.Year)
		}
		s.Rows = append(s.Rows, []string{
			m.Employee, m.Department, m.Month, year,
			hours(m.TotalWorkedHours), hours(m.TotalStandardHours), hours(m.Difference),
		})
	}
	return s
}

func WriteCSV(w io.Writer, sheet Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sheet.Headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(sheet.Rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}

// WriteExcel writes one worksheet per sheet into a single workbook
func WriteExcel(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range sheets {
		name := sheet.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}

		if err := writeRow(f, name, 1, sheet.Headers); err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(max(len(sheet.Headers), 1), 1)
		if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
		for r, row := range sheet.Rows {
			if err := writeRow(f, name, r+2, row); err != nil {
				return err
			}
		}
		if len(sheet.Headers) > 0 {
			lastCol, _ := excelize.ColumnNumberToName(len(sheet.Headers))
			_ = f.SetColWidth(name, "A", lastCol, 16)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

// WriteJSON writes any of the attendance sequences as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
