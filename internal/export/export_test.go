package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pontaj/internal/attendance"
	"github.com/pontaj/internal/timeofday"
)

func sampleRecords() []attendance.DailyRecord {
	d := time.Date(2025, time.March, 24, 0, 0, 0, 0, time.UTC)
	entry := timeofday.MustParse("08:26")
	exit := timeofday.MustParse("17:26")
	return []attendance.DailyRecord{
		{Employee: "Ion Popescu 1024", Department: "Production", BadgeID: "1024AB", Weekday: "Mon",
			DateLabel: "24 March", Date: &d, Entry: &entry, Exit: &exit,
			WorkedHours: 9, StandardHours: 8.5, Difference: 0.5},
		{Employee: "Ion Popescu 1024", Department: "Production", BadgeID: "1024AB", Weekday: "Fri",
			DateLabel: "28 March", StandardHours: 6, Difference: -6, Absence: true},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, DailySheet(sampleRecords())))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Employee,Department,Badge ID"))
	assert.Equal(t, "Ion Popescu 1024,Production,1024AB,Mon,2025-03-24,08:26,17:26,9.00,8.50,0.50,false", lines[1])
	assert.Equal(t, "Ion Popescu 1024,Production,1024AB,Fri,28 March,,,0.00,6.00,-6.00,true", lines[2])
}

func TestWriteExcel(t *testing.T) {
	records := sampleRecords()
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf,
		DailySheet(records),
		WeeklySheet(attendance.Weekly(records)),
		MonthlySheet(attendance.Monthly(records)),
	))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Daily", "Weekly", "Monthly"}, f.GetSheetList())

	rows, err := f.GetRows("Weekly")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Ion Popescu 1024", "Production", "9.00", "14.50", "-5.50", "1", "1"}, rows[1])

	monthly, err := f.GetRows("Monthly")
	require.NoError(t, err)
	// the undated absence groups under its label month, without a year
	require.Len(t, monthly, 3)
	assert.Equal(t, "March", monthly[1][2])
	assert.Equal(t, "", monthly[1][3])
	assert.Equal(t, "2025", monthly[2][3])
}

func TestWriteExcelNoSheets(t *testing.T) {
	assert.Error(t, WriteExcel(&bytes.Buffer{}))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRecords()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "08:26", decoded[0]["entry_time"])
	assert.Equal(t, "2025-03-24T00:00:00Z", decoded[0]["date"])
	assert.NotContains(t, decoded[1], "entry_time")
	assert.Equal(t, true, decoded[1]["absence"])
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"csv", FormatCSV, true},
		{"XLSX", FormatExcel, true},
		{"excel", FormatExcel, true},
		{"json", FormatJSON, true},
		{"pdf", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err == nil) != tt.ok || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}
