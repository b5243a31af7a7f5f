package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dated(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func sampleDaily() []DailyRecord {
	return []DailyRecord{
		{Employee: "Ion Popescu 1024", Department: "Production", DateLabel: "31 March", Date: dated(2025, 3, 31), WorkedHours: 8.17, StandardHours: 8.5, Difference: -0.33},
		{Employee: "Ion Popescu 1024", Department: "Production", DateLabel: "1 April", Date: dated(2025, 4, 1), WorkedHours: 8.28, StandardHours: 8.5, Difference: -0.22},
		{Employee: "Ion Popescu 1024", Department: "Production", DateLabel: "4 April", Date: dated(2025, 4, 4), StandardHours: 6, Difference: -6, Absence: true},
		{Employee: "Ana Ionescu 2048", Department: "Logistics", DateLabel: "31 March", Date: dated(2025, 3, 31), WorkedHours: 9.1, StandardHours: 8.5, Difference: 0.6},
	}
}

func TestWeekly(t *testing.T) {
	weekly := Weekly(sampleDaily())
	require.Len(t, weekly, 2)

	assert.Equal(t, WeeklySummary{
		Employee:           "Ana Ionescu 2048",
		Department:         "Logistics",
		TotalWorkedHours:   9.1,
		TotalStandardHours: 8.5,
		Difference:         0.6,
		DaysPresent:        1,
	}, weekly[0])

	ion := weekly[1]
	assert.Equal(t, 16.45, ion.TotalWorkedHours)
	assert.Equal(t, 23.0, ion.TotalStandardHours)
	assert.Equal(t, -6.55, ion.Difference)
	assert.Equal(t, 2, ion.DaysPresent)
	assert.Equal(t, 1, ion.DaysAbsent)
}

func TestWeeklySumInvariant(t *testing.T) {
	// values chosen so float64 summation would drift
	var daily []DailyRecord
	for i := 0; i < 10; i++ {
		daily = append(daily, DailyRecord{Employee: "E 1", DateLabel: "1 May", WorkedHours: 0.1, StandardHours: 0.2})
	}
	w := Weekly(daily)[0]
	assert.Equal(t, 1.0, w.TotalWorkedHours)
	assert.Equal(t, 2.0, w.TotalStandardHours)
	assert.Equal(t, w.TotalWorkedHours-w.TotalStandardHours, w.Difference)
}

func TestMonthly(t *testing.T) {
	monthly := Monthly(sampleDaily())
	require.Len(t, monthly, 3)

	assert.Equal(t, "Ana Ionescu 2048", monthly[0].Employee)
	assert.Equal(t, "March", monthly[0].Month)

	assert.Equal(t, "March", monthly[1].Month)
	assert.Equal(t, 2025, monthly[1].Year)
	assert.Equal(t, -0.33, monthly[1].Difference)

	assert.Equal(t, "April", monthly[2].Month)
	assert.Equal(t, 8.28, monthly[2].TotalWorkedHours)
	assert.Equal(t, 14.5, monthly[2].TotalStandardHours)
}

func TestMonthlyFromLabels(t *testing.T) {
	daily := []DailyRecord{
		{Employee: "E 1", DateLabel: "3 May", WorkedHours: 8},
		{Employee: "E 1", DateLabel: "30 April", WorkedHours: 7},
		{Employee: "E 1", DateLabel: "", WorkedHours: 5},
		{Employee: "E 1", DateLabel: "sometime", WorkedHours: 5},
	}
	monthly := Monthly(daily)
	require.Len(t, monthly, 2)
	assert.Equal(t, "April", monthly[0].Month)
	assert.Equal(t, "May", monthly[1].Month)
	assert.Zero(t, monthly[0].Year)
}

func TestMonthToken(t *testing.T) {
	tests := []struct {
		record    DailyRecord
		wantMonth string
		wantYear  int
	}{
		{DailyRecord{DateLabel: "24 March"}, "March", 0},
		{DailyRecord{DateLabel: "24 March", Date: dated(2026, 3, 24)}, "March", 2026},
		{DailyRecord{DateLabel: "March"}, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.record.DateLabel, func(t *testing.T) {
			month, year := tt.record.MonthToken()
			if month != tt.wantMonth || year != tt.wantYear {
				t.Errorf("MonthToken() = (%q, %d), want (%q, %d)", month, year, tt.wantMonth, tt.wantYear)
			}
		})
	}
}

func TestEmployeesAndFilter(t *testing.T) {
	daily := sampleDaily()
	assert.Equal(t, []string{"Ana Ionescu 2048", "Ion Popescu 1024"}, Employees(daily))
	assert.Len(t, FilterEmployee(daily, "Ion Popescu 1024"), 3)
	assert.Len(t, FilterEmployee(daily, ""), 4)
	assert.Empty(t, FilterEmployee(daily, "nobody"))
}

func TestSummarize(t *testing.T) {
	result := Summarize(ReportHeader{DateRangeText: "N/A"}, sampleDaily(), nil)
	assert.False(t, result.Empty())
	assert.Len(t, result.Weekly, 2)
	assert.Len(t, result.Monthly, 3)

	var empty *Result
	assert.True(t, empty.Empty())
}
