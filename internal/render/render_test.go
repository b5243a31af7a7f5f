package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pontaj/internal/attendance"
	"github.com/pontaj/internal/calendar"
	"github.com/pontaj/internal/storage"
)

func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected output to contain %q", substr)
	}
}

func TestDaily(t *testing.T) {
	out := Daily([]attendance.DailyRecord{
		{Employee: "Ion Popescu 1024", Weekday: "Mon", DateLabel: "24 March", WorkedHours: 9, StandardHours: 8.5, Difference: 0.5},
		{Employee: "Ion Popescu 1024", Weekday: "Fri", DateLabel: "28 March", StandardHours: 6, Difference: -6, Absence: true},
	}, nil)

	assertContains(t, out, "Employee")
	assertContains(t, out, "Ion Popescu 1024")
	assertContains(t, out, "0.50")
	assertContains(t, out, "-6.00")
	assert.NotContains(t, out, "Holiday")
}

func TestDailyNamesHolidays(t *testing.T) {
	goodFriday := time.Date(2025, time.April, 18, 0, 0, 0, 0, time.UTC)
	thursday := time.Date(2025, time.April, 17, 0, 0, 0, 0, time.UTC)
	out := Daily([]attendance.DailyRecord{
		{Employee: "Ion Popescu 1024", Weekday: "Thu", DateLabel: "17 April", Date: &thursday, WorkedHours: 8.5, StandardHours: 8.5},
		{Employee: "Ion Popescu 1024", Weekday: "Fri", DateLabel: "18 April", Date: &goodFriday, Absence: true},
		{Employee: "Ion Popescu 1024", Weekday: "Mon", DateLabel: "21 April", Absence: true},
	}, calendar.Romania())

	assertContains(t, out, "Holiday")
	assertContains(t, out, "Vinerea Mare")
	assert.Equal(t, 1, strings.Count(out, "Vinerea Mare"))
	// undated rows are never matched against the calendar
	assert.NotContains(t, out, "A doua zi de Paște")
}

func TestWeeklyAndMonthly(t *testing.T) {
	out := Weekly([]attendance.WeeklySummary{{Employee: "Ana Ionescu 2048", TotalWorkedHours: 40.25, TotalStandardHours: 40, Difference: 0.25, DaysPresent: 5}})
	assertContains(t, out, "40.25")
	assertContains(t, out, "Days Present")

	out = Monthly([]attendance.MonthlySummary{{Employee: "Ana Ionescu 2048", Month: "March", Year: 2025}})
	assertContains(t, out, "March")
	assertContains(t, out, "2025")
}

func TestImports(t *testing.T) {
	out := Imports([]storage.ImportRecord{{
		ID: "0b6f6f0e-8a4c-4c7a-9d0e-6a1f0d7c2b11", FileName: "week13.csv", RecordCount: 5,
		ImportedAt: time.Date(2025, time.March, 29, 10, 0, 0, 0, time.UTC),
	}})
	assertContains(t, out, "0b6f6f0e")
	assertContains(t, out, "week13.csv")
	assert.NotContains(t, out, "8a4c-4c7a")
}

func TestWarnings(t *testing.T) {
	assert.Empty(t, Warnings(nil))

	out := Warnings([]attendance.Warning{{Line: 7, Message: "duplicate day"}, {Message: "no range"}})
	assertContains(t, out, "2 warning(s)")
	assertContains(t, out, "line 7: duplicate day")
	assertContains(t, out, "  no range")
}
