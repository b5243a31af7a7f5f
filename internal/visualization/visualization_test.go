package visualization

import (
	"strings"
	"testing"

	"github.com/pontaj/internal/attendance"
	"github.com/pontaj/internal/timeofday"
)

func weeklySample() []attendance.WeeklySummary {
	return []attendance.WeeklySummary{
		{Employee: "Ana Ionescu 2048", Department: "Logistics", TotalWorkedHours: 41.5, TotalStandardHours: 40, Difference: 1.5, DaysPresent: 5},
		{Employee: "Ion Popescu 1024", Department: "Production", TotalWorkedHours: 34.02, TotalStandardHours: 40, Difference: -5.98, DaysPresent: 4, DaysAbsent: 1},
	}
}

func clock(s string) *timeofday.Value {
	v := timeofday.MustParse(s)
	return &v
}

func TestGenerateWeeklySVGBasics(t *testing.T) {
	svg := New().GenerateWeeklySVG(weeklySample())

	assertContains(t, svg, "<?xml")
	assertContains(t, svg, "Weekly Hours")
	assertContains(t, svg, ">A. Ionescu</text>")
	assertContains(t, svg, ">I. Popescu</text>")
	assertContains(t, svg, ">34.0</text>")

	// background, two bars per employee, two legend swatches
	rectCount := strings.Count(svg, "<rect")
	if rectCount != 7 {
		t.Fatalf("expected 7 rects, got %d", rectCount)
	}
}

func TestGenerateDifferenceSVG(t *testing.T) {
	svg := New().GenerateDifferenceSVG(weeklySample())

	assertContains(t, svg, "Difference from Standard")
	assertContains(t, svg, ">+1.50</text>")
	assertContains(t, svg, ">-5.98</text>")
	assertContains(t, svg, `fill="#4CAF50"`)
	assertContains(t, svg, `fill="#F44336"`)
}

func TestGenerateDailySVG(t *testing.T) {
	records := []attendance.DailyRecord{
		{Employee: "Ion Popescu 1024", Weekday: "Mon", WorkedHours: 9, StandardHours: 8.5, Difference: 0.5},
		{Employee: "Ion Popescu 1024", Weekday: "Fri", StandardHours: 6, Difference: -6, Absence: true},
	}
	svg := New().GenerateDailySVG(records)

	assertContains(t, svg, "Daily Hours - Ion Popescu 1024")
	assertContains(t, svg, ">Mon</text>")
	assertContains(t, svg, ">Fri</text>")
	if n := strings.Count(svg, "<rect"); n != 3 {
		t.Fatalf("expected 3 rects (background + 2 bars), got %d", n)
	}
}

func TestGenerateArrivalSVG(t *testing.T) {
	daily := []attendance.DailyRecord{
		{Entry: clock("08:26"), Exit: clock("17:26")},
		{Entry: clock("08:10"), Exit: clock("17:05")},
		{Entry: clock("09:00"), Exit: clock("14:30")},
		{Absence: true},
	}

	svg := New().GenerateArrivalSVG(daily)
	assertContains(t, svg, "Arrival Times")
	assertContains(t, svg, "3 entries")
	assertContains(t, svg, "start 08:30")
	// 08:10 and 08:26 share the 08:00 bin, 09:00 has its own
	if n := strings.Count(svg, "<rect"); n != 3 {
		t.Fatalf("expected 3 rects (background + 2 bins), got %d", n)
	}

	svg = New().GenerateDepartureSVG(daily)
	assertContains(t, svg, "Departure Times")
	assertContains(t, svg, "Mon-Thu 17:00")
	assertContains(t, svg, "Fri 14:30")
	if strings.Index(svg, "Fri 14:30") > strings.Index(svg, "Mon-Thu 17:00") {
		t.Fatalf("reference lines should be ordered by time")
	}
	// one line per shift end, none for the weekend
	if n := strings.Count(svg, "stroke-dasharray"); n != 2 {
		t.Fatalf("expected 2 reference lines, got %d", n)
	}
}

func TestHistogramClampsOutliers(t *testing.T) {
	svg := New().GenerateArrivalSVG([]attendance.DailyRecord{
		{Entry: clock("03:00")},
		{Entry: clock("23:30")},
	})
	if n := strings.Count(svg, "<rect"); n != 3 {
		t.Fatalf("expected outliers in first and last bins, got %d rects", n)
	}
}

func TestGenerateHTMLReport(t *testing.T) {
	result := &attendance.Result{
		Header:   attendance.ReportHeader{DateRangeText: "24 March 2025 - 28 March 2025"},
		Weekly:   weeklySample(),
		Warnings: []attendance.Warning{{Line: 9, Message: "duplicate day 25 March for <Ion>"}},
	}

	html := New().GenerateHTMLReport(result)

	assertContains(t, html, "<!DOCTYPE html>")
	assertContains(t, html, "Attendance Report")
	assertContains(t, html, "Period 24 March 2025 - 28 March 2025")
	assertContains(t, html, "Generated on ")
	assertContains(t, html, "75.52h")
	assertContains(t, html, `<div class="stat-value neg">-4.48h</div>`)
	assertContains(t, html, `<td>Ion Popescu 1024</td><td>Production</td><td>34.02</td><td>40.00</td><td class="neg">-5.98</td><td>4</td><td>1</td>`)
	assertContains(t, html, "line 9: duplicate day 25 March for &lt;Ion&gt;")

	if strings.Contains(html, "<?xml") {
		t.Fatalf("embedded SVG should not carry an XML declaration")
	}
	if n := strings.Count(html, "<svg"); n != 2 {
		t.Fatalf("expected 2 embedded charts, got %d", n)
	}
}

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q", needle)
	}
}
