package visualization

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pontaj/internal/attendance"
	"github.com/pontaj/internal/timeofday"
	"github.com/pontaj/internal/work"
)

const (
	colorWorked   = "#4472C4"
	colorStandard = "#B0BEC5"
	colorPositive = "#4CAF50"
	colorNegative = "#F44336"
	colorRefLine  = "#E74C3C"
)

// histogram window and bin size for arrival/departure charts
const (
	histStartHour  = 6
	histEndHour    = 20
	histBinMinutes = 30
)

type Visualizer struct{}

func New() *Visualizer {
	return &Visualizer{}
}

func svgHeader(width, height int, title, subtitle string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">
  <defs>
    <linearGradient id="bgGrad" x1="0%%" y1="0%%" x2="0%%" y2="100%%">
      <stop offset="0%%" style="stop-color:#f5f7fa"/>
      <stop offset="100%%" style="stop-color:#e4e8ec"/>
    </linearGradient>
  </defs>
  <rect width="%d" height="%d" fill="url(#bgGrad)" rx="10"/>
  <text x="%d" y="30" text-anchor="middle" font-size="18" font-weight="bold" fill="#2c3e50">%s</text>
  <text x="%d" y="52" text-anchor="middle" font-size="12" fill="#7f8c8d">%s</text>
`,
		width, height, width, height,
		width, height,
		width/2, html.EscapeString(title),
		width/2, html.EscapeString(subtitle),
	)
}

// GenerateWeeklySVG draws worked against standard hours for every employee
func (v *Visualizer) GenerateWeeklySVG(weekly []attendance.WeeklySummary) string {
	padding := 50
	groupWidth := 90
	width := max(600, 2*padding+groupWidth*len(weekly))
	height := 360
	plotHeight := float64(height - 2*padding - 40)

	maxHours := 10.0
	for _, w := range weekly {
		maxHours = math.Max(maxHours, math.Max(w.TotalWorkedHours, w.TotalStandardHours))
	}
	maxHours = math.Ceil(maxHours/10) * 10

	var bars strings.Builder
	labels := make([]string, 0, len(weekly))
	for i, w := range weekly {
		x := float64(padding + i*groupWidth + 10)
		baseline := float64(height - padding)
		for j, value := range []float64{w.TotalWorkedHours, w.TotalStandardHours} {
			color := colorWorked
			if j == 1 {
				color = colorStandard
			}
			barHeight := value / maxHours * plotHeight
			bx := x + float64(j*35)
			by := baseline - barHeight
			bars.WriteString(fmt.Sprintf(`  <rect x="%.0f" y="%.0f" width="30" height="%.0f" fill="%s" rx="3"/>
  <text x="%.0f" y="%.0f" text-anchor="middle" font-size="10" fill="#333">%.1f</text>
`, bx, by, barHeight, color, bx+15, by-4, value))
		}
		labels = append(labels, shortName(w.Employee))
	}

	var b strings.Builder
	b.WriteString(svgHeader(width, height, "Weekly Hours", "worked vs standard"))
	b.WriteString(v.generateGridLines(height, padding, width, 4))
	b.WriteString(bars.String())
	b.WriteString(v.generateXLabels(labels, float64(padding+10), float64(groupWidth), float64(height-padding), 32))
	b.WriteString(legend(width-padding-160, 70))
	b.WriteString("</svg>")
	return b.String()
}

// GenerateDifferenceSVG draws each employee's difference from the standard
// around a zero line, overtime above and shortfall below.
func (v *Visualizer) GenerateDifferenceSVG(weekly []attendance.WeeklySummary) string {
	padding := 50
	groupWidth := 70
	width := max(600, 2*padding+groupWidth*len(weekly))
	height := 360
	zeroY := float64(height) / 2
	half := zeroY - float64(padding) - 20

	maxAbs := 1.0
	for _, w := range weekly {
		maxAbs = math.Max(maxAbs, math.Abs(w.Difference))
	}

	var bars strings.Builder
	labels := make([]string, 0, len(weekly))
	for i, w := range weekly {
		barHeight := math.Abs(w.Difference) / maxAbs * half
		x := float64(padding + i*groupWidth + 10)
		y := zeroY - barHeight
		color := colorPositive
		textY := y - 4
		if w.Difference < 0 {
			y = zeroY
			color = colorNegative
			textY = zeroY + barHeight + 14
		}
		bars.WriteString(fmt.Sprintf(`  <rect x="%.0f" y="%.0f" width="%d" height="%.0f" fill="%s" rx="3"/>
  <text x="%.0f" y="%.0f" text-anchor="middle" font-size="11" fill="#333">%+.2f</text>
`, x, y, groupWidth-20, barHeight, color, x+float64(groupWidth-20)/2, textY, w.Difference))
		labels = append(labels, shortName(w.Employee))
	}

	var b strings.Builder
	b.WriteString(svgHeader(width, height, "Difference from Standard", "hours above or below the schedule"))
	b.WriteString(fmt.Sprintf(`  <line x1="%d" y1="%.0f" x2="%d" y2="%.0f" stroke="#2c3e50" stroke-width="1"/>
`, padding, zeroY, width-padding, zeroY))
	b.WriteString(bars.String())
	b.WriteString(v.generateXLabels(labels, float64(padding+10), float64(groupWidth), float64(height-padding), float64(groupWidth-20)/2))
	b.WriteString("</svg>")
	return b.String()
}

// GenerateDailySVG draws one bar per day for a single employee's records,
// with the day's standard hours as a tick over the bar.
func (v *Visualizer) GenerateDailySVG(records []attendance.DailyRecord) string {
	padding := 50
	barSlot := 60
	width := max(600, 2*padding+barSlot*len(records))
	height := 320
	plotHeight := float64(height - 2*padding - 30)
	maxHours := 12.0

	title := "Daily Hours"
	if len(records) > 0 {
		title = "Daily Hours - " + records[0].Employee
	}

	var bars strings.Builder
	labels := make([]string, 0, len(records))
	for i, r := range records {
		x := float64(padding + i*barSlot + 10)
		baseline := float64(height - padding)
		barHeight := math.Min(r.WorkedHours, maxHours) / maxHours * plotHeight
		color := colorPositive
		if r.Difference < 0 {
			color = colorNegative
		}
		stdY := baseline - math.Min(r.StandardHours, maxHours)/maxHours*plotHeight
		bars.WriteString(fmt.Sprintf(`  <rect x="%.0f" y="%.0f" width="%d" height="%.0f" fill="%s" rx="3"/>
  <line x1="%.0f" y1="%.0f" x2="%.0f" y2="%.0f" stroke="#2c3e50" stroke-width="2"/>
`, x, baseline-barHeight, barSlot-20, barHeight, color, x-4, stdY, x+float64(barSlot-16), stdY))
		labels = append(labels, r.Weekday)
	}

	var b strings.Builder
	b.WriteString(svgHeader(width, height, title, "bars: worked, ticks: standard"))
	b.WriteString(v.generateGridLines(height, padding, width, 4))
	b.WriteString(bars.String())
	b.WriteString(v.generateXLabels(labels, float64(padding+10), float64(barSlot), float64(height-padding), float64(barSlot-20)/2))
	b.WriteString("</svg>")
	return b.String()
}

// GenerateArrivalSVG is the distribution of entry times against the shift start
func (v *Visualizer) GenerateArrivalSVG(daily []attendance.DailyRecord) string {
	var times []timeofday.Value
	for _, r := range daily {
		if r.Entry != nil {
			times = append(times, *r.Entry)
		}
	}
	return v.histogram("Arrival Times", times, map[string]timeofday.Value{
		"start " + work.ShiftStart.String(): work.ShiftStart,
	})
}

// GenerateDepartureSVG is the distribution of exit times against the
// Monday-Thursday and Friday shift ends.
func (v *Visualizer) GenerateDepartureSVG(daily []attendance.DailyRecord) string {
	var times []timeofday.Value
	for _, r := range daily {
		if r.Exit != nil {
			times = append(times, *r.Exit)
		}
	}
	refs := make(map[string]timeofday.Value)
	for _, group := range []struct {
		label string
		day   time.Weekday
	}{{"Mon-Thu", time.Monday}, {"Fri", time.Friday}} {
		if end, ok := work.ShiftEndForWeekday(group.day); ok {
			refs[group.label+" "+end.String()] = end
		}
	}
	return v.histogram("Departure Times", times, refs)
}

func (v *Visualizer) histogram(title string, times []timeofday.Value, refs map[string]timeofday.Value) string {
	width := 700
	height := 340
	padding := 50
	bins := (histEndHour - histStartHour) * 60 / histBinMinutes
	binWidth := float64(width-2*padding) / float64(bins)
	plotHeight := float64(height - 2*padding - 30)

	counts := make([]int, bins)
	for _, t := range times {
		i := (t.Minutes() - histStartHour*60) / histBinMinutes
		i = min(max(i, 0), bins-1)
		counts[i]++
	}
	maxCount := 1
	for _, c := range counts {
		maxCount = max(maxCount, c)
	}

	baseline := float64(height - padding)
	xOf := func(minutes int) float64 {
		return float64(padding) + float64(minutes-histStartHour*60)/float64(histBinMinutes)*binWidth
	}

	var b strings.Builder
	b.WriteString(svgHeader(width, height, title, fmt.Sprintf("%d entries", len(times))))
	for i, c := range counts {
		if c == 0 {
			continue
		}
		barHeight := float64(c) / float64(maxCount) * plotHeight
		x := float64(padding) + float64(i)*binWidth
		b.WriteString(fmt.Sprintf(`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, x+1, baseline-barHeight, binWidth-2, barHeight, colorWorked))
	}

	for i, ref := range sortedRefs(refs) {
		x := xOf(ref.value.Minutes())
		b.WriteString(fmt.Sprintf(`  <line x1="%.1f" y1="%d" x2="%.1f" y2="%.0f" stroke="%s" stroke-width="2" stroke-dasharray="5,5"/>
  <text x="%.1f" y="%d" font-size="10" fill="%s">%s</text>
`, x, padding+10, x, baseline, colorRefLine, x+4, padding+20+i*12, colorRefLine, html.EscapeString(ref.name)))
	}

	for h := histStartHour; h <= histEndHour; h += 2 {
		b.WriteString(fmt.Sprintf(`  <text x="%.1f" y="%.0f" text-anchor="middle" font-size="11" fill="#7f8c8d">%02d:00</text>
`, xOf(h*60), baseline+18, h))
	}
	b.WriteString("</svg>")
	return b.String()
}

type namedRef struct {
	name  string
	value timeofday.Value
}

// sortedRefs orders reference lines by time so labels stack predictably
func sortedRefs(refs map[string]timeofday.Value) []namedRef {
	out := make([]namedRef, 0, len(refs))
	for name, value := range refs {
		out = append(out, namedRef{name: name, value: value})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].value.Before(out[j].value)
	})
	return out
}

// GenerateHTMLReport is a standalone page with totals, both weekly charts,
// the weekly table and the parser warnings.
func (v *Visualizer) GenerateHTMLReport(result *attendance.Result) string {
	var worked, standard, diff float64
	for _, w := range result.Weekly {
		worked += w.TotalWorkedHours
		standard += w.TotalStandardHours
		diff += w.Difference
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Pontaj - Attendance Report</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 40px; background: #f5f7fa; }
    .container { max-width: 960px; margin: 0 auto; }
    .card { background: white; border-radius: 10px; padding: 24px; margin-bottom: 20px; box-shadow: 0 2px 8px rgba(0,0,0,0.1); }
    h1 { color: #2c3e50; margin-bottom: 8px; }
    h2 { color: #34495e; font-size: 18px; margin-bottom: 16px; }
    .subtitle { color: #7f8c8d; margin-bottom: 30px; }
    .stat { display: inline-block; text-align: center; padding: 20px; margin: 10px; background: #f8f9fa; border-radius: 8px; min-width: 120px; }
    .stat-value { font-size: 32px; font-weight: bold; color: #3498DB; }
    .stat-label { font-size: 12px; color: #7f8c8d; margin-top: 4px; }
    .neg { color: #C62828; }
    .pos { color: #2E7D32; }
    table { width: 100%%; border-collapse: collapse; margin-top: 16px; }
    th, td { padding: 12px; text-align: left; border-bottom: 1px solid #eee; }
    th { color: #7f8c8d; font-weight: 500; }
    svg { max-width: 100%%; height: auto; }
  </style>
</head>
<body>
  <div class="container">
    <h1>Attendance Report</h1>
    <p class="subtitle">Period %s | Generated on %s</p>

    <div class="card">
      <h2>Totals</h2>
      <div class="stat">
        <div class="stat-value">%d</div>
        <div class="stat-label">Employees</div>
      </div>
      <div class="stat">
        <div class="stat-value">%.2fh</div>
        <div class="stat-label">Worked</div>
      </div>
      <div class="stat">
        <div class="stat-value">%.2fh</div>
        <div class="stat-label">Standard</div>
      </div>
      <div class="stat">
        <div class="stat-value %s">%+.2fh</div>
        <div class="stat-label">Difference</div>
      </div>
    </div>

    <div class="card">
      %s
    </div>

    <div class="card">
      %s
    </div>

    <div class="card">
      <h2>Weekly Summary</h2>
      <table>
        <tr><th>Employee</th><th>Department</th><th>Worked</th><th>Standard</th><th>Difference</th><th>Present</th><th>Absent</th></tr>
        %s
      </table>
    </div>
%s  </div>
</body>
</html>`,
		html.EscapeString(result.Header.DateRangeText),
		time.Now().Format("Monday, January 2, 2006"),
		len(result.Weekly),
		worked,
		standard,
		signClass(diff), diff,
		stripXMLDecl(v.GenerateWeeklySVG(result.Weekly)),
		stripXMLDecl(v.GenerateDifferenceSVG(result.Weekly)),
		v.formatWeeklyRows(result.Weekly),
		formatWarnings(result.Warnings),
	)
}

func (v *Visualizer) formatWeeklyRows(weekly []attendance.WeeklySummary) string {
	var rows []string
	for _, w := range weekly {
		rows = append(rows, fmt.Sprintf(
			`<tr><td>%s</td><td>%s</td><td>%.2f</td><td>%.2f</td><td class="%s">%+.2f</td><td>%d</td><td>%d</td></tr>`,
			html.EscapeString(w.Employee), html.EscapeString(w.Department),
			w.TotalWorkedHours, w.TotalStandardHours, signClass(w.Difference), w.Difference,
			w.DaysPresent, w.DaysAbsent))
	}
	return strings.Join(rows, "\n        ")
}

func formatWarnings(warnings []attendance.Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("    <div class=\"card\">\n      <h2>Data Warnings</h2>\n      <ul>\n")
	for _, w := range warnings {
		b.WriteString(fmt.Sprintf("        <li>line %d: %s</li>\n", w.Line, html.EscapeString(w.Message)))
	}
	b.WriteString("      </ul>\n    </div>\n")
	return b.String()
}

func signClass(v float64) string {
	if v < 0 {
		return "neg"
	}
	return "pos"
}

func stripXMLDecl(svg string) string {
	if i := strings.Index(svg, "?>"); i >= 0 && strings.HasPrefix(svg, "<?xml") {
		return strings.TrimSpace(svg[i+2:])
	}
	return svg
}

// shortName keeps axis labels readable: "Ion Popescu 1024" -> "I. Popescu"
func shortName(employee string) string {
	fields := strings.Fields(employee)
	if len(fields) < 3 {
		return employee
	}
	first := []rune(fields[0])
	return string(first[0]) + ". " + fields[len(fields)-2]
}

func legend(x, y int) string {
	return fmt.Sprintf(`  <rect x="%d" y="%d" width="12" height="12" fill="%s"/>
  <text x="%d" y="%d" font-size="11" fill="#333">Worked</text>
  <rect x="%d" y="%d" width="12" height="12" fill="%s"/>
  <text x="%d" y="%d" font-size="11" fill="#333">Standard</text>
`, x, y, colorWorked, x+16, y+10, x+80, y, colorStandard, x+96, y+10)
}

func (v *Visualizer) generateXLabels(labels []string, start float64, slot float64, y float64, offset float64) string {
	var out strings.Builder
	for i, label := range labels {
		x := start + float64(i)*slot + offset
		out.WriteString(fmt.Sprintf(`  <text x="%.0f" y="%d" text-anchor="middle" font-size="12" fill="#7f8c8d">%s</text>
`, x, int(y)+20, html.EscapeString(label)))
	}
	return out.String()
}

func (v *Visualizer) generateGridLines(height int, padding int, width int, steps int) string {
	var lines strings.Builder
	for i := 1; i <= steps; i++ {
		y := float64(height) - float64(padding) - (float64(i)/float64(steps))*float64(height-2*padding-40)
		lines.WriteString(fmt.Sprintf(`  <line x1="%d" y1="%.0f" x2="%d" y2="%.0f" stroke="#E0E0E0"/>
`, padding, y, width-padding, y))
	}
	return lines.String()
}
