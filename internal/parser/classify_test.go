package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		want LineKind
	}{
		{"blank", "   ", KindSkip},
		{"title", "Attendance Report", KindSkip},
		{"range line", "Period from 24 March 2025 to 28 March 2025", KindSkip},
		{"employee", ",Ion Popescu 1024,Production,,,,1024AB", KindEmployee},
		{"employee without department", ",Ion Popescu 1024,,,,,", KindEmployee},
		{"name in first cell", "Ion Popescu 1024,Production", KindSkip},
		{"weekday header", "Mon,Tue,Wed,Thu,Fri,Sat,Sun", KindWeekdays},
		{"dates", "24 March,25 March,26 March,27 March,28 March,,", KindDates},
		{"partial week dates", ",,26 March,27 March,28 March,,", KindDates},
		{"too few date cells", "24 March,25 March", KindSkip},
		{"dates with junk", "24 March,25 March,total,27 March,28 March", KindSkip},
		{"times", "08:26 - 17:26,09:00 - 17:10,,,,,", KindTimes},
		{"times without spaces", ",,8:58-17:15,,,,", KindTimes},
		{"empty cells only", ",,,,,,", KindSkip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.line).Kind; got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestClassifyEmployeeFields(t *testing.T) {
	line := Classify(",Ion Popescu 1024,Production,,,,1024AB")
	assert.Equal(t, KindEmployee, line.Kind)
	assert.Equal(t, "Ion Popescu 1024", line.Employee)
	assert.Equal(t, "Production", line.Department)
	assert.Equal(t, "1024AB", line.BadgeID)

	line = Classify(",Ion Popescu 1024,Production,,,,1024AB,,, ")
	assert.Equal(t, "1024AB", line.BadgeID)

	line = Classify(",Maria Ionescu 2048,Logistics,")
	assert.Equal(t, "N/A", line.BadgeID)

	line = Classify(`,"Ana-Maria Pop 77","Sales, North",,,,`)
	assert.Equal(t, KindEmployee, line.Kind)
	assert.Equal(t, "Ana-Maria Pop 77", line.Employee)
	assert.Equal(t, "Sales, North", line.Department)
}

func TestSplitCells(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", ""}, SplitCells(" a , b c ,"))
	assert.Equal(t, []string{"x, y", "z"}, SplitCells(`"x, y",z`))
}
