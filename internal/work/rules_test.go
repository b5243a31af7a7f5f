package work

import (
	"testing"
	"time"
)

func TestStandardHoursForWeekday(t *testing.T) {
	tests := []struct {
		name     string
		weekday  time.Weekday
		expected float64
	}{
		{"Monday", time.Monday, MonThuStandardHours},
		{"Tuesday", time.Tuesday, MonThuStandardHours},
		{"Wednesday", time.Wednesday, MonThuStandardHours},
		{"Thursday", time.Thursday, MonThuStandardHours},
		{"Friday", time.Friday, FridayStandardHours},
		{"Saturday", time.Saturday, 0},
		{"Sunday", time.Sunday, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StandardHoursForWeekday(tt.weekday)
			if result != tt.expected {
				t.Errorf("StandardHoursForWeekday(%v) = %v, want %v", tt.weekday, result, tt.expected)
			}
		})
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		label    string
		expected time.Weekday
		ok       bool
	}{
		{"Mon", time.Monday, true},
		{" fri ", time.Friday, true},
		{"Sunday", time.Sunday, true},
		{"SAT", time.Saturday, true},
		{"Lun", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			day, ok := ParseWeekday(tt.label)
			if ok != tt.ok {
				t.Fatalf("ParseWeekday(%q) ok = %v, want %v", tt.label, ok, tt.ok)
			}
			if ok && day != tt.expected {
				t.Errorf("ParseWeekday(%q) = %v, want %v", tt.label, day, tt.expected)
			}
		})
	}
}

func TestWeekdayLabelRoundTrip(t *testing.T) {
	for _, label := range WeekdayLabels {
		day, ok := ParseWeekday(label)
		if !ok {
			t.Fatalf("ParseWeekday(%q) failed", label)
		}
		if got := WeekdayLabel(day); got != label {
			t.Errorf("WeekdayLabel(%v) = %q, want %q", day, got, label)
		}
	}
}

func TestShiftEndForWeekday(t *testing.T) {
	end, ok := ShiftEndForWeekday(time.Friday)
	if !ok || end != FridayShiftEnd {
		t.Errorf("Friday shift end = %v (%v), want %v", end, ok, FridayShiftEnd)
	}
	end, ok = ShiftEndForWeekday(time.Tuesday)
	if !ok || end != ShiftEnd {
		t.Errorf("Tuesday shift end = %v (%v), want %v", end, ok, ShiftEnd)
	}
	if _, ok := ShiftEndForWeekday(time.Sunday); ok {
		t.Error("Sunday should have no shift end")
	}
}

func TestIsWorkDay(t *testing.T) {
	monday := time.Date(2025, 3, 24, 12, 0, 0, 0, time.UTC)
	friday := monday.AddDate(0, 0, 4)
	saturday := monday.AddDate(0, 0, 5)
	sunday := monday.AddDate(0, 0, 6)

	if !IsWorkDay(monday) {
		t.Error("Monday should be a work day")
	}
	if !IsWorkDay(friday) {
		t.Error("Friday should be a work day")
	}
	if IsWorkDay(saturday) {
		t.Error("Saturday should not be a work day")
	}
	if IsWorkDay(sunday) {
		t.Error("Sunday should not be a work day")
	}
}

func TestConstants(t *testing.T) {
	if WeeklyStandardHours != 40.0 {
		t.Errorf("WeeklyStandardHours = %f, expected 40", WeeklyStandardHours)
	}
}
