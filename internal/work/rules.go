package work

import (
	"strings"
	"time"

	"github.com/pontaj/internal/timeofday"
)

// =============================================================================
// WORK RULES CONFIGURATION
// =============================================================================
// Standard schedule the attendance reports are measured against.
// Current defaults: Mon-Thu 08:30-17:00, Fri 08:30-14:30, weekend off.
//
// To customize for your company:
// 1. Change the *StandardHours constants to the expected daily duration
// 2. Change ShiftStart / the shift end times used as chart reference lines
// =============================================================================

const (
	// MonThuStandardHours - expected hours Monday to Thursday
	MonThuStandardHours = 8.5

	// FridayStandardHours - expected hours on Friday (short day)
	FridayStandardHours = 6.0

	// WeekendStandardHours - Saturday and Sunday are days off
	WeekendStandardHours = 0.0

	// WorkDaysPerWeek - standard work week
	WorkDaysPerWeek = 5

	// WeeklyStandardHours - 4 long days plus Friday
	WeeklyStandardHours = 4*MonThuStandardHours + FridayStandardHours
)

var (
	ShiftStart     = timeofday.MustParse("08:30")
	ShiftEnd       = timeofday.MustParse("17:00")
	FridayShiftEnd = timeofday.MustParse("14:30")
)

// WeekdayLabels is the column order of the terminal's weekday header row.
var WeekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var labelToWeekday = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday,
}

// StandardHoursForWeekday returns the expected duration for a day of the week
func StandardHoursForWeekday(day time.Weekday) float64 {
	switch day {
	case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
		return MonThuStandardHours
	case time.Friday:
		return FridayStandardHours
	default:
		return WeekendStandardHours
	}
}

// ShiftEndForWeekday returns the nominal end of the shift; ok is false on weekends
func ShiftEndForWeekday(day time.Weekday) (timeofday.Value, bool) {
	switch day {
	case time.Saturday, time.Sunday:
		return timeofday.Value{}, false
	case time.Friday:
		return FridayShiftEnd, true
	default:
		return ShiftEnd, true
	}
}

// ParseWeekday maps a header label ("Mon", "monday") to a time.Weekday
func ParseWeekday(label string) (time.Weekday, bool) {
	day, ok := labelToWeekday[strings.ToLower(strings.TrimSpace(label))]
	return day, ok
}

// WeekdayLabel returns the short header label for a weekday
func WeekdayLabel(day time.Weekday) string {
	// WeekdayLabels starts on Monday, time.Weekday on Sunday
	return WeekdayLabels[(int(day)+6)%7]
}

// IsWorkDay returns true if the given day is a standard work day (Mon-Fri)
func IsWorkDay(t time.Time) bool {
	day := t.Weekday()
	return day >= time.Monday && day <= time.Friday
}
