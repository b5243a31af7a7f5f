// Package timeofday handles the wall-clock "HH:MM" values printed by the
// badge terminal. Values carry no date and no timezone.
package timeofday

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// Value is a time of day with minute precision.
type Value struct {
	minutes int
}

// New builds a Value from hour and minute. Out of range input returns false.
func New(hour, minute int) (Value, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Value{}, false
	}
	return Value{minutes: hour*60 + minute}, true
}

// Parse reads a 24-hour H:MM or HH:MM string. It never fails loudly: empty or
// malformed input just reports false.
func Parse(s string) (Value, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Value{}, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return New(hour, minute)
}

// MustParse is Parse for literals in tests and tables.
func MustParse(s string) Value {
	v, ok := Parse(s)
	if !ok {
		panic(fmt.Sprintf("timeofday: invalid time %q", s))
	}
	return v
}

func (v Value) Hour() int   { return v.minutes / 60 }
func (v Value) Minute() int { return v.minutes % 60 }

// Minutes since midnight.
func (v Value) Minutes() int { return v.minutes }

// Hours returns the fractional hour of day, e.g. 08:30 -> 8.5.
func (v Value) Hours() float64 {
	return float64(v.minutes) / 60.0
}

func (v Value) Before(o Value) bool { return v.minutes < o.minutes }

func (v Value) String() string {
	return fmt.Sprintf("%02d:%02d", v.Hour(), v.Minute())
}

// Duration returns a - b in hours, rounded to 2 decimals. A nil operand
// yields 0. Crossing midnight is not handled here and gives a negative value.
func Duration(a, b *Value) float64 {
	if a == nil || b == nil {
		return 0
	}
	seconds := int64(a.minutes-b.minutes) * 60
	return RoundHours(decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600)))
}

// RoundHours rounds an hour amount to 2 decimals and converts it to float64.
func RoundHours(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// ParseRange splits a "HH:MM - HH:MM" cell into entry and exit values.
func ParseRange(cell string) (entry, exit Value, ok bool) {
	parts := strings.SplitN(cell, "-", 2)
	if len(parts) != 2 {
		return Value{}, Value{}, false
	}
	entry, okEntry := Parse(parts[0])
	exit, okExit := Parse(parts[1])
	if !okEntry || !okExit {
		return Value{}, Value{}, false
	}
	return entry, exit, true
}

// MarshalText renders the value as "HH:MM" for JSON and YAML encoders.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
