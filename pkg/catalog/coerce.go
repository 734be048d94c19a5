package catalog

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing release dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006-01",
	"2006",
}

// ParseInt coerces a cell to an integer.
// Integral floats such as "862.0" are accepted; anything else is nil.
func ParseInt(cell *string) *int64 {
	if cell == nil {
		return nil
	}
	s := strings.TrimSpace(*cell)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil
	}
	// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
	if f >= 1<<63 || f < -(1<<63) {
		return nil
	}
	n := int64(f)
	return &n
}

// ParseFloat coerces a cell to a float. NaN reads as missing.
func ParseFloat(cell *string) *float64 {
	if cell == nil {
		return nil
	}
	s := strings.TrimSpace(*cell)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	return &f
}

// ParseDate coerces a cell to a date using the known layouts.
func ParseDate(cell *string) *time.Time {
	if cell == nil {
		return nil
	}
	s := strings.TrimSpace(*cell)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// YearOf returns the year of a date, or nil for a nil date.
func YearOf(t *time.Time) *int {
	if t == nil {
		return nil
	}
	y := t.Year()
	return &y
}

// TrimString trims surrounding whitespace, keeping nil as nil.
func TrimString(cell *string) *string {
	if cell == nil {
		return nil
	}
	s := strings.TrimSpace(*cell)
	return &s
}
