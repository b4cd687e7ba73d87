// Package numeric turns free-text money and quantity inputs into numbers.
//
// Inputs are forgiving: anything that does not parse is treated as zero.
package numeric

import (
	"math"
	"strconv"
	"strings"
)

// ToNumber parses s as a float. Empty or non-numeric input yields 0.
func ToNumber(s string) float64 {
	f, _ := Parse(s)
	return f
}

// Parse reports whether s holds a finite number and returns it.
func Parse(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Round2 rounds half away from zero to two decimals.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Format renders f without trailing zeros ("2", "2.5"), for storing numbers
// back into text fields.
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
