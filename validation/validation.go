// Package validation collects field-level input problems as codes that
// callers translate for display.
package validation

import (
	"maps"
	"slices"
	"strings"
)

// Violations maps a field path to a snake_case code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Merge copies every violation of other into v.
func (v Violations) Merge(other Violations) {
	maps.Copy(v, other)
}

// Fields returns the violated field paths in sorted order.
func (v Violations) Fields() []string {
	return slices.Sorted(maps.Keys(v))
}

// String renders "field=code" pairs in field order.
func (v Violations) String() string {
	parts := make([]string, 0, len(v))
	for _, f := range v.Fields() {
		parts = append(parts, f+"="+v[f])
	}
	return strings.Join(parts, ", ")
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// Unique flags the first value that repeats an earlier one, under
// field + "." + value. Comparison is case-insensitive.
func Unique(field string, values []string, v Violations) {
	seen := make(map[string]bool, len(values))
	for _, val := range values {
		k := strings.ToLower(strings.TrimSpace(val))
		if seen[k] {
			v[field+"."+val] = "already_exists"
			return
		}
		seen[k] = true
	}
}
