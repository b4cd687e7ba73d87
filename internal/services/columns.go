package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/diewo77/go-quotations/internal/models"
	"github.com/diewo77/go-quotations/validation"
)

// SyncColumns returns copies of items reshaped to schema: missing dynamic
// columns are added with an empty value, keys absent from schema are
// dropped, and field order follows schema. Protected keys are left alone.
func SyncColumns(schema []models.Column, items []models.Item) []models.Item {
	out := make([]models.Item, len(items))
	for i, it := range items {
		next := it.Clone()
		fields := make(models.Fields, 0, len(schema))
		for _, col := range schema {
			if models.IsProtectedKey(col.ID) {
				continue
			}
			v, _ := it.Fields.Get(col.ID)
			fields = append(fields, models.Field{Key: col.ID, Value: v})
		}
		next.Fields = fields
		out[i] = next
	}
	return out
}

// ConformsToSchema reports whether every row carries exactly the dynamic
// keys of schema.
func ConformsToSchema(schema []models.Column, items []models.Item) bool {
	want := map[string]bool{}
	for _, col := range schema {
		if !models.IsProtectedKey(col.ID) {
			want[col.ID] = true
		}
	}
	for _, it := range items {
		if len(it.Fields) != len(want) {
			return false
		}
		for _, fd := range it.Fields {
			if !want[fd.Key] {
				return false
			}
		}
	}
	return true
}

// ValidateSchema checks a whole replacement schema: ids are required and
// must not repeat.
func ValidateSchema(schema []models.Column) validation.Violations {
	v := validation.Violations{}
	ids := make([]string, 0, len(schema))
	for i, col := range schema {
		if strings.TrimSpace(col.ID) == "" {
			v["columns."+strconv.Itoa(i)] = "required"
			continue
		}
		ids = append(ids, col.ID)
	}
	validation.Unique("columns", ids, v)
	for k, code := range v {
		if code == "already_exists" {
			v[k] = "column_exists"
		}
	}
	return v
}

// ValidateNewColumn checks that col can be appended to schema.
func ValidateNewColumn(schema []models.Column, col models.Column) validation.Violations {
	v := validation.Violations{}
	validation.Required("column", col.ID, v)
	if !v.Empty() {
		return v
	}
	for _, existing := range schema {
		if strings.EqualFold(existing.ID, col.ID) {
			v["column"] = "column_exists"
			break
		}
	}
	return v
}

var nonIdent = regexp.MustCompile(`[^a-z0-9]+`)

// ColumnID derives a column id from a display name ("Unit Price" -> "unit_price").
func ColumnID(displayName string) string {
	id := nonIdent.ReplaceAllString(strings.ToLower(strings.TrimSpace(displayName)), "_")
	return strings.Trim(id, "_")
}
