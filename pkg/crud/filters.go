package crud

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Filter narrows records by a free-text query over searchable fields and by
// exact matches on filterable fields. Empty criteria pass every record
// through untouched; the result is never nil.
func Filter(schema *Schema, records []Record, query string, filters map[string]string) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if matchesQuery(schema, r, query) && matchesFilters(r, filters) {
			out = append(out, r)
		}
	}
	return out
}

func matchesQuery(schema *Schema, record Record, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	needle := strings.ToLower(query)
	for _, f := range schema.SearchableFields() {
		if strings.Contains(strings.ToLower(stringifyValue(record[f.Name])), needle) {
			return true
		}
	}
	return false
}

func matchesFilters(record Record, filters map[string]string) bool {
	for name, want := range filters {
		if want == "" {
			continue
		}
		if stringifyValue(record[name]) != want {
			return false
		}
	}
	return true
}

func stringifyValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	case decimal.Decimal:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
