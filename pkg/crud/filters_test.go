package crud_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/backoffice/pkg/crud"
)

func sampleRecords() []crud.Record {
	return []crud.Record{
		{"name": "Jane Doe", "department": "Logistics", "status": "active"},
		{"name": "John Smith", "department": "Finance", "status": "active"},
		{"name": "Mary Major", "department": "Logistics", "status": "on_leave"},
	}
}

func TestFilter(t *testing.T) {
	schema := employeeSchema()
	records := sampleRecords()

	t.Run("EmptyCriteriaReturnsEverything", func(t *testing.T) {
		out := crud.Filter(schema, records, "", nil)
		assert.Equal(t, records, out)
	})

	t.Run("QueryIsCaseInsensitive", func(t *testing.T) {
		out := crud.Filter(schema, records, "jane", nil)
		require.Len(t, out, 1)
		assert.Equal(t, "Jane Doe", out[0].String("name"))
	})

	t.Run("QueryMatchesAnySearchableField", func(t *testing.T) {
		out := crud.Filter(schema, records, "logistics", nil)
		assert.Len(t, out, 2)
	})

	t.Run("FiltersCombineWithAnd", func(t *testing.T) {
		out := crud.Filter(schema, records, "", map[string]string{
			"department": "Logistics",
			"status":     "active",
		})
		require.Len(t, out, 1)
		assert.Equal(t, "Jane Doe", out[0].String("name"))
	})

	t.Run("NoMatchesReturnsEmptyNonNilSlice", func(t *testing.T) {
		out := crud.Filter(schema, records, "nobody", nil)
		require.NotNil(t, out)
		assert.Empty(t, out)
	})

	t.Run("NarrowingCriteriaNeverGrowsResults", func(t *testing.T) {
		broad := crud.Filter(schema, records, "", map[string]string{"department": "Logistics"})
		narrow := crud.Filter(schema, records, "jane", map[string]string{"department": "Logistics"})
		assert.LessOrEqual(t, len(narrow), len(broad))
		for _, r := range narrow {
			assert.Contains(t, broad, r)
		}
	})
}
