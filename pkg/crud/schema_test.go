package crud_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/backoffice/pkg/crud"
)

func employeeSchema() *crud.Schema {
	return crud.NewSchema(
		"employees",
		"employees",
		crud.NewUUIDField("id", crud.WithKey()),
		crud.NewStringField("name", crud.WithRequired(), crud.WithSearchable()),
		crud.NewStringField("department", crud.WithSearchable(), crud.WithFilterable()),
		crud.NewStringField("status",
			crud.WithOptions("active", "on_leave", "terminated"),
			crud.WithDefault("active"),
		),
		crud.NewStringField("nationality_type", crud.WithOptions("citizen", "foreigner")),
		crud.NewStringField("civil_id", crud.WithRequiredWhen("nationality_type", "citizen")),
		crud.NewStringField("residency_number", crud.WithRequiredWhen("nationality_type", "foreigner")),
		crud.NewDateField("hired_at"),
		crud.NewIntField("grade"),
		crud.NewDecimalField("salary_amount"),
		crud.NewSubRecordsField("emergency_contacts", []crud.Field{
			crud.NewStringField("name", crud.WithRequired()),
			crud.NewStringField("phone"),
		}),
		crud.NewDateTimeField("created_at", crud.WithReadonly()),
		crud.NewDateTimeField("updated_at", crud.WithReadonly()),
	)
}

func TestSchema_ParseInput(t *testing.T) {
	schema := employeeSchema()

	t.Run("CoercesDeclaredTypes", func(t *testing.T) {
		record, errs := schema.ParseInput(map[string]any{
			"name":          "Jane Doe",
			"hired_at":      "2024-03-01",
			"grade":         float64(7),
			"salary_amount": "1250.500",
		})
		require.Nil(t, errs)
		assert.Equal(t, "Jane Doe", record.String("name"))
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), record.Time("hired_at"))
		assert.Equal(t, int64(7), record.Int("grade"))
		assert.Equal(t, "1250.5", record.Decimal("salary_amount").String())
	})

	t.Run("RejectsUnparseableValues", func(t *testing.T) {
		_, errs := schema.ParseInput(map[string]any{
			"name":     "Jane Doe",
			"hired_at": "not-a-date",
			"grade":    "seven",
		})
		require.NotNil(t, errs)
		assert.Contains(t, errs["hired_at"], "invalid date")
		assert.Contains(t, errs["grade"], "invalid number")
	})

	t.Run("IgnoresReadonlyAndUnknownKeys", func(t *testing.T) {
		record, errs := schema.ParseInput(map[string]any{
			"name":       "Jane Doe",
			"created_at": "2020-01-01T00:00:00Z",
			"bogus":      "dropped",
		})
		require.Nil(t, errs)
		_, hasCreatedAt := record["created_at"]
		assert.False(t, hasCreatedAt)
		_, hasBogus := record["bogus"]
		assert.False(t, hasBogus)
	})

	t.Run("AssignsSubRecordKeys", func(t *testing.T) {
		record, errs := schema.ParseInput(map[string]any{
			"name": "Jane Doe",
			"emergency_contacts": []any{
				map[string]any{"name": "John Doe", "phone": "+123456"},
				map[string]any{"key": "existing-key", "name": "Mary Doe"},
			},
		})
		require.Nil(t, errs)
		contacts := record.SubRecords("emergency_contacts")
		require.Len(t, contacts, 2)
		generated, ok := contacts[0][crud.SubRecordKey].(string)
		require.True(t, ok)
		_, err := uuid.Parse(generated)
		assert.NoError(t, err)
		assert.Equal(t, "existing-key", contacts[1][crud.SubRecordKey])
	})
}

func TestSchema_Validate(t *testing.T) {
	schema := employeeSchema()

	t.Run("RequiredField", func(t *testing.T) {
		errs := schema.Validate(crud.Record{"department": "Logistics"})
		require.NotNil(t, errs)
		assert.Equal(t, "required", errs["name"])
	})

	t.Run("ConditionallyRequiredForCitizen", func(t *testing.T) {
		errs := schema.Validate(crud.Record{
			"name":             "Jane Doe",
			"nationality_type": "citizen",
			"residency_number": "RN-1",
		})
		require.NotNil(t, errs)
		assert.Contains(t, errs, "civil_id")
		assert.NotContains(t, errs, "residency_number")
	})

	t.Run("ConditionallyRequiredForForeigner", func(t *testing.T) {
		errs := schema.Validate(crud.Record{
			"name":             "Jane Doe",
			"nationality_type": "foreigner",
			"civil_id":         "CID-1",
		})
		require.NotNil(t, errs)
		assert.Contains(t, errs, "residency_number")
		assert.NotContains(t, errs, "civil_id")
	})

	t.Run("OptionMembership", func(t *testing.T) {
		errs := schema.Validate(crud.Record{"name": "Jane Doe", "status": "retired"})
		require.NotNil(t, errs)
		assert.Contains(t, errs["status"], "must be one of")
	})

	t.Run("ValidRecord", func(t *testing.T) {
		errs := schema.Validate(crud.Record{
			"name":             "Jane Doe",
			"status":           "active",
			"nationality_type": "citizen",
			"civil_id":         "CID-1",
		})
		assert.Nil(t, errs)
	})
}

func TestSchema_ApplyDefaults(t *testing.T) {
	schema := employeeSchema()

	record := crud.Record{"name": "Jane Doe"}
	schema.ApplyDefaults(record)
	assert.Equal(t, "active", record.String("status"))

	explicit := crud.Record{"name": "Jane Doe", "status": "on_leave"}
	schema.ApplyDefaults(explicit)
	assert.Equal(t, "on_leave", explicit.String("status"))
}
