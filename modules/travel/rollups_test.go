package travel_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/backoffice/modules/travel"
	"github.com/opsdesk/backoffice/pkg/crud"
)

func trip(employee, country string, cost int64) crud.Record {
	return crud.Record{
		"employee_id":         employee,
		"destination_country": country,
		"estimated_cost":      decimal.NewFromInt(cost),
	}
}

func TestRollups_ByCountry(t *testing.T) {
	records := []crud.Record{
		trip("emp-1", "France", 1000),
		trip("emp-2", "France", 2000),
		trip("emp-1", "France", 600),
		trip("emp-3", "Japan", 5000),
	}

	rollups := travel.ByCountry(records)
	require.Len(t, rollups, 2)

	france := rollups[0]
	assert.Equal(t, "France", france.Key)
	assert.Equal(t, 3, france.Trips)
	assert.Equal(t, 2, france.DistinctCount)
	assert.True(t, france.TotalCost.Equal(decimal.NewFromInt(3600)))
	assert.True(t, france.AverageCost.Equal(decimal.NewFromInt(1200)), "got %s", france.AverageCost)

	japan := rollups[1]
	assert.Equal(t, "Japan", japan.Key)
	assert.Equal(t, 1, japan.Trips)
	assert.Equal(t, 1, japan.DistinctCount)
}

func TestRollups_ByEmployee(t *testing.T) {
	records := []crud.Record{
		trip("emp-1", "France", 1000),
		trip("emp-1", "Japan", 3000),
		trip("emp-2", "France", 500),
	}

	rollups := travel.ByEmployee(records)
	require.Len(t, rollups, 2)
	assert.Equal(t, "emp-1", rollups[0].Key)
	assert.Equal(t, 2, rollups[0].Trips)
	assert.Equal(t, 2, rollups[0].DistinctCount)
}

func TestRollups_EmptyInput(t *testing.T) {
	rollups := travel.ByCountry(nil)
	require.NotNil(t, rollups)
	assert.Empty(t, rollups)
}

func TestRollups_SkipsRecordsWithoutGroupKey(t *testing.T) {
	records := []crud.Record{
		trip("emp-1", "", 1000),
		trip("emp-2", "France", 700),
	}
	rollups := travel.ByCountry(records)
	require.Len(t, rollups, 1)
	assert.Equal(t, "France", rollups[0].Key)
}

func TestRollups_MissingCostsCountAsZero(t *testing.T) {
	records := []crud.Record{
		{"employee_id": "emp-1", "destination_country": "France"},
		trip("emp-1", "France", 900),
	}
	rollups := travel.ByCountry(records)
	require.Len(t, rollups, 1)
	assert.True(t, rollups[0].TotalCost.Equal(decimal.NewFromInt(900)))
	assert.True(t, rollups[0].AverageCost.Equal(decimal.NewFromInt(450)))
}
