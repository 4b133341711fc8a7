package travel

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/opsdesk/backoffice/pkg/crud"
)

// Rollup is one aggregation group: trips counted, the size of the distinct
// secondary-key set (destinations per employee, or travelers per country),
// and the cost totals. AverageCost is derived at read, never stored, and an
// empty group is never divided.
type Rollup struct {
	Key           string          `json:"key"`
	Trips         int             `json:"trips"`
	DistinctCount int             `json:"distinctCount"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	AverageCost   decimal.Decimal `json:"averageCost"`
}

// RollupBy groups travel request records by the primary field, counting
// trips, distinct secondary-field values and summing the cost field.
// Records with an empty primary key are skipped. Groups are ordered by trip
// count descending, ties broken by key for a stable listing.
func RollupBy(records []crud.Record, primary, secondary, costField string) []Rollup {
	type group struct {
		trips    int
		distinct map[string]struct{}
		total    decimal.Decimal
	}
	groups := map[string]*group{}
	for _, record := range records {
		key := stringKey(record[primary])
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &group{distinct: map[string]struct{}{}}
			groups[key] = g
		}
		g.trips++
		if sec := stringKey(record[secondary]); sec != "" {
			g.distinct[sec] = struct{}{}
		}
		g.total = g.total.Add(record.Decimal(costField))
	}
	rollups := make([]Rollup, 0, len(groups))
	for key, g := range groups {
		r := Rollup{
			Key:           key,
			Trips:         g.trips,
			DistinctCount: len(g.distinct),
			TotalCost:     g.total,
		}
		if g.trips > 0 {
			r.AverageCost = g.total.DivRound(decimal.NewFromInt(int64(g.trips)), 3)
		}
		rollups = append(rollups, r)
	}
	sort.Slice(rollups, func(i, j int) bool {
		if rollups[i].Trips != rollups[j].Trips {
			return rollups[i].Trips > rollups[j].Trips
		}
		return rollups[i].Key < rollups[j].Key
	})
	return rollups
}

func stringKey(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case interface{ String() string }:
		return val.String()
	default:
		return ""
	}
}

// ByCountry groups by destination country; the distinct set counts how many
// different employees traveled there.
func ByCountry(records []crud.Record) []Rollup {
	return RollupBy(records, "destination_country", "employee_id", "estimated_cost")
}

// ByEmployee groups by employee; the distinct set counts how many different
// countries the employee visited.
func ByEmployee(records []crud.Record) []Rollup {
	return RollupBy(records, "employee_id", "destination_country", "estimated_cost")
}
