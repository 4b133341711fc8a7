package crud

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is the dynamic representation of one resource row. Values are keyed
// by field name and hold the coerced Go types produced by Schema.ParseInput
// (string, int64, float64, bool, time.Time, uuid.UUID, decimal.Decimal,
// []SubRecord) or nil for absent columns.
type Record map[string]any

// SubRecord is one entry of a keyed sub-group. The SubRecordKey field is
// always present once the record passed through Schema.ParseInput.
type SubRecord map[string]any

// SubRecordKey is the reserved field that identifies a sub-record entry.
const SubRecordKey = "key"

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		if subs, ok := v.([]SubRecord); ok {
			cloned := make([]SubRecord, len(subs))
			for i, sub := range subs {
				c := make(SubRecord, len(sub))
				for sk, sv := range sub {
					c[sk] = sv
				}
				cloned[i] = c
			}
			out[k] = cloned
			continue
		}
		out[k] = v
	}
	return out
}

func (r Record) ID() uuid.UUID {
	id, _ := r["id"].(uuid.UUID)
	return id
}

func (r Record) String(name string) string {
	v, _ := r[name].(string)
	return v
}

func (r Record) Int(name string) int64 {
	v, _ := r[name].(int64)
	return v
}

func (r Record) Float(name string) float64 {
	v, _ := r[name].(float64)
	return v
}

func (r Record) Bool(name string) bool {
	v, _ := r[name].(bool)
	return v
}

func (r Record) Time(name string) time.Time {
	v, _ := r[name].(time.Time)
	return v
}

func (r Record) Decimal(name string) decimal.Decimal {
	v, _ := r[name].(decimal.Decimal)
	return v
}

func (r Record) SubRecords(name string) []SubRecord {
	v, _ := r[name].([]SubRecord)
	return v
}
