package crud

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FieldErrors maps field names to human-readable validation messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for name, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", name, msg))
	}
	return strings.Join(parts, "; ")
}

// Schema describes one resource end to end: its REST collection name, its
// database table and the typed fields shared by the API, the repository and
// the exporters.
type Schema struct {
	Name   string
	Table  string
	fields []Field
	byName map[string]Field
}

func NewSchema(name, table string, fields ...Field) *Schema {
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}
	return &Schema{Name: name, Table: table, fields: fields, byName: byName}
}

func (s *Schema) Fields() []Field { return s.fields }

func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

func (s *Schema) KeyField() Field {
	for _, f := range s.fields {
		if f.Key {
			return f
		}
	}
	return Field{Name: "id", Type: UUIDFieldType, Key: true, Readonly: true}
}

func (s *Schema) SearchableFields() []Field {
	var out []Field
	for _, f := range s.fields {
		if f.Searchable {
			out = append(out, f)
		}
	}
	return out
}

func (s *Schema) FilterableFields() []Field {
	var out []Field
	for _, f := range s.fields {
		if f.Filterable {
			out = append(out, f)
		}
	}
	return out
}

// ParseInput coerces a decoded JSON object into a Record. Readonly and
// unknown keys are dropped. Values that cannot be coerced to the declared
// field type are rejected with a field error rather than passed through as
// raw text.
func (s *Schema) ParseInput(input map[string]any) (Record, FieldErrors) {
	record := make(Record, len(input))
	errs := FieldErrors{}
	for _, f := range s.fields {
		raw, ok := input[f.Name]
		if !ok || f.Readonly {
			continue
		}
		if raw == nil {
			record[f.Name] = nil
			continue
		}
		value, err := coerceValue(f, raw)
		if err != nil {
			errs[f.Name] = err.Error()
			continue
		}
		record[f.Name] = value
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return record, nil
}

// ApplyDefaults fills declared defaults for fields the record does not set.
func (s *Schema) ApplyDefaults(record Record) {
	for _, f := range s.fields {
		if f.Default == nil {
			continue
		}
		if v, ok := record[f.Name]; !ok || v == nil || v == "" {
			record[f.Name] = f.Default
		}
	}
}

// Validate checks requiredness, conditional requiredness and option
// membership over a full record.
func (s *Schema) Validate(record Record) FieldErrors {
	errs := FieldErrors{}
	for _, f := range s.fields {
		if f.Readonly {
			continue
		}
		value := record[f.Name]
		if isEmptyValue(value) {
			if f.Required {
				errs[f.Name] = "required"
			} else if f.RequiredWhen != nil && conditionMatches(f.RequiredWhen, record) {
				errs[f.Name] = fmt.Sprintf("required when %s is %v", f.RequiredWhen.Field, f.RequiredWhen.Equals)
			}
			continue
		}
		if len(f.Options) > 0 {
			str, _ := value.(string)
			if !contains(f.Options, str) {
				errs[f.Name] = fmt.Sprintf("must be one of: %s", strings.Join(f.Options, ", "))
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func conditionMatches(c *Condition, record Record) bool {
	return record[c.Field] == c.Equals
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []SubRecord:
		return false
	default:
		return false
	}
}

func contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}

func coerceValue(f Field, raw any) (any, error) {
	switch f.Type {
	case StringFieldType:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", raw)
		}
		return s, nil
	case IntFieldType:
		switch v := raw.(type) {
		case float64:
			if v != float64(int64(v)) {
				return nil, fmt.Errorf("expected a whole number, got %v", v)
			}
			return int64(v), nil
		case int64:
			return v, nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", v)
			}
			return n, nil
		}
		return nil, fmt.Errorf("expected a number, got %T", raw)
	case FloatFieldType:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case string:
			n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", v)
			}
			return n, nil
		}
		return nil, fmt.Errorf("expected a number, got %T", raw)
	case BoolFieldType:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected a boolean, got %T", raw)
		}
		return b, nil
	case DateFieldType:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected a date string, got %T", raw)
		}
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
		}
		return t, nil
	case DateTimeFieldType:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected a datetime string, got %T", raw)
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", time.DateTime} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("invalid datetime %q", s)
	case UUIDFieldType:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected a uuid string, got %T", raw)
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid %q", s)
		}
		return id, nil
	case DecimalFieldType:
		switch v := raw.(type) {
		case string:
			d, err := decimal.NewFromString(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("invalid decimal %q", v)
			}
			return d, nil
		case float64:
			return decimal.NewFromFloat(v), nil
		}
		return nil, fmt.Errorf("expected a decimal, got %T", raw)
	case SubRecordsFieldType:
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("expected an array, got %T", raw)
		}
		subs := make([]SubRecord, 0, len(items))
		for i, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("entry %d: expected an object, got %T", i, item)
			}
			sub := SubRecord{}
			for _, sf := range f.Sub {
				raw, ok := obj[sf.Name]
				if !ok || raw == nil {
					continue
				}
				value, err := coerceValue(sf, raw)
				if err != nil {
					return nil, fmt.Errorf("entry %d, %s: %w", i, sf.Name, err)
				}
				sub[sf.Name] = value
			}
			key, _ := obj[SubRecordKey].(string)
			if key == "" {
				key = uuid.NewString()
			}
			sub[SubRecordKey] = key
			subs = append(subs, sub)
		}
		return subs, nil
	}
	return nil, fmt.Errorf("unsupported field type %q", f.Type)
}
