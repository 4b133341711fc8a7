package crud

// FieldType enumerates the wire/storage types a schema field can take.
type FieldType string

const (
	StringFieldType     FieldType = "string"
	IntFieldType        FieldType = "int"
	FloatFieldType      FieldType = "float"
	BoolFieldType       FieldType = "bool"
	DateFieldType       FieldType = "date"
	DateTimeFieldType   FieldType = "datetime"
	UUIDFieldType       FieldType = "uuid"
	DecimalFieldType    FieldType = "decimal"
	SubRecordsFieldType FieldType = "subrecords"
)

// Condition gates conditional requiredness on a discriminant field, e.g. a
// "citizen" employee requires a civil id while a "foreigner" requires a
// residency number.
type Condition struct {
	Field  string
	Equals any
}

// Field describes one attribute of a resource. Name doubles as the JSON key
// and the database column name.
type Field struct {
	Name         string
	Type         FieldType
	Key          bool
	Required     bool
	RequiredWhen *Condition
	// Readonly fields are server-assigned (id, timestamps, computed values)
	// and ignored on input.
	Readonly   bool
	Hidden     bool
	Searchable bool
	Filterable bool
	Multiline  bool
	// Options restricts the value to a fixed set (dropdown fields).
	Options []string
	Default any
	// Sub describes the shape of each entry for SubRecordsFieldType.
	Sub []Field
}

type FieldOption func(*Field)

func WithKey() FieldOption        { return func(f *Field) { f.Key = true; f.Readonly = true } }
func WithRequired() FieldOption   { return func(f *Field) { f.Required = true } }
func WithReadonly() FieldOption   { return func(f *Field) { f.Readonly = true } }
func WithHidden() FieldOption     { return func(f *Field) { f.Hidden = true } }
func WithSearchable() FieldOption { return func(f *Field) { f.Searchable = true } }
func WithMultiline() FieldOption  { return func(f *Field) { f.Multiline = true } }

func WithFilterable() FieldOption { return func(f *Field) { f.Filterable = true } }

func WithOptions(options ...string) FieldOption {
	return func(f *Field) { f.Options = options; f.Filterable = true }
}

func WithDefault(v any) FieldOption {
	return func(f *Field) { f.Default = v }
}

func WithRequiredWhen(field string, equals any) FieldOption {
	return func(f *Field) { f.RequiredWhen = &Condition{Field: field, Equals: equals} }
}

func newField(name string, t FieldType, opts ...FieldOption) Field {
	f := Field{Name: name, Type: t}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func NewStringField(name string, opts ...FieldOption) Field {
	return newField(name, StringFieldType, opts...)
}

func NewIntField(name string, opts ...FieldOption) Field {
	return newField(name, IntFieldType, opts...)
}

func NewFloatField(name string, opts ...FieldOption) Field {
	return newField(name, FloatFieldType, opts...)
}

func NewBoolField(name string, opts ...FieldOption) Field {
	return newField(name, BoolFieldType, opts...)
}

func NewDateField(name string, opts ...FieldOption) Field {
	return newField(name, DateFieldType, opts...)
}

func NewDateTimeField(name string, opts ...FieldOption) Field {
	return newField(name, DateTimeFieldType, opts...)
}

func NewUUIDField(name string, opts ...FieldOption) Field {
	return newField(name, UUIDFieldType, opts...)
}

func NewDecimalField(name string, opts ...FieldOption) Field {
	return newField(name, DecimalFieldType, opts...)
}

// NewSubRecordsField declares a repeatable keyed sub-group (legal parties,
// facility approvals, itinerary legs). Each entry carries a stable generated
// "key" so edits address sub-records by key, never by array index.
func NewSubRecordsField(name string, sub []Field, opts ...FieldOption) Field {
	f := newField(name, SubRecordsFieldType, opts...)
	f.Sub = sub
	return f
}
