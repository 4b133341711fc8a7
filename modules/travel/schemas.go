package travel

import "github.com/opsdesk/backoffice/pkg/crud"

func timestamps() []crud.Field {
	return []crud.Field{
		crud.NewDateTimeField("created_at", crud.WithReadonly()),
		crud.NewDateTimeField("updated_at", crud.WithReadonly()),
	}
}

func withTimestamps(fields ...crud.Field) []crud.Field {
	return append(fields, timestamps()...)
}

func RequestsSchema() *crud.Schema {
	return crud.NewSchema("travel_requests", "travel_requests", withTimestamps(
		crud.NewUUIDField("id", crud.WithKey()),
		crud.NewUUIDField("employee_id", crud.WithRequired()),
		crud.NewStringField("employee_name", crud.WithSearchable()),
		crud.NewStringField("destination_country", crud.WithRequired(), crud.WithSearchable(), crud.WithFilterable()),
		crud.NewStringField("destination_city", crud.WithSearchable()),
		crud.NewStringField("purpose", crud.WithMultiline()),
		crud.NewDateField("start_date", crud.WithRequired()),
		crud.NewDateField("end_date", crud.WithRequired()),
		crud.NewDecimalField("estimated_cost"),
		crud.NewStringField("status",
			crud.WithOptions("pending", "approved", "rejected"),
			crud.WithDefault("pending"),
		),
	)...)
}

func AuthorizationsSchema() *crud.Schema {
	return crud.NewSchema("travel_authorizations", "travel_authorizations", withTimestamps(
		crud.NewUUIDField("id", crud.WithKey()),
		crud.NewUUIDField("request_id", crud.WithRequired()),
		crud.NewStringField("approver", crud.WithSearchable()),
		crud.NewStringField("authorization_number", crud.WithRequired(), crud.WithSearchable()),
		crud.NewDateField("issue_date"),
		crud.NewDateField("valid_until"),
		crud.NewDecimalField("actual_cost"),
	)...)
}

func ItinerariesSchema() *crud.Schema {
	return crud.NewSchema("itineraries", "itineraries", withTimestamps(
		crud.NewUUIDField("id", crud.WithKey()),
		crud.NewUUIDField("authorization_id", crud.WithRequired()),
		crud.NewSubRecordsField("legs", []crud.Field{
			crud.NewStringField("from", crud.WithRequired()),
			crud.NewStringField("to", crud.WithRequired()),
			crud.NewDateTimeField("depart_at"),
			crud.NewDateTimeField("arrive_at"),
			crud.NewStringField("carrier"),
		}),
	)...)
}
