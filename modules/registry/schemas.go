package registry

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

// GovernmentDocumentsSchema covers licenses, permits and other expiring
// official paperwork. Expiry dates feed the dashboard alert list.
func GovernmentDocumentsSchema() *crud.Schema {
	return crud.NewSchema("government_documents", "government_documents", withTimestamps(
		crud.NewUUIDField("id", crud.WithKey()),
		crud.NewStringField("title", crud.WithRequired(), crud.WithSearchable()),
		crud.NewStringField("document_number", crud.WithRequired(), crud.WithSearchable()),
		crud.NewStringField("category",
			crud.WithOptions("license", "permit", "certificate", "registration", "other"),
			crud.WithDefault("other"),
		),
		crud.NewStringField("issuing_authority", crud.WithSearchable()),
		crud.NewDateField("issue_date"),
		crud.NewDateField("expiry_date"),
		crud.NewStringField("status",
			crud.WithOptions("active", "expired", "renewal_in_progress"),
			crud.WithDefault("active"),
		),
		crud.NewUUIDField("employee_id"),
		crud.NewStringField("notes", crud.WithMultiline()),
	)...)
}

func VehiclesSchema() *crud.Schema {
	return crud.NewSchema("vehicles", "vehicle_registrations", withTimestamps(
		crud.NewUUIDField("id", crud.WithKey()),
		crud.NewStringField("plate_number", crud.WithRequired(), crud.WithSearchable()),
		crud.NewStringField("make", crud.WithSearchable()),
		crud.NewStringField("model", crud.WithSearchable()),
		crud.NewIntField("year"),
		crud.NewUUIDField("owner_employee_id"),
		crud.NewDateField("registration_expiry"),
		crud.NewDateField("insurance_expiry"),
		crud.NewStringField("payment_system",
			crud.WithOptions("cash", "installments"),
			crud.WithDefault("cash"),
		),
		crud.NewDecimalField("purchase_price"),
		crud.NewIntField("installment_months", crud.WithRequiredWhen("payment_system", "installments")),
		crud.NewDecimalField("installment_amount"),
		crud.NewStringField("status",
			crud.WithOptions("active", "sold", "scrapped"),
			crud.WithDefault("active"),
		),
	)...)
}

func CorrespondenceSchema() *crud.Schema {
	return crud.NewSchema("correspondence", "correspondence", withTimestamps(
		crud.NewUUIDField("id", crud.WithKey()),
		crud.NewStringField("subject", crud.WithRequired(), crud.WithSearchable()),
		crud.NewStringField("direction",
			crud.WithRequired(),
			crud.WithOptions("incoming", "outgoing"),
		),
		crud.NewStringField("counterparty", crud.WithSearchable()),
		crud.NewDateField("date"),
		crud.NewStringField("reference_number", crud.WithSearchable()),
		crud.NewStringField("priority",
			crud.WithOptions("low", "medium", "high"),
			crud.WithDefault("medium"),
		),
		crud.NewStringField("status",
			crud.WithOptions("open", "closed"),
			crud.WithDefault("open"),
		),
		crud.NewStringField("notes", crud.WithMultiline()),
	)...)
}

func LegalCasesSchema() *crud.Schema {
	return crud.NewSchema("legal_cases", "legal_cases", withTimestamps(
		crud.NewUUIDField("id", crud.WithKey()),
		crud.NewStringField("case_number", crud.WithRequired(), crud.WithSearchable()),
		crud.NewStringField("court", crud.WithSearchable()),
		crud.NewStringField("subject", crud.WithSearchable(), crud.WithMultiline()),
		crud.NewStringField("status",
			crud.WithOptions("open", "in_progress", "closed"),
			crud.WithDefault("open"),
		),
		crud.NewStringField("priority",
			crud.WithOptions("low", "medium", "high"),
			crud.WithDefault("medium"),
		),
		crud.NewDecimalField("total_claim"),
		crud.NewSubRecordsField("parties", []crud.Field{
			crud.NewStringField("name", crud.WithRequired()),
			crud.NewStringField("role"),
			crud.NewStringField("counsel"),
		}),
	)...)
}

func FacilityApprovalsSchema() *crud.Schema {
	return crud.NewSchema("facility_approvals", "facility_approvals", withTimestamps(
		crud.NewUUIDField("id", crud.WithKey()),
		crud.NewStringField("facility_name", crud.WithRequired(), crud.WithSearchable()),
		crud.NewStringField("kind",
			crud.WithOptions("warehouse", "office", "workshop", "site", "other"),
			crud.WithDefault("other"),
		),
		crud.NewStringField("approval_number", crud.WithSearchable()),
		crud.NewDateField("issue_date"),
		crud.NewDateField("expiry_date"),
		crud.NewStringField("status",
			crud.WithOptions("active", "expired", "suspended"),
			crud.WithDefault("active"),
		),
		crud.NewSubRecordsField("other_approvals", []crud.Field{
			crud.NewStringField("authority", crud.WithRequired()),
			crud.NewStringField("number"),
			crud.NewDateField("expiry_date"),
		}),
	)...)
}

func GuidelinesSchema() *crud.Schema {
	return crud.NewSchema("guidelines", "guidelines", withTimestamps(
		crud.NewUUIDField("id", crud.WithKey()),
		crud.NewStringField("title", crud.WithRequired(), crud.WithSearchable()),
		crud.NewStringField("body", crud.WithMultiline()),
		crud.NewStringField("category", crud.WithFilterable(), crud.WithSearchable()),
		crud.NewDateField("effective_date"),
		crud.NewStringField("version"),
	)...)
}
