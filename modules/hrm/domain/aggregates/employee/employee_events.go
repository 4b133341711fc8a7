package employee

import "github.com/google/uuid"

type CreatedEvent struct {
	Result *Employee
}

type UpdatedEvent struct {
	Result *Employee
}

type DeletedEvent struct {
	ID uuid.UUID
}
