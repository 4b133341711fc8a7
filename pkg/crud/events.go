package crud

import "github.com/google/uuid"

type CreatedEvent struct {
	Resource string
	Result   Record
}

type UpdatedEvent struct {
	Resource string
	Result   Record
}

type DeletedEvent struct {
	Resource string
	ID       uuid.UUID
}
