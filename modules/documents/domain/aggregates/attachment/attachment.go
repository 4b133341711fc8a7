package attachment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Scope ties an attachment to the place it was uploaded from. Empty fields
// mean "any": listing by a partial scope matches every attachment whose set
// fields agree.
type Scope struct {
	Module     string `json:"module"`
	Category   string `json:"category"`
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
}

// Permissions are stored and surfaced with the attachment so clients can
// render sharing state. Enforcement lives with the identity provider, not
// here.
type Permissions struct {
	Roles       []string `json:"roles"`
	Users       []string `json:"users"`
	Departments []string `json:"departments"`
	IsPublic    bool     `json:"isPublic"`
}

type Attachment struct {
	ID          uuid.UUID
	Scope       Scope
	Title       string
	Description string
	Tags        []string
	Filename    string
	Size        int64
	MimeType    string
	// StorageKey is the ULID under which the bytes live in blob storage.
	StorageKey  string
	Permissions Permissions
	UploadedBy  string
	ExpiresAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Repository interface {
	List(ctx context.Context, scope Scope) ([]*Attachment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Attachment, error)
	Create(ctx context.Context, data *Attachment) (*Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
