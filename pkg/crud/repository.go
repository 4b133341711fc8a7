package crud

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/opsdesk/backoffice/pkg/repo"
)

var ErrNotFound = errors.New("record not found")

// FindParams carries the list criteria shared by List and Count. A zero
// Limit means no limit.
type FindParams struct {
	Query   string
	Filters map[string]string
	Limit   int
	Offset  int
	SortBy  repo.SortBy
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]Record, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Record, error)
	Create(ctx context.Context, record Record) (Record, error)
	Update(ctx context.Context, id uuid.UUID, record Record) (Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
