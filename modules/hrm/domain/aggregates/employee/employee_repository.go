package employee

import (
	"context"

	"github.com/google/uuid"

	"github.com/opsdesk/backoffice/pkg/repo"
)

type FindParams struct {
	Query      string
	Department string
	Status     Status
	Limit      int
	Offset     int
	SortBy     repo.SortBy
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]*Employee, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	Create(ctx context.Context, data *Employee) (*Employee, error)
	Update(ctx context.Context, data *Employee) (*Employee, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
