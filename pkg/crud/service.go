package crud

import (
	"context"

	"github.com/google/uuid"

	"github.com/opsdesk/backoffice/pkg/composables"
	"github.com/opsdesk/backoffice/pkg/eventbus"
)

type Service interface {
	List(ctx context.Context, params *FindParams) ([]Record, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Record, error)
	Create(ctx context.Context, input Record) (Record, error)
	Update(ctx context.Context, id uuid.UUID, input Record) (Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DefaultService implements the shared lifecycle for schema-driven
// resources: defaults, validation, persistence and domain events.
type DefaultService struct {
	schema    *Schema
	repo      Repository
	publisher eventbus.EventBus
}

func NewDefaultService(schema *Schema, repo Repository, publisher eventbus.EventBus) *DefaultService {
	return &DefaultService{schema: schema, repo: repo, publisher: publisher}
}

func (s *DefaultService) Schema() *Schema { return s.schema }

func (s *DefaultService) List(ctx context.Context, params *FindParams) ([]Record, error) {
	return s.repo.List(ctx, params)
}

func (s *DefaultService) Count(ctx context.Context, params *FindParams) (int64, error) {
	return s.repo.Count(ctx, params)
}

func (s *DefaultService) GetByID(ctx context.Context, id uuid.UUID) (Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DefaultService) Create(ctx context.Context, input Record) (Record, error) {
	record := input.Clone()
	s.schema.ApplyDefaults(record)
	if errs := s.schema.Validate(record); errs != nil {
		return nil, errs
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&CreatedEvent{Resource: s.schema.Name, Result: created})
	return created, nil
}

// Update merges the input over the stored record, so partial payloads leave
// untouched fields intact, then re-validates the full record. The read and
// the write run in one transaction.
func (s *DefaultService) Update(ctx context.Context, id uuid.UUID, input Record) (Record, error) {
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (Record, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		merged := existing.Clone()
		for name, value := range input {
			merged[name] = value
		}
		if errs := s.schema.Validate(merged); errs != nil {
			return nil, errs
		}
		return s.repo.Update(txCtx, id, merged)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&UpdatedEvent{Resource: s.schema.Name, Result: updated})
	return updated, nil
}

func (s *DefaultService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(&DeletedEvent{Resource: s.schema.Name, ID: id})
	return nil
}

var _ Service = (*DefaultService)(nil)
