package crud

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps records of one schema in process memory. It backs
// tests and local tooling with the same contract as PgRepository.
type MemoryRepository struct {
	schema  *Schema
	mu      sync.RWMutex
	records map[uuid.UUID]Record
	order   []uuid.UUID
}

func NewMemoryRepository(schema *Schema) *MemoryRepository {
	return &MemoryRepository{
		schema:  schema,
		records: make(map[uuid.UUID]Record),
	}
}

func (r *MemoryRepository) matching(params *FindParams) []Record {
	all := make([]Record, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.records[id].Clone())
	}
	matched := Filter(r.schema, all, params.Query, params.Filters)
	for _, s := range params.SortBy.Fields {
		field := s.Field
		asc := s.Ascending
		sort.SliceStable(matched, func(i, j int) bool {
			a := stringifyValue(matched[i][field])
			b := stringifyValue(matched[j][field])
			if asc {
				return a < b
			}
			return a > b
		})
	}
	return matched
}

func (r *MemoryRepository) List(_ context.Context, params *FindParams) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := r.matching(params)
	if params.Offset > 0 {
		if params.Offset >= len(matched) {
			return []Record{}, nil
		}
		matched = matched[params.Offset:]
	}
	if params.Limit > 0 && params.Limit < len(matched) {
		matched = matched[:params.Limit]
	}
	return matched, nil
}

func (r *MemoryRepository) Count(_ context.Context, params *FindParams) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.matching(params))), nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return record.Clone(), nil
}

func (r *MemoryRepository) Create(_ context.Context, record Record) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := record.Clone()
	id := uuid.New()
	now := time.Now()
	stored["id"] = id
	stored["created_at"] = now
	stored["updated_at"] = now
	r.records[id] = stored
	r.order = append(r.order, id)
	return stored.Clone(), nil
}

func (r *MemoryRepository) Update(_ context.Context, id uuid.UUID, record Record) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	stored := record.Clone()
	stored["id"] = id
	stored["created_at"] = existing["created_at"]
	stored["updated_at"] = time.Now()
	r.records[id] = stored
	return stored.Clone(), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return ErrNotFound
	}
	delete(r.records, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
