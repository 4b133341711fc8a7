package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/opsdesk/backoffice/modules/hrm/domain/aggregates/employee"
	"github.com/opsdesk/backoffice/pkg/composables"
	"github.com/opsdesk/backoffice/pkg/eventbus"
)

// ValidationError reports shape failures field by field so HTTP handlers can
// answer 422 with a form-friendly error map.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for name, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", name, msg))
	}
	return strings.Join(parts, "; ")
}

const lookupScanLimit = 500

type EmployeeService struct {
	repo      employee.Repository
	publisher eventbus.EventBus
}

func NewEmployeeService(repo employee.Repository, publisher eventbus.EventBus) *EmployeeService {
	return &EmployeeService{repo: repo, publisher: publisher}
}

func (s *EmployeeService) GetByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EmployeeService) GetPaginated(ctx context.Context, params *employee.FindParams) ([]*employee.Employee, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *EmployeeService) Count(ctx context.Context, params *employee.FindParams) (int64, error) {
	return s.repo.Count(ctx, params)
}

func (s *EmployeeService) Create(ctx context.Context, data *employee.Employee) (*employee.Employee, error) {
	if data.Status == "" {
		data.Status = employee.StatusActive
	}
	if err := validateEmployee(data); err != nil {
		return nil, err
	}
	data.EnsureSubRecordKeys()
	created, err := s.repo.Create(ctx, data)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&employee.CreatedEvent{Result: created})
	return created, nil
}

func (s *EmployeeService) Update(ctx context.Context, data *employee.Employee) (*employee.Employee, error) {
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (*employee.Employee, error) {
		// Omitted status keeps the stored value, mirroring the create default.
		if data.Status == "" {
			existing, err := s.repo.GetByID(txCtx, data.ID)
			if err != nil {
				return nil, err
			}
			data.Status = existing.Status
		}
		if err := validateEmployee(data); err != nil {
			return nil, err
		}
		data.EnsureSubRecordKeys()
		return s.repo.Update(txCtx, data)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&employee.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(&employee.DeletedEvent{ID: id})
	return nil
}

func (s *EmployeeService) Readiness(ctx context.Context, id uuid.UUID) (employee.Readiness, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return employee.Readiness{}, err
	}
	return entity.Readiness, nil
}

func (s *EmployeeService) UpdateReadiness(ctx context.Context, id uuid.UUID, readiness employee.Readiness) (*employee.Employee, error) {
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (*employee.Employee, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		entity.Readiness = readiness
		return s.repo.Update(txCtx, entity)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&employee.UpdatedEvent{Result: updated})
	return updated, nil
}

// LookupItem is the slim shape dropdowns consume across every module that
// references an employee.
type LookupItem struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
}

// Lookup fuzzy-matches the query against full names so partial or slightly
// misspelled input still finds the person. An empty query returns the first
// page of active employees.
func (s *EmployeeService) Lookup(ctx context.Context, query string, limit int) ([]LookupItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	employees, err := s.repo.GetPaginated(ctx, &employee.FindParams{Limit: lookupScanLimit})
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		items := make([]LookupItem, 0, limit)
		for _, e := range employees {
			if len(items) == limit {
				break
			}
			items = append(items, LookupItem{ID: e.ID, Name: e.FullName(), Department: e.Department})
		}
		return items, nil
	}
	type ranked struct {
		item LookupItem
		rank int
	}
	matches := make([]ranked, 0)
	for _, e := range employees {
		rank := fuzzy.RankMatchNormalizedFold(query, e.FullName())
		if rank < 0 {
			continue
		}
		matches = append(matches, ranked{
			item: LookupItem{ID: e.ID, Name: e.FullName(), Department: e.Department},
			rank: rank,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].rank < matches[j].rank })
	items := make([]LookupItem, 0, limit)
	for _, m := range matches {
		if len(items) == limit {
			break
		}
		items = append(items, m.item)
	}
	return items, nil
}

func validateEmployee(data *employee.Employee) error {
	fields := map[string]string{}
	if data.FirstName == "" {
		fields["firstName"] = "required"
	}
	if data.LastName == "" {
		fields["lastName"] = "required"
	}
	switch data.NationalityType {
	case employee.Citizen:
		if data.CivilID == "" {
			fields["civilId"] = "required for citizens"
		}
	case employee.Foreigner:
		if data.ResidencyNumber == "" {
			fields["residencyNumber"] = "required for foreigners"
		}
	case "":
		fields["nationalityType"] = "required"
	default:
		fields["nationalityType"] = "must be citizen or foreigner"
	}
	switch data.Status {
	case employee.StatusActive, employee.StatusOnLeave, employee.StatusTerminated:
	default:
		fields["status"] = "must be one of: active, on_leave, terminated"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
