package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/backoffice/modules/hrm/domain/aggregates/employee"
	"github.com/opsdesk/backoffice/modules/hrm/infrastructure/persistence"
	"github.com/opsdesk/backoffice/modules/hrm/services"
)

type stubPublisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (p *stubPublisher) Publish(args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, args...)
}

func (p *stubPublisher) Subscribe(interface{})   {}
func (p *stubPublisher) Unsubscribe(interface{}) {}
func (p *stubPublisher) Clear()                  {}
func (p *stubPublisher) SubscribersCount() int   { return 0 }

func (p *stubPublisher) Events() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]interface{}(nil), p.events...)
}

type mockEmployeeRepository struct {
	mu        sync.RWMutex
	employees map[uuid.UUID]*employee.Employee
	order     []uuid.UUID
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{employees: map[uuid.UUID]*employee.Employee{}}
}

func (r *mockEmployeeRepository) GetPaginated(_ context.Context, params *employee.FindParams) ([]*employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*employee.Employee, 0, len(r.order))
	for _, id := range r.order {
		e := r.employees[id]
		if params.Department != "" && e.Department != params.Department {
			continue
		}
		if params.Status != "" && e.Status != params.Status {
			continue
		}
		out = append(out, e)
	}
	if params.Limit > 0 && params.Limit < len(out) {
		out = out[:params.Limit]
	}
	return out, nil
}

func (r *mockEmployeeRepository) Count(ctx context.Context, params *employee.FindParams) (int64, error) {
	all, err := r.GetPaginated(ctx, &employee.FindParams{Department: params.Department, Status: params.Status})
	return int64(len(all)), err
}

func (r *mockEmployeeRepository) GetByID(_ context.Context, id uuid.UUID) (*employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.employees[id]
	if !ok {
		return nil, persistence.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *mockEmployeeRepository) Create(_ context.Context, data *employee.Employee) (*employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data.ID = uuid.New()
	data.CreatedAt = time.Now()
	data.UpdatedAt = time.Now()
	r.employees[data.ID] = data
	r.order = append(r.order, data.ID)
	return data, nil
}

func (r *mockEmployeeRepository) Update(_ context.Context, data *employee.Employee) (*employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[data.ID]; !ok {
		return nil, persistence.ErrEmployeeNotFound
	}
	data.UpdatedAt = time.Now()
	r.employees[data.ID] = data
	return data, nil
}

func (r *mockEmployeeRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[id]; !ok {
		return persistence.ErrEmployeeNotFound
	}
	delete(r.employees, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func validCitizen() *employee.Employee {
	return &employee.Employee{
		FirstName:       "Jane",
		LastName:        "Doe",
		Department:      "Logistics",
		NationalityType: employee.Citizen,
		CivilID:         "291012345678",
	}
}

func TestEmployeeService_Create(t *testing.T) {
	t.Run("DefaultsStatusToActiveAndPublishes", func(t *testing.T) {
		repo := newMockEmployeeRepository()
		publisher := &stubPublisher{}
		service := services.NewEmployeeService(repo, publisher)

		created, err := service.Create(context.Background(), validCitizen())
		require.NoError(t, err)
		assert.Equal(t, employee.StatusActive, created.Status)
		assert.NotEqual(t, uuid.Nil, created.ID)

		events := publisher.Events()
		require.Len(t, events, 1)
		ev, ok := events[0].(*employee.CreatedEvent)
		require.True(t, ok)
		assert.Equal(t, created.ID, ev.Result.ID)
	})

	t.Run("CitizenWithoutCivilIDFails", func(t *testing.T) {
		service := services.NewEmployeeService(newMockEmployeeRepository(), &stubPublisher{})
		data := validCitizen()
		data.CivilID = ""

		_, err := service.Create(context.Background(), data)
		var verr *services.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "civilId")
	})

	t.Run("ForeignerWithoutResidencyNumberFails", func(t *testing.T) {
		service := services.NewEmployeeService(newMockEmployeeRepository(), &stubPublisher{})
		data := validCitizen()
		data.NationalityType = employee.Foreigner
		data.CivilID = ""

		_, err := service.Create(context.Background(), data)
		var verr *services.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "residencyNumber")
		assert.NotContains(t, verr.Fields, "civilId")
	})

	t.Run("AssignsSubRecordKeys", func(t *testing.T) {
		service := services.NewEmployeeService(newMockEmployeeRepository(), &stubPublisher{})
		data := validCitizen()
		data.EmergencyContacts = []employee.EmergencyContact{{Name: "John Doe", Phone: "+123"}}

		created, err := service.Create(context.Background(), data)
		require.NoError(t, err)
		require.Len(t, created.EmergencyContacts, 1)
		assert.NotEmpty(t, created.EmergencyContacts[0].Key)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	t.Run("OmittedStatusKeepsStoredValue", func(t *testing.T) {
		repo := newMockEmployeeRepository()
		service := services.NewEmployeeService(repo, &stubPublisher{})

		data := validCitizen()
		data.Status = employee.StatusOnLeave
		created, err := service.Create(context.Background(), data)
		require.NoError(t, err)

		draft := validCitizen()
		draft.ID = created.ID
		draft.Phone = "+96550000000"

		updated, err := service.Update(context.Background(), draft)
		require.NoError(t, err)
		assert.Equal(t, employee.StatusOnLeave, updated.Status)
		assert.Equal(t, "+96550000000", updated.Phone)
	})

	t.Run("InvalidStatusFails", func(t *testing.T) {
		repo := newMockEmployeeRepository()
		service := services.NewEmployeeService(repo, &stubPublisher{})

		created, err := service.Create(context.Background(), validCitizen())
		require.NoError(t, err)

		draft := validCitizen()
		draft.ID = created.ID
		draft.Status = "gone_fishing"

		_, err = service.Update(context.Background(), draft)
		var verr *services.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "status")
	})
}

func TestEmployeeService_Readiness(t *testing.T) {
	repo := newMockEmployeeRepository()
	service := services.NewEmployeeService(repo, &stubPublisher{})

	created, err := service.Create(context.Background(), validCitizen())
	require.NoError(t, err)

	readiness, err := service.Readiness(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, readiness.ReadyForField())

	_, err = service.UpdateReadiness(context.Background(), created.ID, employee.Readiness{
		LicenseValid:     true,
		TrainingComplete: true,
		MedicallyFit:     true,
		VehicleAssigned:  true,
	})
	require.NoError(t, err)

	readiness, err = service.Readiness(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, readiness.ReadyForField())
}

func TestEmployeeService_Lookup(t *testing.T) {
	repo := newMockEmployeeRepository()
	service := services.NewEmployeeService(repo, &stubPublisher{})

	for _, name := range [][2]string{{"Jane", "Doe"}, {"John", "Smith"}, {"Mary", "Major"}} {
		data := validCitizen()
		data.FirstName = name[0]
		data.LastName = name[1]
		_, err := service.Create(context.Background(), data)
		require.NoError(t, err)
	}

	t.Run("FuzzyMatch", func(t *testing.T) {
		items, err := service.Lookup(context.Background(), "jne doe", 10)
		require.NoError(t, err)
		require.NotEmpty(t, items)
		assert.Equal(t, "Jane Doe", items[0].Name)
	})

	t.Run("EmptyQueryReturnsFirstPage", func(t *testing.T) {
		items, err := service.Lookup(context.Background(), "", 2)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("NoMatches", func(t *testing.T) {
		items, err := service.Lookup(context.Background(), "zzzzqq", 10)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	repo := newMockEmployeeRepository()
	publisher := &stubPublisher{}
	service := services.NewEmployeeService(repo, publisher)

	created, err := service.Create(context.Background(), validCitizen())
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))
	_, err = service.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, persistence.ErrEmployeeNotFound)

	// a failed delete leaves the store untouched
	err = service.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, persistence.ErrEmployeeNotFound)
}
