package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/backoffice/modules/hrm/domain/aggregates/attendance"
	"github.com/opsdesk/backoffice/modules/hrm/infrastructure/persistence"
	"github.com/opsdesk/backoffice/modules/hrm/services"
)

type mockAttendanceRepository struct {
	mu      sync.RWMutex
	records map[string]*attendance.Record
}

func newMockAttendanceRepository() *mockAttendanceRepository {
	return &mockAttendanceRepository{records: map[string]*attendance.Record{}}
}

func dayKey(employeeID uuid.UUID, day time.Time) string {
	return employeeID.String() + "/" + day.Format(time.DateOnly)
}

func (r *mockAttendanceRepository) GetForDay(_ context.Context, employeeID uuid.UUID, day time.Time) (*attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[dayKey(employeeID, day)]
	if !ok {
		return nil, persistence.ErrAttendanceNotFound
	}
	return record, nil
}

func (r *mockAttendanceRepository) ListForEmployee(_ context.Context, employeeID uuid.UUID, from, to time.Time) ([]*attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*attendance.Record, 0)
	for _, record := range r.records {
		if record.EmployeeID != employeeID {
			continue
		}
		if record.Day.Before(from) || record.Day.After(to) {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (r *mockAttendanceRepository) Upsert(_ context.Context, record *attendance.Record) (*attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	r.records[dayKey(record.EmployeeID, record.Day)] = record
	return record, nil
}

func TestAttendanceService(t *testing.T) {
	employeeID := uuid.New()
	now := time.Date(2026, 8, 30, 8, 15, 0, 0, time.UTC)

	t.Run("CheckInThenCheckOut", func(t *testing.T) {
		service := services.NewAttendanceService(newMockAttendanceRepository())

		record, err := service.CheckIn(context.Background(), employeeID, now)
		require.NoError(t, err)
		require.NotNil(t, record.CheckIn)
		assert.Equal(t, attendance.StatusPresent, record.Status)
		assert.Nil(t, record.CheckOut)

		record, err = service.CheckOut(context.Background(), employeeID, now.Add(9*time.Hour))
		require.NoError(t, err)
		require.NotNil(t, record.CheckOut)
	})

	t.Run("DoubleCheckInRejected", func(t *testing.T) {
		service := services.NewAttendanceService(newMockAttendanceRepository())

		_, err := service.CheckIn(context.Background(), employeeID, now)
		require.NoError(t, err)
		_, err = service.CheckIn(context.Background(), employeeID, now.Add(time.Hour))
		assert.ErrorIs(t, err, services.ErrAlreadyCheckedIn)
	})

	t.Run("CheckOutWithoutCheckIn", func(t *testing.T) {
		service := services.NewAttendanceService(newMockAttendanceRepository())

		_, err := service.CheckOut(context.Background(), employeeID, now)
		assert.ErrorIs(t, err, services.ErrNotCheckedIn)
	})

	t.Run("MarkLeaveOverridesStamps", func(t *testing.T) {
		service := services.NewAttendanceService(newMockAttendanceRepository())

		_, err := service.CheckIn(context.Background(), employeeID, now)
		require.NoError(t, err)

		record, err := service.MarkLeave(context.Background(), employeeID, now)
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusLeave, record.Status)
		assert.Nil(t, record.CheckIn)
	})

	t.Run("ListForEmployee", func(t *testing.T) {
		service := services.NewAttendanceService(newMockAttendanceRepository())

		_, err := service.CheckIn(context.Background(), employeeID, now)
		require.NoError(t, err)
		_, err = service.MarkLeave(context.Background(), employeeID, now.AddDate(0, 0, 1))
		require.NoError(t, err)

		records, err := service.ListForEmployee(context.Background(), employeeID, now.AddDate(0, 0, -1), now.AddDate(0, 0, 2))
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}
