package services

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/opsdesk/backoffice/modules/hrm/domain/aggregates/attendance"
	"github.com/opsdesk/backoffice/modules/hrm/infrastructure/persistence"
)

var (
	ErrAlreadyCheckedIn  = errors.New("employee already checked in today")
	ErrNotCheckedIn      = errors.New("employee has not checked in today")
	ErrAlreadyCheckedOut = errors.New("employee already checked out today")
)

type AttendanceService struct {
	repo attendance.Repository
}

func NewAttendanceService(repo attendance.Repository) *AttendanceService {
	return &AttendanceService{repo: repo}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *AttendanceService) CheckIn(ctx context.Context, employeeID uuid.UUID, at time.Time) (*attendance.Record, error) {
	day := startOfDay(at)
	record, err := s.repo.GetForDay(ctx, employeeID, day)
	switch {
	case errors.Is(err, persistence.ErrAttendanceNotFound):
		record = &attendance.Record{EmployeeID: employeeID, Day: day}
	case err != nil:
		return nil, err
	case record.CheckIn != nil:
		return nil, ErrAlreadyCheckedIn
	}
	record.CheckIn = &at
	record.Status = attendance.StatusPresent
	return s.repo.Upsert(ctx, record)
}

func (s *AttendanceService) CheckOut(ctx context.Context, employeeID uuid.UUID, at time.Time) (*attendance.Record, error) {
	day := startOfDay(at)
	record, err := s.repo.GetForDay(ctx, employeeID, day)
	if errors.Is(err, persistence.ErrAttendanceNotFound) {
		return nil, ErrNotCheckedIn
	}
	if err != nil {
		return nil, err
	}
	if record.CheckIn == nil {
		return nil, ErrNotCheckedIn
	}
	if record.CheckOut != nil {
		return nil, ErrAlreadyCheckedOut
	}
	record.CheckOut = &at
	return s.repo.Upsert(ctx, record)
}

// MarkLeave records a leave day. Existing check-in/check-out stamps for the
// day are discarded.
func (s *AttendanceService) MarkLeave(ctx context.Context, employeeID uuid.UUID, day time.Time) (*attendance.Record, error) {
	record := &attendance.Record{
		EmployeeID: employeeID,
		Day:        startOfDay(day),
		Status:     attendance.StatusLeave,
	}
	return s.repo.Upsert(ctx, record)
}

func (s *AttendanceService) ListForEmployee(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*attendance.Record, error) {
	return s.repo.ListForEmployee(ctx, employeeID, startOfDay(from), startOfDay(to))
}
