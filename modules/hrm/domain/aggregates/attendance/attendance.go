package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLeave   Status = "leave"
)

// Record is one employee-day: at most one row per (employee, day). Check-in
// and check-out stamps are nil until the matching verb arrives.
type Record struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	Day        time.Time
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Repository interface {
	GetForDay(ctx context.Context, employeeID uuid.UUID, day time.Time) (*Record, error)
	ListForEmployee(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*Record, error)
	Upsert(ctx context.Context, record *Record) (*Record, error)
}
