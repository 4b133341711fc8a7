package employee

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
)

type NationalityType string

const (
	Citizen   NationalityType = "citizen"
	Foreigner NationalityType = "foreigner"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusOnLeave    Status = "on_leave"
	StatusTerminated Status = "terminated"
)

// EmergencyContact, Skill and Pass are keyed sub-records: the Key is a
// generated uuid that stays stable across edits, so updates address entries
// by key instead of array position.
type EmergencyContact struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type Skill struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

type Pass struct {
	Key       string    `json:"key"`
	Kind      string    `json:"kind"`
	Number    string    `json:"number"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Readiness is the per-employee field-duty checklist. ReadyForField is the
// conjunction of all items, derived, never stored.
type Readiness struct {
	LicenseValid     bool `json:"licenseValid"`
	TrainingComplete bool `json:"trainingComplete"`
	MedicallyFit     bool `json:"medicallyFit"`
	VehicleAssigned  bool `json:"vehicleAssigned"`
}

func (r Readiness) ReadyForField() bool {
	return r.LicenseValid && r.TrainingComplete && r.MedicallyFit && r.VehicleAssigned
}

type Employee struct {
	ID              uuid.UUID
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Department      string
	Position        string
	NationalityType NationalityType
	// CivilID is set for citizens, ResidencyNumber for foreigners. The
	// service enforces the discriminant.
	CivilID           string
	ResidencyNumber   string
	Salary            *money.Money
	HiredAt           time.Time
	Status            Status
	EmergencyContacts []EmergencyContact
	Skills            []Skill
	Passes            []Pass
	Readiness         Readiness
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// EnsureSubRecordKeys assigns generated keys to sub-records that arrived
// without one.
func (e *Employee) EnsureSubRecordKeys() {
	for i := range e.EmergencyContacts {
		if e.EmergencyContacts[i].Key == "" {
			e.EmergencyContacts[i].Key = uuid.NewString()
		}
	}
	for i := range e.Skills {
		if e.Skills[i].Key == "" {
			e.Skills[i].Key = uuid.NewString()
		}
	}
	for i := range e.Passes {
		if e.Passes[i].Key == "" {
			e.Passes[i].Key = uuid.NewString()
		}
	}
}
