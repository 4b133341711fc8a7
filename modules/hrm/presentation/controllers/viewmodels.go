package controllers

import (
	"time"

	"github.com/opsdesk/backoffice/modules/hrm/domain/aggregates/employee"
)

type EmployeeViewModel struct {
	ID                string                      `json:"id"`
	FirstName         string                      `json:"firstName"`
	LastName          string                      `json:"lastName"`
	FullName          string                      `json:"fullName"`
	Email             string                      `json:"email"`
	Phone             string                      `json:"phone"`
	Department        string                      `json:"department"`
	Position          string                      `json:"position"`
	NationalityType   string                      `json:"nationalityType"`
	CivilID           string                      `json:"civilId,omitempty"`
	ResidencyNumber   string                      `json:"residencyNumber,omitempty"`
	SalaryAmount      float64                     `json:"salaryAmount"`
	SalaryCurrency    string                      `json:"salaryCurrency"`
	HiredAt           string                      `json:"hiredAt,omitempty"`
	Status            string                      `json:"status"`
	EmergencyContacts []employee.EmergencyContact `json:"emergencyContacts"`
	Skills            []employee.Skill            `json:"skills"`
	Passes            []employee.Pass             `json:"passes"`
	ReadyForField     bool                        `json:"readyForField"`
	CreatedAt         time.Time                   `json:"createdAt"`
	UpdatedAt         time.Time                   `json:"updatedAt"`
}

func EmployeeToViewModel(e *employee.Employee) *EmployeeViewModel {
	vm := &EmployeeViewModel{
		ID:                e.ID.String(),
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		FullName:          e.FullName(),
		Email:             e.Email,
		Phone:             e.Phone,
		Department:        e.Department,
		Position:          e.Position,
		NationalityType:   string(e.NationalityType),
		CivilID:           e.CivilID,
		ResidencyNumber:   e.ResidencyNumber,
		Status:            string(e.Status),
		EmergencyContacts: e.EmergencyContacts,
		Skills:            e.Skills,
		Passes:            e.Passes,
		ReadyForField:     e.Readiness.ReadyForField(),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
	if e.Salary != nil {
		vm.SalaryAmount = e.Salary.AsMajorUnits()
		vm.SalaryCurrency = e.Salary.Currency().Code
	}
	if !e.HiredAt.IsZero() {
		vm.HiredAt = e.HiredAt.Format(time.DateOnly)
	}
	if vm.EmergencyContacts == nil {
		vm.EmergencyContacts = []employee.EmergencyContact{}
	}
	if vm.Skills == nil {
		vm.Skills = []employee.Skill{}
	}
	if vm.Passes == nil {
		vm.Passes = []employee.Pass{}
	}
	return vm
}
