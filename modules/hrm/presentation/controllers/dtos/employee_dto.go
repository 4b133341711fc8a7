package dtos

import (
	"time"

	"github.com/Rhymond/go-money"
	"github.com/go-playground/validator/v10"

	"github.com/opsdesk/backoffice/modules/hrm/domain/aggregates/employee"
)

type EmergencyContactDTO struct {
	Key          string `json:"key"`
	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type SkillDTO struct {
	Key   string `json:"key"`
	Name  string `json:"name" validate:"required"`
	Level string `json:"level"`
}

type PassDTO struct {
	Key       string `json:"key"`
	Kind      string `json:"kind" validate:"required"`
	Number    string `json:"number"`
	ExpiresAt string `json:"expiresAt" validate:"omitempty,datetime=2006-01-02"`
}

type EmployeeDTO struct {
	FirstName         string                `json:"firstName" validate:"required"`
	LastName          string                `json:"lastName" validate:"required"`
	Email             string                `json:"email" validate:"omitempty,email"`
	Phone             string                `json:"phone"`
	Department        string                `json:"department"`
	Position          string                `json:"position"`
	NationalityType   string                `json:"nationalityType" validate:"required,oneof=citizen foreigner"`
	CivilID           string                `json:"civilId"`
	ResidencyNumber   string                `json:"residencyNumber"`
	SalaryAmount      float64               `json:"salaryAmount" validate:"gte=0"`
	SalaryCurrency    string                `json:"salaryCurrency" validate:"omitempty,len=3"`
	HiredAt           string                `json:"hiredAt" validate:"omitempty,datetime=2006-01-02"`
	Status            string                `json:"status" validate:"omitempty,oneof=active on_leave terminated"`
	EmergencyContacts []EmergencyContactDTO `json:"emergencyContacts" validate:"dive"`
	Skills            []SkillDTO            `json:"skills" validate:"dive"`
	Passes            []PassDTO             `json:"passes" validate:"dive"`
}

// Validate runs struct-tag validation and reports failures keyed by JSON
// field name.
func (d *EmployeeDTO) Validate() map[string]string {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if ok := asValidationErrors(err, &verrs); !ok {
		fields["_"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		fields[jsonFieldName(fe)] = validationMessage(fe)
	}
	return fields
}

func (d *EmployeeDTO) ToEntity() (*employee.Employee, error) {
	var hiredAt time.Time
	if d.HiredAt != "" {
		parsed, err := time.Parse(time.DateOnly, d.HiredAt)
		if err != nil {
			return nil, err
		}
		hiredAt = parsed
	}
	currency := d.SalaryCurrency
	if currency == "" {
		currency = money.KWD
	}
	contacts := make([]employee.EmergencyContact, 0, len(d.EmergencyContacts))
	for _, c := range d.EmergencyContacts {
		contacts = append(contacts, employee.EmergencyContact{
			Key:          c.Key,
			Name:         c.Name,
			Phone:        c.Phone,
			Relationship: c.Relationship,
		})
	}
	skills := make([]employee.Skill, 0, len(d.Skills))
	for _, s := range d.Skills {
		skills = append(skills, employee.Skill{Key: s.Key, Name: s.Name, Level: s.Level})
	}
	passes := make([]employee.Pass, 0, len(d.Passes))
	for _, p := range d.Passes {
		var expiresAt time.Time
		if p.ExpiresAt != "" {
			parsed, err := time.Parse(time.DateOnly, p.ExpiresAt)
			if err != nil {
				return nil, err
			}
			expiresAt = parsed
		}
		passes = append(passes, employee.Pass{
			Key:       p.Key,
			Kind:      p.Kind,
			Number:    p.Number,
			ExpiresAt: expiresAt,
		})
	}
	return &employee.Employee{
		FirstName:         d.FirstName,
		LastName:          d.LastName,
		Email:             d.Email,
		Phone:             d.Phone,
		Department:        d.Department,
		Position:          d.Position,
		NationalityType:   employee.NationalityType(d.NationalityType),
		CivilID:           d.CivilID,
		ResidencyNumber:   d.ResidencyNumber,
		Salary:            money.NewFromFloat(d.SalaryAmount, currency),
		HiredAt:           hiredAt,
		Status:            employee.Status(d.Status),
		EmergencyContacts: contacts,
		Skills:            skills,
		Passes:            passes,
	}, nil
}
