package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/opsdesk/backoffice/modules/hrm/domain/aggregates/employee"
	"github.com/opsdesk/backoffice/pkg/composables"
)

var ErrEmployeeNotFound = errors.New("employee not found")

const (
	employeeSelectColumns = `id, first_name, last_name, email, phone, department, position,
		nationality_type, civil_id, residency_number, salary_amount, salary_currency,
		hired_at, status, emergency_contacts, skills, passes, readiness, created_at, updated_at`

	employeeInsertQuery = `INSERT INTO employees (
		first_name, last_name, email, phone, department, position,
		nationality_type, civil_id, residency_number, salary_amount, salary_currency,
		hired_at, status, emergency_contacts, skills, passes, readiness
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	RETURNING ` + employeeSelectColumns

	employeeUpdateQuery = `UPDATE employees SET
		first_name = $1, last_name = $2, email = $3, phone = $4, department = $5,
		position = $6, nationality_type = $7, civil_id = $8, residency_number = $9,
		salary_amount = $10, salary_currency = $11, hired_at = $12, status = $13,
		emergency_contacts = $14, skills = $15, passes = $16, readiness = $17,
		updated_at = now()
	WHERE id = $18
	RETURNING ` + employeeSelectColumns

	employeeDeleteQuery = `DELETE FROM employees WHERE id = $1`
)

type PgEmployeeRepository struct{}

func NewEmployeeRepository() employee.Repository {
	return &PgEmployeeRepository{}
}

func (r *PgEmployeeRepository) buildConditions(params *employee.FindParams) (string, []any) {
	var (
		where []string
		args  []any
	)
	if q := strings.TrimSpace(params.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR department ILIKE $%d)",
			n, n, n, n,
		))
	}
	if params.Department != "" {
		args = append(args, params.Department)
		where = append(where, fmt.Sprintf("department = $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func (r *PgEmployeeRepository) GetPaginated(ctx context.Context, params *employee.FindParams) ([]*employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	conditions, args := r.buildConditions(params)
	query := fmt.Sprintf("SELECT %s FROM employees%s ORDER BY last_name, first_name", employeeSelectColumns, conditions)
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list employees")
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		entity, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, entity)
	}
	return employees, rows.Err()
}

func (r *PgEmployeeRepository) Count(ctx context.Context, params *employee.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	conditions, args := r.buildConditions(params)
	var count int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM employees"+conditions, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count employees")
	}
	return count, nil
}

func (r *PgEmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx,
		fmt.Sprintf("SELECT %s FROM employees WHERE id = $1", employeeSelectColumns),
		pgUUID(id),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get employee")
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrEmployeeNotFound
	}
	return scanEmployee(rows)
}

func (r *PgEmployeeRepository) Create(ctx context.Context, data *employee.Employee) (*employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	args, err := employeeArgs(data)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, employeeInsertQuery, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create employee")
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("insert into employees returned no row")
	}
	return scanEmployee(rows)
}

func (r *PgEmployeeRepository) Update(ctx context.Context, data *employee.Employee) (*employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	args, err := employeeArgs(data)
	if err != nil {
		return nil, err
	}
	args = append(args, pgUUID(data.ID))
	rows, err := tx.Query(ctx, employeeUpdateQuery, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update employee")
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrEmployeeNotFound
	}
	return scanEmployee(rows)
}

func (r *PgEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, employeeDeleteQuery, pgUUID(id))
	if err != nil {
		return errors.Wrap(err, "failed to delete employee")
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func employeeArgs(data *employee.Employee) ([]any, error) {
	contacts, err := json.Marshal(data.EmergencyContacts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal emergency contacts")
	}
	skills, err := json.Marshal(data.Skills)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal skills")
	}
	passes, err := json.Marshal(data.Passes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal passes")
	}
	readiness, err := json.Marshal(data.Readiness)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal readiness")
	}
	var (
		salaryAmount   int64
		salaryCurrency = money.KWD
	)
	if data.Salary != nil {
		salaryAmount = data.Salary.Amount()
		salaryCurrency = data.Salary.Currency().Code
	}
	var hiredAt any
	if !data.HiredAt.IsZero() {
		hiredAt = data.HiredAt
	}
	return []any{
		data.FirstName,
		data.LastName,
		data.Email,
		data.Phone,
		data.Department,
		data.Position,
		string(data.NationalityType),
		data.CivilID,
		data.ResidencyNumber,
		salaryAmount,
		salaryCurrency,
		hiredAt,
		string(data.Status),
		contacts,
		skills,
		passes,
		readiness,
	}, nil
}

func scanEmployee(rows pgx.Rows) (*employee.Employee, error) {
	var (
		entity          employee.Employee
		id              pgtype.UUID
		nationalityType string
		salaryAmount    int64
		salaryCurrency  string
		hiredAt         pgtype.Date
		status          string
		contacts        []byte
		skills          []byte
		passes          []byte
		readiness       []byte
	)
	if err := rows.Scan(
		&id,
		&entity.FirstName,
		&entity.LastName,
		&entity.Email,
		&entity.Phone,
		&entity.Department,
		&entity.Position,
		&nationalityType,
		&entity.CivilID,
		&entity.ResidencyNumber,
		&salaryAmount,
		&salaryCurrency,
		&hiredAt,
		&status,
		&contacts,
		&skills,
		&passes,
		&readiness,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan employee")
	}
	entity.ID = uuid.UUID(id.Bytes)
	entity.NationalityType = employee.NationalityType(nationalityType)
	entity.Status = employee.Status(status)
	if hiredAt.Valid {
		entity.HiredAt = hiredAt.Time
	}
	entity.Salary = money.New(salaryAmount, salaryCurrency)
	if err := json.Unmarshal(contacts, &entity.EmergencyContacts); err != nil {
		return nil, errors.Wrap(err, "invalid emergency contacts json")
	}
	if err := json.Unmarshal(skills, &entity.Skills); err != nil {
		return nil, errors.Wrap(err, "invalid skills json")
	}
	if err := json.Unmarshal(passes, &entity.Passes); err != nil {
		return nil, errors.Wrap(err, "invalid passes json")
	}
	if err := json.Unmarshal(readiness, &entity.Readiness); err != nil {
		return nil, errors.Wrap(err, "invalid readiness json")
	}
	return &entity, nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}
