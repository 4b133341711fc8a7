package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/opsdesk/backoffice/modules/hrm/domain/aggregates/attendance"
	"github.com/opsdesk/backoffice/pkg/composables"
)

var ErrAttendanceNotFound = errors.New("attendance record not found")

const (
	attendanceSelectColumns = `id, employee_id, day, check_in, check_out, status, created_at, updated_at`

	attendanceUpsertQuery = `INSERT INTO attendance_records (employee_id, day, check_in, check_out, status)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (employee_id, day) DO UPDATE SET
		check_in = EXCLUDED.check_in,
		check_out = EXCLUDED.check_out,
		status = EXCLUDED.status,
		updated_at = now()
	RETURNING ` + attendanceSelectColumns
)

type PgAttendanceRepository struct{}

func NewAttendanceRepository() attendance.Repository {
	return &PgAttendanceRepository{}
}

func (r *PgAttendanceRepository) GetForDay(ctx context.Context, employeeID uuid.UUID, day time.Time) (*attendance.Record, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx,
		"SELECT "+attendanceSelectColumns+" FROM attendance_records WHERE employee_id = $1 AND day = $2",
		pgUUID(employeeID), day,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get attendance record")
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrAttendanceNotFound
	}
	return scanAttendance(rows)
}

func (r *PgAttendanceRepository) ListForEmployee(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*attendance.Record, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx,
		"SELECT "+attendanceSelectColumns+" FROM attendance_records WHERE employee_id = $1 AND day BETWEEN $2 AND $3 ORDER BY day DESC",
		pgUUID(employeeID), from, to,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list attendance records")
	}
	defer rows.Close()

	records := make([]*attendance.Record, 0)
	for rows.Next() {
		record, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *PgAttendanceRepository) Upsert(ctx context.Context, record *attendance.Record) (*attendance.Record, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, attendanceUpsertQuery,
		pgUUID(record.EmployeeID),
		record.Day,
		record.CheckIn,
		record.CheckOut,
		string(record.Status),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert attendance record")
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("upsert into attendance_records returned no row")
	}
	return scanAttendance(rows)
}

func scanAttendance(rows pgx.Rows) (*attendance.Record, error) {
	var (
		record     attendance.Record
		id         pgtype.UUID
		employeeID pgtype.UUID
		checkIn    pgtype.Timestamptz
		checkOut   pgtype.Timestamptz
		status     string
	)
	if err := rows.Scan(
		&id,
		&employeeID,
		&record.Day,
		&checkIn,
		&checkOut,
		&status,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan attendance record")
	}
	record.ID = uuid.UUID(id.Bytes)
	record.EmployeeID = uuid.UUID(employeeID.Bytes)
	record.Status = attendance.Status(status)
	if checkIn.Valid {
		t := checkIn.Time
		record.CheckIn = &t
	}
	if checkOut.Valid {
		t := checkOut.Time
		record.CheckOut = &t
	}
	return &record, nil
}
