package crud

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/opsdesk/backoffice/pkg/composables"
	"github.com/opsdesk/backoffice/pkg/repo"
)

// PgRepository persists records of one schema in its table. SQL is built
// from the schema so every resource shares a single implementation.
type PgRepository struct {
	schema *Schema
}

func NewPgRepository(schema *Schema) *PgRepository {
	return &PgRepository{schema: schema}
}

func (r *PgRepository) selectColumns() string {
	cols := make([]string, 0, len(r.schema.Fields()))
	for _, f := range r.schema.Fields() {
		if f.Type == DecimalFieldType {
			cols = append(cols, fmt.Sprintf("%s::text", f.Name))
			continue
		}
		cols = append(cols, f.Name)
	}
	return strings.Join(cols, ", ")
}

func (r *PgRepository) buildConditions(params *FindParams) (string, []any) {
	var (
		where []string
		args  []any
	)
	if q := strings.TrimSpace(params.Query); q != "" {
		var likes []string
		args = append(args, "%"+q+"%")
		for _, f := range r.schema.SearchableFields() {
			likes = append(likes, fmt.Sprintf("%s ILIKE $%d", f.Name, len(args)))
		}
		if len(likes) > 0 {
			where = append(where, "("+strings.Join(likes, " OR ")+")")
		}
	}
	for name, value := range params.Filters {
		f, ok := r.schema.Field(name)
		if !ok || !f.Filterable || value == "" {
			continue
		}
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s::text = $%d", f.Name, len(args)))
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func (r *PgRepository) orderBy(sortBy repo.SortBy) string {
	var parts []string
	for _, s := range sortBy.Fields {
		f, ok := r.schema.Field(s.Field)
		if !ok {
			continue
		}
		dir := "DESC"
		if s.Ascending {
			dir = "ASC"
		}
		parts = append(parts, f.Name+" "+dir)
	}
	if len(parts) == 0 {
		return " ORDER BY created_at DESC"
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (r *PgRepository) List(ctx context.Context, params *FindParams) ([]Record, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	conditions, args := r.buildConditions(params)
	query := fmt.Sprintf("SELECT %s FROM %s%s%s", r.selectColumns(), r.schema.Table, conditions, r.orderBy(params.SortBy))
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
		return nil, errors.Wrapf(err, "failed to list %s", r.schema.Name)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		record, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *PgRepository) Count(ctx context.Context, params *FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	conditions, args := r.buildConditions(params)
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", r.schema.Table, conditions)
	var count int64
	if err := tx.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrapf(err, "failed to count %s", r.schema.Name)
	}
	return count, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (Record, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", r.selectColumns(), r.schema.Table, r.schema.KeyField().Name)
	rows, err := tx.Query(ctx, query, pgUUID(id))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get %s", r.schema.Name)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return r.scanRecord(rows)
}

func (r *PgRepository) Create(ctx context.Context, record Record) (Record, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var (
		cols         []string
		placeholders []string
		args         []any
	)
	for _, f := range r.schema.Fields() {
		if f.Readonly {
			continue
		}
		value, ok := record[f.Name]
		if !ok {
			continue
		}
		arg, err := encodeValue(f, value)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		cols = append(cols, f.Name)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.schema.Table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		r.selectColumns(),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", r.schema.Name)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errors.Errorf("insert into %s returned no row", r.schema.Table)
	}
	return r.scanRecord(rows)
}

func (r *PgRepository) Update(ctx context.Context, id uuid.UUID, record Record) (Record, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var (
		sets []string
		args []any
	)
	for _, f := range r.schema.Fields() {
		if f.Readonly {
			continue
		}
		value, ok := record[f.Name]
		if !ok {
			continue
		}
		arg, err := encodeValue(f, value)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		sets = append(sets, fmt.Sprintf("%s = $%d", f.Name, len(args)))
	}
	args = append(args, time.Now())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, pgUUID(id))
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d RETURNING %s",
		r.schema.Table,
		strings.Join(sets, ", "),
		r.schema.KeyField().Name,
		len(args),
		r.selectColumns(),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update %s", r.schema.Name)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return r.scanRecord(rows)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", r.schema.Table, r.schema.KeyField().Name)
	tag, err := tx.Exec(ctx, query, pgUUID(id))
	if err != nil {
		return errors.Wrapf(err, "failed to delete %s", r.schema.Name)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) scanRecord(rows pgx.Rows) (Record, error) {
	fields := r.schema.Fields()
	holders := make([]any, len(fields))
	for i, f := range fields {
		holders[i] = newHolder(f)
	}
	if err := rows.Scan(holders...); err != nil {
		return nil, errors.Wrapf(err, "failed to scan %s", r.schema.Name)
	}
	record := make(Record, len(fields))
	for i, f := range fields {
		value, err := decodeHolder(f, holders[i])
		if err != nil {
			return nil, err
		}
		record[f.Name] = value
	}
	return record, nil
}

func newHolder(f Field) any {
	switch f.Type {
	case IntFieldType:
		return &pgtype.Int8{}
	case FloatFieldType:
		return &pgtype.Float8{}
	case BoolFieldType:
		return &pgtype.Bool{}
	case DateFieldType:
		return &pgtype.Date{}
	case DateTimeFieldType:
		return &pgtype.Timestamptz{}
	case UUIDFieldType:
		return &pgtype.UUID{}
	case SubRecordsFieldType:
		return &[]byte{}
	default:
		// string and decimal columns both arrive as text
		return &pgtype.Text{}
	}
}

func decodeHolder(f Field, holder any) (any, error) {
	switch h := holder.(type) {
	case *pgtype.Text:
		if !h.Valid {
			return nil, nil
		}
		if f.Type == DecimalFieldType {
			d, err := decimal.NewFromString(h.String)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid decimal in column %s", f.Name)
			}
			return d, nil
		}
		return h.String, nil
	case *pgtype.Int8:
		if !h.Valid {
			return nil, nil
		}
		return h.Int64, nil
	case *pgtype.Float8:
		if !h.Valid {
			return nil, nil
		}
		return h.Float64, nil
	case *pgtype.Bool:
		if !h.Valid {
			return nil, nil
		}
		return h.Bool, nil
	case *pgtype.Date:
		if !h.Valid {
			return nil, nil
		}
		return h.Time, nil
	case *pgtype.Timestamptz:
		if !h.Valid {
			return nil, nil
		}
		return h.Time, nil
	case *pgtype.UUID:
		if !h.Valid {
			return nil, nil
		}
		return uuid.UUID(h.Bytes), nil
	case *[]byte:
		if len(*h) == 0 {
			return []SubRecord{}, nil
		}
		var subs []SubRecord
		if err := json.Unmarshal(*h, &subs); err != nil {
			return nil, errors.Wrapf(err, "invalid json in column %s", f.Name)
		}
		return subs, nil
	}
	return nil, errors.Errorf("unsupported holder for column %s", f.Name)
}

func encodeValue(f Field, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch f.Type {
	case UUIDFieldType:
		id, ok := value.(uuid.UUID)
		if !ok {
			return nil, errors.Errorf("field %s: expected uuid, got %T", f.Name, value)
		}
		return pgUUID(id), nil
	case DecimalFieldType:
		d, ok := value.(decimal.Decimal)
		if !ok {
			return nil, errors.Errorf("field %s: expected decimal, got %T", f.Name, value)
		}
		return d.String(), nil
	case SubRecordsFieldType:
		subs, ok := value.([]SubRecord)
		if !ok {
			return nil, errors.Errorf("field %s: expected sub-records, got %T", f.Name, value)
		}
		data, err := json.Marshal(subs)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", f.Name)
		}
		return data, nil
	case DateFieldType, DateTimeFieldType:
		if _, ok := value.(time.Time); !ok {
			return nil, errors.Errorf("field %s: expected time, got %T", f.Name, value)
		}
		return value, nil
	default:
		return value, nil
	}
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}
