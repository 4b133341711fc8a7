package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/opsdesk/backoffice/modules/documents/domain/aggregates/attachment"
	"github.com/opsdesk/backoffice/pkg/composables"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

const (
	attachmentSelectColumns = `id, module, category, entity_type, entity_id, title, description,
		tags, filename, size, mime_type, storage_key, permissions, uploaded_by, expires_at,
		created_at, updated_at`

	attachmentInsertQuery = `INSERT INTO attachments (
		module, category, entity_type, entity_id, title, description, tags,
		filename, size, mime_type, storage_key, permissions, uploaded_by, expires_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING ` + attachmentSelectColumns
)

type PgAttachmentRepository struct{}

func NewAttachmentRepository() attachment.Repository {
	return &PgAttachmentRepository{}
}

// List filters by the scope fields that are set. Empty scope fields are
// omitted from the predicate entirely, never compared against the empty
// string.
func (r *PgAttachmentRepository) List(ctx context.Context, scope attachment.Scope) ([]*attachment.Attachment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var (
		where []string
		args  []any
	)
	for column, value := range map[string]string{
		"module":      scope.Module,
		"category":    scope.Category,
		"entity_type": scope.EntityType,
		"entity_id":   scope.EntityID,
	} {
		if value == "" {
			continue
		}
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	query := "SELECT " + attachmentSelectColumns + " FROM attachments"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list attachments")
	}
	defer rows.Close()

	attachments := make([]*attachment.Attachment, 0)
	for rows.Next() {
		entity, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, entity)
	}
	return attachments, rows.Err()
}

func (r *PgAttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*attachment.Attachment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx,
		"SELECT "+attachmentSelectColumns+" FROM attachments WHERE id = $1",
		pgtype.UUID{Bytes: id, Valid: true},
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get attachment")
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrAttachmentNotFound
	}
	return scanAttachment(rows)
}

func (r *PgAttachmentRepository) Create(ctx context.Context, data *attachment.Attachment) (*attachment.Attachment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	permissions, err := json.Marshal(data.Permissions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal permissions")
	}
	rows, err := tx.Query(ctx, attachmentInsertQuery,
		data.Scope.Module,
		data.Scope.Category,
		data.Scope.EntityType,
		data.Scope.EntityID,
		data.Title,
		data.Description,
		data.Tags,
		data.Filename,
		data.Size,
		data.MimeType,
		data.StorageKey,
		permissions,
		data.UploadedBy,
		data.ExpiresAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create attachment")
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("insert into attachments returned no row")
	}
	return scanAttachment(rows)
}

func (r *PgAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM attachments WHERE id = $1", pgtype.UUID{Bytes: id, Valid: true})
	if err != nil {
		return errors.Wrap(err, "failed to delete attachment")
	}
	if tag.RowsAffected() == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}

func scanAttachment(rows pgx.Rows) (*attachment.Attachment, error) {
	var (
		entity      attachment.Attachment
		id          pgtype.UUID
		permissions []byte
		expiresAt   pgtype.Timestamptz
	)
	if err := rows.Scan(
		&id,
		&entity.Scope.Module,
		&entity.Scope.Category,
		&entity.Scope.EntityType,
		&entity.Scope.EntityID,
		&entity.Title,
		&entity.Description,
		&entity.Tags,
		&entity.Filename,
		&entity.Size,
		&entity.MimeType,
		&entity.StorageKey,
		&permissions,
		&entity.UploadedBy,
		&expiresAt,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan attachment")
	}
	entity.ID = uuid.UUID(id.Bytes)
	if err := json.Unmarshal(permissions, &entity.Permissions); err != nil {
		return nil, errors.Wrap(err, "invalid permissions json")
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		entity.ExpiresAt = &t
	}
	return &entity, nil
}
