package services

import (
	"bytes"
	"context"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/opsdesk/backoffice/modules/documents/domain/aggregates/attachment"
	"github.com/opsdesk/backoffice/modules/documents/infrastructure/storage"
	"github.com/opsdesk/backoffice/pkg/composables"
	"github.com/opsdesk/backoffice/pkg/eventbus"
)

var ErrFileTooLarge = errors.New("file exceeds the upload size limit")

type UploadedEvent struct {
	Result *attachment.Attachment
}

type DeletedEvent struct {
	ID uuid.UUID
}

type AttachmentService struct {
	repo      attachment.Repository
	storage   storage.Storage
	publisher eventbus.EventBus
	maxSize   int64
}

func NewAttachmentService(repo attachment.Repository, store storage.Storage, publisher eventbus.EventBus, maxSize int64) *AttachmentService {
	return &AttachmentService{repo: repo, storage: store, publisher: publisher, maxSize: maxSize}
}

func (s *AttachmentService) List(ctx context.Context, scope attachment.Scope) ([]*attachment.Attachment, error) {
	return s.repo.List(ctx, scope)
}

func (s *AttachmentService) GetByID(ctx context.Context, id uuid.UUID) (*attachment.Attachment, error) {
	return s.repo.GetByID(ctx, id)
}

// Upload stores one file under a fresh ULID key and records its metadata.
// The content type is sniffed from the bytes, not trusted from the client.
func (s *AttachmentService) Upload(ctx context.Context, meta *attachment.Attachment, filename string, file io.Reader) (*attachment.Attachment, error) {
	data, err := io.ReadAll(io.LimitReader(file, s.maxSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload")
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrFileTooLarge
	}
	meta.Filename = filename
	meta.Size = int64(len(data))
	meta.MimeType = mimetype.Detect(data).String()
	meta.StorageKey = ulid.Make().String()
	if _, err := s.storage.Save(meta.StorageKey, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, meta)
	if err != nil {
		// the metadata row failed, do not leave an orphaned blob behind
		_ = s.storage.Remove(meta.StorageKey)
		return nil, err
	}
	s.publisher.Publish(&UploadedEvent{Result: created})
	return created, nil
}

// Download opens the stored bytes for streaming to the client.
func (s *AttachmentService) Download(ctx context.Context, id uuid.UUID) (*attachment.Attachment, io.ReadCloser, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.storage.Open(entity.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return entity, rc, nil
}

// Delete removes the metadata row and then the blob. A failed blob removal
// is logged and swallowed: the record is gone, a stray file is an
// operational cleanup, not a request failure.
func (s *AttachmentService) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Remove(entity.StorageKey); err != nil {
		composables.UseLogger(ctx).WithError(err).
			WithField("storage_key", entity.StorageKey).
			Warn("failed to remove stored file")
	}
	s.publisher.Publish(&DeletedEvent{ID: id})
	return nil
}
