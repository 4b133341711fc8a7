package services_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/backoffice/modules/documents/domain/aggregates/attachment"
	"github.com/opsdesk/backoffice/modules/documents/infrastructure/persistence"
	"github.com/opsdesk/backoffice/modules/documents/services"
)

type stubPublisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (p *stubPublisher) Publish(args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, args...)
}

func (p *stubPublisher) Subscribe(interface{})   {}
func (p *stubPublisher) Unsubscribe(interface{}) {}
func (p *stubPublisher) Clear()                  {}
func (p *stubPublisher) SubscribersCount() int   { return 0 }

type mockAttachmentRepository struct {
	mu          sync.RWMutex
	attachments map[uuid.UUID]*attachment.Attachment
}

func newMockAttachmentRepository() *mockAttachmentRepository {
	return &mockAttachmentRepository{attachments: map[uuid.UUID]*attachment.Attachment{}}
}

func (r *mockAttachmentRepository) List(_ context.Context, scope attachment.Scope) ([]*attachment.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*attachment.Attachment, 0)
	for _, a := range r.attachments {
		if scope.Module != "" && a.Scope.Module != scope.Module {
			continue
		}
		if scope.Category != "" && a.Scope.Category != scope.Category {
			continue
		}
		if scope.EntityType != "" && a.Scope.EntityType != scope.EntityType {
			continue
		}
		if scope.EntityID != "" && a.Scope.EntityID != scope.EntityID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *mockAttachmentRepository) GetByID(_ context.Context, id uuid.UUID) (*attachment.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.attachments[id]
	if !ok {
		return nil, persistence.ErrAttachmentNotFound
	}
	return a, nil
}

func (r *mockAttachmentRepository) Create(_ context.Context, data *attachment.Attachment) (*attachment.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data.ID = uuid.New()
	data.CreatedAt = time.Now()
	r.attachments[data.ID] = data
	return data, nil
}

func (r *mockAttachmentRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.attachments[id]; !ok {
		return persistence.ErrAttachmentNotFound
	}
	delete(r.attachments, id)
	return nil
}

type memoryStorage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{blobs: map[string][]byte{}}
}

func (s *memoryStorage) Save(key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return int64(len(data)), nil
}

func (s *memoryStorage) Open(key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, persistence.ErrAttachmentNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memoryStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func newService(store *memoryStorage, maxSize int64) (*services.AttachmentService, *mockAttachmentRepository) {
	repo := newMockAttachmentRepository()
	return services.NewAttachmentService(repo, store, &stubPublisher{}, maxSize), repo
}

func TestAttachmentService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("SniffsMimeTypeAndStoresBlob", func(t *testing.T) {
		store := newMemoryStorage()
		service, _ := newService(store, 1<<20)

		payload := "%PDF-1.4 fake pdf content"
		created, err := service.Upload(ctx, &attachment.Attachment{Title: "Contract"},
			"contract.pdf", strings.NewReader(payload))
		require.NoError(t, err)
		assert.Equal(t, "contract.pdf", created.Filename)
		assert.Equal(t, int64(len(payload)), created.Size)
		assert.Contains(t, created.MimeType, "application/pdf")
		assert.NotEmpty(t, created.StorageKey)

		rc, err := store.Open(created.StorageKey)
		require.NoError(t, err)
		stored, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, payload, string(stored))
	})

	t.Run("RejectsOversizedFile", func(t *testing.T) {
		service, _ := newService(newMemoryStorage(), 8)
		_, err := service.Upload(ctx, &attachment.Attachment{}, "big.bin",
			strings.NewReader("way more than eight bytes"))
		assert.ErrorIs(t, err, services.ErrFileTooLarge)
	})
}

func TestAttachmentService_ScopeFiltering(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(newMemoryStorage(), 1<<20)

	for _, scope := range []attachment.Scope{
		{Module: "hrm", EntityType: "employee", EntityID: "e-1"},
		{Module: "hrm", EntityType: "employee", EntityID: "e-2"},
		{Module: "registry", EntityType: "vehicle", EntityID: "v-1"},
	} {
		_, err := service.Upload(ctx, &attachment.Attachment{Scope: scope}, "doc.txt", strings.NewReader("hello"))
		require.NoError(t, err)
	}

	t.Run("PartialScopeMatches", func(t *testing.T) {
		out, err := service.List(ctx, attachment.Scope{Module: "hrm"})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("FullScopeMatchesOne", func(t *testing.T) {
		out, err := service.List(ctx, attachment.Scope{Module: "hrm", EntityType: "employee", EntityID: "e-2"})
		require.NoError(t, err)
		assert.Len(t, out, 1)
	})

	t.Run("EmptyScopeMatchesAll", func(t *testing.T) {
		out, err := service.List(ctx, attachment.Scope{})
		require.NoError(t, err)
		assert.Len(t, out, 3)
	})
}

func TestAttachmentService_Delete(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStorage()
	service, _ := newService(store, 1<<20)

	created, err := service.Upload(ctx, &attachment.Attachment{}, "doc.txt", strings.NewReader("hello"))
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.ID))

	_, err = service.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, persistence.ErrAttachmentNotFound)
	_, err = store.Open(created.StorageKey)
	assert.Error(t, err)
}
