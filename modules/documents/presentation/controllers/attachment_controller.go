package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/opsdesk/backoffice/modules/documents/domain/aggregates/attachment"
	"github.com/opsdesk/backoffice/modules/documents/infrastructure/persistence"
	"github.com/opsdesk/backoffice/modules/documents/services"
	"github.com/opsdesk/backoffice/pkg/composables"
	"github.com/opsdesk/backoffice/pkg/configuration"
	"github.com/opsdesk/backoffice/pkg/httpapi"
)

type AttachmentController struct {
	service  *services.AttachmentService
	basePath string
}

func NewAttachmentController(service *services.AttachmentService) *AttachmentController {
	return &AttachmentController{service: service, basePath: "/documents"}
}

func (c *AttachmentController) Key() string { return c.basePath }

func (c *AttachmentController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/upload", c.Upload).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/{id}/download", c.Download).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

type attachmentViewModel struct {
	ID          string                 `json:"id"`
	Scope       attachment.Scope       `json:"scope"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Tags        []string               `json:"tags"`
	Filename    string                 `json:"filename"`
	Size        int64                  `json:"size"`
	MimeType    string                 `json:"mimeType"`
	Permissions attachment.Permissions `json:"permissions"`
	UploadedBy  string                 `json:"uploadedBy"`
	ExpiresAt   *string                `json:"expiresAt"`
	CreatedAt   time.Time              `json:"createdAt"`
}

func toViewModel(a *attachment.Attachment) *attachmentViewModel {
	vm := &attachmentViewModel{
		ID:          a.ID.String(),
		Scope:       a.Scope,
		Title:       a.Title,
		Description: a.Description,
		Tags:        a.Tags,
		Filename:    a.Filename,
		Size:        a.Size,
		MimeType:    a.MimeType,
		Permissions: a.Permissions,
		UploadedBy:  a.UploadedBy,
		CreatedAt:   a.CreatedAt,
	}
	if vm.Tags == nil {
		vm.Tags = []string{}
	}
	if a.ExpiresAt != nil {
		formatted := a.ExpiresAt.Format(time.DateOnly)
		vm.ExpiresAt = &formatted
	}
	return vm
}

func (c *AttachmentController) List(w http.ResponseWriter, r *http.Request) {
	scope := attachment.Scope{
		Module:     r.URL.Query().Get("module"),
		Category:   r.URL.Query().Get("category"),
		EntityType: r.URL.Query().Get("entityType"),
		EntityID:   r.URL.Query().Get("entityId"),
	}
	attachments, err := c.service.List(r.Context(), scope)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	data := make([]*attachmentViewModel, 0, len(attachments))
	for _, a := range attachments {
		data = append(data, toViewModel(a))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"data": data, "total": len(data)})
}

func (c *AttachmentController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}
	entity, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toViewModel(entity))
}

// Upload accepts a multipart form: metadata fields plus one or more file
// parts under "files". Every file becomes its own attachment sharing the
// submitted metadata.
func (c *AttachmentController) Upload(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	r.Body = http.MaxBytesReader(w, r.Body, conf.MaxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "invalid multipart form", nil)
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "NO_FILES", "at least one file part is required", nil)
		return
	}
	var expiresAt *time.Time
	if raw := r.FormValue("expiresAt"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "expiresAt must be YYYY-MM-DD", nil)
			return
		}
		expiresAt = &parsed
	}
	uploadedBy := r.FormValue("uploadedBy")
	if subject, ok := composables.UseSubject(r.Context()); ok {
		uploadedBy = subject.Email
	}
	created := make([]*attachmentViewModel, 0, len(files))
	for _, header := range files {
		meta := &attachment.Attachment{
			Scope: attachment.Scope{
				Module:     r.FormValue("module"),
				Category:   r.FormValue("category"),
				EntityType: r.FormValue("entityType"),
				EntityID:   r.FormValue("entityId"),
			},
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Tags:        splitList(r.FormValue("tags")),
			Permissions: attachment.Permissions{
				Roles:       splitList(r.FormValue("roles")),
				Users:       splitList(r.FormValue("users")),
				Departments: splitList(r.FormValue("departments")),
				IsPublic:    r.FormValue("isPublic") == "true",
			},
			UploadedBy: uploadedBy,
			ExpiresAt:  expiresAt,
		}
		if meta.Title == "" {
			meta.Title = header.Filename
		}
		file, err := header.Open()
		if err != nil {
			c.handleError(w, r, err)
			return
		}
		entity, err := c.service.Upload(r.Context(), meta, header.Filename, file)
		_ = file.Close()
		if err != nil {
			c.handleError(w, r, err)
			return
		}
		created = append(created, toViewModel(entity))
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]any{"data": created, "total": len(created)})
}

func (c *AttachmentController) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}
	entity, rc, err := c.service.Download(r.Context(), id)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", entity.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", entity.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", entity.Size))
	_, _ = io.Copy(w, rc)
}

func (c *AttachmentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		c.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *AttachmentController) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid attachment id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (c *AttachmentController) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, persistence.ErrAttachmentNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "attachment not found", nil)
	case errors.Is(err, services.ErrFileTooLarge):
		_ = httpapi.WriteError(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error(), nil)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR",
			"internal server error", map[string]string{"request_id": composables.UseRequestID(r.Context())})
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
