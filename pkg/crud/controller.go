package crud

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/opsdesk/backoffice/pkg/composables"
	"github.com/opsdesk/backoffice/pkg/excel"
	"github.com/opsdesk/backoffice/pkg/httpapi"
	"github.com/opsdesk/backoffice/pkg/repo"
)

// Controller exposes one schema-driven resource as a JSON collection:
//
//	GET    {base}           list with q, filters, pagination and sorting
//	GET    {base}/export    csv or xlsx dump of the filtered collection
//	GET    {base}/{id}      single record
//	POST   {base}           create, answers 201
//	PUT    {base}/{id}      partial or full update
//	DELETE {base}/{id}      delete, answers 204
type Controller struct {
	basePath string
	schema   *Schema
	service  Service
	exporter *excel.Exporter
}

func NewController(basePath string, schema *Schema, service Service) *Controller {
	return &Controller{
		basePath: basePath,
		schema:   schema,
		service:  service,
		exporter: excel.NewExporter(),
	}
}

func (c *Controller) Key() string { return c.basePath }

func (c *Controller) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/export", c.Export).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

// ListResponse pairs a page of records with the total matching count so
// clients can render pagination without a second request.
type ListResponse struct {
	Data  []map[string]any `json:"data"`
	Total int64            `json:"total"`
}

func (c *Controller) findParams(r *http.Request) *FindParams {
	pagination := composables.UsePaginated(r)
	params := &FindParams{
		Query:   r.URL.Query().Get("q"),
		Filters: map[string]string{},
		Limit:   pagination.Limit,
		Offset:  pagination.Offset,
	}
	for _, f := range c.schema.FilterableFields() {
		if v := r.URL.Query().Get(f.Name); v != "" {
			params.Filters[f.Name] = v
		}
	}
	if sortField := r.URL.Query().Get("sort"); sortField != "" {
		if _, ok := c.schema.Field(sortField); ok {
			params.SortBy = repo.SortBy{Fields: []repo.SortByField{{
				Field:     sortField,
				Ascending: r.URL.Query().Get("order") != "desc",
			}}}
		}
	}
	return params
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	params := c.findParams(r)
	records, err := c.service.List(r.Context(), params)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	total, err := c.service.Count(r.Context(), params)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	data := make([]map[string]any, 0, len(records))
	for _, record := range records {
		data = append(data, c.present(record))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &ListResponse{Data: data, Total: total})
}

func (c *Controller) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid record id", nil)
		return
	}
	record, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, c.present(record))
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := c.decodeInput(w, r)
	if !ok {
		return
	}
	created, err := c.service.Create(r.Context(), input)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, c.present(created))
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid record id", nil)
		return
	}
	input, ok := c.decodeInput(w, r)
	if !ok {
		return
	}
	updated, err := c.service.Update(r.Context(), id, input)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, c.present(updated))
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid record id", nil)
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		c.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) Export(w http.ResponseWriter, r *http.Request) {
	params := c.findParams(r)
	params.Limit = 0
	params.Offset = 0
	records, err := c.service.List(r.Context(), params)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	var (
		headers []string
		fields  []Field
	)
	for _, f := range c.schema.Fields() {
		if f.Hidden || f.Type == SubRecordsFieldType {
			continue
		}
		headers = append(headers, f.Name)
		fields = append(fields, f)
	}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = exportValue(f, record[f.Name])
		}
		rows = append(rows, row)
	}
	filename := fmt.Sprintf("%s_%s", c.schema.Name, time.Now().Format("2006-01-02"))
	switch format := r.URL.Query().Get("format"); format {
	case "xlsx":
		buf, err := c.exporter.Export(headers, rows)
		if err != nil {
			c.handleError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".xlsx"))
		_, _ = w.Write(buf.Bytes())
	case "", "csv":
		buf, err := writeCSV(headers, rows)
		if err != nil {
			c.handleError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))
		if _, err := w.Write(buf.Bytes()); err != nil {
			composables.UseLogger(r.Context()).WithError(err).Warn("csv export write aborted")
		}
	default:
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx", nil)
	}
}

// writeCSV renders the full document up front so an encoding failure surfaces
// as an error response instead of a truncated 200.
func writeCSV(headers []string, rows [][]string) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	cw := csv.NewWriter(buf)
	if err := cw.Write(headers); err != nil {
		return nil, errors.Wrap(err, "write csv header")
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return nil, errors.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, errors.Wrap(err, "flush csv")
	}
	return buf, nil
}

func (c *Controller) decodeInput(w http.ResponseWriter, r *http.Request) (Record, bool) {
	var payload map[string]any
	if err := httpapi.DecodeJSON(r.Body, &payload); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return nil, false
	}
	record, fieldErrs := c.schema.ParseInput(payload)
	if fieldErrs != nil {
		_ = httpapi.WriteFieldErrors(w, composables.UseRequestID(r.Context()), fieldErrs)
		return nil, false
	}
	return record, true
}

func (c *Controller) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		_ = httpapi.WriteFieldErrors(w, composables.UseRequestID(r.Context()), fieldErrs)
	case errors.Is(err, ErrNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("%s not found", c.schema.Name), nil)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR",
			"internal server error", map[string]string{"request_id": composables.UseRequestID(r.Context())})
	}
}

func (c *Controller) present(record Record) map[string]any {
	out := make(map[string]any, len(record))
	for _, f := range c.schema.Fields() {
		if f.Hidden {
			continue
		}
		value, ok := record[f.Name]
		if !ok {
			continue
		}
		out[f.Name] = presentValue(f, value)
	}
	return out
}

func presentValue(f Field, value any) any {
	if value == nil {
		return nil
	}
	switch f.Type {
	case DateFieldType:
		if t, ok := value.(time.Time); ok {
			return t.Format(time.DateOnly)
		}
	case DateTimeFieldType:
		if t, ok := value.(time.Time); ok {
			return t.Format(time.RFC3339)
		}
	}
	return value
}

func exportValue(f Field, value any) string {
	if value == nil {
		return ""
	}
	if f.Type == DateFieldType {
		if t, ok := value.(time.Time); ok {
			return t.Format(time.DateOnly)
		}
	}
	return stringifyValue(value)
}
