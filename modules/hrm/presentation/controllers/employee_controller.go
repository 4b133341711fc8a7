package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/opsdesk/backoffice/modules/hrm/domain/aggregates/employee"
	"github.com/opsdesk/backoffice/modules/hrm/infrastructure/persistence"
	"github.com/opsdesk/backoffice/modules/hrm/presentation/controllers/dtos"
	"github.com/opsdesk/backoffice/modules/hrm/services"
	"github.com/opsdesk/backoffice/pkg/composables"
	"github.com/opsdesk/backoffice/pkg/excel"
	"github.com/opsdesk/backoffice/pkg/httpapi"
)

type EmployeeController struct {
	service  *services.EmployeeService
	exporter *excel.Exporter
	basePath string
}

func NewEmployeeController(service *services.EmployeeService) *EmployeeController {
	return &EmployeeController{
		service:  service,
		exporter: excel.NewExporter(),
		basePath: "/employees",
	}
}

func (c *EmployeeController) Key() string { return c.basePath }

func (c *EmployeeController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/lookup", c.Lookup).Methods(http.MethodGet)
	router.HandleFunc("/export", c.Export).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id}/readiness", c.Readiness).Methods(http.MethodGet)
	router.HandleFunc("/{id}/readiness", c.UpdateReadiness).Methods(http.MethodPut)
}

type employeeListResponse struct {
	Data  []*EmployeeViewModel `json:"data"`
	Total int64                `json:"total"`
}

func (c *EmployeeController) findParams(r *http.Request) *employee.FindParams {
	pagination := composables.UsePaginated(r)
	return &employee.FindParams{
		Query:      r.URL.Query().Get("q"),
		Department: r.URL.Query().Get("department"),
		Status:     employee.Status(r.URL.Query().Get("status")),
		Limit:      pagination.Limit,
		Offset:     pagination.Offset,
	}
}

func (c *EmployeeController) List(w http.ResponseWriter, r *http.Request) {
	params := c.findParams(r)
	employees, err := c.service.GetPaginated(r.Context(), params)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	total, err := c.service.Count(r.Context(), params)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	data := make([]*EmployeeViewModel, 0, len(employees))
	for _, e := range employees {
		data = append(data, EmployeeToViewModel(e))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &employeeListResponse{Data: data, Total: total})
}

func (c *EmployeeController) Lookup(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := c.service.Lookup(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, items)
}

func (c *EmployeeController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}
	entity, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, EmployeeToViewModel(entity))
}

func (c *EmployeeController) Create(w http.ResponseWriter, r *http.Request) {
	entity, ok := c.decodeEmployee(w, r)
	if !ok {
		return
	}
	created, err := c.service.Create(r.Context(), entity)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, EmployeeToViewModel(created))
}

func (c *EmployeeController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}
	entity, ok := c.decodeEmployee(w, r)
	if !ok {
		return
	}
	existing, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	entity.ID = id
	entity.Readiness = existing.Readiness
	updated, err := c.service.Update(r.Context(), entity)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, EmployeeToViewModel(updated))
}

func (c *EmployeeController) Delete(w http.ResponseWriter, r *http.Request) {
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

type readinessResponse struct {
	employee.Readiness
	ReadyForField bool `json:"readyForField"`
}

func (c *EmployeeController) Readiness(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}
	readiness, err := c.service.Readiness(r.Context(), id)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &readinessResponse{
		Readiness:     readiness,
		ReadyForField: readiness.ReadyForField(),
	})
}

func (c *EmployeeController) UpdateReadiness(w http.ResponseWriter, r *http.Request) {
	id, ok := c.pathID(w, r)
	if !ok {
		return
	}
	var readiness employee.Readiness
	if err := httpapi.DecodeJSON(r.Body, &readiness); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if _, err := c.service.UpdateReadiness(r.Context(), id, readiness); err != nil {
		c.handleError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &readinessResponse{
		Readiness:     readiness,
		ReadyForField: readiness.ReadyForField(),
	})
}

func (c *EmployeeController) Export(w http.ResponseWriter, r *http.Request) {
	params := c.findParams(r)
	params.Limit = 0
	params.Offset = 0
	employees, err := c.service.GetPaginated(r.Context(), params)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	headers := []string{
		"first_name", "last_name", "email", "phone", "department", "position",
		"nationality_type", "civil_id", "residency_number", "salary", "hired_at", "status",
	}
	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		salary := ""
		if e.Salary != nil {
			salary = e.Salary.Display()
		}
		hiredAt := ""
		if !e.HiredAt.IsZero() {
			hiredAt = e.HiredAt.Format(time.DateOnly)
		}
		rows = append(rows, []string{
			e.FirstName, e.LastName, e.Email, e.Phone, e.Department, e.Position,
			string(e.NationalityType), e.CivilID, e.ResidencyNumber, salary, hiredAt, string(e.Status),
		})
	}
	filename := "employees_" + time.Now().Format("2006-01-02")
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

func (c *EmployeeController) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid employee id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (c *EmployeeController) decodeEmployee(w http.ResponseWriter, r *http.Request) (*employee.Employee, bool) {
	var dto dtos.EmployeeDTO
	if err := httpapi.DecodeJSON(r.Body, &dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return nil, false
	}
	if fields := dto.Validate(); fields != nil {
		_ = httpapi.WriteFieldErrors(w, composables.UseRequestID(r.Context()), fields)
		return nil, false
	}
	entity, err := dto.ToEntity()
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return nil, false
	}
	return entity, true
}

func (c *EmployeeController) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		_ = httpapi.WriteFieldErrors(w, composables.UseRequestID(r.Context()), verr.Fields)
	case errors.Is(err, persistence.ErrEmployeeNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "employee not found", nil)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR",
			"internal server error", map[string]string{"request_id": composables.UseRequestID(r.Context())})
	}
}
