package controllers

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/opsdesk/backoffice/modules/hrm/domain/aggregates/attendance"
	"github.com/opsdesk/backoffice/modules/hrm/services"
	"github.com/opsdesk/backoffice/pkg/composables"
	"github.com/opsdesk/backoffice/pkg/httpapi"
)

type AttendanceController struct {
	service  *services.AttendanceService
	basePath string
}

func NewAttendanceController(service *services.AttendanceService) *AttendanceController {
	return &AttendanceController{service: service, basePath: "/attendance"}
}

func (c *AttendanceController) Key() string { return c.basePath }

func (c *AttendanceController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/{employeeId}/check-in", c.CheckIn).Methods(http.MethodPost)
	router.HandleFunc("/{employeeId}/check-out", c.CheckOut).Methods(http.MethodPost)
	router.HandleFunc("/{employeeId}/mark-leave", c.MarkLeave).Methods(http.MethodPost)
	router.HandleFunc("/{employeeId}", c.List).Methods(http.MethodGet)
}

type attendanceViewModel struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Day        string     `json:"day"`
	CheckIn    *time.Time `json:"checkIn"`
	CheckOut   *time.Time `json:"checkOut"`
	Status     string     `json:"status"`
}

func attendanceToViewModel(r *attendance.Record) *attendanceViewModel {
	return &attendanceViewModel{
		ID:         r.ID.String(),
		EmployeeID: r.EmployeeID.String(),
		Day:        r.Day.Format(time.DateOnly),
		CheckIn:    r.CheckIn,
		CheckOut:   r.CheckOut,
		Status:     string(r.Status),
	}
}

func (c *AttendanceController) CheckIn(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := c.employeeID(w, r)
	if !ok {
		return
	}
	record, err := c.service.CheckIn(r.Context(), employeeID, time.Now().UTC())
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, attendanceToViewModel(record))
}

func (c *AttendanceController) CheckOut(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := c.employeeID(w, r)
	if !ok {
		return
	}
	record, err := c.service.CheckOut(r.Context(), employeeID, time.Now().UTC())
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, attendanceToViewModel(record))
}

func (c *AttendanceController) MarkLeave(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := c.employeeID(w, r)
	if !ok {
		return
	}
	day := time.Now().UTC()
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_DAY", "day must be YYYY-MM-DD", nil)
			return
		}
		day = parsed
	}
	record, err := c.service.MarkLeave(r.Context(), employeeID, day)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, attendanceToViewModel(record))
}

func (c *AttendanceController) List(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := c.employeeID(w, r)
	if !ok {
		return
	}
	now := time.Now().UTC()
	from := now.AddDate(0, -1, 0)
	to := now
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_RANGE", "from must be YYYY-MM-DD", nil)
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_RANGE", "to must be YYYY-MM-DD", nil)
			return
		}
		to = parsed
	}
	records, err := c.service.ListForEmployee(r.Context(), employeeID, from, to)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	data := make([]*attendanceViewModel, 0, len(records))
	for _, record := range records {
		data = append(data, attendanceToViewModel(record))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"data": data, "total": len(data)})
}

func (c *AttendanceController) employeeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["employeeId"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid employee id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (c *AttendanceController) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrAlreadyCheckedIn),
		errors.Is(err, services.ErrAlreadyCheckedOut),
		errors.Is(err, services.ErrNotCheckedIn):
		_ = httpapi.WriteError(w, http.StatusConflict, "ATTENDANCE_CONFLICT", err.Error(), nil)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR",
			"internal server error", map[string]string{"request_id": composables.UseRequestID(r.Context())})
	}
}
