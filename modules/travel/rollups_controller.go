package travel

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/opsdesk/backoffice/pkg/composables"
	"github.com/opsdesk/backoffice/pkg/crud"
	"github.com/opsdesk/backoffice/pkg/httpapi"
)

type RollupsController struct {
	requests crud.Service
	basePath string
}

func NewRollupsController(requests crud.Service) *RollupsController {
	return &RollupsController{requests: requests, basePath: "/travel/rollups"}
}

func (c *RollupsController) Key() string { return c.basePath }

func (c *RollupsController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath, c.Rollups).Methods(http.MethodGet)
}

func (c *RollupsController) Rollups(w http.ResponseWriter, r *http.Request) {
	records, err := c.requests.List(r.Context(), &crud.FindParams{})
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR",
			"internal server error", map[string]string{"request_id": composables.UseRequestID(r.Context())})
		return
	}
	var rollups []Rollup
	switch by := r.URL.Query().Get("by"); by {
	case "", "country":
		rollups = ByCountry(records)
	case "employee":
		rollups = ByEmployee(records)
	default:
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_GROUPING", "by must be country or employee", nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"data": rollups, "total": len(rollups)})
}
