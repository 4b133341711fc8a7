package dashboard

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/opsdesk/backoffice/modules/hrm/domain/aggregates/employee"
	"github.com/opsdesk/backoffice/modules/travel"
	"github.com/opsdesk/backoffice/pkg/composables"
	"github.com/opsdesk/backoffice/pkg/crud"
	"github.com/opsdesk/backoffice/pkg/httpapi"
)

// Controller serves the aggregated landing view: histograms, expiry alerts,
// travel rollups and the readiness summary, computed per request from the
// underlying lists.
type Controller struct {
	employees      employee.Repository
	govDocuments   crud.Repository
	vehicles       crud.Repository
	facilities     crud.Repository
	legalCases     crud.Repository
	correspondence crud.Repository
	travelRequests crud.Repository
	basePath       string
}

func NewController(
	employees employee.Repository,
	govDocuments crud.Repository,
	vehicles crud.Repository,
	facilities crud.Repository,
	legalCases crud.Repository,
	correspondence crud.Repository,
	travelRequests crud.Repository,
) *Controller {
	return &Controller{
		employees:      employees,
		govDocuments:   govDocuments,
		vehicles:       vehicles,
		facilities:     facilities,
		legalCases:     legalCases,
		correspondence: correspondence,
		travelRequests: travelRequests,
		basePath:       "/dashboard",
	}
}

func (c *Controller) Key() string { return c.basePath }

func (c *Controller) Register(r *mux.Router) {
	r.HandleFunc(c.basePath+"/summary", c.Summary).Methods(http.MethodGet)
}

type summaryResponse struct {
	Histograms       map[string][]HistogramBucket `json:"histograms"`
	ExpiryAlerts     []ExpiryAlert                `json:"expiryAlerts"`
	ExpiredCount     int                          `json:"expiredCount"`
	TravelByCountry  []travel.Rollup              `json:"travelByCountry"`
	TravelByEmployee []travel.Rollup              `json:"travelByEmployee"`
	Readiness        ReadinessSummary             `json:"readiness"`
}

func (c *Controller) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	all := &crud.FindParams{}

	govDocuments, err := c.govDocuments.List(ctx, all)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	vehicles, err := c.vehicles.List(ctx, all)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	facilities, err := c.facilities.List(ctx, all)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	legalCases, err := c.legalCases.List(ctx, all)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	correspondence, err := c.correspondence.List(ctx, all)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	travelRequests, err := c.travelRequests.List(ctx, all)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	employees, err := c.employees.GetPaginated(ctx, &employee.FindParams{})
	if err != nil {
		c.fail(w, r, err)
		return
	}

	now := time.Now().UTC()
	alerts, expired := CollectExpiryAlerts(now, []ExpirySource{
		{Name: "government_documents", Records: govDocuments, DateField: "expiry_date", TitleField: "title"},
		{Name: "vehicles", Records: vehicles, DateField: "registration_expiry", TitleField: "plate_number"},
		{Name: "vehicles", Records: vehicles, DateField: "insurance_expiry", TitleField: "plate_number"},
		{Name: "facility_approvals", Records: facilities, DateField: "expiry_date", TitleField: "facility_name"},
	})

	_ = httpapi.WriteJSON(w, http.StatusOK, &summaryResponse{
		Histograms: map[string][]HistogramBucket{
			"legalCaseStatus":          Histogram(legalCases, "status"),
			"correspondencePriority":   Histogram(correspondence, "priority"),
			"travelRequestStatus":      Histogram(travelRequests, "status"),
			"governmentDocumentStatus": Histogram(govDocuments, "status"),
		},
		ExpiryAlerts:     alerts,
		ExpiredCount:     expired,
		TravelByCountry:  travel.ByCountry(travelRequests),
		TravelByEmployee: travel.ByEmployee(travelRequests),
		Readiness:        SummarizeReadiness(employees),
	})
}

func (c *Controller) fail(w http.ResponseWriter, r *http.Request, err error) {
	composables.UseLogger(r.Context()).WithError(err).Error("request failed")
	_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR",
		"internal server error", map[string]string{"request_id": composables.UseRequestID(r.Context())})
}
