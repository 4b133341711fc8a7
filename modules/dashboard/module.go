package dashboard

import (
	hrmpersistence "github.com/opsdesk/backoffice/modules/hrm/infrastructure/persistence"
	"github.com/opsdesk/backoffice/modules/registry"
	"github.com/opsdesk/backoffice/modules/travel"
	"github.com/opsdesk/backoffice/pkg/application"
	"github.com/opsdesk/backoffice/pkg/crud"
)

type Module struct{}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) Name() string { return "dashboard" }

func (m *Module) Register(app application.Application) error {
	app.RegisterControllers(NewController(
		hrmpersistence.NewEmployeeRepository(),
		crud.NewPgRepository(registry.GovernmentDocumentsSchema()),
		crud.NewPgRepository(registry.VehiclesSchema()),
		crud.NewPgRepository(registry.FacilityApprovalsSchema()),
		crud.NewPgRepository(registry.LegalCasesSchema()),
		crud.NewPgRepository(registry.CorrespondenceSchema()),
		crud.NewPgRepository(travel.RequestsSchema()),
	))
	return nil
}
