package registry

import (
	"github.com/opsdesk/backoffice/pkg/application"
	"github.com/opsdesk/backoffice/pkg/crud"
)

type Module struct{}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) Name() string { return "registry" }

func (m *Module) Register(app application.Application) error {
	publisher := app.EventPublisher()

	for _, schema := range []*crud.Schema{
		GovernmentDocumentsSchema(),
		CorrespondenceSchema(),
		LegalCasesSchema(),
		FacilityApprovalsSchema(),
		GuidelinesSchema(),
	} {
		service := crud.NewDefaultService(schema, crud.NewPgRepository(schema), publisher)
		app.RegisterControllers(crud.NewController("/"+schema.Name, schema, service))
	}

	vehiclesSchema := VehiclesSchema()
	vehicleService := NewVehicleService(
		crud.NewDefaultService(vehiclesSchema, crud.NewPgRepository(vehiclesSchema), publisher),
	)
	app.RegisterServices(vehicleService)
	app.RegisterControllers(crud.NewController("/vehicles", vehiclesSchema, vehicleService))
	return nil
}
