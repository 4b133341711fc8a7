package travel

import (
	"github.com/opsdesk/backoffice/pkg/application"
	"github.com/opsdesk/backoffice/pkg/crud"
)

type Module struct{}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) Name() string { return "travel" }

func (m *Module) Register(app application.Application) error {
	publisher := app.EventPublisher()

	requestsSchema := RequestsSchema()
	requestsService := crud.NewDefaultService(requestsSchema, crud.NewPgRepository(requestsSchema), publisher)
	app.RegisterControllers(
		NewRollupsController(requestsService),
		crud.NewController("/travel_requests", requestsSchema, requestsService),
	)

	for _, schema := range []*crud.Schema{AuthorizationsSchema(), ItinerariesSchema()} {
		service := crud.NewDefaultService(schema, crud.NewPgRepository(schema), publisher)
		app.RegisterControllers(crud.NewController("/"+schema.Name, schema, service))
	}
	return nil
}
