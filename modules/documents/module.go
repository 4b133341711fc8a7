package documents

import (
	"github.com/opsdesk/backoffice/modules/documents/infrastructure/persistence"
	"github.com/opsdesk/backoffice/modules/documents/infrastructure/storage"
	"github.com/opsdesk/backoffice/modules/documents/presentation/controllers"
	"github.com/opsdesk/backoffice/modules/documents/services"
	"github.com/opsdesk/backoffice/pkg/application"
	"github.com/opsdesk/backoffice/pkg/configuration"
)

type Module struct{}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) Name() string { return "documents" }

func (m *Module) Register(app application.Application) error {
	registerAuditLog(app.EventPublisher(), app.Logger())
	conf := configuration.Use()
	store, err := storage.NewDiskStorage(conf.UploadsPath)
	if err != nil {
		return err
	}
	attachmentService := services.NewAttachmentService(
		persistence.NewAttachmentRepository(),
		store,
		app.EventPublisher(),
		conf.MaxUploadSize,
	)
	app.RegisterServices(attachmentService)
	app.RegisterControllers(controllers.NewAttachmentController(attachmentService))
	return nil
}
