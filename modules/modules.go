package modules

import (
	"github.com/opsdesk/backoffice/modules/dashboard"
	"github.com/opsdesk/backoffice/modules/documents"
	"github.com/opsdesk/backoffice/modules/hrm"
	"github.com/opsdesk/backoffice/modules/registry"
	"github.com/opsdesk/backoffice/modules/travel"
	"github.com/opsdesk/backoffice/pkg/application"
	"github.com/opsdesk/backoffice/pkg/crud"
)

// BuiltIn lists every module in registration order. Dashboard goes last so
// its summary routes mount after the resources it aggregates.
func BuiltIn() []application.Module {
	return []application.Module{
		hrm.NewModule(),
		registry.NewModule(),
		travel.NewModule(),
		documents.NewModule(),
		dashboard.NewModule(),
	}
}

// Load registers each module with the application and wires the audit log
// for every schema-driven resource.
func Load(app application.Application, mods ...application.Module) error {
	crud.RegisterAuditLog(app.EventPublisher(), app.Logger())
	for _, m := range mods {
		if err := m.Register(app); err != nil {
			return err
		}
	}
	return nil
}
