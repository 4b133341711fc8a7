package crud

import (
	"github.com/sirupsen/logrus"

	"github.com/opsdesk/backoffice/pkg/eventbus"
)

// RegisterAuditLog subscribes handlers that record every mutation of a
// schema-driven resource. One registration covers all resources, the event
// carries the resource name.
func RegisterAuditLog(bus eventbus.EventBus, log *logrus.Logger) {
	bus.Subscribe(func(e *CreatedEvent) {
		log.WithFields(logrus.Fields{"resource": e.Resource, "id": e.Result.ID()}).Info("record created")
	})
	bus.Subscribe(func(e *UpdatedEvent) {
		log.WithFields(logrus.Fields{"resource": e.Resource, "id": e.Result.ID()}).Info("record updated")
	})
	bus.Subscribe(func(e *DeletedEvent) {
		log.WithFields(logrus.Fields{"resource": e.Resource, "id": e.ID}).Info("record deleted")
	})
}
