package documents

import (
	"github.com/sirupsen/logrus"

	"github.com/opsdesk/backoffice/modules/documents/services"
	"github.com/opsdesk/backoffice/pkg/eventbus"
)

func registerAuditLog(bus eventbus.EventBus, log *logrus.Logger) {
	bus.Subscribe(func(e *services.UploadedEvent) {
		log.WithFields(logrus.Fields{
			"attachment_id": e.Result.ID,
			"filename":      e.Result.Filename,
		}).Info("attachment uploaded")
	})
	bus.Subscribe(func(e *services.DeletedEvent) {
		log.WithField("attachment_id", e.ID).Info("attachment deleted")
	})
}
