package hrm

import (
	"github.com/sirupsen/logrus"

	"github.com/opsdesk/backoffice/modules/hrm/domain/aggregates/employee"
	"github.com/opsdesk/backoffice/pkg/eventbus"
)

func registerAuditLog(bus eventbus.EventBus, log *logrus.Logger) {
	bus.Subscribe(func(e *employee.CreatedEvent) {
		log.WithField("employee_id", e.Result.ID).Info("employee created")
	})
	bus.Subscribe(func(e *employee.UpdatedEvent) {
		log.WithField("employee_id", e.Result.ID).Info("employee updated")
	})
	bus.Subscribe(func(e *employee.DeletedEvent) {
		log.WithField("employee_id", e.ID).Info("employee deleted")
	})
}
