package crud_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/opsdesk/backoffice/pkg/crud"
	"github.com/opsdesk/backoffice/pkg/eventbus"
)

func TestRegisterAuditLog_ConsumesLifecycleEvents(t *testing.T) {
	buf := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.InfoLevel)

	bus := eventbus.NewEventPublisher(log)
	crud.RegisterAuditLog(bus, log)

	id := uuid.New()
	bus.Publish(&crud.CreatedEvent{Resource: "employees", Result: crud.Record{"id": id}})
	bus.Publish(&crud.UpdatedEvent{Resource: "employees", Result: crud.Record{"id": id}})
	bus.Publish(&crud.DeletedEvent{Resource: "employees", ID: id})

	out := buf.String()
	assert.Contains(t, out, "record created")
	assert.Contains(t, out, "record updated")
	assert.Contains(t, out, "record deleted")
	assert.NotContains(t, out, "no matching subscribers")
}
