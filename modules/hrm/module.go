package hrm

import (
	"github.com/opsdesk/backoffice/modules/hrm/infrastructure/persistence"
	"github.com/opsdesk/backoffice/modules/hrm/presentation/controllers"
	"github.com/opsdesk/backoffice/modules/hrm/services"
	"github.com/opsdesk/backoffice/pkg/application"
)

type Module struct{}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) Name() string { return "hrm" }

func (m *Module) Register(app application.Application) error {
	registerAuditLog(app.EventPublisher(), app.Logger())
	employeeService := services.NewEmployeeService(
		persistence.NewEmployeeRepository(),
		app.EventPublisher(),
	)
	attendanceService := services.NewAttendanceService(
		persistence.NewAttendanceRepository(),
	)
	app.RegisterServices(employeeService, attendanceService)
	app.RegisterControllers(
		controllers.NewEmployeeController(employeeService),
		controllers.NewAttendanceController(attendanceService),
	)
	return nil
}
