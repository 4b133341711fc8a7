package application

import (
	"fmt"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/opsdesk/backoffice/pkg/eventbus"
)

// Controller registers a set of routes on the application router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Module wires one bounded context (services + controllers) into the app.
type Module interface {
	Name() string
	Register(app Application) error
}

type Application interface {
	DB() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Logger() *logrus.Logger

	RegisterServices(services ...interface{})
	// Service looks up a registered service by the type of the given value.
	// Panics when nothing matches, mirroring a broken wiring at startup.
	Service(service interface{}) interface{}

	RegisterControllers(controllers ...Controller)
	Controllers() []Controller

	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	Middleware() []mux.MiddlewareFunc
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
}

func New(opts *ApplicationOptions) Application {
	return &application{
		pool:        opts.Pool,
		eventBus:    opts.EventBus,
		logger:      opts.Logger,
		services:    map[reflect.Type]interface{}{},
		controllers: map[string]Controller{},
	}
}

type application struct {
	pool        *pgxpool.Pool
	eventBus    eventbus.EventBus
	logger      *logrus.Logger
	services    map[reflect.Type]interface{}
	controllers map[string]Controller
	ordered     []string
	middleware  []mux.MiddlewareFunc
}

func (a *application) DB() *pgxpool.Pool {
	return a.pool
}

func (a *application) EventPublisher() eventbus.EventBus {
	return a.eventBus
}

func (a *application) Logger() *logrus.Logger {
	return a.logger
}

func (a *application) RegisterServices(services ...interface{}) {
	for _, service := range services {
		t := reflect.TypeOf(service).Elem()
		a.services[t] = service
	}
}

func (a *application) Service(service interface{}) interface{} {
	t := reflect.TypeOf(service)
	svc, ok := a.services[t]
	if !ok {
		panic(fmt.Sprintf("service %s not found", t.Name()))
	}
	return svc
}

func (a *application) RegisterControllers(controllers ...Controller) {
	for _, c := range controllers {
		if _, exists := a.controllers[c.Key()]; !exists {
			a.ordered = append(a.ordered, c.Key())
		}
		a.controllers[c.Key()] = c
	}
}

func (a *application) Controllers() []Controller {
	out := make([]Controller, 0, len(a.ordered))
	for _, key := range a.ordered {
		out = append(out, a.controllers[key])
	}
	return out
}

func (a *application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	a.middleware = append(a.middleware, middleware...)
}

func (a *application) Middleware() []mux.MiddlewareFunc {
	return a.middleware
}
