package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/opsdesk/backoffice/migrations"
	"github.com/opsdesk/backoffice/modules"
	"github.com/opsdesk/backoffice/pkg/application"
	"github.com/opsdesk/backoffice/pkg/configuration"
	"github.com/opsdesk/backoffice/pkg/eventbus"
	"github.com/opsdesk/backoffice/pkg/metrics"
	"github.com/opsdesk/backoffice/pkg/middleware"
	"github.com/opsdesk/backoffice/pkg/server"
)

func main() {
	conf := configuration.Use()
	log := conf.Logger()

	if err := runMigrations(conf); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		log.WithError(err).Fatal("failed to create database pool")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(log),
		Logger:   log,
	})
	if err := modules.Load(app, modules.BuiltIn()...); err != nil {
		log.WithError(err).Fatal("failed to load modules")
	}
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}
	app.RegisterMiddleware(
		middleware.WithLogger(log),
		middleware.WithPool(pool),
		metrics.Instrument(),
		middleware.RateLimit(),
		middleware.Authorize(),
	)

	httpServer := server.NewHTTPServer(app)

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		log.Info("shutting down")
		pool.Close()
		os.Exit(0)
	}()

	log.WithField("address", conf.SocketAddress).Info("listening")
	if err := httpServer.Start(conf.SocketAddress); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func runMigrations(conf *configuration.Configuration) error {
	db, err := sql.Open("pgx", conf.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
