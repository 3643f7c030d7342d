// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"tasktrack/internal/command"
	"tasktrack/internal/domain"
	"tasktrack/internal/factory"
	"tasktrack/internal/infra/config"
	"tasktrack/internal/infra/jsonstore"
	"tasktrack/internal/infra/logging"
	"tasktrack/internal/infra/memstore"
	"tasktrack/internal/infra/notify"
	"tasktrack/internal/service"
)

// Container holds all port implementations and the wires between them.
type Container struct {
	Tasks       domain.TaskRepository
	Clock       domain.Clock
	Factories   *factory.Registry
	Notifier    *notify.Dispatcher
	Events      *notify.MemorySink
	Permissions *service.Permissions
	Service     *service.TaskService
	Invoker     *command.Invoker
	Config      *config.Config
	Logger      *slog.Logger

	closeLog func() error
}

// New builds a container rooted at dir: it loads configuration, sets up
// logging and the configured store backend, and wires the service layer.
func New(dir string) (*Container, error) {
	cfg, err := config.NewLoader(dir).Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.Log.Path, logging.ParseLevel(cfg.Log.Level))
	if err != nil {
		return nil, err
	}

	var tasks domain.TaskRepository
	if cfg.Store.Type == "memory" {
		tasks = memstore.New()
	} else {
		path := cfg.Store.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		store := jsonstore.New(path)
		if err := store.Initialize(); err != nil {
			return nil, fmt.Errorf("initialize store: %w", err)
		}
		tasks = store
	}

	clock := domain.RealClock{}
	dispatcher := notify.NewDispatcher(logger)
	events := &notify.MemorySink{}
	dispatcher.SubscribeAll(notify.LogSink{Logger: logger})
	dispatcher.SubscribeAll(events)

	perms := service.NewPermissions()
	perms.Grant(cfg.Defaults.User, "admin")

	factories := factory.DefaultRegistry(clock)

	svc := service.New(service.Deps{
		Tasks:     tasks,
		Factories: factories,
		Notifier:  dispatcher,
		Perms:     perms,
		Clock:     clock,
		Logger:    logger,
	})

	return &Container{
		Tasks:       tasks,
		Clock:       clock,
		Factories:   factories,
		Notifier:    dispatcher,
		Events:      events,
		Permissions: perms,
		Service:     svc,
		Invoker:     command.NewInvoker(),
		Config:      cfg,
		Logger:      logger,
		closeLog:    closeLog,
	}, nil
}

// Close releases container resources.
func (c *Container) Close() error {
	if c.closeLog != nil {
		return c.closeLog()
	}
	return nil
}
