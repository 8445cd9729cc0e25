package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/km-arc/laravel-di/framework/config"
	"github.com/km-arc/laravel-di/framework/container"
	"github.com/km-arc/laravel-di/framework/diagnostics"
	"github.com/km-arc/laravel-di/framework/providers"
	"github.com/km-arc/laravel-di/framework/routing"
)

// Application is the top-level application container.
// It embeds the container so user code can call app.Make(), app.Register()
// directly, like $app in Laravel's bootstrap/app.php.
type Application struct {
	*container.Container
	Types  *container.TypeRegistry
	Config *config.Config
	Logger *logrus.Logger
	Router *routing.Router
}

// New creates and bootstraps the application from the given .env files.
func New(envFiles ...string) *Application {
	cfg := config.Load(envFiles...)
	return NewWithConfig(cfg, diagnostics.New(cfg.Log))
}

// NewWithConfig bootstraps the application from an already loaded config.
func NewWithConfig(cfg *config.Config, logger *logrus.Logger) *Application {
	types := container.NewTypeRegistry()

	opts := []container.Option{container.WithSink(diagnostics.NewSink(logger))}
	if cfg.Container.Provider != "" {
		opts = append(opts, container.WithContext(container.Context{
			container.ProviderKey: cfg.Container.Provider,
		}))
	}
	c := container.New(types, opts...)
	router := routing.NewWithContainer(c)

	c.Discover(providers.Framework(cfg, logger, router))

	return &Application{
		Container: c,
		Types:     types,
		Config:    cfg,
		Logger:    logger,
		Router:    router,
	}
}

// Run starts the HTTP server on APP_PORT and blocks until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.Config.App.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.Logger.WithFields(logrus.Fields{
			"app":  a.Config.App.Name,
			"env":  a.Config.App.Env,
			"addr": srv.Addr,
		}).Info("server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config.App.Debug }
func (a *Application) Version() string     { return "0.1.0" }
