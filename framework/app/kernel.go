package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-discovery/framework/autowire"
	"github.com/km-arc/go-discovery/framework/config"
	"github.com/km-arc/go-discovery/framework/container"
	gohttp "github.com/km-arc/go-discovery/framework/http"
	"github.com/km-arc/go-discovery/framework/providers"
	"github.com/km-arc/go-discovery/framework/routing"
)

const shutdownTimeout = 10 * time.Second

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Bind(), app.Singleton(), app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// Option adjusts the core providers before they are registered.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger presets the process logger instead of deriving it from APP_ENV.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates the application and registers the core providers in order:
// config, logging, autowire, routing.
func New(envFiles []string, opts ...Option) (*Application, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := container.New()
	app := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
	}

	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: envFiles},
		&providers.LoggingServiceProvider{Logger: o.logger},
		&providers.AutowireServiceProvider{},
		&providers.RoutingServiceProvider{},
	}
	for _, p := range core {
		if err := app.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.Resolve[*config.Config](a.Container, providers.ConfigService)
}

// Logger resolves the process logger.
func (a *Application) Logger() *zap.Logger {
	return providers.Logger(a.Container)
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.Resolve[*routing.Router](a.Container, providers.RouterService)
}

// Registry resolves the autowire class registry.
func (a *Application) Registry() *autowire.Registry {
	return container.Resolve[*autowire.Registry](a.Container, providers.RegistryService)
}

// Classifier resolves the autowire classifier.
func (a *Application) Classifier() *autowire.Classifier {
	return container.Resolve[*autowire.Classifier](a.Container, providers.ClassifierService)
}

// Run boots the application (if needed) and serves HTTP on APP_PORT until
// ctx is cancelled. With YAML_WATCH set, changed YAML files are dropped from
// the reader cache while the server runs.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Boot(); err != nil {
		return err
	}
	cfg := a.Config()
	log := a.Logger()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Paths.WatchYAML {
		yr, err := container.TryResolve[*config.YamlReader](a.Container, autowire.YamlReaderService)
		if err != nil {
			return err
		}
		go func() {
			if err := yr.Watch(ctx); err != nil {
				log.Warn("yaml watch stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	log.Info("server started",
		zap.String("app", cfg.App.Name),
		zap.String("addr", "http://localhost"+srv.Addr),
		zap.String("env", cfg.App.Env))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	log.Info("server stopping")
	return srv.Shutdown(shutdownCtx)
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
func (a *Application) Version() string     { return "0.1.0" }

// Controller is an embeddable base for HTTP controllers.
type Controller struct{}

func (c *Controller) Request(r *http.Request) *gohttp.Request {
	return gohttp.NewRequest(r)
}
func (c *Controller) Response(w http.ResponseWriter) *gohttp.Response {
	return gohttp.NewResponse(w)
}
