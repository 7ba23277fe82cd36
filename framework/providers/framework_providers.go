package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-discovery/framework/autowire"
	"github.com/km-arc/go-discovery/framework/config"
	"github.com/km-arc/go-discovery/framework/container"
	"github.com/km-arc/go-discovery/framework/routing"
)

// Container names bound by the framework providers.
const (
	ConfigService     = "config"
	LoggerService     = "logger"
	RouterService     = "router"
	RegistryService   = "autowire.registry"
	ClassifierService = "autowire.classifier"
	FactoryService    = "autowire.factory"
	HelpersService    = "view.helpers"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds the readers for named configuration files.
//
// Bound abstracts:
//   - "config"         → *config.Config ("configuration" alias)
//   - "config.manager" → *config.Manager
//   - "config.yaml"    → *config.YamlReader
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles := p.EnvFiles
	app.Singleton(ConfigService, func(c *container.Container) (any, error) {
		return config.Load(envFiles...), nil
	})
	app.Alias(ConfigService, "configuration")

	app.Singleton(autowire.ConfigManagerService, func(c *container.Container) (any, error) {
		cfg, err := container.TryResolve[*config.Config](c, ConfigService)
		if err != nil {
			return nil, err
		}
		return config.NewManager(cfg.Resolver()), nil
	})
	app.Singleton(autowire.YamlReaderService, func(c *container.Container) (any, error) {
		cfg, err := container.TryResolve[*config.Config](c, ConfigService)
		if err != nil {
			return nil, err
		}
		return config.NewYamlReader(cfg.Resolver(), config.WithLogger(Logger(c))), nil
	})
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the process logger under "logger":
// production config for APP_ENV=production, a no-op logger for testing and
// development config otherwise. A preset Logger wins.
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	preset := p.Logger
	app.Singleton(LoggerService, func(c *container.Container) (any, error) {
		if preset != nil {
			return preset, nil
		}
		cfg, err := container.TryResolve[*config.Config](c, ConfigService)
		if err != nil {
			return nil, err
		}
		switch cfg.App.Env {
		case "production":
			return zap.NewProduction()
		case "testing":
			return zap.NewNop(), nil
		default:
			return zap.NewDevelopment()
		}
	})
}

// Logger returns the bound logger, or a no-op logger when none resolves.
func Logger(c *container.Container) *zap.Logger {
	l, err := container.TryResolve[*zap.Logger](c, LoggerService)
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// ── AutowireServiceProvider ───────────────────────────────────────────────────

// AutowireServiceProvider makes every eligible registered class resolvable
// by name.
//
// Bound abstracts:
//   - "autowire.registry"   → *autowire.Registry
//   - "autowire.classifier" → *autowire.Classifier (AUTOWIRE_DENY as overrides)
//   - "autowire.factory"    → *autowire.Factory
//   - "view.helpers"        → *container.Container
//
// Boot installs the autowire abstract factory on the application container.
type AutowireServiceProvider struct {
	container.BaseProvider
}

func (p *AutowireServiceProvider) Register(app *container.Container) {
	app.Singleton(RegistryService, func(c *container.Container) (any, error) {
		return autowire.NewRegistry(), nil
	})
	app.Singleton(ClassifierService, func(c *container.Container) (any, error) {
		reg, err := container.TryResolve[*autowire.Registry](c, RegistryService)
		if err != nil {
			return nil, err
		}
		cfg, err := container.TryResolve[*config.Config](c, ConfigService)
		if err != nil {
			return nil, err
		}
		return autowire.NewClassifier(reg, autowire.Deny(cfg.Autowire.Deny...), autowire.WithLogger(Logger(c))), nil
	})
	app.Singleton(FactoryService, func(c *container.Container) (any, error) {
		reg, err := container.TryResolve[*autowire.Registry](c, RegistryService)
		if err != nil {
			return nil, err
		}
		return autowire.NewFactory(reg, autowire.WithLogger(Logger(c))), nil
	})
	app.Singleton(HelpersService, func(c *container.Container) (any, error) {
		return container.New(), nil
	})
}

func (p *AutowireServiceProvider) Boot(app *container.Container) error {
	cl, err := container.TryResolve[*autowire.Classifier](app, ClassifierService)
	if err != nil {
		return err
	}
	f, err := container.TryResolve[*autowire.Factory](app, FactoryService)
	if err != nil {
		return err
	}
	app.AddAbstractFactory(autowire.NewAbstractFactory(cl, f))
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. Service routes resolve
// their handlers from the application container; APP_DEBUG puts error text
// in their problem responses.
//
// Bound abstracts:
//   - "router" → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Singleton(RouterService, func(c *container.Container) (any, error) {
		cfg, err := container.TryResolve[*config.Config](c, ConfigService)
		if err != nil {
			return nil, err
		}
		return routing.New(
			routing.WithLocator(c),
			routing.WithLogger(Logger(c)),
			routing.WithDebug(cfg.App.Debug),
		), nil
	})
}
