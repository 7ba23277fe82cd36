package discovery

import (
	"github.com/km-arc/go-discovery/framework/autowire"
	"github.com/km-arc/go-discovery/framework/config"
	"github.com/km-arc/go-discovery/framework/container"
	"github.com/km-arc/go-discovery/framework/providers"
	"github.com/km-arc/go-discovery/framework/routing"
)

// Register declares the discovery classes. Each is registered under the
// name type-driven lookups use for it, so constructor parameters of these
// types resolve through the autowire abstract factory.
func Register(reg *autowire.Registry) error {
	defs := []struct {
		name   string
		target any
		opts   []autowire.DefineOption
	}{
		{autowire.Name[*Catalog](), NewCatalog, []autowire.DefineOption{
			autowire.Autowired(),
			autowire.Params("config", "records"),
			autowire.Tag(0, "config=catalog, configType=object"),
			autowire.Tag(1, "config=records, configType=yaml"),
		}},
		{autowire.Name[*TopicRecommender](), (*TopicRecommender)(nil), nil},
		{autowire.Name[*SearchController](), NewSearchController, []autowire.DefineOption{
			autowire.Autowired(),
			autowire.Params("searches", "specs", "catalog", "topics", "url", "logger"),
			autowire.Tag(0, "config=searches"),
			autowire.Tag(1, "config=searchspecs, configType=yaml"),
			autowire.Tag(4, "container=view.helpers"),
			autowire.Tag(5, "service=logger"),
		}},
		{autowire.Name[*RecordController](), NewRecordController, []autowire.DefineOption{
			autowire.Autowired(),
			autowire.Params("catalog", "url"),
			autowire.Tag(1, "container=view.helpers"),
		}},
		{autowire.Name[*HealthController](), (*HealthController)(nil), nil},
	}
	for _, d := range defs {
		if err := reg.Define(d.name, d.target, d.opts...); err != nil {
			return err
		}
	}
	return nil
}

// Routes mounts the discovery API under /api.
func Routes(r *routing.Router) {
	r.Prefix("/api", func(api *routing.Router) {
		api.Service("/search", autowire.Name[*SearchController]())
		api.Service("/records/{id}", autowire.Name[*RecordController]())
		api.Service("/health", autowire.Name[*HealthController]())
	})
}

// ServiceProvider plugs the discovery API into an application: it declares
// the classes, binds the URL helper into the view helpers and mounts the
// routes.
type ServiceProvider struct {
	container.BaseProvider
}

func (p *ServiceProvider) Register(app *container.Container) {}

func (p *ServiceProvider) Boot(app *container.Container) error {
	reg, err := container.TryResolve[*autowire.Registry](app, providers.RegistryService)
	if err != nil {
		return err
	}
	if err := Register(reg); err != nil {
		return err
	}

	cfg, err := container.TryResolve[*config.Config](app, providers.ConfigService)
	if err != nil {
		return err
	}
	helpers, err := container.TryResolve[*container.Container](app, providers.HelpersService)
	if err != nil {
		return err
	}
	helpers.Instance(autowire.Name[*URLHelper](), NewURLHelper(cfg.App.URL+":"+cfg.App.Port+"/api"))

	router, err := container.TryResolve[*routing.Router](app, providers.RouterService)
	if err != nil {
		return err
	}
	Routes(router)
	return nil
}
