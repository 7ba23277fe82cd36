// Package container provides a Laravel-compatible IoC (Inversion of Control)
// container and Service Provider system for Go.
//
// # Overview
//
// The container manages the instantiation and lifecycle of your application's
// dependencies. It supports transient bindings, singletons, pre-built instances,
// aliases, nested containers and abstract factories.
//
// Go has no runtime constructor reflection keyed by class name, so explicit
// factory functions remain the primary way to bind services. Constructor
// autowiring is layered on top through an AbstractFactory (see package
// framework/autowire) which the container consults for any name that has no
// explicit binding.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()        (safe to resolve everything after this)
//  4. Serve requests
//
// # Bindings
//
//	// Transient: new instance every Get()
//	c.Bind("Foo", func(c *container.Container) (any, error) { return &Foo{}, nil })
//
//	// Singleton: created once, reused
//	c.Singleton("catalog", func(c *container.Container) (any, error) {
//	    cfg := container.Resolve[*config.Config](c, "config")
//	    return catalog.New(cfg), nil
//	})
//
//	// Pre-built value
//	c.Instance("config", myConfig)
//
//	// Alias
//	c.Alias("config", "configuration")
//
// # Resolving
//
//	raw, err := c.Get("catalog")                           // error-returning
//	raw := c.Make("catalog")                               // panics on failure
//	cat := container.Resolve[*Catalog](c, "catalog")       // generic, panics
//	cat, err := container.TryResolve[*Catalog](c, "catalog")
//
// # Nested containers
//
// Any service implementing Locator can be fetched with GetSubContainer. A
// *Container bound under a name works out of the box:
//
//	helpers := container.New()
//	helpers.Instance("url", urlHelper)
//	c.Instance("view.helpers", helpers)
//	sub, err := c.GetSubContainer("view.helpers")
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Singleton("mailer", func(c *container.Container) (any, error) {
//	        return mail.NewSMTP(), nil
//	    })
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool     { return true }
//	func (p *HeavyProvider) Provides() []string   { return []string{"heavy"} }
//	func (p *HeavyProvider) Register(app *container.Container) {
//	    app.Singleton("heavy", func(c *container.Container) (any, error) {
//	        return heavySetup(), nil // only called on first app.Get("heavy")
//	    })
//	}
package container
