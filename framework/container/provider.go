package container

import "sync"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider mirrors Laravel's Illuminate\Support\ServiceProvider.
//
// Every provider must implement at minimum Register().
// Boot() is called after ALL providers have been registered, making it safe
// to resolve other bindings inside Boot().
//
//	type SearchServiceProvider struct{ container.BaseProvider }
//
//	func (p *SearchServiceProvider) Register(app *container.Container) {
//	    app.Singleton("search.backend", func(c *container.Container) (any, error) {
//	        return search.NewBackend(), nil
//	    })
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here; use Boot() for that.
	Register(app *Container)

	// Boot is called after all providers are registered.
	// Safe to resolve and use any binding here.
	Boot(app *Container) error

	// Provides returns the list of abstract keys this provider registers.
	// Only consulted for deferred providers.
	Provides() []string

	// IsDeferred returns true if this provider should be loaded lazily,
	// only when one of its Provides() abstracts is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
//
//	type MyProvider struct{ container.BaseProvider }
//	func (p *MyProvider) Register(app *container.Container) { ... }
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred (lazy) providers.
//
// Deferred providers are loaded through an abstract factory installed on the
// container: the first Get of any name a deferred provider Provides() runs its
// Register (and Boot, once the registry has booted) before the lookup is
// retried.
type ProviderRegistry struct {
	mu         sync.Mutex
	app        *Container
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // abstract → provider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	r := &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
	app.AddAbstractFactory(deferredLoader{r})
	return r
}

// Register adds a provider and calls its Register() method (unless deferred).
// A provider registered after Boot() is booted immediately.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, abstract := range provider.Provides() {
			r.deferred[abstract] = provider
		}
		r.mu.Unlock()
		return nil
	}
	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.app)
	if booted {
		return provider.Boot(r.app)
	}
	return nil
}

// Boot calls Boot() on all eager providers, stopping at the first error.
// Must be called after ALL providers have been registered.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range eager {
		if err := provider.Boot(r.app); err != nil {
			return err
		}
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}

// load registers a deferred provider for real and forgets all its names.
func (r *ProviderRegistry) load(abstract string) (ServiceProvider, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	provider, ok := r.deferred[abstract]
	if !ok {
		return nil, false
	}
	for _, name := range provider.Provides() {
		delete(r.deferred, name)
	}
	r.eager = append(r.eager, provider)
	return provider, r.booted
}

// deferredLoader is the abstract factory that materialises deferred providers.
type deferredLoader struct{ r *ProviderRegistry }

func (l deferredLoader) CanCreate(_ *Container, name string) bool {
	l.r.mu.Lock()
	defer l.r.mu.Unlock()
	_, ok := l.r.deferred[name]
	return ok
}

func (l deferredLoader) Create(c *Container, name string) (any, error) {
	provider, booted := l.r.load(name)
	if provider == nil {
		return nil, &NotFoundError{Name: name}
	}
	provider.Register(c)
	if booted {
		if err := provider.Boot(c); err != nil {
			return nil, err
		}
	}
	return c.Get(name)
}
