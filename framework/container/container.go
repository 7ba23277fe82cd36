package container

import (
	"reflect"
	"strconv"
	"sync"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory is a function that builds a concrete value from the container.
type Factory func(c *Container) (any, error)

// binding holds a registered factory and whether it is a singleton.
type binding struct {
	factory   Factory
	singleton bool
}

// AbstractFactory builds services for names that have no explicit binding.
//
// The container asks CanCreate first and only calls Create when it answered
// true. Values built by an abstract factory are shared: the first instance is
// cached like a singleton. The exception is a factory that binds the name
// while creating it; the new binding then decides, so a Bind stays transient.
type AbstractFactory interface {
	CanCreate(c *Container, name string) bool
	Create(c *Container, name string) (any, error)
}

// Locator is the lookup side of a container: fetch a service by name, or
// fetch a nested container (plugin manager, helper registry) by name.
type Locator interface {
	Get(name string) (any, error)
	GetSubContainer(name string) (Locator, error)
}

// ── Errors ────────────────────────────────────────────────────────────────────

// NotFoundError is returned when nothing is bound under a name and no
// abstract factory accepts it.
type NotFoundError struct{ Name string }

func (e *NotFoundError) Error() string {
	return "container: no binding registered for " + strconv.Quote(e.Name)
}

// NotLocatorError is returned by GetSubContainer when the service exists but
// is not itself a Locator.
type NotLocatorError struct {
	Name string
	Got  string
}

func (e *NotLocatorError) Error() string {
	return "container: service " + strconv.Quote(e.Name) + " is not a container (" + e.Got + ")"
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container. It mirrors Laravel's Illuminate\Container\Container.
//
// It supports:
//   - Bind / Singleton / Instance / Alias
//   - Get / Make / Resolve (generic)
//   - Abstract factories for names without an explicit binding
//   - Nested containers via GetSubContainer
//   - Resolved event callbacks
type Container struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*binding

	// abstract → resolved singleton instance
	instances map[string]any

	// alias → abstract (canonical key)
	aliases map[string]string

	// consulted in registration order when a name is not bound
	abstractFactories []AbstractFactory

	// resolved callbacks: []func(abstract, instance)
	afterResolving []func(string, any)
}

var _ Locator = (*Container)(nil)

// New creates an empty container.
func New() *Container {
	c := &Container{
		bindings:  make(map[string]*binding),
		instances: make(map[string]any),
		aliases:   make(map[string]string),
	}
	// Bind the container to itself, like Laravel's $app->instance()
	c.Instance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient (new instance each Get) factory.
//
//	c.Bind("search.Query", func(c *container.Container) (any, error) {
//	    return search.NewQuery(), nil
//	})
func (c *Container) Bind(abstract string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bind(abstract, factory, false)
}

// Singleton registers a factory whose result is cached after first resolution.
//
//	c.Singleton("logger", func(c *container.Container) (any, error) {
//	    return zap.NewProduction()
//	})
func (c *Container) Singleton(abstract string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bind(abstract, factory, true)
}

// Instance registers a pre-built value as a singleton.
//
//	c.Instance("config", cfg)
func (c *Container) Instance(abstract string, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	c.instances[key] = instance
}

// bind is the internal registration helper (must hold mu.Lock).
func (c *Container) bind(abstract string, factory Factory, singleton bool) {
	key := c.canonical(abstract)
	// Drop existing singleton instance so it's rebuilt with the new factory
	delete(c.instances, key)
	c.bindings[key] = &binding{factory: factory, singleton: singleton}
}

// Alias registers an alternative name for an abstract.
//
//	c.Alias("config", "configuration")
func (c *Container) Alias(abstract, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if abstract == alias {
		panic("container: [" + abstract + "] is aliased to itself")
	}
	c.aliases[alias] = c.canonical(abstract)
}

// AddAbstractFactory appends a fallback factory for unbound names.
func (c *Container) AddAbstractFactory(f AbstractFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abstractFactories = append(c.abstractFactories, f)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves an abstract from the container.
//
// Lookup order: cached instance, explicit binding, abstract factories.
func (c *Container) Get(abstract string) (any, error) {
	c.mu.RLock()
	key := c.canonical(abstract)
	if inst, ok := c.instances[key]; ok {
		c.mu.RUnlock()
		return inst, nil
	}
	b, bound := c.bindings[key]
	factories := c.abstractFactories[:len(c.abstractFactories):len(c.abstractFactories)]
	c.mu.RUnlock()

	if bound {
		return c.runFactory(key, b.factory, b.singleton)
	}

	for _, af := range factories {
		if !af.CanCreate(c, key) {
			continue
		}
		instance, err := af.Create(c, key)
		if err != nil {
			return nil, err
		}
		// A factory that bound key itself (a deferred provider) already
		// resolved through that binding, which decides sharing.
		c.mu.RLock()
		_, rebound := c.bindings[key]
		c.mu.RUnlock()
		if rebound {
			return instance, nil
		}
		instance = c.share(key, instance)
		c.fireAfterResolving(key, instance)
		return instance, nil
	}
	return nil, &NotFoundError{Name: abstract}
}

// GetSubContainer resolves a service that is itself a Locator.
// Lookup errors are returned unchanged.
func (c *Container) GetSubContainer(name string) (Locator, error) {
	v, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	l, ok := v.(Locator)
	if !ok {
		return nil, &NotLocatorError{Name: name, Got: typeName(v)}
	}
	return l, nil
}

// Make resolves an abstract and panics when it cannot.
//
//	repo := c.Make("catalog")
func (c *Container) Make(abstract string) any {
	instance, err := c.Get(abstract)
	if err != nil {
		panic(err)
	}
	return instance
}

// runFactory executes a factory, optionally caching the result.
func (c *Container) runFactory(key string, f Factory, singleton bool) (any, error) {
	instance, err := f(c)
	if err != nil {
		return nil, err
	}
	if singleton {
		instance = c.share(key, instance)
	}
	c.fireAfterResolving(key, instance)
	return instance, nil
}

// share stores instance under key unless another caller got there first, in
// which case the stored instance wins.
func (c *Container) share(key string, instance any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.instances[key]; ok {
		return existing
	}
	c.instances[key] = instance
	return instance
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound returns true if an abstract has been registered explicitly.
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	_, hasBinding := c.bindings[key]
	_, hasInstance := c.instances[key]
	return hasBinding || hasInstance
}

// Has reports whether Get could produce a value for the abstract, either
// from a registration or from an abstract factory.
func (c *Container) Has(abstract string) bool {
	if c.Bound(abstract) {
		return true
	}
	c.mu.RLock()
	key := c.canonical(abstract)
	factories := c.abstractFactories[:len(c.abstractFactories):len(c.abstractFactories)]
	c.mu.RUnlock()
	for _, af := range factories {
		if af.CanCreate(c, key) {
			return true
		}
	}
	return false
}

// Resolved returns true if the abstract has been resolved at least once.
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[c.canonical(abstract)]
	return ok
}

// Forget removes all registrations for an abstract (binding + instance).
func (c *Container) Forget(abstract string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	delete(c.instances, key)
}

// Flush resets the entire container. Abstract factories are kept.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings = make(map[string]*binding)
	c.instances = make(map[string]any)
	c.aliases = make(map[string]string)
}

// Bindings returns a copy of all registered abstract keys (for debugging).
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.bindings)+len(c.instances))
	for k := range c.bindings {
		out = append(out, k)
	}
	for k := range c.instances {
		if _, already := c.bindings[k]; !already {
			out = append(out, k)
		}
	}
	return out
}

// canonical resolves an alias to its canonical key.
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired after any abstract is resolved
// through a factory or an abstract factory.
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(abstract string, instance any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(abstract, instance)
	}
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// KeyOf returns the package-qualified name of t, dereferencing pointers.
// It is the name under which type-driven lookups expect a service.
//
//	container.KeyOf(reflect.TypeOf(&discovery.Catalog{}))  // "github.com/km-arc/go-discovery/discovery.Catalog"
func KeyOf(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// TypeKey returns the package-qualified type name of v, useful as a stable
// abstract key when working with interfaces.
//
//	key := container.TypeKey((*Searcher)(nil))  // "<pkg>.Searcher"
//	c.Singleton(key, factory)
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Interface {
		return KeyOf(t.Elem())
	}
	return KeyOf(t)
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve is a generic helper that calls Make and type-asserts the result.
// It panics when the abstract is missing or has a different type.
//
//	cfg := container.Resolve[*config.Config](c, "config")
func Resolve[T any](c *Container, abstract string) T {
	instance := c.Make(abstract)
	typed, ok := instance.(T)
	if !ok {
		panic(&TypeMismatchError{Name: abstract, Want: reflect.TypeOf((*T)(nil)).Elem().String(), Got: typeName(instance)})
	}
	return typed
}

// TryResolve is like Resolve but reports failures as errors.
func TryResolve[T any](c *Container, abstract string) (T, error) {
	var zero T
	instance, err := c.Get(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &TypeMismatchError{Name: abstract, Want: reflect.TypeOf((*T)(nil)).Elem().String(), Got: typeName(instance)}
	}
	return typed, nil
}

// TypeMismatchError is returned by TryResolve when the service has a
// different type than requested.
type TypeMismatchError struct {
	Name string
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return "container: " + strconv.Quote(e.Name) + " resolved to " + e.Got + ", want " + e.Want
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}
