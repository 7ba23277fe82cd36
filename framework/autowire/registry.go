package autowire

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/km-arc/go-discovery/framework/container"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Introspector resolves a class name to its description.
type Introspector interface {
	Introspect(class string) (*Class, error)
}

// Parameter describes one constructor parameter.
type Parameter struct {
	Name     string
	Position int

	// Type is the declared type, nil for parameters declared as any.
	Type reflect.Type

	// Builtin is true for types that carry no package path once pointers are
	// removed: basic kinds, error, unnamed slices, maps, funcs and structs.
	Builtin bool

	Directive *Directive
}

// Class describes how to build instances of one registered class.
type Class struct {
	name       string
	typ        reflect.Type // produced type
	ctor       reflect.Value
	returnsErr bool
	params     []Parameter
	autowired  bool
}

// DefineOption adjusts a Class while it is being defined.
type DefineOption func(*Class) error

// Name returns the registered class name.
func (c *Class) Name() string { return c.name }

// Type returns the type of the values the class produces.
func (c *Class) Type() reflect.Type { return c.typ }

// HasConstructor is false for classes defined by type only.
func (c *Class) HasConstructor() bool { return c.ctor.IsValid() }

// Autowired reports whether the constructor itself opted in to autowiring.
func (c *Class) Autowired() bool { return c.autowired }

// Params returns the constructor parameters in declaration order.
func (c *Class) Params() []Parameter {
	return append([]Parameter(nil), c.params...)
}

// Instantiate builds an instance from positional arguments. A nil argument
// becomes the zero value of its parameter.
func (c *Class) Instantiate(args []any) (any, error) {
	if !c.HasConstructor() {
		return reflect.New(c.typ.Elem()).Interface(), nil
	}
	if len(args) != len(c.params) {
		return nil, errors.Errorf("autowire: %s takes %d arguments, got %d", c.name, len(c.params), len(args))
	}

	ft := c.ctor.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		want := ft.In(i)
		if arg == nil {
			in[i] = reflect.Zero(want)
			continue
		}
		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(want) {
			return nil, &ArgumentTypeError{
				Class: c.name,
				Param: c.params[i].Name,
				Want:  want.String(),
				Got:   v.Type().String(),
			}
		}
		in[i] = v
	}

	out := c.ctor.Call(in)
	if c.returnsErr && !out[1].IsNil() {
		return nil, errors.Wrapf(out[1].Interface().(error), "autowire: constructing %s", c.name)
	}
	return out[0].Interface(), nil
}

// ── Definition ────────────────────────────────────────────────────────────────

// Define describes a class.
//
// target is either a constructor function returning the instance, optionally
// followed by an error:
//
//	autowire.Define("catalog", NewCatalog, autowire.Autowired())
//
// or a typed nil pointer for classes without a constructor, which are built
// with new(T):
//
//	autowire.Define("topics", (*TopicRecommender)(nil))
func Define(name string, target any, opts ...DefineOption) (*Class, error) {
	if target == nil {
		return nil, &DefinitionError{Class: name, Reason: "nil target"}
	}
	c := &Class{name: name}

	t := reflect.TypeOf(target)
	switch {
	case t.Kind() == reflect.Func:
		if err := c.fromConstructor(reflect.ValueOf(target)); err != nil {
			return nil, err
		}
	case t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct:
		c.typ = t
	default:
		return nil, &DefinitionError{Class: name, Reason: "target must be a constructor func or a struct pointer, got " + t.String()}
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Class) fromConstructor(fn reflect.Value) error {
	ft := fn.Type()
	if ft.IsVariadic() {
		return &DefinitionError{Class: c.name, Reason: "variadic constructors are not supported"}
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
		c.returnsErr = true
	default:
		return &DefinitionError{Class: c.name, Reason: "constructor must return (T) or (T, error)"}
	}

	c.ctor = fn
	c.typ = ft.Out(0)
	c.params = make([]Parameter, ft.NumIn())
	for i := range c.params {
		c.params[i] = newParameter(i, ft.In(i))
	}
	return nil
}

func newParameter(pos int, t reflect.Type) Parameter {
	p := Parameter{Name: "arg" + strconv.Itoa(pos), Position: pos}
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
		return p
	}
	p.Type = t
	p.Builtin = isBuiltin(t)
	return p
}

func isBuiltin(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath() == ""
}

// Autowired marks the constructor as eligible for automatic construction.
// Classes with a parameterless constructor or none at all are eligible
// without it.
func Autowired() DefineOption {
	return func(c *Class) error {
		c.autowired = true
		return nil
	}
}

// Params names the constructor parameters in order. Go keeps no parameter
// names at runtime; unnamed parameters are reported as arg0, arg1, ...
func Params(names ...string) DefineOption {
	return func(c *Class) error {
		if len(names) != len(c.params) {
			return &DefinitionError{
				Class:  c.name,
				Reason: fmt.Sprintf("%d parameter names for %d parameters", len(names), len(c.params)),
			}
		}
		for i, n := range names {
			c.params[i].Name = n
		}
		return nil
	}
}

// Param attaches a directive to the parameter at index i.
func Param(i int, d *Directive) DefineOption {
	return func(c *Class) error {
		if i < 0 || i >= len(c.params) {
			return &DefinitionError{Class: c.name, Reason: fmt.Sprintf("parameter index %d out of range", i)}
		}
		c.params[i].Directive = d
		return nil
	}
}

// Tag parses a directive in tag syntax and attaches it to parameter i.
//
//	autowire.Tag(0, "config=searches,configType=object")
func Tag(i int, tag string) DefineOption {
	return func(c *Class) error {
		d, err := ParseDirective(tag)
		if err != nil {
			return err
		}
		return Param(i, d)(c)
	}
}

// Name returns the service name type-driven resolution uses for T, which is
// also the natural class name to register T's constructor under.
//
//	autowire.Name[*Catalog]()  // "github.com/km-arc/go-discovery/discovery.Catalog"
func Name[T any]() string {
	return container.KeyOf(reflect.TypeOf((*T)(nil)).Elem())
}

// ── Registry ──────────────────────────────────────────────────────────────────

// Registry is the table of known classes. It is filled at startup and read
// concurrently afterwards.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

var _ Introspector = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*Class)}
}

// Register adds a defined class. Names must be unique.
func (r *Registry) Register(c *Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.classes[c.name]; exists {
		return &DefinitionError{Class: c.name, Reason: "already registered"}
	}
	r.classes[c.name] = c
	return nil
}

// Define is shorthand for Define followed by Register.
func (r *Registry) Define(name string, target any, opts ...DefineOption) error {
	c, err := Define(name, target, opts...)
	if err != nil {
		return err
	}
	return r.Register(c)
}

// Introspect returns the class registered under name.
func (r *Registry) Introspect(name string) (*Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	if !ok {
		return nil, &ClassNotFoundError{Class: name}
	}
	return c, nil
}

// Names returns the registered class names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.classes))
	for n := range r.classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
