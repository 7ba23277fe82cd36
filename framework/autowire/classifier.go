package autowire

import (
	"sync"

	"go.uber.org/zap"

	"github.com/km-arc/go-discovery/framework/container"
)

// Classifier decides whether a class can be built with no wiring knowledge
// beyond its own definition, and remembers each answer.
//
// The answer for a class never changes within a process, so entries are
// never invalidated; Reset exists for tests.
type Classifier struct {
	introspector Introspector
	logger       *zap.Logger
	overrides    map[string]bool

	mu    sync.RWMutex
	known map[string]bool
}

// NewClassifier creates a Classifier. overrides forces the answer for the
// listed classes before any introspection; it is copied.
func NewClassifier(in Introspector, overrides map[string]bool, opts ...Option) *Classifier {
	s := newSettings(opts)
	c := &Classifier{
		introspector: in,
		logger:       s.logger,
		overrides:    make(map[string]bool, len(overrides)),
		known:        make(map[string]bool),
	}
	for k, v := range overrides {
		c.overrides[k] = v
	}
	return c
}

// Deny builds an override table answering false for every name.
func Deny(classes ...string) map[string]bool {
	out := make(map[string]bool, len(classes))
	for _, name := range classes {
		out[name] = false
	}
	return out
}

// CanAutowire reports whether class is eligible for autowiring:
//   - unknown classes are not;
//   - classes without a constructor or with a parameterless one are;
//   - otherwise the constructor must carry the Autowired marker.
func (c *Classifier) CanAutowire(class string) bool {
	if v, ok := c.overrides[class]; ok {
		return v
	}
	c.mu.RLock()
	v, ok := c.known[class]
	c.mu.RUnlock()
	if ok {
		return v
	}

	v = c.classify(class)

	c.mu.Lock()
	c.known[class] = v
	c.mu.Unlock()
	c.logger.Debug("autowire: classified", zap.String("class", class), zap.Bool("autowireable", v))
	return v
}

func (c *Classifier) classify(class string) bool {
	cl, err := c.introspector.Introspect(class)
	if err != nil {
		return false
	}
	if !cl.HasConstructor() || len(cl.Params()) == 0 {
		return true
	}
	return cl.Autowired()
}

// Known returns a snapshot of the computed answers, overrides excluded.
func (c *Classifier) Known() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]bool, len(c.known))
	for k, v := range c.known {
		out[k] = v
	}
	return out
}

// Reset forgets every computed answer. Overrides are kept.
func (c *Classifier) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.known = make(map[string]bool)
}

// ── Container integration ─────────────────────────────────────────────────────

// AbstractFactory plugs autowiring into a container: names the Classifier
// accepts are built by the Factory.
type AbstractFactory struct {
	classifier *Classifier
	factory    *Factory
}

var _ container.AbstractFactory = (*AbstractFactory)(nil)

// NewAbstractFactory couples a Classifier with a Factory.
func NewAbstractFactory(cl *Classifier, f *Factory) *AbstractFactory {
	return &AbstractFactory{classifier: cl, factory: f}
}

func (a *AbstractFactory) CanCreate(_ *container.Container, name string) bool {
	return a.classifier.CanAutowire(name)
}

func (a *AbstractFactory) Create(c *container.Container, name string) (any, error) {
	return a.factory.Create(c, name, nil)
}
