package autowire

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/km-arc/go-discovery/framework/config"
	"github.com/km-arc/go-discovery/framework/container"
)

// Container names of the collaborators config directives are served by.
const (
	ConfigManagerService = "config.manager"
	YamlReaderService    = "config.yaml"
)

// ConfigManager serves named configurations.
type ConfigManager interface {
	GetConfigArray(name string) (map[string]any, error)
	GetConfigObject(name string) (*config.Object, error)
}

// YamlReader serves parsed YAML resources by file name.
type YamlReader interface {
	Get(name string) (map[string]any, error)
}

// Option configures a Factory or a Classifier.
type Option func(*settings)

type settings struct {
	logger *zap.Logger
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func newSettings(opts []Option) settings {
	s := settings{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Factory builds class instances by resolving every constructor parameter
// from a container.
//
// A Factory caches the config manager and YAML reader it fetched from the
// first container that needed them and reuses them on later calls.
type Factory struct {
	introspector Introspector
	logger       *zap.Logger

	mu            sync.Mutex
	configManager ConfigManager
	yamlReader    YamlReader
}

// NewFactory creates a Factory introspecting classes through in.
func NewFactory(in Introspector, opts ...Option) *Factory {
	s := newSettings(opts)
	return &Factory{introspector: in, logger: s.logger}
}

// Create builds an instance of class.
//
// options must be empty: everything the factory needs is declared on the
// class. Any failure aborts the whole call; nothing is partially built.
func (f *Factory) Create(l container.Locator, class string, options map[string]any) (any, error) {
	if len(options) > 0 {
		keys := make([]string, 0, len(options))
		for k := range options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, &UnexpectedOptionsError{Class: class, Keys: keys}
	}

	c, err := f.introspector.Introspect(class)
	if err != nil {
		return nil, err
	}

	params := c.Params()
	if len(params) == 0 {
		f.logger.Debug("autowire: instantiating without arguments",
			zap.String("class", class), zap.Bool("constructor", c.HasConstructor()))
		return c.Instantiate(nil)
	}

	args := make([]any, len(params))
	for i, p := range params {
		v, err := f.resolveParameter(l, class, p)
		if err != nil {
			f.logger.Debug("autowire: parameter failed",
				zap.String("class", class), zap.String("param", p.Name), zap.Error(err))
			return nil, err
		}
		args[i] = v
	}

	instance, err := c.Instantiate(args)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("autowire: created", zap.String("class", class), zap.Int("params", len(params)))
	return instance, nil
}

// getConfigManager returns the cached config manager, fetching it from l on
// first use. Concurrent first uses may both fetch; the last one is kept.
func (f *Factory) getConfigManager(l container.Locator) (ConfigManager, error) {
	f.mu.Lock()
	cm := f.configManager
	f.mu.Unlock()
	if cm != nil {
		return cm, nil
	}

	v, err := l.Get(ConfigManagerService)
	if err != nil {
		return nil, err
	}
	cm, ok := v.(ConfigManager)
	if !ok {
		return nil, &container.TypeMismatchError{Name: ConfigManagerService, Want: "autowire.ConfigManager", Got: typeString(v)}
	}

	f.mu.Lock()
	f.configManager = cm
	f.mu.Unlock()
	return cm, nil
}

// getYamlReader mirrors getConfigManager for the YAML reader.
func (f *Factory) getYamlReader(l container.Locator) (YamlReader, error) {
	f.mu.Lock()
	yr := f.yamlReader
	f.mu.Unlock()
	if yr != nil {
		return yr, nil
	}

	v, err := l.Get(YamlReaderService)
	if err != nil {
		return nil, err
	}
	yr, ok := v.(YamlReader)
	if !ok {
		return nil, &container.TypeMismatchError{Name: YamlReaderService, Want: "autowire.YamlReader", Got: typeString(v)}
	}

	f.mu.Lock()
	f.yamlReader = yr
	f.mu.Unlock()
	return yr, nil
}
