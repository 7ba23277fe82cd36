package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// YamlReader loads YAML resources (searchspecs.yaml, facets.yaml, ...) with
// cache-or-parse semantics: a file is parsed on first Get and served from
// memory afterwards until Reload, Forget or a Watch event drops it.
type YamlReader struct {
	paths  PathResolver
	logger *zap.Logger

	mu     sync.RWMutex
	cache  map[string]map[string]any
	parses int
}

// YamlOption configures a YamlReader.
type YamlOption func(*YamlReader)

// WithLogger sets the logger used for cache and watch events.
func WithLogger(l *zap.Logger) YamlOption {
	return func(r *YamlReader) { r.logger = l }
}

// NewYamlReader creates a reader resolving files through paths.
func NewYamlReader(paths PathResolver, opts ...YamlOption) *YamlReader {
	r := &YamlReader{
		paths:  paths,
		logger: zap.NewNop(),
		cache:  make(map[string]map[string]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the parsed content of the named file (e.g. "searchspecs.yaml").
// The result is a copy of the cached data.
func (r *YamlReader) Get(name string) (map[string]any, error) {
	r.mu.RLock()
	data, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return deepcopy.Copy(data).(map[string]any), nil
	}
	return r.Reload(name)
}

// Reload parses the named file again and replaces the cached copy.
func (r *YamlReader) Reload(name string) (map[string]any, error) {
	path, err := r.paths.Resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := parseYaml(path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[name] = data
	r.parses++
	r.mu.Unlock()

	r.logger.Debug("yaml parsed", zap.String("name", name), zap.String("path", path))
	return deepcopy.Copy(data).(map[string]any), nil
}

// Forget drops name from the cache.
func (r *YamlReader) Forget(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, name)
}

// Parses returns how many times a file was read from disk.
func (r *YamlReader) Parses() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.parses
}

// Watch drops cache entries whenever a YAML file in one of the configuration
// directories changes. It blocks until ctx is done or the watcher fails.
func (r *YamlReader) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "config: creating yaml watcher")
	}
	defer w.Close()

	for _, dir := range r.paths.Dirs() {
		if err := w.Add(dir); err != nil {
			return errors.Wrapf(err, "config: watching %s", dir)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, ".yaml") {
				continue
			}
			r.Forget(name)
			r.logger.Info("yaml cache invalidated", zap.String("name", name), zap.String("op", ev.Op.String()))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("yaml watcher error", zap.Error(err))
		}
	}
}

func parseYaml(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}
	data := make(map[string]any)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrapf(err, "config: parsing %s", path)
	}
	return data, nil
}
