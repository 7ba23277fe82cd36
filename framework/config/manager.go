package config

import (
	"sort"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
)

// Manager serves named configuration files, e.g. "searches" for
// searches.env. Files use dotenv syntax; a dotted key places the value in a
// section:
//
//	Site.title=Library Catalog
//	Site.url=https://catalog.example.org
//	Index.engine=solr
//
// becomes {"Site": {"title": ..., "url": ...}, "Index": {"engine": "solr"}}.
//
// Parsed files are cached for the lifetime of the Manager.
type Manager struct {
	paths PathResolver

	mu    sync.RWMutex
	cache map[string]map[string]any
}

// NewManager creates a Manager reading files through paths.
func NewManager(paths PathResolver) *Manager {
	return &Manager{paths: paths, cache: make(map[string]map[string]any)}
}

// GetConfigArray returns the named configuration as a nested mapping.
// The result is a copy; mutating it does not affect later calls.
func (m *Manager) GetConfigArray(name string) (map[string]any, error) {
	data, err := m.load(name)
	if err != nil {
		return nil, err
	}
	return deepcopy.Copy(data).(map[string]any), nil
}

// GetConfigObject returns the named configuration as a read-only Object.
func (m *Manager) GetConfigObject(name string) (*Object, error) {
	data, err := m.load(name)
	if err != nil {
		return nil, err
	}
	return NewObject(data), nil
}

// Reload drops the cached copy of name so the next call re-reads the file.
func (m *Manager) Reload(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, name)
}

func (m *Manager) load(name string) (map[string]any, error) {
	m.mu.RLock()
	data, ok := m.cache[name]
	m.mu.RUnlock()
	if ok {
		return data, nil
	}

	path, err := m.paths.Resolve(name + ".env")
	if err != nil {
		return nil, err
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}
	data = nest(values)

	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, ok := m.cache[name]; ok {
		return cached, nil
	}
	m.cache[name] = data
	return data, nil
}

// nest turns dotted keys into nested sections. Keys are applied in sorted
// order, so a section always replaces a scalar of the same name.
func nest(flat map[string]string) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(flat))
	for _, key := range keys {
		parts := strings.Split(key, ".")
		cur := out
		for _, part := range parts[:len(parts)-1] {
			next, ok := cur[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				cur[part] = next
			}
			cur = next
		}
		cur[parts[len(parts)-1]] = flat[key]
	}
	return out
}
