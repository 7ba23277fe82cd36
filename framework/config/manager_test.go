package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-discovery/framework/config"
)

const searchesEnv = `
Site.title="Library Catalog"
Site.limit=20
Index.engine=solr
Index.url=http://localhost:8983/solr
theme=bootstrap
`

func TestManager_GetConfigArray_NestsSections(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "searches.env", searchesEnv)
	m := config.NewManager(config.PathResolver{BaseDir: dir})

	got, err := m.GetConfigArray("searches")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"Site":  map[string]any{"title": "Library Catalog", "limit": "20"},
		"Index": map[string]any{"engine": "solr", "url": "http://localhost:8983/solr"},
		"theme": "bootstrap",
	}, got)
}

func TestManager_GetConfigArray_ReturnsCopies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "searches.env", searchesEnv)
	m := config.NewManager(config.PathResolver{BaseDir: dir})

	first, err := m.GetConfigArray("searches")
	require.NoError(t, err)
	first["Site"].(map[string]any)["title"] = "changed"

	second, err := m.GetConfigArray("searches")
	require.NoError(t, err)
	assert.Equal(t, "Library Catalog", second["Site"].(map[string]any)["title"])
}

func TestManager_CachesUntilReload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "searches.env", "theme=bootstrap")
	m := config.NewManager(config.PathResolver{BaseDir: dir})

	obj, err := m.GetConfigObject("searches")
	require.NoError(t, err)
	assert.Equal(t, "bootstrap", obj.String("theme", ""))

	require.NoError(t, os.WriteFile(path, []byte("theme=dark"), 0o644))
	obj, err = m.GetConfigObject("searches")
	require.NoError(t, err)
	assert.Equal(t, "bootstrap", obj.String("theme", ""), "served from cache")

	m.Reload("searches")
	obj, err = m.GetConfigObject("searches")
	require.NoError(t, err)
	assert.Equal(t, "dark", obj.String("theme", ""))
}

func TestManager_MissingFile(t *testing.T) {
	m := config.NewManager(config.PathResolver{BaseDir: t.TempDir()})

	_, err := m.GetConfigArray("nope")
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = m.GetConfigObject("nope")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
