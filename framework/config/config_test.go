package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-discovery/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// clearEnv blanks the variables Load reads; env() treats "" as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_NAME", "APP_ENV", "APP_DEBUG", "APP_URL", "APP_PORT",
		"CONFIG_BASE_DIR", "CONFIG_LOCAL_DIR", "YAML_WATCH", "AUTOWIRE_DENY",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := config.Load(filepath.Join(t.TempDir(), "missing.env"))

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"App.Name", cfg.App.Name, "Discovery"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Port", cfg.App.Port, "8000"},
		{"Paths.BaseDir", cfg.Paths.BaseDir, "./config"},
		{"Paths.LocalDir", cfg.Paths.LocalDir, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
	assert.True(t, cfg.App.Debug)
	assert.False(t, cfg.Paths.WatchYAML)
	assert.Empty(t, cfg.Autowire.Deny)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_NAME", "Finna")
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("CONFIG_LOCAL_DIR", "/etc/discovery")
	t.Setenv("AUTOWIRE_DENY", " cache.StorageCache, ,legacy.Driver ")

	cfg := config.Load()

	assert.Equal(t, "Finna", cfg.App.Name)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "/etc/discovery", cfg.Paths.LocalDir)
	assert.Equal(t, []string{"cache.StorageCache", "legacy.Driver"}, cfg.Autowire.Deny)
	assert.Equal(t, config.PathResolver{BaseDir: "./config", LocalDir: "/etc/discovery"}, cfg.Resolver())
}

func TestLoad_ReadsDotEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, t.TempDir(), ".env", "APP_PORT=7000\nYAML_WATCH=true\n")

	cfg := config.Load(envFile)

	assert.Equal(t, "7000", cfg.App.Port)
	assert.True(t, cfg.Paths.WatchYAML)
}

func TestLoad_AppDebug(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_DEBUG", "false")
	assert.False(t, config.Load().App.Debug)

	t.Setenv("APP_DEBUG", "true")
	assert.True(t, config.Load().App.Debug)
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet(t *testing.T) {
	t.Setenv("CUSTOM_KEY", "hello")
	assert.Equal(t, "hello", config.Get("CUSTOM_KEY", "default"))

	t.Setenv("CUSTOM_KEY", "")
	assert.Equal(t, "fallback", config.Get("CUSTOM_KEY", "fallback"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, config.GetInt("SOME_INT", 0))

	t.Setenv("SOME_INT", "notanint")
	assert.Equal(t, 99, config.GetInt("SOME_INT", 99))
}

func TestGetBool(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		t.Setenv("BOOL_KEY", val)
		assert.True(t, config.GetBool("BOOL_KEY", false), val)
	}
	t.Setenv("BOOL_KEY", "false")
	assert.False(t, config.GetBool("BOOL_KEY", true))

	t.Setenv("BOOL_KEY", "notabool")
	assert.True(t, config.GetBool("BOOL_KEY", true))
}

// ── PathResolver ─────────────────────────────────────────────────────────────

func TestPathResolver_LocalShadowsBase(t *testing.T) {
	base, local := t.TempDir(), t.TempDir()
	writeFile(t, base, "searches.env", "a=1")
	writeFile(t, base, "facets.env", "a=1")
	localSearches := writeFile(t, local, "searches.env", "a=2")

	p := config.PathResolver{BaseDir: base, LocalDir: local}

	got, err := p.Resolve("searches.env")
	require.NoError(t, err)
	assert.Equal(t, localSearches, got)

	got, err = p.Resolve("facets.env")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "facets.env"), got)

	_, err = p.Resolve("nope.env")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
