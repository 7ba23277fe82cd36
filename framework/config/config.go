package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct of the application.
// Named configuration files (searches, facets, ...) are served by Manager;
// this struct only carries what the process needs to boot.
type Config struct {
	App      AppConfig
	Paths    PathsConfig
	Autowire AutowireConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	URL   string
	Port  string
}

// PathsConfig locates the named configuration files. Files in LocalDir
// shadow files of the same name in BaseDir.
type PathsConfig struct {
	BaseDir   string
	LocalDir  string
	WatchYAML bool
}

// AutowireConfig tunes the autowiring abstract factory.
type AutowireConfig struct {
	// Deny lists class names that must never be autowired even when their
	// constructor would allow it.
	Deny []string
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "Discovery"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
			URL:   env("APP_URL", "http://localhost"),
			Port:  env("APP_PORT", "8000"),
		},
		Paths: PathsConfig{
			BaseDir:   env("CONFIG_BASE_DIR", "./config"),
			LocalDir:  env("CONFIG_LOCAL_DIR", ""),
			WatchYAML: envBool("YAML_WATCH", false),
		},
		Autowire: AutowireConfig{
			Deny: envList("AUTOWIRE_DENY"),
		},
	}
}

// Resolver returns the PathResolver described by the Paths section.
func (c *Config) Resolver() PathResolver {
	return PathResolver{BaseDir: c.Paths.BaseDir, LocalDir: c.Paths.LocalDir}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// envList splits a comma separated variable, dropping blanks.
func envList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
