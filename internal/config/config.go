// Package config builds the process configuration from environment
// variables (optionally seeded from a .env file). The resulting struct is
// constructed once at startup and passed explicitly into the components
// that need it; no package keeps global connection state.
package config

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the pipeline binaries need.
type Config struct {
	// DatabaseURL is the assembled (or overridden) Postgres DSN.
	DatabaseURL string

	// DataDir is where the raw extracts live and the cleaned intermediate
	// files are written.
	DataDir string

	// StorageBackend selects the sink: "postgres" (default) or "sqlite".
	SQLitePath     string
	StorageBackend string

	// Metrics backend selection: "none" (default), "pushgateway", "datadog".
	MetricsBackend string
	PushgatewayURL string
	DogstatsdAddr  string
	MetricsJob     string
}

// Load reads the process environment, after best-effort .env loading.
// It fails fast, before any I/O, when required settings are missing.
func Load() (Config, error) {
	_ = godotenv.Load(".env")
	return LoadFromEnv(os.Getenv)
}

// LoadFromEnv is the testable entry point: callers supply getenv (often a
// map lookup in tests) and receive a fully populated Config or an error
// naming every missing required variable at once.
func LoadFromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		DataDir:        get("DATA_DIR", "data"),
		StorageBackend: get("STORAGE_BACKEND", "postgres"),
		SQLitePath:     get("SQLITE_PATH", "secmar.db"),
		MetricsBackend: get("METRICS_BACKEND", "none"),
		PushgatewayURL: get("PUSHGATEWAY_URL", "http://localhost:9091"),
		DogstatsdAddr:  get("DOGSTATSD_ADDR", "127.0.0.1:8125"),
		MetricsJob:     get("METRICS_JOB", "secmar_pipeline"),
	}

	switch cfg.StorageBackend {
	case "postgres":
		dsn, err := databaseURL(getenv)
		if err != nil {
			return Config{}, err
		}
		cfg.DatabaseURL = dsn
	case "sqlite":
		// no connection parameters beyond the file path
	default:
		return Config{}, fmt.Errorf("config: unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}

// databaseURL assembles the Postgres DSN from discrete parts, or takes
// DATABASE_URL verbatim when set.
func databaseURL(getenv func(string) string) (string, error) {
	if dsn := strings.TrimSpace(getenv("DATABASE_URL")); dsn != "" {
		return dsn, nil
	}

	parts := map[string]string{
		"DB_USER":     strings.TrimSpace(getenv("DB_USER")),
		"DB_PASSWORD": strings.TrimSpace(getenv("DB_PASSWORD")),
		"DB_HOST":     strings.TrimSpace(getenv("DB_HOST")),
		"DB_PORT":     strings.TrimSpace(getenv("DB_PORT")),
		"DB_NAME":     strings.TrimSpace(getenv("DB_NAME")),
	}
	var missing []string
	for k, v := range parts {
		if v == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("config: missing required variable(s): %s", strings.Join(missing, ", "))
	}

	sslmode := strings.TrimSpace(getenv("DB_SSLMODE"))
	if sslmode == "" {
		sslmode = "require"
	}

	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(parts["DB_USER"]),
		url.QueryEscape(parts["DB_PASSWORD"]),
		parts["DB_HOST"],
		parts["DB_PORT"],
		parts["DB_NAME"],
		sslmode,
	), nil
}
