package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogDir      string // empty = stdout only
	LogMaxFiles int
	CORSOrigins string

	// Remote store (Supabase Postgres)
	UseRemoteStore       bool
	DatabaseURL          string
	TablePrefix          string
	RemoteConnectTimeout time.Duration

	// Local fallback store (badger directory)
	LocalStorePath string

	// Draft browser
	SearchDebounce time.Duration

	// Editor sessions idle longer than SessionIdleTimeout are dropped
	SessionIdleTimeout     time.Duration
	SessionCleanupInterval time.Duration

	// Issuer branding printed on every document
	IssuerName      string
	IssuerInitials  string
	IssuerSignatory string
	IssuerTagline   string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		LogLevel:    getEnv("LOG_LEVEL", getDefaultLogLevel(env)),
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		// SUPABASE_DB_URL wins over DATABASE_URL so existing Supabase .env files keep working
		UseRemoteStore:         getEnv("USE_REMOTE_STORE", "true") == "true",
		DatabaseURL:            getEnv("SUPABASE_DB_URL", getEnv("DATABASE_URL", "")),
		TablePrefix:            getTablePrefix(env),
		RemoteConnectTimeout:   getEnvDuration("REMOTE_CONNECT_TIMEOUT", 5*time.Second),
		LocalStorePath:         getEnv("LOCAL_STORE_PATH", "data/local-documents"),
		SearchDebounce:         time.Duration(getEnvInt("SEARCH_DEBOUNCE_MS", 300)) * time.Millisecond,
		SessionIdleTimeout:     getEnvDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
		SessionCleanupInterval: getEnvDuration("SESSION_CLEANUP_INTERVAL", 5*time.Minute),
		IssuerName:             getEnv("ISSUER_NAME", "Gabriel Queiroz"),
		IssuerInitials:         getEnv("ISSUER_INITIALS", "GQ"),
		IssuerSignatory:        getEnv("ISSUER_SIGNATORY", "Gabriel Queiroz de Souza"),
		IssuerTagline:          getEnv("ISSUER_TAGLINE", "Desenvolvimento de Software"),
	}
}

// RemoteEnabled reports whether startup should try the remote store at all
func (c *Config) RemoteEnabled() bool {
	return c.UseRemoteStore && strings.TrimSpace(c.DatabaseURL) != ""
}

// getDefaultLogLevel returns the default log level based on environment
func getDefaultLogLevel(env string) string {
	if env == "dev" {
		return "debug"
	}
	return "info"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var (set it to "none" for no prefix)
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		if prefix == "none" {
			return ""
		}
		return prefix
	}

	switch env {
	case "prod":
		return ""
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 0 {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
