// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Backend names accepted by SESSION_BACKEND and CATALOG_BACKEND.
const (
	BackendMemory  = "memory"
	BackendRedis   = "redis"
	BackendMariaDB = "mariadb"
)

// devCSRFSecret is only used outside production when CSRF_SECRET is unset.
const devCSRFSecret = "dev-csrf-secret-do-not-use-in-production!!"

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// Session holds session store and cookie settings.
	Session SessionConfig

	// CSRF holds anti-forgery settings.
	CSRF CSRFConfig

	// Catalog selects where users, products and orders live.
	Catalog CatalogConfig

	// Database holds MariaDB connection settings. Only used when
	// Catalog.Backend is "mariadb".
	Database DatabaseConfig

	// Redis holds Redis connection settings. Only used when Session.Backend
	// is "redis".
	Redis RedisConfig

	// Images holds product image serving settings.
	Images ImagesConfig

	// LoginRateLimit is the number of POST /login attempts allowed per IP
	// per minute. Zero disables the limiter.
	LoginRateLimit int
}

// SessionConfig holds session settings.
type SessionConfig struct {
	// Backend is "memory" (single process) or "redis" (shared).
	Backend string

	// IdleTimeout is how long an untouched session survives.
	IdleTimeout time.Duration

	// CookieName is the name of the session cookie.
	CookieName string

	// CookieSecure marks session and CSRF cookies Secure. Defaults to true;
	// only disable for plain-HTTP local development.
	CookieSecure bool
}

// CSRFConfig holds anti-forgery token settings.
type CSRFConfig struct {
	// Secret keys the MAC that binds tokens to sessions.
	Secret string
}

// CatalogConfig holds data source settings.
type CatalogConfig struct {
	// Backend is "memory" (built-in fixtures) or "mariadb".
	Backend string

	// MigrationsPath is the directory holding SQL migrations for MariaDB.
	MigrationsPath string
}

// DatabaseConfig holds MariaDB connection parameters. If DATABASE_URL is
// set, it takes precedence over the individual fields.
type DatabaseConfig struct {
	// Host is the MariaDB address in host:port format (default: "localhost:3306").
	Host string

	// User is the MariaDB username (default: "storefront").
	User string

	// Password is the MariaDB password (default: "storefront").
	Password string

	// Name is the database name (default: "storefront").
	Name string

	// dsnOverride is set when DATABASE_URL is provided, bypassing individual fields.
	dsnOverride string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the go-sql-driver/mysql connection string. If DATABASE_URL was
// set, it is returned as-is. Otherwise the DSN is built from the individual
// fields using the driver's Config.FormatDSN().
func (d DatabaseConfig) DSN() string {
	if d.dsnOverride != "" {
		return d.dsnOverride
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	cfg.MultiStatements = true
	return cfg.FormatDSN()
}

// ensurePort appends the default port if the host string doesn't include one.
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// ImagesConfig holds product image settings.
type ImagesConfig struct {
	// Path is the base directory images are served from. Requested names
	// can never resolve outside it.
	Path string
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if a setting is invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		Session: SessionConfig{
			Backend:      strings.ToLower(getEnv("SESSION_BACKEND", BackendMemory)),
			IdleTimeout:  getEnvDuration("SESSION_IDLE_TIMEOUT", 20*time.Minute),
			CookieName:   getEnv("SESSION_COOKIE_NAME", ".Storefront.Session"),
			CookieSecure: getEnvBool("COOKIE_SECURE", true),
		},

		CSRF: CSRFConfig{
			Secret: getEnv("CSRF_SECRET", ""),
		},

		Catalog: CatalogConfig{
			Backend:        strings.ToLower(getEnv("CATALOG_BACKEND", BackendMemory)),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "db/migrations"),
		},

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost:3306"),
			User:            getEnv("DB_USER", "storefront"),
			Password:        getEnv("DB_PASSWORD", "storefront"),
			Name:            getEnv("DB_NAME", "storefront"),
			dsnOverride:     getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		Images: ImagesConfig{
			Path: getEnv("IMAGES_PATH", "public/images"),
		},

		LoginRateLimit: getEnvInt("LOGIN_RATE_LIMIT", 10),
	}

	switch cfg.Session.Backend {
	case BackendMemory, BackendRedis:
	default:
		return nil, fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, cfg.Session.Backend)
	}

	switch cfg.Catalog.Backend {
	case BackendMemory, BackendMariaDB:
	default:
		return nil, fmt.Errorf("CATALOG_BACKEND must be %q or %q, got %q", BackendMemory, BackendMariaDB, cfg.Catalog.Backend)
	}

	if cfg.Session.IdleTimeout <= 0 {
		return nil, fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive")
	}

	// Validate required fields in production. Case-insensitive check catches
	// common variants like "Production", "prod", etc.
	if cfg.IsProduction() {
		if cfg.CSRF.Secret == "" {
			return nil, fmt.Errorf("CSRF_SECRET is required in production")
		}
		if len(cfg.CSRF.Secret) < 32 {
			return nil, fmt.Errorf("CSRF_SECRET must be at least 32 characters in production")
		}
		if !cfg.Session.CookieSecure {
			return nil, fmt.Errorf("COOKIE_SECURE cannot be disabled in production")
		}
	}

	if cfg.CSRF.Secret == "" {
		cfg.CSRF.Secret = devCSRFSecret
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Env)
	return env == "production" || env == "prod"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvBool reads a boolean env var ("true", "1", "false", "0") or returns
// the default.
func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "20m") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
