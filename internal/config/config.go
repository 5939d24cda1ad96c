// Package config loads application configuration from the environment.
// A local .env file is honored when present so development setups do not
// need to export variables by hand.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds general application settings.
type AppConfig struct {
	Name            string
	Env             string // dev | prod
	Version         string
	Port            int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level    string // debug | info | warn | error
	Encoding string // json | console
}

// CatalogConfig holds catalog load and cache settings.
type CatalogConfig struct {
	// TTL bounds how long a persisted catalog snapshot stays fresh.
	// Shorter in dev so edits to the source files show up quickly.
	TTL              time.Duration
	DefaultSource    string
	PlaceholderImage string
	AssetRoot        string // public asset root served by the parquet bridge
}

// JWTConfig holds session token settings.
type JWTConfig struct {
	Secret     string
	SessionTTL time.Duration
	CookieName string
}

// SessionConfig holds settings for the session consumer client.
type SessionConfig struct {
	BaseURL string
}

// RedisConfig holds optional Redis connection settings.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// RateLimitConfig holds login rate limit settings.
type RateLimitConfig struct {
	Enabled bool
	Rate    int64
	Burst   int64
	Window  time.Duration
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Config is the root configuration object.
type Config struct {
	App       AppConfig
	Log       LogConfig
	Catalog   CatalogConfig
	JWT       JWTConfig
	Session   SessionConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	// Best effort: missing .env is fine, real env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", "petshop-storefront"),
			Env:             getEnv("APP_ENV", "dev"),
			Version:         getEnv("APP_VERSION", "0.1.0"),
			Port:            getEnvInt("APP_PORT", 8080),
			RequestTimeout:  getEnvDuration("APP_REQUEST_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "secret"),
			SessionTTL: getEnvDuration("JWT_SESSION_TTL", 24*time.Hour),
			CookieName: getEnv("JWT_COOKIE_NAME", "token"),
		},
		Session: SessionConfig{
			BaseURL: getEnv("SESSION_BASE_URL", "http://localhost:8080"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvBool("RATE_LIMIT_ENABLED", true),
			Rate:    int64(getEnvInt("RATE_LIMIT_RATE", 10)),
			Burst:   int64(getEnvInt("RATE_LIMIT_BURST", 20)),
			Window:  getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvList("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization", "X-Request-ID"}),
		},
	}

	cfg.Catalog = CatalogConfig{
		TTL:              getEnvDuration("CATALOG_TTL", defaultCatalogTTL(cfg.App.Env)),
		DefaultSource:    getEnv("CATALOG_SOURCE", "products.json"),
		PlaceholderImage: getEnv("CATALOG_PLACEHOLDER_IMAGE", "/placeholder-product.jpg"),
		AssetRoot:        getEnv("CATALOG_ASSET_ROOT", "public"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultCatalogTTL trades freshness against reload cost per environment.
func defaultCatalogTTL(env string) time.Duration {
	if env == "prod" {
		return 24 * time.Hour
	}
	return 5 * time.Minute
}

func (c *Config) validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid APP_PORT: %d", c.App.Port)
	}
	switch c.App.Env {
	case "dev", "prod":
	default:
		return fmt.Errorf("invalid APP_ENV: %q (want dev or prod)", c.App.Env)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Catalog.TTL <= 0 {
		return fmt.Errorf("CATALOG_TTL must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit requires positive rate and burst")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}
