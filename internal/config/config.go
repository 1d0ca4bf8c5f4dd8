package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/apper-canvas/realmquickcart/pkg/config"
)

// Record store backend selection values.
const (
	BackendRemote   = "remote"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Record store backend: remote, postgres, or memory
	RecordStoreBackend string `env:"RECORD_STORE_BACKEND" envDefault:"remote"`
	RecordStoreURL     string `env:"RECORD_STORE_URL" envDefault:"http://localhost:4000"`
	RecordStoreAPIKey  string `env:"RECORD_STORE_API_KEY" envDefault:""`

	// PostgreSQL (used when RECORD_STORE_BACKEND=postgres)
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"quickcart"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"quickcart_secret"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"quickcart"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Redis
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Guest cart/wishlist TTL in hours (default: 7 days)
	SessionTTLHours int `env:"SESSION_TTL_HOURS" envDefault:"168"`

	// Catalog cache TTL in seconds
	CatalogCacheTTLSeconds int `env:"CATALOG_CACHE_TTL_SECONDS" envDefault:"300"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	TracingEnabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint   string  `env:"TRACING_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SessionTTL returns the guest session TTL as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// CatalogCacheTTL returns the catalog cache TTL as a duration.
func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheTTLSeconds) * time.Second
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.RecordStoreBackend {
	case BackendRemote, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("invalid record store backend: %q", c.RecordStoreBackend)
	}
	if c.RecordStoreBackend == BackendRemote && c.RecordStoreURL == "" {
		return fmt.Errorf("RECORD_STORE_URL is required for the remote backend")
	}
	return nil
}
