package config

import (
	"fmt"
	"time"

	"github.com/kamilaalv/movie465/pkg/config"
	"github.com/kamilaalv/movie465/pkg/database"
)

const devSecret = "dev-only-secret-change-me-0123456789abcdef"

// Config holds the movies service configuration, loaded from environment
// variables. The JWT secret must match the users service so tokens verify.
type Config struct {
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8082"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	JWTSecret string `env:"JWT_SECRET"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"portfolio"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"portfolio_secret"`
	DBName     string `env:"DB_NAME" envDefault:"movies"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	CacheMaxAge        int      `env:"CACHE_MAX_AGE" envDefault:"60"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, fmt.Errorf("load movies config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if c.Environment != "development" {
			return fmt.Errorf("JWT_SECRET is required outside development")
		}
		c.JWTSecret = devSecret
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	return nil
}

// PostgresConfig translates the flat env fields into pool configuration.
func (c *Config) PostgresConfig() *database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.DBHost
	pg.Port = c.DBPort
	pg.User = c.DBUser
	pg.Password = c.DBPassword
	pg.DBName = c.DBName
	pg.SSLMode = c.DBSSLMode
	return &pg
}
