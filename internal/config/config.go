package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/caarlos0/env/v11"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	JWT      JWTConfig      `envPrefix:"JWT_"`
	Health   HealthConfig   `envPrefix:"HEALTH_"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string   `env:"NAME" envDefault:"timeclock"`
	Version        string   `env:"VERSION" envDefault:"dev"`
	Port           int      `env:"PORT" envDefault:"8080"`
	Env            string   `env:"ENV" envDefault:"development"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	Timezone       string   `env:"TIMEZONE" envDefault:"Asia/Jakarta"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

type DatabaseConfig struct {
	Driver     string `env:"DRIVER" envDefault:"postgres"`
	Host       string `env:"HOST" envDefault:"localhost"`
	Port       int    `env:"PORT" envDefault:"5432"`
	User       string `env:"USER" envDefault:"postgres"`
	Password   string `env:"PASSWORD"`
	Name       string `env:"NAME" envDefault:"timeclock"`
	SSLMode    string `env:"SSL_MODE" envDefault:"disable"`
	MaxConns   int32  `env:"MAX_CONNS" envDefault:"25"`
	MinConns   int32  `env:"MIN_CONNS" envDefault:"5"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"timeclock.db"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string `env:"SECRET_KEY"`
	AccessExpiration string `env:"ACCESS_EXPIRATION_TIME" envDefault:"1h"`
	StreamExpiration string `env:"STREAM_EXPIRATION_TIME" envDefault:"5m"`
}

type HealthConfig struct {
	CheckInterval time.Duration `env:"CHECK_INTERVAL" envDefault:"15s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded, using process environment", slog.String("reason", err.Error()))
	}

	return Parse()
}

// Parse builds the configuration from the process environment only.
func Parse() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	if !validator.IsInSlice(c.App.Env, []string{"development", "staging", "production"}) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of development, staging, production"))
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("APP_TIMEZONE %q is not a known timezone", c.App.Timezone))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, fmt.Errorf("JWT_SECRET_KEY is required"))
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		errs = append(errs, fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME is not a duration"))
	}
	if _, err := time.ParseDuration(c.JWT.StreamExpiration); err != nil {
		errs = append(errs, fmt.Errorf("JWT_STREAM_EXPIRATION_TIME is not a duration"))
	}
	if c.Health.CheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("HEALTH_CHECK_INTERVAL must be positive"))
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			errs = append(errs, fmt.Errorf("DB_PASSWORD is required"))
		}
		if c.Database.MinConns > c.Database.MaxConns {
			errs = append(errs, fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS"))
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Database.SQLitePath) == "" {
			errs = append(errs, fmt.Errorf("DB_SQLITE_PATH is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be one of %s, %s", DriverPostgres, DriverSQLite))
	}

	return errors.Join(errs...)
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.Database.User),
		url.QueryEscape(c.Database.Password),
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the operational timezone used to date clock events.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}
