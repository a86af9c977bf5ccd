package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Auth     AuthConfig
	Metrics  MetricsConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string
	// LoginRatePerMinute limits credential submissions per client address.
	LoginRatePerMinute int
	LoginRateBurst     int
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	Level string
}

// AuthConfig groups authentication related settings.
type AuthConfig struct {
	Session SessionConfig
}

// SessionConfig configures the session cookie.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

type environment struct {
	ServerAddr         string        `envconfig:"SERVER_ADDR"`
	Addr               string        `envconfig:"ADDR"`
	DatabaseURL        string        `envconfig:"DATABASE_URL"`
	DBURL              string        `envconfig:"DB_URL"`
	MaxIdleConns       int           `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	MaxOpenConns       int           `envconfig:"DATABASE_MAX_OPEN_CONNS" default:"20"`
	ConnMaxLifetime    time.Duration `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"30m"`
	ConnMaxIdleTime    time.Duration `envconfig:"DATABASE_CONN_MAX_IDLE_TIME" default:"5m"`
	UseMock            bool          `envconfig:"DATABASE_USE_MOCK" default:"false"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	SessionLifetime    time.Duration `envconfig:"SESSION_LIFETIME" default:"12h"`
	SessionCookieName  string        `envconfig:"SESSION_COOKIE_NAME" default:"larder_session"`
	SessionDomain      string        `envconfig:"SESSION_COOKIE_DOMAIN"`
	SessionSecure      bool          `envconfig:"SESSION_COOKIE_SECURE" default:"true"`
	LoginRatePerMinute int           `envconfig:"LOGIN_RATE_PER_MINUTE" default:"10"`
	LoginRateBurst     int           `envconfig:"LOGIN_RATE_BURST" default:"5"`
	MetricsEnabled     bool          `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load inspects the environment and builds a Config value.
func Load() (Config, error) {
	var env environment
	if err := envconfig.Process("", &env); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:               firstNonEmpty(env.ServerAddr, env.Addr, ":8080"),
			LoginRatePerMinute: env.LoginRatePerMinute,
			LoginRateBurst:     env.LoginRateBurst,
		},
		Database: DatabaseConfig{
			URL:             strings.TrimSpace(firstNonEmpty(env.DatabaseURL, env.DBURL)),
			MaxIdleConns:    env.MaxIdleConns,
			MaxOpenConns:    env.MaxOpenConns,
			ConnMaxLifetime: env.ConnMaxLifetime,
			ConnMaxIdleTime: env.ConnMaxIdleTime,
			UseMock:         env.UseMock,
		},
		Logging: LoggingConfig{Level: strings.ToLower(strings.TrimSpace(env.LogLevel))},
		Auth: AuthConfig{
			Session: SessionConfig{
				Lifetime:     env.SessionLifetime,
				CookieName:   strings.TrimSpace(env.SessionCookieName),
				CookieDomain: strings.TrimSpace(env.SessionDomain),
				CookieSecure: env.SessionSecure,
			},
		},
		Metrics: MetricsConfig{Enabled: env.MetricsEnabled},
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}
	if !cfg.Database.UseMock && cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set unless DATABASE_USE_MOCK is enabled")
	}
	if cfg.Server.LoginRatePerMinute < 0 || cfg.Server.LoginRateBurst < 0 {
		return Config{}, fmt.Errorf("login rate limits must not be negative")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
