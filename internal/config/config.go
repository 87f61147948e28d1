// Package config loads the process configuration once at startup.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is built once in main and shared read-only by pointer.
type Config struct {
	App           AppConfig
	Server        ServerConfig
	Slack         SlackConfig
	ErrorTracking ErrorTrackingConfig
}

// AppConfig identifies the running process.
type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"slack-mcp"`
	Version  string `envconfig:"APP_VERSION" default:"1.0.0"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ServerConfig controls the HTTP listener and MCP sessions.
type ServerConfig struct {
	Port            int           `envconfig:"PORT" default:"3000"`
	KeepAlive       time.Duration `envconfig:"MCP_KEEPALIVE" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	TLSCertFile     string        `envconfig:"TLS_CERT_FILE"`
	TLSKeyFile      string        `envconfig:"TLS_KEY_FILE"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// TLS reports whether both certificate and key are configured.
func (c ServerConfig) TLS() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// SlackConfig holds the Slack Web API credentials and pacing.
type SlackConfig struct {
	BotToken      string  `envconfig:"SLACK_BOT_TOKEN" required:"true"`
	APIURL        string  `envconfig:"SLACK_API_URL"`
	RatePerMinute float64 `envconfig:"SLACK_RATE_PER_MINUTE" default:"0"`
}

// ErrorTrackingConfig configures Sentry reporting.
type ErrorTrackingConfig struct {
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	if cfg.Slack.BotToken == "" {
		return nil, errors.New("SLACK_BOT_TOKEN must be set")
	}
	return &cfg, nil
}
