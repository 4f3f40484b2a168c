// Package config loads the application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	GitHub     GitHub
	HTTPServer HTTPServer

	// LogFormat selects the slog handler: "text" or "json".
	LogFormat string `env:"LOG_FORMAT" env-default:"text"`
}

// GitHub configures the upstream API clients.
type GitHub struct {
	Token      string `env:"GITHUB_TOKEN" env-required:"true"`
	APIURL     string `env:"GITHUB_API_URL" env-default:"https://api.github.com/"`
	GraphQLURL string `env:"GITHUB_GRAPHQL_URL" env-default:"https://api.github.com/graphql"`

	Timeout             time.Duration `env:"UPSTREAM_TIMEOUT" env-default:"15s"`
	RateLimitMaxSleep   time.Duration `env:"RATE_LIMIT_MAX_SLEEP" env-default:"10s"`
	LanguageConcurrency int           `env:"LANGUAGE_CONCURRENCY" env-default:"4"`
	ReposPerPage        int           `env:"REPOS_PER_PAGE" env-default:"30"`
}

// HTTPServer configures the inbound HTTP server.
type HTTPServer struct {
	Address         string        `env:"HTTP_ADDR" env-default:":5001"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"60s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

// Load reads a .env file when one exists, then the process environment.
// Variables already set in the environment win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json', got %q", c.LogFormat)
	}
	if c.GitHub.LanguageConcurrency < 1 {
		return fmt.Errorf("LANGUAGE_CONCURRENCY must be at least 1, got %d", c.GitHub.LanguageConcurrency)
	}
	if c.GitHub.ReposPerPage < 1 || c.GitHub.ReposPerPage > 100 {
		return fmt.Errorf("REPOS_PER_PAGE must be between 1 and 100, got %d", c.GitHub.ReposPerPage)
	}
	if c.GitHub.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.GitHub.Timeout)
	}
	return nil
}
