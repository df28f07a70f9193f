package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is read from the environment, after an optional .env file.
type Config struct {
	Addr     string `env:"SITE_ADDR" envDefault:":8080"`
	Env      string `env:"GO_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// DatabaseURL switches the member catalog from the embedded seed to
	// the members table. It is read once at startup.
	DatabaseURL string `env:"DATABASE_URL"`

	FormTokenSecret string        `env:"FORM_TOKEN_SECRET" envDefault:"your_secret_key_please_change_in_production"`
	FormTokenTTL    time.Duration `env:"FORM_TOKEN_TTL" envDefault:"30m"`

	// SubmitDelay is how long a simulated form submission takes.
	SubmitDelay time.Duration `env:"SUBMIT_DELAY" envDefault:"1500ms"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173,http://localhost:3001,http://127.0.0.1:3001"`
}

func (c Config) Development() bool {
	return c.Env == "" || c.Env == "development"
}

func loadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return parseConfig()
}

func parseConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.FormTokenTTL <= 0 {
		return Config{}, fmt.Errorf("FORM_TOKEN_TTL must be positive, got %s", cfg.FormTokenTTL)
	}
	if cfg.SubmitDelay < 0 {
		return Config{}, fmt.Errorf("SUBMIT_DELAY must not be negative, got %s", cfg.SubmitDelay)
	}
	return cfg, nil
}
