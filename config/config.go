package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	SecretKey                string `env:"SECRET_KEY,required"  validate:"required,min=32"`
	Algorithm                string `env:"ALGORITHM" envDefault:"HS256" validate:"oneof=HS256 HS384 HS512"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30" validate:"min=1,max=1440"`
	RefreshTokenExpireDays   int    `env:"REFRESH_TOKEN_EXPIRE_DAYS" envDefault:"7" validate:"min=1,max=90"`
	ResetTokenExpireMinutes  int    `env:"RESET_TOKEN_EXPIRE_MINUTES" envDefault:"30" validate:"min=1,max=1440"`

	ResendAPIKey  string `env:"RESEND_API_KEY"      validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom    string `env:"RESEND_FROM"         validate:"required_if=Env production,required_if=Env staging"`
	ResetLinkBase string `env:"RESET_LINK_BASE_URL" envDefault:"http://localhost:5173"`

	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60" validate:"min=1"`
	RateLimitBurst     int `env:"RATE_LIMIT_BURST" envDefault:"10" validate:"min=1"`

	TokenSweepSchedule string `env:"TOKEN_SWEEP_SCHEDULE" envDefault:"@hourly"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
