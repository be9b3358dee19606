// Package config loads relay settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string        `env:"RELAY_ADDR,default=:12345" validate:"required"`
	MetricsAddr  string        `env:"RELAY_METRICS_ADDR,default=:9090"`
	MaxSessions  int           `env:"RELAY_MAX_SESSIONS,default=1024" validate:"gte=0"`
	MaxFrameSize int           `env:"RELAY_MAX_FRAME_SIZE,default=4096" validate:"gt=0"`
	WriteTimeout time.Duration `env:"RELAY_WRITE_TIMEOUT,default=0s" validate:"gte=0"`
	LogLevel     string        `env:"RELAY_LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`
	LogOutput    string        `env:"RELAY_LOG_OUTPUT,default=stdout" validate:"required"`
}

// Load reads the given .env files (".env" when none are named) into the
// process environment, then decodes and validates it. Missing .env files
// are ignored; variables already set in the environment take precedence.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
