// Package config loads process configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	StoreURL        string        `env:"SMASH_CASH_STORE_URL" envDefault:"bolt://smash-cash.db"`
	APIAddr         string        `env:"SMASH_CASH_API_ADDR" envDefault:"localhost:8080"`
	Program         string        `env:"SMASH_CASH_PROGRAM" envDefault:"smash_cash"`
	SignatureWindow time.Duration `env:"SMASH_CASH_SIGNATURE_WINDOW" envDefault:"5m"`
	TelegramToken   string        `env:"SMASH_CASH_TELEGRAM_TOKEN"`
	TelegramDebug   bool          `env:"SMASH_CASH_TELEGRAM_DEBUG" envDefault:"false"`
	OTelEndpoint    string        `env:"SMASH_CASH_OTEL_ENDPOINT"`
	OTelEnabled     bool          `env:"SMASH_CASH_OTEL_ENABLED" envDefault:"true"`
}

// Load reads the .env files named (or ./.env when none are) if present,
// then parses the environment. Variables already set win over the files.
func Load(files ...string) (Config, error) {
	if err := loadDotenv(files...); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return errors.Wrap(err, "parse env")
	}
	return nil
}

func loadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return errors.Wrap(err, "load dotenv")
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
