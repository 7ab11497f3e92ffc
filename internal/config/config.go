// Package config loads process configuration from the environment.
//
// A .env file in the working directory is loaded first (development), then
// variables are parsed into Config. Real environment variables win over .env.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration.
type Config struct {
	Port              string `env:"PORT" envDefault:"5175"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	DBPath            string `env:"DB_PATH" envDefault:"./data/app.db"`
	WordsFile         string `env:"WORDS_FILE"`
	DictionaryFile    string `env:"DICTIONARY_FILE"`
	DailySalt         string `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	DefaultDifficulty string `env:"DEFAULT_DIFFICULTY" envDefault:"medium"`

	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"palavra_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	NodeEnv        string `env:"NODE_ENV" envDefault:"development"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// Load reads .env (if present) and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Production reports whether cookies should be Secure/SameSite=None.
func (c Config) Production() bool { return c.NodeEnv == "production" }

// TokenTTL is the auth token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}
