// Package config loads xplore settings from XPLORE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/xplore-go/xplore/internal/store"
	"github.com/xplore-go/xplore/pkg/logger"
	"github.com/xplore-go/xplore/pkg/xapi"
)

const envPrefix = "XPLORE_"

// Config holds everything a command needs to build a client and a session
// store. Credentials are never printed.
type Config struct {
	Username        string `env:"USERNAME"`
	Password        string `env:"PASSWORD"`
	Email           string `env:"EMAIL"`
	TwoFactorSecret string `env:"TWO_FACTOR_SECRET"`
	// CookieString is a raw "ct0=...; auth_token=..." list. X_COOKIE_STRING
	// is read when XPLORE_COOKIE_STRING is unset.
	CookieString   string `env:"COOKIE_STRING"`
	Proxy          string `env:"PROXY"`
	BaseURL        string `env:"BASE_URL" envDefault:"https://api.twitter.com"`
	MaxLoginRounds int    `env:"MAX_LOGIN_ROUNDS" envDefault:"20"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile        string `env:"LOG_FILE"`
	ConfigDir      string `env:"CONFIG_DIR"`
	Store          Store  `envPrefix:"STORE_"`
}

// Store selects and configures the session store.
type Store struct {
	Kind       string        `env:"KIND" envDefault:"file"`
	Path       string        `env:"PATH"`
	Passphrase string        `env:"PASSPHRASE"`
	RedisAddr  string        `env:"REDIS_ADDR"`
	RedisKey   string        `env:"REDIS_KEY" envDefault:"xplore:session"`
	RedisTTL   time.Duration `env:"REDIS_TTL" envDefault:"0s"`
}

type legacy struct {
	CookieString string `env:"X_COOKIE_STRING"`
}

// userConfigDir is swapped in tests.
var userConfigDir = os.UserConfigDir

// NewConfig loads configuration from the process environment.
func NewConfig() (*Config, error) {
	return parse(env.Options{Prefix: envPrefix}, env.Options{})
}

// FromMap loads configuration from vars instead of the process environment.
func FromMap(vars map[string]string) (*Config, error) {
	return parse(env.Options{Prefix: envPrefix, Environment: vars}, env.Options{Environment: vars})
}

func parse(opts, legacyOpts env.Options) (*Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.CookieString == "" {
		var l legacy
		if err := env.ParseWithOptions(&l, legacyOpts); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		cfg.CookieString = l.CookieString
	}
	if cfg.ConfigDir == "" {
		dir, err := userConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config dir: %w", err)
		}
		cfg.ConfigDir = filepath.Join(dir, "xplore")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values env cannot check by type alone.
func (c *Config) Validate() error {
	if c.MaxLoginRounds < 1 {
		return fmt.Errorf("max login rounds must be positive, got %d", c.MaxLoginRounds)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch store.Kind(c.Store.Kind) {
	case store.KindFile, store.KindEncrypted:
	case store.KindRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("%sSTORE_REDIS_ADDR is required for the redis store", envPrefix)
		}
	default:
		return fmt.Errorf("unknown store kind %q (want file, encrypted or redis)", c.Store.Kind)
	}
	return nil
}

// StoreOptions converts the store settings for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Kind:       store.Kind(c.Store.Kind),
		Path:       c.Store.Path,
		ConfigDir:  c.ConfigDir,
		Passphrase: c.Store.Passphrase,
		RedisAddr:  c.Store.RedisAddr,
		RedisKey:   c.Store.RedisKey,
		RedisTTL:   c.Store.RedisTTL,
	}
}

// ClientOptions builds xapi options around log.
func (c *Config) ClientOptions(log logger.Logger) xapi.Options {
	return xapi.Options{
		BaseURL:        c.BaseURL,
		Proxy:          c.Proxy,
		MaxLoginRounds: c.MaxLoginRounds,
		Logger:         log,
	}
}

// Credentials returns the login credentials from the environment.
func (c *Config) Credentials() xapi.Credentials {
	return xapi.Credentials{
		Username:        c.Username,
		Password:        c.Password,
		Email:           c.Email,
		TwoFactorSecret: c.TwoFactorSecret,
	}
}
