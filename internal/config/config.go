// Package config loads server settings from an optional file and MOTD_* env vars.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/and161185/motd/internal/errs"
)

// Store backends.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreBadger   = "badger"
)

// Config holds runtime settings.
type Config struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	GRPCAddr        string        `mapstructure:"grpc_addr"`
	Store           string        `mapstructure:"store"`
	DSN             string        `mapstructure:"dsn"`
	LogLevel        string        `mapstructure:"log_level"`
	Dev             bool          `mapstructure:"dev"`
	TLSCert         string        `mapstructure:"tls_cert"`
	TLSKey          string        `mapstructure:"tls_key"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// Users lists "userid:secret" entries. MOTD_USERS is comma separated.
	Users []string `mapstructure:"users"`
}

// Load reads path (if non-empty), then environment overrides, then defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("grpc_addr", ":8443")
	v.SetDefault("store", StoreSQLite)
	v.SetDefault("dsn", "motd.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("dev", false)
	v.SetDefault("tls_cert", "")
	v.SetDefault("tls_key", "")
	v.SetDefault("shutdown_timeout", "5s")
	v.SetDefault("users", []string{})

	v.SetEnvPrefix("MOTD")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", errs.ErrInvalidConfig, path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StorePostgres, StoreBadger:
	default:
		return fmt.Errorf("%w: store must be sqlite, postgres or badger, got %q", errs.ErrInvalidConfig, c.Store)
	}
	if c.Store != StoreBadger && c.DSN == "" {
		return fmt.Errorf("%w: dsn must be set for store %q", errs.ErrInvalidConfig, c.Store)
	}
	if c.HTTPAddr == "" && c.GRPCAddr == "" {
		return fmt.Errorf("%w: at least one of http_addr, grpc_addr must be set", errs.ErrInvalidConfig)
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return fmt.Errorf("%w: tls_cert and tls_key must be set together", errs.ErrInvalidConfig)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown_timeout must be positive", errs.ErrInvalidConfig)
	}
	return nil
}
