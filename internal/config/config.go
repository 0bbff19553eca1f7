// Package config loads the settleup server configuration from a TOML file
// with environment overrides.
//
// Example settleup.toml:
//
//	[server]
//	host = "0.0.0.0"
//	port = 8080
//
//	[storage]
//	db_path = "./data/settleup.db"
//
//	[engine]
//	default_currency = "USD"
//	default_algorithm = "minCashFlow"
//
//	[log]
//	level = "info"
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/settle"
	"github.com/mmynk/settleup/pkg/logging"
)

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Engine  EngineConfig  `toml:"engine"`
	Log     LogConfig     `toml:"log"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// EngineConfig sets the defaults applied to requests that leave the
// currency or algorithm unset.
type EngineConfig struct {
	// DefaultCurrency is empty to settle in each group's majority currency.
	DefaultCurrency  string `toml:"default_currency"`
	DefaultAlgorithm string `toml:"default_algorithm"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Server:  ServerConfig{Host: "", Port: 8080},
		Storage: StorageConfig{DBPath: "./data/settleup.db"},
		Engine:  EngineConfig{DefaultAlgorithm: settle.MinCashFlow.String()},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads path over DefaultConfig, applies environment overrides and
// validates the result. A missing file is not an error; an empty path skips
// the file entirely.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, os.ErrNotExist):
			cfg = DefaultConfig()
		case err != nil:
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return Config{}, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT=%q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("SETTLEUP_DEFAULT_CURRENCY"); v != "" {
		c.Engine.DefaultCurrency = strings.ToUpper(v)
	}
	if v := os.Getenv("SETTLEUP_ALGORITHM"); v != "" {
		c.Engine.DefaultAlgorithm = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate rejects out-of-range ports, malformed currency codes and unknown
// algorithm or log level names.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Storage.DBPath == "" {
		return errors.New("storage.db_path is required")
	}
	if c.Engine.DefaultCurrency != "" {
		if err := models.ValidateCurrency(c.Engine.DefaultCurrency); err != nil {
			return fmt.Errorf("engine.default_currency: %w", err)
		}
	}
	if _, err := settle.ParseAlgorithm(c.Engine.DefaultAlgorithm); err != nil {
		return fmt.Errorf("engine.default_algorithm: %w", err)
	}
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	return nil
}

// Addr returns the listen address, e.g. ":8080".
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Algorithm returns the parsed default algorithm. Validate has already
// rejected unknown names, so this falls back to MinCashFlow only for
// configurations that skipped validation.
func (c Config) Algorithm() settle.Algorithm {
	a, err := settle.ParseAlgorithm(c.Engine.DefaultAlgorithm)
	if err != nil {
		return settle.MinCashFlow
	}
	return a
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() slog.Level {
	return logging.ParseLevel(c.Log.Level)
}
