// Package config loads process configuration from the environment and an
// optional YAML file. Business settings (fee, PIN) live in the database.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the process configuration.
type Config struct {
	DBPath     string `yaml:"db_path" env:"DB_PATH" env-default:"./data/agua_potable.db"`
	LogLevel   string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTPServer `yaml:"http_server"`
	JWT        `yaml:"jwt"`
	Redis      `yaml:"redis"`
}

// HTTPServer configures the API listener.
type HTTPServer struct {
	Address      string        `yaml:"address" env:"HTTP_ADDR" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// JWT configures operator session tokens.
type JWT struct {
	Secret   string        `yaml:"secret" env:"JWT_SECRET"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"12h"`
}

// Redis configures the receipt cache. An empty Address disables it.
type Redis struct {
	Address    string        `yaml:"address" env:"REDIS_ADDR"`
	Password   string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB         int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	ReceiptTTL time.Duration `yaml:"receipt_ttl" env:"RECEIPT_CACHE_TTL" env-default:"24h"`
}

// Load reads the YAML file named by CONFIG_PATH when set, then applies
// environment overrides. Without CONFIG_PATH only the environment is used.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWT.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive")
	}
	return nil
}

// CacheEnabled reports whether a Redis receipt cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.Redis.Address != ""
}
