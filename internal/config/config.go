package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config defines roadwatch service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"ROADWATCH_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN          string `yaml:"dsn" env:"ROADWATCH_POSTGRES_DSN"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"ROADWATCH_POSTGRES_MAX_OPEN_CONNS"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"ROADWATCH_POSTGRES_MAX_IDLE_CONNS"`
	} `yaml:"database"`
	Redis struct {
		Addr          string `yaml:"addr" env:"ROADWATCH_REDIS_ADDR"`
		Password      string `yaml:"password" env:"ROADWATCH_REDIS_PASSWORD"`
		CacheTTLHours int    `yaml:"cache_ttl_hours" env:"ROADWATCH_REDIS_CACHE_TTL_HOURS"`
	} `yaml:"redis"`
	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
	} `yaml:"log"`
}

// Load configuration from the optional YAML file and environment.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8000"
	cfg.Redis.CacheTTLHours = 1

	if err := load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8000"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
