package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRequiresDatabaseDSN(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ROADWATCH_POSTGRES_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing database dsn")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ROADWATCH_POSTGRES_DSN", "postgres://roadwatch@localhost/roadwatch")
	t.Setenv("ROADWATCH_HTTP_PORT", "9100")
	t.Setenv("ROADWATCH_REDIS_ADDR", "localhost:6379")
	t.Setenv("ROADWATCH_POSTGRES_MAX_OPEN_CONNS", "40")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Database.DSN != "postgres://roadwatch@localhost/roadwatch" {
		t.Fatalf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.MaxOpenConns != 40 {
		t.Fatalf("max open conns = %d, want 40", cfg.Database.MaxOpenConns)
	}
	if cfg.HTTPAddress() != ":9100" {
		t.Fatalf("HTTPAddress() = %q, want :9100", cfg.HTTPAddress())
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("redis addr = %q", cfg.Redis.Addr)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ROADWATCH_POSTGRES_DSN", "postgres://roadwatch@localhost/roadwatch")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPAddress() != ":8000" {
		t.Fatalf("HTTPAddress() = %q, want :8000", cfg.HTTPAddress())
	}
	if cfg.Redis.CacheTTLHours != 1 {
		t.Fatalf("cache ttl = %d, want 1", cfg.Redis.CacheTTLHours)
	}
}

func TestLoadYAMLFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("http:\n  port: \"9200\"\ndatabase:\n  dsn: postgres://file@localhost/roadwatch\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("ROADWATCH_HTTP_PORT", "9300")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Database.DSN != "postgres://file@localhost/roadwatch" {
		t.Fatalf("dsn = %q, want file value", cfg.Database.DSN)
	}
	if cfg.HTTPAddress() != ":9300" {
		t.Fatalf("HTTPAddress() = %q, env override should win", cfg.HTTPAddress())
	}
}
