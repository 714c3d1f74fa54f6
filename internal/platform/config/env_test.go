package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port int `env:"ASTMERY_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("ASTMERY_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ASTMERY_DB_PATH", "")
	t.Setenv("ASTMERY_REDIS_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBPath != "astmery.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("expected redis disabled by default, got %q", cfg.RedisAddr)
	}
	if cfg.RoomID != "default" {
		t.Fatalf("expected default room id, got %q", cfg.RoomID)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ASTMERY_DB_PATH", "/tmp/astmery-test.db")
	t.Setenv("ASTMERY_REDIS_ADDR", "localhost:6379")
	t.Setenv("ASTMERY_REDIS_DB", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBPath != "/tmp/astmery-test.db" {
		t.Fatalf("expected db path from env, got %q", cfg.DBPath)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("expected redis addr from env, got %q", cfg.RedisAddr)
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("expected redis db 3, got %d", cfg.RedisDB)
	}
}
