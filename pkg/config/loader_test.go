package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadConfig_MergesEnvOverBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "server:\n  port: \":8080\"\nredis:\n  addr: localhost:6379\n  db: 0\n")
	writeFile(t, dir, "staging.yaml", "redis:\n  db: 3\n")

	merged, err := LoadConfig("staging", dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	var out struct {
		Server ServerConfig `yaml:"server"`
		Redis  RedisConfig  `yaml:"redis"`
	}
	if err := Decode(merged, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Server.Port != ":8080" {
		t.Errorf("Server.Port = %q, want :8080", out.Server.Port)
	}
	if out.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q, want localhost:6379", out.Redis.Addr)
	}
	if out.Redis.DB != 3 {
		t.Errorf("Redis.DB = %d, want 3", out.Redis.DB)
	}
}

func TestLoadConfig_SubstitutesSecrets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "jwt:\n  secret: \"${JWT_SECRET_VALUE}\"\n")
	writeFile(t, dir, "secrets.env", "# comment\nJWT_SECRET_VALUE=\"s3cret\"\n")

	merged, err := LoadConfig("", dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	var out struct {
		JWT JWTConfig `yaml:"jwt"`
	}
	if err := Decode(merged, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.JWT.Secret != "s3cret" {
		t.Errorf("JWT.Secret = %q, want s3cret", out.JWT.Secret)
	}
}

func TestLoadConfig_MissingBase(t *testing.T) {
	if _, err := LoadConfig("local", t.TempDir()); err == nil {
		t.Fatal("expected error when base.yaml is missing")
	}
}

func TestOverrideCORSFromEnv(t *testing.T) {
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.example, http://b.example ,")
	cfg := CORSConfig{AllowOrigins: []string{"*"}}
	OverrideCORSFromEnv(&cfg)
	if len(cfg.AllowOrigins) != 2 || cfg.AllowOrigins[1] != "http://b.example" {
		t.Errorf("AllowOrigins = %v", cfg.AllowOrigins)
	}
}

func TestOverrideMQFromEnv(t *testing.T) {
	t.Setenv("MQ_URL", "amqp://mq:5672/")
	t.Setenv("MQ_ENABLED", "true")
	var cfg MQConfig
	OverrideMQFromEnv(&cfg)
	if cfg.URL != "amqp://mq:5672/" || !cfg.Enabled {
		t.Errorf("cfg = %+v", cfg)
	}
}
