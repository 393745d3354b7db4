package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Port != 8080 || cfg.App.Host != "0.0.0.0" {
		t.Fatalf("unexpected app defaults: %+v", cfg.App)
	}
	if cfg.LLM.Temperature != 0.7 || cfg.LLM.MaxTokens != 180 {
		t.Fatalf("unexpected llm defaults: %+v", cfg.LLM)
	}
	if cfg.RabbitMQ.ChatLogQueue != "chat.log.persist" {
		t.Fatalf("unexpected queue default: %q", cfg.RabbitMQ.ChatLogQueue)
	}
	if cfg.CatalogTTL() != 60*time.Second {
		t.Fatalf("unexpected catalog ttl: %v", cfg.CatalogTTL())
	}
	if cfg.LLMConfigured() || cfg.MySQLConfigured() || cfg.StorageConfigured() {
		t.Fatal("nothing should be configured out of the box")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LLM_BASE_URL", "https://llm.example.com")
	t.Setenv("LLM_API_KEY", "key")
	t.Setenv("LLM_MODEL", "test-model")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("MYSQL_DB", "chronicle")
	t.Setenv("ADMIN_EDIT_TOKEN", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Port != 9090 {
		t.Fatalf("port override missing: %d", cfg.App.Port)
	}
	if !cfg.LLMConfigured() || cfg.LLM.Temperature != 0.2 {
		t.Fatalf("llm override missing: %+v", cfg.LLM)
	}
	if !cfg.MySQLConfigured() {
		t.Fatal("mysql override missing")
	}
	if cfg.Admin.EditToken != "s3cret" {
		t.Fatalf("admin token override missing: %q", cfg.Admin.EditToken)
	}
	if got := cfg.MySQLDSN(); got != "root:@tcp(db.internal:3306)/chronicle?parseTime=true&loc=Local&charset=utf8mb4" {
		t.Fatalf("dsn wrong: %q", got)
	}
}

func TestLoad_InvalidNumericEnvFallsBack(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("APP_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Port != 8080 {
		t.Fatalf("invalid numeric env must keep the default, got %d", cfg.App.Port)
	}
}
