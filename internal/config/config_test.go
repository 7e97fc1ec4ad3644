package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"GROQ_API_KEY", "LLM_API_KEY", "LLM_MODEL", "LLM_TIMEOUT", "DATABASE_DSN", "DATABASE_URL", "DATABASE_DRIVER", "SERVER_ADDR"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":5000" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.LLM.Model != "llama-3.1-8b-instant" || cfg.LLM.BaseURL != "https://api.groq.com/openai/v1" {
		t.Fatalf("unexpected llm defaults %+v", cfg.LLM)
	}
	if cfg.LLM.Timeout != 60*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.LLM.Timeout)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != "symptom_checker.db" {
		t.Fatalf("unexpected database defaults %+v", cfg.Database)
	}
	if cfg.LLM.APIKey != "" {
		t.Fatalf("expected empty api key")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("LLM_MODEL", "llama-3.3-70b-versatile")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/history?sslmode=disable")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LLM.APIKey != "gsk_test" {
		t.Fatalf("api key not bound, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "llama-3.3-70b-versatile" || cfg.LLM.Timeout != 15*time.Second {
		t.Fatalf("llm overrides not applied: %+v", cfg.LLM)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.DSN != "postgres://localhost/history?sslmode=disable" {
		t.Fatalf("database overrides not applied: %+v", cfg.Database)
	}
	if cfg.Log.Format != "json" {
		t.Fatalf("log format not applied: %q", cfg.Log.Format)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")
	os.Unsetenv("SERVER_ADDR")
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "server:\n  addr: \":9090\"\nllm:\n  model: custom-model\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	const fresh, preset = "SYMPTOM_CHECKER_TEST_FRESH", "SYMPTOM_CHECKER_TEST_PRESET"
	t.Setenv(preset, "from-env")
	t.Cleanup(func() { os.Unsetenv(fresh) })

	path := filepath.Join(t.TempDir(), ".env")
	content := fresh + "=from-file\n" + preset + "=ignored\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv(fresh); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
	if got := os.Getenv(preset); got != "from-env" {
		t.Fatalf("existing variable overwritten: %q", got)
	}
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("missing dotenv should be ignored: %v", err)
	}
}
