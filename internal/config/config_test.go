package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdir is a stand-in for t.Chdir (Go 1.24+) on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("OPENAI_MODEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LLM.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("base_url = %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.LLM.Model)
	}
	if cfg.Chat.BatchSize != 3 {
		t.Errorf("batch_size = %d, want 3", cfg.Chat.BatchSize)
	}
	if cfg.Chat.MaxWait != 1500*time.Millisecond {
		t.Errorf("max_wait = %v, want 1.5s", cfg.Chat.MaxWait)
	}
	if cfg.Chat.HistoryWindow != 10 {
		t.Errorf("history_window = %d, want 10", cfg.Chat.HistoryWindow)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("OPENAI_MODEL", "")

	yaml := `
llm:
  base_url: http://localhost:11434/v1
  model: qwen3:8b
chat:
  batch_size: 5
  max_wait: 2s
server:
  port: 9090
log:
  debug: true
`
	if err := os.WriteFile(filepath.Join(dir, "cvstudio.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("base_url = %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Model != "qwen3:8b" {
		t.Errorf("model = %q", cfg.LLM.Model)
	}
	if cfg.Chat.BatchSize != 5 || cfg.Chat.MaxWait != 2*time.Second {
		t.Errorf("chat = %+v", cfg.Chat)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if !cfg.Log.Debug {
		t.Error("debug should be true")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("api_key = %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("model = %q", cfg.LLM.Model)
	}
}

func TestLoadAPIKeyExpansion(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("MY_SECRET_KEY", "sk-expanded")
	t.Setenv("OPENAI_API_KEY", "")

	yaml := `
llm:
  api_key: ${MY_SECRET_KEY}
`
	if err := os.WriteFile(filepath.Join(dir, "cvstudio.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "sk-expanded" {
		t.Errorf("api_key = %q, want expanded value", cfg.LLM.APIKey)
	}
}
