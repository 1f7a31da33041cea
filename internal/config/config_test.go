package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, k := range []string{"PORT", "LISTEN_ADDR", "MINIMUM_WITHDRAWAL", "AD_EARNING_RATE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Earn.MinWithdrawal != 100 {
		t.Errorf("MinWithdrawal = %v, want 100", cfg.Earn.MinWithdrawal)
	}
	if cfg.Earn.AdReward != 5 {
		t.Errorf("AdReward = %v, want 5", cfg.Earn.AdReward)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "config.yaml")
	yml := `
backend:
  url: http://backend.local/
earn:
  bot_username: "@YamlBot"
  ad_delay: 1s
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AD_EARNING_RATE", "7.5")
	t.Setenv("PORT", "9000")
	t.Setenv("LISTEN_ADDR", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.URL != "http://backend.local" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.Earn.BotUsername != "YamlBot" {
		t.Errorf("BotUsername = %q", cfg.Earn.BotUsername)
	}
	if cfg.Earn.AdDelay != time.Second {
		t.Errorf("AdDelay = %v", cfg.Earn.AdDelay)
	}
	if cfg.Earn.AdReward != 7.5 {
		t.Errorf("AdReward = %v", cfg.Earn.AdReward)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MINIMUM_WITHDRAWAL", "lots")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-numeric MINIMUM_WITHDRAWAL")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Earn.AdReward = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero ad reward accepted")
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+): switch the working directory for the
// duration of the test and restore it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
