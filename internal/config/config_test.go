package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: postgres://localhost/solarhub
openweather:
  lat: 40.42
  lon: -3.7
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solax.APIURL == "" || cfg.Weatherbit.APIURL == "" {
		t.Error("provider URL defaults missing")
	}
	if cfg.Solax.Rate.DailyLimit != 10 {
		t.Errorf("DailyLimit = %d, want default 10", cfg.Solax.Rate.DailyLimit)
	}
	if cfg.Solax.Rate.MinInterval.Std() != 60*time.Minute {
		t.Errorf("MinInterval = %s, want default 60m", cfg.Solax.Rate.MinInterval.Std())
	}
	if cfg.Notify.ExcessMargin != 50 {
		t.Errorf("ExcessMargin = %v, want default 50", cfg.Notify.ExcessMargin)
	}
}

func TestLoadParsesDurations(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: postgres://localhost/solarhub
weatherbit:
  rate:
    daily_limit: 40
    min_interval: 30m
notify:
  repeat_interval: 2h
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Weatherbit.Rate.DailyLimit != 40 {
		t.Errorf("DailyLimit = %d", cfg.Weatherbit.Rate.DailyLimit)
	}
	if cfg.Weatherbit.Rate.MinInterval.Std() != 30*time.Minute {
		t.Errorf("MinInterval = %s", cfg.Weatherbit.Rate.MinInterval.Std())
	}
	if cfg.Notify.RepeatInterval.Std() != 2*time.Hour {
		t.Errorf("RepeatInterval = %s", cfg.Notify.RepeatInterval.Std())
	}
}

func TestLoadEnvOverridesCredentials(t *testing.T) {
	path := writeConfig(t, `
solax:
  token_id: from-file
`)
	t.Setenv("SOLAX_TOKEN_ID", "from-env")
	t.Setenv("SOLARHUB_DB_DSN", "postgres://env/solarhub")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solax.TokenID != "from-env" {
		t.Errorf("TokenID = %q, want env override", cfg.Solax.TokenID)
	}
	if cfg.Database.DSN != "postgres://env/solarhub" {
		t.Errorf("DSN = %q", cfg.Database.DSN)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solax.APIURL == "" {
		t.Error("defaults should apply without a file")
	}
}

func TestLoadMalformedFileRejected(t *testing.T) {
	path := writeConfig(t, "database: [not a map")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("empty dsn accepted")
	}
	cfg.Database.DSN = "postgres://localhost/solarhub"
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
	cfg.Notify.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Error("enabled notify without topic accepted")
	}
}
