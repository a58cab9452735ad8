package models

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutplot.yaml")
	body := "server_url: http://bench:5425\nrecent_files_max: 4\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServerURL != "http://bench:5425" {
		t.Errorf("server = %q", cfg.ServerURL)
	}
	if cfg.RecentFilesMax != 4 {
		t.Errorf("recent cap = %d", cfg.RecentFilesMax)
	}
	if cfg.DefaultFileName != DefaultConfig.DefaultFileName {
		t.Errorf("unset field lost its default: %q", cfg.DefaultFileName)
	}
	if cfg.RequestTimeout != DefaultConfig.RequestTimeout {
		t.Errorf("unset timeout lost its default: %v", cfg.RequestTimeout)
	}
}

func TestLoadConfigMissingExplicitPathFails(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("explicit missing config should fail")
	}
}

func TestValidateRejectsBadServerURL(t *testing.T) {
	cfg := DefaultConfig
	cfg.ServerURL = "bench:5425"

	err := cfg.Validate()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("want *ConfigError, got %v", err)
	}
	if cfgErr.Field != "server_url" {
		t.Errorf("field = %q", cfgErr.Field)
	}
}

func TestValidateBackfillsZeroValues(t *testing.T) {
	cfg := Config{ServerURL: "http://localhost:5425"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.RequestTimeout <= 0 || cfg.StatusInterval <= 0 || cfg.CacheTTL <= 0 {
		t.Errorf("zero durations not backfilled: %+v", cfg)
	}
	if cfg.DefaultFileName == "" || cfg.RecentFilesMax <= 0 {
		t.Errorf("zero fields not backfilled: %+v", cfg)
	}
}

func TestHistoryPathUsesDataDir(t *testing.T) {
	cfg := Config{DataDir: "/var/lib/cutplot"}
	want := filepath.Join("/var/lib/cutplot", "history.db")
	if got := cfg.HistoryPath(); got != want {
		t.Errorf("HistoryPath = %q, want %q", got, want)
	}
}
