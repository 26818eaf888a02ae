package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" || !cfg.Banner || cfg.MetricsFile != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prebib.yml")
	body := []byte("log:\n  level: info\n  format: json\nbanner: false\nmetrics_file: out.prom\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PREBIB__LOG__LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("env should override file, got %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" || cfg.Banner || cfg.MetricsFile != "out.prom" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("PREBIB__LOG__FORMAT", "xml")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for log.format=xml")
	}
}

func TestValidateLevel(t *testing.T) {
	c := Config{Log: Log{Level: "loud", Format: "text"}}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected level error")
	}
}
