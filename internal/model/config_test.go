package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	def := DefaultAppConfig()
	if cfg.Store.Path != def.Store.Path {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, def.Store.Path)
	}
	if !cfg.Card.ConfirmDelete {
		t.Error("ConfirmDelete should default to true")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("store:\n  path: /tmp/x.db\ncard:\n  confirm_delete: false\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Store.Path != "/tmp/x.db" {
		t.Errorf("Store.Path = %q, want /tmp/x.db", cfg.Store.Path)
	}
	if cfg.Card.ConfirmDelete {
		t.Error("ConfirmDelete = true, want false")
	}
	// Unset keys keep their defaults.
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Display.Width != DefaultAppConfig().Display.Width {
		t.Errorf("Display.Width = %d, want default", cfg.Display.Width)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store: [unclosed"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultAppConfig()
	cfg.Store.Path = "/var/lib/todos.db"
	cfg.Log.Level = "debug"
	cfg.Card.ConfirmDelete = false
	cfg.Display.Width = 100

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *got, *cfg)
	}
}
