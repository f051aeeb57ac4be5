package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
transcript: false
shell: /bin/bash
default_color: ff8800
debug_log: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Transcript {
		t.Error("Transcript should be false")
	}
	if cfg.Shell != "/bin/bash" {
		t.Errorf("Shell = %q", cfg.Shell)
	}
	if cfg.DefaultColor != "ff8800" {
		t.Errorf("DefaultColor = %q", cfg.DefaultColor)
	}
	if !cfg.DebugLog {
		t.Error("DebugLog should be true")
	}
}

func TestLoadFromPathAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("shell: zsh\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if !cfg.Transcript {
		t.Error("Transcript should default to true")
	}
	if cfg.DefaultColor != "ffffff" {
		t.Errorf("DefaultColor = %q, want ffffff", cfg.DefaultColor)
	}
	if cfg.DebugLog {
		t.Error("DebugLog should default to false")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.Transcript || cfg.DefaultColor != "ffffff" || cfg.Shell != "" || cfg.DebugLog {
		t.Errorf("Default() = %+v", cfg)
	}
}
