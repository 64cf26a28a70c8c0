package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.PortName != "" {
		t.Errorf("PortName = %q, want first-available default", cfg.PortName)
	}
	if cfg.OutputDir != "midi_captures" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.IdleTimeout() != 5*time.Minute {
		t.Errorf("IdleTimeout = %v, want 5m", cfg.IdleTimeout())
	}
	if cfg.MinNotes != 10 {
		t.Errorf("MinNotes = %d, want 10", cfg.MinNotes)
	}
	if cfg.TriggerNote != 36 {
		t.Errorf("TriggerNote = %d, want 36", cfg.TriggerNote)
	}
	if cfg.ReconnectInterval() != 2*time.Second {
		t.Errorf("ReconnectInterval = %v, want 2s", cfg.ReconnectInterval())
	}
	if cfg.PollInterval() != 10*time.Millisecond {
		t.Errorf("PollInterval = %v, want 10ms", cfg.PollInterval())
	}
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"portName": "Arturia KeyStep 32", "minNotes": 4}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.PortName != "Arturia KeyStep 32" {
		t.Errorf("PortName = %q", cfg.PortName)
	}
	if cfg.MinNotes != 4 {
		t.Errorf("MinNotes = %d, want 4", cfg.MinNotes)
	}
	if cfg.TriggerNote != 36 {
		t.Errorf("TriggerNote = %d, want default 36", cfg.TriggerNote)
	}
	if cfg.OutputDir != "midi_captures" {
		t.Errorf("OutputDir = %q, want default", cfg.OutputDir)
	}
}

func TestLoadFromRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}
