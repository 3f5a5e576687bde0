package config

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseMergesDefaults(t *testing.T) {
	data := []byte(`{"hotkey": "f8", "model": "base"}`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Hotkey != "f8" {
		t.Errorf("Hotkey = %q, want %q", cfg.Hotkey, "f8")
	}
	if cfg.Model != "base" {
		t.Errorf("Model = %q, want %q", cfg.Model, "base")
	}
	// untouched keys keep their defaults
	if cfg.MinDurationSeconds != 0.5 {
		t.Errorf("MinDurationSeconds = %v, want 0.5", cfg.MinDurationSeconds)
	}
	if cfg.Language != "en" {
		t.Errorf("Language = %q, want %q", cfg.Language, "en")
	}
	if !cfg.BeepEnabled {
		t.Error("BeepEnabled default lost")
	}
}

func TestParseExplicitFalseHonored(t *testing.T) {
	cfg, err := parse([]byte(`{"beep_enabled": false, "log_to_file": false}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.BeepEnabled {
		t.Error("explicit beep_enabled=false was overridden")
	}
	if cfg.LogToFile {
		t.Error("explicit log_to_file=false was overridden")
	}
}

func TestParseCorruptFile(t *testing.T) {
	if _, err := parse([]byte(`{not json`)); err == nil {
		t.Fatal("expected error for corrupt config")
	}
}

func TestParseNegativeMinDuration(t *testing.T) {
	cfg, err := parse([]byte(`{"min_duration_seconds": -1}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.MinDurationSeconds != 0 {
		t.Errorf("MinDurationSeconds = %v, want clamped to 0", cfg.MinDurationSeconds)
	}
}

func TestMinDuration(t *testing.T) {
	cfg := &Config{MinDurationSeconds: 0.5}
	if got, want := cfg.MinDuration(), 500*time.Millisecond; got != want {
		t.Errorf("MinDuration() = %v, want %v", got, want)
	}
}

func TestDefaultRoundTrip(t *testing.T) {
	data, err := json.Marshal(Default())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("round trip changed config: %+v", cfg)
	}
}
