package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/complexitylens/internal/config"
)

func TestConfigCmd_SetShowReset(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "complexitylens.yaml")

	if _, err := execute(t, "", "config", "set", "complexity.warning_threshold", "4", "--config", configPath); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if _, err := execute(t, "", "config", "set", "tiers.error.label", "Danger", "-c", configPath); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load edited config: %v", err)
	}
	if cfg.Complexity.WarningThreshold != 4 {
		t.Errorf("Expected warning threshold 4, got %d", cfg.Complexity.WarningThreshold)
	}
	if cfg.Tiers.Error.Label != "Danger" {
		t.Errorf("Expected error label Danger, got %s", cfg.Tiers.Error.Label)
	}

	out, err := execute(t, "", "config", "show", "--config", configPath)
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "# source: "+configPath) {
		t.Errorf("Expected source line, got:\n%s", out)
	}
	if !strings.Contains(out, "warning_threshold: 4") {
		t.Errorf("Expected edited threshold in output, got:\n%s", out)
	}

	if _, err := execute(t, "", "config", "reset", "--config", configPath); err != nil {
		t.Fatalf("config reset failed: %v", err)
	}
	cfg, err = config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load reset config: %v", err)
	}
	if cfg.Complexity.WarningThreshold != config.DefaultWarningThreshold {
		t.Errorf("Expected default warning threshold after reset, got %d", cfg.Complexity.WarningThreshold)
	}
}

func TestConfigCmd_SetRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "complexitylens.yaml")

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "complexity.nope", "1"},
		{"not a number", "complexity.error_threshold", "high"},
		{"error not above warning", "complexity.error_threshold", "5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := execute(t, "", "config", "set", tc.key, tc.value, "--config", configPath); err == nil {
				t.Errorf("Expected error setting %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestConfigCmd_Keys(t *testing.T) {
	out, err := execute(t, "", "config", "keys")
	if err != nil {
		t.Fatalf("config keys failed: %v", err)
	}
	for _, key := range []string{"complexity.warning_threshold", "tiers.low.icon", "watch.debounce_ms"} {
		if !strings.Contains(out, key) {
			t.Errorf("Expected key %s in output", key)
		}
	}
}
