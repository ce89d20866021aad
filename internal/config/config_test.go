package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "tradecoach/internal/errors"
)

func TestLoadCreatesTemplatesAndDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.Import.AllowLegacy {
		t.Error("import.allow_legacy should default to true")
	}
	if cfg.Coach.Model != "gpt-4o-mini" {
		t.Errorf("coach.model = %q", cfg.Coach.Model)
	}
	if cfg.Coach.TimeoutSeconds != 30 {
		t.Errorf("coach.timeout_seconds = %d", cfg.Coach.TimeoutSeconds)
	}
	if cfg.Import.DataDir != filepath.Join(dir, "datasets") {
		t.Errorf("import.data_dir = %q", cfg.Import.DataDir)
	}

	for _, f := range []string{"config.toml", "credentials.toml"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("template %s not created: %v", f, err)
		}
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[import]
allow_legacy = false

[coach]
enabled = false
model = "gpt-4o"
timeout_seconds = 10

[brokerages."Brokerage A (Full-Service)"]
per_trade = 4.99
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Import.AllowLegacy {
		t.Error("allow_legacy override lost")
	}
	if cfg.Coach.Model != "gpt-4o" || cfg.Coach.TimeoutSeconds != 10 {
		t.Errorf("coach config = %+v", cfg.Coach)
	}
	// Viper folds map keys to lowercase; the brokerage comparison matches
	// names case-insensitively to compensate.
	if len(cfg.Brokerages) != 1 {
		t.Fatalf("brokerages = %+v, want one override", cfg.Brokerages)
	}
	for _, ov := range cfg.Brokerages {
		if ov.PerTrade == nil || *ov.PerTrade != 4.99 {
			t.Errorf("fee override = %+v", ov)
		}
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TRADECOACH_MODEL", "gpt-4.1")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Credentials.OpenAI.APIKey != "sk-test" {
		t.Errorf("api key = %q", cfg.Credentials.OpenAI.APIKey)
	}
	if cfg.Coach.Model != "gpt-4.1" {
		t.Errorf("model = %q", cfg.Coach.Model)
	}
}

func TestValidate(t *testing.T) {
	neg := -1.0
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  Config{Coach: CoachConfig{TimeoutSeconds: 30}},
		},
		{
			name:    "zero timeout",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "negative per-trade fee",
			cfg: Config{
				Coach:      CoachConfig{TimeoutSeconds: 30},
				Brokerages: map[string]FeeOverride{"X": {PerTrade: &neg}},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, apperrors.ErrConfigInvalid) {
				t.Errorf("err = %v, want ErrConfigInvalid in chain", err)
			}
		})
	}
}

func TestCoachAvailable(t *testing.T) {
	cfg := Config{Coach: CoachConfig{Enabled: true}}
	if cfg.CoachAvailable() {
		t.Error("coach available without an API key")
	}
	cfg.Credentials.OpenAI.APIKey = "sk-test"
	if !cfg.CoachAvailable() {
		t.Error("coach unavailable despite key and enabled flag")
	}
	cfg.Coach.Enabled = false
	if cfg.CoachAvailable() {
		t.Error("coach available while disabled")
	}
}
