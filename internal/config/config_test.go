package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/ltikit/internal/discretize"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != DefaultModel {
		t.Errorf("expected model %s, got %s", DefaultModel, cfg.Model)
	}
	if cfg.SamplePeriod <= 0 {
		t.Error("sample period should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"default", func(c *Config) {}, true},
		{"no model", func(c *Config) { c.Model = "" }, false},
		{"zero duration", func(c *Config) { c.Duration = 0 }, false},
		{"negative period", func(c *Config) { c.SamplePeriod = -0.1 }, false},
		{"zero period", func(c *Config) { c.SamplePeriod = 0 }, true},
		{"period beyond duration", func(c *Config) { c.SamplePeriod = 20 }, false},
		{"negative aliasing coeff", func(c *Config) { c.AliasingCoeff = -1 }, false},
		{"euler", func(c *Config) { c.Method = "fwdeuler" }, true},
		{"tustin parses", func(c *Config) { c.Method = "Tustin" }, true},
		{"unknown method", func(c *Config) { c.Method = "rk4" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestDiscretizeMethod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Method = "FWDEULER"
	m, err := cfg.DiscretizeMethod()
	if err != nil {
		t.Fatal(err)
	}
	if m != discretize.ForwardEuler {
		t.Errorf("expected %s, got %s", discretize.ForwardEuler, m)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Model = "rc_circuit"
	cfg.Params = map[string]float64{"resistance": 2000}
	cfg.InputParams = map[string]float64{"amplitude": 5}
	cfg.InitState = []float64{0.5}
	cfg.Seed = 42

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("model: dc_motor\nsample_period: 0.001\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "dc_motor" || cfg.SamplePeriod != 0.001 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Duration != DefaultDuration || cfg.Method != DefaultMethod || cfg.Input != DefaultInput {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("duration: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("double_integrator", "lqr")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Input != "lqr" || cfg.SamplePeriod != 0.1 {
		t.Errorf("unexpected preset %+v", cfg)
	}

	cfg.InputParams["q"] = 100
	if Presets["double_integrator"]["lqr"].InputParams["q"] != 1 {
		t.Error("modifying a preset copy changed the table")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("mass_spring_damper", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "overdamped") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	want := []string{"overdamped", "resonance", "underdamped"}
	if diff := cmp.Diff(want, ListPresets("mass_spring_damper")); diff != "" {
		t.Errorf("presets mismatch (-want +got):\n%s", diff)
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestPresetsValidate(t *testing.T) {
	for model, presets := range Presets {
		for name, cfg := range presets {
			if cfg.Model != model {
				t.Errorf("%s/%s: model field is %q", model, name, cfg.Model)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", model, name, err)
			}
		}
	}
}
