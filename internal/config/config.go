package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/ltikit/internal/discretize"
	"gopkg.in/yaml.v3"
)

const (
	DefaultModel        = "mass_spring_damper"
	DefaultMethod       = string(discretize.ZOH)
	DefaultSamplePeriod = 0.01
	DefaultDuration     = 10.0
	DefaultInput        = "step"
)

var ErrInvalid = errors.New("config: invalid")

// Config describes one simulation run. Model matrices are never read from
// the file; Model names a registered system and Params adjusts its scalar
// parameters.
type Config struct {
	Model         string             `yaml:"model"`
	Params        map[string]float64 `yaml:"params,omitempty"`
	Method        string             `yaml:"method"`
	SamplePeriod  float64            `yaml:"sample_period"`
	Duration      float64            `yaml:"duration"`
	AliasingCoeff float64            `yaml:"aliasing_coeff,omitempty"`
	Input         string             `yaml:"input"`
	InputParams   map[string]float64 `yaml:"input_params,omitempty"`
	InitState     []float64          `yaml:"init_state,omitempty"`
	Seed          int64              `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:        DefaultModel,
		Method:       DefaultMethod,
		SamplePeriod: DefaultSamplePeriod,
		Duration:     DefaultDuration,
		Input:        DefaultInput,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields that can be judged without building the
// model. Dimension and aliasing checks happen when the model is built.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("%w: model is required", ErrInvalid)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalid, c.Duration)
	}
	if c.SamplePeriod < 0 {
		return fmt.Errorf("%w: sample_period must not be negative, got %g", ErrInvalid, c.SamplePeriod)
	}
	if c.SamplePeriod > c.Duration {
		return fmt.Errorf("%w: sample_period %g exceeds duration %g", ErrInvalid, c.SamplePeriod, c.Duration)
	}
	if c.AliasingCoeff < 0 {
		return fmt.Errorf("%w: aliasing_coeff must not be negative, got %g", ErrInvalid, c.AliasingCoeff)
	}
	if _, err := discretize.ParseMethod(c.Method); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// DiscretizeMethod returns the parsed method tag.
func (c *Config) DiscretizeMethod() (discretize.Method, error) {
	return discretize.ParseMethod(c.Method)
}

// Clone returns a deep copy, so presets can be customised without
// touching the shared table.
func (c *Config) Clone() *Config {
	out := *c
	out.Params = cloneMap(c.Params)
	out.InputParams = cloneMap(c.InputParams)
	if c.InitState != nil {
		out.InitState = append([]float64(nil), c.InitState...)
	}
	return &out
}

func cloneMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
