// Package automation runs scripted batches of experiments and parameter
// sweeps.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-logr/logr"
	"github.com/san-kum/ltikit/internal/config"
	"github.com/san-kum/ltikit/internal/experiment"
	"github.com/san-kum/ltikit/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario is a named sequence of runs.
type Scenario struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Steps       []*config.Config `yaml:"steps"`
}

// StepResult is the outcome of one scenario step. RunID is empty when the
// scenario was run without a store.
type StepResult struct {
	Model   string
	RunID   string
	Metrics map[string]float64
	Err     error
}

// LoadScenario reads a scenario from YAML. Each step starts from the
// default run config, so steps only list what they change.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Name        string      `yaml:"name"`
		Description string      `yaml:"description"`
		Steps       []yaml.Node `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}

	scenario := &Scenario{Name: raw.Name, Description: raw.Description}
	for i := range raw.Steps {
		cfg := config.DefaultConfig()
		if err := raw.Steps[i].Decode(cfg); err != nil {
			return nil, fmt.Errorf("automation: step %d: %w", i+1, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("automation: step %d: %w", i+1, err)
		}
		scenario.Steps = append(scenario.Steps, cfg)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("automation: scenario %q has no steps", scenario.Name)
	}
	return scenario, nil
}

// RunScenario executes every step in order. A failing step is recorded and
// the scenario continues; only context cancellation stops it early. When st
// is not nil each successful run is saved.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, st *storage.Store, log logr.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, cfg := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		log.Info("running scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "model", cfg.Model)

		res := StepResult{Model: cfg.Model}
		exp := experiment.New(cfg, registry, log)
		if err := exp.Setup(); err != nil {
			res.Err = fmt.Errorf("step %d setup: %w", i+1, err)
			results = append(results, res)
			continue
		}

		result, err := exp.Run(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return results, err
			}
			res.Err = fmt.Errorf("step %d run: %w", i+1, err)
			results = append(results, res)
			continue
		}
		res.Metrics = result.Metrics

		if st != nil {
			runID, err := st.Save(exp.Metadata(result), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			res.RunID = runID
		}
		results = append(results, res)
	}

	return results, nil
}

// ParameterSweep varies one model parameter linearly over NumSteps values
// and runs the base configuration at each.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds the structural checks and run metrics at one parameter
// value. Err is set when the model could not be built or run at that value,
// for instance because the sample period aliases.
type SweepResult struct {
	ParamValue        float64
	Stable            bool
	AliasingThreshold float64
	Metrics           map[string]float64
	Err               error
}

func (s *ParameterSweep) values() ([]float64, error) {
	if s.NumSteps < 1 {
		return nil, fmt.Errorf("automation: sweep needs at least one step, got %d", s.NumSteps)
	}
	if s.NumSteps == 1 {
		return []float64{s.ParamMin}, nil
	}
	out := make([]float64, s.NumSteps)
	step := (s.ParamMax - s.ParamMin) / float64(s.NumSteps-1)
	for i := range out {
		out[i] = s.ParamMin + float64(i)*step
	}
	return out, nil
}

// RunSweep executes a parameter sweep.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, log logr.Logger) ([]SweepResult, error) {
	values, err := sweep.values()
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, len(values))
	for i, v := range values {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		cfg := sweep.Base.Clone()
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		cfg.Params[sweep.ParamName] = v

		res := SweepResult{ParamValue: v, AliasingThreshold: math.NaN()}
		exp := experiment.New(cfg, registry, log)
		if err := exp.Setup(); err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		sys := exp.System()
		res.Stable = sys.IsStable()
		res.AliasingThreshold = sys.AliasingThreshold()

		result, err := exp.Run(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return results, err
			}
			res.Err = err
		} else {
			res.Metrics = result.Metrics
		}
		results = append(results, res)

		log.V(1).Info("sweep point done", "index", i+1, "of", len(values), sweep.ParamName, v)
	}

	return results, nil
}
