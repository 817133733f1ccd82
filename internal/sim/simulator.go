package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/go-logr/logr"
	"github.com/san-kum/ltikit/internal/linalg"
	"github.com/san-kum/ltikit/internal/lti"
)

// Simulator drives one state-space model. Like the model itself it is not
// safe for concurrent use.
type Simulator struct {
	sys        *lti.StateSpace
	controller Controller
	metrics    []Metric
	observers  []Observer
	log        logr.Logger
}

func New(sys *lti.StateSpace, controller Controller) *Simulator {
	return &Simulator{
		sys:        sys,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		log:        logr.Discard(),
	}
}

func (s *Simulator) AddMetric(m Metric)        { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)    { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(log logr.Logger) { s.log = log }
func (s *Simulator) System() *lti.StateSpace   { return s.sys }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	ts, err := s.prepare(cfg)
	if err != nil {
		return nil, err
	}

	steps := stepCount(cfg.Duration, ts)
	result := &Result{
		SamplePeriod: ts,
		States:       make([]State, 0, steps),
		Inputs:       make([]Input, 0, steps),
		Outputs:      make([]Output, 0, steps),
		Times:        make([]float64, 0, steps),
		Metrics:      make(map[string]float64),
		Errors:       make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.log.V(1).Info("simulation started", "steps", steps, "samplePeriod", ts)

	for k := 0; k < steps; k++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := float64(k) * ts
		x := StateOf(s.sys.NextState())

		if cfg.ValidateState && !x.IsValid() {
			result.Errors = append(result.Errors, SimError{Time: t, Step: k, Message: "invalid state (NaN/Inf)"})
			s.log.Info("simulation stopped on invalid state", "step", k, "time", t)
			break
		}

		u := s.controller.Compute(x, t)
		y, err := s.step(u)
		if err != nil {
			return result, fmt.Errorf("step %d: %w", k, err)
		}

		for _, m := range s.metrics {
			m.Observe(x, u, y, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, u, y, t)
		}

		result.States = append(result.States, x)
		result.Inputs = append(result.Inputs, u)
		result.Outputs = append(result.Outputs, y)
		result.Times = append(result.Times, t)
		result.StepsTaken++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps the model until the duration elapses or callback
// returns false. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(State, Input, Output, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}
	ts, err := s.prepare(cfg)
	if err != nil {
		return err
	}

	steps := stepCount(cfg.Duration, ts)
	for k := 0; k < steps; k++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := float64(k) * ts
		x := StateOf(s.sys.NextState())
		if cfg.ValidateState && !x.IsValid() {
			return SimError{Time: t, Step: k, Message: "invalid state (NaN/Inf)"}
		}

		u := s.controller.Compute(x, t)
		y, err := s.step(u)
		if err != nil {
			return fmt.Errorf("step %d: %w", k, err)
		}
		if !callback(x, u, y, t) {
			return nil
		}
	}

	return nil
}

func (s *Simulator) step(u Input) (Output, error) {
	if len(u) != s.sys.Inputs() {
		return nil, fmt.Errorf("%w: controller returned %d inputs, model takes %d",
			lti.ErrInvalidDimensions, len(u), s.sys.Inputs())
	}
	y, err := s.sys.Step(linalg.Vec(u))
	if err != nil {
		return nil, err
	}
	return Output(linalg.Slice(y)), nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.SamplePeriod < 0 {
		return fmt.Errorf("%w: sample period must not be negative, got %f", ErrInvalidConfig, cfg.SamplePeriod)
	}
	if cfg.SamplePeriod > cfg.Duration {
		return fmt.Errorf("%w: sample period %g exceeds duration %g", ErrInvalidConfig, cfg.SamplePeriod, cfg.Duration)
	}
	return nil
}

// prepare applies the config's sample period and initial state and returns
// the period the run uses.
func (s *Simulator) prepare(cfg Config) (float64, error) {
	if cfg.SamplePeriod > 0 {
		if err := s.sys.Convert(cfg.SamplePeriod); err != nil {
			return 0, err
		}
	}
	ts, ok := s.sys.SamplePeriod()
	if !ok {
		return 0, fmt.Errorf("%w: set a sample period on the model or the run", lti.ErrSamplingRateRequired)
	}

	if len(cfg.InitialState) > 0 {
		if err := s.sys.Reset(linalg.Vec(cfg.InitialState)); err != nil {
			return 0, err
		}
	}
	return ts, nil
}

func stepCount(duration, ts float64) int {
	return int(math.Floor(duration/ts + 1e-9))
}
