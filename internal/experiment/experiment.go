package experiment

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/san-kum/ltikit/internal/config"
	"github.com/san-kum/ltikit/internal/discretize"
	"github.com/san-kum/ltikit/internal/linalg"
	"github.com/san-kum/ltikit/internal/lti"
	"github.com/san-kum/ltikit/internal/models"
	"github.com/san-kum/ltikit/internal/sim"
	"github.com/san-kum/ltikit/internal/storage"
)

// Experiment turns a run configuration into a discretized model, an input
// source and a simulator.
type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	log       logr.Logger
	model     models.Model
	system    *lti.StateSpace
	simulator *sim.Simulator
}

func New(cfg *config.Config, registry *Registry, log logr.Logger) *Experiment {
	return &Experiment{
		cfg:      cfg,
		registry: registry,
		log:      log,
	}
}

// BuildSystem builds the configured model discretized with method. It
// fails with the model's own errors: dimensions, aliasing or an
// unimplemented method.
func (e *Experiment) BuildSystem(method discretize.Method) (models.Model, *lti.StateSpace, error) {
	m, err := e.registry.GetModel(e.cfg.Model, e.cfg.Params)
	if err != nil {
		return nil, nil, err
	}

	opts := []lti.Option{
		lti.WithMethod(method),
		lti.WithLogger(e.log.WithValues("model", e.cfg.Model)),
	}
	if e.cfg.AliasingCoeff > 0 {
		opts = append(opts, lti.WithAliasingCoeff(e.cfg.AliasingCoeff))
	}
	if len(e.cfg.InitState) > 0 {
		opts = append(opts, lti.WithInitialState(linalg.Vec(e.cfg.InitState)))
	}
	if e.cfg.SamplePeriod > 0 {
		opts = append(opts, lti.WithSamplePeriod(e.cfg.SamplePeriod))
	}

	sys, err := models.Build(m, opts...)
	if err != nil {
		return nil, nil, err
	}
	return m, sys, nil
}

func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	method, err := e.cfg.DiscretizeMethod()
	if err != nil {
		return err
	}

	m, sys, err := e.BuildSystem(method)
	if err != nil {
		return err
	}
	input, err := e.registry.GetInput(e.cfg.Input, sys, e.cfg.InputParams, e.cfg.Seed)
	if err != nil {
		return err
	}

	e.model = m
	e.system = sys
	e.simulator = sim.New(sys, input)
	e.simulator.SetLogger(e.log)
	for _, metric := range e.registry.DefaultMetrics() {
		e.simulator.AddMetric(metric)
	}

	e.log.V(1).Info("experiment ready", "model", e.cfg.Model, "method", method,
		"samplePeriod", e.cfg.SamplePeriod, "input", e.cfg.Input)
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := sim.DefaultConfig()
	simCfg.Duration = e.cfg.Duration
	return e.simulator.Run(ctx, simCfg)
}

// Compare runs the configured experiment once per method. Input sources
// that need a discrete model are designed on the zero-order-hold model.
func (e *Experiment) Compare(ctx context.Context, methods []discretize.Method) ([]sim.Comparison, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	build := func() (*lti.StateSpace, sim.Controller, error) {
		_, sys, err := e.BuildSystem(discretize.ZOH)
		if err != nil {
			return nil, nil, err
		}
		input, err := e.registry.GetInput(e.cfg.Input, sys, e.cfg.InputParams, e.cfg.Seed)
		if err != nil {
			return nil, nil, err
		}
		return sys, input, nil
	}

	simCfg := sim.DefaultConfig()
	simCfg.Duration = e.cfg.Duration
	simCfg.SamplePeriod = e.cfg.SamplePeriod
	return sim.Compare(ctx, build, methods, simCfg)
}

// Metadata describes the run for the store.
func (e *Experiment) Metadata(result *sim.Result) storage.RunMetadata {
	meta := storage.RunMetadata{
		Model:        e.cfg.Model,
		Seed:         e.cfg.Seed,
		Method:       e.cfg.Method,
		SamplePeriod: e.cfg.SamplePeriod,
		Duration:     e.cfg.Duration,
		Input:        e.cfg.Input,
	}
	if e.model != nil {
		meta.Params = e.model.GetParams()
	}
	if e.system != nil {
		meta.Order = e.system.Order()
		meta.Inputs = e.system.Inputs()
		meta.Outputs = e.system.Outputs()
		meta.Method = string(e.system.Method())
	}
	if result != nil {
		meta.Metrics = result.Metrics
		if result.SamplePeriod > 0 {
			meta.SamplePeriod = result.SamplePeriod
		}
	}
	return meta
}

func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

func (e *Experiment) System() *lti.StateSpace { return e.system }

func (e *Experiment) Model() models.Model { return e.model }
