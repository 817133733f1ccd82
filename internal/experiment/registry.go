package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/ltikit/internal/control"
	"github.com/san-kum/ltikit/internal/discretize"
	"github.com/san-kum/ltikit/internal/lti"
	"github.com/san-kum/ltikit/internal/metrics"
	"github.com/san-kum/ltikit/internal/models"
	"github.com/san-kum/ltikit/internal/sim"
)

var (
	ErrUnknownModel = errors.New("experiment: unknown model")
	ErrUnknownInput = errors.New("experiment: unknown input source")
)

// DefaultOutputBound is the |y| bound used by the stability metric.
const DefaultOutputBound = 10.0

// InputFactory builds an input source for sys. seed is only used by
// random sources.
type InputFactory func(sys *lti.StateSpace, params map[string]float64, seed int64) (sim.Controller, error)

type Registry struct {
	models map[string]func() models.Model
	inputs map[string]InputFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]func() models.Model),
		inputs: make(map[string]InputFactory),
	}

	r.models["mass_spring_damper"] = func() models.Model { return models.NewMassSpringDamper() }
	r.models["companion3"] = func() models.Model { return models.NewCompanion() }
	r.models["double_integrator"] = func() models.Model { return models.NewDoubleIntegrator() }
	r.models["rc_circuit"] = func() models.Model { return models.NewRCCircuit() }
	r.models["dc_motor"] = func() models.Model { return models.NewDCMotor() }
	r.models["spring_chain"] = func() models.Model { return models.NewSpringMassChain(3) }

	r.inputs["none"] = func(sys *lti.StateSpace, params map[string]float64, seed int64) (sim.Controller, error) {
		return control.NewNone(sys.Inputs()), nil
	}
	r.inputs["step"] = func(sys *lti.StateSpace, params map[string]float64, seed int64) (sim.Controller, error) {
		return control.NewStep(sys.Inputs(), param(params, "amplitude", 1), param(params, "delay", 0)), nil
	}
	r.inputs["impulse"] = func(sys *lti.StateSpace, params map[string]float64, seed int64) (sim.Controller, error) {
		ts, _ := sys.SamplePeriod()
		return control.NewImpulse(sys.Inputs(), param(params, "area", 1), param(params, "width", ts)), nil
	}
	r.inputs["sine"] = func(sys *lti.StateSpace, params map[string]float64, seed int64) (sim.Controller, error) {
		return control.NewSine(sys.Inputs(), param(params, "amplitude", 1), param(params, "frequency", 1), param(params, "phase", 0)), nil
	}
	r.inputs["noise"] = func(sys *lti.StateSpace, params map[string]float64, seed int64) (sim.Controller, error) {
		return control.NewNoise(sys.Inputs(), param(params, "amplitude", 1), seed), nil
	}
	r.inputs["pid"] = func(sys *lti.StateSpace, params map[string]float64, seed int64) (sim.Controller, error) {
		if sys.Inputs() != 1 {
			return nil, fmt.Errorf("%w: pid drives a single input, model has %d", lti.ErrInvalidDimensions, sys.Inputs())
		}
		pid := control.NewPID(param(params, "kp", 1), param(params, "ki", 0), param(params, "kd", 0), param(params, "target", 0))
		if err := pid.SetParam("index", param(params, "index", 0)); err != nil {
			return nil, err
		}
		if pid.Index >= sys.Order() {
			return nil, fmt.Errorf("%w: pid index %d, model order %d", lti.ErrInvalidDimensions, pid.Index, sys.Order())
		}
		return pid, nil
	}
	r.inputs["lqr"] = func(sys *lti.StateSpace, params map[string]float64, seed int64) (sim.Controller, error) {
		return control.NewLQR(sys, param(params, "q", 1), param(params, "r", 1), nil)
	}

	return r
}

func param(params map[string]float64, name string, def float64) float64 {
	if v, ok := params[name]; ok {
		return v
	}
	return def
}

// GetModel returns a fresh model with params applied.
func (r *Registry) GetModel(name string, params map[string]float64) (models.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	m := fn()
	if err := models.ApplyParams(m, params); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Registry) GetInput(name string, sys *lti.StateSpace, params map[string]float64, seed int64) (sim.Controller, error) {
	fn, ok := r.inputs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInput, name)
	}
	return fn(sys, params, seed)
}

func (r *Registry) ListModels() []string {
	return sortedKeys(r.models)
}

func (r *Registry) ListInputs() []string {
	return sortedKeys(r.inputs)
}

func (r *Registry) ListMethods() []discretize.Method {
	return discretize.Methods()
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Defaults(DefaultOutputBound)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
