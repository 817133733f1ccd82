package sim

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidConfig indicates a run configuration that cannot be simulated.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")
)

type State []float64

func StateOf(v mat.Vector) State {
	s := make(State, v.Len())
	for i := range s {
		s[i] = v.AtVec(i)
	}
	return s
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

type Input []float64

type Output []float64

// Controller produces u[k] from x[k] at time t = k·Ts.
type Controller interface {
	Compute(x State, t float64) Input
}

// ControllerFunc adapts a plain function to Controller.
type ControllerFunc func(x State, t float64) Input

func (f ControllerFunc) Compute(x State, t float64) Input { return f(x, t) }

type Metric interface {
	Name() string
	Observe(x State, u Input, y Output, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Input, y Output, t float64)
}

type Config struct {
	// Duration is the simulated time in seconds.
	Duration float64
	// SamplePeriod re-discretizes the model before the run. Zero keeps the
	// model's own period.
	SamplePeriod float64
	// InitialState re-seeds the model before the run. Empty continues from
	// the model's current state.
	InitialState []float64
	// ValidateState stops the run at the first non-finite state.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Duration:      10.0,
		ValidateState: true,
	}
}

// Result holds one record per step: x[k], u[k], y[k] at t[k] = k·Ts.
type Result struct {
	SamplePeriod float64
	States       []State
	Inputs       []Input
	Outputs      []Output
	Times        []float64
	Metrics      map[string]float64
	StepsTaken   int
	Errors       []error
}

// Output returns channel i of the output trace.
func (r *Result) Output(i int) []float64 {
	out := make([]float64, len(r.Outputs))
	for k, y := range r.Outputs {
		if i < len(y) {
			out[k] = y[i]
		}
	}
	return out
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error {
	return ErrInvalidState
}
