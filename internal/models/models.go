// Package models provides named LTI systems built from scalar physical
// parameters.
//
// Every model returns continuous-time A, B, C, D matrices; the caller turns
// them into an [lti.StateSpace] with [Build]:
//
//	m := models.NewMassSpringDamper()
//	_ = m.SetParam("damping", 0.8)
//	sys, err := models.Build(m, lti.WithSamplePeriod(0.01))
package models

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/ltikit/internal/linalg"
	"github.com/san-kum/ltikit/internal/lti"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrUnknownParam indicates a parameter name the model does not have.
	ErrUnknownParam = errors.New("models: unknown parameter")

	// ErrParameterBounds indicates a parameter value outside its valid range.
	ErrParameterBounds = errors.New("models: parameter out of valid bounds")
)

type Model interface {
	Name() string
	Matrices() (a, b, c, d *mat.Dense)
	InitialState() []float64
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Build validates the model matrices and returns a state-space model seeded
// with the model's initial state. opts are applied after the initial state,
// so WithInitialState in opts wins.
func Build(m Model, opts ...lti.Option) (*lti.StateSpace, error) {
	a, b, c, d := m.Matrices()
	all := make([]lti.Option, 0, len(opts)+1)
	all = append(all, lti.WithInitialState(linalg.Vec(m.InitialState())))
	all = append(all, opts...)

	sys, err := lti.New(a, b, c, d, all...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Name(), err)
	}
	return sys, nil
}

// ApplyParams sets every entry of params on m, stopping at the first error.
// Names are applied in sorted order so failures are reproducible.
func ApplyParams(m Model, params map[string]float64) error {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := m.SetParam(name, params[name]); err != nil {
			return err
		}
	}
	return nil
}

func unknownParam(model, name string) error {
	return fmt.Errorf("%w %q for %s", ErrUnknownParam, name, model)
}

func positive(model, name string, value float64) error {
	if value <= 0 {
		return fmt.Errorf("%w: %s.%s must be positive, got %g", ErrParameterBounds, model, name, value)
	}
	return nil
}

func nonNegative(model, name string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%w: %s.%s must be non-negative, got %g", ErrParameterBounds, model, name, value)
	}
	return nil
}
