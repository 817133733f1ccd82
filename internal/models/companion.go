package models

import (
	"github.com/san-kum/ltikit/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// Companion is a third-order single-input system in first companion form:
//
//	x''' = x - (k/m)·x' - (f/m)·x'' + u
//
// with the velocity and acceleration as outputs. One eigenvalue is
// positive, so the continuous model is unstable.
type Companion struct {
	Mass      float64
	Stiffness float64
	Friction  float64
}

func NewCompanion() *Companion {
	return &Companion{
		Mass:      DefaultMass,
		Stiffness: DefaultStiffness,
		Friction:  DefaultDamping,
	}
}

func (s *Companion) Name() string { return "companion3" }

func (s *Companion) Matrices() (a, b, c, d *mat.Dense) {
	a = linalg.MustFromRows([][]float64{
		{0, 1, 0},
		{0, 0, 1},
		{1, -s.Stiffness / s.Mass, -s.Friction / s.Mass},
	})
	b = linalg.MustFromRows([][]float64{{0}, {0}, {1}})
	c = linalg.MustFromRows([][]float64{
		{0, 1, 0},
		{0, 0, 1},
	})
	d = linalg.Zeros(2, 1)
	return a, b, c, d
}

func (s *Companion) InitialState() []float64 { return []float64{0, 0, 0} }

func (s *Companion) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":      s.Mass,
		"stiffness": s.Stiffness,
		"friction":  s.Friction,
	}
}

func (s *Companion) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		if err := positive(s.Name(), name, value); err != nil {
			return err
		}
		s.Mass = value
	case "stiffness":
		s.Stiffness = value
	case "friction":
		s.Friction = value
	default:
		return unknownParam(s.Name(), name)
	}
	return nil
}
