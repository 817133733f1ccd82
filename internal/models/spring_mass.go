package models

import (
	"fmt"
	"math"

	"github.com/san-kum/ltikit/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultMass      = 1.0
	DefaultStiffness = 2.0
	DefaultDamping   = 3.0
)

// MassSpringDamper is m·ẍ + c·ẋ + k·x = u with state [x, ẋ] and
// position as the output.
type MassSpringDamper struct {
	Mass      float64
	Stiffness float64
	Damping   float64
}

func NewMassSpringDamper() *MassSpringDamper {
	return &MassSpringDamper{
		Mass:      DefaultMass,
		Stiffness: DefaultStiffness,
		Damping:   DefaultDamping,
	}
}

func (s *MassSpringDamper) Name() string { return "mass_spring_damper" }

func (s *MassSpringDamper) Matrices() (a, b, c, d *mat.Dense) {
	a = linalg.MustFromRows([][]float64{
		{0, 1},
		{-s.Stiffness / s.Mass, -s.Damping / s.Mass},
	})
	b = linalg.MustFromRows([][]float64{{0}, {1 / s.Mass}})
	c = linalg.MustFromRows([][]float64{{1, 0}})
	d = linalg.Zeros(1, 1)
	return a, b, c, d
}

func (s *MassSpringDamper) InitialState() []float64 { return []float64{1, 0} }

func (s *MassSpringDamper) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":      s.Mass,
		"stiffness": s.Stiffness,
		"damping":   s.Damping,
	}
}

func (s *MassSpringDamper) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		if err := positive(s.Name(), name, value); err != nil {
			return err
		}
		s.Mass = value
	case "stiffness":
		if err := nonNegative(s.Name(), name, value); err != nil {
			return err
		}
		s.Stiffness = value
	case "damping":
		if err := nonNegative(s.Name(), name, value); err != nil {
			return err
		}
		s.Damping = value
	default:
		return unknownParam(s.Name(), name)
	}
	return nil
}

// SpringMassChain is N equal masses between two walls, joined by N+1 equal
// springs, each mass with viscous damping. The force acts on the first mass;
// the output is the position of the last one.
//
// State: [x1 … xN, v1 … vN].
type SpringMassChain struct {
	Masses    int
	Mass      float64
	Stiffness float64
	Damping   float64
}

func NewSpringMassChain(n int) *SpringMassChain {
	return &SpringMassChain{
		Masses:    n,
		Mass:      DefaultMass,
		Stiffness: 10,
		Damping:   0.2,
	}
}

func (s *SpringMassChain) Name() string { return "spring_chain" }

func (s *SpringMassChain) Matrices() (a, b, c, d *mat.Dense) {
	n := s.Masses
	a = linalg.Zeros(2*n, 2*n)
	for i := 0; i < n; i++ {
		a.Set(i, n+i, 1)

		a.Set(n+i, i, -2*s.Stiffness/s.Mass)
		if i > 0 {
			a.Set(n+i, i-1, s.Stiffness/s.Mass)
		}
		if i < n-1 {
			a.Set(n+i, i+1, s.Stiffness/s.Mass)
		}
		a.Set(n+i, n+i, -s.Damping/s.Mass)
	}

	b = linalg.Zeros(2*n, 1)
	b.Set(n, 0, 1/s.Mass)

	c = linalg.Zeros(1, 2*n)
	c.Set(0, n-1, 1)

	d = linalg.Zeros(1, 1)
	return a, b, c, d
}

func (s *SpringMassChain) InitialState() []float64 {
	x0 := make([]float64, 2*s.Masses)
	x0[0] = 1
	return x0
}

func (s *SpringMassChain) GetParams() map[string]float64 {
	return map[string]float64{
		"masses":    float64(s.Masses),
		"mass":      s.Mass,
		"stiffness": s.Stiffness,
		"damping":   s.Damping,
	}
}

func (s *SpringMassChain) SetParam(name string, value float64) error {
	switch name {
	case "masses":
		if value < 1 || value != math.Trunc(value) {
			return fmt.Errorf("%w: %s.%s must be a positive integer, got %g", ErrParameterBounds, s.Name(), name, value)
		}
		s.Masses = int(value)
	case "mass":
		if err := positive(s.Name(), name, value); err != nil {
			return err
		}
		s.Mass = value
	case "stiffness":
		if err := nonNegative(s.Name(), name, value); err != nil {
			return err
		}
		s.Stiffness = value
	case "damping":
		if err := nonNegative(s.Name(), name, value); err != nil {
			return err
		}
		s.Damping = value
	default:
		return unknownParam(s.Name(), name)
	}
	return nil
}
