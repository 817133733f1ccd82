package models

import (
	"github.com/san-kum/ltikit/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// DoubleIntegrator is a free mass pushed by a force: m·ẍ = u.
type DoubleIntegrator struct {
	Mass float64
}

func NewDoubleIntegrator() *DoubleIntegrator {
	return &DoubleIntegrator{Mass: DefaultMass}
}

func (s *DoubleIntegrator) Name() string { return "double_integrator" }

func (s *DoubleIntegrator) Matrices() (a, b, c, d *mat.Dense) {
	a = linalg.MustFromRows([][]float64{{0, 1}, {0, 0}})
	b = linalg.MustFromRows([][]float64{{0}, {1 / s.Mass}})
	c = linalg.MustFromRows([][]float64{{1, 0}})
	d = linalg.Zeros(1, 1)
	return a, b, c, d
}

func (s *DoubleIntegrator) InitialState() []float64 { return []float64{0, 0} }

func (s *DoubleIntegrator) GetParams() map[string]float64 {
	return map[string]float64{"mass": s.Mass}
}

func (s *DoubleIntegrator) SetParam(name string, value float64) error {
	if name != "mass" {
		return unknownParam(s.Name(), name)
	}
	if err := positive(s.Name(), name, value); err != nil {
		return err
	}
	s.Mass = value
	return nil
}
