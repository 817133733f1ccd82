package models

import (
	"github.com/san-kum/ltikit/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// RCCircuit is a series resistor driving a capacitor. The state and the
// output are the capacitor voltage; the input is the source voltage.
type RCCircuit struct {
	Resistance  float64
	Capacitance float64
}

func NewRCCircuit() *RCCircuit {
	return &RCCircuit{
		Resistance:  1e3,
		Capacitance: 1e-3,
	}
}

func (s *RCCircuit) Name() string { return "rc_circuit" }

// TimeConstant is R·C in seconds.
func (s *RCCircuit) TimeConstant() float64 { return s.Resistance * s.Capacitance }

func (s *RCCircuit) Matrices() (a, b, c, d *mat.Dense) {
	tau := s.TimeConstant()
	a = linalg.MustFromRows([][]float64{{-1 / tau}})
	b = linalg.MustFromRows([][]float64{{1 / tau}})
	c = linalg.MustFromRows([][]float64{{1}})
	d = linalg.Zeros(1, 1)
	return a, b, c, d
}

func (s *RCCircuit) InitialState() []float64 { return []float64{0} }

func (s *RCCircuit) GetParams() map[string]float64 {
	return map[string]float64{
		"resistance":  s.Resistance,
		"capacitance": s.Capacitance,
	}
}

func (s *RCCircuit) SetParam(name string, value float64) error {
	switch name {
	case "resistance":
		if err := positive(s.Name(), name, value); err != nil {
			return err
		}
		s.Resistance = value
	case "capacitance":
		if err := positive(s.Name(), name, value); err != nil {
			return err
		}
		s.Capacitance = value
	default:
		return unknownParam(s.Name(), name)
	}
	return nil
}
