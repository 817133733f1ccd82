package models

import (
	"github.com/san-kum/ltikit/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// DCMotor is an armature-controlled DC motor.
// State: [ω, i]. Input: armature voltage. Output: shaft speed ω.
//
//	J·ω' = -b·ω + K·i
//	L·i' = -K·ω - R·i + v
type DCMotor struct {
	Inertia    float64
	Friction   float64
	Constant   float64
	Resistance float64
	Inductance float64
}

func NewDCMotor() *DCMotor {
	return &DCMotor{
		Inertia:    0.01,
		Friction:   0.1,
		Constant:   0.01,
		Resistance: 1,
		Inductance: 0.5,
	}
}

func (s *DCMotor) Name() string { return "dc_motor" }

func (s *DCMotor) Matrices() (a, b, c, d *mat.Dense) {
	a = linalg.MustFromRows([][]float64{
		{-s.Friction / s.Inertia, s.Constant / s.Inertia},
		{-s.Constant / s.Inductance, -s.Resistance / s.Inductance},
	})
	b = linalg.MustFromRows([][]float64{{0}, {1 / s.Inductance}})
	c = linalg.MustFromRows([][]float64{{1, 0}})
	d = linalg.Zeros(1, 1)
	return a, b, c, d
}

func (s *DCMotor) InitialState() []float64 { return []float64{0, 0} }

func (s *DCMotor) GetParams() map[string]float64 {
	return map[string]float64{
		"inertia":    s.Inertia,
		"friction":   s.Friction,
		"constant":   s.Constant,
		"resistance": s.Resistance,
		"inductance": s.Inductance,
	}
}

func (s *DCMotor) SetParam(name string, value float64) error {
	var field *float64
	switch name {
	case "inertia":
		field = &s.Inertia
	case "friction":
		field = &s.Friction
	case "constant":
		field = &s.Constant
	case "resistance":
		field = &s.Resistance
	case "inductance":
		field = &s.Inductance
	default:
		return unknownParam(s.Name(), name)
	}

	check := positive
	if name == "friction" {
		check = nonNegative
	}
	if err := check(s.Name(), name, value); err != nil {
		return err
	}
	*field = value
	return nil
}
