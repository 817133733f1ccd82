package control

import (
	"math"
	"math/rand"

	"github.com/san-kum/ltikit/internal/sim"
)

// Step holds Amplitude on every input from Delay onwards.
type Step struct {
	Dim       int
	Amplitude float64
	Delay     float64
}

func NewStep(dim int, amplitude, delay float64) *Step {
	return &Step{Dim: dim, Amplitude: amplitude, Delay: delay}
}

func (s *Step) Compute(x sim.State, t float64) sim.Input {
	u := make(sim.Input, s.Dim)
	if t >= s.Delay {
		for i := range u {
			u[i] = s.Amplitude
		}
	}
	return u
}

// Impulse is a rectangular pulse of the given area lasting Width seconds,
// normally one sample period.
type Impulse struct {
	Dim   int
	Area  float64
	Width float64
}

func NewImpulse(dim int, area, width float64) *Impulse {
	return &Impulse{Dim: dim, Area: area, Width: width}
}

func (p *Impulse) Compute(x sim.State, t float64) sim.Input {
	u := make(sim.Input, p.Dim)
	if p.Width > 0 && t < p.Width*(1-1e-9) {
		for i := range u {
			u[i] = p.Area / p.Width
		}
	}
	return u
}

// Sine is Amplitude·sin(2π·Frequency·t + Phase) on every input.
type Sine struct {
	Dim       int
	Amplitude float64
	Frequency float64
	Phase     float64
}

func NewSine(dim int, amplitude, frequency, phase float64) *Sine {
	return &Sine{Dim: dim, Amplitude: amplitude, Frequency: frequency, Phase: phase}
}

func (s *Sine) Compute(x sim.State, t float64) sim.Input {
	v := s.Amplitude * math.Sin(2*math.Pi*s.Frequency*t+s.Phase)
	u := make(sim.Input, s.Dim)
	for i := range u {
		u[i] = v
	}
	return u
}

// Noise draws every input uniformly from [-Amplitude, Amplitude]. The same
// seed reproduces the same sequence.
type Noise struct {
	Dim       int
	Amplitude float64
	rng       *rand.Rand
}

func NewNoise(dim int, amplitude float64, seed int64) *Noise {
	return &Noise{Dim: dim, Amplitude: amplitude, rng: rand.New(rand.NewSource(seed))}
}

func (n *Noise) Compute(x sim.State, t float64) sim.Input {
	u := make(sim.Input, n.Dim)
	for i := range u {
		u[i] = n.Amplitude * (2*n.rng.Float64() - 1)
	}
	return u
}
