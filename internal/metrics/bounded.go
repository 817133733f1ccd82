package metrics

import (
	"math"

	"github.com/san-kum/ltikit/internal/sim"
)

// BoundedOutput is the fraction of samples whose output stays within
// ±bound on every channel. A stable model driven by a bounded input scores
// 1; a divergent one drops towards 0 after its first escape.
type BoundedOutput struct {
	name    string
	bound   float64
	inside  int
	samples int
	escapeT float64
	escaped bool
}

func NewBoundedOutput(bound float64) *BoundedOutput {
	return &BoundedOutput{name: "stability", bound: bound}
}

func (b *BoundedOutput) Name() string { return b.name }

func (b *BoundedOutput) Observe(x sim.State, u sim.Input, y sim.Output, t float64) {
	b.samples++
	if peak(y) <= b.bound {
		b.inside++
		return
	}
	if !b.escaped {
		b.escaped = true
		b.escapeT = t
	}
}

func (b *BoundedOutput) Value() float64 {
	if b.samples == 0 {
		return 1
	}
	return float64(b.inside) / float64(b.samples)
}

// Escape reports the time of the first sample outside the bound.
func (b *BoundedOutput) Escape() (float64, bool) { return b.escapeT, b.escaped }

func (b *BoundedOutput) Reset() {
	b.inside = 0
	b.samples = 0
	b.escapeT = 0
	b.escaped = false
}

func peak(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		m = math.Max(m, math.Abs(x))
	}
	return m
}
