package control

import "github.com/san-kum/ltikit/internal/sim"

type None struct {
	dim int
}

func NewNone(dim int) *None {
	return &None{
		dim: dim,
	}
}

func (n *None) Compute(x sim.State, t float64) sim.Input {
	return make(sim.Input, n.dim)
}
