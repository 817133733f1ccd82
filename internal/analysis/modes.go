package analysis

import (
	"math"
	"math/cmplx"
	"sort"
)

// Mode describes one eigenvalue λ of A. Complex pairs are reported once,
// by the member with positive imaginary part.
type Mode struct {
	Eigenvalue complex128
	// NaturalFrequency is |λ| in rad/s.
	NaturalFrequency float64
	// DampingRatio is -Re(λ)/|λ|; zero for λ = 0.
	DampingRatio float64
	// TimeConstant is -1/Re(λ); +Inf for modes that do not decay.
	TimeConstant float64
	Oscillatory  bool
}

const imagTolerance = 1e-12

func Modes(eigenvalues []complex128) []Mode {
	modes := make([]Mode, 0, len(eigenvalues))
	for _, v := range eigenvalues {
		if imag(v) < -imagTolerance {
			continue
		}

		m := Mode{
			Eigenvalue:       v,
			NaturalFrequency: cmplx.Abs(v),
			TimeConstant:     math.Inf(1),
			Oscillatory:      imag(v) > imagTolerance,
		}
		if m.NaturalFrequency > 0 {
			m.DampingRatio = -real(v) / m.NaturalFrequency
		}
		if real(v) < 0 {
			m.TimeConstant = -1 / real(v)
		}
		modes = append(modes, m)
	}

	sort.SliceStable(modes, func(i, j int) bool {
		return modes[i].NaturalFrequency < modes[j].NaturalFrequency
	})
	return modes
}
