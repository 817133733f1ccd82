package lti

import (
	"math/cmplx"

	"github.com/san-kum/ltikit/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// ControllabilityMatrix returns R = [B, A·B, A²·B, …, A^(n-1)·B].
func (s *StateSpace) ControllabilityMatrix() *mat.Dense {
	a, b, _, _ := s.system()

	blocks := make([]mat.Matrix, 0, s.order)
	blocks = append(blocks, b)

	prev := b
	for k := 1; k < s.order; k++ {
		var next mat.Dense
		next.Mul(a, prev)
		blocks = append(blocks, &next)
		prev = &next
	}

	r, err := linalg.HConcat(blocks...)
	if err != nil {
		// every block has n rows by construction
		panic(err)
	}
	return r
}

// ObservabilityMatrix returns W = [C; C·A; C·A²; …; C·A^(n-1)], the blocks
// stacked as rows.
func (s *StateSpace) ObservabilityMatrix() *mat.Dense {
	a, _, c, _ := s.system()

	blocks := make([]mat.Matrix, 0, s.order)
	blocks = append(blocks, c)

	prev := c
	for k := 1; k < s.order; k++ {
		var next mat.Dense
		next.Mul(prev, a)
		blocks = append(blocks, &next)
		prev = &next
	}

	w, err := linalg.VConcat(blocks...)
	if err != nil {
		panic(err)
	}
	return w
}

// IsControllable reports whether rank(R) == n.
func (s *StateSpace) IsControllable() bool {
	return linalg.HasRank(s.ControllabilityMatrix(), s.order)
}

// IsObservable reports whether rank(W) == n.
func (s *StateSpace) IsObservable() bool {
	return linalg.HasRank(s.ObservabilityMatrix(), s.order)
}

// IsStable applies the continuous-time test to A: every eigenvalue has a
// non-positive real part. A purely discrete model is tested on Ad instead:
// every eigenvalue lies in the closed unit disc.
func (s *StateSpace) IsStable() bool {
	if s.discreteOnly {
		values, err := linalg.EigenValues(s.ad)
		if err != nil {
			return false
		}
		for _, v := range values {
			if cmplx.Abs(v) > 1 {
				return false
			}
		}
		return true
	}

	for _, v := range s.eigenvalues {
		if real(v) > 0 {
			return false
		}
	}
	return true
}

// IsFirstCompanionForm reports whether A and B have the first companion
// layout:
//
//	A = | 0  1  0 … 0 |    B = | 0 |
//	    | 0  0  1 … 0 |        | 0 |
//	    | …           |        | … |
//	    | x  x  x … x |        | x |
//
// i.e. the first column of A above its last row is zero, the (n-1)×(n-1)
// block above the last row and right of the first column is the identity,
// and every row of B but the last is zero.
func (s *StateSpace) IsFirstCompanionForm() bool {
	a, b, _, _ := s.system()
	n := s.order
	if n == 1 {
		return true
	}

	if !linalg.IsZero(a.Slice(0, n-1, 0, 1)) {
		return false
	}

	upper, err := linalg.SubUpperRight(a, n-1)
	if err != nil {
		return false
	}
	if ok, err := linalg.IsIdentity(upper); err != nil || !ok {
		return false
	}

	return linalg.IsZero(b.Slice(0, n-1, 0, s.inputs))
}
