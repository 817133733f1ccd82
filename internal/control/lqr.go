package control

import (
	"errors"
	"fmt"

	"github.com/san-kum/ltikit/internal/linalg"
	"github.com/san-kum/ltikit/internal/lti"
	"github.com/san-kum/ltikit/internal/sim"
	"gonum.org/v1/gonum/mat"
)

var ErrNoConvergence = errors.New("control: riccati iteration did not converge")

const (
	riccatiTolerance = 1e-10
	riccatiMaxIter   = 10000
)

// StateFeedback is u = -K(x - r).
type StateFeedback struct {
	K      *mat.Dense
	Target sim.State
}

func NewStateFeedback(k *mat.Dense, target sim.State) (*StateFeedback, error) {
	_, n := k.Dims()
	if target != nil && len(target) != n {
		return nil, fmt.Errorf("%w: target has length %d, gain has %d columns", lti.ErrInvalidDimensions, len(target), n)
	}
	if target == nil {
		target = make(sim.State, n)
	}
	return &StateFeedback{K: mat.DenseCopyOf(k), Target: target.Clone()}, nil
}

func (f *StateFeedback) Compute(x sim.State, t float64) sim.Input {
	m, n := f.K.Dims()
	u := make(sim.Input, m)
	for i := range u {
		for j := 0; j < n && j < len(x); j++ {
			u[i] -= f.K.At(i, j) * (x[j] - f.Target[j])
		}
	}
	return u
}

// DiscreteLQR returns the infinite-horizon gain K minimising
// Σ xᵀQx + uᵀRu for x[k+1] = Ad·x[k] + Bd·u[k], by iterating the discrete
// Riccati equation from P = Q until it settles.
func DiscreteLQR(ad, bd, q, r mat.Matrix) (*mat.Dense, error) {
	n, _ := ad.Dims()
	_, m := bd.Dims()
	if qr, qc := q.Dims(); qr != n || qc != n {
		return nil, fmt.Errorf("%w: Q is %dx%d, want %dx%d", lti.ErrInvalidDimensions, qr, qc, n, n)
	}
	if rr, rc := r.Dims(); rr != m || rc != m {
		return nil, fmt.Errorf("%w: R is %dx%d, want %dx%d", lti.ErrInvalidDimensions, rr, rc, m, m)
	}

	p := mat.DenseCopyOf(q)
	var k mat.Dense

	for iter := 0; iter < riccatiMaxIter; iter++ {
		var btp, s, btpa mat.Dense
		btp.Mul(bd.T(), p)
		s.Mul(&btp, bd)
		s.Add(&s, r)
		btpa.Mul(&btp, ad)

		if err := k.Solve(&s, &btpa); err != nil {
			return nil, fmt.Errorf("control: R + BᵀPB is singular: %w", err)
		}

		var atp, atpa, atpb, next mat.Dense
		atp.Mul(ad.T(), p)
		atpa.Mul(&atp, ad)
		atpb.Mul(&atp, bd)
		next.Mul(&atpb, &k)
		next.Sub(&atpa, &next)
		next.Add(&next, q)

		var diff mat.Dense
		diff.Sub(&next, p)
		p = &next
		if mat.Norm(&diff, 1) < riccatiTolerance*(1+mat.Norm(p, 1)) {
			return mat.DenseCopyOf(&k), nil
		}
	}

	return nil, ErrNoConvergence
}

// NewLQR designs a regulator for the discrete model of sys with Q = q·I and
// R = r·I, driving the state to target.
func NewLQR(sys *lti.StateSpace, q, r float64, target sim.State) (*StateFeedback, error) {
	if _, ok := sys.SamplePeriod(); !ok {
		return nil, fmt.Errorf("%w: lqr needs the discrete model", lti.ErrSamplingRateRequired)
	}

	qm := linalg.Identity(sys.Order())
	qm.Scale(q, qm)
	rm := linalg.Identity(sys.Inputs())
	rm.Scale(r, rm)

	k, err := DiscreteLQR(sys.Ad(), sys.Bd(), qm, rm)
	if err != nil {
		return nil, err
	}
	return NewStateFeedback(k, target)
}
