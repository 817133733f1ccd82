package lti

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Step advances the discrete model by one sample using its current period:
//
//	x[k]   <- x[k+1]
//	x[k+1] <- Ad·x[k] + Bd·u[k]
//	y[k]   <- Cd·x[k] + Dd·u[k]
//
// and returns y[k].
func (s *StateSpace) Step(u mat.Vector) (*mat.VecDense, error) {
	if err := s.checkInput(u); err != nil {
		return nil, err
	}
	if !s.hasPeriod {
		return nil, fmt.Errorf("%w: model has no sample period", ErrSamplingRateRequired)
	}
	s.advance(u)
	return mat.VecDenseCopyOf(s.outputNow), nil
}

// StepAt re-discretizes for sample period ts, then steps. Changing ts
// mid-simulation re-derives Ad and Bd.
func (s *StateSpace) StepAt(u mat.Vector, ts float64) (*mat.VecDense, error) {
	if err := s.checkInput(u); err != nil {
		return nil, err
	}
	if err := s.Convert(ts); err != nil {
		return nil, err
	}
	s.advance(u)
	return mat.VecDenseCopyOf(s.outputNow), nil
}

func (s *StateSpace) checkInput(u mat.Vector) error {
	if u == nil {
		return dimensionError("input vector is nil, B has %d columns", s.inputs)
	}
	if u.Len() != s.inputs {
		return dimensionError("input vector has length %d, B has %d columns", u.Len(), s.inputs)
	}
	return nil
}

func (s *StateSpace) advance(u mat.Vector) {
	s.stateNow.CopyVec(s.stateNext)

	var bu mat.VecDense
	bu.MulVec(s.bd, u)
	s.stateNext.MulVec(s.ad, s.stateNow)
	s.stateNext.AddVec(s.stateNext, &bu)

	var du mat.VecDense
	du.MulVec(s.dd, u)
	s.outputNow.MulVec(s.cd, s.stateNow)
	s.outputNow.AddVec(s.outputNow, &du)
}
