package lti

import (
	"fmt"
	"math"

	"github.com/san-kum/ltikit/internal/discretize"
	"github.com/san-kum/ltikit/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// AliasingThreshold is aliasingCoeff / max|λ|: sample periods at or above it
// are rejected. It is +Inf when every eigenvalue is zero or the model has
// no continuous form.
func (s *StateSpace) AliasingThreshold() float64 {
	lambda := linalg.MaxAbs(s.eigenvalues)
	if lambda == 0 {
		return math.Inf(1)
	}
	return s.aliasingCoeff / lambda
}

func validPeriod(ts float64) bool {
	return ts > 0 && !math.IsInf(ts, 0)
}

// Convert discretizes the continuous model with the model's method.
func (s *StateSpace) Convert(ts float64) error {
	return s.ConvertWith(ts, s.method)
}

// ConvertWith discretizes the continuous model for sample period ts using
// method, replacing Ad, Bd, Cd, Dd. Repeating the current (ts, method) is a
// no-op. Replacing an existing sample period logs a warning. On error the
// model is unchanged.
func (s *StateSpace) ConvertWith(ts float64, method discretize.Method) error {
	if s.hasPeriod && ts == s.samplePeriod && method == s.method && s.ad != nil {
		return nil
	}
	if s.discreteOnly {
		return fmt.Errorf("%w: model is discrete with period %gs", ErrNoContinuousModel, s.samplePeriod)
	}
	if !validPeriod(ts) {
		return fmt.Errorf("%w: sample period must be positive and finite, got %g", ErrSamplingRateRequired, ts)
	}

	d, err := discretize.Lookup(method)
	if err != nil {
		return err
	}

	if threshold := s.AliasingThreshold(); ts >= threshold {
		return &AliasingError{SamplePeriod: ts, Threshold: threshold}
	}

	ad, bd, err := d.Discretize(s.a, s.b, ts)
	if err != nil {
		return err
	}

	if s.hasPeriod {
		s.log.Info("overwriting sample period",
			"previous", s.samplePeriod, "next", ts, "method", string(method))
	}

	s.ad = ad
	s.bd = bd
	s.cd = mat.DenseCopyOf(s.c)
	s.dd = mat.DenseCopyOf(s.d)
	s.samplePeriod = ts
	s.hasPeriod = true
	s.method = method

	s.log.V(1).Info("discretized", "samplePeriod", ts, "method", string(method))
	return nil
}
