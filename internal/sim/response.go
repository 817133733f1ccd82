package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/ltikit/internal/lti"
)

// StepResponse drives every input of sys with a unit step from the zero
// state. A zero ts keeps the model's own sample period; when the model has
// none either, the call fails with lti.ErrSamplingRateRequired and the model
// is left untouched.
func StepResponse(ctx context.Context, sys *lti.StateSpace, duration, ts float64) (*Result, error) {
	return response(ctx, sys, duration, ts, func(k int, period float64) float64 {
		return 1
	})
}

// ImpulseResponse applies a discrete unit impulse of height 1/Ts during the
// first sample, so the input carries unit area.
func ImpulseResponse(ctx context.Context, sys *lti.StateSpace, duration, ts float64) (*Result, error) {
	return response(ctx, sys, duration, ts, func(k int, period float64) float64 {
		if k == 0 {
			return 1 / period
		}
		return 0
	})
}

func response(ctx context.Context, sys *lti.StateSpace, duration, ts float64, shape func(k int, period float64) float64) (*Result, error) {
	period := ts
	if period == 0 {
		var ok bool
		if period, ok = sys.SamplePeriod(); !ok {
			return nil, fmt.Errorf("%w: no sample period on the model and none supplied", lti.ErrSamplingRateRequired)
		}
	}
	if period < 0 {
		return nil, fmt.Errorf("%w: sample period must be positive, got %g", lti.ErrSamplingRateRequired, period)
	}

	m := sys.Inputs()
	k := 0
	source := ControllerFunc(func(x State, t float64) Input {
		u := make(Input, m)
		v := shape(k, period)
		for i := range u {
			u[i] = v
		}
		k++
		return u
	})

	cfg := Config{
		Duration:      duration,
		SamplePeriod:  ts,
		InitialState:  make([]float64, sys.Order()),
		ValidateState: true,
	}
	return New(sys, source).Run(ctx, cfg)
}
