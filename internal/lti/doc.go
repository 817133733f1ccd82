// Package lti models linear time-invariant systems in state-space form.
//
// A [StateSpace] holds the continuous matrices
//
//	ẋ = A x + B u
//	y = C x + D u
//
// and, once a sample period is known, their discrete counterparts
//
//	x[k+1] = Ad x[k] + Bd u[k]
//	y[k]   = Cd x[k] + Dd u[k]
//
// The package covers:
//
//   - construction with dimension validation ([New])
//   - continuous-to-discrete conversion with an aliasing guard ([StateSpace.Convert])
//   - controllability, observability and stability tests
//   - first companion form detection and transfer-function coefficients
//   - discrete simulation stepping ([StateSpace.Step])
//
// # Example
//
//	sys, err := lti.New(a, b, c, d, lti.WithSamplePeriod(0.01))
//	if err != nil {
//	    return err
//	}
//	y, err := sys.Step(mat.NewVecDense(1, []float64{1}))
//
// # Thread Safety
//
// A StateSpace is mutable and NOT safe for concurrent use. Callers sharing
// a model must serialize Convert, Step and the analysis methods.
package lti
