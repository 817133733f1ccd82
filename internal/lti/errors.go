package lti

import (
	"errors"
	"fmt"

	"github.com/san-kum/ltikit/internal/discretize"
)

// Error kinds returned by model operations. Every error a StateSpace
// method returns matches one of these under errors.Is.
var (
	// ErrInvalidDimensions indicates a matrix or vector shape that breaks
	// the model invariants, or an unsupported transfer-function request.
	ErrInvalidDimensions = errors.New("lti: invalid dimensions")

	// ErrSamplingRateRequired indicates an operation that needs a sample
	// period when the model has none and none was supplied.
	ErrSamplingRateRequired = errors.New("lti: sampling rate required")

	// ErrAliasing indicates a sample period too coarse for the fastest mode.
	ErrAliasing = errors.New("lti: sample period too coarse (aliasing)")

	// ErrNotImplemented indicates a recognized but unbuilt discretization method.
	ErrNotImplemented = discretize.ErrNotImplemented

	// ErrNoContinuousModel indicates a conversion requested on a model that
	// was constructed from discrete matrices only.
	ErrNoContinuousModel = errors.New("lti: no continuous model to discretize")
)

// AliasingError reports the rejected sample period and the threshold it
// failed against.
type AliasingError struct {
	SamplePeriod float64
	Threshold    float64
}

func (e *AliasingError) Error() string {
	return fmt.Sprintf("%v: %gs >= threshold %gs", ErrAliasing, e.SamplePeriod, e.Threshold)
}

func (e *AliasingError) Unwrap() error {
	return ErrAliasing
}

func dimensionError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDimensions, fmt.Sprintf(format, args...))
}
