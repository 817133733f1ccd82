package discretize

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// notImplemented stands in for a method that is named but not built.
// It rejects every call so callers never see partial results.
type notImplemented struct {
	method Method
}

func (n notImplemented) Method() Method { return n.method }

func (n notImplemented) Discretize(a, b mat.Matrix, h float64) (*mat.Dense, *mat.Dense, error) {
	return nil, nil, fmt.Errorf("%w: %s", ErrNotImplemented, n.method)
}
