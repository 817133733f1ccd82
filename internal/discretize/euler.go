package discretize

import (
	"github.com/san-kum/ltikit/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// ForwardEulerMethod sets Ad = I + A·h and Bd = B·h.
type ForwardEulerMethod struct{}

func NewForwardEuler() *ForwardEulerMethod {
	return &ForwardEulerMethod{}
}

func (e *ForwardEulerMethod) Method() Method { return ForwardEuler }

func (e *ForwardEulerMethod) Discretize(a, b mat.Matrix, h float64) (*mat.Dense, *mat.Dense, error) {
	n, err := checkInputs(a, b, h)
	if err != nil {
		return nil, nil, err
	}

	ad := linalg.Identity(n)
	var ah mat.Dense
	ah.Scale(h, a)
	ad.Add(ad, &ah)

	var bd mat.Dense
	bd.Scale(h, b)

	return ad, &bd, nil
}
