package discretize

import (
	"github.com/san-kum/ltikit/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// ZeroOrderHold approximates the matrix exponential with the series
//
//	S = Σ_{k=1..n} A^(k-1) h^k / k!
//
// truncated at the system order n, then sets Ad = I + A·S and Bd = S·B.
// The truncation is exact when A is nilpotent of degree <= n.
type ZeroOrderHold struct{}

func NewZeroOrderHold() *ZeroOrderHold {
	return &ZeroOrderHold{}
}

func (z *ZeroOrderHold) Method() Method { return ZOH }

func (z *ZeroOrderHold) Discretize(a, b mat.Matrix, h float64) (*mat.Dense, *mat.Dense, error) {
	n, err := checkInputs(a, b, h)
	if err != nil {
		return nil, nil, err
	}

	s := Series(a, h, n)

	ad := linalg.Identity(n)
	var as mat.Dense
	as.Mul(a, s)
	ad.Add(ad, &as)

	var bd mat.Dense
	bd.Mul(s, b)

	return ad, &bd, nil
}

// Series returns S = Σ_{k=1..terms} A^(k-1) h^k / k!.
func Series(a mat.Matrix, h float64, terms int) *mat.Dense {
	n, _ := a.Dims()

	// term holds A^(k-1) h^k / k!, starting at k = 1: I·h.
	term := linalg.Identity(n)
	term.Scale(h, term)

	s := mat.DenseCopyOf(term)
	for k := 2; k <= terms; k++ {
		var next mat.Dense
		next.Mul(term, a)
		next.Scale(h/float64(k), &next)
		s.Add(s, &next)
		term = &next
	}
	return s
}
