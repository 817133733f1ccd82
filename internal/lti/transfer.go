package lti

import "gonum.org/v1/gonum/mat"

// TransferFunction holds the coefficients read off a first companion form
// realization, highest power of s first:
//
//	G_i(s) = (N[i,0] s^(n-1) + … + N[i,n-1]) / (s^n + a[1] s^(n-1) + … + a[n])
//
// The direct feedthrough term D is folded into the numerator through a.
type TransferFunction struct {
	Denominator []float64
	Numerator   *mat.Dense
}

// TransferFunction extracts the coefficients of a single-input model in
// first companion form and stores them on the model. It fails with
// ErrInvalidDimensions otherwise and leaves any earlier result in place.
func (s *StateSpace) TransferFunction() (*TransferFunction, error) {
	if !s.IsFirstCompanionForm() {
		return nil, dimensionError("system not in first companion form, cannot read transfer function coefficients")
	}
	if s.inputs != 1 {
		return nil, dimensionError("transfer function extraction supports single-input systems only, got %d inputs", s.inputs)
	}

	a, _, c, d := s.system()
	den := denominatorCoeffs(a)
	num := numeratorCoeffs(c, d, den)

	s.tfDen = den
	s.tfNum = num

	return &TransferFunction{
		Denominator: append([]float64(nil), den...),
		Numerator:   mat.DenseCopyOf(num),
	}, nil
}

// TFCoefficients returns the coefficients stored by the last successful
// TransferFunction call. ok is false before any extraction.
func (s *StateSpace) TFCoefficients() (den []float64, num *mat.Dense, ok bool) {
	if s.tfDen == nil {
		return nil, nil, false
	}
	return append([]float64(nil), s.tfDen...), mat.DenseCopyOf(s.tfNum), true
}

// denominatorCoeffs reads the last row of A reversed and negated:
// a[0] = 1, a[i] = -A[n-1, n-i].
func denominatorCoeffs(a mat.Matrix) []float64 {
	n, _ := a.Dims()
	coeffs := make([]float64, n+1)
	coeffs[0] = 1
	for i := 1; i <= n; i++ {
		coeffs[i] = -a.At(n-1, n-i)
	}
	return coeffs
}

// numeratorCoeffs computes N[i,j] = C[i, n-j-1] + a[j+1]·D[i,0].
func numeratorCoeffs(c, d mat.Matrix, den []float64) *mat.Dense {
	p, n := c.Dims()
	num := mat.NewDense(p, n, nil)
	for i := 0; i < p; i++ {
		for j := 0; j < n; j++ {
			num.Set(i, j, c.At(i, n-j-1)+den[j+1]*d.At(i, 0))
		}
	}
	return num
}
