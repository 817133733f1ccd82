// Package linalg adapts gonum's dense matrices to the small set of
// operations the state-space model needs: construction, integer powers,
// rank, eigendecomposition, block concatenation and structural predicates.
package linalg

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// ErrShape indicates an operand whose dimensions do not fit the operation.
var ErrShape = errors.New("linalg: shape mismatch")

// ErrFactorization indicates a decomposition that gonum could not compute.
var ErrFactorization = errors.New("linalg: factorization failed")

var eps = math.Nextafter(1, 2) - 1

// Identity returns the n×n identity matrix.
func Identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Zeros returns an r×c zero matrix.
func Zeros(r, c int) *mat.Dense {
	return mat.NewDense(r, c, nil)
}

// FromRows builds a dense matrix from row slices. Every row must have the
// same non-zero length.
func FromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrShape)
	}
	c := len(rows[0])
	data := make([]float64, 0, len(rows)*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), c)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), c, data), nil
}

// MustFromRows is FromRows for literal matrices known to be well formed.
func MustFromRows(rows [][]float64) *mat.Dense {
	m, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// Power returns a^k for k >= 0. a^0 is the identity.
func Power(a mat.Matrix, k int) *mat.Dense {
	var p mat.Dense
	p.Pow(a, k)
	return &p
}

// Rank returns the numerical rank of m: the count of singular values above
// max(r, c) * eps relative to σmax.
func Rank(m mat.Matrix) int {
	r, c := m.Dims()
	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDNone) {
		return 0
	}
	return svd.Rank(float64(max(r, c)) * eps)
}

// HasRank reports whether m has exactly the given rank.
func HasRank(m mat.Matrix, rank int) bool {
	return Rank(m) == rank
}

// Eigen returns the eigenvalues of the square matrix a and the real part
// of its right eigenvectors, one per column.
func Eigen(a mat.Matrix) ([]complex128, *mat.Dense, error) {
	r, c := a.Dims()
	if r != c {
		return nil, nil, fmt.Errorf("%w: eigendecomposition of %dx%d matrix", ErrShape, r, c)
	}

	var eig mat.Eigen
	if !eig.Factorize(a, mat.EigenRight) {
		return nil, nil, ErrFactorization
	}

	values := eig.Values(nil)

	var cvec mat.CDense
	eig.VectorsTo(&cvec)

	vectors := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			vectors.Set(i, j, real(cvec.At(i, j)))
		}
	}
	return values, vectors, nil
}

// EigenValues returns only the eigenvalues of the square matrix a.
func EigenValues(a mat.Matrix) ([]complex128, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: eigenvalues of %dx%d matrix", ErrShape, r, c)
	}
	var eig mat.Eigen
	if !eig.Factorize(a, mat.EigenNone) {
		return nil, ErrFactorization
	}
	return eig.Values(nil), nil
}

// MaxAbs returns the largest magnitude among values, or 0 when empty.
func MaxAbs(values []complex128) float64 {
	m := 0.0
	for _, v := range values {
		m = math.Max(m, cmplx.Abs(v))
	}
	return m
}

// HConcat joins blocks left to right. All blocks must share a row count.
func HConcat(blocks ...mat.Matrix) (*mat.Dense, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: nothing to concatenate", ErrShape)
	}
	out := mat.DenseCopyOf(blocks[0])
	for _, b := range blocks[1:] {
		if r, _ := b.Dims(); r != out.RawMatrix().Rows {
			return nil, fmt.Errorf("%w: horizontal concat of %d and %d rows", ErrShape, out.RawMatrix().Rows, r)
		}
		var next mat.Dense
		next.Augment(out, b)
		out = &next
	}
	return out, nil
}

// VConcat stacks blocks top to bottom. All blocks must share a column count.
func VConcat(blocks ...mat.Matrix) (*mat.Dense, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: nothing to concatenate", ErrShape)
	}
	out := mat.DenseCopyOf(blocks[0])
	for _, b := range blocks[1:] {
		if _, c := b.Dims(); c != out.RawMatrix().Cols {
			return nil, fmt.Errorf("%w: vertical concat of %d and %d columns", ErrShape, out.RawMatrix().Cols, c)
		}
		var next mat.Dense
		next.Stack(out, b)
		out = &next
	}
	return out, nil
}

// SubUpperRight returns the split×split block in the top rows of m,
// aligned with its right edge: rows [0, split), columns [cols-split, cols).
// The split must lie in [1, cols-1] and fit within the row count.
func SubUpperRight(m mat.Matrix, split int) (*mat.Dense, error) {
	r, c := m.Dims()
	if split < 1 || split > c-1 || split > r {
		return nil, fmt.Errorf("%w: split %d outside [1, %d] for %dx%d matrix", ErrShape, split, c-1, r, c)
	}
	d := mat.DenseCopyOf(m)
	return mat.DenseCopyOf(d.Slice(0, split, c-split, c)), nil
}

// IsZero reports whether every entry of m is exactly zero.
func IsZero(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if m.At(i, j) != 0 {
				return false
			}
		}
	}
	return true
}

// IsIdentity reports whether the square matrix m equals the identity exactly.
func IsIdentity(m mat.Matrix) (bool, error) {
	r, c := m.Dims()
	if r != c {
		return false, fmt.Errorf("%w: %dx%d matrix is not square", ErrShape, r, c)
	}
	return mat.Equal(m, Identity(r)), nil
}

// Vec copies data into a new column vector.
func Vec(data []float64) *mat.VecDense {
	v := make([]float64, len(data))
	copy(v, data)
	return mat.NewVecDense(len(v), v)
}

// Slice copies the contents of v into a plain slice.
func Slice(v mat.Vector) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
