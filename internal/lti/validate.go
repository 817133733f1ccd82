package lti

import "gonum.org/v1/gonum/mat"

// The checks below are the construction invariants, one per rule, so each
// can be exercised on its own.

// CheckSquare fails unless A is square and non-empty.
func CheckSquare(a mat.Matrix) error {
	r, c := a.Dims()
	if r == 0 || r != c {
		return dimensionError("A matrix not square (%dx%d)", r, c)
	}
	return nil
}

// CheckInputRows fails unless B has as many rows as A.
func CheckInputRows(a, b mat.Matrix) error {
	ra, _ := a.Dims()
	if rb, _ := b.Dims(); rb != ra {
		return dimensionError("B has %d rows, A has %d", rb, ra)
	}
	return nil
}

// CheckOutputColumns fails unless C has as many columns as A has rows.
func CheckOutputColumns(a, c mat.Matrix) error {
	ra, _ := a.Dims()
	if _, cc := c.Dims(); cc != ra {
		return dimensionError("C has %d columns, A has %d rows", cc, ra)
	}
	return nil
}

// CheckFeedthroughRows fails unless D has as many rows as C.
func CheckFeedthroughRows(c, d mat.Matrix) error {
	rc, _ := c.Dims()
	if rd, _ := d.Dims(); rd != rc {
		return dimensionError("D has %d rows, C has %d", rd, rc)
	}
	return nil
}

// CheckFeedthroughColumns fails unless D has one column per input in B.
func CheckFeedthroughColumns(b, d mat.Matrix) error {
	_, cb := b.Dims()
	if _, cd := d.Dims(); cd != cb {
		return dimensionError("D has %d columns, B has %d", cd, cb)
	}
	return nil
}

// CheckStateLength fails unless x has length n. A nil x passes.
func CheckStateLength(n int, x mat.Vector) error {
	if x == nil {
		return nil
	}
	if x.Len() != n {
		return dimensionError("state vector has length %d, system order is %d", x.Len(), n)
	}
	return nil
}

// ValidateDimensions runs every matrix check in order and returns the
// first failure.
func ValidateDimensions(a, b, c, d mat.Matrix) error {
	if err := CheckSquare(a); err != nil {
		return err
	}
	if err := CheckInputRows(a, b); err != nil {
		return err
	}
	if err := CheckOutputColumns(a, c); err != nil {
		return err
	}
	if err := CheckFeedthroughRows(c, d); err != nil {
		return err
	}
	return CheckFeedthroughColumns(b, d)
}
