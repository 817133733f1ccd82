// Package discretize converts continuous-time system matrices (A, B) into
// their discrete-time counterparts (Ad, Bd) for a fixed sample period.
//
// Each method is a [Discretizer] registered under a [Method] tag:
//
//   - [ZOH]: zero-order hold via a truncated matrix-exponential series
//   - [ForwardEuler]: first-order explicit Euler
//   - [Tustin], [Analytical], [Verlet]: recognized but not built; they
//     fail with [ErrNotImplemented]
//
// Unknown tags fail closed with [ErrUnknownMethod], which also matches
// [ErrNotImplemented] under errors.Is.
package discretize

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/ltikit/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

type Method string

const (
	ZOH          Method = "zoh"
	ForwardEuler Method = "FwdEuler"
	Tustin       Method = "Tustin"
	Analytical   Method = "Analytical"
	Verlet       Method = "Verlet"
)

var (
	// ErrNotImplemented indicates a recognized method with no implementation.
	ErrNotImplemented = errors.New("discretize: method not implemented")

	// ErrUnknownMethod indicates a tag that names no method at all.
	ErrUnknownMethod = fmt.Errorf("%w: unknown method", ErrNotImplemented)

	// ErrInvalidStep indicates a sample period that is not positive and finite.
	ErrInvalidStep = errors.New("discretize: sample period must be positive")
)

// Discretizer maps continuous (A, B) to discrete (Ad, Bd) for step h.
// Implementations never modify their inputs.
type Discretizer interface {
	Method() Method
	Discretize(a, b mat.Matrix, h float64) (ad, bd *mat.Dense, err error)
}

var registry = map[Method]func() Discretizer{
	ZOH:          func() Discretizer { return NewZeroOrderHold() },
	ForwardEuler: func() Discretizer { return NewForwardEuler() },
	Tustin:       func() Discretizer { return notImplemented{Tustin} },
	Analytical:   func() Discretizer { return notImplemented{Analytical} },
	Verlet:       func() Discretizer { return notImplemented{Verlet} },
}

// Lookup returns the discretizer registered for m.
func Lookup(m Method) (Discretizer, error) {
	fn, ok := registry[m]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, m)
	}
	return fn(), nil
}

// ParseMethod resolves a user supplied name, ignoring case.
func ParseMethod(name string) (Method, error) {
	for m := range registry {
		if strings.EqualFold(string(m), name) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// Methods lists every registered tag in sorted order.
func Methods() []Method {
	out := make([]Method, 0, len(registry))
	for m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Implemented reports whether m has a working discretizer.
func Implemented(m Method) bool {
	d, err := Lookup(m)
	if err != nil {
		return false
	}
	_, stub := d.(notImplemented)
	return !stub
}

func checkInputs(a, b mat.Matrix, h float64) (int, error) {
	if !(h > 0) || math.IsInf(h, 0) {
		return 0, fmt.Errorf("%w: got %g", ErrInvalidStep, h)
	}
	n, c := a.Dims()
	if n != c {
		return 0, fmt.Errorf("%w: A is %dx%d", linalg.ErrShape, n, c)
	}
	if r, _ := b.Dims(); r != n {
		return 0, fmt.Errorf("%w: B has %d rows, A has %d", linalg.ErrShape, r, n)
	}
	return n, nil
}
