package lti

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/san-kum/ltikit/internal/discretize"
	"github.com/san-kum/ltikit/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// DefaultAliasingCoeff scales 1/max|λ| into the largest accepted sample period.
const DefaultAliasingCoeff = 0.1

// StateSpace is one LTI system, continuous with an optional discrete
// shadow or purely discrete.
type StateSpace struct {
	a, b, c, d     *mat.Dense
	ad, bd, cd, dd *mat.Dense

	identity     *mat.Dense
	eigenvalues  []complex128
	eigenvectors *mat.Dense

	order, inputs, outputs int
	discreteOnly           bool

	samplePeriod  float64
	hasPeriod     bool
	method        discretize.Method
	aliasingCoeff float64

	// stateNow is x[k], stateNext is x[k+1]. Step commits stateNext into
	// stateNow before writing the new stateNext.
	stateNow  *mat.VecDense
	stateNext *mat.VecDense
	outputNow *mat.VecDense

	tfDen []float64
	tfNum *mat.Dense

	log logr.Logger
}

type options struct {
	samplePeriod  float64
	hasPeriod     bool
	x0            mat.Vector
	discrete      bool
	method        discretize.Method
	aliasingCoeff float64
	log           logr.Logger
}

type Option func(*options)

// WithSamplePeriod sets the sample period in seconds. A continuous model is
// discretized immediately; zero is treated as "no period".
func WithSamplePeriod(ts float64) Option {
	return func(o *options) {
		o.samplePeriod = ts
		o.hasPeriod = true
	}
}

// WithInitialState seeds the state. Its length must equal the system order.
func WithInitialState(x0 mat.Vector) Option {
	return func(o *options) { o.x0 = x0 }
}

// Discrete marks A, B, C, D as already discrete. A sample period is required.
func Discrete() Option {
	return func(o *options) { o.discrete = true }
}

// WithMethod selects the discretization method used by Convert and Step.
func WithMethod(m discretize.Method) Option {
	return func(o *options) { o.method = m }
}

// WithAliasingCoeff overrides DefaultAliasingCoeff.
func WithAliasingCoeff(coeff float64) Option {
	return func(o *options) { o.aliasingCoeff = coeff }
}

// WithLogger routes the overwrite warning and debug output to log.
func WithLogger(log logr.Logger) Option {
	return func(o *options) { o.log = log }
}

// New validates the matrices and builds a model. Nothing is stored unless
// every check passes.
func New(a, b, c, d mat.Matrix, opts ...Option) (*StateSpace, error) {
	o := options{
		method:        discretize.ZOH,
		aliasingCoeff: DefaultAliasingCoeff,
		log:           logr.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if a == nil || b == nil || c == nil || d == nil {
		return nil, dimensionError("A, B, C and D are all required")
	}
	if err := ValidateDimensions(a, b, c, d); err != nil {
		return nil, err
	}

	n, _ := a.Dims()
	if err := CheckStateLength(n, o.x0); err != nil {
		return nil, fmt.Errorf("%w (initial state)", err)
	}
	if _, err := discretize.Lookup(o.method); err != nil {
		return nil, err
	}

	_, m := b.Dims()
	p, _ := c.Dims()

	s := &StateSpace{
		order:         n,
		inputs:        m,
		outputs:       p,
		method:        o.method,
		aliasingCoeff: o.aliasingCoeff,
		log:           o.log,
	}

	usable := o.hasPeriod && o.samplePeriod != 0

	if o.discrete {
		if !usable || !validPeriod(o.samplePeriod) {
			return nil, fmt.Errorf("%w: discrete matrices need a positive finite sample period", ErrSamplingRateRequired)
		}
		s.discreteOnly = true
		s.samplePeriod = o.samplePeriod
		s.hasPeriod = true
		s.ad = mat.DenseCopyOf(a)
		s.bd = mat.DenseCopyOf(b)
		s.cd = mat.DenseCopyOf(c)
		s.dd = mat.DenseCopyOf(d)
	} else {
		if err := s.initContinuous(a, b, c, d); err != nil {
			return nil, err
		}
		if usable {
			if err := s.Convert(o.samplePeriod); err != nil {
				return nil, err
			}
		}
	}

	s.initState(o.x0)
	s.log.V(1).Info("state-space model created",
		"order", n, "inputs", m, "outputs", p, "discreteOnly", s.discreteOnly)

	return s, nil
}

func (s *StateSpace) initContinuous(a, b, c, d mat.Matrix) error {
	values, vectors, err := linalg.Eigen(a)
	if err != nil {
		return fmt.Errorf("lti: eigendecomposition of A: %w", err)
	}

	s.a = mat.DenseCopyOf(a)
	s.b = mat.DenseCopyOf(b)
	s.c = mat.DenseCopyOf(c)
	s.d = mat.DenseCopyOf(d)
	s.eigenvalues = values
	s.eigenvectors = vectors
	s.identity = linalg.Identity(s.order)
	return nil
}

func (s *StateSpace) initState(x0 mat.Vector) {
	s.stateNow = mat.NewVecDense(s.order, nil)
	s.stateNext = mat.NewVecDense(s.order, nil)
	if x0 != nil {
		s.stateNext.CopyVec(x0)
	}
	s.outputNow = mat.NewVecDense(s.outputs, nil)
}

// Reset re-seeds the simulation state. A nil x0 resets to zero.
func (s *StateSpace) Reset(x0 mat.Vector) error {
	if err := CheckStateLength(s.order, x0); err != nil {
		return err
	}
	s.initState(x0)
	return nil
}

// Order is the state dimension n.
func (s *StateSpace) Order() int { return s.order }

// Inputs is the input dimension m.
func (s *StateSpace) Inputs() int { return s.inputs }

// Outputs is the output dimension p.
func (s *StateSpace) Outputs() int { return s.outputs }

// IsDiscreteOnly reports whether the model was built from discrete matrices.
func (s *StateSpace) IsDiscreteOnly() bool { return s.discreteOnly }

// SamplePeriod returns the current sample period, if any.
func (s *StateSpace) SamplePeriod() (float64, bool) { return s.samplePeriod, s.hasPeriod }

// Method is the discretization method used by Convert.
func (s *StateSpace) Method() discretize.Method { return s.method }

func copyOrNil(m *mat.Dense) *mat.Dense {
	if m == nil {
		return nil
	}
	return mat.DenseCopyOf(m)
}

func (s *StateSpace) A() *mat.Dense { return copyOrNil(s.a) }
func (s *StateSpace) B() *mat.Dense { return copyOrNil(s.b) }
func (s *StateSpace) C() *mat.Dense { return copyOrNil(s.c) }
func (s *StateSpace) D() *mat.Dense { return copyOrNil(s.d) }

func (s *StateSpace) Ad() *mat.Dense { return copyOrNil(s.ad) }
func (s *StateSpace) Bd() *mat.Dense { return copyOrNil(s.bd) }
func (s *StateSpace) Cd() *mat.Dense { return copyOrNil(s.cd) }
func (s *StateSpace) Dd() *mat.Dense { return copyOrNil(s.dd) }

// Eigenvalues of A. Nil for a purely discrete model.
func (s *StateSpace) Eigenvalues() []complex128 {
	if s.eigenvalues == nil {
		return nil
	}
	out := make([]complex128, len(s.eigenvalues))
	copy(out, s.eigenvalues)
	return out
}

// Eigenvectors of A, real parts, one per column. Nil for a purely
// discrete model.
func (s *StateSpace) Eigenvectors() *mat.Dense { return copyOrNil(s.eigenvectors) }

// State is x[k], the state committed by the last Step.
func (s *StateSpace) State() *mat.VecDense { return mat.VecDenseCopyOf(s.stateNow) }

// NextState is x[k+1], the state the next Step will commit.
func (s *StateSpace) NextState() *mat.VecDense { return mat.VecDenseCopyOf(s.stateNext) }

// Output is y[k] from the last Step.
func (s *StateSpace) Output() *mat.VecDense { return mat.VecDenseCopyOf(s.outputNow) }

// system returns the matrices the structural analysis runs on: the
// continuous ones when present, the discrete ones otherwise.
func (s *StateSpace) system() (a, b, c, d *mat.Dense) {
	if s.discreteOnly {
		return s.ad, s.bd, s.cd, s.dd
	}
	return s.a, s.b, s.c, s.d
}
