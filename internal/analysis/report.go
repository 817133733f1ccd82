package analysis

import (
	"github.com/san-kum/ltikit/internal/linalg"
	"github.com/san-kum/ltikit/internal/lti"
	"gonum.org/v1/gonum/mat"
)

type Report struct {
	Order   int
	Inputs  int
	Outputs int

	DiscreteOnly bool
	SamplePeriod float64
	HasPeriod    bool

	Eigenvalues       []complex128
	Modes             []Mode
	AliasingThreshold float64

	Stable             bool
	Controllable       bool
	ControllableRank   int
	Observable         bool
	ObservableRank     int
	FirstCompanionForm bool

	// Denominator and Numerator are set when the model is in first
	// companion form with one input; TFError says why otherwise.
	Denominator []float64
	Numerator   *mat.Dense
	TFError     error
}

// Analyze runs every structural check on sys. Extracting the transfer
// function stores the coefficients on sys as a side effect.
func Analyze(sys *lti.StateSpace) *Report {
	r := &Report{
		Order:        sys.Order(),
		Inputs:       sys.Inputs(),
		Outputs:      sys.Outputs(),
		DiscreteOnly: sys.IsDiscreteOnly(),
		Eigenvalues:  sys.Eigenvalues(),

		Stable:             sys.IsStable(),
		ControllableRank:   linalg.Rank(sys.ControllabilityMatrix()),
		ObservableRank:     linalg.Rank(sys.ObservabilityMatrix()),
		FirstCompanionForm: sys.IsFirstCompanionForm(),
	}
	r.SamplePeriod, r.HasPeriod = sys.SamplePeriod()
	r.Controllable = r.ControllableRank == r.Order
	r.Observable = r.ObservableRank == r.Order

	if !r.DiscreteOnly {
		r.Modes = Modes(r.Eigenvalues)
		r.AliasingThreshold = sys.AliasingThreshold()
	}

	tf, err := sys.TransferFunction()
	if err != nil {
		r.TFError = err
	} else {
		r.Denominator = tf.Denominator
		r.Numerator = tf.Numerator
	}

	return r
}
