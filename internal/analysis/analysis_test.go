package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/san-kum/ltikit/internal/linalg"
	"github.com/san-kum/ltikit/internal/lti"
)

func newSystem(t *testing.T, a [][]float64) *lti.StateSpace {
	t.Helper()
	n := len(a)
	b := linalg.Zeros(n, 1)
	b.Set(n-1, 0, 1)
	c := linalg.Zeros(1, n)
	c.Set(0, 0, 1)

	sys, err := lti.New(linalg.MustFromRows(a), b, c, linalg.Zeros(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	return sys
}

func TestAnalyzeCompanionSystem(t *testing.T) {
	r := Analyze(newSystem(t, [][]float64{{0, 1}, {-2, -3}}))

	if r.Order != 2 || r.Inputs != 1 || r.Outputs != 1 {
		t.Errorf("unexpected dimensions %d/%d/%d", r.Order, r.Inputs, r.Outputs)
	}
	if !r.Stable || !r.Controllable || !r.Observable || !r.FirstCompanionForm {
		t.Errorf("expected stable, controllable, observable, companion: %+v", r)
	}
	if r.ControllableRank != 2 || r.ObservableRank != 2 {
		t.Errorf("expected full ranks, got %d and %d", r.ControllableRank, r.ObservableRank)
	}
	if r.TFError != nil {
		t.Fatalf("unexpected transfer function error: %v", r.TFError)
	}
	if diff := cmp.Diff([]float64{1, 3, 2}, r.Denominator); diff != "" {
		t.Errorf("denominator mismatch (-want +got):\n%s", diff)
	}
	if math.Abs(r.AliasingThreshold-0.05) > 1e-12 {
		t.Errorf("expected aliasing threshold 0.05, got %g", r.AliasingThreshold)
	}

	got := make([]float64, len(r.Modes))
	for i, m := range r.Modes {
		got[i] = m.TimeConstant
	}
	if diff := cmp.Diff([]float64{1, 0.5}, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("time constants mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeReportsTransferFunctionError(t *testing.T) {
	r := Analyze(newSystem(t, [][]float64{{1, 2}, {3, 4}}))
	if r.FirstCompanionForm {
		t.Error("did not expect companion form")
	}
	if r.Stable {
		t.Error("expected unstable")
	}
	if !errors.Is(r.TFError, lti.ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", r.TFError)
	}
	if r.Denominator != nil || r.Numerator != nil {
		t.Error("coefficients should be empty when extraction fails")
	}
}

func TestAnalyzeUncontrollable(t *testing.T) {
	sys, err := lti.New(
		linalg.MustFromRows([][]float64{{-1, 0}, {0, -2}}),
		linalg.MustFromRows([][]float64{{1}, {0}}),
		linalg.MustFromRows([][]float64{{1, 1}}),
		linalg.Zeros(1, 1),
	)
	if err != nil {
		t.Fatal(err)
	}

	r := Analyze(sys)
	if r.Controllable || r.ControllableRank != 1 {
		t.Errorf("expected rank 1 and uncontrollable, got %d", r.ControllableRank)
	}
	if !r.Observable {
		t.Error("expected observable")
	}
}

func TestModes(t *testing.T) {
	modes := Modes([]complex128{complex(-1, -2), complex(-1, 2), complex(-0.5, 0), 0})
	if len(modes) != 3 {
		t.Fatalf("expected conjugate pair reported once, got %d modes", len(modes))
	}

	if modes[0].Eigenvalue != 0 || modes[0].DampingRatio != 0 || !math.IsInf(modes[0].TimeConstant, 1) {
		t.Errorf("unexpected mode for λ=0: %+v", modes[0])
	}

	if modes[1].NaturalFrequency != 0.5 || modes[1].DampingRatio != 1 || modes[1].Oscillatory {
		t.Errorf("unexpected real mode: %+v", modes[1])
	}

	pair := modes[2]
	if !pair.Oscillatory || imag(pair.Eigenvalue) <= 0 {
		t.Errorf("expected the upper member of the pair, got %+v", pair)
	}
	if math.Abs(pair.NaturalFrequency-math.Sqrt(5)) > 1e-12 {
		t.Errorf("expected ωn = √5, got %g", pair.NaturalFrequency)
	}
	if math.Abs(pair.DampingRatio-1/math.Sqrt(5)) > 1e-12 {
		t.Errorf("expected ζ = 1/√5, got %g", pair.DampingRatio)
	}
	if pair.TimeConstant != 1 {
		t.Errorf("expected τ = 1, got %g", pair.TimeConstant)
	}
}

func TestPowerSpectrum(t *testing.T) {
	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for empty data")
	}

	ps := PowerSpectrum(make([]float64, 100))
	if len(ps) != 65 {
		t.Errorf("expected 65 bins for 100 samples padded to 128, got %d", len(ps))
	}
}

func TestDominantFrequency(t *testing.T) {
	const (
		n  = 256
		ts = 1.0 / 256
	)
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*5*float64(i)*ts)
	}

	freq, power := DominantFrequency(data, ts)
	if freq != 5 {
		t.Errorf("expected 5 Hz, got %g", freq)
	}
	if power <= 0 {
		t.Errorf("expected positive power, got %g", power)
	}

	if f, p := DominantFrequency([]float64{1}, ts); f != 0 || p != 0 {
		t.Error("expected zero for a single sample")
	}
	if f, _ := DominantFrequency(data, 0); f != 0 {
		t.Error("expected zero for a non-positive sample period")
	}
}

func TestGrowthRate(t *testing.T) {
	var states [][]float64
	var times []float64
	for k := 0; k < 50; k++ {
		tk := 0.1 * float64(k)
		times = append(times, tk)
		states = append(states, []float64{math.Exp(-2 * tk), 0})
	}

	if got := GrowthRate(states, times); math.Abs(got+2) > 1e-9 {
		t.Errorf("expected -2, got %g", got)
	}

	if got := GrowthRate([][]float64{{0}, {0}}, []float64{0, 1}); got != 0 {
		t.Errorf("expected 0 for an all-zero trace, got %g", got)
	}
}
