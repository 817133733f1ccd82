package lti

import (
	"math"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/ltikit/internal/discretize"
	"github.com/san-kum/ltikit/internal/linalg"
)

func rowsOf(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

func capturingLogger(lines *[]string) logr.Logger {
	return funcr.New(func(prefix, args string) {
		*lines = append(*lines, args)
	}, funcr.Options{})
}

var (
	msdA = linalg.MustFromRows([][]float64{{0, 1}, {-2, -3}})
	msdB = linalg.MustFromRows([][]float64{{0}, {1}})
	msdC = linalg.MustFromRows([][]float64{{1, 0}})
	msdD = linalg.MustFromRows([][]float64{{0}})
)

var _ = Describe("New", func() {
	Context("with mismatched shapes", func() {
		DescribeTable("fails with ErrInvalidDimensions",
			func(a, b, c, d *mat.Dense) {
				_, err := New(a, b, c, d)
				Expect(err).To(MatchError(ErrInvalidDimensions))
			},
			Entry("A not square", linalg.Zeros(2, 3), msdB, msdC, msdD),
			Entry("B rows differ from A", msdA, linalg.Zeros(3, 1), msdC, msdD),
			Entry("C columns differ from A", msdA, msdB, linalg.Zeros(1, 3), msdD),
			Entry("D rows differ from C", msdA, msdB, msdC, linalg.Zeros(2, 1)),
			Entry("D columns differ from B", msdA, msdB, msdC, linalg.Zeros(1, 2)),
		)

		It("rejects an initial state of the wrong length", func() {
			_, err := New(msdA, msdB, msdC, msdD, WithInitialState(mat.NewVecDense(3, nil)))
			Expect(err).To(MatchError(ErrInvalidDimensions))
		})

		It("rejects missing matrices", func() {
			_, err := New(msdA, nil, msdC, msdD)
			Expect(err).To(MatchError(ErrInvalidDimensions))
		})
	})

	Context("with matching shapes", func() {
		It("builds a continuous model with eigenstructure", func() {
			sys, err := New(msdA, msdB, msdC, msdD)
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.Order()).To(Equal(2))
			Expect(sys.Inputs()).To(Equal(1))
			Expect(sys.Outputs()).To(Equal(1))
			Expect(sys.IsDiscreteOnly()).To(BeFalse())
			Expect(sys.Eigenvalues()).To(HaveLen(2))
			Expect(sys.Eigenvectors()).NotTo(BeNil())
			Expect(sys.Ad()).To(BeNil())

			_, ok := sys.SamplePeriod()
			Expect(ok).To(BeFalse())
		})

		It("starts from the zero state by default", func() {
			sys, err := New(msdA, msdB, msdC, msdD)
			Expect(err).NotTo(HaveOccurred())
			Expect(linalg.Slice(sys.NextState())).To(Equal([]float64{0, 0}))
			Expect(linalg.Slice(sys.State())).To(Equal([]float64{0, 0}))
		})

		It("copies its inputs", func() {
			a := mat.DenseCopyOf(msdA)
			sys, err := New(a, msdB, msdC, msdD)
			Expect(err).NotTo(HaveOccurred())
			a.Set(0, 0, 42)
			Expect(sys.A().At(0, 0)).To(Equal(0.0))
		})

		It("discretizes immediately when given a sample period", func() {
			sys, err := New(msdA, msdB, msdC, msdD, WithSamplePeriod(0.01))
			Expect(err).NotTo(HaveOccurred())
			ts, ok := sys.SamplePeriod()
			Expect(ok).To(BeTrue())
			Expect(ts).To(Equal(0.01))
			Expect(sys.Ad()).NotTo(BeNil())
			Expect(mat.Equal(sys.Cd(), msdC)).To(BeTrue())
			Expect(mat.Equal(sys.Dd(), msdD)).To(BeTrue())
		})

		It("treats a zero sample period as none", func() {
			sys, err := New(msdA, msdB, msdC, msdD, WithSamplePeriod(0))
			Expect(err).NotTo(HaveOccurred())
			_, ok := sys.SamplePeriod()
			Expect(ok).To(BeFalse())
		})

		It("rejects an unknown method up front", func() {
			_, err := New(msdA, msdB, msdC, msdD, WithMethod("bogus"))
			Expect(err).To(MatchError(ErrNotImplemented))
		})
	})

	Context("with discrete matrices", func() {
		ad := linalg.MustFromRows([][]float64{{0.5, 0}, {0, 0.9}})

		It("stores them as the discrete model without eigenstructure", func() {
			sys, err := New(ad, msdB, msdC, msdD, Discrete(), WithSamplePeriod(0.1))
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.IsDiscreteOnly()).To(BeTrue())
			Expect(sys.Eigenvalues()).To(BeNil())
			Expect(sys.A()).To(BeNil())
			Expect(mat.Equal(sys.Ad(), ad)).To(BeTrue())
		})

		It("requires a sample period", func() {
			_, err := New(ad, msdB, msdC, msdD, Discrete())
			Expect(err).To(MatchError(ErrSamplingRateRequired))

			_, err = New(ad, msdB, msdC, msdD, Discrete(), WithSamplePeriod(0))
			Expect(err).To(MatchError(ErrSamplingRateRequired))

			_, err = New(ad, msdB, msdC, msdD, Discrete(), WithSamplePeriod(-1))
			Expect(err).To(MatchError(ErrSamplingRateRequired))
		})

		It("refuses to re-discretize with a different period", func() {
			sys, err := New(ad, msdB, msdC, msdD, Discrete(), WithSamplePeriod(0.1))
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.Convert(0.1)).To(Succeed())
			Expect(sys.Convert(0.2)).To(MatchError(ErrNoContinuousModel))
		})

		It("tests stability on the unit disc", func() {
			stable, err := New(ad, msdB, msdC, msdD, Discrete(), WithSamplePeriod(0.1))
			Expect(err).NotTo(HaveOccurred())
			Expect(stable.IsStable()).To(BeTrue())

			grow := linalg.MustFromRows([][]float64{{1.2, 0}, {0, 0.5}})
			unstable, err := New(grow, msdB, msdC, msdD, Discrete(), WithSamplePeriod(0.1))
			Expect(err).NotTo(HaveOccurred())
			Expect(unstable.IsStable()).To(BeFalse())
		})
	})
})

var _ = Describe("Convert", func() {
	var (
		sys   *StateSpace
		lines []string
	)

	BeforeEach(func() {
		lines = nil
		var err error
		sys, err = New(msdA, msdB, msdC, msdD, WithLogger(capturingLogger(&lines)))
		Expect(err).NotTo(HaveOccurred())
	})

	It("requires a positive sample period", func() {
		Expect(sys.Convert(0)).To(MatchError(ErrSamplingRateRequired))
		Expect(sys.Convert(-0.1)).To(MatchError(ErrSamplingRateRequired))
	})

	It("rejects NaN and infinite sample periods without touching the model", func() {
		for _, ts := range []float64{math.NaN(), math.Inf(1)} {
			Expect(sys.Convert(ts)).To(MatchError(ErrSamplingRateRequired))
		}
		_, ok := sys.SamplePeriod()
		Expect(ok).To(BeFalse())
		Expect(sys.Ad()).To(BeNil())

		_, err := New(msdA, msdB, msdC, msdD, WithSamplePeriod(math.NaN()))
		Expect(err).To(MatchError(ErrSamplingRateRequired))
		_, err = New(msdA, msdB, msdC, msdD, Discrete(), WithSamplePeriod(math.NaN()))
		Expect(err).To(MatchError(ErrSamplingRateRequired))
	})

	It("rejects sample periods at or above the aliasing threshold", func() {
		threshold := sys.AliasingThreshold()
		Expect(threshold).To(BeNumerically("~", 0.05, 1e-12))

		Expect(sys.Convert(threshold)).To(MatchError(ErrAliasing))
		Expect(sys.Convert(threshold * 2)).To(MatchError(ErrAliasing))
		Expect(sys.Convert(threshold * 0.99)).To(Succeed())
	})

	It("honours a custom aliasing coefficient", func() {
		loose, err := New(msdA, msdB, msdC, msdD, WithAliasingCoeff(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(loose.AliasingThreshold()).To(BeNumerically("~", 0.5, 1e-12))
		Expect(loose.Convert(0.2)).To(Succeed())
	})

	It("accepts any period for a system with only zero eigenvalues", func() {
		di, err := New(
			linalg.MustFromRows([][]float64{{0, 1}, {0, 0}}),
			msdB, msdC, msdD,
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(di.Convert(10)).To(Succeed())
	})

	It("uses zero-order hold by default", func() {
		Expect(sys.Convert(0.01)).To(Succeed())
		Expect(sys.Method()).To(Equal(discretize.ZOH))

		ad, bd, err := discretize.NewZeroOrderHold().Discretize(msdA, msdB, 0.01)
		Expect(err).NotTo(HaveOccurred())
		Expect(mat.EqualApprox(sys.Ad(), ad, 1e-15)).To(BeTrue())
		Expect(mat.EqualApprox(sys.Bd(), bd, 1e-15)).To(BeTrue())
	})

	It("switches to forward Euler on request", func() {
		Expect(sys.ConvertWith(0.01, discretize.ForwardEuler)).To(Succeed())
		Expect(sys.Method()).To(Equal(discretize.ForwardEuler))
		want := linalg.MustFromRows([][]float64{{1, 0.01}, {-0.02, 0.97}})
		Expect(mat.EqualApprox(sys.Ad(), want, 1e-15)).To(BeTrue())
	})

	It("agrees with forward Euler as the period shrinks", func() {
		h := 1e-4
		Expect(sys.ConvertWith(h, discretize.ZOH)).To(Succeed())
		zoh := sys.Ad()
		Expect(sys.ConvertWith(h, discretize.ForwardEuler)).To(Succeed())
		euler := sys.Ad()
		Expect(mat.EqualApprox(zoh, euler, 10*h*h)).To(BeTrue())
	})

	It("fails closed for unimplemented methods without touching the model", func() {
		Expect(sys.Convert(0.01)).To(Succeed())
		before := sys.Ad()

		for _, m := range []discretize.Method{discretize.Tustin, discretize.Analytical, discretize.Verlet, "bogus"} {
			Expect(sys.ConvertWith(0.02, m)).To(MatchError(ErrNotImplemented))
		}

		ts, _ := sys.SamplePeriod()
		Expect(ts).To(Equal(0.01))
		Expect(sys.Method()).To(Equal(discretize.ZOH))
		Expect(mat.Equal(sys.Ad(), before)).To(BeTrue())
	})

	It("warns when replacing an existing sample period", func() {
		Expect(sys.Convert(0.01)).To(Succeed())
		Expect(lines).To(BeEmpty())

		Expect(sys.Convert(0.02)).To(Succeed())
		Expect(lines).To(HaveLen(1))
		Expect(lines[0]).To(ContainSubstring("overwriting sample period"))

		ts, _ := sys.SamplePeriod()
		Expect(ts).To(Equal(0.02))
	})

	It("is a silent no-op for identical inputs", func() {
		Expect(sys.Convert(0.01)).To(Succeed())
		first := sys.Ad()
		Expect(sys.Convert(0.01)).To(Succeed())
		Expect(lines).To(BeEmpty())
		Expect(mat.Equal(sys.Ad(), first)).To(BeTrue())
	})

	It("does not warn when a conversion is rejected", func() {
		Expect(sys.Convert(0.01)).To(Succeed())
		Expect(sys.Convert(1)).To(MatchError(ErrAliasing))
		Expect(lines).To(BeEmpty())
	})
})

var _ = Describe("Structural analysis", func() {
	diagA := linalg.MustFromRows([][]float64{{-1, 0}, {0, -2}})

	It("builds R = [B, AB]", func() {
		sys, err := New(msdA, msdB, msdC, msdD)
		Expect(err).NotTo(HaveOccurred())
		Expect(rowsOf(sys.ControllabilityMatrix())).To(Equal([][]float64{{0, 1}, {1, -3}}))
	})

	It("builds W = [C; CA]", func() {
		sys, err := New(msdA, msdB, msdC, msdD)
		Expect(err).NotTo(HaveOccurred())
		Expect(rowsOf(sys.ObservabilityMatrix())).To(Equal([][]float64{{1, 0}, {0, 1}}))
	})

	DescribeTable("rank tests agree with the boolean predicates",
		func(a, b, c *mat.Dense, controllable, observable bool) {
			_, m := b.Dims()
			p, _ := c.Dims()
			sys, err := New(a, b, c, linalg.Zeros(p, m))
			Expect(err).NotTo(HaveOccurred())

			Expect(sys.IsControllable()).To(Equal(controllable))
			Expect(linalg.Rank(sys.ControllabilityMatrix()) == sys.Order()).To(Equal(sys.IsControllable()))

			Expect(sys.IsObservable()).To(Equal(observable))
			Expect(linalg.Rank(sys.ObservabilityMatrix()) == sys.Order()).To(Equal(sys.IsObservable()))
		},
		Entry("mass-spring-damper", msdA, msdB, msdC, true, true),
		Entry("decoupled, input on one mode", diagA, linalg.MustFromRows([][]float64{{1}, {0}}), linalg.MustFromRows([][]float64{{1, 1}}), false, true),
		Entry("decoupled, output on one mode", diagA, linalg.MustFromRows([][]float64{{1}, {1}}), linalg.MustFromRows([][]float64{{0, 1}}), true, false),
		Entry("two inputs, two outputs", diagA, linalg.Identity(2), linalg.Identity(2), true, true),
	)

	It("reports stability from eigenvalue real parts", func() {
		stable, err := New(msdA, msdB, msdC, msdD)
		Expect(err).NotTo(HaveOccurred())
		Expect(stable.IsStable()).To(BeTrue())

		unstable, err := New(linalg.MustFromRows([][]float64{{0, 1}, {2, -1}}), msdB, msdC, msdD)
		Expect(err).NotTo(HaveOccurred())
		Expect(unstable.IsStable()).To(BeFalse())

		marginal, err := New(linalg.MustFromRows([][]float64{{0, 1}, {0, -1}}), msdB, msdC, msdD)
		Expect(err).NotTo(HaveOccurred())
		Expect(marginal.IsStable()).To(BeTrue())
	})

	Context("first companion form", func() {
		It("accepts the canonical layout", func() {
			sys, err := New(msdA, msdB, msdC, msdD)
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.IsFirstCompanionForm()).To(BeTrue())
		})

		It("rejects an arbitrary A", func() {
			sys, err := New(linalg.MustFromRows([][]float64{{1, 2}, {3, 4}}), msdB, msdC, msdD)
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.IsFirstCompanionForm()).To(BeFalse())
		})

		It("rejects a non-identity superdiagonal block", func() {
			a := linalg.MustFromRows([][]float64{{0, 2, 0}, {0, 0, 1}, {-1, -2, -3}})
			sys, err := New(a, linalg.MustFromRows([][]float64{{0}, {0}, {1}}), linalg.MustFromRows([][]float64{{1, 0, 0}}), msdD)
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.IsFirstCompanionForm()).To(BeFalse())
		})

		It("rejects input entering above the last state", func() {
			sys, err := New(msdA, linalg.MustFromRows([][]float64{{1}, {1}}), msdC, msdD)
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.IsFirstCompanionForm()).To(BeFalse())
		})

		It("holds trivially for a first-order system", func() {
			one := linalg.MustFromRows([][]float64{{-4}})
			sys, err := New(one, one, one, one)
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.IsFirstCompanionForm()).To(BeTrue())
		})
	})
})

var _ = Describe("TransferFunction", func() {
	It("is undefined before extraction", func() {
		sys, err := New(msdA, msdB, msdC, msdD)
		Expect(err).NotTo(HaveOccurred())
		_, _, ok := sys.TFCoefficients()
		Expect(ok).To(BeFalse())
	})

	It("folds the feedthrough term into the numerator", func() {
		sys, err := New(msdA, msdB, msdC, linalg.MustFromRows([][]float64{{0.1}}))
		Expect(err).NotTo(HaveOccurred())

		tf, err := sys.TransferFunction()
		Expect(err).NotTo(HaveOccurred())
		Expect(tf.Denominator).To(Equal([]float64{1, 3, 2}))
		Expect(tf.Numerator.At(0, 0)).To(BeNumerically("~", 0.3, 1e-15))
		Expect(tf.Numerator.At(0, 1)).To(BeNumerically("~", 1.2, 1e-15))

		den, num, ok := sys.TFCoefficients()
		Expect(ok).To(BeTrue())
		Expect(den).To(Equal(tf.Denominator))
		Expect(mat.Equal(num, tf.Numerator)).To(BeTrue())
	})

	It("rejects a model outside first companion form", func() {
		sys, err := New(linalg.MustFromRows([][]float64{{1, 2}, {3, 4}}), msdB, msdC, msdD)
		Expect(err).NotTo(HaveOccurred())
		_, err = sys.TransferFunction()
		Expect(err).To(MatchError(ErrInvalidDimensions))
		_, _, ok := sys.TFCoefficients()
		Expect(ok).To(BeFalse())
	})

	It("rejects multiple inputs", func() {
		b := linalg.MustFromRows([][]float64{{0, 0}, {1, 1}})
		sys, err := New(msdA, b, msdC, linalg.Zeros(1, 2))
		Expect(err).NotTo(HaveOccurred())
		Expect(sys.IsFirstCompanionForm()).To(BeTrue())
		_, err = sys.TransferFunction()
		Expect(err).To(MatchError(ErrInvalidDimensions))
	})
})

var _ = Describe("Step", func() {
	ad := linalg.MustFromRows([][]float64{{1, 0.1}, {0, 1}})
	bd := linalg.MustFromRows([][]float64{{0.005}, {0.1}})
	u := mat.NewVecDense(1, []float64{1})

	newDiscrete := func() *StateSpace {
		sys, err := New(ad, bd, msdC, msdD, Discrete(), WithSamplePeriod(0.1),
			WithInitialState(mat.NewVecDense(2, []float64{1, 0})))
		Expect(err).NotTo(HaveOccurred())
		return sys
	}

	It("commits the next state and applies the recurrence", func() {
		sys := newDiscrete()

		y, err := sys.Step(u)
		Expect(err).NotTo(HaveOccurred())
		Expect(linalg.Slice(y)).To(Equal([]float64{1}))
		Expect(linalg.Slice(sys.State())).To(Equal([]float64{1, 0}))
		Expect(linalg.Slice(sys.NextState())[0]).To(BeNumerically("~", 1.005, 1e-15))
		Expect(linalg.Slice(sys.NextState())[1]).To(BeNumerically("~", 0.1, 1e-15))

		y, err = sys.Step(u)
		Expect(err).NotTo(HaveOccurred())
		Expect(y.AtVec(0)).To(BeNumerically("~", 1.005, 1e-15))
		Expect(sys.NextState().AtVec(0)).To(BeNumerically("~", 1.02, 1e-15))
		Expect(sys.NextState().AtVec(1)).To(BeNumerically("~", 0.2, 1e-15))
		Expect(linalg.Slice(sys.Output())).To(Equal(linalg.Slice(y)))
	})

	It("rejects an input of the wrong length without moving", func() {
		sys := newDiscrete()
		_, err := sys.Step(mat.NewVecDense(2, nil))
		Expect(err).To(MatchError(ErrInvalidDimensions))
		_, err = sys.Step(nil)
		Expect(err).To(MatchError(ErrInvalidDimensions))
		Expect(linalg.Slice(sys.NextState())).To(Equal([]float64{1, 0}))
	})

	It("needs a sample period", func() {
		sys, err := New(msdA, msdB, msdC, msdD)
		Expect(err).NotTo(HaveOccurred())
		_, err = sys.Step(u)
		Expect(err).To(MatchError(ErrSamplingRateRequired))
	})

	It("discretizes on demand when a period is supplied", func() {
		sys, err := New(msdA, msdB, msdC, msdD)
		Expect(err).NotTo(HaveOccurred())
		_, err = sys.StepAt(u, 0.01)
		Expect(err).NotTo(HaveOccurred())
		ts, ok := sys.SamplePeriod()
		Expect(ok).To(BeTrue())
		Expect(ts).To(Equal(0.01))

		_, err = sys.StepAt(u, 0.02)
		Expect(err).NotTo(HaveOccurred())
		ts, _ = sys.SamplePeriod()
		Expect(ts).To(Equal(0.02))
	})

	It("propagates aliasing errors from on-demand discretization", func() {
		sys, err := New(msdA, msdB, msdC, msdD)
		Expect(err).NotTo(HaveOccurred())
		_, err = sys.StepAt(u, 1)
		Expect(err).To(MatchError(ErrAliasing))
	})

	It("resets to a fresh initial state", func() {
		sys := newDiscrete()
		_, err := sys.Step(u)
		Expect(err).NotTo(HaveOccurred())

		Expect(sys.Reset(nil)).To(Succeed())
		Expect(linalg.Slice(sys.NextState())).To(Equal([]float64{0, 0}))
		Expect(linalg.Slice(sys.Output())).To(Equal([]float64{0}))

		Expect(sys.Reset(mat.NewVecDense(3, nil))).To(MatchError(ErrInvalidDimensions))
	})
})

var _ = Describe("Diagnostic dumps", func() {
	It("renders each view", func() {
		sys, err := New(msdA, msdB, msdC, msdD)
		Expect(err).NotTo(HaveOccurred())

		Expect(sys.FormatContinuous()).To(ContainSubstring("A:"))
		Expect(sys.FormatDiscrete()).To(ContainSubstring("<not discretized>"))
		Expect(sys.String()).To(Equal("StateSpace{n=2 m=1 p=1 continuous}"))

		Expect(sys.Convert(0.01)).To(Succeed())
		Expect(sys.FormatDiscrete()).To(ContainSubstring("Ad:"))
		Expect(sys.FormatState()).To(HavePrefix("current state:"))
		Expect(strings.Contains(sys.String(), "Ts=0.01")).To(BeTrue())
	})
})
