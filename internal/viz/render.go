package viz

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/ltikit/internal/analysis"
	"github.com/san-kum/ltikit/internal/lti"
	"github.com/san-kum/ltikit/internal/sim"
	"gonum.org/v1/gonum/mat"
)

// RenderModel shows the continuous and discrete matrices of sys next to each
// other, followed by the current state.
func RenderModel(name string, sys *lti.StateSpace) string {
	s := stylesFor(CurrentTheme)

	continuous := s.panel.Render(strings.TrimRight(sys.FormatContinuous(), "\n"))
	discrete := s.panel.Render(strings.TrimRight(sys.FormatDiscrete(), "\n"))

	return lipgloss.JoinVertical(lipgloss.Left,
		s.title.Render(name)+" "+s.muted.Render(sys.String()),
		lipgloss.JoinHorizontal(lipgloss.Top, continuous, " ", discrete),
		strings.TrimRight(sys.FormatState(), "\n"),
	)
}

func RenderReport(name string, r *analysis.Report) string {
	s := stylesFor(CurrentTheme)
	var b strings.Builder

	b.WriteString(s.title.Render(name))
	b.WriteString("\n")

	kind := "continuous"
	if r.DiscreteOnly {
		kind = "discrete only"
	}
	period := s.muted.Render("none")
	if r.HasPeriod {
		period = s.value.Render(fmt.Sprintf("%gs", r.SamplePeriod))
	}

	b.WriteString(s.rows([][2]string{
		{"kind", s.value.Render(kind)},
		{"order", s.value.Render(fmt.Sprintf("n=%d m=%d p=%d", r.Order, r.Inputs, r.Outputs))},
		{"sample period", period},
		{"aliasing limit", s.value.Render(formatThreshold(r))},
		{"stable", s.flag(r.Stable, "yes", "no")},
		{"controllable", s.flag(r.Controllable, "yes", "no") + s.muted.Render(fmt.Sprintf(" (rank %d)", r.ControllableRank))},
		{"observable", s.flag(r.Observable, "yes", "no") + s.muted.Render(fmt.Sprintf(" (rank %d)", r.ObservableRank))},
		{"companion form", s.flag(r.FirstCompanionForm, "yes", "no")},
	}))
	b.WriteString("\n\n")

	b.WriteString(s.section.Render("Eigenvalues"))
	b.WriteString("\n")
	for _, v := range r.Eigenvalues {
		b.WriteString("  " + formatComplex(v) + "\n")
	}

	if len(r.Modes) > 0 {
		b.WriteString("\n")
		b.WriteString(s.section.Render("Modes"))
		b.WriteString("\n")
		for _, m := range r.Modes {
			tau := "∞"
			if !math.IsInf(m.TimeConstant, 1) {
				tau = fmt.Sprintf("%.4gs", m.TimeConstant)
			}
			fmt.Fprintf(&b, "  %-22s ωn=%-10.4g ζ=%-8.3g τ=%s\n", formatComplex(m.Eigenvalue), m.NaturalFrequency, m.DampingRatio, tau)
		}
	}

	b.WriteString("\n")
	b.WriteString(s.section.Render("Transfer function"))
	b.WriteString("\n")
	if r.TFError != nil {
		b.WriteString("  " + s.warn.Render(r.TFError.Error()) + "\n")
	} else {
		b.WriteString("  den: " + formatPoly(r.Denominator) + "\n")
		rows, _ := r.Numerator.Dims()
		for i := 0; i < rows; i++ {
			fmt.Fprintf(&b, "  num[%d]: %s\n", i, formatPoly(mat.Row(nil, i, r.Numerator)))
		}
	}

	return b.String()
}

// RenderMetrics lists metrics sorted by name.
func RenderMetrics(metrics map[string]float64) string {
	s := stylesFor(CurrentTheme)
	if len(metrics) == 0 {
		return s.muted.Render("no metrics")
	}

	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([][2]string, len(names))
	for i, name := range names {
		pairs[i] = [2]string{name, s.value.Render(fmt.Sprintf("%.6g", metrics[name]))}
	}
	return s.rows(pairs)
}

// RenderComparison shows one line per discretization method: final output,
// steps taken and wall time, or the error the method failed with.
func RenderComparison(results []sim.Comparison) string {
	s := stylesFor(CurrentTheme)
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", s.section.Render(fmt.Sprintf("%-10s %8s %14s %12s", "METHOD", "STEPS", "FINAL y0", "ELAPSED")))
	for _, c := range results {
		name := fmt.Sprintf("%-10s", c.Method)
		if c.Err != nil {
			fmt.Fprintf(&b, "%s %s\n", name, s.bad.Render(c.Err.Error()))
			continue
		}

		final := 0.0
		if n := len(c.Result.Outputs); n > 0 && len(c.Result.Outputs[n-1]) > 0 {
			final = c.Result.Outputs[n-1][0]
		}
		fmt.Fprintf(&b, "%s %8d %14.6g %12s\n", name, c.Result.StepsTaken, final, c.Elapsed.Round(time.Microsecond))
	}
	return b.String()
}

func formatThreshold(r *analysis.Report) string {
	if r.DiscreteOnly {
		return "n/a"
	}
	if math.IsInf(r.AliasingThreshold, 1) {
		return "unbounded"
	}
	return fmt.Sprintf("Ts < %.4gs", r.AliasingThreshold)
}

func formatComplex(v complex128) string {
	if math.Abs(imag(v)) < 1e-12 {
		return fmt.Sprintf("%.6g", real(v))
	}
	sign := "+"
	if imag(v) < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%.6g %s %.6gj  (|λ|=%.4g)", real(v), sign, math.Abs(imag(v)), cmplx.Abs(v))
}

// formatPoly renders coefficients highest power first.
func formatPoly(coeffs []float64) string {
	parts := make([]string, len(coeffs))
	for i, c := range coeffs {
		parts[i] = fmt.Sprintf("%.6g", c)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
