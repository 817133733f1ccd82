package viz

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/ltikit/internal/analysis"
	"github.com/san-kum/ltikit/internal/discretize"
	"github.com/san-kum/ltikit/internal/linalg"
	"github.com/san-kum/ltikit/internal/lti"
	"github.com/san-kum/ltikit/internal/sim"
)

func companionSystem(t *testing.T) *lti.StateSpace {
	t.Helper()
	sys, err := lti.New(
		linalg.MustFromRows([][]float64{{0, 1, 0}, {0, 0, 1}, {1, -2, -3}}),
		linalg.MustFromRows([][]float64{{0}, {0}, {1}}),
		linalg.MustFromRows([][]float64{{0, 1, 0}, {0, 0, 1}}),
		linalg.Zeros(2, 1),
		lti.WithSamplePeriod(0.01),
	)
	if err != nil {
		t.Fatal(err)
	}
	return sys
}

func TestRenderModel(t *testing.T) {
	out := RenderModel("companion3", companionSystem(t))

	for _, want := range []string{"companion3", "(continuous)", "Ts=0.01s", "Ad:", "current state"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderReport(t *testing.T) {
	out := RenderReport("companion3", analysis.Analyze(companionSystem(t)))

	for _, want := range []string{"stable", "no", "rank 3", "den: [1 3 2 -1]", "num[0]: [0 1 0]", "num[1]: [1 0 0]", "Modes"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderReportTransferFunctionError(t *testing.T) {
	sys, err := lti.New(
		linalg.MustFromRows([][]float64{{-1, 0}, {0, -2}}),
		linalg.MustFromRows([][]float64{{1}, {1}}),
		linalg.MustFromRows([][]float64{{1, 0}}),
		linalg.Zeros(1, 1),
	)
	if err != nil {
		t.Fatal(err)
	}

	out := RenderReport("diag", analysis.Analyze(sys))
	if !strings.Contains(out, "companion") || strings.Contains(out, "den:") {
		t.Errorf("expected the extraction error instead of coefficients:\n%s", out)
	}
	if !strings.Contains(out, "none") {
		t.Errorf("expected no sample period:\n%s", out)
	}
}

func TestRenderMetrics(t *testing.T) {
	out := RenderMetrics(map[string]float64{"peak_output": 2, "control_effort": 0.5})
	ce := strings.Index(out, "control_effort")
	pk := strings.Index(out, "peak_output")
	if ce < 0 || pk < 0 || ce > pk {
		t.Errorf("expected metrics sorted by name:\n%s", out)
	}

	if !strings.Contains(RenderMetrics(nil), "no metrics") {
		t.Error("expected placeholder for empty metrics")
	}
}

func TestRenderComparison(t *testing.T) {
	out := RenderComparison([]sim.Comparison{
		{
			Method:  discretize.ZOH,
			Result:  &sim.Result{Outputs: []sim.Output{{0.5}, {0.75}}, StepsTaken: 2},
			Elapsed: 3 * time.Millisecond,
		},
		{Method: discretize.Tustin, Err: errors.New("tustin: not implemented")},
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	var zoh, tustin string
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "zoh"):
			zoh = l
		case strings.HasPrefix(l, "Tustin"):
			tustin = l
		}
	}
	if !strings.Contains(zoh, "0.75") || !strings.Contains(zoh, "3ms") {
		t.Errorf("unexpected zoh line %q", zoh)
	}
	if !strings.Contains(tustin, "not implemented") {
		t.Errorf("unexpected tustin line %q", tustin)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("retro").Name != "retro" {
		t.Error("expected retro theme")
	}
	if GetTheme("nope").Name != ThemeDefault.Name {
		t.Error("unknown theme should fall back to default")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names out of sync")
	}

	SetTheme("minimal")
	defer SetTheme("default")
	if CurrentTheme.Name != "minimal" {
		t.Errorf("expected minimal, got %s", CurrentTheme.Name)
	}
}

func TestSeparator(t *testing.T) {
	if Separator(0) != "" {
		t.Error("expected empty separator")
	}
	if !strings.Contains(Separator(4), "────") {
		t.Error("expected rule of width 4")
	}
}
