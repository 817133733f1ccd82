package lti

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Diagnostic dumps. Not part of the functional contract; meant for humans.

func writeMatrix(sb *strings.Builder, name string, m mat.Matrix) {
	fmt.Fprintf(sb, "%s:\n", name)
	if m == nil {
		sb.WriteString("  <none>\n\n")
		return
	}
	fmt.Fprintf(sb, "  %v\n\n", mat.Formatted(m, mat.Prefix("  "), mat.Squeeze()))
}

// FormatContinuous renders A, B, C, D.
func (s *StateSpace) FormatContinuous() string {
	var sb strings.Builder
	sb.WriteString("LTI state-space model (continuous)\n")
	if s.discreteOnly {
		sb.WriteString("  <discrete only>\n")
		return sb.String()
	}
	writeMatrix(&sb, "A", s.a)
	writeMatrix(&sb, "B", s.b)
	writeMatrix(&sb, "C", s.c)
	writeMatrix(&sb, "D", s.d)
	return sb.String()
}

// FormatDiscrete renders Ad, Bd, Cd, Dd with the sample period.
func (s *StateSpace) FormatDiscrete() string {
	var sb strings.Builder
	if !s.hasPeriod {
		sb.WriteString("LTI state-space model (discrete)\n  <not discretized>\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "LTI state-space model (discrete, Ts=%gs, %s)\n", s.samplePeriod, s.method)
	writeMatrix(&sb, "Ad", s.ad)
	writeMatrix(&sb, "Bd", s.bd)
	writeMatrix(&sb, "Cd", s.cd)
	writeMatrix(&sb, "Dd", s.dd)
	return sb.String()
}

// FormatState renders the current state and output.
func (s *StateSpace) FormatState() string {
	return fmt.Sprintf("current state: %v\ncurrent output: %v\n",
		mat.Formatted(s.stateNow.T(), mat.Squeeze()),
		mat.Formatted(s.outputNow.T(), mat.Squeeze()))
}

func (s *StateSpace) String() string {
	kind := "continuous"
	switch {
	case s.discreteOnly:
		kind = "discrete"
	case s.hasPeriod:
		kind = "continuous+discrete"
	}
	if s.hasPeriod {
		return fmt.Sprintf("StateSpace{n=%d m=%d p=%d %s Ts=%g}", s.order, s.inputs, s.outputs, kind, s.samplePeriod)
	}
	return fmt.Sprintf("StateSpace{n=%d m=%d p=%d %s}", s.order, s.inputs, s.outputs, kind)
}
