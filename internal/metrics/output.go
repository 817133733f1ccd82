package metrics

import "github.com/san-kum/ltikit/internal/sim"

// quadrature integrates a non-negative per-sample quantity over time with
// the left rectangle rule, so a zero-order-held signal is integrated exactly.
type quadrature struct {
	total  float64
	prev   float64
	prevT  float64
	primed bool
}

func (q *quadrature) add(v, t float64) {
	if q.primed {
		q.total += q.prev * (t - q.prevT)
	}
	q.primed = true
	q.prev = v
	q.prevT = t
}

func (q *quadrature) reset() { *q = quadrature{} }

func squaredNorm(v []float64) float64 {
	sq := 0.0
	for _, x := range v {
		sq += x * x
	}
	return sq
}

// OutputEnergy approximates ∫ yᵀy dt over the run.
type OutputEnergy struct {
	name string
	q    quadrature
}

func NewOutputEnergy() *OutputEnergy {
	return &OutputEnergy{name: "output_energy"}
}

func (e *OutputEnergy) Name() string { return e.name }

func (e *OutputEnergy) Observe(x sim.State, u sim.Input, y sim.Output, t float64) {
	e.q.add(squaredNorm(y), t)
}

func (e *OutputEnergy) Value() float64 { return e.q.total }

func (e *OutputEnergy) Reset() { e.q.reset() }

// ControlEffort approximates ∫ uᵀu dt, the input term of a quadratic cost
// with R = I. The input is held over each sample period.
type ControlEffort struct {
	name string
	q    quadrature
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{name: "control_effort"}
}

func (c *ControlEffort) Name() string { return c.name }

func (c *ControlEffort) Observe(x sim.State, u sim.Input, y sim.Output, t float64) {
	c.q.add(squaredNorm(u), t)
}

func (c *ControlEffort) Value() float64 { return c.q.total }

func (c *ControlEffort) Reset() { c.q.reset() }

// PeakOutput is max |y_i| over the run.
type PeakOutput struct {
	name string
	peak float64
}

func NewPeakOutput() *PeakOutput {
	return &PeakOutput{name: "peak_output"}
}

func (p *PeakOutput) Name() string { return p.name }

func (p *PeakOutput) Observe(x sim.State, u sim.Input, y sim.Output, t float64) {
	if v := peak(y); v > p.peak {
		p.peak = v
	}
}

func (p *PeakOutput) Value() float64 { return p.peak }

func (p *PeakOutput) Reset() { p.peak = 0 }

// FinalOutput is y_0 at the last sample, the settled value of a step
// response.
type FinalOutput struct {
	name  string
	value float64
}

func NewFinalOutput() *FinalOutput {
	return &FinalOutput{name: "final_output"}
}

func (f *FinalOutput) Name() string { return f.name }

func (f *FinalOutput) Observe(x sim.State, u sim.Input, y sim.Output, t float64) {
	if len(y) > 0 {
		f.value = y[0]
	}
}

func (f *FinalOutput) Value() float64 { return f.value }

func (f *FinalOutput) Reset() { f.value = 0 }

// Defaults is the metric set attached to every experiment run.
func Defaults(outputBound float64) []sim.Metric {
	return []sim.Metric{
		NewBoundedOutput(outputBound),
		NewControlEffort(),
		NewOutputEnergy(),
		NewPeakOutput(),
		NewFinalOutput(),
	}
}
