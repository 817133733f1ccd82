package control

import (
	"fmt"

	"github.com/san-kum/ltikit/internal/sim"
)

// PID drives state component Index towards Target through a single input.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	Index    int
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

func (p *PID) Compute(x sim.State, t float64) sim.Input {
	if p.Index >= len(x) {
		return sim.Input{0}
	}

	err := p.Target - x[p.Index]

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return sim.Input{p.Kp * err}
	}

	dt := t - p.prevT
	if dt > 0 {
		p.integral += err * dt
		derivative := (err - p.prevErr) / dt

		u := p.Kp*err + p.Ki*p.integral + p.Kd*derivative

		p.prevErr = err
		p.prevT = t

		return sim.Input{u}
	}
	return sim.Input{p.Kp * err}
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.prevT = 0
	p.first = true
}

func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":     p.Kp,
		"ki":     p.Ki,
		"kd":     p.Kd,
		"target": p.Target,
		"index":  float64(p.Index),
	}
}

func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		p.Kp = value
	case "ki":
		p.Ki = value
	case "kd":
		p.Kd = value
	case "target":
		p.Target = value
	case "index":
		if value < 0 {
			return fmt.Errorf("control: pid index must not be negative, got %g", value)
		}
		p.Index = int(value)
	default:
		return fmt.Errorf("control: unknown pid parameter %q", name)
	}
	return nil
}
