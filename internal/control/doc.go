// Package control provides input sources for discrete simulations.
//
// Every source implements [sim.Controller] and produces u[k] from x[k]:
//
//   - [None]: zero input
//   - [Step], [Impulse], [Sine], [Noise]: open-loop test signals
//   - [PID]: Proportional-Integral-Derivative on one state component
//   - [StateFeedback]: u = -K(x - r), with gains from [DiscreteLQR]
//
// # Usage
//
//	pid := control.NewPID(1.0, 0.1, 0.01, 0.0) // Kp, Ki, Kd, setpoint
//	s := sim.New(sys, pid)
//	// Controller.Compute is called once per sample
//
// Controllers with GetParams/SetParam support tuning by name.
package control
