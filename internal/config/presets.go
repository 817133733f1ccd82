package config

import "sort"

var Presets = map[string]map[string]*Config{
	"mass_spring_damper": {
		"overdamped": {
			Model: "mass_spring_damper", Method: "zoh", SamplePeriod: 0.01, Duration: 10,
			Input: "step", InputParams: map[string]float64{"amplitude": 1},
			InitState: []float64{0, 0},
		},
		"underdamped": {
			Model: "mass_spring_damper", Method: "zoh", SamplePeriod: 0.01, Duration: 20,
			Params:    map[string]float64{"damping": 0.3},
			Input:     "none",
			InitState: []float64{1, 0},
		},
		"resonance": {
			Model: "mass_spring_damper", Method: "zoh", SamplePeriod: 0.01, Duration: 40,
			Params: map[string]float64{"damping": 0.2},
			Input:  "sine", InputParams: map[string]float64{"amplitude": 1, "frequency": 0.225},
			InitState: []float64{0, 0},
		},
	},
	"companion3": {
		"fixture": {
			Model: "companion3", Method: "zoh", SamplePeriod: 0.01, Duration: 5,
			Input: "impulse",
		},
	},
	"double_integrator": {
		"lqr": {
			Model: "double_integrator", Method: "zoh", SamplePeriod: 0.1, Duration: 20,
			Input: "lqr", InputParams: map[string]float64{"q": 1, "r": 0.1},
			InitState: []float64{1, 0},
		},
		"pid": {
			Model: "double_integrator", Method: "zoh", SamplePeriod: 0.01, Duration: 20,
			Input: "pid", InputParams: map[string]float64{"kp": 4, "ki": 0, "kd": 3, "target": 1},
			InitState: []float64{0, 0},
		},
	},
	"rc_circuit": {
		"charge": {
			Model: "rc_circuit", Method: "zoh", SamplePeriod: 0.01, Duration: 5,
			Input: "step", InputParams: map[string]float64{"amplitude": 5},
		},
		"euler": {
			Model: "rc_circuit", Method: "FwdEuler", SamplePeriod: 0.05, Duration: 5,
			Input: "step", InputParams: map[string]float64{"amplitude": 5},
		},
	},
	"dc_motor": {
		"spinup": {
			Model: "dc_motor", Method: "zoh", SamplePeriod: 0.001, Duration: 2,
			Input: "step", InputParams: map[string]float64{"amplitude": 12},
		},
	},
	"spring_chain": {
		"pluck": {
			Model: "spring_chain", Method: "zoh", SamplePeriod: 0.005, Duration: 20,
			Params: map[string]float64{"masses": 3},
			Input:  "none",
		},
		"shake": {
			Model: "spring_chain", Method: "zoh", SamplePeriod: 0.005, Duration: 20,
			Params: map[string]float64{"masses": 3},
			Input:  "noise", InputParams: map[string]float64{"amplitude": 1},
			Seed: 7,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
