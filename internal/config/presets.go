package config

import "sort"

var Presets = map[string]*Config{
	"chap1": {
		Problem: ProblemConfig{I: DefaultI, A: DefaultA, T: DefaultT, Dt: DefaultDt},
		Thetas:  []float64{0, 0.5, 1},
	},
	"fine": {
		Problem: ProblemConfig{I: 1, A: 2, T: 8, Dt: 0.1},
		Thetas:  []float64{0, 0.5, 1},
	},
	"stable": {
		Problem: ProblemConfig{I: 1, A: 2, T: 8, Dt: 0.4},
		Thetas:  []float64{0, 0.5, 1},
	},
	"oscillating": {
		Problem: ProblemConfig{I: 1, A: 2, T: 8, Dt: 1.25},
		Thetas:  []float64{0, 0.25, 0.5, 0.75, 1},
	},
	"sweep": {
		Problem: ProblemConfig{I: 1, A: 2, T: 8, Dt: 0.8},
		Thetas:  []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
	},
}

// GetPreset returns a copy of the named preset with output defaults filled
// in, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Problem = p.Problem
	cfg.Thetas = append([]float64(nil), p.Thetas...)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
