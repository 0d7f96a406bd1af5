package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/decay/internal/dynamo"
	"github.com/san-kum/decay/internal/experiment"
	"github.com/san-kum/decay/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of demo runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs one demo. Zero-valued problem fields fall back to the
// base problem passed to RunScenario.
type ScenarioStep struct {
	Scheme string    `yaml:"scheme"`
	I      *float64  `yaml:"I"`
	A      float64   `yaml:"a"`
	T      float64   `yaml:"T"`
	Dt     float64   `yaml:"dt"`
	Thetas []float64 `yaml:"thetas"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Problem merges the step's overrides into base.
func (s ScenarioStep) Problem(base dynamo.MeshSpec) dynamo.MeshSpec {
	if s.I != nil {
		base.I = *s.I
	}
	if s.A != 0 {
		base.A = s.A
	}
	if s.T != 0 {
		base.T = s.T
	}
	if s.Dt != 0 {
		base.Dt = s.Dt
	}
	return base
}

// Runner executes scenarios through the demo registry.
type Runner struct {
	Registry *experiment.Registry
	Solve    sim.Solver
	Base     dynamo.MeshSpec
	Thetas   []float64
	// Progress receives one line per step; nil discards.
	Progress io.Writer
}

// Check resolves every step's scheme without running anything.
func (r *Runner) Check(scenario *Scenario) ([]experiment.Demo, error) {
	demos := make([]experiment.Demo, len(scenario.Steps))
	for i, step := range scenario.Steps {
		d, err := r.Registry.Get(step.Scheme)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		demos[i] = d
	}
	return demos, nil
}

// Run executes all steps in order and hands each run to sinks.
func (r *Runner) Run(ctx context.Context, scenario *Scenario, sinks ...experiment.Sink) ([]experiment.Run, error) {
	demos, err := r.Check(scenario)
	if err != nil {
		return nil, err
	}

	var results []experiment.Run
	for i, step := range scenario.Steps {
		if r.Progress != nil {
			fmt.Fprintf(r.Progress, "step %d/%d: %s\n", i+1, len(scenario.Steps), step.Scheme)
		}

		thetas := r.Thetas
		if len(step.Thetas) > 0 {
			thetas = step.Thetas
		}

		exp := experiment.New(experiment.Config{
			Problem: step.Problem(r.Base),
			Thetas:  thetas,
		})
		if err := exp.Setup(r.Solve, sinks...); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		runs, err := exp.Run(ctx, demos[i])
		results = append(results, runs...)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
	}

	return results, nil
}
