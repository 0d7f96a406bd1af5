package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/decay/internal/dynamo"
	"github.com/san-kum/decay/internal/sim"
)

type Config struct {
	Problem dynamo.MeshSpec
	Thetas  []float64
}

// Run is one solved mesh function together with the demo that produced it.
type Run struct {
	Demo Demo
	Mesh dynamo.MeshFunction
}

// Sink consumes finished runs: console tables, plot files, the run store.
type Sink interface {
	Consume(run Run) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(run Run) error

func (f SinkFunc) Consume(run Run) error { return f(run) }

type Experiment struct {
	cfg       Config
	simulator *sim.Simulator
	sinks     []Sink
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(solve sim.Solver, sinks ...Sink) error {
	if solve == nil {
		return fmt.Errorf("experiment: nil solver")
	}
	e.simulator = sim.New(solve)
	e.sinks = append(e.sinks[:0], sinks...)
	return nil
}

// AddSink appends a sink after Setup.
func (e *Experiment) AddSink(s Sink) { e.sinks = append(e.sinks, s) }

// Run solves demo and hands every resulting mesh function to the sinks in
// order. Sweeps are solved concurrently but delivered in theta order.
func (e *Experiment) Run(ctx context.Context, demo Demo) ([]Run, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	var meshes []dynamo.MeshFunction
	if demo.Sweep {
		var err error
		meshes, err = e.simulator.Sweep(ctx, e.cfg.Problem, e.cfg.Thetas)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", demo.Name, err)
		}
	} else {
		mesh, err := e.simulator.Run(ctx, e.cfg.Problem.WithTheta(demo.Theta))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", demo.Name, err)
		}
		meshes = []dynamo.MeshFunction{mesh}
	}

	runs := make([]Run, 0, len(meshes))
	for _, mesh := range meshes {
		run := Run{Demo: demo, Mesh: mesh}
		for _, s := range e.sinks {
			if err := s.Consume(run); err != nil {
				return runs, fmt.Errorf("%s: %w", demo.Name, err)
			}
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
