package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/decay/internal/dynamo"
)

type Simulator struct {
	solve     Solver
	observers []Observer
}

func New(solve Solver) *Simulator {
	return &Simulator{
		solve:     solve,
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run validates spec and solves it once.
func (s *Simulator) Run(ctx context.Context, spec dynamo.MeshSpec) (dynamo.MeshFunction, error) {
	if err := spec.Validate(); err != nil {
		return dynamo.MeshFunction{}, err
	}

	select {
	case <-ctx.Done():
		return dynamo.MeshFunction{}, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, ctx.Err())
	default:
	}

	mesh := s.solve(spec)
	for _, obs := range s.observers {
		obs.OnMesh(mesh)
	}
	return mesh, nil
}
