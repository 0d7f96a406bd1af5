package sim

import (
	"context"

	"github.com/san-kum/decay/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

// Sweep solves base once per theta, concurrently. Results keep the order of
// thetas. Each solve only reads its own spec and writes its own slot.
func (s *Simulator) Sweep(ctx context.Context, base dynamo.MeshSpec, thetas []float64) ([]dynamo.MeshFunction, error) {
	results := make([]dynamo.MeshFunction, len(thetas))

	g, ctx := errgroup.WithContext(ctx)
	for i, theta := range thetas {
		g.Go(func() error {
			mesh, err := s.Run(ctx, base.WithTheta(theta))
			if err != nil {
				return err
			}
			results[i] = mesh
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
