// Package dynamo provides the core primitives for the exponential decay
// problem u'(t) = -a*u(t), u(0) = I, on t in (0, T].
//
// The package defines the types shared by the solver and its consumers:
//
//   - [MeshSpec]: the inputs of one discretization (I, a, T, dt, theta)
//   - [MeshFunction]: mesh points t_n and the approximations u_n
//   - [Exact]: the analytic solution I*exp(-a*t)
//
// # Example
//
//	spec := dynamo.MeshSpec{I: 1, A: 2, T: 8, Dt: 0.8, Theta: 0.5}
//	mesh := integrators.Solve(spec)
//	for i, t := range mesh.T {
//		fmt.Printf("t=%6.3f u=%.6g\n", t, mesh.U[i])
//	}
//
// # Thread Safety
//
// A MeshFunction is never modified after it is built, so it can be handed
// to several consumers at once.
package dynamo
