package integrators

import "github.com/san-kum/decay/internal/dynamo"

// Theta values of the named schemes.
const (
	ThetaForwardEuler  = 0.0
	ThetaBackwardEuler = 1.0
	ThetaCrankNicolson = 0.5
)

// Theta advances u' = -a*u with the theta-rule
//
//	(u[n+1] - u[n]) / dt = -a * (theta*u[n+1] + (1-theta)*u[n])
//
// solved for u[n+1].
type Theta struct {
	theta float64
}

func NewTheta(theta float64) *Theta {
	return &Theta{theta: theta}
}

func (th *Theta) Value() float64 { return th.theta }

// Factor returns the amplification (1 - (1-theta)*a*dt) / (1 + theta*a*dt).
// It panics with ErrDegenerateStep when the denominator is zero.
func (th *Theta) Factor(a, dt float64) float64 {
	den := 1 + th.theta*a*dt
	if den == 0 {
		panic(&dynamo.SimulationError{Wrapped: dynamo.ErrDegenerateStep})
	}
	return (1 - (1-th.theta)*a*dt) / den
}

func (th *Theta) Step(a, u, dt float64) float64 {
	return th.Factor(a, dt) * u
}

// Solve discretizes [0, T] into Nt = round(T/dt) intervals and computes the
// mesh function with the theta-rule. Mesh points are spaced T/Nt apart while
// the recurrence coefficient uses dt as given; the two differ when dt does
// not divide T.
func Solve(spec dynamo.MeshSpec) dynamo.MeshFunction {
	nt := spec.Steps()
	if nt < 0 {
		nt = 0
	}

	u := make([]float64, nt+1)
	t := dynamo.Linspace(0, spec.T, nt+1)

	factor := NewTheta(spec.Theta).Factor(spec.A, spec.Dt)

	u[0] = spec.I
	for n := 0; n < nt; n++ {
		u[n+1] = factor * u[n]
	}

	return dynamo.MeshFunction{Spec: spec, T: t, U: u}
}

// ForwardEuler solves with theta = 0: u[n+1] = (1 - a*dt)*u[n].
func ForwardEuler(I, a, T, dt float64) dynamo.MeshFunction {
	return Solve(dynamo.MeshSpec{I: I, A: a, T: T, Dt: dt, Theta: ThetaForwardEuler})
}

// BackwardEuler solves with theta = 1: u[n+1] = u[n] / (1 + a*dt).
func BackwardEuler(I, a, T, dt float64) dynamo.MeshFunction {
	return Solve(dynamo.MeshSpec{I: I, A: a, T: T, Dt: dt, Theta: ThetaBackwardEuler})
}

// CrankNicolson solves with theta = 0.5:
// u[n+1] = (1 - 0.5*a*dt) / (1 + 0.5*a*dt) * u[n].
func CrankNicolson(I, a, T, dt float64) dynamo.MeshFunction {
	return Solve(dynamo.MeshSpec{I: I, A: a, T: T, Dt: dt, Theta: ThetaCrankNicolson})
}
