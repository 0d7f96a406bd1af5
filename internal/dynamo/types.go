package dynamo

import "math"

// MeshSpec holds the inputs of one discretization of u' = -a*u, u(0) = I.
type MeshSpec struct {
	I     float64 `json:"I" yaml:"I"`
	A     float64 `json:"a" yaml:"a"`
	T     float64 `json:"T" yaml:"T"`
	Dt    float64 `json:"dt" yaml:"dt"`
	Theta float64 `json:"theta" yaml:"theta"`
}

// Steps returns Nt, the number of time intervals: T/dt rounded half to even.
func (s MeshSpec) Steps() int {
	return int(math.RoundToEven(s.T / s.Dt))
}

// WithTheta returns a copy of s using theta.
func (s MeshSpec) WithTheta(theta float64) MeshSpec {
	s.Theta = theta
	return s
}

// Validate checks the decay regime: a > 0, T > 0, 0 < dt <= T, theta in
// [0, 1] and Nt >= 1. The solver does not call it; drivers do.
func (s MeshSpec) Validate() error {
	switch {
	case math.IsNaN(s.I) || math.IsInf(s.I, 0):
		return BoundsError("I", s.I, "a finite value")
	case !(s.A > 0) || math.IsInf(s.A, 0):
		return BoundsError("a", s.A, "a > 0")
	case !(s.T > 0) || math.IsInf(s.T, 0):
		return BoundsError("T", s.T, "T > 0")
	case !(s.Dt > 0) || s.Dt > s.T:
		return BoundsError("dt", s.Dt, "0 < dt <= T")
	case !(s.Theta >= 0) || s.Theta > 1:
		return BoundsError("theta", s.Theta, "0 <= theta <= 1")
	case s.Steps() < 1:
		return BoundsError("T/dt", s.T/s.Dt, "round(T/dt) >= 1")
	}
	return nil
}

// MeshFunction is the discrete solution: U[n] approximates u(T[n]).
// It is not modified after construction.
type MeshFunction struct {
	Spec MeshSpec  `json:"spec"`
	T    []float64 `json:"t"`
	U    []float64 `json:"u"`
}

// Point is one (t_n, u_n) pair of a mesh function.
type Point struct {
	T float64
	U float64
}

// Len returns the number of mesh points, Nt+1.
func (m MeshFunction) Len() int { return len(m.U) }

// Points returns a freshly allocated copy of the (t, u) pairs.
func (m MeshFunction) Points() []Point {
	pts := make([]Point, len(m.U))
	for i := range m.U {
		pts[i] = Point{T: m.T[i], U: m.U[i]}
	}
	return pts
}

// IsValid reports whether every value is finite.
func (m MeshFunction) IsValid() bool {
	for _, v := range m.U {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Exact is the analytic solution I*exp(-a*t).
func Exact(I, a, t float64) float64 {
	return I * math.Exp(-a*t)
}

// DefaultExactSamples is the number of points used to draw the exact curve.
const DefaultExactSamples = 1001

// ExactCurve samples the exact solution at n uniformly spaced points on
// [0, T], endpoints included.
func ExactCurve(I, a, T float64, n int) (ts, us []float64) {
	if n < 2 {
		n = 2
	}
	ts = Linspace(0, T, n)
	us = make([]float64, n)
	for i, t := range ts {
		us[i] = Exact(I, a, t)
	}
	return ts, us
}

// Linspace returns n evenly spaced values over [start, stop]. The spacing is
// (stop-start)/(n-1) and the last value is exactly stop.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
