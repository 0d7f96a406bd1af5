package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/decay/internal/dynamo"
)

// Reference recurrences written out per scheme, in the same operand order as
// the general formula reduces to.
func forwardEulerRef(I, a, T, dt float64) []float64 {
	nt := int(math.RoundToEven(T / dt))
	u := make([]float64, nt+1)
	u[0] = I
	for n := 0; n < nt; n++ {
		u[n+1] = (1 - a*dt) * u[n]
	}
	return u
}

func backwardEulerRef(I, a, T, dt float64) []float64 {
	nt := int(math.RoundToEven(T / dt))
	u := make([]float64, nt+1)
	u[0] = I
	for n := 0; n < nt; n++ {
		u[n+1] = 1 / (1 + a*dt) * u[n]
	}
	return u
}

func crankNicolsonRef(I, a, T, dt float64) []float64 {
	nt := int(math.RoundToEven(T / dt))
	u := make([]float64, nt+1)
	u[0] = I
	for n := 0; n < nt; n++ {
		u[n+1] = (1 - 0.5*a*dt) / (1 + 0.5*a*dt) * u[n]
	}
	return u
}

var identityCases = []struct {
	I, a, T, dt float64
}{
	{1, 2, 8, 0.8},
	{1, 2, 8, 0.1},
	{3.5, 0.25, 10, 0.5},
	{-2, 7, 1, 0.01},
	{1e-3, 40, 2, 0.2},
	{1, 1, 1, 1},
}

func equalBits(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}
	return true
}

func TestNamedSchemesMatchThetaRule(t *testing.T) {
	for _, c := range identityCases {
		general := func(theta float64) []float64 {
			return Solve(dynamo.MeshSpec{I: c.I, A: c.a, T: c.T, Dt: c.dt, Theta: theta}).U
		}

		if got, want := general(0), forwardEulerRef(c.I, c.a, c.T, c.dt); !equalBits(got, want) {
			t.Errorf("theta=0 vs forward euler differ for %+v:\n got %v\nwant %v", c, got, want)
		}
		if got, want := general(1), backwardEulerRef(c.I, c.a, c.T, c.dt); !equalBits(got, want) {
			t.Errorf("theta=1 vs backward euler differ for %+v:\n got %v\nwant %v", c, got, want)
		}
		if got, want := general(0.5), crankNicolsonRef(c.I, c.a, c.T, c.dt); !equalBits(got, want) {
			t.Errorf("theta=0.5 vs crank-nicolson differ for %+v:\n got %v\nwant %v", c, got, want)
		}

		if !equalBits(ForwardEuler(c.I, c.a, c.T, c.dt).U, general(ThetaForwardEuler)) {
			t.Errorf("ForwardEuler wrapper differs for %+v", c)
		}
		if !equalBits(BackwardEuler(c.I, c.a, c.T, c.dt).U, general(ThetaBackwardEuler)) {
			t.Errorf("BackwardEuler wrapper differs for %+v", c)
		}
		if !equalBits(CrankNicolson(c.I, c.a, c.T, c.dt).U, general(ThetaCrankNicolson)) {
			t.Errorf("CrankNicolson wrapper differs for %+v", c)
		}
	}
}

func TestSolveDemoParameters(t *testing.T) {
	tests := []struct {
		name  string
		theta float64
		u1    float64
	}{
		{"forward euler", 0, -0.6},
		{"backward euler", 1, 1 / 2.6},
		{"crank nicolson", 0.5, 0.2 / 1.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh := Solve(dynamo.MeshSpec{I: 1, A: 2, T: 8, Dt: 0.8, Theta: tt.theta})

			if mesh.Len() != 11 {
				t.Fatalf("expected 11 mesh points, got %d", mesh.Len())
			}
			if mesh.U[0] != 1 {
				t.Errorf("expected u[0]=1, got %g", mesh.U[0])
			}
			if math.Abs(mesh.U[1]-tt.u1) > 1e-12 {
				t.Errorf("expected u[1]=%.12f, got %.12f", tt.u1, mesh.U[1])
			}
			for n, tn := range mesh.T {
				if math.Abs(tn-0.8*float64(n)) > 1e-12 {
					t.Errorf("t[%d]: expected %.3f, got %.15f", n, 0.8*float64(n), tn)
				}
			}
			if mesh.T[10] != 8 {
				t.Errorf("expected last mesh point exactly 8, got %.17g", mesh.T[10])
			}
		})
	}
}

func TestForwardEulerSignFlip(t *testing.T) {
	mesh := ForwardEuler(1, 2, 8, 0.8)
	for n := 1; n < mesh.Len(); n++ {
		if (mesh.U[n] < 0) == (mesh.U[n-1] < 0) {
			t.Fatalf("expected alternating sign at n=%d: %g -> %g", n, mesh.U[n-1], mesh.U[n])
		}
	}
}

func TestSolveInitialValue(t *testing.T) {
	for _, I := range []float64{0, 1, -4.25, 1e9, 1e-9} {
		for _, theta := range []float64{0, 0.25, 0.5, 0.75, 1} {
			mesh := Solve(dynamo.MeshSpec{I: I, A: 1.5, T: 3, Dt: 0.3, Theta: theta})
			if mesh.U[0] != I {
				t.Errorf("theta=%g: expected u[0]=%g, got %g", theta, I, mesh.U[0])
			}
		}
	}
}

func TestSolveMeshLength(t *testing.T) {
	tests := []struct {
		T, dt float64
		want  int
	}{
		{8, 0.8, 11},
		{1, 0.1, 11},
		{1, 0.3, 4},  // round(3.33) = 3
		{1, 0.4, 3},  // round(2.5) = 2, half to even
		{1, 0.6, 3},  // round(1.67) = 2
		{10, 1, 11},
		{5, 5, 2},
	}

	for _, tt := range tests {
		mesh := Solve(dynamo.MeshSpec{I: 1, A: 1, T: tt.T, Dt: tt.dt, Theta: 0.5})
		if mesh.Len() != tt.want {
			t.Errorf("T=%g dt=%g: expected %d points, got %d", tt.T, tt.dt, tt.want, mesh.Len())
		}
		if len(mesh.T) != mesh.Len() {
			t.Errorf("T=%g dt=%g: %d times vs %d values", tt.T, tt.dt, len(mesh.T), mesh.Len())
		}
		if mesh.T[len(mesh.T)-1] != tt.T {
			t.Errorf("T=%g dt=%g: last mesh point %g", tt.T, tt.dt, mesh.T[len(mesh.T)-1])
		}
	}
}

func TestSolveMeshSpacingUsesRoundedSteps(t *testing.T) {
	// T/dt = 3.33 -> Nt = 3, so points are 1/3 apart while the factor uses 0.3.
	spec := dynamo.MeshSpec{I: 1, A: 1, T: 1, Dt: 0.3, Theta: 0}
	mesh := Solve(spec)

	if math.Abs(mesh.T[1]-1.0/3.0) > 1e-15 {
		t.Errorf("expected spacing 1/3, got %.17g", mesh.T[1])
	}
	if math.Abs(mesh.U[1]-0.7) > 1e-15 {
		t.Errorf("expected u[1] = 1 - 0.3 = 0.7, got %.17g", mesh.U[1])
	}
}

func TestMonotonicDecay(t *testing.T) {
	thetas := []float64{0, 0.1, 0.25, 0.5, 0.75, 1}
	adts := []float64{0.01, 0.1, 0.5, 0.9, 1.0}

	for _, theta := range thetas {
		for _, adt := range adts {
			a := 2.0
			dt := adt / a
			// |factor| < 1 and factor >= 0
			if math.Abs(1-(1-theta)*adt) >= 1+theta*adt || (1-theta)*adt > 1 {
				continue
			}
			mesh := Solve(dynamo.MeshSpec{I: 3, A: a, T: 50 * dt, Dt: dt, Theta: theta})
			for n := 1; n < mesh.Len(); n++ {
				if math.Abs(mesh.U[n]) > math.Abs(mesh.U[n-1]) {
					t.Fatalf("theta=%g a*dt=%g: |u| grew at n=%d", theta, adt, n)
				}
				if mesh.U[n] < 0 {
					t.Fatalf("theta=%g a*dt=%g: sign change at n=%d", theta, adt, n)
				}
			}
		}
	}
}

func TestCrankNicolsonAccuracy(t *testing.T) {
	mesh := CrankNicolson(1, 1, 1, 0.001)
	exact := dynamo.Exact(1, 1, 1)
	last := mesh.U[mesh.Len()-1]
	if math.Abs(last-exact) > 1e-6 {
		t.Errorf("error too large: got %.9f, expected %.9f", last, exact)
	}
}

func TestThetaFactor(t *testing.T) {
	tests := []struct {
		theta, a, dt float64
		want         float64
	}{
		{0, 2, 0.8, 1 - 1.6},
		{1, 2, 0.8, 1 / 2.6},
		{0.5, 2, 0.8, 0.2 / 1.8},
		{0.5, 0, 0.8, 1},
	}
	for _, tt := range tests {
		got := NewTheta(tt.theta).Factor(tt.a, tt.dt)
		if math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("theta=%g a=%g dt=%g: expected %g, got %g", tt.theta, tt.a, tt.dt, tt.want, got)
		}
	}

	th := NewTheta(0.5)
	if got, want := th.Step(2, 3, 0.8), 3*th.Factor(2, 0.8); got != want {
		t.Errorf("Step: expected %g, got %g", want, got)
	}
}

func TestSolveDegenerateStepPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for 1 + theta*a*dt == 0")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, dynamo.ErrDegenerateStep) {
			t.Fatalf("expected ErrDegenerateStep, got %v", r)
		}
	}()

	Solve(dynamo.MeshSpec{I: 1, A: -1, T: 1, Dt: 1, Theta: 1})
}
