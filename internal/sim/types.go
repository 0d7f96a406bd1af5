package sim

import "github.com/san-kum/decay/internal/dynamo"

// Solver turns a mesh spec into a mesh function. integrators.Solve is the
// production implementation.
type Solver func(spec dynamo.MeshSpec) dynamo.MeshFunction

// Observer is notified with every mesh function a Simulator produces.
// Sweep calls observers from several goroutines.
type Observer interface {
	OnMesh(mesh dynamo.MeshFunction)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(mesh dynamo.MeshFunction)

func (f ObserverFunc) OnMesh(mesh dynamo.MeshFunction) { f(mesh) }
