package experiment

import (
	"fmt"
	"strings"

	"github.com/san-kum/decay/internal/dynamo"
	"github.com/san-kum/decay/internal/integrators"
)

// Demo names, in the order they run when none are selected.
const (
	ForwardEuler  = "forward_euler"
	BackwardEuler = "backward_euler"
	CrankNicolson = "crank_nicolson"
	Unifying      = "unifying"
)

// Demo is one runnable entry point. Named schemes solve once with a fixed
// theta; the unifying demo sweeps the configured thetas.
type Demo struct {
	Name   string
	Title  string
	Abbrev string
	Theta  float64
	Sweep  bool
}

type Registry struct {
	order []string
	demos map[string]Demo
}

func NewRegistry() *Registry {
	r := &Registry{demos: make(map[string]Demo)}

	r.register(Demo{Name: ForwardEuler, Title: "Forward Euler", Abbrev: "fe", Theta: integrators.ThetaForwardEuler})
	r.register(Demo{Name: BackwardEuler, Title: "Backward Euler", Abbrev: "be", Theta: integrators.ThetaBackwardEuler})
	r.register(Demo{Name: CrankNicolson, Title: "Crank-Nicolson", Abbrev: "cn", Theta: integrators.ThetaCrankNicolson})
	r.register(Demo{Name: Unifying, Title: "Theta rule", Abbrev: "theta", Sweep: true})

	return r
}

func (r *Registry) register(d Demo) {
	r.order = append(r.order, d.Name)
	r.demos[d.Name] = d
}

// Names returns the demo names in run order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) Get(name string) (Demo, error) {
	d, ok := r.demos[name]
	if !ok {
		return Demo{}, fmt.Errorf("%w: invalid function %q (choose from %s)",
			dynamo.ErrUnknownScheme, name, strings.Join(r.order, ", "))
	}
	return d, nil
}

// Resolve maps names to demos. No names selects every demo in run order.
// Every name is checked before anything is returned, so an unknown name
// aborts the whole selection.
func (r *Registry) Resolve(names []string) ([]Demo, error) {
	if len(names) == 0 {
		names = r.order
	}

	demos := make([]Demo, 0, len(names))
	for _, name := range names {
		d, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		demos = append(demos, d)
	}
	return demos, nil
}
