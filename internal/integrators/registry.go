package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

var constructors = map[string]func() dynamo.Integrator{
	"verlet":   func() dynamo.Integrator { return NewVerlet() },
	"leapfrog": func() dynamo.Integrator { return NewLeapfrog() },
	"euler":    func() dynamo.Integrator { return NewEuler() },
	"semi":     func() dynamo.Integrator { return NewSemiImplicitEuler() },
	"rk4":      func() dynamo.Integrator { return NewRK4() },
}

// New returns a fresh integrator by name. Integrators keep scratch buffers,
// so callers should not share one between systems.
func New(name string) (dynamo.Integrator, error) {
	fn, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
