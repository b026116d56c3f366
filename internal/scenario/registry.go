package scenario

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/integrators"
	"github.com/san-kum/chaoslab/internal/sim"
)

// Builder turns a config into a scenario. Builders must not keep cfg or rng.
type Builder func(cfg *config.Config, rng *rand.Rand) (sim.Scenario, error)

type entry struct {
	build       Builder
	description string
}

type Registry struct {
	builders map[string]entry
}

// NewRegistry returns a registry with every built-in scenario.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]entry)}

	r.Register("particles", Particles, "rigid discs bouncing in a box with friction and spin")
	r.Register("solar", Solar, "eight planets orbiting a fixed sun")
	r.Register("nbody", Cluster, "a heavy body and light satellites under mutual gravity")
	r.Register("binary", Binary, "two equal stars with circumbinary planets")
	r.Register("pendulum", Pendulum, "chaotic double pendulum")
	r.Register("custom", Custom, "bodies declared in the config file")

	return r
}

func (r *Registry) Register(name string, b Builder, description string) {
	r.builders[name] = entry{build: b, description: description}
}

// Build runs the named builder and applies the config's substep and time
// scale overrides.
func (r *Registry) Build(cfg *config.Config, rng *rand.Rand) (sim.Scenario, error) {
	e, ok := r.builders[cfg.Scenario]
	if !ok {
		return sim.Scenario{}, fmt.Errorf("%w: %s (available: %v)", config.ErrUnknownScenario, cfg.Scenario, r.List())
	}
	s, err := e.build(cfg, rng)
	if err != nil {
		return sim.Scenario{}, fmt.Errorf("build %s: %w", cfg.Scenario, err)
	}
	s.Name = cfg.Scenario
	if cfg.Substeps > 0 {
		s.Substeps = cfg.Substeps
	}
	if cfg.TimeScale > 0 {
		s.TimeScale = cfg.TimeScale
	}
	return s, nil
}

// NewWorld builds the scenario seeded from cfg.Seed and wires the config's
// integrator, if any, into the world.
func (r *Registry) NewWorld(cfg *config.Config, opts ...sim.Option) (*sim.World, error) {
	s, err := r.Build(cfg, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return nil, err
	}
	if cfg.Integrator != "" {
		integ, err := integrators.New(cfg.Integrator)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sim.WithIntegrator(integ))
	}
	return sim.New(s, cfg.Params(), opts...)
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Describe(name string) string {
	return r.builders[name].description
}
