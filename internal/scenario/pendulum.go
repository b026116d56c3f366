package scenario

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/physics"
	"github.com/san-kum/chaoslab/internal/sim"
)

const pendulumTimeScale = 5

func Pendulum(cfg *config.Config, _ *rand.Rand) (sim.Scenario, error) {
	p, err := physics.NewDoublePendulum(cfg.PendulumParams())
	if err != nil {
		return sim.Scenario{}, err
	}

	reach := (p.L1 + p.L2) * 1.1
	extent := dynamo.Boundary{
		Min: p.Pivot.Sub(mgl64.Vec2{reach, reach}),
		Max: p.Pivot.Add(mgl64.Vec2{reach, reach}),
	}

	return sim.Scenario{
		Force:     sim.ForcePendulum,
		Pendulum:  p,
		Extent:    extent,
		TimeScale: pendulumTimeScale,
		Substeps:  1,
	}, nil
}
