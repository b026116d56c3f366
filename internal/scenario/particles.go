package scenario

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/sim"
)

var Palette = []dynamo.Color{
	"#ff0000", // red
	"#00ff00", // green
	"#0000ff", // blue
	"#ffff00", // yellow
	"#ff00ff", // magenta
	"#00ffff", // cyan
}

func RandomColor(rng *rand.Rand) dynamo.Color {
	return Palette[rng.Intn(len(Palette))]
}

// RandomDisc places a disc uniformly inside box, keeping pc.Margin away from
// every wall when the box is large enough for it, with a random heading, a
// speed in [MinSpeed, MaxSpeed] and a spin in [-MaxSpin, MaxSpin].
func RandomDisc(rng *rand.Rand, box dynamo.Boundary, pc config.ParticlesConfig) (dynamo.Disc, error) {
	margin := math.Max(pc.Margin, pc.Radius)
	if 2*margin >= box.Width() || 2*margin >= box.Height() {
		margin = pc.Radius
	}

	pos := mgl64.Vec2{
		box.Min[0] + margin + rng.Float64()*(box.Width()-2*margin),
		box.Min[1] + margin + rng.Float64()*(box.Height()-2*margin),
	}
	speed := pc.MinSpeed + rng.Float64()*(pc.MaxSpeed-pc.MinSpeed)
	heading := rng.Float64() * 2 * math.Pi
	vel := mgl64.Vec2{math.Cos(heading), math.Sin(heading)}.Mul(speed)

	d, err := dynamo.NewDisc(box.Clamp(pos, pc.Radius), vel, pc.Mass, pc.Radius)
	if err != nil {
		return dynamo.Disc{}, err
	}
	d.AngularVelocity = (rng.Float64()*2 - 1) * pc.MaxSpin
	d.Color = RandomColor(rng)
	return d, nil
}

// Particles is the rigid-disc sandbox: discs in a closed box, no forces.
func Particles(cfg *config.Config, rng *rand.Rand) (sim.Scenario, error) {
	box, err := dynamo.NewBoundary(mgl64.Vec2{0, 0}, mgl64.Vec2{cfg.Boundary.Width, cfg.Boundary.Height})
	if err != nil {
		return sim.Scenario{}, err
	}

	discs := make([]dynamo.Disc, cfg.Particles.Count)
	for i := range discs {
		if discs[i], err = RandomDisc(rng, box, cfg.Particles); err != nil {
			return sim.Scenario{}, err
		}
	}

	return sim.Scenario{
		Force:       sim.ForceNone,
		Discs:       discs,
		Boundary:    &box,
		Extent:      box,
		Collide:     cfg.Particles.Collide,
		TimeScale:   1,
		Substeps:    1,
		SpawnMass:   cfg.Particles.Mass,
		SpawnRadius: cfg.Particles.Radius,
	}, nil
}
