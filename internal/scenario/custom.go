package scenario

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/sim"
)

const defaultBodyColor dynamo.Color = "#c8c8ff"

// Custom builds the bodies listed in cfg.Bodies. With force "orbiters" the
// first body marked as source stays fixed and pulls on the rest; otherwise
// every body attracts every other.
func Custom(cfg *config.Config, rng *rand.Rand) (sim.Scenario, error) {
	if len(cfg.Bodies) == 0 {
		return sim.Scenario{}, errNoBodies
	}

	force := sim.ForceGravity
	if cfg.Force != "" {
		f, err := sim.ParseForceRule(cfg.Force)
		if err != nil {
			return sim.Scenario{}, err
		}
		if f != sim.ForceGravity && f != sim.ForceOrbiters {
			return sim.Scenario{}, fmt.Errorf("custom scenario supports gravity or orbiters, got %s", f)
		}
		force = f
	}

	var src *dynamo.Celestial
	bodies := make([]dynamo.Celestial, 0, len(cfg.Bodies))
	auto := make([]bool, 0, len(cfg.Bodies))
	for i, bc := range cfg.Bodies {
		b, err := dynamo.NewCelestial(mgl64.Vec2{bc.X, bc.Y}, mgl64.Vec2{bc.VX, bc.VY}, bc.Mass, bc.Radius)
		if err != nil {
			return sim.Scenario{}, fmt.Errorf("bodies[%d]: %w", i, err)
		}
		b.Name = bc.Name
		b.Color = dynamo.Color(bc.Color)
		if _, _, _, ok := b.Color.RGB(); !ok {
			b.Color = defaultBodyColor
		}
		if bc.Source && src == nil && force == sim.ForceOrbiters {
			s := b
			src = &s
			continue
		}
		bodies = append(bodies, b)
		auto = append(auto, bc.AutoOrbit)
	}
	if force == sim.ForceOrbiters && src == nil {
		return sim.Scenario{}, sim.ErrNoSource
	}

	if len(bodies) == 0 {
		return sim.Scenario{}, errNoBodies
	}

	// Without a source the first body is the centre of every auto orbit.
	central, first := src, 0
	if central == nil {
		central, first = &bodies[0], 1
	}
	for i := first; i < len(bodies); i++ {
		if auto[i] {
			AutoOrbit(cfg.Gravity.G, *central, bodies[i:i+1])
		}
	}
	bodies = append(bodies, Stars(rng, extentOf(cfg, bodies, src), cfg.Orbital.Stars)...)

	return sim.Scenario{
		Force:     force,
		Source:    src,
		Bodies:    bodies,
		Extent:    extentOf(cfg, bodies, src),
		TimeScale: 1,
		Substeps:  10,
	}, nil
}

// extentOf is the bounding box of every body, padded by a fifth on each
// side, or the configured boundary when the bodies span nothing.
func extentOf(cfg *config.Config, bodies []dynamo.Celestial, src *dynamo.Celestial) dynamo.Boundary {
	min := mgl64.Vec2{math.Inf(1), math.Inf(1)}
	max := mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	grow := func(p mgl64.Vec2, r float64) {
		for k := 0; k < 2; k++ {
			min[k] = math.Min(min[k], p[k]-r)
			max[k] = math.Max(max[k], p[k]+r)
		}
	}
	for i := range bodies {
		grow(bodies[i].Position, bodies[i].Radius)
	}
	if src != nil {
		grow(src.Position, src.Radius)
	}

	box, err := dynamo.NewBoundary(min, max)
	if err != nil {
		return dynamo.Boundary{Max: mgl64.Vec2{cfg.Boundary.Width, cfg.Boundary.Height}}
	}
	pad := mgl64.Vec2{box.Width(), box.Height()}.Mul(0.2)
	return dynamo.Boundary{Min: box.Min.Sub(pad), Max: box.Max.Add(pad)}
}
