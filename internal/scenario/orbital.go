package scenario

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/physics"
	"github.com/san-kum/chaoslab/internal/sim"
)

const (
	fieldWidth  = 1200
	fieldHeight = 900

	solarSubsteps  = 40
	solarTimeScale = 10.2
)

var errNoBodies = errors.New("no bodies declared")

// Planet is a body started at perihelion on an orbit of semi-major axis A.
type Planet struct {
	Name       string
	Perihelion float64
	A          float64
	Radius     float64
	Color      dynamo.Color
}

var Planets = []Planet{
	{"Mercury", 60, 110, 4, "#a9a9a9"},
	{"Venus", 100, 150, 6, "#ffc649"},
	{"Earth", 130, 190, 6.5, "#1e90ff"},
	{"Mars", 170, 240, 5, "#cd5c5c"},
	{"Jupiter", 230, 320, 15, "#d8ca9d"},
	{"Saturn", 280, 370, 13, "#eed789"},
	{"Uranus", 320, 410, 10, "#4fd0e7"},
	{"Neptune", 360, 450, 10, "#4865ff"},
}

func field() dynamo.Boundary {
	return dynamo.Boundary{Max: mgl64.Vec2{fieldWidth, fieldHeight}}
}

// AutoOrbit gives every body at rest a circular velocity around central,
// perpendicular to the radius vector. Bodies on top of central are left
// alone.
func AutoOrbit(g float64, central dynamo.Celestial, bodies []dynamo.Celestial) {
	for i := range bodies {
		b := &bodies[i]
		if b.Velocity != (mgl64.Vec2{}) {
			continue
		}
		d := b.Position.Sub(central.Position)
		r := d.Len()
		if r == 0 {
			continue
		}
		v := physics.CircularSpeed(g, central.Mass, r)
		b.Velocity = central.Velocity.Add(mgl64.Vec2{-d[1] / r * v, d[0] / r * v})
	}
}

// Stars scatters n decorative massless bodies over box.
func Stars(rng *rand.Rand, box dynamo.Boundary, n int) []dynamo.Celestial {
	stars := make([]dynamo.Celestial, 0, n)
	for i := 0; i < n; i++ {
		pos := mgl64.Vec2{
			box.Min[0] + rng.Float64()*box.Width(),
			box.Min[1] + rng.Float64()*box.Height(),
		}
		s, _ := dynamo.NewStar(pos, 1)
		s.Color = "#ffffff"
		stars = append(stars, s)
	}
	return stars
}

func source(cfg *config.Config, pos mgl64.Vec2) (dynamo.Celestial, error) {
	sun, err := dynamo.NewCelestial(pos, mgl64.Vec2{}, cfg.Orbital.SourceMass, cfg.Orbital.SourceRadius)
	if err != nil {
		return dynamo.Celestial{}, err
	}
	sun.Name = "Sun"
	sun.Color = "#ffff00"
	return sun, nil
}

// Solar places the sun at the centre of the field and starts each planet at
// perihelion moving with its vis-viva speed. Only the sun attracts.
func Solar(cfg *config.Config, rng *rand.Rand) (sim.Scenario, error) {
	box := field()
	sun, err := source(cfg, box.Center())
	if err != nil {
		return sim.Scenario{}, err
	}

	bodies := make([]dynamo.Celestial, 0, len(Planets)+cfg.Orbital.Stars)
	for _, p := range Planets {
		v := physics.VisViva(cfg.Gravity.G, sun.Mass, p.Perihelion, p.A)
		b, err := dynamo.NewCelestial(sun.Position.Add(mgl64.Vec2{p.Perihelion, 0}), mgl64.Vec2{0, -v}, 1, p.Radius)
		if err != nil {
			return sim.Scenario{}, fmt.Errorf("planet %s: %w", p.Name, err)
		}
		b.Name = p.Name
		b.Color = p.Color
		bodies = append(bodies, b)
	}
	bodies = append(bodies, Stars(rng, box, cfg.Orbital.Stars)...)

	return sim.Scenario{
		Force:     sim.ForceOrbiters,
		Source:    &sun,
		Bodies:    bodies,
		Extent:    box,
		TimeScale: solarTimeScale,
		Substeps:  solarSubsteps,
	}, nil
}

// Cluster is a heavy central body with light satellites on circular orbits,
// all under mutual gravity. The centre recoils so total momentum is zero.
func Cluster(cfg *config.Config, rng *rand.Rand) (sim.Scenario, error) {
	box := field()
	n := cfg.Orbital.Bodies
	if n < 1 {
		return sim.Scenario{}, errNoBodies
	}

	central, err := source(cfg, box.Center())
	if err != nil {
		return sim.Scenario{}, err
	}
	bodies := []dynamo.Celestial{central}

	for i := 1; i < n; i++ {
		r := 80 + rng.Float64()*270
		angle := rng.Float64() * 2 * math.Pi
		pos := central.Position.Add(mgl64.Vec2{math.Cos(angle), math.Sin(angle)}.Mul(r))
		b, err := dynamo.NewCelestial(pos, mgl64.Vec2{}, 1+rng.Float64()*9, 4)
		if err != nil {
			return sim.Scenario{}, err
		}
		b.Name = fmt.Sprintf("body-%d", i)
		b.Color = RandomColor(rng)
		bodies = append(bodies, b)
	}
	AutoOrbit(cfg.Gravity.G, central, bodies[1:])
	balanceMomentum(bodies)
	bodies = append(bodies, Stars(rng, box, cfg.Orbital.Stars)...)

	return sim.Scenario{
		Force:     sim.ForceGravity,
		Bodies:    bodies,
		Extent:    box,
		TimeScale: 5,
		Substeps:  20,
	}, nil
}

// Binary is two equal stars circling their barycentre with planets on wide
// circumbinary orbits.
func Binary(cfg *config.Config, rng *rand.Rand) (sim.Scenario, error) {
	box := field()
	center := box.Center()
	const sep = 60.0
	m := cfg.Orbital.SourceMass / 2
	if !(m > 0) {
		return sim.Scenario{}, fmt.Errorf("binary needs a positive source mass, got %g", cfg.Orbital.SourceMass)
	}

	v := math.Sqrt(cfg.Gravity.G * m / (4 * sep))
	a, _ := dynamo.NewCelestial(center.Add(mgl64.Vec2{-sep, 0}), mgl64.Vec2{0, v}, m, cfg.Orbital.SourceRadius*0.7)
	b, _ := dynamo.NewCelestial(center.Add(mgl64.Vec2{sep, 0}), mgl64.Vec2{0, -v}, m, cfg.Orbital.SourceRadius*0.7)
	a.Name, a.Color = "A", "#ffd27f"
	b.Name, b.Color = "B", "#9bb0ff"
	bodies := []dynamo.Celestial{a, b}

	barycentre, _ := dynamo.NewCelestial(center, mgl64.Vec2{}, 2*m, 0)
	planets := make([]dynamo.Celestial, 0, 3)
	for i, r := range []float64{250, 320, 400} {
		angle := rng.Float64() * 2 * math.Pi
		pos := center.Add(mgl64.Vec2{math.Cos(angle), math.Sin(angle)}.Mul(r))
		p, _ := dynamo.NewCelestial(pos, mgl64.Vec2{}, 1, 5)
		p.Name = fmt.Sprintf("planet-%d", i+1)
		p.Color = Palette[i%len(Palette)]
		planets = append(planets, p)
	}
	AutoOrbit(cfg.Gravity.G, barycentre, planets)
	bodies = append(bodies, planets...)
	bodies = append(bodies, Stars(rng, box, cfg.Orbital.Stars)...)

	return sim.Scenario{
		Force:     sim.ForceGravity,
		Bodies:    bodies,
		Extent:    box,
		TimeScale: 5,
		Substeps:  20,
	}, nil
}

func balanceMomentum(bodies []dynamo.Celestial) {
	var p mgl64.Vec2
	for i := 1; i < len(bodies); i++ {
		p = p.Add(bodies[i].Velocity.Mul(bodies[i].Mass))
	}
	if bodies[0].Mass > 0 {
		bodies[0].Velocity = p.Mul(-1 / bodies[0].Mass)
	}
}
