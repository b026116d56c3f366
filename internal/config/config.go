package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/chaoslab/internal/collision"
	"github.com/san-kum/chaoslab/internal/physics"
	"github.com/san-kum/chaoslab/internal/sim"
)

const (
	DefaultFrameDt  = 1.0 / 60.0
	DefaultMaxDt    = 0.25
	DefaultFrames   = 600
	DefaultScenario = "particles"
)

var (
	ErrUnknownScenario = errors.New("config: unknown scenario")
	ErrUnknownPreset   = errors.New("config: unknown preset")
	ErrInvalid         = errors.New("config: invalid value")
)

type Config struct {
	Scenario string `yaml:"scenario"`
	// Integrator empty keeps velocity Verlet for gravity and the closed-form
	// step for the pendulum.
	Integrator string `yaml:"integrator"`
	// Force is only read by the custom scenario: gravity or orbiters.
	Force string `yaml:"force"`
	Seed  int64  `yaml:"seed"`

	Frames      int     `yaml:"frames"`
	FrameDt     float64 `yaml:"frame_dt"`
	MaxDt       float64 `yaml:"max_dt"`
	SampleEvery int     `yaml:"sample_every"`
	// Substeps and TimeScale of 0 leave the scenario's own defaults.
	Substeps  int     `yaml:"substeps"`
	TimeScale float64 `yaml:"time_scale"`

	Gravity   GravityConfig   `yaml:"gravity"`
	Collision CollisionConfig `yaml:"collision"`
	Boundary  BoundaryConfig  `yaml:"boundary"`
	Particles ParticlesConfig `yaml:"particles"`
	Pendulum  PendulumConfig  `yaml:"pendulum"`
	Orbital   OrbitalConfig   `yaml:"orbital"`
	Bodies    []BodyConfig    `yaml:"bodies"`
}

type GravityConfig struct {
	G       float64 `yaml:"g"`
	Epsilon float64 `yaml:"epsilon"`
}

type CollisionConfig struct {
	Restitution     float64 `yaml:"restitution"`
	WallRestitution float64 `yaml:"wall_restitution"`
	Friction        float64 `yaml:"friction"`
	Slack           float64 `yaml:"slack"`
	SpinRetention   float64 `yaml:"spin_retention"`
}

type BoundaryConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ParticlesConfig struct {
	Count    int     `yaml:"count"`
	Radius   float64 `yaml:"radius"`
	Mass     float64 `yaml:"mass"`
	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"`
	MaxSpin  float64 `yaml:"max_spin"`
	Margin   float64 `yaml:"margin"`
	Collide  bool    `yaml:"collide"`
}

type PendulumConfig struct {
	L1        float64 `yaml:"l1"`
	L2        float64 `yaml:"l2"`
	M1        float64 `yaml:"m1"`
	M2        float64 `yaml:"m2"`
	Gravity   float64 `yaml:"gravity"`
	Theta1Deg float64 `yaml:"theta1_deg"`
	Theta2Deg float64 `yaml:"theta2_deg"`
	PivotX    float64 `yaml:"pivot_x"`
	PivotY    float64 `yaml:"pivot_y"`
	// TrailLimit 0 keeps the whole path.
	TrailLimit int `yaml:"trail_limit"`
}

type OrbitalConfig struct {
	SourceMass   float64 `yaml:"source_mass"`
	SourceRadius float64 `yaml:"source_radius"`
	TrailLimit   int     `yaml:"trail_limit"`
	TrailEvery   int     `yaml:"trail_every"`
	Stars        int     `yaml:"stars"`
	// Bodies is the body count of the nbody scenario.
	Bodies int `yaml:"bodies"`
}

// BodyConfig declares one body of the custom scenario. The first body with
// Source set is the fixed source for the orbiters rule. AutoOrbit replaces a
// zero velocity with the circular speed around the first body.
type BodyConfig struct {
	Name      string  `yaml:"name"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	VX        float64 `yaml:"vx"`
	VY        float64 `yaml:"vy"`
	Mass      float64 `yaml:"mass"`
	Radius    float64 `yaml:"radius"`
	Color     string  `yaml:"color"`
	Source    bool    `yaml:"source"`
	AutoOrbit bool    `yaml:"auto_orbit"`
}

// DefaultConfig is the 500-disc particle sandbox in an 800x600 box.
func DefaultConfig() *Config {
	col := collision.DefaultParams()
	pend := physics.DefaultPendulumParams()
	return &Config{
		Scenario:    DefaultScenario,
		Frames:      DefaultFrames,
		FrameDt:     DefaultFrameDt,
		MaxDt:       DefaultMaxDt,
		SampleEvery: 1,
		Gravity: GravityConfig{
			G:       1.0,
			Epsilon: 1e-3,
		},
		Collision: CollisionConfig{
			Restitution:     col.Restitution,
			WallRestitution: 1.0,
			Friction:        col.Friction,
			Slack:           col.Slack,
			SpinRetention:   0.99,
		},
		Boundary: BoundaryConfig{
			Width:  800,
			Height: 600,
		},
		Particles: ParticlesConfig{
			Count:    500,
			Radius:   5,
			Mass:     1,
			MinSpeed: 100,
			MaxSpeed: 300,
			MaxSpin:  5,
			Margin:   50,
			Collide:  true,
		},
		Pendulum: PendulumConfig{
			L1:        pend.L1,
			L2:        pend.L2,
			M1:        pend.M1,
			M2:        pend.M2,
			Gravity:   pend.Gravity,
			Theta1Deg: 180,
			Theta2Deg: 90,
			PivotX:    pend.Pivot[0],
			PivotY:    pend.Pivot[1],
		},
		Orbital: OrbitalConfig{
			SourceMass:   5000,
			SourceRadius: 20,
			TrailLimit:   300,
			TrailEvery:   2,
			Bodies:       5,
		},
	}
}

// Load reads a YAML file over DefaultConfig.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver unmarshals the file at path on top of base, so keys the file
// omits keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ranges only. Whether Scenario names a registered builder
// is decided by the scenario registry.
func (c *Config) Validate() error {
	checks := []struct {
		ok    bool
		field string
		value any
	}{
		{c.Scenario != "", "scenario", c.Scenario},
		{c.Frames > 0, "frames", c.Frames},
		{c.FrameDt > 0, "frame_dt", c.FrameDt},
		{c.MaxDt > 0, "max_dt", c.MaxDt},
		{c.SampleEvery >= 0, "sample_every", c.SampleEvery},
		{c.Substeps >= 0, "substeps", c.Substeps},
		{c.TimeScale >= 0, "time_scale", c.TimeScale},
		{c.Gravity.G >= 0, "gravity.g", c.Gravity.G},
		{c.Gravity.Epsilon >= 0, "gravity.epsilon", c.Gravity.Epsilon},
		{unit(c.Collision.Restitution), "collision.restitution", c.Collision.Restitution},
		{unit(c.Collision.WallRestitution), "collision.wall_restitution", c.Collision.WallRestitution},
		{c.Collision.Friction >= 0, "collision.friction", c.Collision.Friction},
		{c.Collision.Slack >= 0, "collision.slack", c.Collision.Slack},
		{unit(c.Collision.SpinRetention), "collision.spin_retention", c.Collision.SpinRetention},
		{c.Boundary.Width > 0, "boundary.width", c.Boundary.Width},
		{c.Boundary.Height > 0, "boundary.height", c.Boundary.Height},
		{c.Particles.Count >= 0, "particles.count", c.Particles.Count},
		{c.Particles.Radius >= 0, "particles.radius", c.Particles.Radius},
		{c.Particles.Mass > 0, "particles.mass", c.Particles.Mass},
		{c.Particles.MinSpeed >= 0, "particles.min_speed", c.Particles.MinSpeed},
		{c.Particles.MaxSpeed >= c.Particles.MinSpeed, "particles.max_speed", c.Particles.MaxSpeed},
		{c.Particles.MaxSpin >= 0, "particles.max_spin", c.Particles.MaxSpin},
		{c.Particles.Margin >= 0, "particles.margin", c.Particles.Margin},
		{c.Pendulum.L1 > 0, "pendulum.l1", c.Pendulum.L1},
		{c.Pendulum.L2 > 0, "pendulum.l2", c.Pendulum.L2},
		{c.Pendulum.M1 > 0, "pendulum.m1", c.Pendulum.M1},
		{c.Pendulum.M2 > 0, "pendulum.m2", c.Pendulum.M2},
		{c.Pendulum.TrailLimit >= 0, "pendulum.trail_limit", c.Pendulum.TrailLimit},
		{c.Orbital.SourceMass >= 0, "orbital.source_mass", c.Orbital.SourceMass},
		{c.Orbital.SourceRadius >= 0, "orbital.source_radius", c.Orbital.SourceRadius},
		{c.Orbital.TrailLimit >= 0, "orbital.trail_limit", c.Orbital.TrailLimit},
		{c.Orbital.Stars >= 0, "orbital.stars", c.Orbital.Stars},
		{c.Orbital.Bodies >= 0, "orbital.bodies", c.Orbital.Bodies},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s = %v", ErrInvalid, chk.field, chk.value)
		}
	}
	for i, b := range c.Bodies {
		if !(b.Mass >= 0) || !(b.Radius >= 0) {
			return fmt.Errorf("%w: bodies[%d] mass %v radius %v", ErrInvalid, i, b.Mass, b.Radius)
		}
	}
	return nil
}

func unit(v float64) bool { return v >= 0 && v <= 1 }

// Params converts the physical constants into what a World runs with.
func (c *Config) Params() sim.Params {
	return sim.Params{
		G:       c.Gravity.G,
		Epsilon: c.Gravity.Epsilon,
		Collision: collision.Params{
			Restitution: c.Collision.Restitution,
			Friction:    c.Collision.Friction,
			Slack:       c.Collision.Slack,
			Epsilon:     collision.DefaultParams().Epsilon,
		},
		WallRestitution: c.Collision.WallRestitution,
		SpinRetention:   c.Collision.SpinRetention,
		MaxDt:           c.MaxDt,
		TrailLimit:      c.Orbital.TrailLimit,
		TrailEvery:      c.Orbital.TrailEvery,
	}
}

func (c *Config) RunConfig() sim.RunConfig {
	return sim.RunConfig{
		Frames:      c.Frames,
		FrameDt:     c.FrameDt,
		SampleEvery: c.SampleEvery,
	}
}

// PendulumParams converts the pendulum section, degrees to radians.
func (c *Config) PendulumParams() physics.PendulumParams {
	p := physics.DefaultPendulumParams()
	p.L1, p.L2 = c.Pendulum.L1, c.Pendulum.L2
	p.M1, p.M2 = c.Pendulum.M1, c.Pendulum.M2
	p.Gravity = c.Pendulum.Gravity
	p.Theta1 = c.Pendulum.Theta1Deg * math.Pi / 180
	p.Theta2 = c.Pendulum.Theta2Deg * math.Pi / 180
	p.Pivot[0], p.Pivot[1] = c.Pendulum.PivotX, c.Pendulum.PivotY
	p.TrailLimit = c.Pendulum.TrailLimit
	return p
}
