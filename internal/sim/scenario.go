package sim

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/physics"
)

var (
	ErrNoSource   = errors.New("sim: orbiter scenario needs a source body")
	ErrNoPendulum = errors.New("sim: pendulum scenario needs a pendulum")
	ErrBadRule    = errors.New("sim: unknown force rule")
)

// ForceRule selects which force model a scenario steps.
type ForceRule int

const (
	// ForceNone moves discs ballistically; walls and collisions still apply.
	ForceNone ForceRule = iota
	// ForceGravity is pairwise gravity between all Bodies.
	ForceGravity
	// ForceOrbiters pulls every body toward Source and nothing else.
	ForceOrbiters
	// ForcePendulum advances the double pendulum.
	ForcePendulum
)

var forceNames = [...]string{"none", "gravity", "orbiters", "pendulum"}

func (r ForceRule) String() string {
	if r >= 0 && int(r) < len(forceNames) {
		return forceNames[r]
	}
	return fmt.Sprintf("ForceRule(%d)", int(r))
}

// ParseForceRule is the inverse of ForceRule.String.
func ParseForceRule(s string) (ForceRule, error) {
	for i, name := range forceNames {
		if name == s {
			return ForceRule(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadRule, s)
}

// Scenario describes what a World steps: its entities, which force acts on
// them, an optional boundary and how frame time maps to simulated time.
type Scenario struct {
	Name  string
	Force ForceRule

	Discs    []dynamo.Disc
	Bodies   []dynamo.Celestial
	Source   *dynamo.Celestial
	Pendulum *physics.DoublePendulum

	// Boundary nil leaves discs unbounded.
	Boundary *dynamo.Boundary
	Collide  bool
	// Extent is the region a renderer shows. It never constrains motion.
	Extent dynamo.Boundary

	TimeScale float64
	Substeps  int

	// SpawnMass and SpawnRadius size discs added at runtime.
	SpawnMass   float64
	SpawnRadius float64
}

// Validate checks that the entities the force rule needs are present.
func (s *Scenario) Validate() error {
	switch s.Force {
	case ForceNone, ForceGravity:
	case ForceOrbiters:
		if s.Source == nil {
			return ErrNoSource
		}
	case ForcePendulum:
		if s.Pendulum == nil {
			return ErrNoPendulum
		}
	default:
		return fmt.Errorf("%w: %d", ErrBadRule, int(s.Force))
	}
	if s.TimeScale <= 0 {
		return fmt.Errorf("sim: time scale must be positive, got %g", s.TimeScale)
	}
	if s.Substeps < 1 {
		return fmt.Errorf("sim: substeps must be at least 1, got %d", s.Substeps)
	}
	return nil
}

// clone deep-copies everything a World mutates so a scenario can be replayed.
func (s Scenario) clone() Scenario {
	c := s
	c.Discs = append([]dynamo.Disc(nil), s.Discs...)
	c.Bodies = append([]dynamo.Celestial(nil), s.Bodies...)
	if s.Source != nil {
		src := *s.Source
		c.Source = &src
	}
	if s.Boundary != nil {
		b := *s.Boundary
		c.Boundary = &b
	}
	if s.Pendulum != nil {
		p := *s.Pendulum
		if s.Pendulum.Trail != nil {
			p.Trail = dynamo.NewTrail(s.Pendulum.Trail.Limit, s.Pendulum.Trail.Every)
		}
		c.Pendulum = &p
	}
	return c
}

// Center is the middle of the boundary, the source, or the pendulum pivot,
// whichever the scenario has first.
func (s *Scenario) Center() mgl64.Vec2 {
	switch {
	case s.Boundary != nil:
		return s.Boundary.Center()
	case s.Source != nil:
		return s.Source.Position
	case s.Pendulum != nil:
		return s.Pendulum.Pivot
	}
	return mgl64.Vec2{}
}
