package dynamo

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type Kind uint8

const (
	KindDisc Kind = iota
	KindCelestial
	KindSource
	KindStar
	KindBob
	KindPivot
)

var kindNames = [...]string{"disc", "celestial", "source", "star", "bob", "pivot"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("dynamo: unknown kind %q", b)
	}
	*k = parsed
	return nil
}

// Snapshot is a read-only copy of one entity for renderers and metrics.
type Snapshot struct {
	Kind     Kind
	Index    int
	Position mgl64.Vec2
	Velocity mgl64.Vec2
	Mass     float64
	Radius   float64
	Rotation float64
	Spin     float64
	Color    Color
}

// Frame is everything a renderer needs for one tick.
type Frame struct {
	Time     float64
	Step     int
	Energy   float64
	Entities []Snapshot
	Trails   [][]mgl64.Vec2
}

// DiscSnapshot copies the render fields of disc i.
func DiscSnapshot(i int, d *Disc) Snapshot {
	return Snapshot{
		Kind:     KindDisc,
		Index:    i,
		Position: d.Position,
		Velocity: d.Velocity,
		Mass:     d.Mass,
		Radius:   d.Radius,
		Rotation: d.Rotation,
		Spin:     d.AngularVelocity,
		Color:    d.Color,
	}
}

// CelestialSnapshot copies the render fields of body i.
func CelestialSnapshot(i int, c *Celestial) Snapshot {
	kind := KindCelestial
	if c.IsStar() {
		kind = KindStar
	}
	return Snapshot{
		Kind:     kind,
		Index:    i,
		Position: c.Position,
		Velocity: c.Velocity,
		Mass:     c.Mass,
		Radius:   c.Radius,
		Color:    c.Color,
	}
}
