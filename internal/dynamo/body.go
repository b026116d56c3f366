package dynamo

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Color is a "#rrggbb" hex string. Renderers decide how to map it.
type Color string

// RGB parses the hex form. ok is false for anything else.
func (c Color) RGB() (r, g, b uint8, ok bool) {
	if len(c) != 7 || c[0] != '#' {
		return 0, 0, 0, false
	}
	n, err := fmt.Sscanf(string(c), "#%02x%02x%02x", &r, &g, &b)
	return r, g, b, err == nil && n == 3
}

// Disc is a rigid circular body. Discs live in a slice owned by the
// simulation; collision code mutates them through indices into that slice.
type Disc struct {
	Position mgl64.Vec2
	Velocity mgl64.Vec2
	Mass     float64
	Radius   float64

	AngularVelocity     float64 // rad/s
	AngularAcceleration float64 // rad/s²
	Rotation            float64 // rad

	Color Color
}

// NewDisc validates mass > 0 and radius >= 0.
func NewDisc(pos, vel mgl64.Vec2, mass, radius float64) (Disc, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return Disc{}, &ValidationError{Entity: "disc", Field: "mass", Value: mass, Wrapped: ErrInvalidMass}
	}
	if !(radius >= 0) || math.IsInf(radius, 0) {
		return Disc{}, &ValidationError{Entity: "disc", Field: "radius", Value: radius, Wrapped: ErrInvalidRadius}
	}
	return Disc{
		Position: pos,
		Velocity: vel,
		Mass:     mass,
		Radius:   radius,
	}, nil
}

// Inertia is the moment of inertia of a uniform solid disc.
func (d *Disc) Inertia() float64 {
	return 0.5 * d.Mass * d.Radius * d.Radius
}

// Spin advances rotation, then scales the angular velocity by retention
// (1 keeps it, 0.99 is the sandbox default).
func (d *Disc) Spin(dt, retention float64) {
	d.Rotation += d.AngularVelocity * dt
	d.AngularVelocity += d.AngularAcceleration * dt
	d.AngularVelocity *= retention
}

func (d *Disc) Momentum() mgl64.Vec2 {
	return d.Velocity.Mul(d.Mass)
}

// KineticEnergy includes the rotational term.
func (d *Disc) KineticEnergy() float64 {
	return 0.5*d.Mass*d.Velocity.LenSqr() + 0.5*d.Inertia()*d.AngularVelocity*d.AngularVelocity
}

// Celestial is a gravitating body. Mass 0 marks a star: drawn, never
// attracting or attracted.
type Celestial struct {
	Name     string
	Position mgl64.Vec2
	Velocity mgl64.Vec2
	Mass     float64
	Radius   float64 // visual only
	Color    Color
}

// NewCelestial validates mass >= 0 and radius >= 0.
func NewCelestial(pos, vel mgl64.Vec2, mass, radius float64) (Celestial, error) {
	if !(mass >= 0) || math.IsInf(mass, 0) {
		return Celestial{}, &ValidationError{Entity: "celestial", Field: "mass", Value: mass, Wrapped: ErrInvalidMass}
	}
	if !(radius >= 0) || math.IsInf(radius, 0) {
		return Celestial{}, &ValidationError{Entity: "celestial", Field: "radius", Value: radius, Wrapped: ErrInvalidRadius}
	}
	return Celestial{
		Position: pos,
		Velocity: vel,
		Mass:     mass,
		Radius:   radius,
	}, nil
}

// NewStar returns a massless body at rest.
func NewStar(pos mgl64.Vec2, radius float64) (Celestial, error) {
	return NewCelestial(pos, mgl64.Vec2{}, 0, radius)
}

// IsStar reports a decorative body that takes no part in gravity.
func (c *Celestial) IsStar() bool { return c.Mass == 0 }

// Perp rotates v by +90°.
func Perp(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v[1], v[0]}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
