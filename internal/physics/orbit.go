package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CircularSpeed is the speed of a circular orbit of radius r around mass.
func CircularSpeed(g, mass, r float64) float64 {
	return math.Sqrt(g * mass / r)
}

// VisViva is the orbital speed at distance r on an orbit with semi-major
// axis a. At perihelion this starts a planet on its ellipse.
func VisViva(g, mass, r, a float64) float64 {
	return math.Sqrt(g * mass * (2/r - 1/a))
}

// Elements describes a two-body orbit relative to a fixed source.
type Elements struct {
	Radius          float64
	Speed           float64
	SpecificEnergy  float64 // v²/2 - μ/r
	AngularMomentum float64 // z component of r × v
	SemiMajorAxis   float64 // +Inf for unbound orbits
	Eccentricity    float64
}

// OrbitalElements computes the osculating two-body elements of pos, vel
// around a source of the given mass.
func OrbitalElements(g, mass float64, source, pos, vel mgl64.Vec2) Elements {
	mu := g * mass
	r := pos.Sub(source)
	e := Elements{
		Radius: r.Len(),
		Speed:  vel.Len(),
	}
	if e.Radius == 0 || mu == 0 {
		e.SemiMajorAxis = math.Inf(1)
		return e
	}

	e.SpecificEnergy = 0.5*e.Speed*e.Speed - mu/e.Radius
	e.AngularMomentum = r[0]*vel[1] - r[1]*vel[0]

	if e.SpecificEnergy < 0 {
		e.SemiMajorAxis = -mu / (2 * e.SpecificEnergy)
	} else {
		e.SemiMajorAxis = math.Inf(1)
	}

	ecc2 := 1 + 2*e.SpecificEnergy*e.AngularMomentum*e.AngularMomentum/(mu*mu)
	e.Eccentricity = math.Sqrt(math.Max(0, ecc2))
	return e
}
