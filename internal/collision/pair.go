package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Params are the contact coefficients for disc-disc resolution.
type Params struct {
	// Restitution is the fraction of approach speed returned along the
	// normal. 1 is perfectly elastic.
	Restitution float64
	// Friction is the Coulomb coefficient bounding |Jt| <= Friction·|Jn|.
	Friction float64
	// Slack is added to each body's half of the positional correction.
	Slack float64
	// Epsilon is the separation below which the normal falls back to (1, 0).
	Epsilon float64
}

// DefaultParams are elastic contacts with friction 0.5, as in the particle
// sandbox.
func DefaultParams() Params {
	return Params{
		Restitution: 1.0,
		Friction:    0.5,
		Slack:       0.001,
		Epsilon:     1e-6,
	}
}

// Impulse describes what Resolve applied to a pair.
type Impulse struct {
	Normal  mgl64.Vec2
	Tangent mgl64.Vec2
	Jn      float64
	Jt      float64
	Depth   float64
}

// Overlapping reports whether the centers are no farther apart than the sum
// of the radii.
func Overlapping(a, b *dynamo.Disc) bool {
	rs := a.Radius + b.Radius
	return a.Position.Sub(b.Position).LenSqr() <= rs*rs
}

// Resolve applies normal and tangential impulses and a positional correction
// to an overlapping, approaching pair. It reports false, leaving both discs
// untouched, when they do not overlap or are already separating.
func Resolve(a, b *dynamo.Disc, p Params) (Impulse, bool) {
	radiusSum := a.Radius + b.Radius
	d := a.Position.Sub(b.Position)
	dist := d.Len()
	if dist > radiusSum {
		return Impulse{}, false
	}

	// Coincident centers get the canonical axis and count as just touching,
	// so only the slack separates them.
	normal := mgl64.Vec2{1, 0}
	if dist < p.Epsilon {
		dist = radiusSum
	} else {
		normal = d.Mul(1 / dist)
	}
	depth := radiusSum - dist
	tangent := dynamo.Perp(normal)

	rel := a.Velocity.Sub(b.Velocity)
	vn := rel.Dot(normal)
	if vn >= 0 {
		return Impulse{}, false
	}

	invA := 1 / a.Mass
	invB := 1 / b.Mass

	jn := -(1 + p.Restitution) * vn / (invA + invB)
	a.Velocity = a.Velocity.Add(normal.Mul(jn * invA))
	b.Velocity = b.Velocity.Sub(normal.Mul(jn * invB))

	// Sliding speed at the contact uses the approach velocity, before the
	// normal impulse.
	vt := rel.Dot(tangent) + a.AngularVelocity*a.Radius - b.AngularVelocity*b.Radius

	ia, ib := a.Inertia(), b.Inertia()
	invMt := invA + invB
	if ia > 0 {
		invMt += a.Radius * a.Radius / ia
	}
	if ib > 0 {
		invMt += b.Radius * b.Radius / ib
	}

	limit := p.Friction * math.Abs(jn)
	jt := clamp(-vt/invMt, -limit, limit)

	a.Velocity = a.Velocity.Add(tangent.Mul(jt * invA))
	b.Velocity = b.Velocity.Sub(tangent.Mul(jt * invB))
	if ia > 0 {
		a.AngularVelocity += a.Radius * jt / ia
	}
	if ib > 0 {
		b.AngularVelocity -= b.Radius * jt / ib
	}

	correction := normal.Mul(depth/2 + p.Slack)
	a.Position = a.Position.Add(correction)
	b.Position = b.Position.Sub(correction)

	return Impulse{
		Normal:  normal,
		Tangent: tangent,
		Jn:      jn,
		Jt:      jt,
		Depth:   depth,
	}, true
}

// ResolveAll resolves every overlapping pair i < j of discs once, in index
// order, and returns how many pairs received an impulse.
func ResolveAll(discs []dynamo.Disc, p Params) int {
	resolved := 0
	for i := 0; i < len(discs); i++ {
		for j := i + 1; j < len(discs); j++ {
			a, b := &discs[i], &discs[j]
			if !Overlapping(a, b) {
				continue
			}
			if _, ok := Resolve(a, b, p); ok {
				resolved++
			}
		}
	}
	return resolved
}

// Penetration is how far two discs overlap, or 0 when they do not.
func Penetration(a, b *dynamo.Disc) float64 {
	return math.Max(0, a.Radius+b.Radius-a.Position.Sub(b.Position).Len())
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
