// Package dynamo provides the entity state and core primitives shared by the
// physics packages.
//
// The package defines the bodies the simulation mutates and the interfaces the
// integrators and drivers are written against:
//
//   - [Disc]: rigid disc with linear and rotational state
//   - [Celestial]: gravitating body (mass 0 marks a decorative star)
//   - [Boundary]: immutable axis-aligned rectangle
//   - [Trail]: bounded or unbounded position history
//   - [Frame]: read-only per-frame snapshot handed to renderers
//   - [System], [Integrator]: state-vector dynamics and steppers
//
// # Construction
//
// Bodies are validated once, at construction. Invalid mass or radius is
// reported as a [*ValidationError] wrapping [ErrInvalidMass] or
// [ErrInvalidRadius]:
//
//	d, err := dynamo.NewDisc(pos, vel, 1, 5)
//	if errors.Is(err, dynamo.ErrInvalidMass) {
//	    ...
//	}
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. One tick owns the
// bodies for its duration.
package dynamo
