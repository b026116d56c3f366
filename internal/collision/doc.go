// Package collision implements swept boundary contact and impulse-based
// disc-disc resolution.
//
// # Boundary
//
// ComputeTOI returns the earliest normalized time in [0, 1] at which a disc
// moving by v·dt first touches the boundary, or NoCollision. ResolveWall
// consumes that result: it moves the disc to contact, reflects the touching
// velocity components scaled by restitution, moves the remainder of the step
// and finally clamps the position inside the boundary.
//
// # Pairs
//
// Resolve applies a normal impulse, a Coulomb-clamped tangential impulse that
// couples sliding to spin, and a positional correction. Pairs that are
// already separating are skipped. ResolveAll sweeps every pair of a slice
// once, mutating the discs in place through their indices.
//
// Nothing here allocates per call or logs. Callers own the slices and are
// expected to step from a single goroutine.
package collision
