package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

type PendulumParams struct {
	L1, L2  float64
	M1, M2  float64
	Gravity float64

	// Angles in radians, measured from straight down.
	Theta1, Theta2 float64
	Omega1, Omega2 float64

	Pivot mgl64.Vec2

	// TrailLimit 0 keeps the whole path of the second bob.
	TrailLimit int
	TrailEvery int
}

// DefaultPendulumParams start both arms of length 150 and mass 20 from
// 180 and 90 degrees.
func DefaultPendulumParams() PendulumParams {
	return PendulumParams{
		L1:         150,
		L2:         150,
		M1:         20,
		M2:         20,
		Gravity:    9.81,
		Theta1:     math.Pi,
		Theta2:     math.Pi / 2,
		Pivot:      mgl64.Vec2{450, 200},
		TrailEvery: 1,
	}
}

// DoublePendulum is a two-link pendulum in screen coordinates: y grows
// downward and bob positions are pivot + (L·sin θ, L·cos θ). Positions are
// derived from the angles on demand and never stored.
type DoublePendulum struct {
	L1, L2  float64
	M1, M2  float64
	Gravity float64

	Theta1, Theta2 float64
	Omega1, Omega2 float64

	Pivot mgl64.Vec2
	Trail *dynamo.Trail
}

// NewDoublePendulum rejects non-positive masses and lengths.
func NewDoublePendulum(p PendulumParams) (*DoublePendulum, error) {
	checks := []struct {
		field string
		value float64
		ok    bool
		err   error
	}{
		{"m1", p.M1, p.M1 > 0, dynamo.ErrInvalidMass},
		{"m2", p.M2, p.M2 > 0, dynamo.ErrInvalidMass},
		{"l1", p.L1, p.L1 > 0, dynamo.ErrInvalidLength},
		{"l2", p.L2, p.L2 > 0, dynamo.ErrInvalidLength},
	}
	for _, c := range checks {
		if !c.ok || math.IsInf(c.value, 0) {
			return nil, &dynamo.ValidationError{Entity: "pendulum", Field: c.field, Value: c.value, Wrapped: c.err}
		}
	}

	return &DoublePendulum{
		L1:      p.L1,
		L2:      p.L2,
		M1:      p.M1,
		M2:      p.M2,
		Gravity: p.Gravity,
		Theta1:  p.Theta1,
		Theta2:  p.Theta2,
		Omega1:  p.Omega1,
		Omega2:  p.Omega2,
		Pivot:   p.Pivot,
		Trail:   dynamo.NewTrail(p.TrailLimit, p.TrailEvery),
	}, nil
}

// accelerations is the closed-form Lagrangian solution for θ1'' and θ2''.
func (d *DoublePendulum) accelerations(th1, th2, w1, w2 float64) (a1, a2 float64) {
	m1, m2, l1, l2, g := d.M1, d.M2, d.L1, d.L2, d.Gravity

	den := 2*m1 + m2 - m2*math.Cos(2*th1-2*th2)

	num1 := -g * (2*m1 + m2) * math.Sin(th1)
	num2 := -m2 * g * math.Sin(th1-2*th2)
	num3 := -2 * math.Sin(th1-th2) * m2
	num4 := w2*w2*l2 + w1*w1*l1*math.Cos(th1-th2)
	a1 = (num1 + num2 + num3*num4) / (l1 * den)

	num5 := 2 * math.Sin(th1-th2)
	num6 := w1 * w1 * l1 * (m1 + m2)
	num7 := g * (m1 + m2) * math.Cos(th1)
	num8 := w2 * w2 * l2 * m2 * math.Cos(th1-th2)
	a2 = (num5 * (num6 + num7 + num8)) / (l2 * den)

	return a1, a2
}

// Accelerations returns θ1'' and θ2'' at the current state.
func (d *DoublePendulum) Accelerations() (a1, a2 float64) {
	return d.accelerations(d.Theta1, d.Theta2, d.Omega1, d.Omega2)
}

// Step advances by dt with semi-implicit Euler in a fixed order: both
// accelerations first, then ω1, θ1, ω2, θ2. The second bob is then pushed
// onto the trail.
func (d *DoublePendulum) Step(dt float64) {
	a1, a2 := d.Accelerations()

	d.Omega1 += a1 * dt
	d.Theta1 += d.Omega1 * dt
	d.Omega2 += a2 * dt
	d.Theta2 += d.Omega2 * dt

	d.RecordTrail()
}

// RecordTrail pushes the current second bob position onto the trail.
func (d *DoublePendulum) RecordTrail() {
	if d.Trail == nil {
		return
	}
	_, b2 := d.Bobs()
	d.Trail.Push(b2)
}

// Bobs derives both bob positions from the pivot and the current angles.
// Screen y grows downward, so theta 0 hangs straight down.
func (d *DoublePendulum) Bobs() (b1, b2 mgl64.Vec2) {
	b1 = d.Pivot.Add(mgl64.Vec2{d.L1 * math.Sin(d.Theta1), d.L1 * math.Cos(d.Theta1)})
	b2 = b1.Add(mgl64.Vec2{d.L2 * math.Sin(d.Theta2), d.L2 * math.Cos(d.Theta2)})
	return b1, b2
}

// State returns [θ1, θ2, ω1, ω2].
func (d *DoublePendulum) State() dynamo.State {
	return dynamo.State{d.Theta1, d.Theta2, d.Omega1, d.Omega2}
}

// SetState loads (theta1, theta2, omega1, omega2).
func (d *DoublePendulum) SetState(x dynamo.State) {
	d.Theta1, d.Theta2, d.Omega1, d.Omega2 = x[0], x[1], x[2], x[3]
}

func (d *DoublePendulum) StateDim() int { return 4 }

// Derive implements dynamo.System over (theta1, theta2, omega1, omega2).
func (d *DoublePendulum) Derive(x dynamo.State, t float64) dynamo.State {
	a1, a2 := d.accelerations(x[0], x[1], x[2], x[3])
	return dynamo.State{x[2], x[3], a1, a2}
}

// Energy uses height above the pivot, so the hanging rest state is the
// minimum.
func (d *DoublePendulum) Energy(x dynamo.State) float64 {
	th1, th2, w1, w2 := x[0], x[1], x[2], x[3]
	m1, m2, l1, l2, g := d.M1, d.M2, d.L1, d.L2, d.Gravity

	v1sq := l1 * l1 * w1 * w1
	v2sq := l1*l1*w1*w1 + l2*l2*w2*w2 +
		2*l1*l2*w1*w2*math.Cos(th1-th2)

	ke := 0.5*m1*v1sq + 0.5*m2*v2sq
	y1 := -l1 * math.Cos(th1)
	y2 := y1 - l2*math.Cos(th2)
	pe := m1*g*y1 + m2*g*y2

	return ke + pe
}

// GetParams lists the tunable parameters by name.
func (d *DoublePendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"l1":      d.L1,
		"l2":      d.L2,
		"m1":      d.M1,
		"m2":      d.M2,
		"gravity": d.Gravity,
	}
}

// SetParam changes one physical parameter in place, keeping the angles.
func (d *DoublePendulum) SetParam(name string, value float64) error {
	invalid := func(err error) error {
		return &dynamo.ValidationError{Entity: "pendulum", Field: name, Value: value, Wrapped: err}
	}

	switch name {
	case "l1", "l2":
		if !(value > 0) {
			return invalid(dynamo.ErrInvalidLength)
		}
		if name == "l1" {
			d.L1 = value
		} else {
			d.L2 = value
		}
	case "m1", "m2":
		if !(value > 0) {
			return invalid(dynamo.ErrInvalidMass)
		}
		if name == "m1" {
			d.M1 = value
		} else {
			d.M2 = value
		}
	case "gravity":
		d.Gravity = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
