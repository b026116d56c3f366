package dynamo

import "math"

// State is a flat state vector. Second-order systems lay it out half-split:
// generalized positions first, their velocities second.
type State []float64

func (s State) Clone() State {
	return append(State(nil), s...)
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Norm is the Euclidean length of s.
func (s State) Norm() float64 {
	var sq float64
	for _, v := range s {
		sq += v * v
	}
	return math.Sqrt(sq)
}

// Add returns s + other. Components past the end of other are copied.
func (s State) Add(other State) State { return s.combine(other, 1) }

// Sub returns s - other. Components past the end of other are copied.
func (s State) Sub(other State) State { return s.combine(other, -1) }

func (s State) Scale(factor float64) State {
	out := make(State, len(s))
	for i, v := range s {
		out[i] = v * factor
	}
	return out
}

func (s State) combine(other State, sign float64) State {
	out := s.Clone()
	for i := range out {
		if i >= len(other) {
			break
		}
		out[i] += sign * other[i]
	}
	return out
}

// System is a first-order ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

// Metric accumulates a scalar over the frames it observes.
type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}
