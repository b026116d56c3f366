package integrators

import "github.com/san-kum/chaoslab/internal/dynamo"

// Verlet is velocity Verlet over a half-split state: positions occupy the
// first half, velocities the second. Each step evaluates the system twice,
// at the current positions and at the predicted ones.
type Verlet struct {
	predicted dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(v.predicted) != n {
		v.predicted = make(dynamo.State, n)
	}

	out := make(dynamo.State, n)
	acc := dyn.Derive(x, t)

	for i := 0; i < half; i++ {
		out[i] = x[i] + x[half+i]*dt + 0.5*acc[half+i]*dt*dt
		v.predicted[i] = out[i]
		v.predicted[half+i] = x[half+i]
	}

	accNext := dyn.Derive(v.predicted, t+dt)

	for i := 0; i < half; i++ {
		out[half+i] = x[half+i] + 0.5*(acc[half+i]+accNext[half+i])*dt
	}
	return out
}

// Leapfrog is the kick-drift-kick form of the same scheme.
type Leapfrog struct {
	mid dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(l.mid) != n {
		l.mid = make(dynamo.State, n)
	}

	out := make(dynamo.State, n)
	acc := dyn.Derive(x, t)

	// kick, drift
	for i := 0; i < half; i++ {
		l.mid[half+i] = x[half+i] + 0.5*acc[half+i]*dt
		l.mid[i] = x[i] + l.mid[half+i]*dt
		out[i] = l.mid[i]
	}

	// kick
	accNext := dyn.Derive(l.mid, t+dt)
	for i := 0; i < half; i++ {
		out[half+i] = l.mid[half+i] + 0.5*accNext[half+i]*dt
	}
	return out
}
