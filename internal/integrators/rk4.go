package integrators

import "github.com/san-kum/chaoslab/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta scheme. It is accurate per step
// but not symplectic, so orbital energy still creeps over long runs.
type RK4 struct {
	k       [4]dynamo.State
	scratch dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) resize(n int) {
	if len(r.scratch) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(dynamo.State, n)
	}
	r.scratch = make(dynamo.State, n)
}

// stage stores the slope at x + h*k in dst. Derive may hand back a buffer
// it reuses, so the slope is copied out.
func (r *RK4) stage(dyn dynamo.System, dst, x, k dynamo.State, h, t float64) {
	for i := range x {
		r.scratch[i] = x[i] + h*k[i]
	}
	copy(dst, dyn.Derive(r.scratch, t))
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	r.resize(len(x))
	half := dt * 0.5

	copy(r.k[0], dyn.Derive(x, t))
	r.stage(dyn, r.k[1], x, r.k[0], half, t+half)
	r.stage(dyn, r.k[2], x, r.k[1], half, t+half)
	r.stage(dyn, r.k[3], x, r.k[2], dt, t+dt)

	next := make(dynamo.State, len(x))
	dt6 := dt / 6.0
	for i := range x {
		next[i] = x[i] + dt6*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return next
}
