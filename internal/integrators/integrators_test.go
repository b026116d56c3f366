package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// oscillator is x'' = -x laid out as [x, v].
type oscillator struct {
	calls int
}

func (o *oscillator) Derive(x dynamo.State, t float64) dynamo.State {
	o.calls++
	return dynamo.State{x[1], -x[0]}
}

func (o *oscillator) StateDim() int { return 2 }

func (o *oscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func run(integ dynamo.Integrator, dyn dynamo.System, x dynamo.State, dt float64, steps int) dynamo.State {
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}
	return x
}

func TestRK4Accuracy(t *testing.T) {
	dyn := &oscillator{}
	dt := 0.01
	steps := 100

	x := run(NewRK4(), dyn, dynamo.State{1.0, 0.0}, dt, steps)

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEnergyBehaviour(t *testing.T) {
	tests := []struct {
		name     string
		integ    dynamo.Integrator
		maxDrift float64
	}{
		{"verlet", NewVerlet(), 1e-3},
		{"leapfrog", NewLeapfrog(), 1e-3},
		{"semi", NewSemiImplicitEuler(), 0.06},
		{"rk4", NewRK4(), 1e-5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dyn := &oscillator{}
			x0 := dynamo.State{1.0, 0.0}
			e0 := dyn.Energy(x0)

			x := run(tt.integ, dyn, x0, 0.05, 10000)

			drift := math.Abs(dyn.Energy(x)-e0) / e0
			if drift > tt.maxDrift {
				t.Errorf("energy drift %.3e exceeds %.3e", drift, tt.maxDrift)
			}
		})
	}
}

func TestEulerGainsEnergy(t *testing.T) {
	dyn := &oscillator{}
	x0 := dynamo.State{1.0, 0.0}

	x := run(NewEuler(), dyn, x0, 0.05, 1000)

	if dyn.Energy(x) <= dyn.Energy(x0)*2 {
		t.Errorf("expected explicit Euler to blow up, energy %.3f", dyn.Energy(x))
	}
}

func TestVerletEvaluatesTwicePerStep(t *testing.T) {
	dyn := &oscillator{}
	run(NewVerlet(), dyn, dynamo.State{1, 0}, 0.01, 10)
	if dyn.calls != 20 {
		t.Errorf("Derive called %d times, want 20", dyn.calls)
	}
}

func TestVerletReversible(t *testing.T) {
	dyn := &oscillator{}
	integ := NewVerlet()
	x0 := dynamo.State{0.3, -1.2}

	x := integ.Step(dyn, x0, 0, 0.1)
	x[1] = -x[1]
	x = integ.Step(dyn, x, 0.1, 0.1)
	x[1] = -x[1]

	for i := range x0 {
		if math.Abs(x[i]-x0[i]) > 1e-12 {
			t.Errorf("component %d: got %.15f, want %.15f", i, x[i], x0[i])
		}
	}
}

func TestLeapfrogMatchesVerlet(t *testing.T) {
	dyn := &oscillator{}
	a := run(NewVerlet(), dyn, dynamo.State{1, 0.5}, 0.02, 500)
	b := run(NewLeapfrog(), dyn, dynamo.State{1, 0.5}, 0.02, 500)

	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			t.Errorf("component %d: verlet %.12f leapfrog %.12f", i, a[i], b[i])
		}
	}
}

func TestSemiImplicitEulerOrder(t *testing.T) {
	x := NewSemiImplicitEuler().Step(&oscillator{}, dynamo.State{1, 0}, 0, 0.1)
	// v = 0 - 0.1*1, then x = 1 + 0.1*v
	if math.Abs(x[1]+0.1) > 1e-15 || math.Abs(x[0]-0.99) > 1e-15 {
		t.Errorf("got %v, want [0.99 -0.1]", x)
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		integ, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		x := integ.Step(&oscillator{}, dynamo.State{1, 0}, 0, 0.01)
		if !x.IsValid() {
			t.Errorf("%s produced invalid state", name)
		}
	}

	if _, err := New("bogus"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}
