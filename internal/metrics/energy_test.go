package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

func frame(energy float64, entities ...dynamo.Snapshot) dynamo.Frame {
	return dynamo.Frame{Energy: energy, Entities: entities}
}

func TestEnergy(t *testing.T) {
	m := NewEnergy()
	m.Observe(frame(10))
	m.Observe(frame(20))

	if m.Value() != 15 {
		t.Errorf("mean energy = %v, want 15", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	tests := []struct {
		name     string
		energies []float64
		want     float64
	}{
		{"constant", []float64{5, 5, 5}, 0},
		{"max not last", []float64{-10, -11, -10.5}, 0.1},
		{"zero start", []float64{0, 3, 4}, 0},
		{"no samples", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewEnergyDrift()
			for _, e := range tt.energies {
				m.Observe(frame(e))
			}
			if math.Abs(m.Value()-tt.want) > 1e-12 {
				t.Errorf("drift = %v, want %v", m.Value(), tt.want)
			}
		})
	}
}

func TestEnergyDrift_ResetTakesNewBaseline(t *testing.T) {
	m := NewEnergyDrift()
	m.Observe(frame(1))
	m.Observe(frame(2))
	m.Reset()
	m.Observe(frame(2))

	if m.Value() != 0 {
		t.Errorf("drift after reset = %v, want 0", m.Value())
	}
}

func TestKinetic(t *testing.T) {
	m := NewKinetic()
	m.Observe(frame(0,
		dynamo.Snapshot{Kind: dynamo.KindDisc, Velocity: mgl64.Vec2{3, 4}, Mass: 2, Radius: 1, Spin: 2},
		dynamo.Snapshot{Kind: dynamo.KindCelestial, Velocity: mgl64.Vec2{1, 0}, Mass: 4},
		dynamo.Snapshot{Kind: dynamo.KindSource, Velocity: mgl64.Vec2{100, 0}, Mass: 1000},
		dynamo.Snapshot{Kind: dynamo.KindBob, Velocity: mgl64.Vec2{100, 0}, Mass: 1000},
	))

	// disc 25 + 2 spin, body 2
	if got := m.Value(); math.Abs(got-29) > 1e-12 {
		t.Errorf("kinetic = %v, want 29", got)
	}
}

func TestMomentumDrift(t *testing.T) {
	m := NewMomentumDrift()
	disc := func(vx float64) dynamo.Snapshot {
		return dynamo.Snapshot{Kind: dynamo.KindDisc, Velocity: mgl64.Vec2{vx, 0}, Mass: 2}
	}

	m.Observe(frame(0, disc(1), disc(-1)))
	m.Observe(frame(0, disc(2), disc(-1)))
	m.Observe(frame(0, disc(1), disc(-1)))

	if m.Value() != 2 {
		t.Errorf("momentum drift = %v, want 2", m.Value())
	}
	if p := Momentum(frame(0, disc(3), disc(1))); p != (mgl64.Vec2{8, 0}) {
		t.Errorf("Momentum = %v", p)
	}
}

func TestContainment(t *testing.T) {
	box, _ := dynamo.NewBoundary(mgl64.Vec2{0, 0}, mgl64.Vec2{100, 100})
	m := NewContainment(box)

	if m.Value() != 1 {
		t.Errorf("empty containment = %v, want 1", m.Value())
	}

	inside := dynamo.Snapshot{Kind: dynamo.KindDisc, Position: mgl64.Vec2{50, 50}, Radius: 5}
	touching := dynamo.Snapshot{Kind: dynamo.KindDisc, Position: mgl64.Vec2{97, 50}, Radius: 5}
	escaped := dynamo.Snapshot{Kind: dynamo.KindCelestial, Position: mgl64.Vec2{150, 50}}
	pivot := dynamo.Snapshot{Kind: dynamo.KindPivot, Position: mgl64.Vec2{-50, 50}}

	m.Observe(frame(0, inside, pivot))
	m.Observe(frame(0, inside, touching))
	m.Observe(frame(0, escaped, touching))
	m.Observe(frame(0, inside))

	if m.Value() != 0.5 {
		t.Errorf("containment = %v, want 0.5", m.Value())
	}
}
