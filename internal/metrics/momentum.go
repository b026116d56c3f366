package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// MomentumDrift is the largest |P - P0| seen, P being the total linear
// momentum of discs and moving bodies.
type MomentumDrift struct {
	name     string
	initial  mgl64.Vec2
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(f dynamo.Frame) {
	p := Momentum(f)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec2{}
	m.maxDrift = 0
	m.samples = 0
}

func Momentum(f dynamo.Frame) mgl64.Vec2 {
	var p mgl64.Vec2
	for _, s := range f.Entities {
		if s.Kind == dynamo.KindDisc || s.Kind == dynamo.KindCelestial {
			p = p.Add(s.Velocity.Mul(s.Mass))
		}
	}
	return p
}
