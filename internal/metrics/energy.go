package metrics

import (
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Energy is the mean total energy over the observed frames.
type Energy struct {
	name    string
	sum     float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy_mean"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f dynamo.Frame) {
	e.sum += f.Energy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *Energy) Reset() {
	e.sum = 0
	e.samples = 0
}

// EnergyDrift is the largest |E - E0| / |E0| seen, E0 being the first
// observed frame's energy. It stays 0 while E0 is 0.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f dynamo.Frame) {
	if e.samples == 0 {
		e.initialEnergy = f.Energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(f.Energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// Kinetic is the kinetic energy of the latest frame's discs and moving
// bodies. Disc spin counts; the source and bobs do not.
type Kinetic struct {
	name  string
	value float64
}

func NewKinetic() *Kinetic {
	return &Kinetic{name: "kinetic"}
}

func (k *Kinetic) Name() string { return k.name }

func (k *Kinetic) Observe(f dynamo.Frame) {
	k.value = 0
	for _, s := range f.Entities {
		switch s.Kind {
		case dynamo.KindDisc:
			inertia := 0.5 * s.Mass * s.Radius * s.Radius
			k.value += 0.5*s.Mass*s.Velocity.LenSqr() + 0.5*inertia*s.Spin*s.Spin
		case dynamo.KindCelestial:
			k.value += 0.5 * s.Mass * s.Velocity.LenSqr()
		}
	}
}

func (k *Kinetic) Value() float64 { return k.value }

func (k *Kinetic) Reset() { k.value = 0 }
