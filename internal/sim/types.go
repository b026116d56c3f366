package sim

import (
	"github.com/san-kum/chaoslab/internal/collision"
	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Params are the physical constants a World runs with. None of them are
// baked into the force models; they arrive here from configuration.
type Params struct {
	G       float64
	Epsilon float64

	Collision       collision.Params
	WallRestitution float64
	// SpinRetention scales every disc's angular velocity once per step.
	SpinRetention float64

	// MaxDt caps a single frame's wall-clock delta before time scaling.
	MaxDt float64

	TrailLimit int
	TrailEvery int
}

// DefaultParams are the particle sandbox constants.
func DefaultParams() Params {
	return Params{
		G:               1.0,
		Epsilon:         1e-3,
		Collision:       collision.DefaultParams(),
		WallRestitution: 1.0,
		SpinRetention:   0.99,
		MaxDt:           0.25,
		TrailLimit:      300,
		TrailEvery:      2,
	}
}

type RunConfig struct {
	Frames  int
	FrameDt float64
	// SampleEvery records one frame in every SampleEvery; 0 or 1 keeps all.
	SampleEvery int
}

type Result struct {
	Frames     []dynamo.Frame
	Times      []float64
	Series     map[string][]float64
	Metrics    map[string]float64
	StepsTaken int
	// EnergyDrift is |E_end - E_start| / |E_start|, 0 when E_start is 0.
	EnergyDrift float64
}
