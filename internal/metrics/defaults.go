package metrics

import (
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/sim"
)

// ForScenario picks the diagnostics that mean something for s.
func ForScenario(s *sim.Scenario, p sim.Params) []dynamo.Metric {
	ms := []dynamo.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewKinetic(),
	}

	switch s.Force {
	case sim.ForceGravity:
		ms = append(ms, NewMomentumDrift())
	case sim.ForceNone:
		// Walls exchange momentum with the discs.
		if s.Boundary == nil {
			ms = append(ms, NewMomentumDrift())
		}
	case sim.ForceOrbiters:
		for i := range s.Bodies {
			if !s.Bodies[i].IsStar() {
				ms = append(ms, NewRadiusDrift(i), NewEccentricity(p.G, i))
				break
			}
		}
	}
	if s.Boundary != nil {
		ms = append(ms, NewContainment(*s.Boundary))
	}
	return ms
}
