package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/physics"
)

// RadiusDrift tracks how far one orbiter's distance from the source strays
// from its first observed value, as max |r - r0| / r0.
type RadiusDrift struct {
	name     string
	index    int
	r0       float64
	maxDrift float64
	samples  int
}

func NewRadiusDrift(index int) *RadiusDrift {
	return &RadiusDrift{
		name:  fmt.Sprintf("radius_drift_%d", index),
		index: index,
	}
}

func (r *RadiusDrift) Name() string { return r.name }

func (r *RadiusDrift) Observe(f dynamo.Frame) {
	src, body, ok := orbiter(f, r.index)
	if !ok {
		return
	}
	dist := body.Position.Sub(src.Position).Len()
	if r.samples == 0 {
		r.r0 = dist
	}
	r.samples++
	if r.r0 > 0 {
		r.maxDrift = math.Max(r.maxDrift, math.Abs(dist-r.r0)/r.r0)
	}
}

func (r *RadiusDrift) Value() float64 { return r.maxDrift }

func (r *RadiusDrift) Reset() {
	r.r0 = 0
	r.maxDrift = 0
	r.samples = 0
}

// Eccentricity is the latest osculating eccentricity of one orbiter about
// the source.
type Eccentricity struct {
	name  string
	g     float64
	index int
	value float64
}

func NewEccentricity(g float64, index int) *Eccentricity {
	return &Eccentricity{
		name:  fmt.Sprintf("eccentricity_%d", index),
		g:     g,
		index: index,
	}
}

func (e *Eccentricity) Name() string { return e.name }

func (e *Eccentricity) Observe(f dynamo.Frame) {
	src, body, ok := orbiter(f, e.index)
	if !ok {
		return
	}
	el := physics.OrbitalElements(e.g, src.Mass, src.Position, body.Position, body.Velocity)
	e.value = el.Eccentricity
}

func (e *Eccentricity) Value() float64 { return e.value }

func (e *Eccentricity) Reset() { e.value = 0 }

func orbiter(f dynamo.Frame, index int) (src, body dynamo.Snapshot, ok bool) {
	var haveSrc, haveBody bool
	for _, s := range f.Entities {
		switch {
		case s.Kind == dynamo.KindSource:
			src, haveSrc = s, true
		case s.Kind == dynamo.KindCelestial && s.Index == index:
			body, haveBody = s, true
		}
	}
	return src, body, haveSrc && haveBody
}
