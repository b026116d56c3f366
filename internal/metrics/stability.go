package metrics

import (
	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Containment is the fraction of observed frames in which every disc and
// moving body lies inside the boundary. Discs are tested with their radius,
// bodies as points.
type Containment struct {
	name       string
	boundary   dynamo.Boundary
	violations int
	samples    int
}

func NewContainment(b dynamo.Boundary) *Containment {
	return &Containment{
		name:     "containment",
		boundary: b,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f dynamo.Frame) {
	c.samples++
	for _, s := range f.Entities {
		var inside bool
		switch s.Kind {
		case dynamo.KindDisc:
			inside = c.boundary.Contains(s.Position, s.Radius)
		case dynamo.KindCelestial:
			inside = c.boundary.Contains(s.Position, 0)
		default:
			continue
		}
		if !inside {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
