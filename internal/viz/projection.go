package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Projection maps world coordinates onto canvas dots, keeping the aspect
// ratio and centring the extent. World and screen y both grow downward.
type Projection struct {
	extent  dynamo.Boundary
	scale   float64
	offsetX float64
	offsetY float64
}

func NewProjection(extent dynamo.Boundary, dotsW, dotsH int) Projection {
	w, h := extent.Width(), extent.Height()
	if !(w > 0) || !(h > 0) {
		extent = dynamo.Boundary{Max: mgl64.Vec2{1, 1}}
		w, h = 1, 1
	}
	scale := math.Min(float64(dotsW-1)/w, float64(dotsH-1)/h)
	if scale <= 0 {
		scale = 1
	}
	return Projection{
		extent:  extent,
		scale:   scale,
		offsetX: (float64(dotsW-1) - w*scale) / 2,
		offsetY: (float64(dotsH-1) - h*scale) / 2,
	}
}

func (p Projection) ToDots(pos mgl64.Vec2) (int, int) {
	x := (pos[0]-p.extent.Min[0])*p.scale + p.offsetX
	y := (pos[1]-p.extent.Min[1])*p.scale + p.offsetY
	return int(math.Round(x)), int(math.Round(y))
}

// Length scales a world distance to dots.
func (p Projection) Length(l float64) int {
	return int(math.Round(l * p.scale))
}

// CellToWorld is the world point under the centre of a terminal cell.
func (p Projection) CellToWorld(col, row int) mgl64.Vec2 {
	x := float64(col*2) + 0.5
	y := float64(row*4) + 1.5
	return mgl64.Vec2{
		(x-p.offsetX)/p.scale + p.extent.Min[0],
		(y-p.offsetY)/p.scale + p.extent.Min[1],
	}
}
