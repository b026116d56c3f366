package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

const (
	background    = "#0a0a0a"
	defaultStroke = dynamo.Color("#00ff00")
	trailStroke   = "#555555"
	rodStroke     = "#e0e0e0"
)

// FrameSVG renders one frame width pixels wide. World y grows downward, as
// it does in SVG. A degenerate extent is replaced by one enclosing every
// entity.
func FrameSVG(f dynamo.Frame, extent dynamo.Boundary, width int) string {
	if !(extent.Width() > 0) || !(extent.Height() > 0) {
		extent = entityExtent(f)
	}
	if width < 1 {
		width = 800
	}
	scale := float64(width) / extent.Width()
	height := int(math.Ceil(extent.Height() * scale))
	at := func(p mgl64.Vec2) (float64, float64) {
		return (p[0] - extent.Min[0]) * scale, (p[1] - extent.Min[1]) * scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	for _, pts := range f.Trails {
		if len(pts) < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1" d="`, trailStroke)
		for i, p := range pts {
			x, y := at(p)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	var pivot, bob1 *dynamo.Snapshot
	for i := range f.Entities {
		e := &f.Entities[i]
		x, y := at(e.Position)
		r := math.Max(e.Radius*scale, 1)
		fill := colorOf(e.Color)

		switch e.Kind {
		case dynamo.KindPivot:
			pivot = e
		case dynamo.KindBob:
			prev := pivot
			if e.Index == 2 {
				prev = bob1
			} else {
				bob1 = e
			}
			if prev != nil {
				px, py := at(prev.Position)
				fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
`, px, py, x, y, rodStroke)
			}
		}

		if e.Kind == dynamo.KindDisc && r > 1 {
			sx, sy := x+r*math.Cos(e.Rotation), y+r*math.Sin(e.Rotation)
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
`, x, y, r, fill, x, y, sx, sy, fill)
			continue
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, r, fill)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectorySVG draws points as one polyline with y growing upward, for
// plots in mathematical axes such as phase portraits.
func TrajectorySVG(points []mgl64.Vec2, width, height int, stroke dynamo.Color) string {
	if len(points) < 2 {
		return ""
	}
	box := dynamo.Enclose(points, 0.1)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, colorOf(stroke))

	for i, p := range points {
		x := (p[0] - box.Min[0]) / box.Width() * float64(width)
		y := float64(height) - (p[1]-box.Min[1])/box.Height()*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func colorOf(c dynamo.Color) dynamo.Color {
	if _, _, _, ok := c.RGB(); ok {
		return c
	}
	return defaultStroke
}

func entityExtent(f dynamo.Frame) dynamo.Boundary {
	points := make([]mgl64.Vec2, 0, 2*len(f.Entities))
	for _, e := range f.Entities {
		r := mgl64.Vec2{e.Radius, e.Radius}
		points = append(points, e.Position.Sub(r), e.Position.Add(r))
	}
	for _, pts := range f.Trails {
		points = append(points, pts...)
	}
	return dynamo.Enclose(points, 0.1)
}
