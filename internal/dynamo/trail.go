package dynamo

import "github.com/go-gl/mathgl/mgl64"

// Trail is a FIFO of past positions. Limit 0 keeps every point.
// Every > 1 records only one of every Every pushes.
type Trail struct {
	Limit int
	Every int

	points  []mgl64.Vec2
	counter int
}

// NewTrail keeps at most limit points, unbounded when limit is 0, sampling
// one push out of every.
func NewTrail(limit, every int) *Trail {
	if limit < 0 {
		limit = 0
	}
	if every < 1 {
		every = 1
	}
	return &Trail{Limit: limit, Every: every}
}

// Push records p subject to the sampling interval and evicts the oldest
// point past the limit.
func (t *Trail) Push(p mgl64.Vec2) {
	t.counter++
	if t.counter < t.Every {
		return
	}
	t.counter = 0

	t.points = append(t.points, p)
	if t.Limit > 0 && len(t.points) > t.Limit {
		n := copy(t.points, t.points[len(t.points)-t.Limit:])
		t.points = t.points[:n]
	}
}

// Points returns a copy, oldest first.
func (t *Trail) Points() []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(t.points))
	copy(out, t.points)
	return out
}

func (t *Trail) Len() int { return len(t.points) }

func (t *Trail) Clear() {
	t.points = t.points[:0]
	t.counter = 0
}
