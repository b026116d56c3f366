package sim

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/collision"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/physics"
)

// World owns every entity of one running scenario and advances them one
// frame at a time. It is not safe for concurrent use.
type World struct {
	initial Scenario
	scn     Scenario
	params  Params

	gravity   *physics.NBody
	pendInteg dynamo.Integrator
	trails    []*dynamo.Trail

	time   float64
	steps  int
	frames int

	logger    *log.Logger
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

type Option func(*World)

// WithLogger sets the logger for clamping, spawn and trail events.
func WithLogger(l *log.Logger) Option {
	return func(w *World) { w.logger = l }
}

// WithMetric adds one metric observed on every frame.
func WithMetric(m dynamo.Metric) Option {
	return func(w *World) { w.metrics = append(w.metrics, m) }
}

// WithMetricsFor adds the metrics pick chooses for the world's scenario
// and parameters.
func WithMetricsFor(pick func(*Scenario, Params) []dynamo.Metric) Option {
	return func(w *World) { w.metrics = append(w.metrics, pick(&w.initial, w.params)...) }
}

// WithObserver registers o to receive every frame.
func WithObserver(o dynamo.Observer) Option {
	return func(w *World) { w.observers = append(w.observers, o) }
}

// WithIntegrator replaces velocity Verlet for gravity and the closed-form
// semi-implicit step for the pendulum.
func WithIntegrator(integ dynamo.Integrator) Option {
	return func(w *World) {
		w.gravity.WithIntegrator(integ)
		w.pendInteg = integ
	}
}

// New validates s and builds a world ready to tick. The scenario is copied,
// so Reset can restore it.
func New(s Scenario, p Params, opts ...Option) (*World, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if !(p.MaxDt > 0) {
		return nil, fmt.Errorf("sim: max dt must be positive, got %g", p.MaxDt)
	}

	w := &World{
		initial: s.clone(),
		params:  p,
		gravity: physics.NewNBody(p.G, p.Epsilon),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.load()
	return w, nil
}

func (w *World) load() {
	w.scn = w.initial.clone()
	w.trails = make([]*dynamo.Trail, len(w.scn.Bodies))
	for i := range w.trails {
		w.trails[i] = dynamo.NewTrail(w.params.TrailLimit, w.params.TrailEvery)
	}
	w.time, w.steps, w.frames = 0, 0, 0
	for _, m := range w.metrics {
		m.Reset()
	}
}

// Reset discards every entity and rebuilds the scenario as it was created.
func (w *World) Reset() {
	w.load()
	w.logger.Debug("world reset", "scenario", w.scn.Name)
}

// Tick advances one rendered frame. frameDt is clamped to MaxDt, scaled by
// the scenario's time scale and split into equal substeps. Trails, metrics
// and observers see the resulting frame.
func (w *World) Tick(frameDt float64) (dynamo.Frame, error) {
	if frameDt > w.params.MaxDt {
		w.logger.Debug("frame dt clamped", "dt", frameDt, "max", w.params.MaxDt)
		frameDt = w.params.MaxDt
	}
	if frameDt < 0 {
		frameDt = 0
	}

	h := frameDt * w.scn.TimeScale / float64(w.scn.Substeps)
	for i := 0; i < w.scn.Substeps; i++ {
		w.Step(h)
	}

	if !w.valid() {
		return dynamo.Frame{}, &dynamo.SimError{Step: w.steps, Time: w.time, Wrapped: dynamo.ErrUnstable}
	}

	for i := range w.scn.Bodies {
		w.trails[i].Push(w.scn.Bodies[i].Position)
	}
	w.frames++

	f := w.Frame()
	for _, m := range w.metrics {
		m.Observe(f)
	}
	for _, o := range w.observers {
		o.OnFrame(f)
	}
	return f, nil
}

// Step advances the simulation by h without any clamping: the force model
// first, then every disc spins and moves against the walls, then disc pairs
// are resolved. Containment holds after the wall pass; the pair correction
// that follows may push a disc past a wall until the next step clamps it.
func (w *World) Step(h float64) {
	w.applyForces(h)
	w.moveDiscs(h)
	if w.scn.Collide {
		collision.ResolveAll(w.scn.Discs, w.params.Collision)
	}

	w.time += h
	w.steps++
}

func (w *World) applyForces(h float64) {
	switch w.scn.Force {
	case ForceGravity:
		w.gravity.Step(w.scn.Bodies, h)
	case ForceOrbiters:
		w.gravity.StepOrbiters(*w.scn.Source, w.scn.Bodies, h)
	case ForcePendulum:
		p := w.scn.Pendulum
		if w.pendInteg == nil {
			p.Step(h)
		} else {
			p.SetState(w.pendInteg.Step(p, p.State(), w.time, h))
			p.RecordTrail()
		}
	}
}

// moveDiscs spins every disc and advances it, through the wall resolver when
// the scenario has a boundary.
func (w *World) moveDiscs(h float64) {
	for i := range w.scn.Discs {
		d := &w.scn.Discs[i]
		d.Spin(h, w.params.SpinRetention)
		if w.scn.Boundary != nil {
			collision.ResolveWall(d, h, *w.scn.Boundary, w.params.WallRestitution)
		} else {
			d.Position = d.Position.Add(d.Velocity.Mul(h))
		}
	}
}

// Spawn validates d like any startup disc, clamps it into the boundary and
// appends it. It returns the new disc's index.
func (w *World) Spawn(d dynamo.Disc) (int, error) {
	nd, err := dynamo.NewDisc(d.Position, d.Velocity, d.Mass, d.Radius)
	if err != nil {
		return -1, fmt.Errorf("spawn: %w", err)
	}
	nd.AngularVelocity = d.AngularVelocity
	nd.Color = d.Color
	if w.scn.Boundary != nil {
		nd.Position = w.scn.Boundary.Clamp(nd.Position, nd.Radius)
	}

	w.scn.Discs = append(w.scn.Discs, nd)
	w.logger.Debug("disc spawned", "index", len(w.scn.Discs)-1, "pos", nd.Position, "discs", len(w.scn.Discs))
	return len(w.scn.Discs) - 1, nil
}

// SpawnAt spawns a disc of the scenario's spawn size at pos.
func (w *World) SpawnAt(pos, vel mgl64.Vec2, color dynamo.Color) (int, error) {
	d := dynamo.Disc{
		Position: pos,
		Velocity: vel,
		Mass:     w.scn.SpawnMass,
		Radius:   w.scn.SpawnRadius,
		Color:    color,
	}
	return w.Spawn(d)
}

// ClearTrails empties the pendulum trail and every orbital trail.
func (w *World) ClearTrails() {
	for _, t := range w.trails {
		t.Clear()
	}
	if w.scn.Pendulum != nil && w.scn.Pendulum.Trail != nil {
		w.scn.Pendulum.Trail.Clear()
	}
	w.logger.Debug("trails cleared")
}

// Frame snapshots the current state. The returned slices are fresh copies.
func (w *World) Frame() dynamo.Frame {
	s := &w.scn
	f := dynamo.Frame{
		Time:     w.time,
		Step:     w.steps,
		Energy:   w.Energy(),
		Entities: make([]dynamo.Snapshot, 0, len(s.Discs)+len(s.Bodies)+3),
	}

	if s.Source != nil {
		snap := dynamo.CelestialSnapshot(-1, s.Source)
		snap.Kind = dynamo.KindSource
		f.Entities = append(f.Entities, snap)
	}
	for i := range s.Bodies {
		f.Entities = append(f.Entities, dynamo.CelestialSnapshot(i, &s.Bodies[i]))
	}
	for i := range s.Discs {
		f.Entities = append(f.Entities, dynamo.DiscSnapshot(i, &s.Discs[i]))
	}
	if p := s.Pendulum; p != nil {
		b1, b2 := p.Bobs()
		f.Entities = append(f.Entities,
			dynamo.Snapshot{Kind: dynamo.KindPivot, Index: 0, Position: p.Pivot, Radius: p.M1 / 3, Color: "#ff00ff"},
			dynamo.Snapshot{Kind: dynamo.KindBob, Index: 1, Position: b1, Mass: p.M1, Radius: p.M1, Rotation: p.Theta1, Spin: p.Omega1, Color: "#ff0000"},
			dynamo.Snapshot{Kind: dynamo.KindBob, Index: 2, Position: b2, Mass: p.M2, Radius: p.M2, Rotation: p.Theta2, Spin: p.Omega2, Color: "#0000ff"},
		)
		if p.Trail != nil {
			f.Trails = append(f.Trails, p.Trail.Points())
		}
	}
	for _, t := range w.trails {
		f.Trails = append(f.Trails, t.Points())
	}
	return f
}

func (w *World) valid() bool {
	s := &w.scn
	for i := range s.Discs {
		d := &s.Discs[i]
		if !finite(d.Position[0], d.Position[1], d.Velocity[0], d.Velocity[1], d.AngularVelocity) {
			return false
		}
	}
	for i := range s.Bodies {
		b := &s.Bodies[i]
		if !finite(b.Position[0], b.Position[1], b.Velocity[0], b.Velocity[1]) {
			return false
		}
	}
	if p := s.Pendulum; p != nil {
		return p.State().IsValid()
	}
	return true
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (w *World) Time() float64       { return w.time }
func (w *World) Steps() int          { return w.steps }
func (w *World) Frames() int         { return w.frames }
func (w *World) Scenario() *Scenario { return &w.scn }
func (w *World) Params() Params      { return w.params }

// SetTimeScale changes how much simulated time a frame covers.
func (w *World) SetTimeScale(scale float64) {
	if scale > 0 {
		w.scn.TimeScale = scale
	}
}
