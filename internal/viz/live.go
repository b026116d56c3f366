package viz

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/scenario"
	"github.com/san-kum/chaoslab/internal/sim"
)

const (
	defaultWidth    = 80
	defaultHeight   = 30
	statsWidth      = 42
	historyCapacity = 600

	spawnMinSpeed = 100
	spawnMaxSpeed = 300
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a sim.World from the bubbletea loop: one World.Tick per
// TickMsg, with keys and mouse clicks editing the world in between.
type Model struct {
	world   *sim.World
	canvas  *Canvas
	proj    Projection
	theme   Theme
	styles  styles
	rng     *rand.Rand
	logger  *log.Logger
	frameDt float64

	frame         dynamo.Frame
	energyHistory []float64
	running       bool
	showHelp      bool
	err           error
	lastTick      time.Time
	realtime      bool
}

type ModelOption func(*Model)

// WithSeed seeds the spawn velocities and colors.
func WithSeed(seed int64) ModelOption {
	return func(m *Model) { m.rng = rand.New(rand.NewSource(seed)) }
}

func WithTheme(name string) ModelOption {
	return func(m *Model) {
		m.theme = GetTheme(name)
		m.styles = newStyles(m.theme)
	}
}

func WithModelLogger(l *log.Logger) ModelOption {
	return func(m *Model) { m.logger = l }
}

// WithRealtime feeds the wall-clock delta between ticks to the world, which
// clamps it, instead of a fixed frame delta.
func WithRealtime(on bool) ModelOption {
	return func(m *Model) { m.realtime = on }
}

func NewModel(w *sim.World, frameDt float64, opts ...ModelOption) Model {
	m := Model{
		world:         w,
		canvas:        NewCanvas(defaultWidth, defaultHeight),
		theme:         ThemeCyberpunk,
		styles:        newStyles(ThemeCyberpunk),
		rng:           rand.New(rand.NewSource(1)),
		logger:        log.New(io.Discard),
		frameDt:       frameDt,
		energyHistory: make([]float64, 0, historyCapacity),
		running:       true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.frame = w.Frame()
	m.resize(defaultWidth, defaultHeight)
	m.draw()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.advance(m.frameDt)
			}
		case "r":
			m.world.Reset()
			m.energyHistory = m.energyHistory[:0]
			m.err = nil
			m.frame = m.world.Frame()
		case "c":
			m.world.ClearTrails()
			m.frame = m.world.Frame()
		case "s":
			m.spawn(m.randomPoint())
		case "+", "=":
			m.world.SetTimeScale(m.world.Scenario().TimeScale * 1.25)
		case "-", "_":
			m.world.SetTimeScale(m.world.Scenario().TimeScale * 0.8)
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.spawn(m.proj.CellToWorld(msg.X-1, msg.Y))
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width-statsWidth-4, msg.Height-2)
	case TickMsg:
		now := time.Time(msg)
		dt := m.frameDt
		if m.realtime && !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick).Seconds()
		}
		m.lastTick = now
		if m.running {
			m.advance(dt)
		}
		m.draw()
		return m, tick()
	}
	m.draw()
	return m, nil
}

func (m *Model) advance(dt float64) {
	f, err := m.world.Tick(dt)
	if err != nil {
		m.err = err
		m.running = false
		m.logger.Error("simulation stopped", "err", err)
		return
	}
	m.frame = f
	m.energyHistory = append(m.energyHistory, f.Energy)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// spawn adds a disc at pos with a random heading and palette color. Only
// scenarios that declare a spawn size accept discs.
func (m *Model) spawn(pos mgl64.Vec2) {
	s := m.world.Scenario()
	if !(s.SpawnMass > 0) {
		return
	}
	speed := spawnMinSpeed + m.rng.Float64()*(spawnMaxSpeed-spawnMinSpeed)
	heading := m.rng.Float64() * 2 * math.Pi
	vel := mgl64.Vec2{math.Cos(heading), math.Sin(heading)}.Mul(speed)

	if _, err := m.world.SpawnAt(pos, vel, scenario.RandomColor(m.rng)); err != nil {
		m.logger.Warn("spawn rejected", "err", err)
		return
	}
	m.frame = m.world.Frame()
}

func (m *Model) randomPoint() mgl64.Vec2 {
	e := m.world.Scenario().Extent
	return mgl64.Vec2{
		e.Min[0] + m.rng.Float64()*e.Width(),
		e.Min[1] + m.rng.Float64()*e.Height(),
	}
}

func (m *Model) resize(cols, rows int) {
	if cols < 20 {
		cols = 20
	}
	if rows < 8 {
		rows = 8
	}
	m.canvas = NewCanvas(cols, rows)
	dw, dh := m.canvas.Dots()
	m.proj = NewProjection(m.world.Scenario().Extent, dw, dh)
}

func (m *Model) draw() {
	c := m.canvas
	c.Clear()
	trail := dynamo.Color(m.theme.Trail)

	if b := m.world.Scenario().Boundary; b != nil {
		x0, y0 := m.proj.ToDots(b.Min)
		x1, y1 := m.proj.ToDots(b.Max)
		border := dynamo.Color(m.theme.Border)
		c.DrawLine(x0, y0, x1, y0, border)
		c.DrawLine(x1, y0, x1, y1, border)
		c.DrawLine(x1, y1, x0, y1, border)
		c.DrawLine(x0, y1, x0, y0, border)
	}

	for _, pts := range m.frame.Trails {
		for i := 1; i < len(pts); i++ {
			x0, y0 := m.proj.ToDots(pts[i-1])
			x1, y1 := m.proj.ToDots(pts[i])
			c.DrawLine(x0, y0, x1, y1, trail)
		}
	}

	var pivot, bob1 *dynamo.Snapshot
	for i := range m.frame.Entities {
		e := &m.frame.Entities[i]
		x, y := m.proj.ToDots(e.Position)
		r := m.proj.Length(e.Radius)

		switch e.Kind {
		case dynamo.KindStar:
			c.Set(x, y, e.Color)
		case dynamo.KindPivot:
			pivot = e
			c.FillCircle(x, y, r, e.Color)
		case dynamo.KindBob:
			prev := pivot
			if e.Index == 2 {
				prev = bob1
			} else {
				bob1 = e
			}
			if prev != nil {
				px, py := m.proj.ToDots(prev.Position)
				c.DrawLine(px, py, x, y, dynamo.Color(m.theme.Text))
			}
			c.FillCircle(x, y, r, e.Color)
		case dynamo.KindDisc:
			c.DrawCircle(x, y, r, e.Color)
			// Spoke shows rotation.
			if r > 1 {
				sx := x + int(math.Round(float64(r)*math.Cos(e.Rotation)))
				sy := y + int(math.Round(float64(r)*math.Sin(e.Rotation)))
				c.DrawLine(x, y, sx, sy, e.Color)
			}
		default:
			c.FillCircle(x, y, r, e.Color)
		}
	}
}

func (m Model) View() string {
	st := m.styles
	s := m.world.Scenario()

	var b strings.Builder
	b.WriteString(st.header.Render(strings.ToUpper(s.Name)) + "\n")

	switch {
	case m.err != nil:
		b.WriteString(st.failed.Render("UNSTABLE") + "\n")
	case m.running:
		b.WriteString(st.running.Render("RUNNING") + "\n")
	default:
		b.WriteString(st.paused.Render("PAUSED") + "\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(5),
			asciigraph.Width(statsWidth-14),
			asciigraph.Caption("Energy"))
		b.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		b.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.world.Time()))
	row("Frames", fmt.Sprintf("%d", m.world.Frames()))
	row("Steps", fmt.Sprintf("%d", m.world.Steps()))
	row("Energy", fmt.Sprintf("%.4g", m.frame.Energy))
	row("Force", s.Force.String())
	row("Scale", fmt.Sprintf("%.3gx / %d sub", s.TimeScale, s.Substeps))
	row("Discs", fmt.Sprintf("%d", len(s.Discs)))
	row("Bodies", fmt.Sprintf("%d", len(s.Bodies)))
	row("Theme", m.theme.Name)
	if m.err != nil {
		b.WriteString("\n" + st.failed.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + st.Separator(statsWidth-6) + "\n")
	if m.showHelp {
		b.WriteString(st.help.Render(helpText))
	} else {
		b.WriteString(st.help.Render("SP:Pause R:Reset Q:Quit ?:Help"))
	}

	canvas := st.canvas.Render(m.canvas.Render(dynamo.Color(m.theme.Muted)))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, st.stats.Render(b.String()))
}

const helpText = `Space   pause / resume
N       single frame while paused
R       reset scenario
C       clear trails
S       spawn a disc at random
Click   spawn a disc at the pointer
+ / -   time scale
T       cycle theme
Q       quit`

// Run starts the live view full-screen with mouse support.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
