package physics_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
	"github.com/san-kum/chaoslab/internal/physics"
)

func body(pos, vel mgl64.Vec2, mass float64) dynamo.Celestial {
	c, err := dynamo.NewCelestial(pos, vel, mass, 1)
	Expect(err).NotTo(HaveOccurred())
	return c
}

var _ = Describe("Gravity", func() {
	const (
		G  = 1.0
		M  = 1000.0
		r  = 100.0
		dt = 0.1
	)
	period := 2 * math.Pi * r / physics.CircularSpeed(G, M, r)

	var nb *physics.NBody

	BeforeEach(func() {
		nb = physics.NewNBody(G, 1e-3)
	})

	Describe("StepOrbiters", func() {
		var source dynamo.Celestial

		BeforeEach(func() {
			source = body(mgl64.Vec2{}, mgl64.Vec2{}, M)
		})

		It("keeps a circular orbit near its radius over many periods", func() {
			v := physics.CircularSpeed(G, M, r)
			orbiters := []dynamo.Celestial{body(mgl64.Vec2{r, 0}, mgl64.Vec2{0, v}, 1)}

			steps := int(10 * period / dt)
			minR, maxR := r, r
			for i := 0; i < steps; i++ {
				nb.StepOrbiters(source, orbiters, dt)
				d := orbiters[0].Position.Len()
				minR = math.Min(minR, d)
				maxR = math.Max(maxR, d)
			}

			Expect(minR).To(BeNumerically(">", r*0.999))
			Expect(maxR).To(BeNumerically("<", r*1.001))
		})

		It("lets explicit Euler spiral out of the same orbit", func() {
			nb.WithIntegrator(integrators.NewEuler())
			v := physics.CircularSpeed(G, M, r)
			orbiters := []dynamo.Celestial{body(mgl64.Vec2{r, 0}, mgl64.Vec2{0, v}, 1)}

			for i := 0; i < int(10*period/dt); i++ {
				nb.StepOrbiters(source, orbiters, dt)
			}

			el := physics.OrbitalElements(G, M, source.Position, orbiters[0].Position, orbiters[0].Velocity)
			Expect(el.SemiMajorAxis).To(BeNumerically(">", r*1.02))
		})

		It("never moves the source and ignores orbiter-orbiter attraction", func() {
			v := physics.CircularSpeed(G, M, r)
			alone := []dynamo.Celestial{body(mgl64.Vec2{r, 0}, mgl64.Vec2{0, v}, 1)}
			crowded := []dynamo.Celestial{
				body(mgl64.Vec2{r, 0}, mgl64.Vec2{0, v}, 1),
				body(mgl64.Vec2{r + 0.5, 0}, mgl64.Vec2{0, v}, 500),
			}
			sourceBefore := source

			for i := 0; i < 100; i++ {
				nb.StepOrbiters(source, alone, dt)
				nb.StepOrbiters(source, crowded, dt)
			}

			Expect(crowded[0].Position).To(Equal(alone[0].Position))
			Expect(crowded[0].Velocity).To(Equal(alone[0].Velocity))
			Expect(source).To(Equal(sourceBefore))
		})

		It("drops the pull of a source closer than epsilon", func() {
			orbiters := []dynamo.Celestial{body(mgl64.Vec2{0, 0}, mgl64.Vec2{2, 0}, 1)}

			nb.StepOrbiters(source, orbiters, dt)

			o := orbiters[0]
			Expect(o.Position.X()).To(BeNumerically("~", 0.2, 1e-12))
			Expect(o.Position.Y()).To(Equal(0.0))
			Expect(math.IsNaN(o.Velocity.X()) || math.IsInf(o.Velocity.X(), 0)).To(BeFalse())
		})

		It("leaves stars where they are", func() {
			star, err := dynamo.NewStar(mgl64.Vec2{50, 50}, 1)
			Expect(err).NotTo(HaveOccurred())
			orbiters := []dynamo.Celestial{star}

			nb.StepOrbiters(source, orbiters, dt)

			Expect(orbiters[0].Position).To(Equal(mgl64.Vec2{50, 50}))
		})
	})

	Describe("Step", func() {
		twoBody := func() []dynamo.Celestial {
			return []dynamo.Celestial{
				body(mgl64.Vec2{0, 0}, mgl64.Vec2{0, -0.1}, 10),
				body(mgl64.Vec2{10, 0}, mgl64.Vec2{0, 1}, 1),
			}
		}

		It("evaluates forces twice per step", func() {
			counter := &countingSystem{System: nb}
			integ := integrators.NewVerlet()
			x := nb.Pack(twoBody())

			integ.Step(counter, x, 0, dt)

			Expect(counter.calls).To(Equal(2))
		})

		It("is time reversible for two bodies", func() {
			bodies := twoBody()
			start := append([]dynamo.Celestial(nil), bodies...)

			nb.Step(bodies, dt)
			for i := range bodies {
				bodies[i].Velocity = bodies[i].Velocity.Mul(-1)
			}
			nb.Step(bodies, dt)
			for i := range bodies {
				bodies[i].Velocity = bodies[i].Velocity.Mul(-1)
			}

			for i := range bodies {
				Expect(bodies[i].Position.Sub(start[i].Position).Len()).To(BeNumerically("<", 1e-9))
				Expect(bodies[i].Velocity.Sub(start[i].Velocity).Len()).To(BeNumerically("<", 1e-9))
			}
		})

		It("conserves momentum and keeps energy bounded", func() {
			bodies := []dynamo.Celestial{
				body(mgl64.Vec2{0, 0}, mgl64.Vec2{0, 0}, 100),
				body(mgl64.Vec2{30, 0}, mgl64.Vec2{0, 1.8}, 1),
				body(mgl64.Vec2{-50, 0}, mgl64.Vec2{0, -1.4}, 2),
			}
			x0 := nb.Pack(bodies)
			px0, py0 := nb.Momentum(x0)
			e0 := nb.Energy(x0)

			for i := 0; i < 5000; i++ {
				nb.Step(bodies, 0.05)
			}

			x := nb.Pack(bodies)
			px, py := nb.Momentum(x)
			Expect(px).To(BeNumerically("~", px0, 1e-9))
			Expect(py).To(BeNumerically("~", py0, 1e-9))
			Expect(math.Abs((nb.Energy(x) - e0) / e0)).To(BeNumerically("<", 1e-2))
		})

		It("treats massless bodies as inert", func() {
			star, _ := dynamo.NewStar(mgl64.Vec2{12, 0}, 1)
			with := append(twoBody(), star)
			without := twoBody()

			for i := 0; i < 200; i++ {
				nb.Step(with, dt)
				nb.Step(without, dt)
			}

			Expect(with[2].Position).To(Equal(mgl64.Vec2{12, 0}))
			for i := range without {
				Expect(with[i].Position.Sub(without[i].Position).Len()).To(BeNumerically("<", 1e-12))
			}
		})

		It("drops coincident pairs instead of producing NaN", func() {
			bodies := []dynamo.Celestial{
				body(mgl64.Vec2{1, 1}, mgl64.Vec2{}, 5),
				body(mgl64.Vec2{1, 1}, mgl64.Vec2{}, 5),
			}

			nb.Step(bodies, dt)

			x := nb.Pack(bodies)
			Expect(x.IsValid()).To(BeTrue())
			Expect(bodies[0].Position).To(Equal(mgl64.Vec2{1, 1}))
		})

		It("does nothing for an empty system", func() {
			Expect(func() { nb.Step(nil, dt) }).NotTo(Panic())
		})
	})

	Describe("OrbitalElements", func() {
		It("reports a circular orbit", func() {
			v := physics.CircularSpeed(G, M, r)
			el := physics.OrbitalElements(G, M, mgl64.Vec2{}, mgl64.Vec2{r, 0}, mgl64.Vec2{0, v})

			Expect(el.SemiMajorAxis).To(BeNumerically("~", r, 1e-9))
			Expect(el.Eccentricity).To(BeNumerically("<", 1e-6))
		})

		It("recovers the ellipse a planet is started on at perihelion", func() {
			const rp, a = 60.0, 110.0
			v := physics.VisViva(G, M, rp, a)
			el := physics.OrbitalElements(G, M, mgl64.Vec2{5, 5}, mgl64.Vec2{5 + rp, 5}, mgl64.Vec2{0, -v})

			Expect(el.SemiMajorAxis).To(BeNumerically("~", a, 1e-9))
			Expect(el.Eccentricity).To(BeNumerically("~", 1-rp/a, 1e-9))
		})

		It("marks escape trajectories as unbound", func() {
			el := physics.OrbitalElements(G, M, mgl64.Vec2{}, mgl64.Vec2{r, 0}, mgl64.Vec2{0, 10})
			Expect(math.IsInf(el.SemiMajorAxis, 1)).To(BeTrue())
		})
	})
})

type countingSystem struct {
	dynamo.System
	calls int
}

func (c *countingSystem) Derive(x dynamo.State, t float64) dynamo.State {
	c.calls++
	return c.System.Derive(x, t)
}
