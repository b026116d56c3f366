package physics_test

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
	"github.com/san-kum/chaoslab/internal/physics"
)

var _ = Describe("DoublePendulum", func() {
	const dt = 1.0 / 60.0

	var params physics.PendulumParams

	BeforeEach(func() {
		params = physics.DefaultPendulumParams()
	})

	newPendulum := func() *physics.DoublePendulum {
		p, err := physics.NewDoublePendulum(params)
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	It("stays balanced upright when started at rest", func() {
		params.Theta1, params.Theta2 = math.Pi, math.Pi
		p := newPendulum()

		for i := 0; i < 600; i++ {
			p.Step(dt)
		}

		Expect(p.Theta1).To(BeNumerically("~", math.Pi, 1e-6))
		Expect(p.Theta2).To(BeNumerically("~", math.Pi, 1e-6))
		Expect(p.Omega1).To(BeNumerically("~", 0, 1e-6))
		Expect(p.Omega2).To(BeNumerically("~", 0, 1e-6))
	})

	It("stays exactly at rest hanging down", func() {
		params.Theta1, params.Theta2 = 0, 0
		p := newPendulum()

		for i := 0; i < 600; i++ {
			p.Step(dt)
		}

		Expect(p.State()).To(Equal(dynamo.State{0, 0, 0, 0}))
	})

	It("falls the way gravity pulls", func() {
		params.Theta1, params.Theta2 = 0.3, 0.3
		p := newPendulum()

		a1, _ := p.Accelerations()
		Expect(a1).To(BeNumerically("<", 0))
	})

	It("steps like semi-implicit Euler over its state", func() {
		params.Theta1, params.Theta2 = 2.0, -1.0
		params.Omega1 = 0.4
		stepped := newPendulum()
		integrated := newPendulum()
		integ := integrators.NewSemiImplicitEuler()

		x := integrated.State()
		for i := 0; i < 300; i++ {
			stepped.Step(dt)
			x = integ.Step(integrated, x, float64(i)*dt, dt)
		}

		got := stepped.State()
		for i := range x {
			Expect(got[i]).To(BeNumerically("~", x[i], 1e-12))
		}
	})

	It("keeps energy bounded for small swings", func() {
		params.Theta1, params.Theta2 = 0.5, 0.5
		p := newPendulum()
		e0 := p.Energy(p.State())

		for i := 0; i < 2000; i++ {
			p.Step(0.01)
		}

		drift := math.Abs((p.Energy(p.State()) - e0) / e0)
		Expect(drift).To(BeNumerically("<", 1e-2))
	})

	It("derives bob positions from the angles", func() {
		params.Theta1, params.Theta2 = 0, math.Pi/2
		p := newPendulum()

		b1, b2 := p.Bobs()

		Expect(b1.Sub(mgl64.Vec2{450, 350}).Len()).To(BeNumerically("<", 1e-9))
		Expect(b2.Sub(mgl64.Vec2{600, 350}).Len()).To(BeNumerically("<", 1e-9))
	})

	Describe("trail", func() {
		It("keeps every point by default", func() {
			p := newPendulum()
			for i := 0; i < 1000; i++ {
				p.Step(dt)
			}
			Expect(p.Trail.Len()).To(Equal(1000))
		})

		It("honours a bounded policy", func() {
			params.TrailLimit = 50
			p := newPendulum()
			for i := 0; i < 1000; i++ {
				p.Step(dt)
			}

			pts := p.Trail.Points()
			Expect(pts).To(HaveLen(50))
			_, b2 := p.Bobs()
			Expect(pts[len(pts)-1]).To(Equal(b2))
		})

		It("can be cleared", func() {
			p := newPendulum()
			p.Step(dt)
			p.Trail.Clear()
			Expect(p.Trail.Len()).To(BeZero())
		})
	})

	DescribeTable("rejects invalid construction",
		func(mutate func(*physics.PendulumParams), want error) {
			mutate(&params)
			_, err := physics.NewDoublePendulum(params)

			Expect(errors.Is(err, want)).To(BeTrue(), "got %v", err)
			var ve *dynamo.ValidationError
			Expect(errors.As(err, &ve)).To(BeTrue())
			Expect(ve.Entity).To(Equal("pendulum"))
		},
		Entry("zero first mass", func(p *physics.PendulumParams) { p.M1 = 0 }, dynamo.ErrInvalidMass),
		Entry("negative second mass", func(p *physics.PendulumParams) { p.M2 = -3 }, dynamo.ErrInvalidMass),
		Entry("zero first length", func(p *physics.PendulumParams) { p.L1 = 0 }, dynamo.ErrInvalidLength),
		Entry("NaN second length", func(p *physics.PendulumParams) { p.L2 = math.NaN() }, dynamo.ErrInvalidLength),
	)

	Describe("SetParam", func() {
		It("updates gravity in place", func() {
			p := newPendulum()
			Expect(p.SetParam("gravity", 1.62)).To(Succeed())
			Expect(p.GetParams()["gravity"]).To(Equal(1.62))
		})

		It("applies the construction checks", func() {
			p := newPendulum()
			Expect(errors.Is(p.SetParam("m2", 0), dynamo.ErrInvalidMass)).To(BeTrue())
			Expect(errors.Is(p.SetParam("l1", -1), dynamo.ErrInvalidLength)).To(BeTrue())
			Expect(p.SetParam("bogus", 1)).NotTo(Succeed())
			Expect(p.M2).To(Equal(20.0))
		})
	})
})
