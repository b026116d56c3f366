package collision_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chaoslab/internal/collision"
	"github.com/san-kum/chaoslab/internal/dynamo"
)

func mustDisc(pos, vel mgl64.Vec2, mass, radius float64) dynamo.Disc {
	d, err := dynamo.NewDisc(pos, vel, mass, radius)
	Expect(err).NotTo(HaveOccurred())
	return d
}

func linearMomentum(ds ...*dynamo.Disc) mgl64.Vec2 {
	var p mgl64.Vec2
	for _, d := range ds {
		p = p.Add(d.Momentum())
	}
	return p
}

func linearEnergy(ds ...*dynamo.Disc) float64 {
	e := 0.0
	for _, d := range ds {
		e += 0.5 * d.Mass * d.Velocity.LenSqr()
	}
	return e
}

func totalEnergy(ds ...*dynamo.Disc) float64 {
	e := 0.0
	for _, d := range ds {
		e += d.KineticEnergy()
	}
	return e
}

var _ = Describe("Pair resolution", func() {
	var params collision.Params

	BeforeEach(func() {
		params = collision.DefaultParams()
	})

	Describe("Overlapping", func() {
		It("includes exact contact", func() {
			a := mustDisc(mgl64.Vec2{0, 0}, mgl64.Vec2{}, 1, 1)
			b := mustDisc(mgl64.Vec2{2, 0}, mgl64.Vec2{}, 1, 1)
			Expect(collision.Overlapping(&a, &b)).To(BeTrue())

			b.Position = mgl64.Vec2{2.01, 0}
			Expect(collision.Overlapping(&a, &b)).To(BeFalse())
		})
	})

	Context("with restitution 1 and no friction", func() {
		BeforeEach(func() {
			params.Friction = 0
		})

		It("conserves momentum and kinetic energy", func() {
			a := mustDisc(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, 1, 1)
			b := mustDisc(mgl64.Vec2{1.5, 0.3}, mgl64.Vec2{-0.5, 0.2}, 2, 1)
			a.AngularVelocity = 3
			b.AngularVelocity = -1

			p0 := linearMomentum(&a, &b)
			e0 := linearEnergy(&a, &b)

			imp, ok := collision.Resolve(&a, &b, params)
			Expect(ok).To(BeTrue())
			Expect(imp.Jt).To(BeNumerically("~", 0, 1e-15))

			p1 := linearMomentum(&a, &b)
			Expect(p1.X()).To(BeNumerically("~", p0.X(), 1e-12))
			Expect(p1.Y()).To(BeNumerically("~", p0.Y(), 1e-12))
			Expect(linearEnergy(&a, &b)).To(BeNumerically("~", e0, 1e-12))
			Expect(a.AngularVelocity).To(Equal(3.0))
			Expect(b.AngularVelocity).To(Equal(-1.0))
		})

		It("swaps velocities in an equal-mass head-on collision", func() {
			a := mustDisc(mgl64.Vec2{0, 0}, mgl64.Vec2{2, 0}, 1, 1)
			b := mustDisc(mgl64.Vec2{1.9, 0}, mgl64.Vec2{-1, 0}, 1, 1)

			_, ok := collision.Resolve(&a, &b, params)
			Expect(ok).To(BeTrue())

			Expect(a.Velocity.X()).To(BeNumerically("~", -1, 1e-12))
			Expect(b.Velocity.X()).To(BeNumerically("~", 2, 1e-12))
		})
	})

	It("skips pairs that are already separating", func() {
		a := mustDisc(mgl64.Vec2{0, 0}, mgl64.Vec2{-1, 0}, 1, 1)
		b := mustDisc(mgl64.Vec2{1.5, 0}, mgl64.Vec2{1, 0}, 1, 1)
		before := [2]dynamo.Disc{a, b}

		_, ok := collision.Resolve(&a, &b, params)

		Expect(ok).To(BeFalse())
		Expect([2]dynamo.Disc{a, b}).To(Equal(before))
	})

	It("skips pairs that do not touch", func() {
		a := mustDisc(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, 1, 1)
		b := mustDisc(mgl64.Vec2{3, 0}, mgl64.Vec2{-1, 0}, 1, 1)

		_, ok := collision.Resolve(&a, &b, params)
		Expect(ok).To(BeFalse())
	})

	It("falls back to a canonical axis for coincident centers", func() {
		a := mustDisc(mgl64.Vec2{5, 5}, mgl64.Vec2{-1, 0}, 1, 1)
		b := mustDisc(mgl64.Vec2{5, 5}, mgl64.Vec2{1, 0}, 1, 1)

		imp, ok := collision.Resolve(&a, &b, params)

		Expect(ok).To(BeTrue())
		Expect(imp.Normal).To(Equal(mgl64.Vec2{1, 0}))
		Expect(imp.Depth).To(BeZero())
		Expect(a.Position.X()).To(BeNumerically("~", 5+params.Slack, 1e-12))
		Expect(b.Position.X()).To(BeNumerically("~", 5-params.Slack, 1e-12))
		Expect(a.Position.Sub(b.Position).Len()).To(BeNumerically("~", 2*params.Slack, 1e-12))
		Expect(a.Velocity.X()).To(BeNumerically("~", 1, 1e-12))
		Expect(b.Velocity.X()).To(BeNumerically("~", -1, 1e-12))
	})

	It("handles coincident point discs without dividing by zero", func() {
		a := mustDisc(mgl64.Vec2{2, 2}, mgl64.Vec2{-1, 0}, 1, 0)
		b := mustDisc(mgl64.Vec2{2, 2}, mgl64.Vec2{1, 0}, 1, 0)

		imp, ok := collision.Resolve(&a, &b, params)

		Expect(ok).To(BeTrue())
		Expect(imp.Normal).To(Equal(mgl64.Vec2{1, 0}))
		for _, v := range []float64{a.Position.X(), b.Position.X(), a.Velocity.X(), b.Velocity.X(), a.AngularVelocity, b.AngularVelocity} {
			Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse())
		}
		Expect(a.AngularVelocity).To(BeZero())
		Expect(a.Position.X() - b.Position.X()).To(BeNumerically("~", 2*params.Slack, 1e-12))
	})

	It("clamps friction to the Coulomb cone and spins both discs", func() {
		a := mustDisc(mgl64.Vec2{-0.9, 0}, mgl64.Vec2{1, 20}, 1, 1)
		b := mustDisc(mgl64.Vec2{0.9, 0}, mgl64.Vec2{-1, 0}, 1, 1)
		p0 := linearMomentum(&a, &b)
		e0 := totalEnergy(&a, &b)

		imp, ok := collision.Resolve(&a, &b, params)

		Expect(ok).To(BeTrue())
		Expect(imp.Jn).To(BeNumerically("~", 2, 1e-12))
		Expect(math.Abs(imp.Jt)).To(BeNumerically("~", params.Friction*imp.Jn, 1e-12))
		Expect(a.AngularVelocity).To(BeNumerically("~", 2, 1e-12))
		Expect(b.AngularVelocity).To(BeNumerically("~", -2, 1e-12))

		p1 := linearMomentum(&a, &b)
		Expect(p1.X()).To(BeNumerically("~", p0.X(), 1e-12))
		Expect(p1.Y()).To(BeNumerically("~", p0.Y(), 1e-12))
		Expect(totalEnergy(&a, &b)).To(BeNumerically("<", e0))
	})

	It("leaves at most the slack as penetration", func() {
		a := mustDisc(mgl64.Vec2{0, 0}, mgl64.Vec2{3, 1}, 1, 5)
		b := mustDisc(mgl64.Vec2{6, 2}, mgl64.Vec2{-2, 0}, 3, 4)
		before := collision.Penetration(&a, &b)
		Expect(before).To(BeNumerically(">", 0))

		imp, ok := collision.Resolve(&a, &b, params)

		Expect(ok).To(BeTrue())
		Expect(imp.Depth).To(BeNumerically("~", before, 1e-12))
		Expect(collision.Penetration(&a, &b)).To(BeNumerically("<=", params.Slack))
	})

	It("handles a point disc without touching its spin", func() {
		a := mustDisc(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1}, 1, 0)
		b := mustDisc(mgl64.Vec2{0.5, 0}, mgl64.Vec2{}, 1, 1)

		_, ok := collision.Resolve(&a, &b, params)

		Expect(ok).To(BeTrue())
		Expect(a.AngularVelocity).To(Equal(0.0))
		Expect(math.IsNaN(b.AngularVelocity)).To(BeFalse())
		Expect(math.IsNaN(a.Velocity.Y())).To(BeFalse())
	})

	Describe("ResolveAll", func() {
		It("resolves each approaching pair once and leaves the rest", func() {
			discs := []dynamo.Disc{
				mustDisc(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, 1, 1),
				mustDisc(mgl64.Vec2{1.5, 0}, mgl64.Vec2{-1, 0}, 1, 1),
				mustDisc(mgl64.Vec2{50, 50}, mgl64.Vec2{1, 0}, 1, 1),
			}
			far := discs[2]

			n := collision.ResolveAll(discs, params)

			Expect(n).To(Equal(1))
			Expect(discs[0].Velocity.X()).To(BeNumerically("<", 0))
			Expect(discs[1].Velocity.X()).To(BeNumerically(">", 0))
			Expect(discs[2]).To(Equal(far))
		})

		It("returns zero for an empty or single-disc slice", func() {
			Expect(collision.ResolveAll(nil, params)).To(Equal(0))
			Expect(collision.ResolveAll([]dynamo.Disc{mustDisc(mgl64.Vec2{}, mgl64.Vec2{}, 1, 1)}, params)).To(Equal(0))
		})
	})
})
