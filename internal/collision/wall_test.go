package collision_test

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chaoslab/internal/collision"
	"github.com/san-kum/chaoslab/internal/dynamo"
)

var _ = Describe("Boundary contact", func() {
	const dt = 1.0 / 60.0

	var box dynamo.Boundary

	BeforeEach(func() {
		var err error
		box, err = dynamo.NewBoundary(mgl64.Vec2{0, 0}, mgl64.Vec2{800, 600})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("ComputeTOI", func() {
		It("never reports an impact for a stationary disc inside the box", func() {
			for _, pos := range []mgl64.Vec2{{400, 300}, {11, 11}, {789, 589}, {10.5, 300}} {
				Expect(collision.ComputeTOI(pos, mgl64.Vec2{}, 10, dt, box)).
					To(Equal(collision.NoCollision), "position %v", pos)
			}
		})

		It("ignores walls the disc cannot reach this step", func() {
			tc := collision.ComputeTOI(mgl64.Vec2{400, 300}, mgl64.Vec2{60, -60}, 10, dt, box)
			Expect(tc).To(Equal(collision.NoCollision))
		})

		It("finds the fraction of the step at which the disc touches", func() {
			// 600 px/s over 1/60 s covers 10 px; contact is 5 px away.
			tc := collision.ComputeTOI(mgl64.Vec2{785, 300}, mgl64.Vec2{600, 0}, 10, dt, box)
			Expect(tc).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("picks the earliest of two axis candidates", func() {
			tc := collision.ComputeTOI(mgl64.Vec2{785, 18}, mgl64.Vec2{600, -600}, 10, dt, box)
			Expect(tc).To(BeNumerically("~", 0.5, 1e-9))

			tc = collision.ComputeTOI(mgl64.Vec2{785, 12}, mgl64.Vec2{600, -600}, 10, dt, box)
			Expect(tc).To(BeNumerically("~", 0.2, 1e-9))
		})

		It("reports immediate contact for a disc already pressed into a wall", func() {
			tc := collision.ComputeTOI(mgl64.Vec2{795, 300}, mgl64.Vec2{100, 0}, 10, dt, box)
			Expect(collision.Hit(tc)).To(BeTrue())
			Expect(tc).To(BeZero())
		})
	})

	Describe("ResolveWall", func() {
		It("bounces a disc pushing against the right wall", func() {
			d, err := dynamo.NewDisc(mgl64.Vec2{795, 300}, mgl64.Vec2{100, 0}, 1, 10)
			Expect(err).NotTo(HaveOccurred())

			tc := collision.ResolveWall(&d, dt, box, 1.0)

			Expect(collision.Hit(tc)).To(BeTrue())
			Expect(d.Position.X()).To(BeNumerically("<=", 790))
			Expect(d.Velocity.X()).To(BeNumerically("<", 0))
			Expect(d.Velocity.Y()).To(Equal(0.0))
		})

		It("moves to contact, reflects, then covers the rest of the step", func() {
			d, _ := dynamo.NewDisc(mgl64.Vec2{785, 300}, mgl64.Vec2{600, 0}, 1, 10)

			collision.ResolveWall(&d, dt, box, 1.0)

			Expect(d.Position.X()).To(BeNumerically("~", 785, 1e-9))
			Expect(d.Velocity.X()).To(BeNumerically("~", -600, 1e-9))
		})

		It("scales the reflected component by restitution", func() {
			d, _ := dynamo.NewDisc(mgl64.Vec2{785, 300}, mgl64.Vec2{600, 30}, 1, 10)

			collision.ResolveWall(&d, dt, box, 0.5)

			Expect(d.Velocity.X()).To(BeNumerically("~", -300, 1e-9))
			Expect(d.Velocity.Y()).To(BeNumerically("~", 30, 1e-9))
			Expect(d.Position.X()).To(BeNumerically("~", 787.5, 1e-9))
		})

		It("advances the full step when nothing is hit", func() {
			d, _ := dynamo.NewDisc(mgl64.Vec2{400, 300}, mgl64.Vec2{60, -120}, 1, 10)

			tc := collision.ResolveWall(&d, dt, box, 1.0)

			Expect(tc).To(Equal(collision.NoCollision))
			Expect(d.Position.X()).To(BeNumerically("~", 401, 1e-9))
			Expect(d.Position.Y()).To(BeNumerically("~", 298, 1e-9))
		})

		It("keeps a corner hit inside the box", func() {
			d, _ := dynamo.NewDisc(mgl64.Vec2{795, 595}, mgl64.Vec2{100, 100}, 1, 10)

			collision.ResolveWall(&d, dt, box, 1.0)

			Expect(d.Velocity.X()).To(BeNumerically("<", 0))
			Expect(d.Velocity.Y()).To(BeNumerically("<", 0))
			Expect(box.Contains(d.Position, d.Radius)).To(BeTrue())
		})

		It("leaves every disc inside the box after a pass", func() {
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 500; i++ {
				r := 1 + rng.Float64()*20
				pos := mgl64.Vec2{
					r + rng.Float64()*(800-2*r),
					r + rng.Float64()*(600-2*r),
				}
				vel := mgl64.Vec2{(rng.Float64() - 0.5) * 4000, (rng.Float64() - 0.5) * 4000}
				d, err := dynamo.NewDisc(pos, vel, 1, r)
				Expect(err).NotTo(HaveOccurred())

				collision.ResolveWall(&d, dt, box, 1.0)

				Expect(box.Contains(d.Position, d.Radius)).To(BeTrue(), "disc %d at %v r=%v", i, d.Position, r)
			}
		})
	})
})
