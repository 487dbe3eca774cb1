package sim

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/starsim/internal/celestial"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ = Describe("Controller lifecycle", func() {
	var (
		c     *Controller
		sun   *celestial.Body
		earth *celestial.Body
	)

	BeforeEach(func() {
		var err error
		c, err = New(earthSun(GinkgoT()), DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		sun, _ = c.System().Get("Sun")
		earth, _ = c.System().Get("Earth")
	})

	Describe("ticking", func() {
		It("keeps the Earth bound to the Sun for a thousand ticks", func() {
			c.Run(1000)
			Expect(c.DrainWarnings()).To(BeEmpty())
			r := celestial.Distance(sun, earth) / celestial.AU
			Expect(r).To(BeNumerically("~", 1.0, 0.05))
			p := earth.Position()
			Expect(math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z)).To(BeFalse())
		})

		It("maps physical positions to render space by the scale factor", func() {
			c.Tick()
			pos := c.RenderPositions()["Earth"]
			Expect(pos.X).To(Equal(earth.Position().X / DefaultScaleFactor))
			Expect(pos.Z).To(Equal(earth.Position().Z / DefaultScaleFactor))
		})
	})

	Describe("pausing", func() {
		BeforeEach(func() {
			c.Pause()
		})

		It("freezes the system", func() {
			before := earth.Position()
			for i := 0; i < 10; i++ {
				Expect(c.Tick()).To(BeFalse())
			}
			Expect(earth.Position()).To(Equal(before))
			Expect(c.State()).To(Equal(Paused))
		})

		It("still integrates once when a body is added", func() {
			before := earth.Position()
			_, err := c.AddRandomPlanet(rand.New(rand.NewSource(1)), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(earth.Position()).NotTo(Equal(before))
			Expect(c.Ticks()).To(Equal(0))
		})
	})

	Describe("resetting", func() {
		It("restores every baseline after edits and ticks", func() {
			Expect(c.SetStarMass("Sun", 1.5*celestial.SunMass)).To(Succeed())
			Expect(c.ScaleVelocity("Earth", 0.5)).To(Succeed())
			c.Run(25)

			c.Reset()
			Expect(sun.Mass()).To(Equal(celestial.SunMass))
			Expect(sun.Luminosity()).To(Equal(celestial.SunLuminosity))
			Expect(earth.Position()).To(Equal(r3.Vec{X: celestial.AU}))
			Expect(earth.Velocity()).To(Equal(r3.Vec{Z: -29783}))
			Expect(earth.Rotation()).To(BeZero())
			Expect(earth.Trail().Len()).To(BeZero())
		})

		It("is idempotent", func() {
			c.Run(5)
			c.Reset()
			first := earth.Position()
			c.Reset()
			Expect(earth.Position()).To(Equal(first))
		})
	})

	Describe("reversing time", func() {
		It("only flips the sign of the time step", func() {
			Expect(c.SetTimeStep(1000)).To(Succeed())
			c.ReverseTime()
			Expect(c.Config().TimeStep).To(Equal(-1000.0))
			c.Tick()
			Expect(c.Elapsed()).To(Equal(-1000.0))
		})
	})

	Describe("sandbox bodies", func() {
		It("names generated planets sequentially", func() {
			rng := rand.New(rand.NewSource(42))
			var names []string
			for i := 0; i < 3; i++ {
				b, err := c.AddRandomPlanet(rng, "")
				Expect(err).NotTo(HaveOccurred())
				names = append(names, b.Name())
			}
			Expect(names).To(Equal([]string{"New Planet 1", "New Planet 2", "New Planet 3"}))
			Expect(c.System().Names()).To(HaveLen(5))
		})

		It("exposes an interactive handle", func() {
			h, err := c.Handle("Earth")
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Rename("Sun")).To(MatchError(celestial.ErrDuplicateName))
			Expect(h.Remove()).To(Succeed())
			Expect(c.System().Names()).To(ConsistOf("Sun"))
			name, _, ok := c.Focus()
			Expect(ok).To(BeTrue())
			Expect(name).To(Equal("Sun"))
		})
	})
})
