package sim

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/san-kum/starsim/internal/celestial"
	"gonum.org/v1/gonum/spatial/r3"
)

// Interactive is the sandbox capability of a body the user can focus,
// remove and rename.
type Interactive interface {
	Name() string
	FocusCamera() error
	Remove() error
	Rename(name string) error
}

type handle struct {
	c    *Controller
	name string
}

func (h *handle) Name() string       { return h.name }
func (h *handle) FocusCamera() error { return h.c.FocusCamera(h.name) }
func (h *handle) Remove() error      { return h.c.RemoveBody(h.name) }

func (h *handle) Rename(name string) error {
	if err := h.c.RenameBody(h.name, name); err != nil {
		return err
	}
	if n := strings.TrimSpace(name); n != "" {
		h.name = n
	}
	return nil
}

// Handle returns the interactive capability of the named body.
func (c *Controller) Handle(name string) (Interactive, error) {
	if _, ok := c.sys.Get(name); !ok {
		return nil, fmt.Errorf("sim: %w: %q", celestial.ErrUnknownBody, name)
	}
	return &handle{c: c, name: name}, nil
}

func (c *Controller) body(name string) (*celestial.Body, error) {
	b, ok := c.sys.Get(name)
	if !ok {
		return nil, fmt.Errorf("sim: %w: %q", celestial.ErrUnknownBody, name)
	}
	return b, nil
}

// AddBody appends b, immediately runs one integrator pass so the new body
// takes part in the forces before the next frame, and focuses it. The pass
// runs even when paused.
func (c *Controller) AddBody(b *celestial.Body) error {
	if err := c.sys.Add(b); err != nil {
		return err
	}
	c.clampTrail(b)
	c.step()
	c.focus = b.Name()
	return nil
}

// Earth-like planet generation bounds, in AU and Earth masses.
const (
	randomMinDistance = 0.5
	randomDistSpan    = 3.0
	randomMinMass     = 0.25
	randomMassSpan    = 4.0
	randomSpeedAU     = -27500.0
	randomFractionMin = 0.01
	randomFractionMax = 0.99
)

// RandomEarthLikePlanet draws a rocky planet on a roughly circular orbit
// around the origin. The name is used verbatim.
func RandomEarthLikePlanet(rng *rand.Rand, name string) (*celestial.Body, error) {
	dist := (randomDistSpan*rng.Float64() + randomMinDistance) * celestial.AU
	fraction := func() float64 {
		return math.Min(randomFractionMax, math.Max(randomFractionMin, rng.Float64()))
	}
	return celestial.NewPlanet(celestial.Params{
		Name:         name,
		Position:     r3.Vec{X: dist},
		Velocity:     r3.Vec{Z: randomSpeedAU * celestial.AU / dist},
		Mass:         (randomMassSpan*rng.Float64() + randomMinMass) * celestial.EarthMass,
		Radius:       dist / 1.5 / celestial.AU,
		RotationRate: 2 * math.Pi * rng.Float64(),
	}, fraction(), fraction())
}

// AddRandomPlanet adds a RandomEarthLikePlanet. A blank name becomes
// "New Planet N", counting only generated names.
func (c *Controller) AddRandomPlanet(rng *rand.Rand, name string) (*celestial.Body, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		c.added++
		name = fmt.Sprintf("New Planet %d", c.added)
	}
	b, err := RandomEarthLikePlanet(rng, name)
	if err != nil {
		return nil, err
	}
	if err := c.AddBody(b); err != nil {
		return nil, err
	}
	return b, nil
}

// RemoveBody deletes the named body. If it had the camera, focus falls
// back to the first star.
func (c *Controller) RemoveBody(name string) error {
	if _, err := c.sys.Remove(name); err != nil {
		return err
	}
	if c.focus == name {
		c.focus = c.defaultFocus()
	}
	return nil
}

// RenameBody renames a body; a blank new name is ignored.
func (c *Controller) RenameBody(oldName, newName string) error {
	if err := c.sys.Rename(oldName, newName); err != nil {
		return err
	}
	if n := strings.TrimSpace(newName); n != "" && c.focus == oldName {
		c.focus = n
	}
	return nil
}

func (c *Controller) FocusCamera(name string) error {
	if _, err := c.body(name); err != nil {
		return err
	}
	c.focus = name
	return nil
}

// Focus returns the focused body and its render position. ok is false when
// the system is empty.
func (c *Controller) Focus() (name string, pos r3.Vec, ok bool) {
	b, found := c.sys.Get(c.focus)
	if !found {
		c.focus = c.defaultFocus()
		if b, found = c.sys.Get(c.focus); !found {
			return "", r3.Vec{}, false
		}
	}
	return b.Name(), c.scale.ToRender(b.Position()), true
}

// CycleFocus moves the camera to the next body in system order.
func (c *Controller) CycleFocus() string {
	names := c.sys.Names()
	if len(names) == 0 {
		return ""
	}
	next := 0
	for i, n := range names {
		if n == c.focus {
			next = (i + 1) % len(names)
			break
		}
	}
	c.focus = names[next]
	return c.focus
}

func (c *Controller) defaultFocus() string {
	if stars := c.sys.Stars(); len(stars) > 0 {
		return stars[0].Name()
	}
	if bodies := c.sys.Bodies(); len(bodies) > 0 {
		return bodies[0].Name()
	}
	return ""
}

func (c *Controller) clampTrail(b *celestial.Body) {
	if b.Trail().Max() > c.cfg.MaxTrailLength {
		b.Trail().SetMax(c.cfg.MaxTrailLength)
	}
}
