package sim

import (
	"fmt"

	"github.com/san-kum/starsim/internal/celestial"
	"gonum.org/v1/gonum/spatial/r3"
)

// Velocity multiplier bounds offered by the sandbox.
const (
	MinVelocityModifier = 0.25
	MaxVelocityModifier = 1.75
)

// SetStarLuminosity sets a star's luminosity and derives its mass through
// the configured relation. If the relation rejects the new value the star
// is left as it was.
func (c *Controller) SetStarLuminosity(name string, lum float64) error {
	star, err := c.star(name)
	if err != nil {
		return err
	}
	prev := star.Luminosity()
	if err := star.SetLuminosity(lum); err != nil {
		return err
	}
	if err := c.coupler.UpdateMassFromLuminosity(star); err != nil {
		_ = star.SetLuminosity(prev)
		return err
	}
	return nil
}

// SetStarMass sets a star's mass and derives its luminosity.
func (c *Controller) SetStarMass(name string, mass float64) error {
	star, err := c.star(name)
	if err != nil {
		return err
	}
	prev := star.Mass()
	if err := star.SetMass(mass); err != nil {
		return err
	}
	if err := c.coupler.UpdateLuminosityFromMass(star); err != nil {
		_ = star.SetMass(prev)
		return err
	}
	return nil
}

func (c *Controller) star(name string) (*celestial.Body, error) {
	b, err := c.body(name)
	if err != nil {
		return nil, err
	}
	if !b.IsLuminous() {
		return nil, fmt.Errorf("sim: %w: %s is not a star", celestial.ErrInvalidParameter, name)
	}
	return b, nil
}

func (c *Controller) SetAlbedo(name string, a float64) error {
	b, err := c.body(name)
	if err != nil {
		return err
	}
	return b.SetAlbedo(a)
}

func (c *Controller) SetEmissivity(name string, e float64) error {
	b, err := c.body(name)
	if err != nil {
		return err
	}
	return b.SetEmissivity(e)
}

// SetTrailLength sets a body's trail cap in [0, MaxTrailLength]. Shrinking
// drops the oldest points at once.
func (c *Controller) SetTrailLength(name string, n int) error {
	b, err := c.body(name)
	if err != nil {
		return err
	}
	if n < 0 || n > c.cfg.MaxTrailLength {
		return fmt.Errorf("sim: %w: trail length %d outside [0, %d]", celestial.ErrInvalidParameter, n, c.cfg.MaxTrailLength)
	}
	b.Trail().SetMax(n)
	return nil
}

// ScaleVelocity multiplies a body's current velocity by f.
func (c *Controller) ScaleVelocity(name string, f float64) error {
	b, err := c.body(name)
	if err != nil {
		return err
	}
	if f < MinVelocityModifier || f > MaxVelocityModifier {
		return fmt.Errorf("sim: %w: velocity modifier %g outside [%g, %g]",
			celestial.ErrInvalidParameter, f, MinVelocityModifier, MaxVelocityModifier)
	}
	return b.ScaleVelocity(f)
}

// SetInitialState replaces a body's baseline position and velocity and
// resets the whole simulation to its baselines.
func (c *Controller) SetInitialState(name string, pos, vel r3.Vec) error {
	b, err := c.body(name)
	if err != nil {
		return err
	}
	b.ResetToDefault()
	if err := b.SetPosition(pos); err != nil {
		return err
	}
	if err := b.SetVelocity(vel); err != nil {
		b.ResetToDefault()
		return err
	}
	b.CommitDefault()
	c.Reset()
	return nil
}
