package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/starsim/internal/celestial"
	"github.com/san-kum/starsim/internal/gravity"
	"github.com/san-kum/starsim/internal/stellar"
)

const (
	DefaultTimeStep       = 4320.0
	DefaultScaleFactor    = 1e10
	DefaultMaxTrailLength = 2500
)

// Config is the tunable state of a running simulation. It is owned by the
// Controller and changed only through its setters.
type Config struct {
	// TimeStep is simulated seconds per tick; negative runs time backward.
	TimeStep float64

	// GravitationalN modifies the force law to G' = G·(AU/r)^N.
	GravitationalN float64

	MinInteractingMass     float64
	MaxInteractingDistance float64
	MinDistance            float64

	Paused bool
	Order  gravity.UpdateOrder

	ScaleFactor float64

	// MaxTrailLength bounds per-body trail lengths.
	MaxTrailLength int

	Relation stellar.Relation
}

func DefaultConfig() Config {
	p := gravity.DefaultParams()
	return Config{
		TimeStep:               DefaultTimeStep,
		MinInteractingMass:     p.MinInteractingMass,
		MaxInteractingDistance: p.MaxInteractingDistance,
		ScaleFactor:            DefaultScaleFactor,
		MaxTrailLength:         DefaultMaxTrailLength,
	}
}

func (c Config) Validate() error {
	checks := []struct {
		field string
		v     float64
		ok    bool
	}{
		{"time_step", c.TimeStep, finite(c.TimeStep)},
		{"gravitational_n", c.GravitationalN, finite(c.GravitationalN)},
		{"min_interacting_mass", c.MinInteractingMass, c.MinInteractingMass >= 0 && !math.IsInf(c.MinInteractingMass, 0)},
		{"max_interacting_distance", c.MaxInteractingDistance, c.MaxInteractingDistance >= 0},
		{"min_distance", c.MinDistance, c.MinDistance >= 0 && finite(c.MinDistance)},
		{"scale_factor", c.ScaleFactor, c.ScaleFactor > 0 && finite(c.ScaleFactor)},
	}
	for _, ch := range checks {
		if !ch.ok {
			return fmt.Errorf("sim: %w: %s = %g", celestial.ErrInvalidParameter, ch.field, ch.v)
		}
	}
	if c.MaxTrailLength < 0 {
		return fmt.Errorf("sim: %w: max_trail_length = %d", celestial.ErrInvalidParameter, c.MaxTrailLength)
	}
	if c.Order != gravity.Sequential && c.Order != gravity.Simultaneous {
		return fmt.Errorf("sim: %w: update order %d", celestial.ErrInvalidParameter, c.Order)
	}
	if c.Relation != stellar.LogPowerLaw && c.Relation != stellar.PowerLaw {
		return fmt.Errorf("sim: %w: relation %d", celestial.ErrInvalidParameter, c.Relation)
	}
	return nil
}

func (c Config) params() gravity.Params {
	return gravity.Params{
		TimeStep:               c.TimeStep,
		Exponent:               c.GravitationalN,
		MinInteractingMass:     c.MinInteractingMass,
		MaxInteractingDistance: c.MaxInteractingDistance,
		MinDistance:            c.MinDistance,
		Order:                  c.Order,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
