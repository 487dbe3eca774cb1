// Package scale maps SI coordinates to render space and back. The only
// coupling between physics and rendering is render = physical / factor.
package scale

import (
	"fmt"
	"math"

	"github.com/san-kum/starsim/internal/celestial"
	"gonum.org/v1/gonum/spatial/r3"
)

// Default factors of the bundled scenes, in metres per render unit.
const (
	AlphaCentauri = 1e11
	SolarSystem   = 1e10
	EarthSun      = 1e8
)

// Scale holds the current factor and the scene default it is compared to
// when sizing bodies.
type Scale struct {
	factor     float64
	baseline   float64
	radiusMod  float64
	minF, maxF float64
}

// New returns a Scale at factor. Zoom is limited to [factor/20, 5·factor],
// the range the scene controls offered.
func New(factor float64) (*Scale, error) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("%w: scale factor %g", celestial.ErrInvalidParameter, factor)
	}
	return &Scale{
		factor:    factor,
		baseline:  factor,
		radiusMod: 1,
		minF:      factor / 20,
		maxF:      5 * factor,
	}, nil
}

func (s *Scale) Factor() float64         { return s.factor }
func (s *Scale) Baseline() float64       { return s.baseline }
func (s *Scale) RadiusModifier() float64 { return s.radiusMod }

// SetFactor changes the current factor. Values outside the zoom range are
// rejected.
func (s *Scale) SetFactor(f float64) error {
	if !(f >= s.minF && f <= s.maxF) {
		return fmt.Errorf("%w: scale factor %g outside [%g, %g]", celestial.ErrInvalidParameter, f, s.minF, s.maxF)
	}
	s.factor = f
	return nil
}

// Zoom multiplies the factor by k, clamped to the zoom range.
func (s *Scale) Zoom(k float64) {
	s.factor = math.Min(s.maxF, math.Max(s.minF, s.factor*k))
}

// SetRadiusModifier scales every rendered radius; it must be positive.
func (s *Scale) SetRadiusModifier(m float64) error {
	if !(m > 0) || math.IsInf(m, 0) {
		return fmt.Errorf("%w: radius modifier %g", celestial.ErrInvalidParameter, m)
	}
	s.radiusMod = m
	return nil
}

func (s *Scale) ToRender(p r3.Vec) r3.Vec {
	return r3.Vec{X: p.X / s.factor, Y: p.Y / s.factor, Z: p.Z / s.factor}
}

func (s *Scale) ToPhysical(p r3.Vec) r3.Vec {
	return r3.Scale(s.factor, p)
}

// RadiusRatio is baseline/factor; bodies grow as the user zooms in.
func (s *Scale) RadiusRatio() float64 {
	return s.baseline / s.factor
}

// RenderRadius is the displayed radius of b.
func (s *Scale) RenderRadius(b *celestial.Body) float64 {
	return s.RadiusRatio() * b.Radius() * s.radiusMod
}
