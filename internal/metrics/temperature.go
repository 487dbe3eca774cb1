package metrics

import (
	"math"

	"github.com/san-kum/starsim/internal/celestial"
	"github.com/san-kum/starsim/internal/thermal"
)

// PeakTemperature tracks the hottest equilibrium temperature, in kelvin,
// reached by one planet.
type PeakTemperature struct {
	planet string
	peak   float64
	last   float64
}

func NewPeakTemperature(planet string) *PeakTemperature {
	return &PeakTemperature{planet: planet, peak: math.Inf(-1)}
}

func (p *PeakTemperature) Name() string { return "peak_temp_" + p.planet }

func (p *PeakTemperature) Observe(sys *celestial.System, t float64) {
	b, ok := sys.Get(p.planet)
	if !ok || !b.HasSurface() {
		return
	}
	k, err := thermal.Equilibrium(b, sys.Stars()...)
	if err != nil {
		return
	}
	p.last = k
	p.peak = math.Max(p.peak, k)
}

func (p *PeakTemperature) Value() float64 {
	if math.IsInf(p.peak, -1) {
		return 0
	}
	return p.peak
}

// Last is the most recent reading in kelvin.
func (p *PeakTemperature) Last() float64 { return p.last }

func (p *PeakTemperature) Reset() {
	p.peak = math.Inf(-1)
	p.last = 0
}
