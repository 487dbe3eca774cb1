package metrics

import (
	"github.com/san-kum/starsim/internal/celestial"
	"github.com/san-kum/starsim/internal/sim"
)

var (
	_ sim.Metric = (*Energy)(nil)
	_ sim.Metric = (*EnergyDrift)(nil)
	_ sim.Metric = (*MomentumDrift)(nil)
	_ sim.Metric = (*Stability)(nil)
	_ sim.Metric = (*PeakTemperature)(nil)
	_ sim.Metric = (*History)(nil)
)

// History records a sampled value after every observation, keeping the
// newest max samples for plotting.
type History struct {
	name   string
	sample func(*celestial.System) float64
	values []float64
	max    int
}

func NewHistory(name string, max int, sample func(*celestial.System) float64) *History {
	return &History{name: name, sample: sample, max: max}
}

func (h *History) Name() string { return h.name }

func (h *History) Observe(sys *celestial.System, t float64) {
	h.values = append(h.values, h.sample(sys))
	if h.max > 0 && len(h.values) > h.max {
		h.values = h.values[len(h.values)-h.max:]
	}
}

// Value is the latest sample.
func (h *History) Value() float64 {
	if len(h.values) == 0 {
		return 0
	}
	return h.values[len(h.values)-1]
}

func (h *History) Values() []float64 {
	out := make([]float64, len(h.values))
	copy(out, h.values)
	return out
}

func (h *History) Reset() { h.values = h.values[:0] }
