package metrics

import (
	"math"

	"github.com/san-kum/starsim/internal/celestial"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stability is the fraction of ticks on which every body is finite and
// within threshold metres of the system's centre of mass.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sys *celestial.System, t float64) {
	s.samples++
	com := sys.CenterOfMass()
	for _, b := range sys.Bodies() {
		r := r3.Norm(r3.Sub(b.Position(), com))
		if math.IsNaN(r) || math.IsInf(r, 0) || r > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
