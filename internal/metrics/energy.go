package metrics

import (
	"math"

	"github.com/san-kum/starsim/internal/celestial"
	"github.com/san-kum/starsim/internal/gravity"
	"gonum.org/v1/gonum/spatial/r3"
)

// Energy is the mean total (kinetic + inverse-square potential) energy over
// the observed ticks.
type Energy struct {
	name        string
	last        float64
	totalEnergy float64
	samples     int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(sys *celestial.System, t float64) {
	e.last = gravity.TotalEnergy(sys)
	e.totalEnergy += e.last
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

// Last is the energy at the most recent tick.
func (e *Energy) Last() float64 { return e.last }

func (e *Energy) Reset() {
	e.last = 0
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation of total energy from the
// first observed tick.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(sys *celestial.System, t float64) {
	energy := gravity.TotalEnergy(sys)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift is the largest |p − p₀| seen, relative to Σ m·|v| at the
// first tick. The interaction filter is the usual source of drift.
type MomentumDrift struct {
	name     string
	initial  r3.Vec
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(sys *celestial.System, t float64) {
	p := gravity.Momentum(sys)
	if m.samples == 0 {
		m.initial = p
		for _, b := range sys.Bodies() {
			m.scale += b.Mass() * r3.Norm(b.Velocity())
		}
	}
	m.samples++
	if m.scale > 0 {
		m.maxDrift = math.Max(m.maxDrift, r3.Norm(r3.Sub(p, m.initial))/m.scale)
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = r3.Vec{}
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}
