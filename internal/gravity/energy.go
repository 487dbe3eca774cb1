package gravity

import (
	"github.com/san-kum/starsim/internal/celestial"
	"gonum.org/v1/gonum/spatial/r3"
)

// KineticEnergy is Σ ½·m·|v|².
func KineticEnergy(sys *celestial.System) float64 {
	ke := 0.0
	for _, b := range sys.Bodies() {
		ke += 0.5 * b.Mass() * r3.Norm2(b.Velocity())
	}
	return ke
}

// PotentialEnergy is the inverse-square pair potential Σ G·m_a·m_b / r over
// unordered pairs (G is negative, so the sum is too). Coincident pairs are
// skipped.
func PotentialEnergy(sys *celestial.System) float64 {
	bodies := sys.Bodies()
	pe := 0.0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			r := celestial.Distance(bodies[i], bodies[j])
			if r == 0 {
				continue
			}
			pe += celestial.G * bodies[i].Mass() * bodies[j].Mass() / r
		}
	}
	return pe
}

func TotalEnergy(sys *celestial.System) float64 {
	return KineticEnergy(sys) + PotentialEnergy(sys)
}

// Momentum is Σ m·v.
func Momentum(sys *celestial.System) r3.Vec {
	var p r3.Vec
	for _, b := range sys.Bodies() {
		p = r3.Add(p, r3.Scale(b.Mass(), b.Velocity()))
	}
	return p
}

// AngularMomentum is Σ m·(x × v) about the origin.
func AngularMomentum(sys *celestial.System) r3.Vec {
	var l r3.Vec
	for _, b := range sys.Bodies() {
		l = r3.Add(l, r3.Scale(b.Mass(), r3.Cross(b.Position(), b.Velocity())))
	}
	return l
}

// IsFinite reports whether every body's position and velocity is finite.
func IsFinite(sys *celestial.System) bool {
	for _, b := range sys.Bodies() {
		if !finiteVec(b.Position()) || !finiteVec(b.Velocity()) {
			return false
		}
	}
	return true
}
