package celestial

import "math"

// Physical constants in SI units, matching the values the scenes were tuned with.
const (
	// G is the gravitational constant, signed negative so that
	// G·m·(a−b)/r³ points from a towards b.
	G = -6.67e-11

	// AU is the reference distance for the modified gravity law and scene layout.
	AU = 1.5e11

	// StefanBoltzmann is σ in W·m⁻²·K⁻⁴.
	StefanBoltzmann = 5.67e-8

	SunMass       = 1.989e30
	EarthMass     = 5.972e24
	SunLuminosity = 3.828e26

	// RotationDivisor slows spin so that it stays visible at large time steps.
	RotationDivisor = 600000.0
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
