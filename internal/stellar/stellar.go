// Package stellar couples a star's mass and luminosity through the
// main-sequence mass–luminosity relation L = L₀·(M/M₀)^3.5, where M₀ and L₀
// are the star's own baseline values.
package stellar

import (
	"fmt"
	"math"

	"github.com/san-kum/starsim/internal/celestial"
)

const exponent = 3.5

// Relation selects the inverse used to derive mass from luminosity.
type Relation int

const (
	// LogPowerLaw is M = M₀·ln(L/L₀)^(2/7). The bundled scenes were balanced
	// with it. It is not the inverse of LuminosityFromMass and is undefined
	// for L ≤ L₀.
	LogPowerLaw Relation = iota

	// PowerLaw is M = M₀·(L/L₀)^(2/7), the exact inverse of
	// LuminosityFromMass.
	PowerLaw
)

func (r Relation) String() string {
	if r == PowerLaw {
		return "power"
	}
	return "log"
}

func ParseRelation(s string) (Relation, error) {
	switch s {
	case "", "log":
		return LogPowerLaw, nil
	case "power":
		return PowerLaw, nil
	}
	return LogPowerLaw, fmt.Errorf("%w: mass-luminosity relation %q", celestial.ErrInvalidParameter, s)
}

// Reference is the (M₀, L₀) pair a star's edits are measured against.
type Reference struct {
	Mass       float64
	Luminosity float64
}

// ReferenceOf returns star's committed baseline.
func ReferenceOf(star *celestial.Body) Reference {
	d := star.Default()
	return Reference{Mass: d.Mass, Luminosity: d.Luminosity}
}

// LuminosityFromMass returns L₀·(mass/M₀)^3.5.
func LuminosityFromMass(mass float64, ref Reference) (float64, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return 0, fmt.Errorf("%w: mass %g", celestial.ErrInvalidParameter, mass)
	}
	if !(ref.Mass > 0) {
		return 0, fmt.Errorf("%w: reference mass %g", celestial.ErrInvalidParameter, ref.Mass)
	}
	return ref.Luminosity * math.Pow(mass/ref.Mass, exponent), nil
}

// MassFromLuminosity applies rel to luminosity relative to ref.
func MassFromLuminosity(luminosity float64, ref Reference, rel Relation) (float64, error) {
	ratio := luminosity / ref.Luminosity
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		return 0, fmt.Errorf("%w: luminosity ratio %g", celestial.ErrInvalidParameter, ratio)
	}
	if rel == PowerLaw {
		return ref.Mass * math.Pow(ratio, 1/exponent), nil
	}
	if ratio <= 1 {
		return 0, fmt.Errorf("%w: log relation needs luminosity above %g W, got %g",
			celestial.ErrOutOfDomain, ref.Luminosity, luminosity)
	}
	return ref.Mass * math.Pow(math.Log(ratio), 1/exponent), nil
}

// EmissiveIntensity maps luminosity to a display brightness,
// |ln(L/L₀) + 4| / 5. It has no physical meaning.
func EmissiveIntensity(luminosity, refLuminosity float64) float64 {
	if luminosity <= 0 || refLuminosity <= 0 {
		return 0
	}
	return math.Abs(math.Log(luminosity/refLuminosity)+4) / 5
}

// Coupler keeps a star's mass and luminosity consistent after one of them
// is edited. Both directions are measured against the star's baseline.
type Coupler struct {
	Relation Relation
}

// UpdateLuminosityFromMass sets star's luminosity from its current mass.
func (c Coupler) UpdateLuminosityFromMass(star *celestial.Body) error {
	if !star.IsLuminous() {
		return fmt.Errorf("%w: %s is not a star", celestial.ErrInvalidParameter, star.Name())
	}
	l, err := LuminosityFromMass(star.Mass(), ReferenceOf(star))
	if err != nil {
		return err
	}
	return star.SetLuminosity(l)
}

// UpdateMassFromLuminosity sets star's mass from its current luminosity.
// On error the star is left unchanged.
func (c Coupler) UpdateMassFromLuminosity(star *celestial.Body) error {
	if !star.IsLuminous() {
		return fmt.Errorf("%w: %s is not a star", celestial.ErrInvalidParameter, star.Name())
	}
	m, err := MassFromLuminosity(star.Luminosity(), ReferenceOf(star), c.Relation)
	if err != nil {
		return err
	}
	return star.SetMass(m)
}
