// Package thermal computes grey-body equilibrium temperatures of planets
// irradiated by one or more stars:
//
//	T⁴ = (1 − albedo) · Σ L_s / (16π·σ·emissivity·d_s²)
package thermal

import (
	"fmt"
	"math"

	"github.com/san-kum/starsim/internal/celestial"
)

const (
	kelvinOffset = 273.15
	fahrenheitK  = 9.0 / 5.0
	fahrenheitC  = 32.0
)

func KelvinToCelsius(k float64) float64     { return k - kelvinOffset }
func CelsiusToFahrenheit(c float64) float64 { return c*fahrenheitK + fahrenheitC }
func KelvinToFahrenheit(k float64) float64  { return CelsiusToFahrenheit(KelvinToCelsius(k)) }

// Flux returns the irradiance in W/m² a star of luminosity lum delivers at
// distance d, before the absorption factor.
func Flux(lum, d float64) float64 {
	return lum / (16 * math.Pi * d * d)
}

// Equilibrium returns the planet's temperature in kelvin from every star
// given. Non-star bodies in stars are ignored. With no stars the result is
// 0 K. A star at zero distance yields ErrDegenerateState.
func Equilibrium(planet *celestial.Body, stars ...*celestial.Body) (float64, error) {
	if !planet.HasSurface() {
		return 0, fmt.Errorf("%w: %s is not a planet", celestial.ErrInvalidParameter, planet.Name())
	}
	sum := 0.0
	for _, s := range stars {
		if !s.IsLuminous() {
			continue
		}
		d := celestial.Distance(planet, s)
		if d == 0 {
			return 0, fmt.Errorf("%w: %s coincides with %s", celestial.ErrDegenerateState, planet.Name(), s.Name())
		}
		sum += Flux(s.Luminosity(), d)
	}
	return temperature(sum, planet.Albedo(), planet.Emissivity()), nil
}

// SingleStar evaluates the closed form for one source at distance d.
func SingleStar(lum, d, albedo, emissivity float64) (float64, error) {
	if d <= 0 {
		return 0, fmt.Errorf("%w: distance %g", celestial.ErrDegenerateState, d)
	}
	return temperature(Flux(lum, d), albedo, emissivity), nil
}

func temperature(flux, albedo, emissivity float64) float64 {
	return math.Pow(flux*(1-albedo)/(celestial.StefanBoltzmann*emissivity), 0.25)
}

// Reading is one planet's temperature in the three display units.
type Reading struct {
	Body       string
	Kelvin     float64
	Celsius    float64
	Fahrenheit float64
}

func NewReading(name string, kelvin float64) Reading {
	c := KelvinToCelsius(kelvin)
	return Reading{Body: name, Kelvin: kelvin, Celsius: c, Fahrenheit: CelsiusToFahrenheit(c)}
}

// Readings computes a reading for every planet in sys from every star in
// sys, in system order. Planets whose temperature cannot be computed are
// skipped and the first such error is returned alongside the rest.
func Readings(sys *celestial.System) ([]Reading, error) {
	stars := sys.Stars()
	var (
		out      []Reading
		firstErr error
	)
	for _, p := range sys.Planets() {
		k, err := Equilibrium(p, stars...)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out = append(out, NewReading(p.Name(), k))
	}
	return out, firstErr
}

// The liquid-water band and surface the scenes draw the habitable zone for.
const (
	HabitableMinTemp    = 273.15
	HabitableMaxTemp    = 353.15
	HabitableAlbedo     = 0.5
	HabitableEmissivity = 0.8
)

// DistanceFor inverts SingleStar: the distance from a star of luminosity lum
// at which a surface with the given albedo and emissivity sits at kelvin.
func DistanceFor(lum, kelvin, albedo, emissivity float64) (float64, error) {
	switch {
	case !(lum > 0) || math.IsInf(lum, 0):
		return 0, fmt.Errorf("%w: luminosity %g", celestial.ErrInvalidParameter, lum)
	case !(kelvin > 0) || math.IsInf(kelvin, 0):
		return 0, fmt.Errorf("%w: temperature %g", celestial.ErrInvalidParameter, kelvin)
	case !(albedo >= 0 && albedo < 1):
		return 0, fmt.Errorf("%w: albedo %g", celestial.ErrInvalidParameter, albedo)
	case !(emissivity > 0) || math.IsInf(emissivity, 0):
		return 0, fmt.Errorf("%w: emissivity %g", celestial.ErrInvalidParameter, emissivity)
	}
	t4 := kelvin * kelvin * kelvin * kelvin
	return math.Sqrt(lum * (1 - albedo) / (16 * math.Pi * celestial.StefanBoltzmann * emissivity * t4)), nil
}

// HabitableZone returns the inner (hot, tMax) and outer (cold, tMin) radii
// in metres around a star of luminosity lum. Both grow as √lum.
func HabitableZone(lum, albedo, emissivity, tMin, tMax float64) (inner, outer float64, err error) {
	if !(tMin < tMax) {
		return 0, 0, fmt.Errorf("%w: temperature band [%g, %g]", celestial.ErrInvalidParameter, tMin, tMax)
	}
	if inner, err = DistanceFor(lum, tMax, albedo, emissivity); err != nil {
		return 0, 0, err
	}
	if outer, err = DistanceFor(lum, tMin, albedo, emissivity); err != nil {
		return 0, 0, err
	}
	return inner, outer, nil
}

// Zone is a star's habitable band.
type Zone struct {
	Star         string
	Inner, Outer float64
}

// HabitableZones computes the default band for every star in sys, in
// system order.
func HabitableZones(sys *celestial.System) ([]Zone, error) {
	var zones []Zone
	for _, s := range sys.Stars() {
		in, out, err := HabitableZone(s.Luminosity(), HabitableAlbedo, HabitableEmissivity, HabitableMinTemp, HabitableMaxTemp)
		if err != nil {
			return zones, fmt.Errorf("%s: %w", s.Name(), err)
		}
		zones = append(zones, Zone{Star: s.Name(), Inner: in, Outer: out})
	}
	return zones, nil
}
