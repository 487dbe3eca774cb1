package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/starsim/internal/celestial"
	"github.com/san-kum/starsim/internal/scale"
)

const (
	au = celestial.AU
	mS = celestial.SunMass
	mE = celestial.EarthMass
	lS = celestial.SunLuminosity
	pi = math.Pi

	solarRadius  = 1.5
	alphaRadius  = 1.25
	proximaAlpha = 2500 * au
)

func star(name string, x, vz, mass, radius, rotation, lum float64) BodyConfig {
	return BodyConfig{
		Name: name, Kind: "star",
		Position: [3]float64{x, 0, 0}, Velocity: [3]float64{0, 0, vz},
		Mass: mass, Radius: radius, Rotation: rotation, Luminosity: lum,
	}
}

func planet(name string, x, vz, mass, radius, rotation, albedo, emissivity float64) BodyConfig {
	return BodyConfig{
		Name: name, Kind: "planet",
		Position: [3]float64{x, 0, 0}, Velocity: [3]float64{0, 0, vz},
		Mass: mass, Radius: radius, Rotation: rotation, Albedo: albedo, Emissivity: emissivity,
	}
}

var (
	sun     = star("Sun", 0, 0, mS, .95*solarRadius, 2*pi, lS)
	mercury = planet("Mercury", .4*au, -47000, 3.285e23, .30*solarRadius, .4*pi, .12, .9)
	venus   = planet("Venus", .7*au, -35020, 4.867e24, .50*solarRadius, -.1*pi, .8, .01)
	earth   = planet("Earth", au, -29783, mE, .50*solarRadius, pi, .2, .7)
	mars    = planet("Mars", 1.5*au, -24077, 6.39e23, .35*solarRadius, pi, .32, .95)
	jupiter = planet("Jupiter", 5.2*au, -13070, 1.898e27, .9*solarRadius, 1.5*pi, .5, .2)
	saturn  = planet("Saturn", 9.5*au, -9690, 5.683e26, .85*solarRadius, 1.25*pi, .34, .3)
	uranus  = planet("Uranus", 19.8*au, -6810, 8.681e25, .8*solarRadius, 1.8*pi, .3, .4)
	neptune = planet("Neptune", 30*au, -5430, 1.024e26, .75*solarRadius, 2*pi, .29, .3)
	pluto   = planet("Pluto", 39*au, -4670, 1.303e22, .18*solarRadius, pi, .1, .6)
	dwarf   = star("Brown Dwarf", 50*au, -2000, .05*mS, .6*solarRadius, 2*pi, .01*lS)

	alphaA   = star("Alpha Centauri A", -10.9*au/2, 5000, 1.1*mS, 1.1*alphaRadius, 1.5*pi, 1.519*lS)
	alphaB   = star("Alpha Centauri B", 12.8*au/2, -5000, .93*mS, .9*alphaRadius, 1.5*pi, .5*lS)
	proxima  = star("Proxima Centauri", proximaAlpha, -11000, 2.428e29, .45*alphaRadius, pi, .0017*lS)
	proximaB = planet("Proxima Centauri B", proximaAlpha+.5*au, -11000-12500, 1.07*mE, .2*alphaRadius, .6*pi, .1, .9)
	proximaC = planet("Proxima Centauri C", proximaAlpha+1.49*au, -11000-7500, 7*mE, .3*alphaRadius, .3*pi, .1, .9)
)

func filter(maxDistance float64) SimulationConfig {
	s := DefaultSimulation()
	s.MinInteractingMass = .1 * mS
	s.MaxInteractingDistance = maxDistance
	return s
}

// Presets are the built-in scenes. Use Scene to get a private copy.
var Presets = map[string]*Config{
	"earth-sun": {
		Scene: "earth-sun",
		Simulation: func() SimulationConfig {
			s := filter(10 * au)
			s.TimeStep = 1000
			s.ScaleFactor = scale.EarthSun
			return s
		}(),
		Bodies:    []BodyConfig{sun, earth},
		Reference: "Sun",
	},
	"solar-system": {
		Scene: "solar-system",
		Simulation: func() SimulationConfig {
			s := filter(10 * au)
			s.TimeStep = 20000
			s.ScaleFactor = scale.SolarSystem
			return s
		}(),
		Bodies:    []BodyConfig{sun, mercury, venus, earth, mars, jupiter, saturn, uranus, neptune, pluto, dwarf},
		Reference: "Sun",
	},
	"alpha-centauri": {
		Scene: "alpha-centauri",
		Simulation: func() SimulationConfig {
			s := filter(10 * au)
			s.ScaleFactor = scale.AlphaCentauri
			return s
		}(),
		Bodies:    []BodyConfig{alphaA, alphaB, proxima, proximaB, proximaC},
		Reference: "Alpha Centauri A",
	},
	"sandbox": {
		Scene: "sandbox",
		Simulation: func() SimulationConfig {
			s := filter(.5 * au)
			s.ScaleFactor = scale.SolarSystem
			return s
		}(),
		Bodies: []BodyConfig{sun, earth},
		Catalog: []BodyConfig{
			mercury, venus, mars, jupiter, saturn, uranus, neptune, pluto,
			alphaA, alphaB, proxima, proximaB, proximaC,
		},
		Reference: "Sun",
	},
}

// Scene returns a copy of the named built-in scene.
func Scene(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("config: unknown scene %q (have %v)", name, ListScenes())
	}
	cfg := *p
	cfg.Bodies = append([]BodyConfig(nil), p.Bodies...)
	cfg.Catalog = append([]BodyConfig(nil), p.Catalog...)
	return &cfg, nil
}

func ListScenes() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
