package viz

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/starsim/internal/celestial"
	"github.com/san-kum/starsim/internal/stellar"
)

var (
	starDim    = mustHex("#ff4a1c")
	starBright = mustHex("#dff1ff")
	planetCold = mustHex("#3d6fd6")
	planetHot  = mustHex("#f08a24")
	bodyGrey   = mustHex("#9a9aa8")
	zoneGreen  = mustHex("#2fbf71")
)

// Planet colours run from planetCold at coldK to planetHot at hotK.
const (
	coldK = 100.0
	hotK  = 500.0
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// StarColor blends from red to blue-white with the star's emissive
// intensity relative to its own baseline luminosity.
func StarColor(b *celestial.Body) colorful.Color {
	ref := b.Default().Luminosity
	if ref <= 0 || b.Luminosity() <= 0 {
		return starDim
	}
	t := stellar.EmissiveIntensity(b.Luminosity(), ref)
	return starDim.BlendHcl(starBright, clamp01(t)).Clamped()
}

// PlanetColor blends from blue to orange with equilibrium temperature.
func PlanetColor(kelvin float64) colorful.Color {
	return planetCold.BlendHcl(planetHot, clamp01((kelvin-coldK)/(hotK-coldK))).Clamped()
}

// BodyColor picks a colour for b. temps maps planet names to kelvin.
func BodyColor(b *celestial.Body, temps map[string]float64) colorful.Color {
	switch {
	case b.IsLuminous():
		return StarColor(b)
	case b.HasSurface():
		if k, ok := temps[b.Name()]; ok {
			return PlanetColor(k)
		}
		return planetCold
	default:
		return bodyGrey
	}
}

// Fade darkens c towards black by f in [0, 1].
func Fade(c colorful.Color, f float64) colorful.Color {
	return c.BlendLab(colorful.Color{}, clamp01(f)).Clamped()
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
