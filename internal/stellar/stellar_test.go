package stellar

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/starsim/internal/celestial"
)

var solar = Reference{Mass: celestial.SunMass, Luminosity: celestial.SunLuminosity}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(math.Abs(a), math.Abs(b))
}

func TestLuminosityFromMass(t *testing.T) {
	tests := []struct {
		name  string
		mass  float64
		ratio float64
	}{
		{"solar", celestial.SunMass, 1},
		{"double", 2 * celestial.SunMass, math.Pow(2, 3.5)},
		{"half", 0.5 * celestial.SunMass, math.Pow(0.5, 3.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := LuminosityFromMass(tt.mass, solar)
			if err != nil {
				t.Fatal(err)
			}
			if !near(l/celestial.SunLuminosity, tt.ratio, 1e-12) {
				t.Errorf("L/L0 = %g, want %g", l/celestial.SunLuminosity, tt.ratio)
			}
		})
	}
}

func TestLuminosityFromMass_Invalid(t *testing.T) {
	for _, m := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := LuminosityFromMass(m, solar); !errors.Is(err, celestial.ErrInvalidParameter) {
			t.Errorf("mass %g: expected ErrInvalidParameter, got %v", m, err)
		}
	}
}

func TestMassFromLuminosity_Log(t *testing.T) {
	m, err := MassFromLuminosity(math.E*celestial.SunLuminosity, solar, LogPowerLaw)
	if err != nil {
		t.Fatal(err)
	}
	if !near(m, celestial.SunMass, 1e-12) {
		t.Errorf("ln(e)^(2/7) should be 1, got M/M0 = %g", m/celestial.SunMass)
	}

	l := math.Exp(math.Pow(2, 3.5)) * celestial.SunLuminosity
	m, err = MassFromLuminosity(l, solar, LogPowerLaw)
	if err != nil {
		t.Fatal(err)
	}
	if !near(m, 2*celestial.SunMass, 1e-9) {
		t.Errorf("M/M0 = %g, want 2", m/celestial.SunMass)
	}
}

func TestMassFromLuminosity_Domain(t *testing.T) {
	tests := []struct {
		name string
		lum  float64
		rel  Relation
		want error
	}{
		{"zero", 0, LogPowerLaw, celestial.ErrInvalidParameter},
		{"negative", -1, PowerLaw, celestial.ErrInvalidParameter},
		{"baseline log", celestial.SunLuminosity, LogPowerLaw, celestial.ErrOutOfDomain},
		{"dim log", 0.5 * celestial.SunLuminosity, LogPowerLaw, celestial.ErrOutOfDomain},
		{"dim power", 0.5 * celestial.SunLuminosity, PowerLaw, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MassFromLuminosity(tt.lum, solar, tt.rel)
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPowerLawRoundTrip(t *testing.T) {
	ref := Reference{Mass: 1.1 * celestial.SunMass, Luminosity: 1.519 * celestial.SunLuminosity}
	for _, f := range []float64{0.1, 0.93, 1, 1.1, 7.5} {
		m := f * ref.Mass
		l, err := LuminosityFromMass(m, ref)
		if err != nil {
			t.Fatal(err)
		}
		back, err := MassFromLuminosity(l, ref, PowerLaw)
		if err != nil {
			t.Fatal(err)
		}
		if !near(back, m, 1e-12) {
			t.Errorf("round trip %g M0: got %g M0", f, back/ref.Mass)
		}
	}
}

func TestEmissiveIntensity(t *testing.T) {
	l0 := celestial.SunLuminosity
	if got := EmissiveIntensity(l0, l0); !near(got, 0.8, 1e-12) {
		t.Errorf("baseline intensity = %g, want 0.8", got)
	}
	if got := EmissiveIntensity(math.Exp(-4)*l0, l0); got > 1e-12 {
		t.Errorf("intensity at e^-4 L0 = %g, want 0", got)
	}
	if got := EmissiveIntensity(0, l0); got != 0 {
		t.Errorf("intensity of dark body = %g", got)
	}
}

func newStar(t *testing.T, mass, lum float64) *celestial.Body {
	t.Helper()
	s, err := celestial.NewStar(celestial.Params{Name: "Star", Mass: mass, Radius: 1}, lum)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCoupler_UsesBaseline(t *testing.T) {
	m0, l0 := 0.93*celestial.SunMass, 0.5*celestial.SunLuminosity
	star := newStar(t, m0, l0)
	c := Coupler{Relation: PowerLaw}

	if err := star.SetMass(2 * m0); err != nil {
		t.Fatal(err)
	}
	if err := c.UpdateLuminosityFromMass(star); err != nil {
		t.Fatal(err)
	}
	if !near(star.Luminosity(), math.Pow(2, 3.5)*l0, 1e-12) {
		t.Errorf("luminosity = %g L0", star.Luminosity()/l0)
	}
	if err := c.UpdateMassFromLuminosity(star); err != nil {
		t.Fatal(err)
	}
	if !near(star.Mass(), 2*m0, 1e-12) {
		t.Errorf("mass = %g M0", star.Mass()/m0)
	}
}

func TestCoupler_LogBaselineIsOutOfDomain(t *testing.T) {
	star := newStar(t, 0.93*celestial.SunMass, 0.5*celestial.SunLuminosity)
	err := Coupler{}.UpdateMassFromLuminosity(star)
	if !errors.Is(err, celestial.ErrOutOfDomain) {
		t.Fatalf("expected ErrOutOfDomain, got %v", err)
	}
	if star.Mass() != 0.93*celestial.SunMass {
		t.Errorf("mass changed to %g", star.Mass())
	}

	if err := star.SetLuminosity(math.E * 0.5 * celestial.SunLuminosity); err != nil {
		t.Fatal(err)
	}
	if err := (Coupler{}).UpdateMassFromLuminosity(star); err != nil {
		t.Fatal(err)
	}
	if !near(star.Mass(), 0.93*celestial.SunMass, 1e-12) {
		t.Errorf("mass = %g, want baseline", star.Mass())
	}
}

func TestCoupler_RejectsPlanet(t *testing.T) {
	p, err := celestial.NewPlanet(celestial.Params{Name: "P", Mass: 1, Radius: 1}, 0.3, 0.6)
	if err != nil {
		t.Fatal(err)
	}
	if err := (Coupler{}).UpdateLuminosityFromMass(p); !errors.Is(err, celestial.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}
