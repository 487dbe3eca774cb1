package celestial

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func earthParams() Params {
	return Params{
		Name:         "Earth",
		Position:     r3.Vec{X: AU},
		Velocity:     r3.Vec{Z: -29783},
		Mass:         EarthMass,
		Radius:       0.75,
		RotationRate: math.Pi,
		TrailLength:  10,
	}
}

func TestNewPlanet_FractionBounds(t *testing.T) {
	tests := []struct {
		name       string
		albedo     float64
		emissivity float64
		wantErr    bool
	}{
		{"typical", 0.2, 0.7, false},
		{"near bounds", 0.01, 0.99, false},
		{"zero albedo", 0, 0.7, true},
		{"unit albedo", 1, 0.7, true},
		{"negative emissivity", 0.2, -0.1, true},
		{"unit emissivity", 0.2, 1, true},
		{"nan albedo", math.NaN(), 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlanet(earthParams(), tt.albedo, tt.emissivity)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidParameter) {
					t.Errorf("expected ErrInvalidParameter, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewBody_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"empty name", func(p *Params) { p.Name = "" }},
		{"blank name", func(p *Params) { p.Name = "  " }},
		{"path name", func(p *Params) { p.Name = "../earth" }},
		{"separator", func(p *Params) { p.Name = "sol/earth" }},
		{"zero mass", func(p *Params) { p.Mass = 0 }},
		{"negative mass", func(p *Params) { p.Mass = -1 }},
		{"negative radius", func(p *Params) { p.Radius = -1 }},
		{"inf position", func(p *Params) { p.Position.Y = math.Inf(1) }},
		{"nan velocity", func(p *Params) { p.Velocity.X = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := earthParams()
			tt.mutate(&p)
			if _, err := NewBody(p); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestNewStar_Luminosity(t *testing.T) {
	if _, err := NewStar(earthParams(), 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for zero luminosity, got %v", err)
	}

	s, err := NewStar(Params{Name: "Sun", Mass: SunMass, Radius: 1.4}, SunLuminosity)
	if err != nil {
		t.Fatalf("new star: %v", err)
	}
	if !s.IsLuminous() || s.Kind() != KindStar {
		t.Error("expected a luminous star")
	}
	if s.Default().Luminosity != SunLuminosity {
		t.Errorf("expected default luminosity %g, got %g", SunLuminosity, s.Default().Luminosity)
	}
}

func TestResetToDefault_RestoresConstructorState(t *testing.T) {
	b, err := NewPlanet(earthParams(), 0.2, 0.7)
	if err != nil {
		t.Fatalf("new planet: %v", err)
	}
	want := b.Default()

	b.Move(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: 4, Y: 5, Z: 6})
	if err := b.SetMass(2 * EarthMass); err != nil {
		t.Fatal(err)
	}
	b.Spin(4320)
	b.Trail().Push(r3.Vec{X: 1})

	for i := 0; i < 2; i++ {
		b.ResetToDefault()
		if b.Position() != want.Position {
			t.Errorf("reset %d: position %v, want %v", i, b.Position(), want.Position)
		}
		if b.Velocity() != want.Velocity {
			t.Errorf("reset %d: velocity %v, want %v", i, b.Velocity(), want.Velocity)
		}
		if b.Mass() != want.Mass {
			t.Errorf("reset %d: mass %g, want %g", i, b.Mass(), want.Mass)
		}
		if b.Rotation() != 0 {
			t.Errorf("reset %d: rotation %g, want 0", i, b.Rotation())
		}
		if b.Trail().Len() != 0 {
			t.Errorf("reset %d: trail length %d, want 0", i, b.Trail().Len())
		}
	}
}

func TestResetToDefault_StarLuminosity(t *testing.T) {
	s, _ := NewStar(Params{Name: "Sun", Mass: SunMass}, SunLuminosity)
	if err := s.SetLuminosity(3 * SunLuminosity); err != nil {
		t.Fatal(err)
	}
	s.ResetToDefault()
	if s.Luminosity() != SunLuminosity {
		t.Errorf("expected luminosity %g after reset, got %g", SunLuminosity, s.Luminosity())
	}
}

func TestCommitDefault_NewBaseline(t *testing.T) {
	b, _ := NewBody(earthParams())
	moved := r3.Vec{X: 2 * AU}
	if err := b.SetPosition(moved); err != nil {
		t.Fatal(err)
	}
	b.CommitDefault()
	b.Move(r3.Vec{}, r3.Vec{})
	b.ResetToDefault()
	if b.Position() != moved {
		t.Errorf("expected committed baseline %v, got %v", moved, b.Position())
	}
}

func TestSetters_KindChecks(t *testing.T) {
	b, _ := NewBody(earthParams())
	if err := b.SetLuminosity(1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("plain body accepted luminosity: %v", err)
	}
	if err := b.SetAlbedo(0.3); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("plain body accepted albedo: %v", err)
	}

	p, _ := NewPlanet(earthParams(), 0.2, 0.7)
	if err := p.SetEmissivity(1.5); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected rejection of emissivity 1.5, got %v", err)
	}
	if p.Emissivity() != 0.7 {
		t.Errorf("rejected edit changed emissivity to %g", p.Emissivity())
	}
	if err := p.SetPosition(r3.Vec{X: math.NaN()}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected NaN position to be rejected, got %v", err)
	}
}

func TestParameterError_Unwrap(t *testing.T) {
	_, err := NewPlanet(earthParams(), 2, 0.5)
	var pe *ParameterError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParameterError, got %T", err)
	}
	if pe.Field != "albedo" || pe.Body != "Earth" {
		t.Errorf("unexpected error context: %+v", pe)
	}
}

func TestSpin(t *testing.T) {
	b, _ := NewBody(earthParams())
	b.Spin(600000)
	if math.Abs(b.Rotation()-math.Pi) > 1e-12 {
		t.Errorf("expected rotation pi, got %g", b.Rotation())
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"": KindBody, "body": KindBody, "star": KindStar, "planet": KindPlanet} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseKind("comet"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
