package sim

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/starsim/internal/celestial"
	"github.com/san-kum/starsim/internal/stellar"
	"gonum.org/v1/gonum/spatial/r3"
)

type fataler interface {
	Helper()
	Fatal(args ...any)
}

func earthSun(t fataler) *celestial.System {
	t.Helper()
	sun, err := celestial.NewStar(celestial.Params{
		Name: "Sun", Mass: celestial.SunMass, Radius: 1.4, RotationRate: 2 * math.Pi,
	}, celestial.SunLuminosity)
	if err != nil {
		t.Fatal(err)
	}
	earth, err := celestial.NewPlanet(celestial.Params{
		Name:         "Earth",
		Position:     r3.Vec{X: celestial.AU},
		Velocity:     r3.Vec{Z: -29783},
		Mass:         celestial.EarthMass,
		Radius:       0.75,
		RotationRate: math.Pi,
		TrailLength:  100,
	}, 0.2, 0.7)
	if err != nil {
		t.Fatal(err)
	}
	sys, err := celestial.NewSystem(sun, earth)
	if err != nil {
		t.Fatal(err)
	}
	return sys
}

func newController(t fataler) *Controller {
	t.Helper()
	c, err := New(earthSun(t), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"negative time step", func(c *Config) { c.TimeStep = -4320 }, true},
		{"nan time step", func(c *Config) { c.TimeStep = math.NaN() }, false},
		{"zero scale", func(c *Config) { c.ScaleFactor = 0 }, false},
		{"negative floor", func(c *Config) { c.MinDistance = -1 }, false},
		{"negative trail", func(c *Config) { c.MaxTrailLength = -1 }, false},
		{"bad relation", func(c *Config) { c.Relation = stellar.Relation(9) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, ok want %v", err, tt.ok)
			}
			if err != nil && !errors.Is(err, celestial.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestTick_Paused(t *testing.T) {
	c := newController(t)
	c.Pause()
	earth, _ := c.System().Get("Earth")
	before := earth.Position()

	if c.Tick() {
		t.Error("Tick should not advance while paused")
	}
	if earth.Position() != before || c.Ticks() != 0 {
		t.Error("paused tick changed state")
	}
	if c.TogglePause() != Running {
		t.Error("expected running after toggle")
	}
	if !c.Tick() || c.Ticks() != 1 {
		t.Error("expected one tick after resume")
	}
}

func TestTick_AdvancesRotationAndTrail(t *testing.T) {
	c := newController(t)
	for i := 0; i < 5; i++ {
		c.Tick()
	}
	earth, _ := c.System().Get("Earth")
	want := 5 * math.Pi * DefaultTimeStep / celestial.RotationDivisor
	if math.Abs(earth.Rotation()-want) > 1e-12 {
		t.Errorf("rotation = %g, want %g", earth.Rotation(), want)
	}
	if earth.Trail().Len() != 5 {
		t.Errorf("trail length = %d, want 5", earth.Trail().Len())
	}
	last, _ := earth.Trail().Last()
	if last != c.RenderPosition(earth) {
		t.Error("trail should end at the current render position")
	}
	if c.Elapsed() != 5*DefaultTimeStep {
		t.Errorf("elapsed = %g", c.Elapsed())
	}
}

func TestReset(t *testing.T) {
	c := newController(t)
	earth, _ := c.System().Get("Earth")
	start := earth.Position()
	c.Run(50)

	c.Reset()
	if earth.Position() != start {
		t.Errorf("position = %v, want %v", earth.Position(), start)
	}
	if earth.Rotation() != 0 || earth.Trail().Len() != 0 {
		t.Error("reset should zero rotation and clear trails")
	}
	if c.Ticks() != 0 || c.Elapsed() != 0 {
		t.Error("reset should zero the clock")
	}

	c.Pause()
	c.Run(3)
	c.Reset()
	if earth.Trail().Len() != 1 {
		t.Errorf("paused reset should seed one trail point, got %d", earth.Trail().Len())
	}
}

func TestReverseTime(t *testing.T) {
	c := newController(t)
	earth, _ := c.System().Get("Earth")
	start := earth.Position()

	c.Run(10)
	c.ReverseTime()
	if c.Config().TimeStep != -DefaultTimeStep {
		t.Fatalf("time step = %g", c.Config().TimeStep)
	}
	c.Run(10)
	if d := r3.Norm(r3.Sub(earth.Position(), start)); d > 1e-3*celestial.AU {
		t.Errorf("reversed run ended %g m from start", d)
	}
	c.ReverseTime()
	if c.Config().TimeStep != DefaultTimeStep {
		t.Error("double reverse should restore the time step")
	}
}

func TestSetters(t *testing.T) {
	c := newController(t)
	if err := c.SetTimeStep(math.Inf(1)); !errors.Is(err, celestial.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	if err := c.SetTimeStep(100); err != nil || c.Config().TimeStep != 100 {
		t.Errorf("SetTimeStep: %v", err)
	}
	if err := c.SetGravitationalExponent(0.5); err != nil || c.Config().GravitationalN != 0.5 {
		t.Errorf("SetGravitationalExponent: %v", err)
	}
	if err := c.SetScaleFactor(2e10); err != nil || c.Config().ScaleFactor != 2e10 {
		t.Errorf("SetScaleFactor: %v", err)
	}
	if err := c.SetScaleFactor(1e15); err == nil {
		t.Error("expected out-of-range scale factor to fail")
	}
}

func TestAddRandomPlanet(t *testing.T) {
	c := newController(t)
	c.Pause()
	rng := rand.New(rand.NewSource(7))

	b, err := c.AddRandomPlanet(rng, "  ")
	if err != nil {
		t.Fatal(err)
	}
	if b.Name() != "New Planet 1" {
		t.Errorf("name = %q", b.Name())
	}
	d := b.Default().Position.X / celestial.AU
	if d < 0.5 || d > 3.5 {
		t.Errorf("distance %g AU out of range", d)
	}
	if m := b.Mass() / celestial.EarthMass; m < 0.25 || m > 4.25 {
		t.Errorf("mass %g Earth masses out of range", m)
	}
	if b.Albedo() < 0.01 || b.Albedo() > 0.99 || b.Emissivity() < 0.01 || b.Emissivity() > 0.99 {
		t.Errorf("fractions out of range: %g, %g", b.Albedo(), b.Emissivity())
	}
	if b.Position() == b.Default().Position {
		t.Error("adding should run one integrator pass even while paused")
	}
	if name, _, _ := c.Focus(); name != b.Name() {
		t.Errorf("focus = %q, want the new planet", name)
	}

	named, err := c.AddRandomPlanet(rng, "Vulcan")
	if err != nil || named.Name() != "Vulcan" {
		t.Fatalf("named planet: %v", err)
	}
	b2, _ := c.AddRandomPlanet(rng, "")
	if b2.Name() != "New Planet 2" {
		t.Errorf("name = %q, want New Planet 2", b2.Name())
	}
	if _, err := c.AddRandomPlanet(rng, "Vulcan"); !errors.Is(err, celestial.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

func TestRemoveBody_FocusFallsBack(t *testing.T) {
	c := newController(t)
	if err := c.FocusCamera("Earth"); err != nil {
		t.Fatal(err)
	}
	if err := c.RemoveBody("Earth"); err != nil {
		t.Fatal(err)
	}
	if name, _, _ := c.Focus(); name != "Sun" {
		t.Errorf("focus = %q, want Sun", name)
	}
	if err := c.RemoveBody("Earth"); !errors.Is(err, celestial.ErrUnknownBody) {
		t.Errorf("expected ErrUnknownBody, got %v", err)
	}
}

func TestHandle(t *testing.T) {
	c := newController(t)
	h, err := c.Handle("Earth")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.FocusCamera(); err != nil {
		t.Fatal(err)
	}
	if err := h.Rename("Terra"); err != nil {
		t.Fatal(err)
	}
	if h.Name() != "Terra" {
		t.Errorf("handle name = %q", h.Name())
	}
	if name, _, _ := c.Focus(); name != "Terra" {
		t.Errorf("focus should follow rename, got %q", name)
	}
	if err := h.Rename(""); err != nil || h.Name() != "Terra" {
		t.Errorf("blank rename should be a no-op: %v", err)
	}
	if err := h.Remove(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.System().Get("Terra"); ok {
		t.Error("body still present after remove")
	}
	if _, err := c.Handle("Terra"); !errors.Is(err, celestial.ErrUnknownBody) {
		t.Errorf("expected ErrUnknownBody, got %v", err)
	}
}

func TestCycleFocus(t *testing.T) {
	c := newController(t)
	if got := c.CycleFocus(); got != "Earth" {
		t.Errorf("first cycle = %q", got)
	}
	if got := c.CycleFocus(); got != "Sun" {
		t.Errorf("second cycle = %q", got)
	}
}

func TestStarEdits(t *testing.T) {
	c := newController(t)

	err := c.SetStarLuminosity("Sun", 0.5*celestial.SunLuminosity)
	if !errors.Is(err, celestial.ErrOutOfDomain) {
		t.Fatalf("expected ErrOutOfDomain, got %v", err)
	}
	sun, _ := c.System().Get("Sun")
	if sun.Luminosity() != celestial.SunLuminosity || sun.Mass() != celestial.SunMass {
		t.Error("failed edit should leave the star unchanged")
	}

	if err := c.SetStarLuminosity("Sun", math.E*celestial.SunLuminosity); err != nil {
		t.Fatal(err)
	}
	if math.Abs(sun.Mass()-celestial.SunMass)/celestial.SunMass > 1e-12 {
		t.Errorf("mass = %g M0, want 1", sun.Mass()/celestial.SunMass)
	}

	if err := c.SetStarMass("Sun", 2*celestial.SunMass); err != nil {
		t.Fatal(err)
	}
	if r := sun.Luminosity() / celestial.SunLuminosity; math.Abs(r-math.Pow(2, 3.5)) > 1e-9 {
		t.Errorf("L/L0 = %g", r)
	}

	if err := c.SetStarMass("Earth", 1); !errors.Is(err, celestial.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for a planet, got %v", err)
	}

	c.Reset()
	if sun.Mass() != celestial.SunMass || sun.Luminosity() != celestial.SunLuminosity {
		t.Error("reset should restore mass and luminosity")
	}
}

func TestPlanetEdits(t *testing.T) {
	c := newController(t)
	if err := c.SetAlbedo("Earth", 0.3); err != nil {
		t.Fatal(err)
	}
	if err := c.SetEmissivity("Earth", 1.2); !errors.Is(err, celestial.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	if err := c.SetAlbedo("Sun", 0.3); !errors.Is(err, celestial.ErrInvalidParameter) {
		t.Errorf("albedo on a star should fail, got %v", err)
	}
	rs, err := c.Temperatures()
	if err != nil || len(rs) != 1 {
		t.Fatalf("Temperatures: %v %v", rs, err)
	}
}

func TestSetTrailLength(t *testing.T) {
	c := newController(t)
	c.Run(20)
	earth, _ := c.System().Get("Earth")
	if err := c.SetTrailLength("Earth", 5); err != nil {
		t.Fatal(err)
	}
	if earth.Trail().Len() != 5 {
		t.Errorf("trail length = %d, want 5", earth.Trail().Len())
	}
	if err := c.SetTrailLength("Earth", DefaultMaxTrailLength+1); !errors.Is(err, celestial.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	if err := c.SetTrailLength("Earth", 0); err != nil || earth.Trail().Len() != 0 {
		t.Errorf("zero cap should keep nothing: %v", err)
	}
}

func TestScaleVelocity(t *testing.T) {
	c := newController(t)
	earth, _ := c.System().Get("Earth")
	if err := c.ScaleVelocity("Earth", 1.5); err != nil {
		t.Fatal(err)
	}
	if earth.Velocity().Z != -29783*1.5 {
		t.Errorf("vz = %g", earth.Velocity().Z)
	}
	if err := c.ScaleVelocity("Earth", 3); !errors.Is(err, celestial.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestSetInitialState(t *testing.T) {
	c := newController(t)
	c.Run(10)
	pos := r3.Vec{X: 2 * celestial.AU}
	vel := r3.Vec{Z: -21000}
	if err := c.SetInitialState("Earth", pos, vel); err != nil {
		t.Fatal(err)
	}
	earth, _ := c.System().Get("Earth")
	if earth.Position() != pos || earth.Velocity() != vel {
		t.Error("initial state not applied")
	}
	c.Run(3)
	c.Reset()
	if earth.Position() != pos {
		t.Error("reset should return to the new baseline")
	}
}

func TestDrainWarnings(t *testing.T) {
	a, _ := celestial.NewBody(celestial.Params{Name: "A", Mass: celestial.SunMass})
	b, _ := celestial.NewBody(celestial.Params{Name: "B", Mass: celestial.SunMass})
	sys, _ := celestial.NewSystem(a, b)
	c, err := New(sys, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if n := c.Run(3); n != 3 {
		t.Errorf("expected 3 warnings, got %d", n)
	}
	ws := c.DrainWarnings()
	if len(ws) != 3 || ws[2].Tick != 2 {
		t.Fatalf("unexpected warnings %+v", ws)
	}
	if !errors.Is(ws[0], celestial.ErrDegenerateState) {
		t.Errorf("expected ErrDegenerateState, got %v", ws[0].Err)
	}
	if len(c.DrainWarnings()) != 0 {
		t.Error("drain should clear the buffer")
	}
}

type countMetric struct{ n int }

func (m *countMetric) Name() string                       { return "count" }
func (m *countMetric) Observe(*celestial.System, float64) { m.n++ }
func (m *countMetric) Value() float64                     { return float64(m.n) }
func (m *countMetric) Reset()                             { m.n = 0 }

func TestMetricsObserveTicks(t *testing.T) {
	c := newController(t)
	m := &countMetric{}
	c.AddMetric(m)
	c.Run(4)
	if m.Value() != 4 {
		t.Errorf("metric saw %g ticks", m.Value())
	}
	c.Reset()
	if m.Value() != 0 {
		t.Error("reset should reset metrics")
	}
}

func BenchmarkTick(b *testing.B) {
	c := newController(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Tick()
	}
}
