package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/starsim/internal/celestial"
	"github.com/san-kum/starsim/internal/gravity"
	"github.com/san-kum/starsim/internal/sim"
	"github.com/san-kum/starsim/internal/stellar"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScene          = "earth-sun"
	DefaultTimeStep       = sim.DefaultTimeStep
	DefaultScaleFactor    = sim.DefaultScaleFactor
	DefaultMaxTrailLength = sim.DefaultMaxTrailLength
)

// Config describes a scene: the simulation parameters and the bodies it
// starts with. All physical quantities are SI (metres, m/s, kg, W).
type Config struct {
	Scene      string           `yaml:"scene"`
	Simulation SimulationConfig `yaml:"simulation"`
	Bodies     []BodyConfig     `yaml:"bodies"`

	// Catalog lists bodies the sandbox can add at runtime.
	Catalog []BodyConfig `yaml:"catalog,omitempty"`

	// Reference is the star distances are measured from when collecting
	// temperature data.
	Reference string `yaml:"reference,omitempty"`
}

type SimulationConfig struct {
	TimeStep               float64 `yaml:"time_step"`
	ScaleFactor            float64 `yaml:"scale_factor"`
	GravitationalN         float64 `yaml:"gravitational_n"`
	MinInteractingMass     float64 `yaml:"min_interacting_mass"`
	MaxInteractingDistance float64 `yaml:"max_interacting_distance"`
	MinDistance            float64 `yaml:"min_distance"`
	MaxTrailLength         int     `yaml:"max_trail_length"`
	Relation               string  `yaml:"relation"`
	Order                  string  `yaml:"order"`
	Paused                 bool    `yaml:"paused"`
}

type BodyConfig struct {
	Name        string     `yaml:"name"`
	Kind        string     `yaml:"kind"`
	Position    [3]float64 `yaml:"position,flow"`
	Velocity    [3]float64 `yaml:"velocity,flow"`
	Mass        float64    `yaml:"mass"`
	Radius      float64    `yaml:"radius"`
	Rotation    float64    `yaml:"rotation"`
	Luminosity  float64    `yaml:"luminosity,omitempty"`
	Albedo      float64    `yaml:"albedo,omitempty"`
	Emissivity  float64    `yaml:"emissivity,omitempty"`
	TrailLength int        `yaml:"trail_length,omitempty"`
}

func DefaultSimulation() SimulationConfig {
	d := sim.DefaultConfig()
	return SimulationConfig{
		TimeStep:               d.TimeStep,
		ScaleFactor:            d.ScaleFactor,
		MinInteractingMass:     d.MinInteractingMass,
		MaxInteractingDistance: d.MaxInteractingDistance,
		MaxTrailLength:         d.MaxTrailLength,
		Relation:               d.Relation.String(),
		Order:                  d.Order.String(),
	}
}

// DefaultConfig is the earth-sun scene.
func DefaultConfig() *Config {
	cfg, err := Scene(DefaultScene)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads a YAML scene. A file that names a built-in scene starts from
// that scene; any section the file sets replaces the scene's.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var head struct {
		Scene string `yaml:"scene"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg := &Config{Simulation: DefaultSimulation()}
	if head.Scene != "" {
		if base, err := Scene(head.Scene); err == nil {
			cfg = base
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimConfig converts the simulation section into a validated sim.Config.
func (c *Config) SimConfig() (sim.Config, error) {
	s := c.Simulation
	order, err := gravity.ParseOrder(strings.ToLower(s.Order))
	if err != nil {
		return sim.Config{}, err
	}
	rel, err := stellar.ParseRelation(strings.ToLower(s.Relation))
	if err != nil {
		return sim.Config{}, err
	}
	out := sim.Config{
		TimeStep:               s.TimeStep,
		GravitationalN:         s.GravitationalN,
		MinInteractingMass:     s.MinInteractingMass,
		MaxInteractingDistance: s.MaxInteractingDistance,
		MinDistance:            s.MinDistance,
		Paused:                 s.Paused,
		Order:                  order,
		ScaleFactor:            s.ScaleFactor,
		MaxTrailLength:         s.MaxTrailLength,
		Relation:               rel,
	}
	return out, out.Validate()
}

// Build constructs the scene's bodies in file order.
func (c *Config) Build() (*celestial.System, error) {
	bodies := make([]*celestial.Body, 0, len(c.Bodies))
	for _, bc := range c.Bodies {
		b, err := bc.Build()
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	return celestial.NewSystem(bodies...)
}

// NewController builds the system and wraps it in a controller.
func (c *Config) NewController() (*sim.Controller, error) {
	sc, err := c.SimConfig()
	if err != nil {
		return nil, err
	}
	sys, err := c.Build()
	if err != nil {
		return nil, err
	}
	return sim.New(sys, sc)
}

// CatalogBody returns the catalog entry with the given name.
func (c *Config) CatalogBody(name string) (BodyConfig, bool) {
	for _, bc := range c.Catalog {
		if bc.Name == name {
			return bc, true
		}
	}
	return BodyConfig{}, false
}

func (bc BodyConfig) Build() (*celestial.Body, error) {
	kind, err := celestial.ParseKind(bc.Kind)
	if err != nil {
		return nil, fmt.Errorf("config: body %q: %w", bc.Name, err)
	}
	p := celestial.Params{
		Name:         bc.Name,
		Position:     vec(bc.Position),
		Velocity:     vec(bc.Velocity),
		Mass:         bc.Mass,
		Radius:       bc.Radius,
		RotationRate: bc.Rotation,
		TrailLength:  bc.TrailLength,
	}
	switch kind {
	case celestial.KindStar:
		return celestial.NewStar(p, bc.Luminosity)
	case celestial.KindPlanet:
		return celestial.NewPlanet(p, bc.Albedo, bc.Emissivity)
	default:
		return celestial.NewBody(p)
	}
}

func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}
