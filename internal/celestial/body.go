package celestial

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Kind tags the variant a Body carries.
type Kind int

const (
	KindBody Kind = iota
	KindStar
	KindPlanet
)

func (k Kind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindPlanet:
		return "planet"
	default:
		return "body"
	}
}

// ParseKind maps "star", "planet" and "body" (or "") to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "body":
		return KindBody, nil
	case "star":
		return KindStar, nil
	case "planet":
		return KindPlanet, nil
	}
	return KindBody, fmt.Errorf("%w: kind %q", ErrInvalidParameter, s)
}

// DefaultTrailLength is the trail cap for bodies built without one.
const DefaultTrailLength = 0

// Params are the attributes every body needs at construction.
type Params struct {
	Name         string
	Position     r3.Vec
	Velocity     r3.Vec
	Mass         float64
	Radius       float64
	RotationRate float64
	TrailLength  int
}

// Snapshot is the baseline a body returns to on reset.
type Snapshot struct {
	Position   r3.Vec
	Velocity   r3.Vec
	Mass       float64
	Luminosity float64
}

// Body is a simulated point mass. Stars additionally carry a luminosity,
// planets an albedo and emissivity; Kind says which fields are meaningful.
type Body struct {
	name         string
	kind         Kind
	position     r3.Vec
	velocity     r3.Vec
	mass         float64
	radius       float64
	rotationRate float64
	rotation     float64

	luminosity float64
	albedo     float64
	emissivity float64

	defaults Snapshot
	trail    *Trail
}

// NewBody builds a plain body with no luminosity or surface properties.
func NewBody(p Params) (*Body, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	b := &Body{
		name:         p.Name,
		kind:         KindBody,
		position:     p.Position,
		velocity:     p.Velocity,
		mass:         p.Mass,
		radius:       p.Radius,
		rotationRate: p.RotationRate,
		trail:        NewTrail(p.TrailLength),
	}
	b.CommitDefault()
	return b, nil
}

// NewStar builds a luminous body. luminosity is in watts and must be positive.
func NewStar(p Params, luminosity float64) (*Body, error) {
	if !finite(luminosity) || luminosity <= 0 {
		return nil, invalid(p.Name, "luminosity", luminosity)
	}
	b, err := NewBody(p)
	if err != nil {
		return nil, err
	}
	b.kind = KindStar
	b.luminosity = luminosity
	b.CommitDefault()
	return b, nil
}

// NewPlanet builds a body whose temperature can be modelled.
// albedo and emissivity must both lie in the open interval (0, 1).
func NewPlanet(p Params, albedo, emissivity float64) (*Body, error) {
	if err := checkFraction(p.Name, "albedo", albedo); err != nil {
		return nil, err
	}
	if err := checkFraction(p.Name, "emissivity", emissivity); err != nil {
		return nil, err
	}
	b, err := NewBody(p)
	if err != nil {
		return nil, err
	}
	b.kind = KindPlanet
	b.albedo = albedo
	b.emissivity = emissivity
	return b, nil
}

// CheckName rejects names that are blank or unusable as a file name:
// path separators, NUL, "." and "..".
func CheckName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty body name", ErrInvalidParameter)
	case name == "." || name == "..", strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: body name %q", ErrInvalidParameter, name)
	}
	return nil
}

func (p Params) validate() error {
	if err := CheckName(p.Name); err != nil {
		return err
	}
	if !finite(p.Mass) || p.Mass <= 0 {
		return invalid(p.Name, "mass", p.Mass)
	}
	if !finite(p.Radius) || p.Radius < 0 {
		return invalid(p.Name, "radius", p.Radius)
	}
	if !finite(p.RotationRate) {
		return invalid(p.Name, "rotation", p.RotationRate)
	}
	if err := checkVec(p.Name, "position", p.Position); err != nil {
		return err
	}
	return checkVec(p.Name, "velocity", p.Velocity)
}

func checkFraction(body, field string, v float64) error {
	if !finite(v) || v <= 0 || v >= 1 {
		return invalid(body, field, v)
	}
	return nil
}

func checkVec(body, field string, v r3.Vec) error {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if !finite(c) {
			return invalid(body, field, c)
		}
	}
	return nil
}

func (b *Body) Name() string          { return b.name }
func (b *Body) Kind() Kind            { return b.kind }
func (b *Body) IsLuminous() bool      { return b.kind == KindStar }
func (b *Body) HasSurface() bool      { return b.kind == KindPlanet }
func (b *Body) Position() r3.Vec      { return b.position }
func (b *Body) Velocity() r3.Vec      { return b.velocity }
func (b *Body) Mass() float64         { return b.mass }
func (b *Body) Radius() float64       { return b.radius }
func (b *Body) RotationRate() float64 { return b.rotationRate }
func (b *Body) Rotation() float64     { return b.rotation }
func (b *Body) Luminosity() float64   { return b.luminosity }
func (b *Body) Albedo() float64       { return b.albedo }
func (b *Body) Emissivity() float64   { return b.emissivity }
func (b *Body) Default() Snapshot     { return b.defaults }
func (b *Body) Trail() *Trail         { return b.trail }

// SetPosition replaces the position. Non-finite components are rejected.
func (b *Body) SetPosition(p r3.Vec) error {
	if err := checkVec(b.name, "position", p); err != nil {
		return err
	}
	b.position = p
	return nil
}

// SetVelocity replaces the velocity. Non-finite components are rejected.
func (b *Body) SetVelocity(v r3.Vec) error {
	if err := checkVec(b.name, "velocity", v); err != nil {
		return err
	}
	b.velocity = v
	return nil
}

// ScaleVelocity multiplies the current velocity by f.
func (b *Body) ScaleVelocity(f float64) error {
	if !finite(f) {
		return invalid(b.name, "velocity modifier", f)
	}
	b.velocity = r3.Scale(f, b.velocity)
	return nil
}

func (b *Body) SetMass(m float64) error {
	if !finite(m) || m <= 0 {
		return invalid(b.name, "mass", m)
	}
	b.mass = m
	return nil
}

// SetLuminosity is only valid on stars.
func (b *Body) SetLuminosity(l float64) error {
	if b.kind != KindStar {
		return fmt.Errorf("%w: %s is not a star", ErrInvalidParameter, b.name)
	}
	if !finite(l) || l <= 0 {
		return invalid(b.name, "luminosity", l)
	}
	b.luminosity = l
	return nil
}

// SetAlbedo is only valid on planets.
func (b *Body) SetAlbedo(a float64) error {
	if b.kind != KindPlanet {
		return fmt.Errorf("%w: %s is not a planet", ErrInvalidParameter, b.name)
	}
	if err := checkFraction(b.name, "albedo", a); err != nil {
		return err
	}
	b.albedo = a
	return nil
}

// SetEmissivity is only valid on planets.
func (b *Body) SetEmissivity(e float64) error {
	if b.kind != KindPlanet {
		return fmt.Errorf("%w: %s is not a planet", ErrInvalidParameter, b.name)
	}
	if err := checkFraction(b.name, "emissivity", e); err != nil {
		return err
	}
	b.emissivity = e
	return nil
}

// Move overwrites velocity and position without validation. It is the
// integrator's write path; everything else goes through the setters.
func (b *Body) Move(velocity, position r3.Vec) {
	b.velocity = velocity
	b.position = position
}

// Spin advances the accumulated rotation by rotationRate·dt/RotationDivisor.
func (b *Body) Spin(dt float64) {
	b.rotation += b.rotationRate * dt / RotationDivisor
}

// CommitDefault makes the current state the new reset baseline.
func (b *Body) CommitDefault() {
	b.defaults = Snapshot{
		Position:   b.position,
		Velocity:   b.velocity,
		Mass:       b.mass,
		Luminosity: b.luminosity,
	}
}

// ResetToDefault restores position, velocity, mass and luminosity from the
// baseline, zeroes the accumulated rotation and clears the trail.
func (b *Body) ResetToDefault() {
	b.position = b.defaults.Position
	b.velocity = b.defaults.Velocity
	b.mass = b.defaults.Mass
	if b.kind == KindStar {
		b.luminosity = b.defaults.Luminosity
	}
	b.rotation = 0
	b.trail.Clear()
}

func (b *Body) String() string {
	return fmt.Sprintf("%s(%s)", b.name, b.kind)
}
