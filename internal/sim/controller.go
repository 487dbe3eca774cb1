// Package sim owns a running simulation: the body system, its tunable
// configuration and the per-tick lifecycle (pause, reset, reverse, body
// edits). Exactly one integrator pass runs per Tick; the controller is not
// safe for concurrent use and hosts call it from a single loop.
package sim

import (
	"fmt"

	"github.com/san-kum/starsim/internal/celestial"
	"github.com/san-kum/starsim/internal/gravity"
	"github.com/san-kum/starsim/internal/scale"
	"github.com/san-kum/starsim/internal/stellar"
	"github.com/san-kum/starsim/internal/thermal"
	"gonum.org/v1/gonum/spatial/r3"
)

type Controller struct {
	cfg        Config
	sys        *celestial.System
	integrator *gravity.Integrator
	scale      *scale.Scale
	coupler    stellar.Coupler

	focus    string
	ticks    int
	elapsed  float64
	added    int
	warnings []TickWarning

	metrics   []Metric
	observers []Observer
}

// New takes ownership of sys.
func New(sys *celestial.System, cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sc, err := scale.New(cfg.ScaleFactor)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:        cfg,
		sys:        sys,
		integrator: gravity.New(),
		scale:      sc,
		coupler:    stellar.Coupler{Relation: cfg.Relation},
	}
	for _, b := range sys.Bodies() {
		c.clampTrail(b)
	}
	c.focus = c.defaultFocus()
	return c, nil
}

func (c *Controller) AddMetric(m Metric)     { c.metrics = append(c.metrics, m) }
func (c *Controller) AddObserver(o Observer) { c.observers = append(c.observers, o) }

func (c *Controller) System() *celestial.System { return c.sys }
func (c *Controller) Config() Config            { return c.cfg }
func (c *Controller) Scale() *scale.Scale       { return c.scale }
func (c *Controller) Ticks() int                { return c.ticks }

// Elapsed is simulated seconds, signed by the direction time ran.
func (c *Controller) Elapsed() float64 { return c.elapsed }

func (c *Controller) State() State {
	if c.cfg.Paused {
		return Paused
	}
	return Running
}

func (c *Controller) Pause()  { c.cfg.Paused = true }
func (c *Controller) Resume() { c.cfg.Paused = false }

func (c *Controller) TogglePause() State {
	c.cfg.Paused = !c.cfg.Paused
	return c.State()
}

// Tick advances the simulation by one time step unless paused and reports
// whether it did.
func (c *Controller) Tick() bool {
	if c.cfg.Paused {
		return false
	}
	c.step()
	dt := c.cfg.TimeStep
	for _, b := range c.sys.Bodies() {
		b.Spin(dt)
		b.Trail().Push(c.scale.ToRender(b.Position()))
	}
	c.ticks++
	c.elapsed += dt

	for _, m := range c.metrics {
		m.Observe(c.sys, c.elapsed)
	}
	for _, o := range c.observers {
		o.OnTick(c.ticks, c.elapsed, c.sys)
	}
	return true
}

// Run ticks n times, ignoring pause, and returns the number of warnings
// raised on the way.
func (c *Controller) Run(n int) int {
	paused := c.cfg.Paused
	c.cfg.Paused = false
	before := len(c.warnings)
	for i := 0; i < n; i++ {
		c.Tick()
	}
	c.cfg.Paused = paused
	return len(c.warnings) - before
}

func (c *Controller) step() {
	for _, w := range c.integrator.Step(c.sys, c.cfg.params()) {
		c.warnings = append(c.warnings, TickWarning{Tick: c.ticks, Warning: w})
	}
}

// DrainWarnings returns and clears the buffered integrator warnings.
func (c *Controller) DrainWarnings() []TickWarning {
	w := c.warnings
	c.warnings = nil
	return w
}

// Reset restores every body to its baseline, zeroes rotation, clears
// trails and resets the tick counter and metrics. When paused the trails
// are reseeded with the current render positions so a frozen view stays
// consistent.
func (c *Controller) Reset() {
	c.sys.ResetAll()
	c.ticks = 0
	c.elapsed = 0
	for _, m := range c.metrics {
		m.Reset()
	}
	if c.cfg.Paused {
		for _, b := range c.sys.Bodies() {
			b.Trail().Push(c.scale.ToRender(b.Position()))
		}
	}
}

// ReverseTime negates the time step.
func (c *Controller) ReverseTime() {
	c.cfg.TimeStep = -c.cfg.TimeStep
}

func (c *Controller) SetTimeStep(dt float64) error {
	if !finite(dt) {
		return fmt.Errorf("sim: %w: time_step = %g", celestial.ErrInvalidParameter, dt)
	}
	c.cfg.TimeStep = dt
	return nil
}

func (c *Controller) SetGravitationalExponent(n float64) error {
	if !finite(n) {
		return fmt.Errorf("sim: %w: gravitational_n = %g", celestial.ErrInvalidParameter, n)
	}
	c.cfg.GravitationalN = n
	return nil
}

func (c *Controller) SetScaleFactor(f float64) error {
	if err := c.scale.SetFactor(f); err != nil {
		return err
	}
	c.cfg.ScaleFactor = f
	return nil
}

// Zoom multiplies the scale factor by k within the allowed range.
func (c *Controller) Zoom(k float64) {
	c.scale.Zoom(k)
	c.cfg.ScaleFactor = c.scale.Factor()
}

// RenderPosition is b's position in render space.
func (c *Controller) RenderPosition(b *celestial.Body) r3.Vec {
	return c.scale.ToRender(b.Position())
}

// RenderPositions maps every body name to its render position.
func (c *Controller) RenderPositions() map[string]r3.Vec {
	out := make(map[string]r3.Vec, c.sys.Len())
	for _, b := range c.sys.Bodies() {
		out[b.Name()] = c.scale.ToRender(b.Position())
	}
	return out
}

// Temperatures returns a reading for every planet.
func (c *Controller) Temperatures() ([]thermal.Reading, error) {
	return thermal.Readings(c.sys)
}
