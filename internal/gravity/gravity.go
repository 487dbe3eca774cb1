// Package gravity advances a celestial.System by one fixed time step under
// mutual Newtonian attraction, using the semi-implicit Euler scheme the
// scenes were tuned against: each body's velocity is kicked by the summed
// pairwise pull, then its position drifts with the new velocity.
package gravity

import (
	"fmt"
	"math"

	"github.com/san-kum/starsim/internal/celestial"
	"gonum.org/v1/gonum/spatial/r3"
)

// UpdateOrder selects when a body's new state becomes visible to the
// bodies after it in the same tick.
type UpdateOrder int

const (
	// Sequential updates each body in place right after its inner loop, so
	// later bodies see earlier bodies' new positions. This reproduces the
	// reference trajectories exactly with insertion order.
	Sequential UpdateOrder = iota

	// Simultaneous computes every kick from the pre-tick snapshot and commits
	// all bodies together; the result does not depend on body order.
	Simultaneous
)

func (o UpdateOrder) String() string {
	if o == Simultaneous {
		return "simultaneous"
	}
	return "sequential"
}

// ParseOrder maps "sequential" (or "") and "simultaneous" to an UpdateOrder.
func ParseOrder(s string) (UpdateOrder, error) {
	switch s {
	case "", "sequential":
		return Sequential, nil
	case "simultaneous":
		return Simultaneous, nil
	}
	return Sequential, fmt.Errorf("%w: update order %q", celestial.ErrInvalidParameter, s)
}

// Params is the per-tick input of the integrator.
type Params struct {
	TimeStep float64

	// Exponent is N in G' = G·(AU/r)^N. Zero is inverse-square gravity.
	Exponent float64

	// A source contributes only if its mass is at least MinInteractingMass
	// or it lies within MaxInteractingDistance of the recipient. Bodies are
	// never excluded as recipients, so momentum is not conserved when the
	// filter drops a pair.
	MinInteractingMass     float64
	MaxInteractingDistance float64

	// Pairs closer than MinDistance are skipped and reported. With the
	// default of zero only exactly coincident bodies are skipped.
	MinDistance float64

	Order UpdateOrder
}

// DefaultParams matches the binary-star and solar-system scenes.
func DefaultParams() Params {
	return Params{
		TimeStep:               4320,
		MinInteractingMass:     0.1 * celestial.SunMass,
		MaxInteractingDistance: 10 * celestial.AU,
	}
}

// Strength returns G' = G·(AU/r)^n.
func Strength(r, n float64) float64 {
	if n == 0 {
		return celestial.G
	}
	return celestial.G * math.Pow(celestial.AU/r, n)
}

// Warning reports a pair the integrator refused to evaluate.
type Warning struct {
	A, B     string
	Distance float64
	Err      error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s <-> %s (r=%g): %v", w.A, w.B, w.Distance, w.Err)
}

func (w Warning) Unwrap() error { return w.Err }

// Integrator holds scratch buffers reused across ticks.
type Integrator struct {
	positions []r3.Vec
	kicks     []r3.Vec
	warnings  []Warning

	// reported holds the index pairs already warned about this tick.
	reported map[[2]int]struct{}
}

func New() *Integrator {
	return &Integrator{reported: make(map[[2]int]struct{})}
}

func (in *Integrator) ensureScratch(n int) {
	if cap(in.positions) < n {
		in.positions = make([]r3.Vec, n)
		in.kicks = make([]r3.Vec, n)
	}
	in.positions = in.positions[:n]
	in.kicks = in.kicks[:n]
}

// Step advances every body in sys by p.TimeStep. Degenerate or non-finite
// pair contributions are dropped and returned as warnings, one per
// unordered pair per tick; the returned slice is reused by the next call.
func (in *Integrator) Step(sys *celestial.System, p Params) []Warning {
	in.warnings = in.warnings[:0]
	clear(in.reported)
	bodies := sys.Bodies()
	if p.Order == Simultaneous {
		in.stepSimultaneous(bodies, p)
	} else {
		in.stepSequential(bodies, p)
	}
	return in.warnings
}

func (in *Integrator) stepSequential(bodies []*celestial.Body, p Params) {
	for i, a := range bodies {
		kick := in.kick(bodies, i, func(j int) r3.Vec { return bodies[j].Position() }, p)
		v := r3.Add(a.Velocity(), kick)
		a.Move(v, r3.Add(a.Position(), r3.Scale(p.TimeStep, v)))
	}
}

func (in *Integrator) stepSimultaneous(bodies []*celestial.Body, p Params) {
	in.ensureScratch(len(bodies))
	for i, b := range bodies {
		in.positions[i] = b.Position()
	}
	snapshot := func(j int) r3.Vec { return in.positions[j] }
	for i := range bodies {
		in.kicks[i] = in.kick(bodies, i, snapshot, p)
	}
	for i, a := range bodies {
		v := r3.Add(a.Velocity(), in.kicks[i])
		a.Move(v, r3.Add(in.positions[i], r3.Scale(p.TimeStep, v)))
	}
}

// kick sums the velocity increment on bodies[i]:
// Δv += G'·m_b·(a−b)·dt / r³ for every admitted source b.
func (in *Integrator) kick(bodies []*celestial.Body, i int, pos func(int) r3.Vec, p Params) r3.Vec {
	var dv r3.Vec
	pa := pos(i)
	for j, b := range bodies {
		if j == i {
			continue
		}
		d := r3.Sub(pa, pos(j))
		r2 := r3.Norm2(d)
		r := math.Sqrt(r2)

		if r <= p.MinDistance {
			in.warn(bodies, i, j, r, celestial.ErrDegenerateState)
			continue
		}
		if b.Mass() < p.MinInteractingMass && r > p.MaxInteractingDistance {
			continue
		}

		f := Strength(r, p.Exponent) * b.Mass() * p.TimeStep / (r2 * r)
		c := r3.Scale(f, d)
		if !finiteVec(c) {
			in.warn(bodies, i, j, r, celestial.ErrDegenerateState)
			continue
		}
		dv = r3.Add(dv, c)
	}
	return dv
}

// warn records a dropped pair once per tick. In sequential order a pair may
// first become degenerate in the later body's loop, so the key ignores which
// side saw it.
func (in *Integrator) warn(bodies []*celestial.Body, i, j int, r float64, err error) {
	lo, hi := min(i, j), max(i, j)
	key := [2]int{lo, hi}
	if _, seen := in.reported[key]; seen {
		return
	}
	if in.reported == nil {
		in.reported = make(map[[2]int]struct{})
	}
	in.reported[key] = struct{}{}
	in.warnings = append(in.warnings, Warning{
		A:        bodies[lo].Name(),
		B:        bodies[hi].Name(),
		Distance: r,
		Err:      err,
	})
}

func finiteVec(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
