package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/starsim/internal/storage"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// OrbitSummary describes body's motion relative to from over a run.
type OrbitSummary struct {
	Body, From   string
	Samples      int
	MinDistance  float64
	MaxDistance  float64
	Eccentricity float64

	// Period is zero when the run is too short to resolve one.
	Period float64
}

// Separation extracts |body - from| at every tick where both were
// recorded, with the matching times.
func Separation(states []storage.BodyState, body, from string) (dist, times []float64, err error) {
	type pair struct {
		a, b   r3.Vec
		ha, hb bool
		t      float64
	}
	byTick := make(map[int]*pair)
	var order []int
	for _, st := range states {
		if st.Body != body && st.Body != from {
			continue
		}
		p, ok := byTick[st.Tick]
		if !ok {
			p = &pair{t: st.Time}
			byTick[st.Tick] = p
			order = append(order, st.Tick)
		}
		if st.Body == body {
			p.a, p.ha = st.Position, true
		} else {
			p.b, p.hb = st.Position, true
		}
	}
	for _, tick := range order {
		p := byTick[tick]
		if p.ha && p.hb {
			dist = append(dist, r3.Norm(r3.Sub(p.a, p.b)))
			times = append(times, p.t)
		}
	}
	if len(dist) == 0 {
		return nil, nil, fmt.Errorf("analysis: no samples of %q relative to %q", body, from)
	}
	return dist, times, nil
}

// Summarize computes an OrbitSummary from recorded states. The period is
// estimated from the separation spectrum, which needs roughly uniform
// sampling.
func Summarize(states []storage.BodyState, body, from string) (OrbitSummary, error) {
	dist, times, err := Separation(states, body, from)
	if err != nil {
		return OrbitSummary{}, err
	}
	lo, hi := floats.Min(dist), floats.Max(dist)
	sum := OrbitSummary{
		Body:        body,
		From:        from,
		Samples:     len(dist),
		MinDistance: lo,
		MaxDistance: hi,
	}
	if hi+lo > 0 {
		sum.Eccentricity = (hi - lo) / (hi + lo)
	}
	if len(times) >= minSamples {
		dt := math.Abs(times[len(times)-1]-times[0]) / float64(len(times)-1)
		if p, err := DominantPeriod(dist, dt); err == nil {
			sum.Period = p
		}
	}
	return sum, nil
}
