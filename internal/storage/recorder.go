package storage

import (
	"github.com/san-kum/starsim/internal/celestial"
	"gonum.org/v1/gonum/spatial/r3"
)

// BodyState is one row of states.csv.
type BodyState struct {
	Tick     int
	Time     float64
	Body     string
	Position r3.Vec
	Velocity r3.Vec
}

// Recorder captures every body's state each Every ticks. It satisfies
// sim.Observer.
type Recorder struct {
	Every  int
	states []BodyState
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Every: every}
}

// Snapshot records sys unconditionally.
func (r *Recorder) Snapshot(tick int, t float64, sys *celestial.System) {
	for _, b := range sys.Bodies() {
		r.states = append(r.states, BodyState{
			Tick:     tick,
			Time:     t,
			Body:     b.Name(),
			Position: b.Position(),
			Velocity: b.Velocity(),
		})
	}
}

func (r *Recorder) OnTick(tick int, t float64, sys *celestial.System) {
	if tick%r.Every == 0 {
		r.Snapshot(tick, t, sys)
	}
}

func (r *Recorder) States() []BodyState { return r.states }
