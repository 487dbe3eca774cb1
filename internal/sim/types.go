package sim

import (
	"github.com/san-kum/starsim/internal/celestial"
	"github.com/san-kum/starsim/internal/gravity"
)

type State int

const (
	Running State = iota
	Paused
)

func (s State) String() string {
	if s == Paused {
		return "paused"
	}
	return "running"
}

// Metric accumulates a scalar over ticks.
type Metric interface {
	Name() string
	Observe(sys *celestial.System, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every unpaused tick.
type Observer interface {
	OnTick(tick int, t float64, sys *celestial.System)
}

// TickWarning is a skipped pair together with the tick it occurred on.
type TickWarning struct {
	Tick int
	gravity.Warning
}
