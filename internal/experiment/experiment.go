package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/starsim/internal/sim"
	"github.com/san-kum/starsim/internal/storage"
)

// checkEvery is how many ticks pass between context checks.
const checkEvery = 256

type Config struct {
	Ticks int

	// RecordEvery is the state sampling interval in ticks; zero disables
	// recording.
	RecordEvery int
}

// Result is the outcome of a headless run.
type Result struct {
	States   []storage.BodyState
	Metrics  map[string]float64
	Warnings []sim.TickWarning
	Ticks    int
	Elapsed  float64
	Wall     time.Duration
}

type Experiment struct {
	cfg      Config
	ctrl     *sim.Controller
	metrics  []sim.Metric
	recorder *storage.Recorder
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(ctrl *sim.Controller, metrics []sim.Metric) error {
	if ctrl == nil {
		return fmt.Errorf("experiment: nil controller")
	}
	if e.cfg.Ticks < 0 {
		return fmt.Errorf("experiment: negative tick count %d", e.cfg.Ticks)
	}
	e.ctrl = ctrl
	e.metrics = metrics
	for _, m := range metrics {
		ctrl.AddMetric(m)
	}
	if e.cfg.RecordEvery > 0 {
		e.recorder = storage.NewRecorder(e.cfg.RecordEvery)
		ctrl.AddObserver(e.recorder)
	}
	return nil
}

// Run ticks the controller, ignoring pause, until the configured count is
// reached or ctx is done. The initial state is recorded as tick 0.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.ctrl == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	start := time.Now()
	if e.recorder != nil {
		e.recorder.Snapshot(e.ctrl.Ticks(), e.ctrl.Elapsed(), e.ctrl.System())
	}

	res := &Result{Metrics: make(map[string]float64)}
	var runErr error
	for done := 0; done < e.cfg.Ticks; {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		n := min(checkEvery, e.cfg.Ticks-done)
		e.ctrl.Run(n)
		res.Warnings = append(res.Warnings, e.ctrl.DrainWarnings()...)
		done += n
	}

	res.Ticks = e.ctrl.Ticks()
	res.Elapsed = e.ctrl.Elapsed()
	res.Wall = time.Since(start)
	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	if e.recorder != nil {
		res.States = e.recorder.States()
	}
	return res, runErr
}

// Controller returns the underlying controller for adding observers.
func (e *Experiment) Controller() *sim.Controller {
	return e.ctrl
}
