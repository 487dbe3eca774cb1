package automation

import (
	"context"
	"fmt"
	"runtime"

	"github.com/san-kum/starsim/internal/experiment"
	"golang.org/x/sync/errgroup"
)

// ParameterSweep runs a scene across evenly spaced values of one parameter.
type ParameterSweep struct {
	Scene     string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Ticks     int

	// Workers bounds concurrent runs; zero means GOMAXPROCS.
	Workers int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Warnings   int
}

// Values lists the sweep points.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps <= 1 {
		return []float64{s.ParamMin}
	}
	step := (s.ParamMax - s.ParamMin) / float64(s.NumSteps-1)
	out := make([]float64, s.NumSteps)
	for i := range out {
		out[i] = s.ParamMin + float64(i)*step
	}
	return out
}

func workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// RunSweep executes a parameter sweep. Results are in parameter order.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	values := sweep.Values()
	results := make([]SweepResult, len(values))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(sweep.Workers))
	for i, v := range values {
		g.Go(func() error {
			exp, err := build(sweep.Scene, experiment.Config{Ticks: sweep.Ticks}, map[string]float64{sweep.ParamName: v}, nil, registry)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", sweep.ParamName, v, err)
			}
			res, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", sweep.ParamName, v, err)
			}
			results[i] = SweepResult{ParamValue: v, Metrics: res.Metrics, Warnings: len(res.Warnings)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
