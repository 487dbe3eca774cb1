package automation

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/starsim/internal/experiment"
)

// GridSearch evaluates every combination of parameter values on a scene
// and keeps the one that minimises a metric.
type GridSearch struct {
	Scene      string
	Ticks      int
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(scene string, ticks int, params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("automation: %d parameters but %d ranges", len(params), len(ranges))
	}
	return &GridSearch{Scene: scene, Ticks: ticks, paramNames: params, ranges: ranges}, nil
}

// Search returns the best parameter set and its metric value. Points whose
// metric is NaN are never chosen.
func (g *GridSearch) Search(ctx context.Context, registry *experiment.Registry, metricName string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.visit(0, make(map[string]float64), func(params map[string]float64) error {
		exp, err := build(g.Scene, experiment.Config{Ticks: g.Ticks}, params, nil, registry)
		if err != nil {
			return err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("automation: run did not report metric %q", metricName)
		}
		if val < best {
			best = val
			bestParams = make(map[string]float64, len(params))
			for k, v := range params {
				bestParams[k] = v
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return bestParams, best, nil
}

func (g *GridSearch) visit(depth int, current map[string]float64, fn func(map[string]float64) error) error {
	if depth == len(g.paramNames) {
		return fn(current)
	}
	for _, val := range g.ranges[depth] {
		current[g.paramNames[depth]] = val
		if err := g.visit(depth+1, current, fn); err != nil {
			return err
		}
	}
	return nil
}
