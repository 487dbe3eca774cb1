package automation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/starsim/internal/config"
	"github.com/san-kum/starsim/internal/experiment"
	"github.com/san-kum/starsim/internal/metrics"
	"github.com/san-kum/starsim/internal/sim"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// MonteCarloConfig perturbs one body's initial velocity by a uniform
// relative factor in [1-Perturbation, 1+Perturbation] per trial.
type MonteCarloConfig struct {
	Scene        string
	Body         string
	Perturbation float64
	NumTrials    int
	Ticks        int
	Threshold    float64
	Seed         int64
	Workers      int
}

// MonteCarloResult holds one trial's outcome.
type MonteCarloResult struct {
	TrialID int
	Factor  float64

	// Stable is set when every body stayed within the threshold of the
	// centre of mass for the whole run.
	Stable bool
}

// RunMonteCarlo executes the trials concurrently; results are in trial
// order.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("automation: trial count must be positive")
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	factors := make([]float64, cfg.NumTrials)
	for i := range factors {
		factors[i] = 1 + (rng.Float64()-0.5)*2*cfg.Perturbation
	}
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = experiment.StabilityThreshold
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(cfg.Workers))
	for trial, f := range factors {
		g.Go(func() error {
			stable, err := runTrial(ctx, cfg, f, threshold)
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial, err)
			}
			results[trial] = MonteCarloResult{TrialID: trial, Factor: f, Stable: stable}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runTrial(ctx context.Context, cfg *MonteCarloConfig, factor, threshold float64) (bool, error) {
	scene, err := config.Scene(cfg.Scene)
	if err != nil {
		return false, err
	}
	perturbed := false
	for i := range scene.Bodies {
		if scene.Bodies[i].Name == cfg.Body {
			v := r3.Scale(factor, r3.Vec{X: scene.Bodies[i].Velocity[0], Y: scene.Bodies[i].Velocity[1], Z: scene.Bodies[i].Velocity[2]})
			scene.Bodies[i].Velocity = [3]float64{v.X, v.Y, v.Z}
			perturbed = true
		}
	}
	if !perturbed {
		return false, fmt.Errorf("automation: scene %q has no body %q", cfg.Scene, cfg.Body)
	}

	ctrl, err := scene.NewController()
	if err != nil {
		return false, err
	}
	stability := metrics.NewStability(threshold)
	exp := experiment.New(experiment.Config{Ticks: cfg.Ticks})
	if err := exp.Setup(ctrl, []sim.Metric{stability}); err != nil {
		return false, err
	}
	if _, err := exp.Run(ctx); err != nil {
		return false, err
	}
	return stability.Value() == 1, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
