// Package automation runs scripted and batched simulations: YAML
// scenarios, one-parameter sweeps, grid searches and Monte Carlo
// perturbation trials. Every run builds its own controller from a scene,
// so batches run concurrently.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/starsim/internal/config"
	"github.com/san-kum/starsim/internal/experiment"
	"github.com/san-kum/starsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario. Params override the
// scene's simulation settings by name (see SetParam).
type ScenarioStep struct {
	Scene   string             `yaml:"scene"`
	Ticks   int                `yaml:"ticks"`
	Metrics []string           `yaml:"metrics,omitempty"`
	Params  map[string]float64 `yaml:"params,omitempty"`

	// RecordEvery samples states for saving; zero records nothing.
	RecordEvery int    `yaml:"record_every,omitempty"`
	SaveAs      string `yaml:"save_as,omitempty"`
}

// StepResult pairs a step with its outcome.
type StepResult struct {
	Step   ScenarioStep
	Result *experiment.Result
	Sim    sim.Config
	Bodies []string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	for i, step := range scenario.Steps {
		if step.Scene == "" {
			return nil, fmt.Errorf("automation: step %d: scene is required", i+1)
		}
		if step.Ticks <= 0 {
			return nil, fmt.Errorf("automation: step %d: ticks must be positive", i+1)
		}
	}

	return &scenario, nil
}

// SetParam applies a named simulation override.
func SetParam(sc *config.SimulationConfig, name string, v float64) error {
	switch name {
	case "time_step":
		sc.TimeStep = v
	case "gravitational_n":
		sc.GravitationalN = v
	case "min_distance":
		sc.MinDistance = v
	case "min_interacting_mass":
		sc.MinInteractingMass = v
	case "max_interacting_distance":
		sc.MaxInteractingDistance = v
	case "scale_factor":
		sc.ScaleFactor = v
	default:
		return fmt.Errorf("automation: unknown parameter %q", name)
	}
	return nil
}

// build prepares one experiment on a fresh copy of scene with params applied.
func build(scene string, run experiment.Config, params map[string]float64, metricNames []string, registry *experiment.Registry) (*experiment.Experiment, error) {
	cfg, err := config.Scene(scene)
	if err != nil {
		return nil, err
	}
	for k, v := range params {
		if err := SetParam(&cfg.Simulation, k, v); err != nil {
			return nil, err
		}
	}
	ctrl, err := cfg.NewController()
	if err != nil {
		return nil, err
	}
	ms := registry.DefaultMetrics(ctrl.System())
	if len(metricNames) > 0 {
		if ms, err = registry.Metrics(ctrl.System(), metricNames...); err != nil {
			return nil, err
		}
	}
	exp := experiment.New(run)
	if err := exp.Setup(ctrl, ms); err != nil {
		return nil, err
	}
	return exp, nil
}

// RunScenario executes all steps in order. progress, if non-nil, is called
// before each step.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, progress func(i int, step ScenarioStep)) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if progress != nil {
			progress(i, step)
		}

		run := experiment.Config{Ticks: step.Ticks, RecordEvery: step.RecordEvery}
		exp, err := build(step.Scene, run, step.Params, step.Metrics, registry)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		ctrl := exp.Controller()
		results = append(results, StepResult{
			Step:   step,
			Result: result,
			Sim:    ctrl.Config(),
			Bodies: ctrl.System().Names(),
		})
	}

	return results, nil
}
