package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/starsim/internal/config"
	"github.com/san-kum/starsim/internal/experiment"
)

const scenarioYAML = `name: drift check
description: compare time steps
steps:
  - scene: earth-sun
    ticks: 50
    metrics: [energy_drift]
  - scene: earth-sun
    ticks: 50
    metrics: [energy_drift, stability]
    record_every: 25
    save_as: coarse
    params:
      time_step: 2000
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "drift check" || len(s.Steps) != 2 {
		t.Fatalf("got %+v", s)
	}
	if s.Steps[1].Params["time_step"] != 2000 {
		t.Errorf("params = %v", s.Steps[1].Params)
	}
}

func TestLoadScenarioInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no scene", "steps:\n  - ticks: 10\n"},
		{"no ticks", "steps:\n  - scene: earth-sun\n"},
		{"bad yaml", "steps: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScenario(writeScenario(t, tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSetParam(t *testing.T) {
	sc := config.DefaultSimulation()
	if err := SetParam(&sc, "gravitational_n", 2.5); err != nil {
		t.Fatal(err)
	}
	if sc.GravitationalN != 2.5 {
		t.Errorf("GravitationalN = %v", sc.GravitationalN)
	}
	if err := SetParam(&sc, "warp", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestRunScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	var seen []int
	results, err := RunScenario(context.Background(), s, experiment.NewRegistry(), func(i int, _ ScenarioStep) {
		seen = append(seen, i)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || len(seen) != 2 {
		t.Fatalf("results = %d, progress = %v", len(results), seen)
	}
	if _, ok := results[0].Result.Metrics["energy_drift"]; !ok {
		t.Error("missing energy_drift")
	}
	if got := results[1].Result.Elapsed; got != 50*2000 {
		t.Errorf("elapsed = %v, want %v", got, 50*2000)
	}
	if results[1].Sim.TimeStep != 2000 {
		t.Errorf("time step = %v", results[1].Sim.TimeStep)
	}
	// ticks 0, 25 and 50 for two bodies
	if n := len(results[1].Result.States); n != 6 {
		t.Errorf("recorded %d states, want 6", n)
	}
	if len(results[0].Result.States) != 0 {
		t.Error("first step should record nothing")
	}
}

func TestRunScenarioUnknownScene(t *testing.T) {
	s := &Scenario{Steps: []ScenarioStep{{Scene: "nowhere", Ticks: 10}}}
	if _, err := RunScenario(context.Background(), s, experiment.NewRegistry(), nil); err == nil {
		t.Error("expected error")
	}
}

func TestSweepValues(t *testing.T) {
	s := &ParameterSweep{ParamMin: 1, ParamMax: 3, NumSteps: 5}
	want := []float64{1, 1.5, 2, 2.5, 3}
	got := s.Values()
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("value %d = %v, want %v", i, got[i], want[i])
		}
	}
	if one := (&ParameterSweep{ParamMin: 7, NumSteps: 1}).Values(); len(one) != 1 || one[0] != 7 {
		t.Errorf("single step = %v", one)
	}
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{
		Scene:     "earth-sun",
		ParamName: "time_step",
		ParamMin:  500,
		ParamMax:  1500,
		NumSteps:  3,
		Ticks:     40,
		Workers:   2,
	}
	results, err := RunSweep(context.Background(), sweep, experiment.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for i, want := range []float64{500, 1000, 1500} {
		if results[i].ParamValue != want {
			t.Errorf("result %d param = %v, want %v", i, results[i].ParamValue, want)
		}
		if _, ok := results[i].Metrics["stability"]; !ok {
			t.Errorf("result %d missing stability", i)
		}
	}
}

func TestRunSweepUnknownParam(t *testing.T) {
	sweep := &ParameterSweep{Scene: "earth-sun", ParamName: "warp", NumSteps: 2, ParamMax: 1, Ticks: 5}
	if _, err := RunSweep(context.Background(), sweep, experiment.NewRegistry()); err == nil {
		t.Error("expected error")
	}
}

func TestGridSearch(t *testing.T) {
	if _, err := NewGridSearch("earth-sun", 10, []string{"time_step"}, nil); err == nil {
		t.Error("expected error for mismatched ranges")
	}

	g, err := NewGridSearch("earth-sun", 30,
		[]string{"time_step", "gravitational_n"},
		[][]float64{{500, 1000}, {2, 2.5}})
	if err != nil {
		t.Fatal(err)
	}
	best, val, err := g.Search(context.Background(), experiment.NewRegistry(), "energy_drift")
	if err != nil {
		t.Fatal(err)
	}
	if len(best) != 2 {
		t.Fatalf("best = %v", best)
	}
	if math.IsInf(val, 0) || math.IsNaN(val) {
		t.Errorf("best value = %v", val)
	}

	if _, _, err := g.Search(context.Background(), experiment.NewRegistry(), "nonexistent"); err == nil {
		t.Error("expected error for unreported metric")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	cfg := &MonteCarloConfig{
		Scene:        "earth-sun",
		Body:         "Earth",
		Perturbation: 0.01,
		NumTrials:    4,
		Ticks:        50,
		Seed:         7,
	}
	results, err := RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.TrialID != i {
			t.Errorf("trial %d has id %d", i, r.TrialID)
		}
		if r.Factor < 0.99 || r.Factor > 1.01 {
			t.Errorf("trial %d factor %v outside perturbation", i, r.Factor)
		}
	}
	stable, unstable := MonteCarloStats(results)
	if stable != 4 || unstable != 0 {
		t.Errorf("stable = %d, unstable = %d", stable, unstable)
	}
}

func TestRunMonteCarloErrors(t *testing.T) {
	if _, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{Scene: "earth-sun", Body: "Earth"}); err == nil {
		t.Error("expected error for zero trials")
	}
	cfg := &MonteCarloConfig{Scene: "earth-sun", Body: "Vulcan", NumTrials: 1, Ticks: 5, Seed: 1}
	if _, err := RunMonteCarlo(context.Background(), cfg); err == nil {
		t.Error("expected error for missing body")
	}
}
