package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/starsim/internal/celestial"
	"github.com/san-kum/starsim/internal/metrics"
	"github.com/san-kum/starsim/internal/sim"
)

// StabilityThreshold is the default escape distance for the stability
// metric.
const StabilityThreshold = 100 * celestial.AU

// Registry builds run metrics by name.
type Registry struct {
	metrics map[string]func(sys *celestial.System) []sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{metrics: make(map[string]func(*celestial.System) []sim.Metric)}

	r.metrics["energy"] = func(*celestial.System) []sim.Metric { return []sim.Metric{metrics.NewEnergy()} }
	r.metrics["energy_drift"] = func(*celestial.System) []sim.Metric { return []sim.Metric{metrics.NewEnergyDrift()} }
	r.metrics["momentum_drift"] = func(*celestial.System) []sim.Metric { return []sim.Metric{metrics.NewMomentumDrift()} }
	r.metrics["stability"] = func(*celestial.System) []sim.Metric {
		return []sim.Metric{metrics.NewStability(StabilityThreshold)}
	}
	r.metrics["peak_temp"] = func(sys *celestial.System) []sim.Metric {
		var out []sim.Metric
		for _, p := range sys.Planets() {
			out = append(out, metrics.NewPeakTemperature(p.Name()))
		}
		return out
	}

	return r
}

// Metrics builds the named metrics for sys.
func (r *Registry) Metrics(sys *celestial.System, names ...string) ([]sim.Metric, error) {
	var out []sim.Metric
	for _, name := range names {
		fn, ok := r.metrics[name]
		if !ok {
			return nil, fmt.Errorf("unknown metric: %s (have %v)", name, r.ListMetrics())
		}
		out = append(out, fn(sys)...)
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics is every registered metric.
func (r *Registry) DefaultMetrics(sys *celestial.System) []sim.Metric {
	out, _ := r.Metrics(sys, r.ListMetrics()...)
	return out
}
