package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/starsim/internal/analysis"
	"github.com/san-kum/starsim/internal/automation"
	"github.com/san-kum/starsim/internal/celestial"
	"github.com/san-kum/starsim/internal/config"
	"github.com/san-kum/starsim/internal/experiment"
	"github.com/san-kum/starsim/internal/export"
	"github.com/san-kum/starsim/internal/sim"
	"github.com/san-kum/starsim/internal/storage"
	"github.com/san-kum/starsim/internal/thermal"
	"github.com/san-kum/starsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	verbose    bool

	dt          float64
	gravityN    float64
	order       string
	relation    string
	runTicks    int
	tempTicks   int
	collTicks   int
	recordEvery int
	metricNames []string

	frameRate     int
	stepsPerFrame int
	trailLength   int
	seed          int64

	outDir    string
	normalize bool
	jsonOut   string
	svgOut    string
	body      string
	from      string

	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	sweepTicks   int
	workerCount  int
	trials       int
	perturbation float64
	mcTicks      int
	mcSeed       int64
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "starsim",
})

func main() {
	rootCmd := &cobra.Command{
		Use:   "starsim",
		Short: "n-body star system simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(viz.Options{StepsPerFrame: 1, FPS: 30, Seed: time.Now().UnixNano()})
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".starsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scene file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	simFlags(runCmd)
	runCmd.Flags().IntVar(&runTicks, "ticks", 10000, "number of ticks")
	runCmd.Flags().IntVar(&recordEvery, "record-every", 10, "state sampling interval in ticks (0 disables)")
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to compute (default all)")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	simFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps", 1, "ticks per frame")
	liveCmd.Flags().IntVar(&trailLength, "trail", 0, "trail length for every body")
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for generated planets")

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list built-in scenes",
		RunE:  listScenes,
	}

	tempsCmd := &cobra.Command{
		Use:   "temps [scene]",
		Short: "print planet equilibrium temperatures",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printTemperatures,
	}
	simFlags(tempsCmd)
	tempsCmd.Flags().IntVar(&tempTicks, "ticks", 0, "ticks to advance first")

	collectCmd := &cobra.Command{
		Use:   "collect [scene]",
		Short: "collect temperature data files",
		Args:  cobra.MaximumNArgs(1),
		RunE:  collectTemperatures,
	}
	simFlags(collectCmd)
	collectCmd.Flags().IntVar(&collTicks, "ticks", 5000, "number of ticks")
	collectCmd.Flags().StringVar(&outDir, "out", "temperatures", "output directory")

	plotCmd := &cobra.Command{
		Use:   "plot [dir]",
		Short: "plot collected temperature and distance series",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotTemperatures,
	}
	plotCmd.Flags().BoolVar(&normalize, "normalize", false, "normalise each series to its first sample")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata, or the full trajectory with --json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&jsonOut, "json", "", "write metadata and trajectory to this file")
	exportCmd.Flags().StringVar(&svgOut, "svg", "", "draw the recorded orbits to this file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbit analysis of one body about another",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&body, "body", "Earth", "orbiting body")
	analyzeCmd.Flags().StringVar(&from, "from", "Sun", "central body")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark the integrator on a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	simFlags(benchCmd)

	saveCmd := &cobra.Command{
		Use:   "save-scene [scene] [path]",
		Short: "write a built-in scene to a yaml file",
		Args:  cobra.ExactArgs(2),
		RunE:  saveScene,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of scripted steps",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "sweep one simulation parameter and compare metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "time_step", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 100, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 10000, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepTicks, "ticks", 5000, "ticks per run")
	sweepCmd.Flags().IntVar(&workerCount, "workers", 0, "concurrent runs (0 = GOMAXPROCS)")

	monteCmd := &cobra.Command{
		Use:   "montecarlo [scene]",
		Short: "perturb a body's velocity and count stable outcomes",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	monteCmd.Flags().StringVar(&body, "body", "Earth", "body to perturb")
	monteCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCmd.Flags().Float64Var(&perturbation, "perturb", 0.1, "relative velocity perturbation")
	monteCmd.Flags().IntVar(&mcTicks, "ticks", 20000, "ticks per trial")
	monteCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 = time)")

	rootCmd.AddCommand(runCmd, liveCmd, scenesCmd, tempsCmd, collectCmd, plotCmd, listCmd, exportCmd, analyzeCmd,
		benchCmd, saveCmd, scenarioCmd, sweepCmd, monteCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func simFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultTimeStep, "time step in seconds")
	cmd.Flags().Float64Var(&gravityN, "n", 0, "gravitational exponent")
	cmd.Flags().StringVar(&order, "order", "sequential", "update order (sequential|simultaneous)")
	cmd.Flags().StringVar(&relation, "relation", "log", "mass-luminosity relation (log|power)")
}

// loadScene resolves the scene from --config or the argument, then applies
// flags the user set explicitly.
func loadScene(cmd *cobra.Command, args []string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case configFile != "":
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	case len(args) > 0:
		cfg, err = config.Scene(args[0])
		if err != nil {
			return nil, err
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Lookup("dt") != nil && flags.Changed("dt") {
		cfg.Simulation.TimeStep = dt
	}
	if flags.Lookup("n") != nil && flags.Changed("n") {
		cfg.Simulation.GravitationalN = gravityN
	}
	if flags.Lookup("order") != nil && flags.Changed("order") {
		cfg.Simulation.Order = order
	}
	if flags.Lookup("relation") != nil && flags.Changed("relation") {
		cfg.Simulation.Relation = relation
	}
	logger.Debug("scene loaded", "scene", cfg.Scene, "bodies", len(cfg.Bodies), "time_step", cfg.Simulation.TimeStep)
	return cfg, nil
}

func logWarnings(ws []sim.TickWarning) {
	for _, w := range ws {
		logger.Warn("bodies too close, pair skipped", "tick", w.Tick, "body_a", w.A, "body_b", w.B, "distance", w.Distance, "err", w.Err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	ctrl, err := cfg.NewController()
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	ms := registry.DefaultMetrics(ctrl.System())
	if len(metricNames) > 0 {
		if ms, err = registry.Metrics(ctrl.System(), metricNames...); err != nil {
			return err
		}
	}

	exp := experiment.New(experiment.Config{Ticks: runTicks, RecordEvery: recordEvery})
	if err := exp.Setup(ctrl, ms); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running", "scene", cfg.Scene, "ticks", runTicks, "time_step", ctrl.Config().TimeStep)
	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		logger.Warn("run interrupted", "ticks", result.Ticks, "err", err)
	}
	logWarnings(result.Warnings)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	simCfg := ctrl.Config()
	meta := storage.RunMetadata{
		Scene:          cfg.Scene,
		TimeStep:       simCfg.TimeStep,
		GravitationalN: simCfg.GravitationalN,
		Order:          simCfg.Order.String(),
		Ticks:          result.Ticks,
		Elapsed:        result.Elapsed,
		Bodies:         ctrl.System().Names(),
		Warnings:       len(result.Warnings),
		Metrics:        finiteMetrics(result.Metrics),
	}
	runID, err := st.Save(meta, result.States)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Wall.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d (%.2f days simulated)\n", result.Ticks, result.Elapsed/86400)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}
	return nil
}

// finiteMetrics drops values JSON cannot encode.
func finiteMetrics(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			logger.Warn("dropping non-finite metric", "metric", k)
			continue
		}
		out[k] = v
	}
	return out
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	ctrl, err := cfg.NewController()
	if err != nil {
		return err
	}
	if trailLength > 0 {
		n := min(trailLength, ctrl.Config().MaxTrailLength)
		for _, name := range ctrl.System().Names() {
			if err := ctrl.SetTrailLength(name, n); err != nil {
				return err
			}
		}
	}

	m := viz.NewModel(ctrl, cfg, viz.Options{StepsPerFrame: stepsPerFrame, FPS: frameRate, Seed: seed})
	final, err := viz.Run(m)
	if err != nil {
		return err
	}
	logWarnings(final.Controller().DrainWarnings())
	logger.Info("session ended", "ticks", final.Controller().Ticks(), "bodies", final.Controller().System().Len())
	return nil
}

func listScenes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tBODIES\tCATALOG\tDT\tSCALE\tREFERENCE")
	for _, name := range config.ListScenes() {
		cfg, err := config.Scene(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%gs\t%g\t%s\n",
			name,
			len(cfg.Bodies),
			len(cfg.Catalog),
			cfg.Simulation.TimeStep,
			cfg.Simulation.ScaleFactor,
			cfg.Reference,
		)
	}
	return w.Flush()
}

func printTemperatures(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	ctrl, err := cfg.NewController()
	if err != nil {
		return err
	}
	if tempTicks > 0 {
		ctrl.Run(tempTicks)
		logWarnings(ctrl.DrainWarnings())
	}

	readings, err := ctrl.Temperatures()
	if err != nil {
		logger.Warn("some temperatures could not be computed", "err", err)
	}
	if len(readings) == 0 {
		fmt.Println("no planets in scene")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLANET\tKELVIN\tCELSIUS\tFAHRENHEIT")
	for _, r := range readings {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\n", r.Body, r.Kelvin, r.Celsius, r.Fahrenheit)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	zones, err := thermal.HabitableZones(ctrl.System())
	if err != nil {
		logger.Warn("habitable zone", "err", err)
	}
	if len(zones) == 0 {
		return nil
	}
	fmt.Printf("\nhabitable zone (%.2f-%.2f K, albedo %.2g, emissivity %.2g)\n",
		thermal.HabitableMinTemp, thermal.HabitableMaxTemp, thermal.HabitableAlbedo, thermal.HabitableEmissivity)
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STAR\tINNER_AU\tOUTER_AU")
	for _, z := range zones {
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\n", z.Star, z.Inner/celestial.AU, z.Outer/celestial.AU)
	}
	return w.Flush()
}

func collectTemperatures(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	ctrl, err := cfg.NewController()
	if err != nil {
		return err
	}
	if cfg.Reference == "" {
		return fmt.Errorf("scene %q has no reference star", cfg.Scene)
	}

	tl := storage.NewTemperatureLog(cfg.Reference, func() float64 { return ctrl.Config().TimeStep })
	ctrl.AddObserver(tl)

	ctx, cancel := signalContext()
	defer cancel()
	exp := experiment.New(experiment.Config{Ticks: collTicks})
	if err := exp.Setup(ctrl, nil); err != nil {
		return err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		logger.Warn("collection interrupted", "ticks", result.Ticks, "err", err)
	}
	logWarnings(result.Warnings)
	if err := tl.Err(); err != nil {
		logger.Warn("temperature collection incomplete", "err", err)
	}

	paths, err := tl.WriteDir(outDir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logger.Debug("wrote", "path", p)
	}
	fmt.Printf("wrote %d files to %s\n", len(paths), outDir)
	return nil
}

func plotTemperatures(cmd *cobra.Command, args []string) error {
	dir := "temperatures"
	if len(args) > 0 {
		dir = args[0]
	}
	series, err := storage.ReadSeriesDir(dir)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot in %s", dir)
	}

	for _, s := range series {
		if normalize {
			s = s.Normalize()
		}
		fmt.Printf("%s (%d samples)\n\n", s.Name, s.Len())
		if !s.Static && len(s.Temperatures) > 1 {
			caption := "temperature (°F)"
			if normalize {
				caption = "temperature (relative)"
			}
			fmt.Println(asciigraph.Plot(s.Temperatures, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption(caption)))
			fmt.Println()
		}
		if len(s.Distances) > 1 {
			caption := "distance to reference (m)"
			if normalize {
				caption = "distance to reference (relative)"
			}
			fmt.Println(asciigraph.Plot(s.Distances, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption(caption)))
			fmt.Println()
		}
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tTICKS\tDT\tORDER\tWARNINGS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%gs\t%s\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.TimeStep,
			run.Order,
			run.Warnings,
		)
	}

	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if jsonOut == "" && svgOut == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}

	states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if jsonOut != "" {
		if err := os.MkdirAll(filepath.Dir(jsonOut), 0755); err != nil {
			return err
		}
		if err := storage.ExportJSONFile(jsonOut, *meta, states); err != nil {
			return err
		}
		logger.Info("exported", "run", runID, "states", len(states), "path", jsonOut)
	}
	if svgOut != "" {
		if err := os.MkdirAll(filepath.Dir(svgOut), 0755); err != nil {
			return err
		}
		if err := export.WriteOrbitsSVGFile(svgOut, states, 800, 800); err != nil {
			return err
		}
		logger.Info("drew orbits", "run", runID, "path", svgOut)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data")
	}

	sum, err := analysis.Summarize(states, body, from)
	if err != nil {
		return err
	}
	dist, _, err := analysis.Separation(states, body, from)
	if err != nil {
		return err
	}

	fmt.Printf("orbit analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n\n", meta.Scene)
	if len(dist) > 1 {
		fmt.Println(asciigraph.Plot(dist, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption(fmt.Sprintf("%s-%s separation (m)", body, from))))
		fmt.Println()
	}

	fmt.Printf("samples: %d\n", sum.Samples)
	fmt.Printf("min distance: %.4g m\n", sum.MinDistance)
	fmt.Printf("max distance: %.4g m\n", sum.MaxDistance)
	fmt.Printf("eccentricity: %.4f\n", sum.Eccentricity)
	if sum.Period > 0 {
		fmt.Printf("period: %.2f days\n", sum.Period/86400)
	} else {
		fmt.Println("period: not resolved (run longer)")
	}
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	counts := []int{100, 1000, 10000}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tBODIES\tTICKS\tTIME\tTICKS/SEC")
	for _, n := range counts {
		cfg, err := loadScene(cmd, args)
		if err != nil {
			return err
		}
		ctrl, err := cfg.NewController()
		if err != nil {
			return err
		}
		exp := experiment.New(experiment.Config{Ticks: n})
		if err := exp.Setup(ctrl, nil); err != nil {
			return err
		}
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n",
			cfg.Scene, ctrl.System().Len(), n, result.Wall, float64(n)/result.Wall.Seconds())
	}
	return w.Flush()
}

func saveScene(cmd *cobra.Command, args []string) error {
	cfg, err := config.Scene(args[0])
	if err != nil {
		return err
	}
	path := args[1]
	if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
		path += ".yaml"
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), func(i int, step automation.ScenarioStep) {
		logger.Debug("step", "n", i+1, "scene", step.Scene, "ticks", step.Ticks)
	})
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	for i, r := range results {
		logWarnings(r.Result.Warnings)
		for _, k := range sortedKeys(r.Result.Metrics) {
			fmt.Printf("step %d  %-24s %g\n", i+1, k, r.Result.Metrics[k])
		}
		if r.Step.SaveAs == "" {
			continue
		}
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Scene:          r.Step.SaveAs,
			TimeStep:       r.Sim.TimeStep,
			GravitationalN: r.Sim.GravitationalN,
			Order:          r.Sim.Order.String(),
			Ticks:          r.Result.Ticks,
			Elapsed:        r.Result.Elapsed,
			Bodies:         r.Bodies,
			Warnings:       len(r.Result.Warnings),
			Metrics:        finiteMetrics(r.Result.Metrics),
		}, r.Result.States)
		if err != nil {
			return err
		}
		logger.Info("saved", "step", i+1, "run", runID)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	sweep := &automation.ParameterSweep{
		Scene:     args[0],
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Ticks:     sweepTicks,
		Workers:   workerCount,
	}
	start := time.Now()
	results, err := automation.RunSweep(ctx, sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}
	logger.Info("sweep done", "runs", len(results), "wall", time.Since(start).Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tENERGY_DRIFT\tMOMENTUM_DRIFT\tSTABILITY\tWARNINGS\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%.3e\t%.3e\t%.3f\t%d\n",
			r.ParamValue,
			r.Metrics["energy_drift"],
			r.Metrics["momentum_drift"],
			r.Metrics["stability"],
			r.Warnings,
		)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Scene:        args[0],
		Body:         body,
		Perturbation: perturbation,
		NumTrials:    trials,
		Ticks:        mcTicks,
		Seed:         mcSeed,
		Workers:      workerCount,
	})
	if err != nil {
		return err
	}
	for _, r := range results {
		logger.Debug("trial", "id", r.TrialID, "factor", r.Factor, "stable", r.Stable)
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("%s in %s: %d stable, %d unstable (%.0f%%)\n",
		body, args[0], stable, unstable, 100*float64(stable)/float64(len(results)))
	return nil
}
