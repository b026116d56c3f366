package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/metrics"
	"github.com/san-kum/chaoslab/internal/physics"
	"github.com/san-kum/chaoslab/internal/scenario"
	"github.com/san-kum/chaoslab/internal/sim"
	"github.com/san-kum/chaoslab/internal/storage"
	"github.com/san-kum/chaoslab/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	debug      bool

	seed        int64
	frames      int
	frameDt     float64
	substeps    int
	timeScale   float64
	integrator  string
	sampleEvery int

	themeName string
	realtime  bool

	logger  *log.Logger
	logFile *os.File
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
)

// main registers commands and flags and runs the root command. Without a
// subcommand it opens the live view's scenario picker.
func main() {
	rootCmd := &cobra.Command{
		Use:   "chaoslab",
		Short: "rigid disc, orbital and double pendulum physics lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger, logFile = setupLogging(debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
			}
		},
		SilenceUsage: true,
		RunE:         runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".chaoslab", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write a debug log to "+logDir+"/"+logName)

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario headless and save the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", 1, "record one frame in every n")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().StringVar(&themeName, "theme", viz.ThemeCyberpunk.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().BoolVar(&realtime, "realtime", false, "advance by wall-clock time instead of a fixed frame delta")

	compareCmd := &cobra.Command{
		Use:   "compare [scenario] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addScenarioFlags(compareCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "measure steps per second across substep counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	addScenarioFlags(benchCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list available scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := scenario.NewRegistry()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range reg.List() {
				fmt.Fprintf(w, "%s\t%s\n", name, reg.Describe(name))
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset of the default scenario")

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, benchCmd, listCmd, scenariosCmd, presetsCmd, initCmd)
	rootCmd.AddCommand(runsCommands()...)
	rootCmd.AddCommand(chaosCommands()...)
	rootCmd.AddCommand(automationCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Int64Var(&seed, "seed", def.Seed, "random seed")
	cmd.Flags().IntVar(&frames, "frames", def.Frames, "frames to run")
	cmd.Flags().Float64Var(&frameDt, "dt", def.FrameDt, "frame delta in seconds")
	cmd.Flags().IntVar(&substeps, "substeps", 0, "physics steps per frame (0 keeps the scenario's)")
	cmd.Flags().Float64Var(&timeScale, "time-scale", 0, "simulated seconds per frame second (0 keeps the scenario's)")
	cmd.Flags().StringVar(&integrator, "integrator", "", "integrator for gravity and the pendulum (empty keeps the defaults)")
}

// loadConfig resolves the configuration: the preset, then the config file
// on top of it, then any flag set on the command line. A scenario argument
// overrides the scenario named by either.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		scn := name
		if scn == "" {
			scn = config.DefaultScenario
		}
		p, err := config.GetPreset(scn, preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if name != "" {
		cfg.Scenario = name
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("dt") {
		cfg.FrameDt = frameDt
	}
	if flags.Changed("substeps") {
		cfg.Substeps = substeps
	}
	if flags.Changed("time-scale") {
		cfg.TimeScale = timeScale
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func integratorLabel(cfg *config.Config) string {
	if cfg.Integrator == "" {
		return "default"
	}
	return cfg.Integrator
}

func newWorld(cfg *config.Config, l *log.Logger) (*sim.World, error) {
	reg := scenario.NewRegistry()
	return reg.NewWorld(cfg, sim.WithLogger(l), sim.WithMetricsFor(metrics.ForScenario))
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w, err := newWorld(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := interruptible()
	defer stop()

	fmt.Printf("running %s simulation...\n", cfg.Scenario)
	logger.Debug("run", "scenario", cfg.Scenario, "seed", cfg.Seed, "frames", cfg.Frames, "integrator", integratorLabel(cfg))
	start := time.Now()

	result, err := w.Run(ctx, cfg.RunConfig())
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Warn("interrupted, saving partial run", "frames", w.Frames())
	}
	elapsed := time.Since(start)

	scn := w.Scenario()
	runID, err := st.Save(storage.RunInfo{
		Scenario:   cfg.Scenario,
		Integrator: integratorLabel(cfg),
		Seed:       cfg.Seed,
		FrameDt:    cfg.FrameDt,
		Frames:     w.Frames(),
		Substeps:   scn.Substeps,
		TimeScale:  scn.TimeScale,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if scn.Force == sim.ForceOrbiters && scn.Source != nil {
		fmt.Println()
		printOrbits(w.Frame(), scn.Source.Mass, w.Params().G)
	}
	return nil
}

// printOrbits tabulates the osculating elements of every orbiter in f
// around the frame's source.
func printOrbits(f dynamo.Frame, sourceMass, g float64) {
	var source mgl64.Vec2
	for _, e := range f.Entities {
		if e.Kind == dynamo.KindSource {
			source = e.Position
		}
	}

	fmt.Println(titleStyle.Render("orbits"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, labelStyle.Render("BODY\tRADIUS\tSPEED\tSEMI-MAJOR\tECC"))
	for _, e := range f.Entities {
		if e.Kind != dynamo.KindCelestial {
			continue
		}
		el := physics.OrbitalElements(g, sourceMass, source, e.Position, e.Velocity)
		fmt.Fprintln(w, valueStyle.Render(fmt.Sprintf("%d\t%.1f\t%.2f\t%.1f\t%.4f",
			e.Index, el.Radius, el.Speed, el.SemiMajorAxis, el.Eccentricity)))
	}
	w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && configFile == "" && preset == "" {
		reg := scenario.NewRegistry()
		entries := make([]viz.Entry, 0, len(reg.List()))
		for _, name := range reg.List() {
			if name == "custom" {
				continue
			}
			entries = append(entries, viz.Entry{Name: name, Description: reg.Describe(name)})
		}
		choice, err := viz.Pick("chaoslab", entries)
		if err != nil {
			return err
		}
		if choice == "" {
			return nil
		}
		args = []string{choice}
	}

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	l := tuiLogger()
	w, err := newWorld(cfg, l)
	if err != nil {
		return err
	}

	theme := themeName
	if theme == "" {
		theme = viz.ThemeCyberpunk.Name
	}
	m := viz.NewModel(w, cfg.FrameDt,
		viz.WithSeed(cfg.Seed),
		viz.WithTheme(theme),
		viz.WithModelLogger(l),
		viz.WithRealtime(realtime),
	)
	return viz.Run(m)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[:1])
	if err != nil {
		return err
	}
	names := args[1:]

	fmt.Printf("comparing integrators for %s (dt=%.4f, frames=%d)\n\n", cfg.Scenario, cfg.FrameDt, cfg.Frames)
	fmt.Printf("%-12s  %-12s  %-12s  %-12s\n", "integrator", "steps", "energy_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 54))

	for _, name := range names {
		run := cfg.Clone()
		run.Integrator = name

		w, err := newWorld(run, logger)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := w.Run(context.Background(), run.RunConfig())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		fmt.Printf("%-12s  %12d  %12.2e  %12.2f\n", name, result.StepsTaken, result.EnergyDrift, float64(elapsed.Microseconds())/1000)
	}
	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s\n\n", cfg.Scenario)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUBSTEPS\tFRAMES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range []int{1, 4, 16} {
		run := cfg.Clone()
		run.Substeps = n
		world, err := newWorld(run, logger)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := world.Run(context.Background(), run.RunConfig())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n",
			n, run.Frames, result.StepsTaken, elapsed, float64(result.StepsTaken)/elapsed.Seconds())
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tFRAMES\tDT\tINTEG\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%s\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.FrameDt,
			run.Integrator,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}
