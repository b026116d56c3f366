package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/chaoslab/internal/automation"
	"github.com/san-kum/chaoslab/internal/optim"
	"github.com/san-kum/chaoslab/internal/scenario"
	"github.com/san-kum/chaoslab/internal/storage"
)

var (
	sweepKey   string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	metricName string
	gridParams []string
)

// automationCommands run scenarios in bulk without the live view.
func automationCommands() []*cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run every entry of a yaml batch file and save the results",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "run a scenario across evenly spaced values of one config key",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepKey, "key", "collision.restitution", "dotted config key to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of values")
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to report")

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario]",
		Short: "grid search config keys for the lowest metric value",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	addScenarioFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridParams, "param", nil, "key=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimize")

	return []*cobra.Command{batchCmd, sweepCmd, tuneCmd}
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runner := automation.NewRunner(scenario.NewRegistry(), st, logger)

	ctx, stop := interruptible()
	defer stop()

	fmt.Printf("running batch %s (%d runs)\n\n", batch.Name, len(batch.Runs))
	outcomes, err := runner.RunBatch(ctx, batch, filepath.Dir(args[0]))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tRUN ID\tSCENARIO\tSTEPS\tDRIFT")
	for _, o := range outcomes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.2e\n", o.Index+1, o.RunID, o.Config.Scenario, o.Result.StepsTaken, o.Result.EnergyDrift)
	}
	w.Flush()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	runner := automation.NewRunner(scenario.NewRegistry(), nil, logger)

	ctx, stop := interruptible()
	defer stop()

	sweep := automation.Sweep{Key: sweepKey, Min: sweepMin, Max: sweepMax, Steps: sweepSteps}
	results, err := runner.RunSweep(ctx, cfg, sweep)

	fmt.Printf("sweep %s over %s (%d frames each)\n\n", sweepKey, cfg.Scenario, cfg.Frames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tDRIFT\t%s\n", strings.ToUpper(sweepKey), strings.ToUpper(metricName))
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(w, "%.4f\terror: %v\t\n", res.Value, res.Err)
			continue
		}
		fmt.Fprintf(w, "%.4f\t%.2e\t%.6f\n", res.Value, res.EnergyDrift, res.Metrics[metricName])
	}
	w.Flush()
	return err
}

func runTune(cmd *cobra.Command, args []string) error {
	if len(gridParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	names := make([]string, 0, len(gridParams))
	ranges := make([][]float64, 0, len(gridParams))
	for _, arg := range gridParams {
		name, values, err := parseGridParam(arg)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	runner := automation.NewRunner(scenario.NewRegistry(), nil, logger)

	ctx, stop := interruptible()
	defer stop()

	fmt.Printf("searching %d points of %s for the lowest %s\n\n", grid.Size(), cfg.Scenario, metricName)
	best, score, trials, err := grid.Search(ctx, runner.Objective(cfg, metricName))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metricName))
	for _, tr := range trials {
		cols := make([]string, len(names))
		for i, n := range names {
			cols[i] = strconv.FormatFloat(tr.Params[n], 'g', 6, 64)
		}
		if tr.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", strings.Join(cols, "\t"), tr.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.6g\n", strings.Join(cols, "\t"), tr.Score)
	}
	w.Flush()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("best"))
	for _, n := range names {
		fmt.Printf("  %s %s\n", labelStyle.Render(n+":"), valueStyle.Render(strconv.FormatFloat(best[n], 'g', 6, 64)))
	}
	fmt.Printf("  %s %s\n", labelStyle.Render(metricName+":"), valueStyle.Render(fmt.Sprintf("%.6g", score)))
	return nil
}

// parseGridParam splits "key=v1,v2,..." into the key and its values.
func parseGridParam(arg string) (string, []float64, error) {
	key, list, ok := strings.Cut(arg, "=")
	if !ok || key == "" || list == "" {
		return "", nil, fmt.Errorf("invalid --param %q, want key=v1,v2,...", arg)
	}
	fields := strings.Split(list, ",")
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid --param %q: %w", arg, err)
		}
		values = append(values, v)
	}
	return key, values, nil
}
