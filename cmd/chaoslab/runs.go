package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/chaoslab/internal/analysis"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/export"
	"github.com/san-kum/chaoslab/internal/storage"
)

const maxPlots = 6

var (
	outFile    string
	withFrames bool
	seriesName string
	analyzeOf  string
	frameIndex int
	svgWidth   int
)

// runsCommands are the commands that read saved runs.
func runsCommands() []*cobra.Command {
	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's recorded series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&seriesName, "series", "", "plot only this series")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().BoolVar(&withFrames, "frames", false, "include every sampled frame")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "render one saved frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	snapshotCmd.Flags().IntVar(&frameIndex, "frame", -1, "sampled frame index, negative counts from the end")
	snapshotCmd.Flags().IntVar(&svgWidth, "width", 800, "image width in pixels")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeOf, "series", "energy", "series to analyze")

	return []*cobra.Command{plotCmd, exportCmd, snapshotCmd, analyzeCmd}
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	_, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	names := plotOrder(series)
	if seriesName != "" {
		if _, ok := series[seriesName]; !ok {
			return fmt.Errorf("unknown series: %s (available: %v)", seriesName, names)
		}
		names = []string{seriesName}
	}
	if len(names) == 0 || len(series[names[0]]) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(series[names[0]]))

	if len(names) > maxPlots {
		names = names[:maxPlots]
	}
	for _, name := range names {
		graph := asciigraph.Plot(series[name],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

// plotOrder puts energy first and the rest alphabetically.
func plotOrder(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	if _, ok := series["energy"]; ok {
		names = append(names, "energy")
	}
	for _, name := range sortedKeys(series) {
		if name != "energy" {
			names = append(names, name)
		}
	}
	return names
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := st.Export(args[0], w, withFrames); err != nil {
		return err
	}
	if outFile != "" {
		fmt.Printf("exported %s to %s\n", args[0], outFile)
	}
	return nil
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	f, err := pickFrame(frames, frameIndex)
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	svg := export.FrameSVG(f, dynamo.Boundary{}, svgWidth)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("frame %d (t=%.3f) written to %s\n", f.Step, f.Time, path)
	return nil
}

func pickFrame(frames []dynamo.Frame, i int) (dynamo.Frame, error) {
	if i < 0 {
		i += len(frames)
	}
	if i < 0 || i >= len(frames) {
		return dynamo.Frame{}, fmt.Errorf("frame %d out of range (run has %d frames)", frameIndex, len(frames))
	}
	return frames[i], nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	data, ok := series[analyzeOf]
	if !ok {
		return fmt.Errorf("unknown series: %s (available: %v)", analyzeOf, plotOrder(series))
	}
	if len(data) < 4 || len(times) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	ps := analysis.PowerSpectrum(data)
	graph := asciigraph.Plot(ps,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", analyzeOf)),
	)
	fmt.Println(graph)
	fmt.Println()

	sampleDt := times[1] - times[0]
	freq := analysis.DominantFrequency(data, sampleDt)
	fmt.Printf("dominant frequency: %.4f hz (simulated time)\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
