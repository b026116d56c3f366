package main

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/san-kum/chaoslab/internal/analysis"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/export"
	"github.com/san-kum/chaoslab/internal/integrators"
	"github.com/san-kum/chaoslab/internal/physics"
	"github.com/san-kum/chaoslab/internal/viz"
)

// chaosThreshold is the largest exponent above which a run is reported
// as chaotic rather than regular.
const chaosThreshold = 0.01

// stateNames label the double pendulum's state components.
var stateNames = []string{"theta1", "theta2", "omega1", "omega2"}

var (
	stepDt       float64
	duration     float64
	perturbation float64
	xAxis        int
	yAxis        int
	svgOut       string
)

// chaosCommands analyze the double pendulum directly, without a world.
func chaosCommands() []*cobra.Command {
	chaosCmd := &cobra.Command{
		Use:   "chaos",
		Short: "estimate the double pendulum's Lyapunov exponents",
		Args:  cobra.NoArgs,
		RunE:  chaosPendulum,
	}
	addPendulumFlags(chaosCmd)
	chaosCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-8, "initial separation of the twin trajectory")

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "phase portrait of the double pendulum",
		Args:  cobra.NoArgs,
		RunE:  phasePendulum,
	}
	addPendulumFlags(phaseCmd)
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis (0 theta1, 1 theta2, 2 omega1, 3 omega2)")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 2, "state index for y-axis")
	phaseCmd.Flags().StringVar(&svgOut, "svg", "", "also write the portrait to this SVG file")

	return []*cobra.Command{chaosCmd, phaseCmd}
}

func addPendulumFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a pendulum preset")
	cmd.Flags().StringVar(&integrator, "integrator", "", "integrator (default rk4)")
	cmd.Flags().Float64Var(&stepDt, "step", 0.01, "integration step in simulated seconds")
	cmd.Flags().Float64Var(&duration, "duration", 60, "simulated seconds")
}

func loadPendulum(cmd *cobra.Command) (*physics.DoublePendulum, dynamo.Integrator, error) {
	cfg, err := loadConfig(cmd, []string{"pendulum"})
	if err != nil {
		return nil, nil, err
	}
	pend, err := physics.NewDoublePendulum(cfg.PendulumParams())
	if err != nil {
		return nil, nil, err
	}

	name := cfg.Integrator
	if name == "" {
		name = "rk4"
	}
	integ, err := integrators.New(name)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("pendulum", "params", pend.GetParams(), "integrator", name)
	return pend, integ, nil
}

func chaosPendulum(cmd *cobra.Command, args []string) error {
	pend, integ, err := loadPendulum(cmd)
	if err != nil {
		return err
	}
	x0 := pend.State()

	lambda, err := analysis.LyapunovExponent(pend, integ, x0, stepDt, duration, perturbation)
	if err != nil {
		return err
	}
	spectrum, err := analysis.LyapunovSpectrum(pend, integ, x0, stepDt, duration, perturbation)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("double pendulum"))
	fmt.Printf("%s %.4f\n", labelStyle.Render("largest exponent:"), lambda)
	for i, v := range spectrum {
		fmt.Printf("  %s %.4f\n", labelStyle.Render(fmt.Sprintf("%-7s", stateNames[i])), v)
	}

	verdict := "regular"
	if lambda > chaosThreshold {
		verdict = "chaotic"
	}
	fmt.Println(valueStyle.Render(verdict))
	return nil
}

func phasePendulum(cmd *cobra.Command, args []string) error {
	for _, axis := range []int{xAxis, yAxis} {
		if axis < 0 || axis >= len(stateNames) {
			return fmt.Errorf("axis %d out of range [0, %d)", axis, len(stateNames))
		}
	}

	pend, integ, err := loadPendulum(cmd)
	if err != nil {
		return err
	}
	points, err := analysis.PhasePortrait(pend, integ, pend.State(), xAxis, yAxis, stepDt, duration)
	if err != nil {
		return err
	}

	fmt.Printf("%s vs %s\n", stateNames[yAxis], stateNames[xAxis])
	fmt.Print(phaseASCII(points, 80, 24))

	if svgOut != "" {
		svg := export.TrajectorySVG(points, 800, 600, "#00ffff")
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("written to %s\n", svgOut)
	}
	return nil
}

// phaseASCII plots points on a braille canvas with y growing upward.
func phaseASCII(points []mgl64.Vec2, cols, rows int) string {
	flipped := make([]mgl64.Vec2, len(points))
	for i, p := range points {
		flipped[i] = mgl64.Vec2{p[0], -p[1]}
	}

	canvas := viz.NewCanvas(cols, rows)
	w, h := canvas.Dots()
	proj := viz.NewProjection(dynamo.Enclose(flipped, 0.05), w, h)
	for _, p := range flipped {
		x, y := proj.ToDots(p)
		canvas.Set(x, y, "")
	}
	return canvas.String()
}
