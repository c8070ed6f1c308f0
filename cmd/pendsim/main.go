package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/export"
	"github.com/san-kum/pendsim/internal/integrators"
	"github.com/san-kum/pendsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	quiet      bool
	configFile string
	preset     string
	gravity    float64
	length     float64
	damping    float64
	theta      float64
	omega      float64
	dt         float64
	duration   float64
	method     string
	fps        int
	size       string
	output     string
	ffmpegPath string
	saveRun    bool
	plotKind   string
	svgSize    string
)

// main wires the pendsim commands. With no subcommand it renders the default
// pendulum to pendulum_simulation.mp4.
func main() {
	rootCmd := &cobra.Command{
		Use:           "pendsim",
		Short:         "damped pendulum simulator and animator",
		Args:          cobra.NoArgs,
		RunE:          renderVideo,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pendsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "simulate and export the animation to a video file",
		Args:  cobra.NoArgs,
		RunE:  renderVideo,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate and store the trajectory",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "play the animation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  previewRun,
	}

	for _, cmd := range []*cobra.Command{rootCmd, renderCmd, runCmd, previewCmd} {
		addSimFlags(cmd)
	}
	for _, cmd := range []*cobra.Command{rootCmd, renderCmd} {
		addRenderFlags(cmd)
	}
	previewCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "playback frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot angle and energy of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "period and decay analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a phase, angle or path plot to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&plotKind, "kind", "phase", fmt.Sprintf("plot kind %v", export.Kinds))
	exportSVGCmd.Flags().StringVar(&svgSize, "size", "800x600", "image size WIDTHxHEIGHT")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-12s θ0=%.3f ω0=%.3f μ=%.3f dt=%g T=%gs\n", name,
					cfg.Initial.Theta, cfg.Initial.Omega, cfg.Physics.Damping,
					cfg.Integration.Dt, cfg.Integration.Duration)
			}
		},
	}

	rootCmd.AddCommand(renderCmd, runCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, previewCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, viz.ErrorStyle.Render("error:"), err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational acceleration (m/s²)")
	f.Float64Var(&length, "length", config.DefaultLength, "pendulum length (m)")
	f.Float64Var(&damping, "damping", config.DefaultDamping, "damping coefficient (1/s)")
	f.Float64Var(&theta, "theta", config.DefaultTheta, "initial angle (rad)")
	f.Float64Var(&omega, "omega", config.DefaultOmega, "initial angular velocity (rad/s)")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	f.StringVar(&method, "method", integrators.DefaultMethod, fmt.Sprintf("integration method %v", integrators.Names()))
}

func addRenderFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&fps, "fps", config.DefaultFPS, "video frame rate")
	f.StringVar(&size, "size", fmt.Sprintf("%dx%d", config.DefaultSize, config.DefaultSize), "frame size WIDTHxHEIGHT or a single edge length")
	f.StringVarP(&output, "out", "o", config.DefaultOutput, "output video (.mp4, .mov, .mkv, .webm, .gif); gif buffers every frame in memory (~230 MB at 480x480 for 1001 frames)")
	f.StringVar(&ffmpegPath, "ffmpeg", "", "ffmpeg binary (default: looked up on PATH)")
	f.BoolVar(&saveRun, "save", false, "also store the run")
}
