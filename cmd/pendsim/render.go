package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/metrics"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/render"
	"github.com/san-kum/pendsim/internal/sim"
	"github.com/san-kum/pendsim/internal/storage"
	"github.com/san-kum/pendsim/internal/video"
	"github.com/san-kum/pendsim/internal/viz"
	"github.com/spf13/cobra"
)

const gifWarnMB = 64

func simulate(cfg *config.Config) (*sim.Result, error) {
	params := cfg.Params()
	ms := metrics.Defaults(physics.NewPendulum(params), params)
	return sim.Simulate(params, cfg.InitialState(), cfg.IntegrationConfig(), cfg.Integration.Method, ms...)
}

func store(cfg *config.Config, result *sim.Result) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(storage.RunSpec{
		Method:      cfg.Integration.Method,
		Params:      cfg.Params(),
		Initial:     cfg.InitialState(),
		Integration: cfg.IntegrationConfig(),
	}, result)
}

func renderVideo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := simulate(cfg)
	if err != nil {
		return err
	}
	traj := result.Trajectory()

	style := render.DefaultStyle()
	style.LineWidth = cfg.Render.LineWidth
	style.MarkerRadius = cfg.Render.MarkerRadius
	canvas, err := render.NewCanvas(cfg.Render.Width, cfg.Render.Height, cfg.Physics.Length, style)
	if err != nil {
		return err
	}

	enc, err := video.Create(cfg.Render.Output, video.Options{
		FPS:        cfg.Render.FPS,
		Width:      cfg.Render.Width,
		Height:     cfg.Render.Height,
		FFmpegPath: cfg.Render.FFmpeg,
	})
	if err != nil {
		return err
	}
	defer enc.Abort()

	if !quiet {
		fmt.Println(viz.HeaderStyle.Render("rendering pendulum"))
		fmt.Println(viz.Field("frames", "%d @ %d fps", traj.Len(), cfg.Render.FPS))
		fmt.Println(viz.Field("output", "%s", cfg.Render.Output))
		if strings.EqualFold(filepath.Ext(cfg.Render.Output), ".gif") {
			mb := video.GIFBufferBytes(cfg.Render.Width, cfg.Render.Height, traj.Len()) >> 20
			if mb >= gifWarnMB {
				fmt.Println(viz.Subtle.Render(fmt.Sprintf("gif encoding buffers ~%d MB; lower --size or use .mp4 for long runs", mb)))
			}
		}
	}

	animator := &render.Animator{Surface: canvas, Sink: enc}
	if !quiet {
		animator.OnFrame = progressPrinter(traj.Len())
	}
	if err := animator.Run(cmd.Context(), traj, cfg.Physics.Length); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if !quiet {
		fmt.Println()
		fmt.Println(viz.SuccessStyle.Render("done"), viz.Subtle.Render(fmt.Sprintf("in %v", time.Since(start).Round(time.Millisecond))))
	}

	if saveRun {
		runID, err := store(cfg, result)
		if err != nil {
			return err
		}
		if !quiet {
			fmt.Println(viz.Field("run id", "%s", runID))
		}
	}
	return nil
}

// progressPrinter redraws a progress bar about every 2% of frames.
func progressPrinter(total int) func(frame, total int) {
	every := max(total/50, 1)
	return func(frame, total int) {
		if frame%every != 0 && frame != total {
			return
		}
		pct := float64(frame) / float64(total)
		fmt.Printf("\r%s %3.0f%%", viz.ProgressBar(pct, 40), pct*100)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Printf("running pendulum simulation (%s)...\n", cfg.Integration.Method)
	}
	start := time.Now()
	result, err := simulate(cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := store(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Println(viz.Field("run id", "%s", runID))
	fmt.Println(viz.Field("samples", "%d", len(result.States)))
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	fmt.Printf("  energy_drift: %.6e\n", result.EnergyDrift)
	return nil
}
