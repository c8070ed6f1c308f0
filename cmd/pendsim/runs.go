package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pendsim/internal/analysis"
	"github.com/san-kum/pendsim/internal/export"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/storage"
	"github.com/san-kum/pendsim/internal/viz"
	"github.com/spf13/cobra"
)

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
	fmt.Fprintln(w, "ID\tTIME\tMETHOD\tθ0\tμ\tDT\tDURATION\tSAMPLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%.3f\t%.4fs\t%.2fs\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Method,
			run.Initial.Angle,
			run.Params.Damping,
			run.Integration.TimeStep,
			run.Integration.Duration,
			run.Samples,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(meta.ID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Println(viz.HeaderStyle.Render("run " + meta.ID))
	fmt.Println(viz.Field("samples", "%d", len(states)))
	fmt.Println()

	pend := physics.NewPendulum(meta.Params)
	angles := make([]float64, len(states))
	energy := make([]float64, len(states))
	for i, x := range states {
		angles[i] = x[0]
		if len(x) > 1 {
			energy[i] = pend.Energy(x)
		}
	}

	series := []struct {
		data    []float64
		caption string
	}{
		{angles, "theta (rad)"},
		{energy, "energy per unit mass (J/kg)"},
	}
	for _, s := range series {
		if !finite(s.data) {
			fmt.Println(viz.Subtle.Render(s.caption + ": diverged, not plotted"))
			continue
		}
		fmt.Println(asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		))
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	traj, meta, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if traj.Len() < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Println(viz.HeaderStyle.Render("analysis: " + meta.ID))

	ps := analysis.PowerSpectrum(traj.Angles())
	if finite(ps) && len(ps) > 4 {
		fmt.Println(asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (theta)"),
		))
		fmt.Println()
	}

	s := analysis.Summarize(traj)
	pend := physics.NewPendulum(meta.Params)
	fmt.Println(viz.Field("small-angle T", "%.4f s", pend.SmallAnglePeriod()))
	fmt.Println(viz.Field("crossing T", "%s", orDash(s.CrossingPeriod, "%.4f s")))
	fmt.Println(viz.Field("spectral T", "%s", orDash(s.SpectralPeriod, "%.4f s")))
	fmt.Println(viz.Field("peaks", "%d", s.Peaks))
	fmt.Println(viz.Field("decay rate", "%s", orDash(s.DecayRate, "%.4f 1/s")))
	fmt.Println(viz.Field("expected decay", "%.4f 1/s", meta.Params.Damping/2))
	if s.Growths > 0 {
		fmt.Println(viz.ErrorStyle.Render(fmt.Sprintf("envelope grew %d times", s.Growths)))
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	w, h, err := parseSize(svgSize)
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(meta.ID)
	if err != nil {
		return err
	}
	return export.PlotRun(os.Stdout, plotKind, states, times, meta.Params.Length, w, h)
}

func previewRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	result, err := simulate(cfg)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("pendulum  L=%.2f μ=%.2f θ0=%.3f (%s)",
		cfg.Physics.Length, cfg.Physics.Damping, cfg.Initial.Theta, cfg.Integration.Method)
	player := viz.NewPlayer(result.Trajectory(), cfg.Physics.Length, cfg.Render.FPS, title)

	p := tea.NewProgram(player, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func finite(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func orDash(v float64, format string) string {
	if v == 0 || math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf(format, v)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
