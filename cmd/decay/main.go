package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/san-kum/decay/internal/automation"
	"github.com/san-kum/decay/internal/config"
	"github.com/san-kum/decay/internal/experiment"
	"github.com/san-kum/decay/internal/export"
	"github.com/san-kum/decay/internal/integrators"
	"github.com/san-kum/decay/internal/metrics"
	"github.com/san-kum/decay/internal/storage"
	"github.com/san-kum/decay/internal/tui"
	"github.com/san-kum/decay/internal/viz"
	"github.com/spf13/cobra"
)

const envFile = ".env"

var (
	configFile  string
	preset      string
	initial     float64
	rate        float64
	endTime     float64
	dt          float64
	imgDir      string
	dataDir     string
	noPlot      bool
	save        bool
	metricsFile string
	// sweep and live
	thetas    []float64
	liveTheta float64
)

var logger = log.New(os.Stderr, "decay: ", 0)

// main runs the demos named on the command line and exits with status 1 if
// the command returns an error.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "decay [scheme...]",
		Short: "finite difference schemes for u' = -a*u",
		Long: "Solves u' = -a*u, u(0) = I with the theta-rule and prints the mesh function.\n" +
			"Schemes: forward_euler, backward_euler, crank_nicolson, unifying (all when none given).",
		Args: cobra.ArbitraryArgs,
		RunE: runDemos,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Float64Var(&initial, "I", config.DefaultI, "initial value u(0)")
	pf.Float64Var(&rate, "a", config.DefaultA, "decay rate")
	pf.Float64Var(&endTime, "T", config.DefaultT, "end time")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "time step")
	pf.StringVar(&imgDir, "img-dir", config.DefaultImgDir, "plot output directory")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.BoolVar(&noPlot, "no-plot", false, "skip writing plot files")
	pf.BoolVar(&save, "save", false, "save runs to the data directory")
	pf.StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this file")

	runCmd := &cobra.Command{
		Use:   "run [scheme...]",
		Short: "run demos",
		Args:  cobra.ArbitraryArgs,
		RunE:  runDemos,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the theta rule for a list of theta values",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64SliceVar(&thetas, "theta", config.DefaultThetas, "theta values")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot a saved run against the exact solution",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			return st.ExportCSV(cmd.OutOrStdout(), args[0])
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			return st.ExportJSON(cmd.OutOrStdout(), args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive theta and dt explorer",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&liveTheta, "theta", integrators.ThetaCrankNicolson, "initial theta")

	rootCmd.AddCommand(runCmd, sweepCmd, scenarioCmd, listCmd, showCmd, exportCSVCmd, exportJSONCmd, presetsCmd, liveCmd)
	return rootCmd
}

// loadConfig layers the preset, the config file, the environment and the
// flags that were set explicitly, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(envFile); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("I") {
		cfg.Problem.I = initial
	}
	if flags.Changed("a") {
		cfg.Problem.A = rate
	}
	if flags.Changed("T") {
		cfg.Problem.T = endTime
	}
	if flags.Changed("dt") {
		cfg.Problem.Dt = dt
	}
	if flags.Changed("img-dir") {
		cfg.Output.ImgDir = imgDir
	}
	if flags.Changed("data") {
		cfg.Output.DataDir = dataDir
	}
	if flags.Changed("no-plot") {
		cfg.Output.Plot = !noPlot
	}
	if flags.Changed("save") {
		cfg.Output.Save = save
	}

	return cfg, nil
}

// outputs collects the sinks a run writes to and finishes them afterwards.
type outputs struct {
	sinks    []experiment.Sink
	plots    *export.PlotSink
	store    *storage.Sink
	recorder *metrics.Recorder
}

func newOutputs(w io.Writer, cfg *config.Config) (*outputs, error) {
	o := &outputs{sinks: []experiment.Sink{viz.NewTableSink(w)}}

	if cfg.Output.Plot {
		o.plots = export.NewPlotSink(cfg.Output.ImgDir)
		o.sinks = append(o.sinks, o.plots)
	}
	if cfg.Output.Save {
		st := storage.New(cfg.Output.DataDir)
		if err := st.Init(); err != nil {
			return nil, err
		}
		o.store = st.Sink()
		o.sinks = append(o.sinks, o.store)
	}
	if metricsFile != "" {
		o.recorder = metrics.NewRecorder()
		o.sinks = append(o.sinks, o.recorder)
	}
	return o, nil
}

func (o *outputs) finish() error {
	if o.plots != nil {
		for _, path := range o.plots.Written() {
			logger.Printf("plot written to %s", path)
		}
	}
	if o.store != nil {
		for _, id := range o.store.IDs() {
			logger.Printf("run saved: %s", id)
		}
	}
	if o.recorder != nil {
		if err := o.recorder.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// runFramed runs each demo between the banner and footer lines.
func runFramed(cmd *cobra.Command, cfg *config.Config, demos []experiment.Demo) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	o, err := newOutputs(out, cfg)
	if err != nil {
		return err
	}

	exp := experiment.New(experiment.Config{
		Problem: cfg.MeshSpec(0),
		Thetas:  cfg.Thetas,
	})
	if err := exp.Setup(integrators.Solve, o.sinks...); err != nil {
		return err
	}

	for _, demo := range demos {
		if err := viz.Banner(out, demo.Name); err != nil {
			return err
		}
		if _, err := exp.Run(cmd.Context(), demo); err != nil {
			return err
		}
		if err := viz.Footer(out); err != nil {
			return err
		}
	}

	return o.finish()
}

func runDemos(cmd *cobra.Command, args []string) error {
	demos, err := experiment.NewRegistry().Resolve(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return runFramed(cmd, cfg, demos)
}

func runSweep(cmd *cobra.Command, args []string) error {
	demo, err := experiment.NewRegistry().Get(experiment.Unifying)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("theta") {
		cfg.Thetas = append([]float64(nil), thetas...)
	}
	return runFramed(cmd, cfg, []experiment.Demo{demo})
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	runner := &automation.Runner{
		Registry: experiment.NewRegistry(),
		Solve:    integrators.Solve,
		Base:     cfg.MeshSpec(0),
		Thetas:   cfg.Thetas,
		Progress: cmd.ErrOrStderr(),
	}
	if _, err := runner.Check(scenario); err != nil {
		return err
	}

	o, err := newOutputs(cmd.OutOrStdout(), cfg)
	if err != nil {
		return err
	}
	if scenario.Description != "" {
		logger.Printf("%s: %s", scenario.Name, scenario.Description)
	}
	if _, err := runner.Run(cmd.Context(), scenario, o.sinks...); err != nil {
		return err
	}
	return o.finish()
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.Output.DataDir), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCHEME\tTIME\tTHETA\tI\tA\tT\tDT\tNT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%g\t%g\t%g\t%d\n",
			run.ID,
			run.Scheme,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Spec.Theta,
			run.Spec.I,
			run.Spec.A,
			run.Spec.T,
			run.Spec.Dt,
			run.Steps,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	mesh, err := st.LoadMesh(runID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "scheme: %s (theta=%g)\n", meta.Scheme, meta.Spec.Theta)
	fmt.Fprintf(out, "points: %d\n\n", mesh.Len())

	fmt.Fprintln(out, viz.Overlay(mesh, 80, 12, viz.Caption(meta.Title, meta.Spec.Dt)))
	fmt.Fprintln(out)
	return viz.WriteTable(out, mesh)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tI\tA\tT\tDT\tTHETAS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%v\n",
			name, p.Problem.I, p.Problem.A, p.Problem.T, p.Problem.Dt, p.Thetas)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	spec := cfg.MeshSpec(liveTheta)
	if err := spec.Validate(); err != nil {
		return err
	}
	return tui.Run(spec)
}
