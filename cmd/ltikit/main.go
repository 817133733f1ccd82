package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-logr/logr"
	"github.com/san-kum/ltikit/internal/analysis"
	"github.com/san-kum/ltikit/internal/automation"
	"github.com/san-kum/ltikit/internal/config"
	"github.com/san-kum/ltikit/internal/discretize"
	"github.com/san-kum/ltikit/internal/experiment"
	"github.com/san-kum/ltikit/internal/logging"
	"github.com/san-kum/ltikit/internal/lti"
	"github.com/san-kum/ltikit/internal/models"
	"github.com/san-kum/ltikit/internal/optim"
	"github.com/san-kum/ltikit/internal/sim"
	"github.com/san-kum/ltikit/internal/storage"
	"github.com/san-kum/ltikit/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	devLog   bool
	theme    string

	samplePeriod  float64
	duration      float64
	method        string
	input         string
	seed          int64
	aliasingCoeff float64
	modelParams   map[string]string
	inputParams   map[string]string
	initState     []float64

	configFile string
	preset     string

	analyzeTs    float64
	stepDuration float64
	impulse      bool
	every        int
	outPath      string
	channel      int
	noSave       bool

	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int

	grid   map[string]string
	metric string

	log = logr.Discard()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "ltikit",
		Short:         "linear time-invariant state-space toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel, devLog)
			if err != nil {
				return err
			}
			log = l
			viz.SetTheme(theme)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ltikit", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error) or logr verbosity")
	rootCmd.PersistentFlags().BoolVar(&devLog, "dev-log", false, "human readable development logging")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "default", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list built-in models",
		Args:  cobra.NoArgs,
		RunE:  listModels,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				cfg := config.GetPreset(args[0], p)
				fmt.Printf("  %-12s input=%s method=%s Ts=%gs duration=%gs\n", p, cfg.Input, cfg.Method, cfg.SamplePeriod, cfg.Duration)
			}
			return nil
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [model]",
		Short: "stability, controllability, observability and transfer function of a model",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeModel,
	}
	addModelFlags(analyzeCmd)
	analyzeCmd.Flags().Float64Var(&analyzeTs, "ts", 0, "sample period (0 keeps the model continuous)")

	discretizeCmd := &cobra.Command{
		Use:   "discretize [model]",
		Short: "print the continuous and discrete matrices of a model",
		Args:  cobra.ExactArgs(1),
		RunE:  discretizeModel,
	}
	addModelFlags(discretizeCmd)
	discretizeCmd.Flags().Float64Var(&samplePeriod, "ts", config.DefaultSamplePeriod, "sample period")
	discretizeCmd.Flags().StringVar(&method, "method", config.DefaultMethod, "discretization method")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run simulation and store the trace",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [model] [method1] [method2] ...",
		Short: "compare discretization methods on the same model",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareMethods,
	}
	addRunFlags(compareCmd)

	stepCmd := &cobra.Command{
		Use:   "step [model]",
		Short: "step or impulse response table",
		Args:  cobra.ExactArgs(1),
		RunE:  stepResponse,
	}
	addModelFlags(stepCmd)
	stepCmd.Flags().Float64Var(&samplePeriod, "ts", config.DefaultSamplePeriod, "sample period")
	stepCmd.Flags().Float64Var(&stepDuration, "time", 5, "duration")
	stepCmd.Flags().BoolVar(&impulse, "impulse", false, "impulse instead of step")
	stepCmd.Flags().IntVar(&every, "every", 10, "print every n-th sample")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "frequency analysis of a stored output",
		Args:  cobra.ExactArgs(1),
		RunE:  spectrumRun,
	}
	spectrumCmd.Flags().IntVar(&channel, "channel", 0, "output channel")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "vary one model parameter and report stability and metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "sweep", "", "model parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	_ = sweepCmd.MarkFlagRequired("sweep")

	tuneCmd := &cobra.Command{
		Use:   "tune [model]",
		Short: "grid search model or input parameters minimising a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  runTune,
	}
	addRunFlags(tuneCmd)
	tuneCmd.Flags().StringToStringVar(&grid, "grid", nil, "parameter grid, e.g. input.kp=1:2:4 (model.* or input.*)")
	tuneCmd.Flags().StringVar(&metric, "metric", "output_energy", "metric to minimise")
	_ = tuneCmd.MarkFlagRequired("grid")

	rootCmd.AddCommand(modelsCmd, presetsCmd, analyzeCmd, discretizeCmd, runCmd, compareCmd, stepCmd, listCmd, exportJSONCmd, exportCSVCmd, spectrumCmd, scenarioCmd, sweepCmd, tuneCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringToStringVarP(&modelParams, "param", "p", nil, "model parameter name=value")
	cmd.Flags().Float64Var(&aliasingCoeff, "aliasing-coeff", 0, "aliasing guard coefficient (0 uses the default)")
}

func addRunFlags(cmd *cobra.Command) {
	addModelFlags(cmd)
	cmd.Flags().Float64Var(&samplePeriod, "ts", config.DefaultSamplePeriod, "sample period")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&method, "method", config.DefaultMethod, "discretization method ("+joinMethods()+")")
	cmd.Flags().StringVar(&input, "input", config.DefaultInput, "input source")
	cmd.Flags().StringToStringVar(&inputParams, "input-param", nil, "input parameter name=value")
	cmd.Flags().Float64SliceVar(&initState, "x0", nil, "initial state")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func joinMethods() string {
	names := make([]string, 0)
	for _, m := range discretize.Methods() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

func parseParams(raw map[string]string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", k, err)
		}
		out[k] = f
	}
	return out, nil
}

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if loaded.Model != model {
			return nil, fmt.Errorf("config file is for model %s, not %s", loaded.Model, model)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("ts") || (preset == "" && configFile == "") {
		cfg.SamplePeriod = samplePeriod
	}
	if flags.Changed("time") || (preset == "" && configFile == "") {
		cfg.Duration = duration
	}
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("input") {
		cfg.Input = input
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if flags.Changed("aliasing-coeff") {
		cfg.AliasingCoeff = aliasingCoeff
	}
	if flags.Changed("x0") {
		cfg.InitState = initState
	}

	params, err := parseParams(modelParams)
	if err != nil {
		return nil, err
	}
	cfg.Params = merge(cfg.Params, params)

	ip, err := parseParams(inputParams)
	if err != nil {
		return nil, err
	}
	cfg.InputParams = merge(cfg.InputParams, ip)

	return cfg, cfg.Validate()
}

func merge(base, over map[string]float64) map[string]float64 {
	if len(over) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]float64, len(over))
	}
	for k, v := range over {
		base[k] = v
	}
	return base
}

// buildModel builds the named model with --param applied. ts > 0
// discretizes it with m.
func buildModel(name string, ts float64, m discretize.Method) (*lti.StateSpace, error) {
	params, err := parseParams(modelParams)
	if err != nil {
		return nil, err
	}
	model, err := experiment.NewRegistry().GetModel(name, params)
	if err != nil {
		return nil, err
	}

	opts := []lti.Option{lti.WithMethod(m), lti.WithLogger(log.WithValues("model", name))}
	if aliasingCoeff > 0 {
		opts = append(opts, lti.WithAliasingCoeff(aliasingCoeff))
	}
	if ts > 0 {
		opts = append(opts, lti.WithSamplePeriod(ts))
	}
	return models.Build(model, opts...)
}

func listModels(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tORDER\tIN\tOUT\tSTABLE\tMAX TS\tPARAMS")

	for _, name := range registry.ListModels() {
		m, err := registry.GetModel(name, nil)
		if err != nil {
			return err
		}
		sys, err := models.Build(m)
		if err != nil {
			return err
		}

		limit := "∞"
		if th := sys.AliasingThreshold(); !math.IsInf(th, 1) {
			limit = fmt.Sprintf("%.4gs", th)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%t\t%s\t%s\n",
			name, sys.Order(), sys.Inputs(), sys.Outputs(), sys.IsStable(), limit, formatParams(m.GetParams()))
	}

	if err := w.Flush(); err != nil {
		return err
	}
	methods := make([]string, 0)
	for _, m := range registry.ListMethods() {
		name := string(m)
		if !discretize.Implemented(m) {
			name += " (not implemented)"
		}
		methods = append(methods, name)
	}
	fmt.Printf("\ninputs: %s\nmethods: %s\n", strings.Join(registry.ListInputs(), ", "), strings.Join(methods, ", "))
	return nil
}

func formatParams(params map[string]float64) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%g", name, params[name])
	}
	return strings.Join(parts, " ")
}

func analyzeModel(cmd *cobra.Command, args []string) error {
	sys, err := buildModel(args[0], analyzeTs, discretize.ZOH)
	if err != nil {
		return err
	}
	fmt.Println(viz.RenderReport(args[0], analysis.Analyze(sys)))
	return nil
}

func discretizeModel(cmd *cobra.Command, args []string) error {
	m, err := discretize.ParseMethod(method)
	if err != nil {
		return err
	}
	sys, err := buildModel(args[0], samplePeriod, m)
	if err != nil {
		return err
	}
	fmt.Println(viz.RenderModel(args[0], sys))
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry(), log)
	if err := exp.Setup(); err != nil {
		return err
	}

	fmt.Printf("running %s (%s, Ts=%gs, input=%s)...\n", cfg.Model, cfg.Method, cfg.SamplePeriod, cfg.Input)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(exp.Metadata(result), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	fmt.Println(viz.RenderMetrics(result.Metrics))

	return nil
}

func compareMethods(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	methods := make([]discretize.Method, 0, len(args)-1)
	for _, name := range args[1:] {
		m, err := discretize.ParseMethod(name)
		if err != nil {
			return err
		}
		methods = append(methods, m)
	}
	registry := experiment.NewRegistry()
	if len(methods) == 0 {
		methods = registry.ListMethods()
	}

	exp := experiment.New(cfg, registry, log)
	results, err := exp.Compare(cmd.Context(), methods)
	if err != nil {
		return err
	}

	fmt.Printf("comparing methods for %s (Ts=%gs, duration=%gs, input=%s)\n\n", cfg.Model, cfg.SamplePeriod, cfg.Duration, cfg.Input)
	fmt.Print(viz.RenderComparison(results))
	return nil
}

func stepResponse(cmd *cobra.Command, args []string) error {
	sys, err := buildModel(args[0], 0, discretize.ZOH)
	if err != nil {
		return err
	}

	response := sim.StepResponse
	kind := "step"
	if impulse {
		response = sim.ImpulseResponse
		kind = "impulse"
	}

	result, err := response(cmd.Context(), sys, stepDuration, samplePeriod)
	if err != nil {
		return err
	}
	if every < 1 {
		every = 1
	}

	fmt.Printf("%s response of %s (Ts=%gs)\n\n", kind, args[0], result.SamplePeriod)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{"t"}
	for i := 0; i < sys.Outputs(); i++ {
		header = append(header, fmt.Sprintf("y%d", i))
	}
	fmt.Fprintln(w, strings.Join(header, "\t")+"\t")

	for k := 0; k < len(result.Times); k += every {
		row := []string{fmt.Sprintf("%.4f", result.Times[k])}
		for _, v := range result.Outputs[k] {
			row = append(row, fmt.Sprintf("%.6g", v))
		}
		fmt.Fprintln(w, strings.Join(row, "\t")+"\t")
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tTS\tMETHOD\tINPUT\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4gs\t%s\t%s\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.SamplePeriod,
			run.Method,
			run.Input,
			run.Steps,
		)
	}

	return w.Flush()
}

// output returns stdout or the --out file.
func output() (io.WriteCloser, error) {
	if outPath == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outPath)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()

	return storage.ExportJSON(w, *meta, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := storage.New(dataDir).CopyTrace(args[0], w); err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "exported to %s\n", outPath)
	}
	return nil
}

func spectrumRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(result.Outputs) == 0 {
		return fmt.Errorf("no data")
	}
	if channel < 0 || channel >= len(result.Outputs[0]) {
		return fmt.Errorf("channel %d out of range, run has %d outputs", channel, len(result.Outputs[0]))
	}

	data := result.Output(channel)
	freq, power := analysis.DominantFrequency(data, result.SamplePeriod)

	fmt.Printf("frequency analysis: %s (y%d, %d samples, Ts=%gs)\n", args[0], channel, len(data), result.SamplePeriod)
	if freq == 0 {
		fmt.Println("no dominant frequency")
		return nil
	}
	fmt.Printf("dominant frequency: %.4g hz (power %.4g)\n", freq, power)
	fmt.Printf("period: %.4g s\n", 1/freq)

	if rate := analysis.GrowthRate(result.States, result.Times); rate != 0 {
		fmt.Printf("growth rate: %.4g 1/s\n", rate)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	fmt.Printf("scenario %s: %d steps\n", scenario.Name, len(scenario.Steps))
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}
	fmt.Println()

	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), st, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMODEL\tRUN ID\tFINAL y0\tSTATUS")
	for i, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.6g\t%s\n", i+1, r.Model, r.RunID, r.Metrics["final_output"], status)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepFrom,
		ParamMax:  sweepTo,
		NumSteps:  sweepSteps,
	}
	results, err := automation.RunSweep(cmd.Context(), sweep, experiment.NewRegistry(), log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTABLE\tMAX TS\tPEAK y\tFINAL y0\tSTATUS\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%g\t-\t-\t-\t-\t%s\n", r.ParamValue, r.Err)
			continue
		}
		limit := "∞"
		if !math.IsInf(r.AliasingThreshold, 1) {
			limit = fmt.Sprintf("%.4gs", r.AliasingThreshold)
		}
		fmt.Fprintf(w, "%g\t%t\t%s\t%.6g\t%.6g\tok\n",
			r.ParamValue, r.Stable, limit, r.Metrics["peak_output"], r.Metrics["final_output"])
	}
	return w.Flush()
}

// parseGrid reads "name=v1:v2:v3" entries.
func parseGrid(raw map[string]string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	ranges := make([][]float64, len(names))
	for i, name := range names {
		for _, field := range strings.Split(raw[name], ":") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %s: %w", name, err)
			}
			ranges[i] = append(ranges[i], v)
		}
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	start := time.Now()
	best, err := g.Search(cmd.Context(), cfg, experiment.NewRegistry(), metric, log)
	if err != nil {
		return err
	}

	fmt.Printf("searched %d points in %v (%d skipped)\n", best.Evaluated+best.Skipped, time.Since(start), best.Skipped)
	fmt.Printf("best %s: %.6g\n", metric, best.Value)
	fmt.Println(formatParams(best.Params))
	return nil
}
