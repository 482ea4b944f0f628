package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/coe/internal/batch"
	"github.com/san-kum/coe/internal/config"
	"github.com/san-kum/coe/internal/export"
	"github.com/san-kum/coe/internal/orbit"
	"github.com/san-kum/coe/internal/storage"
	"github.com/san-kum/coe/internal/viz"
)

// Output formats for compute and vector.
const (
	FormatTable = "table"
	FormatPlain = "plain"
	FormatYAML  = export.FormatYAML
	FormatJSON  = export.FormatJSON
)

var validFormats = []string{FormatTable, FormatPlain, FormatYAML, FormatJSON}

type options struct {
	dataDir string
	verbose bool
	theme   string
	logger  *slog.Logger

	strict  bool
	skipBad bool
	format  string
	output  string
	workers int
	save    bool
	plot    bool
	metrics bool

	r    []float64
	v    []float64
	mu   float64
	body string

	force bool
}

func main() {
	opts := &options{}
	rootCmd := newRootCmd(opts)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		reportError(os.Stderr, err, opts.verbose)
		os.Exit(exitCode(err))
	}
}

// newRootCmd registers every sub-command on a fresh options value.
func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "coe",
		Short:         "classical orbital elements from state vectors",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return commandError(err)
	})

	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data", ".coe", "data directory for saved runs")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "full diagnostics and debug logs")
	rootCmd.PersistentFlags().StringVar(&opts.theme, "theme", viz.ThemeOcean.Name, "table theme ("+strings.Join(viz.ThemeNames(), "|")+")")

	computeCmd := &cobra.Command{
		Use:   "compute [file]",
		Short: "compute elements for every case in a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(cmd, opts, args)
		},
	}
	computeCmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on undefined elements")
	computeCmd.Flags().BoolVar(&opts.skipBad, "skip-bad", false, "continue past bad cases")
	computeCmd.Flags().StringVar(&opts.format, "format", FormatTable, "output format ("+strings.Join(validFormats, "|")+")")
	computeCmd.Flags().StringVarP(&opts.output, "output", "o", "", "also write yaml/json to this file")
	computeCmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel workers (0 = cpu count)")
	computeCmd.Flags().BoolVar(&opts.save, "save", false, "save the run under --data")
	computeCmd.Flags().BoolVar(&opts.plot, "plot", false, "plot radius vs true anomaly")
	computeCmd.Flags().BoolVar(&opts.metrics, "metrics", false, "print prometheus metrics to stderr")

	vectorCmd := &cobra.Command{
		Use:   "vector",
		Short: "compute elements for one state vector given on the command line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVector(cmd, opts)
		},
	}
	vectorCmd.Flags().Float64SliceVar(&opts.r, "r", nil, "position x,y,z (km)")
	vectorCmd.Flags().Float64SliceVar(&opts.v, "v", nil, "velocity x,y,z (km/s)")
	vectorCmd.Flags().Float64Var(&opts.mu, "mu", 0, "gravitational parameter (km^3/s^2)")
	vectorCmd.Flags().StringVar(&opts.body, "body", config.DefaultBody, "central body")
	vectorCmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on undefined elements")
	vectorCmd.Flags().StringVar(&opts.format, "format", FormatTable, "output format ("+strings.Join(validFormats, "|")+")")
	vectorCmd.Flags().BoolVar(&opts.plot, "plot", false, "plot radius vs true anomaly")

	checkCmd := &cobra.Command{
		Use:   "check [file]",
		Short: "compare computed elements with expected values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}
	checkCmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel workers (0 = cpu count)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(cmd, opts)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRun(cmd, opts, args[0])
		},
	}

	bodiesCmd := &cobra.Command{
		Use:   "bodies",
		Short: "list central bodies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "BODY\tMU (km^3/s^2)\tRADIUS (km)")
			for _, name := range config.ListBodies() {
				b := config.Bodies[name]
				fmt.Fprintf(w, "%s\t%g\t%g\n", b.Name, b.Mu, b.Radius)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "write a template case file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !opts.force {
				return commandError(fmt.Errorf("%s already exists (use --force)", path))
			}
			if err := config.Save(path, config.DefaultFile()); err != nil {
				return commandError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing file")

	rootCmd.AddCommand(computeCmd, vectorCmd, checkCmd, listCmd, showCmd, bodiesCmd, initCmd)
	return rootCmd
}

func validateFormat(format string) error {
	for _, f := range validFormats {
		if f == format {
			return nil
		}
	}
	return commandError(fmt.Errorf("invalid format %q: must be one of %v", format, validFormats))
}

func newRunner(opts *options, policy batch.Policy) *batch.Runner {
	r := batch.New(opts.workers, policy)
	r.Strict = opts.strict
	r.Logger = opts.logger
	return r
}

func runCompute(cmd *cobra.Command, opts *options, args []string) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}
	path := config.DefaultPath
	if len(args) > 0 {
		path = args[0]
	}

	f, err := config.Load(path)
	if err != nil {
		return err
	}
	cases, err := f.Resolve()
	if err != nil {
		return commandError(err)
	}
	opts.logger.Debug("loaded cases", "path", path, "count", len(cases))

	policy := batch.FailFast
	if opts.skipBad {
		policy = batch.SkipBad
	}
	runner := newRunner(opts, policy)
	if opts.metrics {
		runner.Metrics = batch.NewMetrics()
		defer writeMetrics(cmd.ErrOrStderr(), runner.Metrics, opts.logger)
	}

	outcomes, err := runner.Run(cmd.Context(), cases)
	if err != nil {
		return err
	}
	records := export.FromOutcomes(outcomes)

	if err := render(cmd.OutOrStdout(), opts, outcomes, records); err != nil {
		return err
	}

	if opts.output != "" {
		if err := export.WriteFile(opts.output, records); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "elements saved to %s\n", opts.output)
	}

	if opts.save {
		st := storage.New(opts.dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(path, opts.strict, policy.String(), records)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved run %s\n", runID)
	}

	if failed := batch.Failures(outcomes); len(failed) > 0 {
		opts.logger.Warn("bad cases skipped", "failed", len(failed), "total", len(outcomes))
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d cases failed\n", len(failed), len(outcomes))
	}
	return nil
}

// writeMetrics dumps the exposition text; a failed write is logged, not
// returned, so it never masks the command result.
func writeMetrics(w io.Writer, m *batch.Metrics, logger *slog.Logger) {
	if err := m.WriteText(w); err != nil {
		logger.Error("cannot write metrics", "err", err)
	}
}

func runVector(cmd *cobra.Command, opts *options) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}
	if !cmd.Flags().Changed("r") || !cmd.Flags().Changed("v") {
		return commandError(fmt.Errorf("both --r and --v are required"))
	}

	mu := opts.mu
	if !cmd.Flags().Changed("mu") {
		b, ok := config.GetBody(opts.body)
		if !ok {
			return commandError(fmt.Errorf("unknown body %q (see coe bodies)", opts.body))
		}
		mu = b.Mu
	}

	c := config.Resolved{Name: "state vector", R: opts.r, V: opts.v, Mu: mu}
	runner := newRunner(opts, batch.FailFast)
	el, err := runner.Compute(c)
	if err != nil {
		return err
	}

	outcomes := []batch.Outcome{{Case: c, Elements: el}}
	return render(cmd.OutOrStdout(), opts, outcomes, export.FromOutcomes(outcomes))
}

func render(w io.Writer, opts *options, outcomes []batch.Outcome, records []export.Record) error {
	switch opts.format {
	case FormatYAML, FormatJSON:
		return export.Write(w, opts.format, records)
	}

	theme := viz.GetTheme(opts.theme)
	for i, o := range outcomes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		switch {
		case o.Skipped:
			continue
		case o.Err != nil && opts.format == FormatPlain:
			fmt.Fprintf(w, "%s\nerror: %s\n", o.Case.Name, friendly(o.Err))
		case o.Err != nil:
			fmt.Fprintln(w, viz.RenderError(o.Case.Name, o.Err, theme))
		case opts.format == FormatPlain:
			fmt.Fprint(w, viz.RenderPlain(o.Case.Name, o.Elements))
		default:
			fmt.Fprintln(w, viz.RenderTable(o.Case.Name, o.Elements, theme))
		}

		if opts.plot && o.OK() {
			radius := 0.0
			if b, ok := config.BodyForMu(o.Case.Mu); ok {
				radius = b.Radius
			}
			graph, err := viz.PlotConic(o.Elements, o.Case.Mu, radius, 72, 12)
			if err != nil {
				opts.logger.Warn("cannot plot", "case", o.Case.Name, "err", err)
				continue
			}
			fmt.Fprintf(w, "\n%s\n", graph)
		}
	}
	return nil
}

func runCheck(cmd *cobra.Command, opts *options, args []string) error {
	path := config.DefaultPath
	if len(args) > 0 {
		path = args[0]
	}
	f, err := config.Load(path)
	if err != nil {
		return err
	}
	cases, err := f.Resolve()
	if err != nil {
		return commandError(err)
	}

	outcomes, err := newRunner(opts, batch.SkipBad).Run(cmd.Context(), cases)
	if err != nil {
		return err
	}

	s := viz.NewStyles(viz.GetTheme(opts.theme))
	w := cmd.OutOrStdout()
	failed := 0
	for _, o := range outcomes {
		fmt.Fprintf(w, "Running test: %s...\n", o.Case.Name)
		if o.Err != nil {
			failed++
			fmt.Fprintf(w, " %s\n    %s\n", s.Fail.Render("FAIL"), friendly(o.Err))
			continue
		}
		mismatches := batch.Check(o)
		if len(mismatches) == 0 {
			fmt.Fprintf(w, " %s\n", s.Pass.Render("PASS"))
			continue
		}
		failed++
		fmt.Fprintf(w, " %s\n", s.Fail.Render("FAIL"))
		for _, m := range mismatches {
			fmt.Fprintf(w, "    %s\n", m)
		}
	}

	if failed > 0 {
		fmt.Fprintln(w, "\nSome tests failed. Please review the error messages.")
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("%d of %d checks failed", failed, len(outcomes))}
	}
	fmt.Fprintln(w, "\nAll tests passed successfully!")
	return nil
}

func listRuns(cmd *cobra.Command, opts *options) error {
	st := storage.New(opts.dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tCASES\tFAILED\tSTRICT\tPOLICY")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%t\t%s\n",
			r.ID, r.Source, r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Cases, r.Failures, r.Strict, r.Policy)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, opts *options, runID string) error {
	st := storage.New(opts.dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return commandError(err)
	}
	rows, err := st.LoadRows(runID)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "run: %s\n", meta.ID)
	fmt.Fprintf(w, "source: %s\n", meta.Source)
	fmt.Fprintf(w, "cases: %d (%d failed)\n\n", meta.Cases, meta.Failures)

	theme := viz.GetTheme(opts.theme)
	for _, row := range rows {
		if row.Error != "" {
			fmt.Fprintln(w, viz.RenderError(row.Name, fmt.Errorf("%s", row.Error), theme))
			continue
		}
		fmt.Fprintln(w, viz.RenderTable(row.Name, orbit.ElementsFromMap(row.Values), theme))
	}
	return nil
}
