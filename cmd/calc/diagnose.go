package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"calc/internal/diagfmt"
	"calc/internal/driver"
	"calc/internal/observ"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.calc>...",
	Short: "Compile calc files and report diagnostics",
	Long: `Run diagnostics on one or more calc files. The files share one incremental
session: each is compiled as an edit of the previous text, so unchanged
functions are not checked again.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	diagCmd.Flags().Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	diagCmd.Flags().Int("jobs", 0, "max parallel type-checking workers (0=auto)")
	diagCmd.Flags().Bool("disk-cache", false, "reuse diagnostics of unchanged files across runs")
	diagCmd.Flags().Bool("log-queries", false, "print query engine events after each file (json: per-file \"events\")")
	diagCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

type diagFlags struct {
	format     string
	max        int
	jobs       int
	diskCache  bool
	logQueries bool
	ui         uiMode
	fullPath   bool
	timings    bool
}

func readDiagFlags(cmd *cobra.Command) (diagFlags, error) {
	var (
		f   diagFlags
		err error
	)
	flags := cmd.Flags()
	if f.format, err = flags.GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "short", "json":
	default:
		return f, fmt.Errorf("unknown format %q (expected pretty|short|json)", f.format)
	}
	if f.max, err = flags.GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.diskCache, err = flags.GetBool("disk-cache"); err != nil {
		return f, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	if f.logQueries, err = flags.GetBool("log-queries"); err != nil {
		return f, fmt.Errorf("failed to get log-queries flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	if f.fullPath, err = flags.GetBool("fullpath"); err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if f.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return f, nil
}

// runDiagnose executes the "diag" command: it compiles every file in order,
// prints the diagnostics in the chosen format and fails when any file has an
// error diagnostic.
func runDiagnose(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	f, err := readDiagFlags(cmd)
	if err != nil {
		return err
	}
	errOut := cmd.ErrOrStderr()

	opts := driver.Options{
		MaxDiagnostics: f.max,
		Jobs:           f.jobs,
		LogQueries:     f.logQueries,
	}
	if f.diskCache {
		cache, err := driver.OpenDiskCache("calc")
		if err != nil {
			fmt.Fprintf(errOut, "warning: disk cache disabled: %v\n", err)
		} else {
			opts.DiskCache = cache
		}
	}

	var (
		results []driver.FileResult
		timer   *observ.Timer
	)
	if shouldUseTUI(f.ui, len(args)) {
		results, timer, err = runDiagnoseWithUI(cmd.Context(), "calc diag", args, opts)
	} else {
		results, timer, err = driver.Diagnose(cmd.Context(), args, opts)
	}
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	if err := printResults(cmd.OutOrStdout(), errOut, results, f, color); err != nil {
		return err
	}
	if f.timings && timer != nil {
		fmt.Fprint(errOut, timer.Summary())
	}

	for _, r := range results {
		if r.HasErrors() {
			// Suppress cobra usage output on diagnostic errors
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return errDiagnostics
		}
	}
	return nil
}

func printResults(out, errOut io.Writer, results []driver.FileResult, f diagFlags, color bool) error {
	pathMode := diagfmt.PathModeAuto
	if f.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	if f.format == "json" {
		files := make([]diagfmt.FileJSON, 0, len(results))
		for _, r := range results {
			file := diagfmt.BuildFile(r.Diagnostics, r.Functions, r.File, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         pathMode,
			})
			if f.logQueries {
				for _, ev := range r.Events {
					file.Events = append(file.Events, ev.String())
				}
			}
			files = append(files, file)
		}
		return diagfmt.JSON(out, files)
	}

	opts := diagfmt.PrettyOpts{Color: color, Context: 1, PathMode: pathMode}
	printed := false
	for _, r := range results {
		if f.logQueries {
			for _, ev := range r.Events {
				fmt.Fprintf(errOut, "%s: %s\n", r.Path, ev)
			}
		}
		if len(r.Diagnostics) == 0 {
			continue
		}
		var err error
		if f.format == "short" {
			err = diagfmt.Short(out, r.Diagnostics, r.File, opts)
		} else {
			if printed {
				fmt.Fprintln(out)
			}
			err = diagfmt.Pretty(out, r.Diagnostics, r.File, opts)
		}
		if err != nil {
			return err
		}
		printed = true
	}
	return nil
}
