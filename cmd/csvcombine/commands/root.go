// Package commands implements the CLI commands.
package commands

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/csvcombine/internal/combiner"
	"github.com/satishbabariya/csvcombine/internal/config"
	"github.com/satishbabariya/csvcombine/internal/debug"
	"github.com/satishbabariya/csvcombine/internal/header"
	"github.com/satishbabariya/csvcombine/internal/resolver"
	"github.com/satishbabariya/csvcombine/internal/ui"
	"github.com/satishbabariya/csvcombine/internal/watch"
)

// NewRootCommand creates the root command. The root itself performs the
// combine; subcommands only cover auxiliary things like version info.
func NewRootCommand() *cobra.Command {
	var (
		fixHeaderLines int
		maxHeaderLines int
		verbose        bool
		interactive    bool
		watchMode      bool
	)

	cmd := &cobra.Command{
		Use:   "csvcombine <target_file> <source>...",
		Short: "Combine CSV files that share a common header",
		Long: `Concatenate CSV files sharing a common header into one output file.

The header length is auto-detected by comparing the first two source files
line by line; the header of the first file is written once at the top of the
target and every file's remaining lines are appended after it. Sources may be
shell glob patterns.`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("fix-header-lines") {
				fixHeaderLines = cfg.FixHeaderLines
			}
			if !cmd.Flags().Changed("max-header-lines") {
				maxHeaderLines = cfg.MaxHeaderLines
			}
			if !cmd.Flags().Changed("verbose") {
				verbose = cfg.Verbose
			}
			debug.Init(verbose)

			run := runConfig{
				fs:             config.AppFs,
				target:         args[0],
				patterns:       args[1:],
				fixHeaderLines: fixHeaderLines,
				maxHeaderLines: maxHeaderLines,
				verbose:        verbose,
				interactive:    interactive,
			}

			if err := runCombine(run); err != nil {
				return err
			}
			if watchMode {
				return runWatch(run)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&fixHeaderLines, "fix-header-lines", "n", -1,
		"use exactly N header lines instead of auto-detecting")
	cmd.Flags().IntVar(&maxHeaderLines, "max-header-lines", header.DefaultMaxLines,
		"cap for the header auto-detection scan")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output with per-file progress and mismatch details")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"ask before overwriting an existing target file")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false,
		"re-run the combine whenever a source file changes")

	cmd.AddCommand(NewVersionCommand())

	return cmd
}

type runConfig struct {
	fs             afero.Fs
	target         string
	patterns       []string
	fixHeaderLines int
	maxHeaderLines int
	verbose        bool
	interactive    bool
}

func runCombine(run runConfig) error {
	sources, err := resolver.Resolve(run.fs, run.patterns)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return combiner.NewConfigError(combiner.ErrNoSources, fmt.Sprintf("patterns: %v", run.patterns))
	}
	ui.PrintInfo("%d source files resolved", len(sources))

	if run.interactive {
		ok, err := confirmOverwrite(run.fs, run.target)
		if err != nil {
			return err
		}
		if !ok {
			ui.PrintInfo("aborted, %s left untouched", run.target)
			return nil
		}
	}

	spec, err := buildHeaderSpec(run, sources)
	if err != nil {
		return err
	}

	opts := combiner.Options{}
	if run.verbose {
		bar, err := ui.NewProgressBar(len(sources)).Start("combining")
		if err == nil {
			opts.Progress = func(path string) {
				bar.UpdateTitle(path)
				bar.Increment()
			}
			defer bar.Stop()
		}
	}

	report, err := combiner.Combine(run.fs, run.target, sources, spec, opts)
	if err != nil {
		return err
	}
	printReport(run, report)

	ui.PrintSuccess("combined %d files with %d body lines into %s",
		report.FilesCombined, report.BodyLines, run.target)
	return nil
}

// buildHeaderSpec decides the header-line count (fixed or detected from the
// first two sources) and reads the reference header from the first source.
func buildHeaderSpec(run runConfig, sources []string) (header.Spec, error) {
	count := run.fixHeaderLines
	if count < 0 {
		if len(sources) < 2 {
			return header.Spec{}, combiner.NewConfigError(combiner.ErrTooFewSources,
				"pass --fix-header-lines to combine a single file")
		}
		detected, err := detectHeaderLines(run.fs, sources[0], sources[1], run.maxHeaderLines)
		if err != nil {
			return header.Spec{}, err
		}
		count = detected
		ui.PrintInfo("detected %d header lines comparing %s and %s", count, sources[0], sources[1])
	} else {
		ui.PrintInfo("using fixed header length of %d lines", count)
	}

	first, err := run.fs.Open(sources[0])
	if err != nil {
		return header.Spec{}, fmt.Errorf("cannot read header from %s: %w", sources[0], err)
	}
	defer first.Close()

	spec, err := header.ReadSpec(first, count)
	if err != nil {
		return header.Spec{}, fmt.Errorf("cannot read header from %s: %w", sources[0], err)
	}
	if spec.Count < count {
		debug.Warn("first source shorter than requested header", "want", count, "got", spec.Count)
	}
	return spec, nil
}

func detectHeaderLines(fs afero.Fs, a, b string, max int) (int, error) {
	fa, err := fs.Open(a)
	if err != nil {
		return 0, fmt.Errorf("cannot open %s for header detection: %w", a, err)
	}
	defer fa.Close()

	fb, err := fs.Open(b)
	if err != nil {
		return 0, fmt.Errorf("cannot open %s for header detection: %w", b, err)
	}
	defer fb.Close()

	return header.Detect(fa, fb, max)
}

func confirmOverwrite(fs afero.Fs, target string) (bool, error) {
	if _, err := fs.Stat(target); err != nil {
		return true, nil
	}
	ok := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s already exists. Overwrite?", target),
		Default: true,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

func printReport(run runConfig, report *combiner.Report) {
	for _, skip := range report.Skipped {
		if skip.LinesWritten > 0 {
			ui.PrintWarning("skipped rest of %s after %d body lines: %v", skip.Path, skip.LinesWritten, skip.Cause)
		} else {
			ui.PrintWarning("skipped %s: %v", skip.Path, skip.Cause)
		}
	}
	for _, m := range report.Mismatches {
		ui.PrintMismatch(m.Path, m.Line, m.Expected, m.Actual)
	}
	if run.verbose && len(report.Mismatches) > 0 {
		rows := make([][]string, 0, len(report.Mismatches))
		for _, m := range report.Mismatches {
			rows = append(rows, []string{m.Path, strconv.Itoa(m.Line), m.Expected, m.Actual})
		}
		ui.PrintTable([]string{"File", "Line", "Expected", "Actual"}, rows)
	}
}

// runWatch blocks, re-running the combine when a file covered by the source
// patterns changes or appears. Each re-run resolves the patterns afresh, so
// the watcher matches on patterns rather than a frozen file list.
func runWatch(run runConfig) error {
	// Overwrite confirmation only applies to the first run.
	run.interactive = false

	w, err := watch.NewWatcher(run.patterns, run.target, func() error {
		if err := runCombine(run); err != nil {
			ui.PrintError("%v", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	ui.PrintInfo("watching %d source patterns, press Ctrl-C to stop", len(run.patterns))
	w.Start()
	return nil
}
