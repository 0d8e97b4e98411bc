package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"circa/internal/diag"
	"circa/internal/diagfmt"
	"circa/internal/observ"
	"circa/internal/source"
)

// abortError marks a run that failed because of diagnostics.
type abortError struct{ count int }

func (e *abortError) Error() string {
	if e.count == 1 {
		return "Aborting due to 1 previous error"
	}
	return fmt.Sprintf("Aborting due to %d previous errors", e.count)
}

type outputOpts struct {
	format    string
	color     bool
	maxDiags  int
	withNotes bool
	pathMode  diagfmt.PathMode
	timings   bool
}

func readColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(colorFlag) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}

// readOutputOpts collects the persistent output flags plus the per-command
// --format/--with-notes/--path-mode flags when the command defines them.
func readOutputOpts(cmd *cobra.Command, out *os.File) (outputOpts, error) {
	var opts outputOpts
	var err error
	if opts.color, err = readColor(cmd, out); err != nil {
		return opts, err
	}
	if opts.maxDiags, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	opts.format = "pretty"
	if cmd.Flags().Lookup("format") != nil {
		if opts.format, err = cmd.Flags().GetString("format"); err != nil {
			return opts, fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	opts.withNotes = true
	if cmd.Flags().Lookup("with-notes") != nil {
		if opts.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
			return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
		}
	}
	if cmd.Flags().Lookup("path-mode") != nil {
		mode, err := cmd.Flags().GetString("path-mode")
		if err != nil {
			return opts, fmt.Errorf("failed to get path-mode flag: %w", err)
		}
		var ok bool
		if opts.pathMode, ok = diagfmt.ParsePathMode(mode); !ok {
			return opts, fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", mode)
		}
	} else {
		opts.pathMode = diagfmt.PathModeRelative
	}
	return opts, nil
}

// renderDiagnostics prints bag in the chosen format and returns the
// abortError for a non-empty bag.
func renderDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts outputOpts) error {
	report := bag.Finish()
	switch opts.format {
	case "pretty":
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     opts.color,
			PathMode:  opts.pathMode,
			Max:       opts.maxDiags,
			ShowNotes: opts.withNotes,
		})
	case "short":
		diagfmt.Short(w, bag, fs, opts.maxDiags, opts.withNotes)
	case "json":
		if err := diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			Max:              opts.maxDiags,
			IncludeNotes:     opts.withNotes,
		}); err != nil {
			return fmt.Errorf("encode diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", opts.format)
	}
	if !report.Failed() {
		return nil
	}
	aborted := &abortError{count: report.Count}
	if opts.format != "json" {
		if opts.format == "pretty" {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, aborted.Error())
	}
	return aborted
}

func printTimings(w io.Writer, timer *observ.Timer, opts outputOpts) {
	if opts.timings {
		fmt.Fprint(w, timer.Summary())
	}
}
