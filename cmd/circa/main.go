package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"circa/internal/prof"
	"circa/internal/version"
)

// cli is one command tree plus the tracing state its commands share.
type cli struct {
	root     *cobra.Command
	cleanup  func(failed bool)
	profiler *prof.Profiler
}

// newCLI builds the command tree; tests build a fresh one per run.
func newCLI() *cli {
	c := &cli{}
	root := &cobra.Command{
		Use:           "circa",
		Short:         "Front-end checker for the circa circuit language",
		Long:          `circa parses, resolves and type-checks circuit programs and reports every problem it finds`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show (0 = all)")
	pf.Bool("timings", false, "show timing information")
	pf.String("trace", "", "trace output file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept by --trace-mode ring")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		var err error
		if c.cleanup, err = setupTracing(cmd); err != nil {
			return err
		}
		c.profiler, err = setupProfiling(cmd)
		return err
	}

	root.AddCommand(newCheckCmd(), newParseCmd(), newTokenizeCmd(), newWatchCmd(), newVersionCmd())
	c.root = root
	return c
}

// execute runs args and flushes tracing; a ring trace is dumped only when
// the command failed.
func (c *cli) execute(args []string) error {
	c.root.SetArgs(args)
	err := c.root.Execute()
	if perr := c.profiler.Stop(); perr != nil {
		fmt.Fprintf(c.root.ErrOrStderr(), "profile: %v\n", perr)
	}
	if c.cleanup != nil {
		c.cleanup(err != nil)
	}
	return err
}

// main runs the CLI. A run that reported diagnostics has already printed
// them and exits with status 1 without further output.
func main() {
	if err := newCLI().execute(os.Args[1:]); err != nil {
		var aborted *abortError
		if !errors.As(err, &aborted) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func setupProfiling(cmd *cobra.Command) (*prof.Profiler, error) {
	pf := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPUPath, err = pf.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if cfg.MemPath, err = pf.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if cfg.TracePath, err = pf.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !cfg.Enabled() {
		return nil, nil
	}
	return prof.Start(cfg)
}
