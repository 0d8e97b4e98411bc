package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"circa/internal/driver"
	"circa/internal/observ"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [file.circ|directory]",
		Short: "Check a circa project or a single source file",
		Long: `Check parses, resolves and type-checks the project containing the given
directory (the nearest circa.toml, or the directory itself), or a single file
together with the configured stdlib. Exits with status 1 when anything is
reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}
	f := cmd.Flags()
	f.String("format", "pretty", "output format (pretty|short|json)")
	f.Bool("with-notes", false, "include diagnostic notes in output")
	f.String("path-mode", "relative", "how to print file paths (auto|absolute|relative|basename)")
	f.Int("jobs", 0, "max parallel parse workers (0 = circa.toml or GOMAXPROCS)")
	f.String("root", "", "trusted root module path (overrides [stdlib].root)")
	f.String("stdlib", "", "directory holding the trusted root module's sources")
	f.StringSlice("exclude", nil, "glob patterns of project files to skip")
	f.Bool("cache", false, "reuse diagnostics of unchanged inputs from the disk cache")
	f.String("ui", "auto", "progress view (auto|on|off)")
	return cmd
}

// checkFlags are the check options shared with watch.
type checkFlags struct {
	opts  driver.Options
	cache bool
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var cf checkFlags
	var err error
	f := cmd.Flags()
	if cf.opts.Jobs, err = f.GetInt("jobs"); err != nil {
		return cf, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if cf.opts.Jobs < 0 {
		return cf, fmt.Errorf("--jobs must not be negative")
	}
	if cf.opts.Root, err = f.GetString("root"); err != nil {
		return cf, fmt.Errorf("failed to get root flag: %w", err)
	}
	if cf.opts.Stdlib, err = f.GetString("stdlib"); err != nil {
		return cf, fmt.Errorf("failed to get stdlib flag: %w", err)
	}
	if cf.opts.Exclude, err = f.GetStringSlice("exclude"); err != nil {
		return cf, fmt.Errorf("failed to get exclude flag: %w", err)
	}
	if cf.cache, err = f.GetBool("cache"); err != nil {
		return cf, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if cf.cache {
		if cf.opts.Cache, err = driver.OpenDiskCache("circa"); err != nil {
			return cf, fmt.Errorf("failed to open disk cache: %w", err)
		}
	}
	return cf, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	out, err := readOutputOpts(cmd, os.Stdout)
	if err != nil {
		return err
	}
	cf, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", target, err)
	}

	timer := observ.NewTimer()
	opts := cf.opts
	opts.Timer = timer
	ctx := cmd.Context()

	var res *driver.Result
	switch {
	case !info.IsDir():
		res, err = driver.CheckFile(ctx, target, opts)
	case shouldUseTUI(mode, out.format):
		var proj *driver.Project
		if proj, err = driver.Discover(target, opts); err != nil {
			return err
		}
		if len(proj.Files) == 0 {
			return fmt.Errorf("%s: %w", proj.Root, driver.ErrNoSources)
		}
		res, err = runCheckWithUI(ctx, "circa check "+filepath.Base(proj.Root), proj, opts)
	default:
		res, err = driver.CheckDir(ctx, target, opts)
	}
	if err != nil {
		return err
	}

	defer printTimings(cmd.ErrOrStderr(), timer, out)
	return renderDiagnostics(cmd.OutOrStdout(), res.Bag, res.FileSet, out)
}
