package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"circa/internal/driver"
	"circa/internal/observ"
)

const watchDebounce = 150 * time.Millisecond

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] [directory]",
		Short: "Re-check a project whenever its sources change",
		Long:  `Watch checks the project once, then again after every change to a source file or circa.toml until interrupted`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
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
	return cmd
}

// watchSession re-runs one project check and reports it.
type watchSession struct {
	dir  string
	opts driver.Options
	out  outputOpts
	w    io.Writer
}

// check runs CheckDir and prints its diagnostics followed by a status line.
// Diagnostics are not a failure of the session.
func (s *watchSession) check(ctx context.Context) (*driver.Project, error) {
	proj, err := driver.Discover(s.dir, s.opts)
	if err != nil {
		return nil, err
	}
	timer := observ.NewTimer()
	opts := s.opts
	opts.Timer = timer
	res, err := driver.CheckDir(ctx, s.dir, opts)
	switch {
	case errors.Is(err, driver.ErrNoSources):
		fmt.Fprintf(s.w, "[watch] %v\n", err)
		return proj, nil
	case err != nil:
		return nil, err
	}
	var aborted *abortError
	if err := renderDiagnostics(s.w, res.Bag, res.FileSet, s.out); err != nil && !errors.As(err, &aborted) {
		return nil, err
	}
	status := "ok"
	if aborted != nil {
		status = aborted.Error()
	}
	fmt.Fprintf(s.w, "[watch] %d files checked: %s\n", len(res.Files), status)
	printTimings(s.w, timer, s.out)
	return proj, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	out, err := readOutputOpts(cmd, os.Stdout)
	if err != nil {
		return err
	}
	cf, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	session := &watchSession{dir: dir, opts: cf.opts, out: out, w: cmd.OutOrStdout()}
	proj, err := session.check(ctx)
	if err != nil {
		return err
	}
	if err := addWatchDirs(watcher, proj); err != nil {
		return err
	}

	return session.loop(ctx, proj, watcher.Events, watcher.Errors, cmd.ErrOrStderr(), func(p *driver.Project) error {
		return addWatchDirs(watcher, p)
	})
}

// loop re-checks after a quiet period following relevant events until ctx
// ends or a channel closes. rewatch runs after every successful re-check.
func (s *watchSession) loop(ctx context.Context, proj *driver.Project, events <-chan fsnotify.Event, errs <-chan error, stderr io.Writer, rewatch func(*driver.Project) error) error {
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					fire = time.After(watchDebounce)
					continue
				}
			}
			if proj.Relevant(ev.Name) {
				fire = time.After(watchDebounce)
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			fmt.Fprintf(stderr, "[watch] %v\n", err)
		case <-fire:
			fire = nil
			next, err := s.check(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				// конфиг мог сломаться: ждём следующего изменения
				fmt.Fprintf(stderr, "[watch] %v\n", err)
				continue
			}
			proj = next
			if err := rewatch(proj); err != nil {
				fmt.Fprintf(stderr, "[watch] %v\n", err)
			}
		}
	}
}

// addWatchDirs subscribes to every directory of proj; fsnotify does not
// recurse on its own.
func addWatchDirs(watcher *fsnotify.Watcher, proj *driver.Project) error {
	dirs, err := proj.WatchDirs()
	if err != nil {
		return fmt.Errorf("failed to list watched directories: %w", err)
	}
	watched := make(map[string]struct{}, len(dirs))
	for _, d := range watcher.WatchList() {
		watched[d] = struct{}{}
	}
	for _, d := range dirs {
		if _, ok := watched[d]; ok {
			continue
		}
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("failed to watch %s: %w", d, err)
		}
	}
	return nil
}
