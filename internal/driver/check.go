package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"

	"circa/internal/diag"
	"circa/internal/observ"
	"circa/internal/sema"
	"circa/internal/source"
	"circa/internal/symbols"
	"circa/internal/trace"
	"circa/internal/trust"
)

// ErrNoSources is returned when a directory holds no .circ files.
var ErrNoSources = errors.New("no " + SourceExt + " files found")

// Options configure a check run. Zero values fall back to circa.toml and then
// to built-in defaults.
type Options struct {
	Root     string   // trusted root module path
	Stdlib   string   // directory holding the root module's sources
	Jobs     int      // parallel parse workers
	Exclude  []string // glob patterns on top of [check].exclude
	Cache    *DiskCache
	Timer    *observ.Timer
	Progress ProgressFunc
}

// Result is everything a check produced. Table, Trust and Sema are nil when
// the diagnostics came from the cache.
type Result struct {
	FileSet  *source.FileSet
	Bag      *diag.Bag
	Manifest *Manifest
	Root     string   // trusted root module path in effect
	Files    []string // rel paths, in module path order
	Units    []symbols.Unit
	Table    *symbols.Table
	Trust    *trust.Model
	Sema     *sema.Result
	Cached   bool
}

// Report freezes the diagnostics of the run.
func (r *Result) Report() diag.Report {
	return r.Bag.Finish()
}

// CheckDir checks the project containing dir: the directory of the nearest
// circa.toml, or dir itself when there is none. Unreadable files become
// IO4001 diagnostics.
func CheckDir(ctx context.Context, dir string, opts Options) (*Result, error) {
	proj, err := Discover(dir, opts)
	if err != nil {
		return nil, err
	}
	if len(proj.files) == 0 {
		return nil, fmt.Errorf("%s: %w", proj.Root, ErrNoSources)
	}
	root, files, manifest, cfg := proj.Root, proj.files, proj.Manifest, proj.cfg

	fs := source.NewFileSetWithBase(root)
	loadBag := diag.NewBag()
	ids := make([]source.FileID, 0, len(files))
	loaded := files[:0:0]
	for _, f := range files {
		id, err := fs.Load(f.abs)
		if err != nil {
			vid := fs.Add(f.abs, nil)
			loadBag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.IOLoadFileError,
				Message:  fmt.Sprintf("failed to load %s: %v", f.rel, err),
				Primary:  source.Span{File: vid},
			})
			continue
		}
		ids = append(ids, id)
		loaded = append(loaded, f)
	}

	return runCached(ctx, fs, loaded, ids, loadBag, manifest, cfg, opts)
}

// CheckFile checks a single source file together with the configured stdlib.
// Its module path is derived from its location under the project root.
func CheckFile(ctx context.Context, path string, opts Options) (*Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	manifest, _, err := LoadManifest(filepath.Dir(abs))
	if err != nil {
		return nil, err
	}
	root := filepath.Dir(abs)
	if manifest != nil {
		root = manifest.Root
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return nil, fmt.Errorf("relativize %s: %w", path, err)
	}
	cfg := effectiveConfig(manifest, opts)
	std, err := cfg.stdlibSources()
	if err != nil {
		return nil, err
	}
	files := append([]sourceFile{{abs: abs, rel: filepath.ToSlash(rel)}}, std...)
	sortByModule(files)

	fs := source.NewFileSetWithBase(root)
	ids := make([]source.FileID, len(files))
	for i, f := range files {
		if ids[i], err = fs.Load(f.abs); err != nil {
			return nil, fmt.Errorf("load %s: %w", f.abs, err)
		}
	}
	return runCached(ctx, fs, files, ids, diag.NewBag(), manifest, cfg, opts)
}

// CheckSources checks in-memory files keyed by slash path relative to the
// project root. Neither circa.toml nor the cache is consulted.
func CheckSources(ctx context.Context, sources map[string]string, opts Options) (*Result, error) {
	files := make([]sourceFile, 0, len(sources))
	for rel := range sources {
		files = append(files, sourceFile{abs: rel, rel: rel})
	}
	sortByModule(files)
	fs := source.NewFileSetWithBase(".")
	ids := make([]source.FileID, len(files))
	for i, f := range files {
		ids[i] = fs.Add(f.rel, []byte(sources[f.rel]))
	}
	opts.Cache = nil
	return analyze(ctx, fs, files, ids, diag.NewBag(), nil, effectiveConfig(nil, opts), opts)
}

type config struct {
	root      string
	stdlibDir string
	exclude   []string
	jobs      int
}

func effectiveConfig(m *Manifest, opts Options) config {
	cfg := config{root: trust.DefaultRoot, stdlibDir: opts.Stdlib, jobs: opts.Jobs}
	if m != nil {
		cfg.root = m.Config.TrustedRoot()
		cfg.exclude = append(cfg.exclude, m.Config.Check.Exclude...)
		if cfg.stdlibDir == "" && m.Config.Stdlib.Path != "" {
			cfg.stdlibDir = filepath.Join(m.Root, filepath.FromSlash(m.Config.Stdlib.Path))
		}
		if cfg.jobs <= 0 {
			cfg.jobs = m.Config.Check.Jobs
		}
	}
	if opts.Root != "" {
		cfg.root = opts.Root
	}
	cfg.exclude = append(cfg.exclude, opts.Exclude...)
	if cfg.jobs <= 0 {
		cfg.jobs = runtime.GOMAXPROCS(0)
	}
	return cfg
}

func (c config) stdlibSources() ([]sourceFile, error) {
	if c.stdlibDir == "" {
		return nil, nil
	}
	info, err := os.Stat(c.stdlibDir)
	if err != nil {
		return nil, fmt.Errorf("stdlib: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("stdlib: %s is not a directory", c.stdlibDir)
	}
	files, err := listSources(c.stdlibDir, stdlibPrefix(c.root), nil)
	if err != nil {
		return nil, fmt.Errorf("stdlib: %w", err)
	}
	return files, nil
}

// sortByModule orders files by module path, then rel path; parse diagnostics
// are merged in this order.
func sortByModule(files []sourceFile) {
	sort.SliceStable(files, func(i, j int) bool {
		pi, pj := symbols.ModulePathForFile(files[i].rel), symbols.ModulePathForFile(files[j].rel)
		if pi != pj {
			return pi < pj
		}
		return files[i].rel < files[j].rel
	})
}

func runCached(ctx context.Context, fs *source.FileSet, files []sourceFile, ids []source.FileID, loadBag *diag.Bag, m *Manifest, cfg config, opts Options) (*Result, error) {
	if opts.Cache == nil || loadBag.Len() > 0 {
		return analyze(ctx, fs, files, ids, loadBag, m, cfg, opts)
	}
	key := cacheKey(cfg.root, files, fs, ids)
	rels := make(map[source.FileID]string, len(files))
	byRel := make(map[string]source.FileID, len(files))
	for i, f := range files {
		rels[ids[i]] = f.rel
		byRel[f.rel] = ids[i]
	}

	if payload, ok, err := opts.Cache.Get(key); err == nil && ok {
		bag := diag.NewBag()
		if payload.restore(bag, byRel) {
			trace.Point(ctx, trace.ScopeDriver, "cache", "hit "+key.String()[:12])
			res := &Result{FileSet: fs, Bag: bag, Manifest: m, Root: cfg.root, Cached: true}
			for _, f := range files {
				res.Files = append(res.Files, f.rel)
			}
			return res, nil
		}
	}

	res, err := analyze(ctx, fs, files, ids, loadBag, m, cfg, opts)
	if err != nil {
		return nil, err
	}
	// кэш — оптимизация, ошибка записи не проваливает проверку
	if err := opts.Cache.Put(key, toPayload(res.Bag.Items(), rels, files)); err != nil {
		trace.Point(ctx, trace.ScopeDriver, "cache", "put failed: "+err.Error())
	}
	return res, nil
}

// analyze runs parse → resolve → trust → attrs → bodies → unify.
func analyze(ctx context.Context, fs *source.FileSet, files []sourceFile, ids []source.FileID, loadBag *diag.Bag, m *Manifest, cfg config, opts Options) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check")
	defer span.End("")

	res := &Result{FileSet: fs, Bag: diag.NewBag(), Manifest: m, Root: cfg.root}
	for _, f := range files {
		res.Files = append(res.Files, f.rel)
		opts.Progress.emit(f.rel, StageLoad, StatusQueued)
	}
	res.Bag.Merge(loadBag)

	strs := source.NewInterner()
	semaBag := diag.NewBag()
	reporter := diag.BagReporter{Bag: semaBag}
	p := phaseRunner{ctx: ctx, timer: opts.Timer, progress: opts.Progress}

	var bags []*diag.Bag
	err := p.run(StageParse, func(ctx context.Context) (string, error) {
		var err error
		res.Units, bags, err = parseAll(ctx, fs, files, ids, cfg.jobs, strs, opts.Progress)
		return plural(len(files), "file"), err
	})
	if err != nil {
		return nil, err
	}
	for _, b := range bags {
		res.Bag.Merge(b)
	}

	steps := []struct {
		stage Stage
		fn    func() string
	}{
		{StageResolve, func() string {
			res.Table = symbols.Build(res.Units, strs, symbols.Options{Reporter: reporter})
			return plural(res.Table.ModuleCount(), "module")
		}},
		{StageTrust, func() string {
			res.Trust = trust.Build(cfg.root, res.Table.ModulePaths())
			res.Table.ApplyTrust(res.Trust)
			return plural(len(res.Trust.TrustedPaths()), "trusted module")
		}},
		{StageAttrs, func() string {
			sema.CheckAttributes(res.Table, sema.Options{Reporter: reporter})
			return ""
		}},
		{StageBodies, func() string {
			sema.CheckBodies(res.Table, sema.Options{Reporter: reporter})
			return ""
		}},
		{StageUnify, func() string {
			res.Sema = sema.Unify(res.Table, sema.Options{Reporter: reporter})
			return plural(len(res.Sema.Calls), "call")
		}},
	}
	for _, step := range steps {
		err := p.run(step.stage, func(context.Context) (string, error) {
			return step.fn(), nil
		})
		if err != nil {
			return nil, err
		}
	}
	res.Bag.Merge(semaBag)

	failed := make(map[source.FileID]bool)
	for _, d := range res.Bag.Items() {
		failed[d.Primary.File] = true
	}
	for i, f := range files {
		status := StatusDone
		if failed[ids[i]] {
			status = StatusError
		}
		opts.Progress.emit(f.rel, StageUnify, status)
	}
	span.WithExtra("diagnostics", strconv.Itoa(res.Bag.Len()))
	return res, nil
}

type phaseRunner struct {
	ctx      context.Context
	timer    *observ.Timer
	progress ProgressFunc
}

// run executes one phase under a trace span and a timer entry. A cancelled
// context stops the pipeline before the phase starts.
func (p phaseRunner) run(stage Stage, fn func(context.Context) (string, error)) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	ctx, span := trace.Start(p.ctx, trace.ScopePhase, stage.String())
	end := p.timer.Track(stage.String())
	p.progress.emit("", stage, StatusWorking)
	note, err := fn(ctx)
	end(note)
	span.End(note)
	if err != nil {
		p.progress.emit("", stage, StatusError)
		return err
	}
	p.progress.emit("", stage, StatusDone)
	return nil
}

func plural(n int, what string) string {
	if n == 1 {
		return "1 " + what
	}
	return strconv.Itoa(n) + " " + what + "s"
}
