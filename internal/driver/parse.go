package driver

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/lexer"
	"circa/internal/parser"
	"circa/internal/source"
	"circa/internal/symbols"
	"circa/internal/token"
	"circa/internal/trace"
)

// parseAll parses files in parallel, at most jobs at a time. Each file gets
// its own bag; bags come back in the order of files.
func parseAll(ctx context.Context, fs *source.FileSet, files []sourceFile, ids []source.FileID, jobs int, strs *source.Interner, progress ProgressFunc) ([]symbols.Unit, []*diag.Bag, error) {
	units := make([]symbols.Unit, len(files))
	bags := make([]*diag.Bag, len(files))
	if len(files) == 0 {
		return units, bags, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, span := trace.Start(gctx, trace.ScopeUnit, "unit:"+f.rel)
			progress.emit(f.rel, StageParse, StatusWorking)

			bag := diag.NewBag()
			builder := ast.NewBuilder(ast.Hints{}, strs)
			res := parser.ParseFile(fs.Get(ids[i]), builder, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
			units[i] = symbols.Unit{
				Path:    symbols.ModulePathForFile(f.rel),
				File:    ids[i],
				Builder: res.Builder,
				AST:     res.File,
			}
			bags[i] = bag

			span.WithExtra("diagnostics", strconv.Itoa(bag.Len())).End("")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return units, bags, nil
}

// ParseResult is a single parsed file, for `circa parse`.
type ParseResult struct {
	FileSet *source.FileSet
	Builder *ast.Builder
	File    ast.FileID
	Bag     *diag.Bag
}

// Parse parses one file without resolving anything.
func Parse(path string) (*ParseResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	bag := diag.NewBag()
	res := parser.ParseFile(fs.Get(id), ast.NewBuilder(ast.Hints{}, nil), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &ParseResult{FileSet: fs, Builder: res.Builder, File: res.File, Bag: bag}, nil
}

// TokenizeResult is a single lexed file, for `circa tokenize`.
type TokenizeResult struct {
	FileSet *source.FileSet
	Tokens  []token.Token
	Bag     *diag.Bag
}

func Tokenize(path string) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	bag := diag.NewBag()
	toks := lexer.Tokenize(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &TokenizeResult{FileSet: fs, Tokens: toks, Bag: bag}, nil
}
