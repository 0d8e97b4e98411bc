package parser

import (
	"slices"

	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/lexer"
	"circa/internal/source"
	"circa/internal/token"
)

type Options struct {
	Reporter diag.Reporter
}

type Result struct {
	File    ast.FileID
	Builder *ast.Builder
}

// Parser — состояние парсера на один файл
type Parser struct {
	toks     []token.Token
	pos      int
	arenas   *ast.Builder
	file     ast.FileID
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики

	// abandon is raised by errors after which the rest of the current item
	// cannot be trusted (a malformed array separator). Every loop unwinds on it
	// and the item loop switches to resynchronisation.
	abandon bool
}

// ParseFile — входная точка для разбора одного файла.
// Lexer diagnostics go to the same reporter and precede parser diagnostics.
func ParseFile(file *source.File, arenas *ast.Builder, opts Options) Result {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	toks := lexer.Tokenize(file, lexer.Options{Reporter: opts.Reporter})
	p := Parser{
		toks:     toks,
		arenas:   arenas,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
	p.file = arenas.NewFile(toks[0].Span)

	items := p.parseItems(false)
	f := arenas.Files.Get(p.file)
	f.Items = items
	f.Span = toks[0].Span.Cover(p.peek().Span)
	return Result{File: p.file, Builder: arenas}
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// peekN looks n tokens ahead; past the end it yields EOF.
func (p *Parser) peekN(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) intern(s string) source.StringID {
	return p.arenas.Strings.Intern(s)
}
