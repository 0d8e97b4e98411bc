package parser

import (
	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/source"
	"circa/internal/token"
)

// parseModItem parses `mod name;` (a file module declaration) or an inline
// module `mod name { items }`. Items inside an inline module recover exactly
// like top-level items; the closing `}` ends them.
func (p *Parser) parseModItem(pub bool, start source.Span) (ast.ItemID, bool) {
	p.advance() // mod
	name, nameSpan, ok := p.parseIdent("module name")
	if !ok {
		return ast.NoItemID, false
	}
	mod := ast.ModItem{Name: name, NameSpan: nameSpan, Pub: pub}

	switch p.peek().Kind {
	case token.Semicolon:
		p.advance()
	case token.LBrace:
		open := p.advance()
		mod.Inline = true
		mod.Items = p.parseItems(true)
		if p.at(token.RBrace) {
			p.advance()
		} else {
			p.report(diag.SynUnclosedBrace, open.Span, "unclosed module body: expected `}` but found "+found(p.peek()))
		}
	default:
		p.err(diag.SynUnexpectedToken, "expected `{` or `;` after module name but found "+found(p.peek()))
		return ast.NoItemID, false
	}
	mod.Span = start.Cover(p.lastSpan)
	return p.arenas.Items.NewMod(mod), true
}

// parseUseItem parses `use a::b::c;` and `use a::b::c as d;`.
func (p *Parser) parseUseItem(start source.Span) (ast.ItemID, bool) {
	p.advance() // use
	var use ast.UseItem
	for {
		if !p.at(token.Ident) {
			p.err(diag.SynExpectModuleSeg, "expected path segment but found "+found(p.peek()))
			return ast.NoItemID, false
		}
		tok := p.advance()
		use.Path = append(use.Path, p.intern(tok.Text))
		use.PathSpans = append(use.PathSpans, tok.Span)
		if !p.at(token.ColonColon) {
			break
		}
		p.advance()
	}

	// `as` — контекстное слово, не ключевое
	if p.at(token.Ident) && p.peek().Text == "as" {
		p.advance()
		alias, aliasSpan, ok := p.parseIdent("alias name")
		if !ok {
			return ast.NoItemID, false
		}
		use.Alias, use.AliasSpan = alias, aliasSpan
	}

	_, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon)
	use.Span = start.Cover(p.lastSpan)
	return p.arenas.Items.NewUse(use), ok
}
