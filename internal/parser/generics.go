package parser

import (
	"fmt"

	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/token"
	"circa/internal/types"
)

// parseGenerics parses `< T, let N: u32, ... >`; no `<` means no generics.
func (p *Parser) parseGenerics() ([]ast.GenericParam, bool) {
	if !p.at(token.Lt) {
		return nil, true
	}
	p.advance()

	generics := make([]ast.GenericParam, 0, 2)
	for !p.at(token.Gt) {
		g, ok := p.parseGeneric()
		if !ok {
			return generics, false
		}
		generics = append(generics, g)

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.Gt) {
			p.err(diag.SynUnclosedAngle, "expected `,` or `>` but found "+found(p.peek()))
			return generics, false
		}
	}
	p.advance() // >
	return generics, true
}

// parseGeneric parses one parameter:
//
//	Ident                  type generic
//	let Ident ':' Type     numeric generic
//
// A numeric generic without a type is reported and treated as u32. Signed
// and 64-bit underlying types are reported but kept.
func (p *Parser) parseGeneric() (ast.GenericParam, bool) {
	startSpan := p.peek().Span
	switch p.peek().Kind {
	case token.Ident:
		tok := p.advance()
		return ast.GenericParam{
			Name:     p.intern(tok.Text),
			NameSpan: tok.Span,
			Kind:     ast.GenericType,
			Span:     tok.Span,
		}, true

	case token.KwLet:
		p.advance()
		name, nameSpan, ok := p.parseIdent("generic name")
		if !ok {
			return ast.GenericParam{}, false
		}
		g := ast.GenericParam{Name: name, NameSpan: nameSpan, Kind: ast.GenericNumeric}
		if !p.at(token.Colon) {
			p.err(diag.SynGenericMissingType,
				fmt.Sprintf("missing type for numeric generic `%s`", p.arenas.Name(name)))
			g.Span = startSpan.Cover(nameSpan)
			return g, true
		}
		p.advance()
		typ, ok := p.parseType()
		g.Underlying = typ
		g.Span = startSpan.Cover(p.lastSpan)
		if !ok {
			return g, false
		}
		if te := p.arenas.Types.Get(typ); te != nil && te.Kind == ast.TypeExprPath {
			if bt, isBuiltin := types.LookupBuiltin(p.arenas.Name(te.Name)); isBuiltin && types.IsForbiddenNumeric(bt) {
				p.report(diag.SynGenericForbiddenType, te.Span,
					fmt.Sprintf("forbidden numeric generic type `%s`: only unsigned integers narrower than 64 bits are allowed", bt))
			}
		}
		return g, true

	default:
		p.err(diag.SynExpectGenericParam, "expected generic parameter but found "+found(p.peek()))
		return ast.GenericParam{}, false
	}
}
