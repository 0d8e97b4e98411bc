package parser

import (
	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/source"
	"circa/internal/token"
)

// parseFnItem parses a function after its attributes and modifiers:
//
//	fn name <generics>? ( params ) ( -> Type )? ( Block | ; )
//
// When the signature is cut short, the part parsed so far is still recorded
// (marked Malformed, without a body) so that later passes see the function.
func (p *Parser) parseFnItem(attr *ast.Attr, mods fnModifiers, start source.Span) (ast.ItemID, bool) {
	p.advance() // fn

	name, nameSpan, ok := p.parseIdent("function name")
	if !ok {
		return ast.NoItemID, false
	}

	spec := ast.FnSpec{
		Name:          name,
		NameSpan:      nameSpan,
		Pub:           mods.pub,
		Unconstrained: mods.unconstrained,
		Attr:          attr,
	}
	finish := func(ok bool) (ast.ItemID, bool) {
		spec.Span = start.Cover(p.lastSpan)
		if !ok {
			spec.Malformed = true
			spec.HasBody = false
			spec.Body = ast.NoStmtID
		}
		return p.arenas.Items.NewFn(spec), ok
	}

	generics, ok := p.parseGenerics()
	spec.Generics = generics
	if !ok {
		return finish(false)
	}

	params, ok := p.parseFnParams()
	spec.Params = params
	if !ok {
		return finish(false)
	}

	if p.at(token.Arrow) {
		p.advance()
		result, ok := p.parseType()
		spec.Result = result
		if !ok {
			return finish(false)
		}
	}

	switch p.peek().Kind {
	case token.Semicolon:
		p.advance()
		return finish(true)
	case token.LBrace:
		body := p.parseBlock()
		if p.abandon {
			return finish(false)
		}
		spec.Body = body
		spec.HasBody = true
		return finish(true)
	default:
		p.err(diag.SynUnexpectedToken, "expected `{` or `;` after function signature but found "+found(p.peek()))
		return finish(false)
	}
}

// parseFnParams parses `( [mut] name: Type, ... )`. The parameters parsed so
// far are returned even on failure.
func (p *Parser) parseFnParams() ([]ast.FnParam, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken); !ok {
		return nil, false
	}
	params := make([]ast.FnParam, 0, 4)
	for !p.at(token.RParen) {
		param := ast.FnParam{Span: p.peek().Span}
		if p.at(token.KwMut) {
			p.advance()
			param.Mut = true
		}
		name, nameSpan, ok := p.parseIdent("parameter name")
		if !ok {
			return params, false
		}
		param.Name, param.NameSpan = name, nameSpan
		if _, ok := p.expect(token.Colon, diag.SynExpectColon); !ok {
			return params, false
		}
		typ, ok := p.parseType()
		param.Type = typ
		param.Span = param.Span.Cover(p.lastSpan)
		if typ.IsValid() {
			params = append(params, param)
		}
		if !ok {
			return params, false
		}

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RParen) {
			p.err(diag.SynUnclosedParen, "expected `,` or `)` but found "+found(p.peek()))
			return params, false
		}
	}
	p.advance() // )
	return params, true
}
