package parser

import (
	"fmt"

	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/source"
	"circa/internal/token"
)

// parseAttr parses `#[name]` or `#[name(arg)]`.
// Unknown attribute names are reported and yield (nil, true): the attribute is
// ignored but the item continues. ok=false means the attribute itself was
// malformed and the item must be abandoned.
func (p *Parser) parseAttr() (*ast.Attr, bool) {
	hashTok := p.advance()
	if _, ok := p.expect(token.LBracket, diag.SynUnexpectedToken); !ok {
		return nil, false
	}

	if !p.at(token.Ident) {
		p.err(diag.SynExpectIdentifier, "expected attribute name but found "+found(p.peek()))
		return nil, false
	}
	nameTok := p.advance()
	kind, known := ast.LookupAttr(nameTok.Text)
	if !known {
		p.report(diag.SynUnknownAttribute, nameTok.Span, fmt.Sprintf("unknown attribute `%s`", nameTok.Text))
	}

	attr := &ast.Attr{Kind: kind, NameSpan: nameTok.Span}
	if p.at(token.LParen) {
		p.advance()
		if p.at(token.Ident) {
			argTok := p.advance()
			attr.Arg = p.intern(argTok.Text)
			attr.ArgSpan = argTok.Span
		} else if known {
			p.err(diag.SynExpectIdentifier, "expected intrinsic name but found "+found(p.peek()))
		}
		// unknown attributes may carry arbitrary tokens
		if !known {
			p.skipBalanced(token.LParen, token.RParen)
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
			return nil, false
		}
	} else if known {
		p.report(diag.SynExpectIdentifier, p.getDiagnosticSpan(),
			fmt.Sprintf("attribute `%s` requires an intrinsic name: `#[%s(name)]`", nameTok.Text, nameTok.Text))
	}

	closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedBracket)
	if !ok {
		return nil, false
	}
	if !known {
		return nil, true
	}
	attr.Span = source.Span{File: hashTok.Span.File, Start: hashTok.Span.Start, End: closeTok.Span.End}
	return attr, true
}

// skipBalanced skips tokens up to (not including) the close that balances an
// already consumed open.
func (p *Parser) skipBalanced(open, closeKind token.Kind) {
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case open:
			depth++
		case closeKind:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}
