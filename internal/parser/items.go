package parser

import (
	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/token"
)

// recoveryState is the item-level recovery state machine.
type recoveryState uint8

const (
	stateParsingItem recoveryState = iota
	stateResynchronizing
)

// isItemStart — токены, с которых может начинаться item (и EOF).
func isItemStart(k token.Kind) bool {
	switch k {
	case token.KwFn, token.KwPub, token.KwUnconstrained, token.Hash, token.KwMod, token.KwUse, token.EOF:
		return true
	default:
		return false
	}
}

// parseItems runs the item loop until EOF, or until the closing `}` of an
// inline module when nested is set.
//
// While resynchronising, every token that cannot start an item is reported
// once and skipped; the first item start switches back to parsing.
func (p *Parser) parseItems(nested bool) []ast.ItemID {
	items := make([]ast.ItemID, 0, 8)
	state := stateParsingItem
	depth := 0 // braces skipped while resynchronising inside a module
	stalled := false

	for !p.at(token.EOF) {
		if nested && depth == 0 && p.at(token.RBrace) {
			break
		}
		before := p.pos

		switch state {
		case stateParsingItem:
			if !isItemStart(p.peek().Kind) {
				state = stateResynchronizing
				continue
			}
			id, ok := p.parseItem()
			if id.IsValid() {
				items = append(items, id)
			}
			if !ok || p.abandon {
				p.abandon = false
				state = stateResynchronizing
			}

		case stateResynchronizing:
			if isItemStart(p.peek().Kind) {
				state = stateParsingItem
				depth = 0
				continue
			}
			tok := p.advance()
			switch tok.Kind {
			case token.LBrace:
				depth++
			case token.RBrace:
				if depth > 0 {
					depth--
				}
			}
			p.report(diag.SynUnexpectedTopLevel, tok.Span, "expected an item but found "+found(tok))
		}

		// progress guard: an item attempt that consumed nothing is forced forward
		if p.pos == before {
			if stalled {
				tok := p.advance()
				p.report(diag.SynUnexpectedTopLevel, tok.Span, "expected an item but found "+found(tok))
				state = stateResynchronizing
			}
			stalled = true
			continue
		}
		stalled = false
	}
	return items
}

// parseItem parses attributes and modifiers, then one `fn`, `mod` or `use`.
// ok=false means the item was cut short and the caller must resynchronise.
// A function whose signature was parsed at least up to its name is returned
// even when ok is false.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	start := p.peek().Span
	startPos := p.pos

	var attr *ast.Attr
	for p.at(token.Hash) {
		a, ok := p.parseAttr()
		if !ok {
			return ast.NoItemID, false
		}
		if a != nil && attr == nil {
			attr = a
		}
	}

	mods := fnModifiers{}
	for p.atOr(token.KwPub, token.KwUnconstrained) {
		tok := p.advance()
		if tok.Kind == token.KwPub {
			mods.pub = true
		} else {
			mods.unconstrained = true
		}
	}
	consumedPrefix := p.pos != startPos

	switch p.peek().Kind {
	case token.KwFn:
		return p.parseFnItem(attr, mods, start)
	case token.KwMod:
		if attr != nil {
			p.report(diag.SynAttrExpectFn, attr.Span, "attribute `"+attr.Kind.String()+"` can only be applied to functions")
		}
		return p.parseModItem(mods.pub, start)
	case token.KwUse:
		if attr != nil {
			p.report(diag.SynAttrExpectFn, attr.Span, "attribute `"+attr.Kind.String()+"` can only be applied to functions")
		}
		return p.parseUseItem(start)
	}

	// attributes and modifiers never vanish silently; a stray token is then
	// reported again by resynchronisation
	if consumedPrefix {
		p.err(diag.SynAttrExpectFn, "expected `fn` but found "+found(p.peek()))
	}
	return ast.NoItemID, false
}

type fnModifiers struct {
	pub           bool
	unconstrained bool
}
