package token

import (
	"circa/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

func (t Token) IsKeyword() bool {
	return t.Kind >= KwFn && t.Kind <= KwUnconstrained
}

func (t Token) IsPunctOrOp() bool {
	return t.Kind >= LParen && t.Kind <= Dot
}

func (t Token) IsIdent() bool { return t.Kind == Ident }

// Display is the token as quoted in diagnostics: its source text, or the kind
// name for tokens without text.
func (t Token) Display() string {
	if t.Text != "" {
		return t.Text
	}
	return t.Kind.String()
}
