package token

var keywords = map[string]Kind{
	"fn":            KwFn,
	"let":           KwLet,
	"pub":           KwPub,
	"mod":           KwMod,
	"use":           KwUse,
	"true":          KwTrue,
	"false":         KwFalse,
	"mut":           KwMut,
	"unconstrained": KwUnconstrained,
}

// LookupKeyword reports whether ident is a keyword. Keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
