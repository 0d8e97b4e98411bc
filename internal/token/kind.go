package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	IntLit

	KwFn            // fn
	KwLet           // let
	KwPub           // pub
	KwMod           // mod
	KwUse           // use
	KwTrue          // true
	KwFalse         // false
	KwMut           // mut
	KwUnconstrained // unconstrained

	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	LBracket   // [
	RBracket   // ]
	Lt         // <
	Gt         // >
	Comma      // ,
	Colon      // :
	ColonColon // ::
	Semicolon  // ;
	Arrow      // ->
	Assign     // =
	Plus       // +
	Minus      // -
	Star       // *
	Hash       // #
	Dot        // .
)

var kindNames = [...]string{
	Invalid:         "invalid",
	EOF:             "end of file",
	Ident:           "identifier",
	IntLit:          "integer literal",
	KwFn:            "fn",
	KwLet:           "let",
	KwPub:           "pub",
	KwMod:           "mod",
	KwUse:           "use",
	KwTrue:          "true",
	KwFalse:         "false",
	KwMut:           "mut",
	KwUnconstrained: "unconstrained",
	LParen:          "(",
	RParen:          ")",
	LBrace:          "{",
	RBrace:          "}",
	LBracket:        "[",
	RBracket:        "]",
	Lt:              "<",
	Gt:              ">",
	Comma:           ",",
	Colon:           ":",
	ColonColon:      "::",
	Semicolon:       ";",
	Arrow:           "->",
	Assign:          "=",
	Plus:            "+",
	Minus:           "-",
	Star:            "*",
	Hash:            "#",
	Dot:             ".",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
