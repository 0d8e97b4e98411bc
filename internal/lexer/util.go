package lexer

import (
	"unicode"
	"unicode/utf8"
)

type charClass uint8

const (
	classIdentStart charClass = 1 << iota
	classDigit
	classHexLetter
)

var asciiClass = func() (t [utf8.RuneSelf]charClass) {
	t['_'] = classIdentStart
	for c := 'a'; c <= 'z'; c++ {
		t[c] = classIdentStart
		t[c-'a'+'A'] = classIdentStart
	}
	for c := '0'; c <= '9'; c++ {
		t[c] = classDigit
	}
	for c := 'a'; c <= 'f'; c++ {
		t[c] |= classHexLetter
		t[c-'a'+'A'] |= classHexLetter
	}
	return t
}()

func is(b byte, c charClass) bool {
	return b < utf8.RuneSelf && asciiClass[b]&c != 0
}

func isIdentStartByte(b byte) bool    { return is(b, classIdentStart) }
func isIdentContinueByte(b byte) bool { return is(b, classIdentStart|classDigit) }
func isDec(b byte) bool               { return is(b, classDigit) }
func isHex(b byte) bool               { return is(b, classDigit|classHexLetter) }

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isIdentContinueRune also admits combining marks so that decomposed
// letters survive until NFC.
func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// char decodes the rune under the cursor; size is 0 at EOF.
func (lx *Lexer) char() (r rune, size int) {
	rest := lx.file.Content[lx.cursor.Off:]
	if len(rest) == 0 {
		return utf8.RuneError, 0
	}
	if rest[0] < utf8.RuneSelf {
		return rune(rest[0]), 1
	}
	return utf8.DecodeRune(rest)
}

// skipChar moves past the rune under the cursor.
func (lx *Lexer) skipChar() {
	_, size := lx.char()
	for range size {
		lx.cursor.Bump()
	}
}

// try2 consumes the two bytes a, b if they come next.
func (lx *Lexer) try2(a, b byte) bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != a || b1 != b {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	return true
}
