package expr

import (
	"fmt"
	"strconv"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokStarStar
	tokSlash
	tokSlashSlash
	tokPercent
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
	num  float64
}

// lexer produces tokens over a fixed alphabet. Anything outside that
// alphabet is rejected up front, before the parser ever sees it.
type lexer struct {
	input string
	pos   int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.input[l.pos]

	switch {
	case c >= '0' && c <= '9' || c == '.':
		return l.lexNumber()
	case isIdentStart(c):
		for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.input[start:l.pos], pos: start}, nil
	case c == '+':
		l.pos++
		return token{kind: tokPlus, text: "+", pos: start}, nil
	case c == '-':
		l.pos++
		return token{kind: tokMinus, text: "-", pos: start}, nil
	case c == '*':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '*' {
			l.pos++
			return token{kind: tokStarStar, text: "**", pos: start}, nil
		}
		return token{kind: tokStar, text: "*", pos: start}, nil
	case c == '/':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '/' {
			l.pos++
			return token{kind: tokSlashSlash, text: "//", pos: start}, nil
		}
		return token{kind: tokSlash, text: "/", pos: start}, nil
	case c == '%':
		l.pos++
		return token{kind: tokPercent, text: "%", pos: start}, nil
	case c == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case c == ',':
		l.pos++
		return token{kind: tokComma, text: ",", pos: start}, nil
	default:
		return token{}, fmt.Errorf("%w: unexpected character %q at position %d", ErrDisallowedSyntax, string(c), start)
	}
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	sawDigit := false
	for l.pos < len(l.input) && l.input[l.pos] >= '0' && l.input[l.pos] <= '9' {
		l.pos++
		sawDigit = true
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.input) && l.input[l.pos] >= '0' && l.input[l.pos] <= '9' {
			l.pos++
			sawDigit = true
		}
	}
	// Scientific notation: 1e3, 2.5e-4.
	if sawDigit && l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		mark := l.pos
		l.pos++
		if l.pos < len(l.input) && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.pos++
		}
		expDigits := false
		for l.pos < len(l.input) && l.input[l.pos] >= '0' && l.input[l.pos] <= '9' {
			l.pos++
			expDigits = true
		}
		if !expDigits {
			// "1e" followed by an identifier is not a number; back off and
			// let the parser reject the dangling ident.
			l.pos = mark
		}
	}
	text := l.input[start:l.pos]
	if !sawDigit {
		return token{}, fmt.Errorf("%w: malformed number %q at position %d", ErrDisallowedSyntax, text, start)
	}
	num, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, fmt.Errorf("%w: malformed number %q at position %d", ErrDisallowedSyntax, text, start)
	}
	return token{kind: tokNumber, text: text, pos: start, num: num}, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
