// Package lexer converts a raw C-subset source string into an ordered
// token.Queue. It scans the whole input up front; it does not stream.
package lexer

import (
	"math"
	"strconv"
	"strings"

	"github.com/HarumiKiyama/chibicc-rust/internal/cerr"
	"github.com/HarumiKiyama/chibicc-rust/internal/token"
)

// lexer holds scan state over the input's runes.
type lexer struct {
	chars []rune
	pos   int
}

// Lex scans src in full and returns the resulting token.Queue, terminated
// by an EOF token, or the first lexical error encountered.
func Lex(src string) (*token.Queue, error) {
	l := &lexer{chars: []rune(src)}

	var tokens []token.Token
	for !l.atEnd() {
		l.skipSpaces()
		if l.atEnd() {
			break
		}

		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	tokens = append(tokens, token.Token{Kind: token.EOF})

	return token.NewQueue(tokens), nil
}

func (l *lexer) atEnd() bool {
	return l.pos >= len(l.chars)
}

func (l *lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	return l.chars[l.pos]
}

func (l *lexer) skipSpaces() {
	for !l.atEnd() && l.peek() == ' ' {
		l.pos++
	}
}

// next scans one token starting at the current position, which is
// guaranteed not to be whitespace and not to be past the end.
func (l *lexer) next() (token.Token, error) {
	ch := l.peek()

	if isDigit(ch) {
		return l.readNumber()
	}

	if tok, ok := l.readTwoCharPunctuator(); ok {
		return tok, nil
	}

	if strings.ContainsRune(token.OneCharPunctuators, ch) {
		l.pos++
		return token.Token{Kind: token.Punctuator, Literal: string(ch)}, nil
	}

	if isIdentStart(ch) {
		return l.readIdentifier(), nil
	}

	return token.Token{}, cerr.New(cerr.Lex, "unexpected character %q at position %d", ch, l.pos)
}

func (l *lexer) readNumber() (token.Token, error) {
	start := l.pos
	for !l.atEnd() && isDigit(l.peek()) {
		l.pos++
	}
	raw := string(l.chars[start:l.pos])

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n > math.MaxInt32 || n < math.MinInt32 {
		return token.Token{}, cerr.New(cerr.Lex, "integer literal %q out of 32-bit range", raw)
	}

	return token.Token{Kind: token.Number, Literal: raw, Value: int32(n)}, nil
}

func (l *lexer) readTwoCharPunctuator() (token.Token, bool) {
	if l.pos+1 >= len(l.chars) {
		return token.Token{}, false
	}
	candidate := string(l.chars[l.pos : l.pos+2])
	for _, p := range token.TwoCharPunctuators {
		if candidate == p {
			l.pos += 2
			return token.Token{Kind: token.Punctuator, Literal: p}, true
		}
	}
	return token.Token{}, false
}

func (l *lexer) readIdentifier() token.Token {
	start := l.pos
	l.pos++ // first character already validated by isIdentStart
	for !l.atEnd() && isIdentCont(l.peek()) {
		l.pos++
	}
	raw := string(l.chars[start:l.pos])

	if token.IsKeyword(raw) {
		return token.Token{Kind: token.Punctuator, Literal: raw}
	}
	return token.Token{Kind: token.Identifier, Literal: raw}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentCont(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}
