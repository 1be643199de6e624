// Package token contains the tokens that the lexer produces when scanning
// a C-subset source expression.
package token

// Kind is the classification of a Token.
type Kind int

// The four kinds of token described by spec.md §3.
const (
	Number Kind = iota
	Punctuator
	Identifier
	EOF
)

// String renders a Kind for diagnostics and test failure messages.
func (k Kind) String() string {
	switch k {
	case Number:
		return "Number"
	case Punctuator:
		return "Punctuator"
	case Identifier:
		return "Identifier"
	case EOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Token is a single lexed unit.
//
// For Number tokens both Literal (the original text) and Value (the
// parsed 32-bit value) are populated. For Punctuator and Identifier
// tokens only Literal is meaningful.
type Token struct {
	Kind    Kind
	Literal string
	Value   int32
}

// Keywords are reserved identifiers; the lexer unifies them with
// punctuators so the parser can match either via the same "consume this
// literal text" predicate.
var Keywords = map[string]bool{
	"return": true,
	"if":     true,
	"else":   true,
	"for":    true,
	"while":  true,
	"int":    true,
}

// TwoCharPunctuators are the two-character operators, tried before any
// one-character punctuator so that e.g. "==" is not split into "=" "=".
var TwoCharPunctuators = []string{"==", "!=", "<=", ">="}

// OneCharPunctuators are the single-character punctuators recognized by
// the lexer.
const OneCharPunctuators = "+-*/()<>;={}&,"

// IsKeyword reports whether ident is one of the reserved words.
func IsKeyword(ident string) bool {
	return Keywords[ident]
}
