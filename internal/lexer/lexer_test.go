package lexer

import (
	"testing"

	"github.com/HarumiKiyama/chibicc-rust/internal/token"
)

func collect(t *testing.T, src string) []token.Token {
	t.Helper()
	q, err := Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q) returned unexpected error: %v", src, err)
	}
	return q.Tokens()
}

func TestLexSimpleExpression(t *testing.T) {
	tokens := collect(t, "1 + 2 * 3;")

	want := []token.Token{
		{Kind: token.Number, Literal: "1", Value: 1},
		{Kind: token.Punctuator, Literal: "+"},
		{Kind: token.Number, Literal: "2", Value: 2},
		{Kind: token.Punctuator, Literal: "*"},
		{Kind: token.Number, Literal: "3", Value: 3},
		{Kind: token.Punctuator, Literal: ";"},
		{Kind: token.EOF},
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(want), tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token[%d] = %+v, want %+v", i, tokens[i], want[i])
		}
	}
}

func TestLexTwoCharPunctuatorsBeforeOneChar(t *testing.T) {
	tokens := collect(t, "a <= b != c")

	lits := []string{"a", "<=", "b", "!=", "c"}
	for i, want := range lits {
		if tokens[i].Literal != want {
			t.Errorf("token[%d].Literal = %q, want %q", i, tokens[i].Literal, want)
		}
	}
}

func TestLexKeywordsBecomePunctuators(t *testing.T) {
	tokens := collect(t, "if return int")

	for i, want := range []string{"if", "return", "int"} {
		if tokens[i].Kind != token.Punctuator || tokens[i].Literal != want {
			t.Errorf("token[%d] = %+v, want Punctuator %q", i, tokens[i], want)
		}
	}
}

func TestLexIdentifierNotKeyword(t *testing.T) {
	tokens := collect(t, "iffy")

	if tokens[0].Kind != token.Identifier || tokens[0].Literal != "iffy" {
		t.Fatalf("token[0] = %+v, want Identifier %q", tokens[0], "iffy")
	}
}

func TestLexRejectsUnexpectedCharacter(t *testing.T) {
	_, err := Lex("1 @ 2")
	if err == nil {
		t.Fatal("expected a lexical error for '@', got nil")
	}
}

func TestLexRejectsOutOfRangeLiteral(t *testing.T) {
	_, err := Lex("99999999999")
	if err == nil {
		t.Fatal("expected a lexical error for an out-of-range literal, got nil")
	}
}

func TestLexCommaForMultiDeclarator(t *testing.T) {
	tokens := collect(t, "int a, b;")
	lits := []string{"int", "a", ",", "b", ";"}
	for i, want := range lits {
		if tokens[i].Literal != want {
			t.Errorf("token[%d].Literal = %q, want %q", i, tokens[i].Literal, want)
		}
	}
}
