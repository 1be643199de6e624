package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarumiKiyama/chibicc-rust/internal/ast"
	"github.com/HarumiKiyama/chibicc-rust/internal/lexer"
)

func TestParseReturnNumber(t *testing.T) {
	tokens, err := lexer.Lex("return 42;")
	require.NoError(t, err)

	stmts, _, err := New(tokens).Parse()
	require.NoError(t, err)

	require.Len(t, stmts, 1)
	assert.Equal(t, ast.Return, stmts[0].Kind)
	require.NotNil(t, stmts[0].Lhs)
	assert.Equal(t, ast.Num, stmts[0].Lhs.Kind)
	assert.Equal(t, int32(42), stmts[0].Lhs.Val)
}

func TestParseDeclarationAndUse(t *testing.T) {
	tokens, err := lexer.Lex("{ int a; a = 1; return a; }")
	require.NoError(t, err)

	stmts, table, err := New(tokens).Parse()
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	require.Len(t, stmts[0].Stmts, 3)

	entry := table.Lookup("a")
	require.NotNil(t, entry)
	assert.Equal(t, ast.IntType, entry.Type)
}

func TestParseUndeclaredIdentifierIsError(t *testing.T) {
	tokens, err := lexer.Lex("return a;")
	require.NoError(t, err)

	_, _, err = New(tokens).Parse()
	assert.Error(t, err)
}

func TestParseAssignmentToNonLvalueIsError(t *testing.T) {
	tokens, err := lexer.Lex("{ int a; 1 = a; }")
	require.NoError(t, err)

	_, _, err = New(tokens).Parse()
	assert.Error(t, err)
}

func TestRelationalGreaterThanDesugarsToLt(t *testing.T) {
	tokens, err := lexer.Lex("{ int a; int b; return a > b; }")
	require.NoError(t, err)

	stmts, _, err := New(tokens).Parse()
	require.NoError(t, err)

	cmp := stmts[0].Stmts[2].Lhs
	require.Equal(t, ast.Lt, cmp.Kind)
	assert.Equal(t, "b", cmp.Lhs.Name)
	assert.Equal(t, "a", cmp.Rhs.Name)
}

func TestRelationalGreaterEqualDesugarsToLe(t *testing.T) {
	tokens, err := lexer.Lex("{ int a; int b; return a >= b; }")
	require.NoError(t, err)

	stmts, _, err := New(tokens).Parse()
	require.NoError(t, err)

	cmp := stmts[0].Stmts[2].Lhs
	require.Equal(t, ast.Le, cmp.Kind)
	assert.Equal(t, "b", cmp.Lhs.Name)
	assert.Equal(t, "a", cmp.Rhs.Name)
}

func TestPointerPlusIntScalesRightOperand(t *testing.T) {
	tokens, err := lexer.Lex("{ int *p; int i; return p + i; }")
	require.NoError(t, err)

	stmts, _, err := New(tokens).Parse()
	require.NoError(t, err)

	add := stmts[0].Stmts[2].Lhs
	require.Equal(t, ast.Add, add.Kind)
	assert.Equal(t, "p", add.Lhs.Name)
	require.Equal(t, ast.Mul, add.Rhs.Kind)
	assert.Equal(t, int32(8), add.Rhs.Rhs.Val)
	assert.True(t, add.Type.IsPointer())
}

func TestIntPlusPointerSwapsAndScales(t *testing.T) {
	tokens, err := lexer.Lex("{ int *p; int i; return i + p; }")
	require.NoError(t, err)

	stmts, _, err := New(tokens).Parse()
	require.NoError(t, err)

	add := stmts[0].Stmts[2].Lhs
	require.Equal(t, ast.Add, add.Kind)
	assert.Equal(t, "p", add.Lhs.Name)
	assert.True(t, add.Type.IsPointer())
}

func TestPointerMinusPointerDividesByEight(t *testing.T) {
	tokens, err := lexer.Lex("{ int *p; int *q; return p - q; }")
	require.NoError(t, err)

	stmts, _, err := New(tokens).Parse()
	require.NoError(t, err)

	div := stmts[0].Stmts[2].Lhs
	require.Equal(t, ast.Div, div.Kind)
	require.Equal(t, ast.Sub, div.Lhs.Kind)
	assert.Equal(t, int32(8), div.Rhs.Val)
	assert.False(t, div.Type.IsPointer())
}

func TestPointerPlusPointerIsError(t *testing.T) {
	tokens, err := lexer.Lex("{ int *p; int *q; return p + q; }")
	require.NoError(t, err)

	_, _, err = New(tokens).Parse()
	assert.Error(t, err)
}

func TestIntMinusPointerIsError(t *testing.T) {
	tokens, err := lexer.Lex("{ int i; int *p; return i - p; }")
	require.NoError(t, err)

	_, _, err = New(tokens).Parse()
	assert.Error(t, err)
}

func TestMultiDeclaratorWithInitializers(t *testing.T) {
	tokens, err := lexer.Lex("{ int a = 1, b = 2; return a + b; }")
	require.NoError(t, err)

	stmts, table, err := New(tokens).Parse()
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	require.Len(t, stmts[0].Stmts, 2)

	assert.NotNil(t, table.Lookup("a"))
	assert.NotNil(t, table.Lookup("b"))
}

func TestRedeclarationInSameBlockIsFirstBindingWins(t *testing.T) {
	tokens, err := lexer.Lex("{ int *a; int a; return 0; }")
	require.NoError(t, err)

	_, table, err := New(tokens).Parse()
	require.NoError(t, err)

	entry := table.Lookup("a")
	require.NotNil(t, entry)
	assert.True(t, entry.Type.IsPointer(), "first declaration's type should win")
}

func TestAssignmentInInitializerIsLegal(t *testing.T) {
	tokens, err := lexer.Lex("{ int a; int b = a = 1; return b; }")
	require.NoError(t, err)

	_, _, err = New(tokens).Parse()
	assert.NoError(t, err)
}

func TestWhileDesugarsToForWithNoInitOrInc(t *testing.T) {
	tokens, err := lexer.Lex("{ int i; while (i) i = i - 1; }")
	require.NoError(t, err)

	stmts, _, err := New(tokens).Parse()
	require.NoError(t, err)

	loop := stmts[0].Stmts[1]
	require.Equal(t, ast.For, loop.Kind)
	assert.Nil(t, loop.Init)
	assert.Nil(t, loop.Inc)
	assert.NotNil(t, loop.Cond)
}

func TestIfWithoutElse(t *testing.T) {
	tokens, err := lexer.Lex("if (1) return 1;")
	require.NoError(t, err)

	stmts, _, err := New(tokens).Parse()
	require.NoError(t, err)

	require.Equal(t, ast.If, stmts[0].Kind)
	assert.Nil(t, stmts[0].Els)
}

func TestUnterminatedBlockIsError(t *testing.T) {
	tokens, err := lexer.Lex("{ return 1;")
	require.NoError(t, err)

	_, _, err = New(tokens).Parse()
	assert.Error(t, err)
}
