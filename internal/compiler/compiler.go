// Package compiler wires the lexer, parser and code generator together
// behind the small public API the CLI drives.
package compiler

import (
	"os"

	"github.com/fatih/color"

	"github.com/HarumiKiyama/chibicc-rust/internal/codegen"
	"github.com/HarumiKiyama/chibicc-rust/internal/lexer"
	"github.com/HarumiKiyama/chibicc-rust/internal/parser"
)

// Compiler holds the source program and the handful of options that
// affect how it is compiled.
type Compiler struct {
	// source holds the C-subset program text we're compiling.
	source string

	// debug controls whether diagnostic output is produced alongside
	// the generated assembly; reserved for the CLI's -debug flag.
	debug bool
}

// New creates a new compiler for the given program source.
func New(source string) *Compiler {
	return &Compiler{source: source}
}

// SetDebug changes the debug-flag for this compilation.
func (c *Compiler) SetDebug(val bool) {
	c.debug = val
}

// Compile runs the full pipeline — lex, parse (building the AST and
// symbol table), generate — and returns the resulting AT&T-syntax
// assembly text. Any stage failure aborts immediately with a *cerr.Error.
func (c *Compiler) Compile() (string, error) {
	tokens, err := lexer.Lex(c.source)
	if err != nil {
		return "", err
	}
	if c.debug {
		color.New(color.FgCyan).Fprintf(os.Stderr, "[debug] lexed %d tokens\n", len(tokens.Tokens()))
	}

	stmts, table, err := parser.New(tokens).Parse()
	if err != nil {
		return "", err
	}
	if c.debug {
		color.New(color.FgCyan).Fprintf(os.Stderr, "[debug] parsed %d top-level statements, frame needs %d locals\n", len(stmts), table.Len())
	}

	return codegen.Generate(stmts, table)
}
