// Package cerr holds the single error type shared by every stage of the
// compiler pipeline.
package cerr

import "fmt"

// Stage identifies which pipeline stage raised an Error.
type Stage string

// The three stages that can fail, per spec.
const (
	Lex     Stage = "lex"
	Parse   Stage = "parse"
	Codegen Stage = "codegen"
)

// Error is the one error type the lexer, parser and code generator return.
// It is always fatal: there is no recovery, and the compiler aborts as
// soon as one is produced.
type Error struct {
	Stage   Stage
	Message string
}

// New creates an Error for the given stage.
func New(stage Stage, format string, args ...interface{}) *Error {
	return &Error{Stage: stage, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s", e.Stage, e.Message)
}
