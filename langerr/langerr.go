// Package langerr defines the two error categories that cross every
// pipeline boundary in the tangram toolchain: ParseError, carrying a
// source offset, and EvalError, which does not.
package langerr

import "fmt"

// ParseError is raised by the lexer or the parser. It is never recovered;
// the pipeline that produced it stops immediately.
type ParseError struct {
	Message string
	Offset  int
}

// NewParseError builds a ParseError at the given source offset.
func NewParseError(offset int, format string, a ...interface{}) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, a...), Offset: offset}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
}

// EvalError is raised by the analyzer or the interpreter. It carries no
// source offset, only a message.
type EvalError struct {
	Message string
}

// NewEvalError builds an EvalError.
func NewEvalError(format string, a ...interface{}) *EvalError {
	return &EvalError{Message: fmt.Sprintf(format, a...)}
}

func (e *EvalError) Error() string {
	return e.Message
}
