// Package errors formats compiler diagnostics with source context,
// line/column information, and a caret pointing at the offending token.
package errors

import (
	"fmt"
	"strings"

	"github.com/pasc-lang/pasc/internal/lexer"
)

// Kind classifies why compilation was aborted. The compiler reports exactly
// one error per run and stops at the first fault, so Kind exists mainly to
// let callers (tests, the CLI) branch on the failure category.
type Kind string

const (
	ParseError            Kind = "ParseError"
	DuplicateIdentifier   Kind = "DuplicateIdentifier"
	UndefinedSymbol       Kind = "UndefinedSymbol"
	WrongCallArity        Kind = "WrongCallArity"
	IncompatibleTypes     Kind = "IncompatibleTypes"
	ConditionNotBoolean   Kind = "ConditionNotBoolean"
	ArrayIndexOutOfRange  Kind = "ArrayIndexOutOfRange"
	WrongAssignmentType   Kind = "WrongAssignmentType"
	UnknownForUpperBound  Kind = "UnknownForUpperBound"
)

// CompilerError is a single fatal compilation diagnostic.
type CompilerError struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// New creates a CompilerError of the given kind at pos.
func New(kind Kind, pos lexer.Position, message, source, file string) *CompilerError {
	return &CompilerError{Kind: kind, Pos: pos, Message: message, Source: source, File: file}
}

// Error implements the error interface with uncolored, single-line-of-context formatting.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the error with one line of source context and a caret.
// When color is true, ANSI escapes highlight the caret and message.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d: ", e.Kind, e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%s at %d:%d: ", e.Kind, e.Pos.Line, e.Pos.Column))
	}
	sb.WriteString(e.Message)
	sb.WriteString("\n")

	if sourceLine := e.sourceLine(e.Pos.Line); sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
	}

	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
