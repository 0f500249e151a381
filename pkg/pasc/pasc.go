// Package pasc is the public surface of the compiler core: parsing,
// combined semantic analysis and code emission, and an AST tree-printer.
// Everything outside this package (argument handling, file I/O) is a
// caller's concern, not the core's.
package pasc

import (
	"github.com/pasc-lang/pasc/internal/ast"
	"github.com/pasc-lang/pasc/internal/parser"
	"github.com/pasc-lang/pasc/internal/semantic"
)

// Parse recognizes source as a program and returns its AST root. file
// names the source for diagnostics; pass "" when there is none.
func Parse(source, file string) (*ast.Program, error) {
	return parser.ParseProgram(source, file)
}

// AnalyzeAndEmit runs the semantic visitor over prog and returns the
// finalized assembly listing, one instruction or directive per line.
func AnalyzeAndEmit(prog *ast.Program, source, file string) ([]string, error) {
	return semantic.AnalyzeAndEmit(prog, source, file)
}

// FormatTree renders prog as a box-drawing tree for debugging.
func FormatTree(prog *ast.Program) []string {
	return ast.FormatTree(prog)
}

// Compile parses and then analyzes/emits source in one call, returning
// both the AST and the finalized listing.
func Compile(source, file string) (*ast.Program, []string, error) {
	prog, err := Parse(source, file)
	if err != nil {
		return nil, nil, err
	}
	listing, err := AnalyzeAndEmit(prog, source, file)
	if err != nil {
		return prog, nil, err
	}
	return prog, listing, nil
}
