// Package emitter accumulates the textual assembly listing the semantic
// visitor produces, and hands out label numbers for nested control flow.
package emitter

import "fmt"

// Emitter is an append-only instruction listing plus a label counter. It
// has no notion of the AST or of scopes; it only ever appends lines or
// increments the counter, in the order the caller asks it to.
type Emitter struct {
	lines     []string
	lastIndex int
}

// New creates an empty Emitter.
func New() *Emitter {
	return &Emitter{}
}

// Add appends one instruction or directive line to the listing.
func (e *Emitter) Add(line string) {
	e.lines = append(e.lines, line)
}

// Addf appends a formatted instruction line.
func (e *Emitter) Addf(format string, args ...any) {
	e.Add(fmt.Sprintf(format, args...))
}

// Lines returns the finalized listing in emission order.
func (e *Emitter) Lines() []string {
	return e.lines
}

// LastIndex returns the current label counter without consuming it.
func (e *Emitter) LastIndex() int {
	return e.lastIndex
}

// NextLabel returns the current label counter and advances it by one, for
// constructs (if/while) that need a fresh, unique numeric suffix.
func (e *Emitter) NextLabel() int {
	n := e.lastIndex
	e.lastIndex++
	return n
}
