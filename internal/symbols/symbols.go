// Package symbols models the built-in types, variables, arrays, callables,
// and the nested lexical scopes the semantic analyzer resolves names against.
package symbols

import "fmt"

// Symbol is anything a Scope can Define and Lookup by name.
type Symbol interface {
	SymbolName() string
}

// BuiltinType is one of the three built-in scalar types. Every Scope is
// pre-populated with the three instances below.
type BuiltinType struct {
	Name string
}

func (t *BuiltinType) SymbolName() string { return t.Name }
func (t *BuiltinType) String() string     { return t.Name }

var (
	Integer = &BuiltinType{Name: "integer"}
	Char    = &BuiltinType{Name: "char"}
	Boolean = &BuiltinType{Name: "boolean"}
)

func builtinTypes() []*BuiltinType { return []*BuiltinType{Integer, Char, Boolean} }

// Var is a scalar variable or a single procedure/function parameter.
// IsField is true exactly when Var is defined in a level-1 (Program) scope,
// in which case it is addressed by name (getstatic/putstatic) rather than
// by Index (jload_N/jstore_N).
type Var struct {
	Name    string
	Type    *BuiltinType
	Index   int
	IsField bool
}

func (v *Var) SymbolName() string { return v.Name }

// Array is a Var whose declared bounds are preserved exactly as written in
// the source so they can be emitted and range-checked without re-formatting.
type Array struct {
	Var
	From string
	To   string
}

// Procedure is a callable symbol with no return value.
type Procedure struct {
	Name   string
	Params []*Var
}

func (p *Procedure) SymbolName() string { return p.Name }

// Function is a Procedure whose result is the target of its body's final assignment.
type Function struct {
	Procedure
	ReturnType *BuiltinType
}

// BuiltinFunction is one of the four built-in I/O routines, handled by the
// semantic visitor's special-cased emission paths rather than invokestatic.
type BuiltinFunction struct {
	Name string
}

func (b *BuiltinFunction) SymbolName() string { return b.Name }

var builtinFunctionNames = []string{"Read", "ReadLn", "Write", "WriteLn"}

// Scope is a lexically nested symbol table: a name-to-symbol mapping with a
// back-reference to its enclosing scope, a textual name, a numeric nesting
// level, and the next slot index to hand out to a local declared here.
type Scope struct {
	name      string
	level     int
	enclosing *Scope
	symbols   map[string]Symbol
	lastIndex int
}

// NewScope creates a scope pre-populated with the built-in types and
// built-in I/O functions. level must be 1 for the outermost (Program) scope.
func NewScope(name string, level int, enclosing *Scope) *Scope {
	s := &Scope{
		name:      name,
		level:     level,
		enclosing: enclosing,
		symbols:   make(map[string]Symbol),
	}
	for _, t := range builtinTypes() {
		s.symbols[t.Name] = t
	}
	for _, name := range builtinFunctionNames {
		s.symbols[name] = &BuiltinFunction{Name: name}
	}
	return s
}

// Enter pushes a new scope one level deeper than s, enclosed by s.
func (s *Scope) Enter(name string) *Scope {
	return NewScope(name, s.level+1, s)
}

// Leave returns the enclosing scope, or nil if s is the outermost scope.
func (s *Scope) Leave() *Scope {
	return s.Enclosing()
}

func (s *Scope) Name() string  { return s.name }
func (s *Scope) Level() int    { return s.level }
func (s *Scope) Enclosing() *Scope { return s.enclosing }

// NextIndex returns the next free local slot index in s and advances the counter.
func (s *Scope) NextIndex() int {
	idx := s.lastIndex
	s.lastIndex++
	return idx
}

// Define installs symbol in s, failing if a symbol of the same name is
// already defined directly in s (enclosing scopes are not consulted).
func (s *Scope) Define(symbol Symbol) error {
	if _, exists := s.symbols[symbol.SymbolName()]; exists {
		return fmt.Errorf("Duplicate identifier '%s' found", symbol.SymbolName())
	}
	s.symbols[symbol.SymbolName()] = symbol
	return nil
}

// Lookup returns the first symbol named name, searching s and, unless
// currentScopeOnly is set, each enclosing scope in turn. Returns nil if
// nothing matches.
func (s *Scope) Lookup(name string, currentScopeOnly bool) Symbol {
	if sym, ok := s.symbols[name]; ok {
		return sym
	}
	if currentScopeOnly || s.enclosing == nil {
		return nil
	}
	return s.enclosing.Lookup(name, false)
}

// LevelOf returns the level of the scope that defines name, or 0 if no
// enclosing scope defines it.
func (s *Scope) LevelOf(name string) int {
	for cur := s; cur != nil; cur = cur.enclosing {
		if _, ok := cur.symbols[name]; ok {
			return cur.level
		}
	}
	return 0
}
