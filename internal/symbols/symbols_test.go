package symbols

import "testing"

func TestNewScopeHasBuiltins(t *testing.T) {
	s := NewScope("Program", 1, nil)
	if s.Lookup("integer", true) == nil {
		t.Fatalf("expected builtin type integer to be defined")
	}
	if s.Lookup("WriteLn", true) == nil {
		t.Fatalf("expected builtin function WriteLn to be defined")
	}
}

func TestDefineRejectsDuplicate(t *testing.T) {
	s := NewScope("Program", 1, nil)
	if err := s.Define(&Var{Name: "x", Type: Integer}); err != nil {
		t.Fatalf("unexpected error defining x: %v", err)
	}
	if err := s.Define(&Var{Name: "x", Type: Integer}); err == nil {
		t.Fatalf("expected duplicate identifier error")
	}
}

func TestLookupFallsThroughToEnclosing(t *testing.T) {
	outer := NewScope("Program", 1, nil)
	outer.Define(&Var{Name: "total", Type: Integer})
	inner := outer.Enter("sum")

	if inner.Lookup("total", true) != nil {
		t.Fatalf("currentScopeOnly lookup should not see outer scope")
	}
	if inner.Lookup("total", false) == nil {
		t.Fatalf("expected lookup to find total in enclosing scope")
	}
	if got := inner.LevelOf("total"); got != 1 {
		t.Fatalf("LevelOf(total) = %d, want 1", got)
	}
}

func TestEnterLeaveLevels(t *testing.T) {
	program := NewScope("Program", 1, nil)
	proc := program.Enter("DoThing")
	if proc.Level() != 2 {
		t.Fatalf("proc.Level() = %d, want 2", proc.Level())
	}
	if proc.Leave() != program {
		t.Fatalf("Leave() did not return enclosing scope")
	}
}

func TestNextIndexIncrements(t *testing.T) {
	s := NewScope("Program", 1, nil)
	if s.NextIndex() != 0 || s.NextIndex() != 1 || s.NextIndex() != 2 {
		t.Fatalf("NextIndex did not return a monotonic sequence starting at 0")
	}
}
