package semantic

import (
	"strings"
	"testing"

	"github.com/pasc-lang/pasc/internal/errors"
	"github.com/pasc-lang/pasc/internal/parser"
)

func compile(t *testing.T, source string) []string {
	t.Helper()
	prog, err := parser.ParseProgram(source, "test.pasc")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	listing, err := AnalyzeAndEmit(prog, source, "test.pasc")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	return listing
}

func compileErr(t *testing.T, source string) error {
	t.Helper()
	prog, err := parser.ParseProgram(source, "test.pasc")
	if err != nil {
		return err
	}
	_, err = AnalyzeAndEmit(prog, source, "test.pasc")
	return err
}

func indexOf(lines []string, needle string) int {
	for i, l := range lines {
		if strings.Contains(l, needle) {
			return i
		}
	}
	return -1
}

func TestGlobalIntegerDeclarationAndAssignment(t *testing.T) {
	listing := compile(t, `Program P;
var a: integer;
begin a:=1; end.`)

	want := []string{".class public P", ".field public static a I", "ldc 1", "putstatic P/a I", "return", ".end method"}
	last := -1
	for _, w := range want {
		idx := indexOf(listing, w)
		if idx == -1 {
			t.Fatalf("listing missing %q, got:\n%s", w, strings.Join(listing, "\n"))
		}
		if idx < last {
			t.Fatalf("expected %q after index %d, found at %d", w, last, idx)
		}
		last = idx
	}
}

func TestArrayDeclarationAndBoundedAssignment(t *testing.T) {
	listing := compile(t, `Program P; var g: array [1..100] of integer; begin g[5]:=10; end.`)

	want := []string{
		".field public static g [I",
		"ldc 100", "newarray int", "putstatic P/g [I",
		"getstatic P/g [I", "ldc 5", "ldc 10", "iastore",
	}
	last := -1
	for _, w := range want {
		if indexOf(listing, w) == -1 {
			t.Fatalf("listing missing %q, got:\n%s", w, strings.Join(listing, "\n"))
		}
		// Search only past the previous match: indexOf matches substrings,
		// so "ldc 10" would otherwise be found in the earlier "ldc 100".
		idx := last + 1 + indexOf(listing[last+1:], w)
		if idx <= last {
			t.Fatalf("expected %q after index %d, found at %d", w, last, idx)
		}
		last = idx
	}
}

func TestArraySubscriptOutOfRange(t *testing.T) {
	err := compileErr(t, `Program P; var g: array [1..100] of integer; begin g[200]:=0; end.`)
	if err == nil {
		t.Fatalf("expected an ArrayIndexOutOfRange error")
	}
	ce, ok := err.(*errors.CompilerError)
	if !ok || ce.Kind != errors.ArrayIndexOutOfRange {
		t.Fatalf("error = %v, want ArrayIndexOutOfRange", err)
	}
}

func TestDuplicateDeclaration(t *testing.T) {
	err := compileErr(t, `Program P; var a: integer; a: integer; begin end.`)
	ce, ok := err.(*errors.CompilerError)
	if !ok || ce.Kind != errors.DuplicateIdentifier {
		t.Fatalf("error = %v, want DuplicateIdentifier", err)
	}
}

func TestOperatorDomainViolation(t *testing.T) {
	err := compileErr(t, `Program P; var a: integer; begin a := 1 && 2; end.`)
	ce, ok := err.(*errors.CompilerError)
	if !ok || ce.Kind != errors.IncompatibleTypes {
		t.Fatalf("error = %v, want IncompatibleTypes", err)
	}
}

func TestNestedProcedureScopeIsNotVisibleOutside(t *testing.T) {
	err := compileErr(t, `Program P;
var
  procedure t;
  var d: integer;
  begin
    d := 1;
  end;
begin
  d := 2;
end.`)
	ce, ok := err.(*errors.CompilerError)
	if !ok || ce.Kind != errors.UndefinedSymbol {
		t.Fatalf("error = %v, want UndefinedSymbol", err)
	}
}

func TestComparisonEmitsSwapPlaceholderAndIfEmitsBranch(t *testing.T) {
	listing := compile(t, `Program P;
var a: integer;
begin
  if (a == 1) then a := 2;
end.`)
	if indexOf(listing, "swap") == -1 {
		t.Fatalf("expected the comparison's placeholder 'swap' opcode, got:\n%s", strings.Join(listing, "\n"))
	}
	if indexOf(listing, "if_icmpeq") == -1 {
		t.Fatalf("expected an if_icmpeq branch, got:\n%s", strings.Join(listing, "\n"))
	}
}

func TestDivEmitsRemainder(t *testing.T) {
	listing := compile(t, `Program P; var a: integer; begin a := 7 div 2; end.`)
	if indexOf(listing, "irem") == -1 {
		t.Fatalf("expected DIV to emit irem, got:\n%s", strings.Join(listing, "\n"))
	}
}

func TestWriteLnAlwaysEmitsPrintlnInt(t *testing.T) {
	listing := compile(t, `Program P; var a: integer; begin WriteLn(a); end.`)
	if indexOf(listing, "println(I)V") == -1 {
		t.Fatalf("expected println(I)V regardless of argument type, got:\n%s", strings.Join(listing, "\n"))
	}
}

func TestFunctionReturnsLastAssignmentTarget(t *testing.T) {
	listing := compile(t, `Program P;
var
  function Sq(n: integer): integer; var result: integer; begin result := n * n; end;
begin
  Sq(3);
end.`)
	idx := indexOf(listing, ".method public static Sq(I)I")
	if idx == -1 {
		t.Fatalf("expected Sq's method header, got:\n%s", strings.Join(listing, "\n"))
	}
	if indexOf(listing, "ireturn") == -1 {
		t.Fatalf("expected an ireturn derived from the last assignment, got:\n%s", strings.Join(listing, "\n"))
	}
}

func TestWrongCallArity(t *testing.T) {
	err := compileErr(t, `Program P;
var
  procedure Greet(n: integer);
  var
  begin
  end;
begin
  Greet(1, 2);
end.`)
	ce, ok := err.(*errors.CompilerError)
	if !ok || ce.Kind != errors.WrongCallArity {
		t.Fatalf("error = %v, want WrongCallArity", err)
	}
}
