package semantic

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/pasc-lang/pasc/internal/parser"
)

// TestAssemblyListingSnapshots snapshots the emitted assembly for the
// language's representative programs, one listing per case. Each case
// is expected to compile cleanly; failures in semantic analysis are
// reported directly rather than snapshotted.
func TestAssemblyListingSnapshots(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{
			name: "global_integer_assign",
			source: `Program P;
var a: integer;
begin a:=1; end.`,
		},
		{
			name: "array_decl_and_bounded_assign",
			source: `Program P;
var g: array [1..100] of integer;
begin g[5]:=10; end.`,
		},
		{
			name: "if_else_comparison",
			source: `Program P;
var a, b: integer;
begin
  a := 1;
  b := 2;
  if (a < b) then
    a := b;
  else
    b := a;
end.`,
		},
		{
			name: "while_loop",
			source: `Program P;
var a: integer;
begin
  a := 0;
  while (a < 10) do
    a := a + 1;
end.`,
		},
		{
			name: "for_loop",
			source: `Program P;
var i, s: integer;
begin
  s := 0;
  for (i := 1 to 10) do
    s := s + i;
end.`,
		},
		{
			name: "procedure_and_call",
			source: `Program P;
var total: integer;
procedure Add(x, y: integer);
var sum: integer;
begin
  sum := x + y;
end;
begin
  total := 0;
  Add(1, 2);
end.`,
		},
		{
			name: "function_decl",
			source: `Program P;
var r: integer;
function Square(x: integer): integer;
var result: integer;
begin
  result := x * x;
end;
begin
  r := Square(4);
end.`,
		},
		{
			name: "write_and_writeln",
			source: `Program P;
var a: integer;
begin
  a := 42;
  Write(a);
  WriteLn(a);
end.`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prog, err := parser.ParseProgram(tc.source, "snapshot.pasc")
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			listing, err := AnalyzeAndEmit(prog, tc.source, "snapshot.pasc")
			if err != nil {
				t.Fatalf("analyze failed: %v", err)
			}
			snaps.MatchSnapshot(t, strings.Join(listing, "\n"))
		})
	}
}

// TestCompilationFailureSnapshots snapshots the formatted diagnostic for
// programs that must fail compilation, grounded in the language's
// required failure scenarios (bad array subscripts, duplicate names,
// operator domain violations, scope leaks).
func TestCompilationFailureSnapshots(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{
			name: "array_subscript_out_of_range",
			source: `Program P;
var g: array [1..100] of integer;
begin g[200]:=0; end.`,
		},
		{
			name: "duplicate_declaration",
			source: `Program P;
var a: integer; a: integer;
begin end.`,
		},
		{
			name: "operator_domain_violation",
			source: `Program P;
var a: integer;
begin a := 1 && 2; end.`,
		},
		{
			name: "nested_procedure_scope_leak",
			source: `Program P;
var
procedure t;
var d: integer;
begin
  d := 1;
end;
begin
  d := 2;
end.`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := compileErr(t, tc.source)
			if err == nil {
				t.Fatalf("expected compilation to fail for %s", tc.name)
			}
			snaps.MatchSnapshot(t, err.Error())
		})
	}
}
