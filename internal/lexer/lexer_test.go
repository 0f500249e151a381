package lexer

import "testing"

func TestNextTokenProgram(t *testing.T) {
	input := `Program P;
var a: integer;
begin a:=1; end.`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{PROGRAM, "Program"},
		{IDENT, "P"},
		{SEMICOLON, ";"},
		{VAR, "var"},
		{IDENT, "a"},
		{COLON, ":"},
		{INTEGER, "integer"},
		{SEMICOLON, ";"},
		{BEGIN, "begin"},
		{IDENT, "a"},
		{ASSIGN, ":="},
		{NUMBER, "1"},
		{SEMICOLON, ";"},
		{END, "end"},
		{DOT, "."},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	for _, lit := range []string{"PROGRAM", "Program", "program", "PrOgRaM"} {
		if got := LookupIdent(lit); got != PROGRAM {
			t.Errorf("LookupIdent(%q) = %s, want PROGRAM", lit, got)
		}
	}
	if got := LookupIdent("programmer"); got != IDENT {
		t.Errorf("LookupIdent(%q) = %s, want IDENT", "programmer", got)
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * / mod div >= <= > < == != && || := . .. [ ] ( ) ; , :`
	expected := []TokenType{
		PLUS, MINUS, ASTERISK, SLASH, MOD, DIV,
		GE, LE, GT, LT, EQ, NE, AND, OR,
		ASSIGN, DOT, DOTDOT, LBRACK, RBRACK, LPAREN, RPAREN, SEMICOLON, COMMA, COLON, EOF,
	}
	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: got %s, want %s", i, tok.Type, want)
		}
	}
}

func TestStringLiteralKeepsQuotesAndEscapes(t *testing.T) {
	l := New(`"hello \"world\""`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("got %s, want STRING", tok.Type)
	}
	want := `"hello \"world\""`
	if tok.Literal != want {
		t.Fatalf("literal = %q, want %q", tok.Literal, want)
	}
}

func TestNumberLiteralVariants(t *testing.T) {
	tests := []string{"123", "1.5", "1.5e10", "1.5E-3", "1e5", "200"}
	for _, src := range tests {
		l := New(src)
		tok := l.NextToken()
		if tok.Type != NUMBER || tok.Literal != src {
			t.Errorf("New(%q).NextToken() = %s(%q), want NUMBER(%q)", src, tok.Type, tok.Literal, src)
		}
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	input := "a /* block\ncomment */ b // line comment\nc"
	l := New(input)
	var got []string
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		got = append(got, tok.Literal)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestUnterminatedStringRecordsError(t *testing.T) {
	l := New(`"unterminated`)
	l.NextToken()
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 lexer error, got %d", len(l.Errors()))
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	l := New("a\nbb")
	first := l.NextToken()
	if first.Pos.Line != 1 || first.Pos.Column != 1 {
		t.Fatalf("first token pos = %v, want line 1 col 1", first.Pos)
	}
	second := l.NextToken()
	if second.Pos.Line != 2 || second.Pos.Column != 1 {
		t.Fatalf("second token pos = %v, want line 2 col 1", second.Pos)
	}
}
