// Package parser recognizes the Pascal-subset grammar and builds the typed
// AST the semantic visitor consumes.
//
// The reference grammar drives AST construction by looking up a constructor
// per rule name at parse time; a statically typed parser cannot do that
// lookup, so each grammar rule below is a dedicated parse method that builds
// its AST node directly. The one rule that needs more than "tokens ->
// Constructor(tokens)" is bin_op: a flat sequence of (operand, operator,
// operand, operator, ...) folds left into nested BinOp nodes. That fold is
// factored into foldBinOp and reused by every precedence level instead of
// being repeated at each of the six binary-operator levels.
package parser

import (
	"fmt"

	"github.com/pasc-lang/pasc/internal/ast"
	"github.com/pasc-lang/pasc/internal/errors"
	"github.com/pasc-lang/pasc/internal/lexer"
)

// Parser is a single-use recursive-descent parser over one source buffer.
type Parser struct {
	lex    *lexer.Lexer
	source string
	file   string

	cur  lexer.Token
	peek lexer.Token
}

// New creates a Parser over source. file is used only to annotate errors.
func New(source, file string) *Parser {
	p := &Parser{lex: lexer.New(source), source: source, file: file}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) at(t lexer.TokenType) bool { return p.cur.Type == t }

func (p *Parser) errf(format string, args ...any) error {
	return errors.New(errors.ParseError, p.cur.Pos, fmt.Sprintf(format, args...), p.source, p.file)
}

// expect consumes the current token if it has type t, else fails.
func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if !p.at(t) {
		return lexer.Token{}, p.errf("expected %s, got %s %q", t, p.cur.Type, p.cur.Literal)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

// ParseProgram parses the whole input as a program and requires the lexer to
// reach EOF afterward; trailing garbage is a ParseError.
func ParseProgram(source, file string) (*ast.Program, error) {
	p := New(source, file)
	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.EOF) {
		return nil, p.errf("unexpected trailing token %s %q after program", p.cur.Type, p.cur.Literal)
	}
	return prog, nil
}

// program ::= 'Program' ident ';' vars_decl body '.'
func (p *Parser) parseProgram() (*ast.Program, error) {
	pos := p.cur.Pos
	if _, err := p.expect(lexer.PROGRAM); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	globals, err := p.parseVarsDecl()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.DOT); err != nil {
		return nil, err
	}
	return ast.NewProgram(name, globals, body, pos), nil
}

func (p *Parser) parseIdent() (*ast.Ident, error) {
	tok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	return ast.NewIdent(tok.Literal, tok.Pos), nil
}

// identList ::= ident (',' ident)*
func (p *Parser) parseIdentList() (*ast.IdentList, error) {
	first, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	idents := []*ast.Ident{first}
	for p.at(lexer.COMMA) {
		p.advance()
		next, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		idents = append(idents, next)
	}
	return &ast.IdentList{Idents: idents}, nil
}

var typeSpecTokens = map[lexer.TokenType]ast.BuiltinTypeName{
	lexer.INTEGER: ast.TypeInteger,
	lexer.CHAR:    ast.TypeChar,
	lexer.BOOLEAN: ast.TypeBoolean,
}

// type_spec ::= 'integer' | 'char' | 'boolean'
func (p *Parser) parseTypeSpec() (*ast.TypeSpec, error) {
	name, ok := typeSpecTokens[p.cur.Type]
	if !ok {
		return nil, p.errf("expected a type name (integer, char, boolean), got %q", p.cur.Literal)
	}
	pos := p.cur.Pos
	p.advance()
	return ast.NewTypeSpec(name, pos), nil
}

// literal ::= NUMBER | STRING | 'true' | 'false'
func (p *Parser) parseLiteral() (*ast.Literal, error) {
	tok := p.cur
	switch tok.Type {
	case lexer.NUMBER:
		p.advance()
		return ast.NewLiteral(tok.Literal, parseNumberValue(tok.Literal), ast.CategoryInt, tok.Pos), nil
	case lexer.STRING:
		p.advance()
		return ast.NewLiteral(tok.Literal, unquote(tok.Literal), ast.CategoryStr, tok.Pos), nil
	case lexer.TRUE:
		p.advance()
		return ast.NewLiteral(tok.Literal, true, ast.CategoryBool, tok.Pos), nil
	case lexer.FALSE:
		p.advance()
		return ast.NewLiteral(tok.Literal, false, ast.CategoryBool, tok.Pos), nil
	}
	return nil, p.errf("expected a literal, got %s %q", tok.Type, tok.Literal)
}

func parseNumberValue(lexeme string) any {
	var n int64
	var frac bool
	for _, r := range lexeme {
		switch {
		case r >= '0' && r <= '9' && !frac:
			n = n*10 + int64(r-'0')
		case r == '.' || r == 'e' || r == 'E':
			frac = true
		}
	}
	if frac {
		var f float64
		fmt.Sscanf(lexeme, "%g", &f)
		return f
	}
	return n
}

func unquote(lexeme string) string {
	if len(lexeme) >= 2 {
		return lexeme[1 : len(lexeme)-1]
	}
	return lexeme
}

func isLiteralStart(t lexer.TokenType) bool {
	switch t {
	case lexer.NUMBER, lexer.STRING, lexer.TRUE, lexer.FALSE:
		return true
	}
	return false
}

// group ::= literal | call | ident | '(' expr ')'
func (p *Parser) parseGroup() (ast.Node, error) {
	switch {
	case isLiteralStart(p.cur.Type):
		return p.parseLiteral()
	case p.at(lexer.LPAREN):
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case p.at(lexer.IDENT):
		if p.peek.Type == lexer.LPAREN {
			return p.parseCall()
		}
		return p.parseIdent()
	}
	return nil, p.errf("expected an expression, got %s %q", p.cur.Type, p.cur.Literal)
}

// call ::= ident '(' (expr (',' expr)*)? ')'
func (p *Parser) parseCall() (*ast.Call, error) {
	fn, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Node
	if !p.at(lexer.RPAREN) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.at(lexer.COMMA) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return ast.NewCall(fn, args), nil
}

// opLevel is one precedence rung: a set of operator tokens, each mapped to
// an ast.Op, and the next-tighter rule to parse operands with.
type opLevel struct {
	ops    map[lexer.TokenType]ast.Op
	next   func(*Parser) (ast.Node, error)
	repeat bool // true for ZeroOrMore (left-associative chains), false for Optional (non-associative)
}

// foldBinOp implements the reference grammar's bin_op reduction: parse one
// operand via level.next, then repeatedly (or optionally) consume an
// operator from level.ops followed by another operand, left-folding the
// result into nested BinOp nodes as it goes.
func (p *Parser) foldBinOp(level opLevel) (ast.Node, error) {
	node, err := level.next(p)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := level.ops[p.cur.Type]
		if !ok {
			return node, nil
		}
		pos := p.cur.Pos
		p.advance()
		rhs, err := level.next(p)
		if err != nil {
			return nil, err
		}
		node = ast.NewBinOp(op, node, rhs, pos)
		if !level.repeat {
			return node, nil
		}
	}
}

var multOps = map[lexer.TokenType]ast.Op{
	lexer.ASTERISK: ast.MUL, lexer.SLASH: ast.DIVISION, lexer.MOD: ast.MOD, lexer.DIV: ast.DIV,
}
var addOps = map[lexer.TokenType]ast.Op{lexer.PLUS: ast.ADD, lexer.MINUS: ast.SUB}
var compare1Ops = map[lexer.TokenType]ast.Op{
	lexer.GE: ast.GE, lexer.LE: ast.LE, lexer.GT: ast.GT, lexer.LT: ast.LT,
}
var compare2Ops = map[lexer.TokenType]ast.Op{lexer.EQ: ast.EQ, lexer.NE: ast.NE}
var andOps = map[lexer.TokenType]ast.Op{lexer.AND: ast.LOGICAL_AND}
var orOps = map[lexer.TokenType]ast.Op{lexer.OR: ast.LOGICAL_OR}

func (p *Parser) parseMult() (ast.Node, error) {
	return p.foldBinOp(opLevel{ops: multOps, next: (*Parser).parseGroup, repeat: true})
}
func (p *Parser) parseAdd() (ast.Node, error) {
	return p.foldBinOp(opLevel{ops: addOps, next: (*Parser).parseMult, repeat: true})
}
func (p *Parser) parseCompare1() (ast.Node, error) {
	return p.foldBinOp(opLevel{ops: compare1Ops, next: (*Parser).parseAdd, repeat: false})
}
func (p *Parser) parseCompare2() (ast.Node, error) {
	return p.foldBinOp(opLevel{ops: compare2Ops, next: (*Parser).parseCompare1, repeat: false})
}
func (p *Parser) parseLogicalAnd() (ast.Node, error) {
	return p.foldBinOp(opLevel{ops: andOps, next: (*Parser).parseCompare2, repeat: true})
}
func (p *Parser) parseLogicalOr() (ast.Node, error) {
	return p.foldBinOp(opLevel{ops: orOps, next: (*Parser).parseLogicalAnd, repeat: true})
}

// expr ::= logical_or
func (p *Parser) parseExpr() (ast.Node, error) {
	return p.parseLogicalOr()
}

// target ::= ident | ident '[' literal ']'
func (p *Parser) parseTarget() (ast.Target, error) {
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.LBRACK) {
		return name, nil
	}
	p.advance()
	index, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACK); err != nil {
		return nil, err
	}
	return ast.NewArrayIdent(name, index), nil
}

// assign ::= ident ':=' expr   (ident may be subscripted: array assignment)
func (p *Parser) parseAssign() (*ast.Assign, error) {
	pos := p.cur.Pos
	target, err := p.parseTarget()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewAssign(target, val, pos), nil
}

// simple_stmt ::= assign | call
func (p *Parser) parseSimpleStmt() (ast.Node, error) {
	if p.peek.Type == lexer.LPAREN {
		return p.parseCall()
	}
	return p.parseAssign()
}

// stmt ::= if | for | while | repeat | comp_op | simple_stmt ';'
func (p *Parser) parseStmt() (ast.Node, error) {
	switch p.cur.Type {
	case lexer.IF:
		return p.parseIf()
	case lexer.FOR:
		return p.parseFor()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.REPEAT:
		return p.parseRepeat()
	case lexer.BEGIN:
		return p.parseCompOp()
	default:
		stmt, err := p.parseSimpleStmt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMICOLON); err != nil {
			return nil, err
		}
		return stmt, nil
	}
}

// if ::= 'if' '(' expr ')' 'then' stmt ('else' stmt)?
func (p *Parser) parseIf() (*ast.If, error) {
	pos := p.cur.Pos
	p.advance()
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.THEN); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	var els ast.Node
	if p.at(lexer.ELSE) {
		p.advance()
		els, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIf(cond, then, els, pos), nil
}

// while ::= 'while' '(' expr ')' 'do' stmt
func (p *Parser) parseWhile() (*ast.While, error) {
	pos := p.cur.Pos
	p.advance()
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.DO); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(cond, body, pos), nil
}

// repeat ::= 'repeat' stmt_list 'until' '(' expr ')'
func (p *Parser) parseRepeat() (*ast.Repeat, error) {
	pos := p.cur.Pos
	p.advance()
	body, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.UNTIL); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return ast.NewRepeat(body, cond, pos), nil
}

// for ::= 'for' '(' assign 'to' literal ')' 'do' (stmt | ';')
func (p *Parser) parseFor() (*ast.For, error) {
	pos := p.cur.Pos
	p.advance()
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	init, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TO); err != nil {
		return nil, err
	}
	to, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.DO); err != nil {
		return nil, err
	}
	var body ast.Node
	if p.at(lexer.SEMICOLON) {
		p.advance()
		body = ast.NewStmtList(pos)
	} else {
		body, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewFor(init, to, body, pos), nil
}

// comp_op ::= 'begin' stmt_list 'end' ';'
func (p *Parser) parseCompOp() (ast.Node, error) {
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return body, nil
}

// body ::= 'begin' stmt_list 'end'
func (p *Parser) parseBody() (*ast.Body, error) {
	pos := p.cur.Pos
	if _, err := p.expect(lexer.BEGIN); err != nil {
		return nil, err
	}
	stmts, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.END); err != nil {
		return nil, err
	}
	return ast.NewBody(stmts, pos), nil
}

func stmtStart(t lexer.TokenType) bool {
	switch t {
	case lexer.IF, lexer.FOR, lexer.WHILE, lexer.REPEAT, lexer.BEGIN, lexer.IDENT:
		return true
	}
	return false
}

// stmt_list ::= (stmt ';'*)*
func (p *Parser) parseStmtList() (*ast.StmtList, error) {
	pos := p.cur.Pos
	var stmts []ast.Node
	for stmtStart(p.cur.Type) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		for p.at(lexer.SEMICOLON) {
			p.advance()
		}
	}
	return ast.NewStmtList(pos, stmts...), nil
}

// var_decl ::= ident_list ':' type_spec ';'
// array_decl ::= ident_list ':' 'array' '[' literal '..' literal ']' 'of' type_spec ';'
func (p *Parser) parseVarOrArrayDecl() (ast.Node, error) {
	idents, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	if p.at(lexer.ARRAY) {
		p.advance()
		if _, err := p.expect(lexer.LBRACK); err != nil {
			return nil, err
		}
		from, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.DOTDOT); err != nil {
			return nil, err
		}
		to, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBRACK); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.OF); err != nil {
			return nil, err
		}
		typ, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.ArrayDecl{Idents: idents, From: from, To: to, Type: typ}, nil
	}
	typ, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Idents: idents, Type: typ}, nil
}

// vars_decl ::= 'var' (var_decl | procedure | function | array_decl)*
func (p *Parser) parseVarsDecl() (*ast.VarsDecl, error) {
	pos := p.cur.Pos
	if !p.at(lexer.VAR) {
		return ast.NewVarsDecl(pos), nil
	}
	p.advance()
	var decls []ast.Node
	for {
		switch p.cur.Type {
		case lexer.PROCEDURE:
			decl, err := p.parseProcedureDecl()
			if err != nil {
				return nil, err
			}
			decls = append(decls, decl)
		case lexer.FUNCTION:
			decl, err := p.parseFunctionDecl()
			if err != nil {
				return nil, err
			}
			decls = append(decls, decl)
		case lexer.IDENT:
			decl, err := p.parseVarOrArrayDecl()
			if err != nil {
				return nil, err
			}
			decls = append(decls, decl)
		default:
			return ast.NewVarsDecl(pos, decls...), nil
		}
	}
}

// params ::= (ident_list ':' type_spec ';')* ident_list ':' type_spec
func (p *Parser) parseParams() (*ast.Params, error) {
	var groups []*ast.VarDecl
	for {
		idents, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		typ, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		groups = append(groups, &ast.VarDecl{Idents: idents, Type: typ})
		if !p.at(lexer.SEMICOLON) {
			break
		}
		p.advance()
	}
	return &ast.Params{Groups: groups}, nil
}

func (p *Parser) parseOptionalParamList() (*ast.Params, error) {
	if !p.at(lexer.LPAREN) {
		return &ast.Params{}, nil
	}
	p.advance()
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

// procedure ::= 'procedure' ident ('(' params ')')? ';' vars_decl body ';'
func (p *Parser) parseProcedureDecl() (*ast.ProcedureDecl, error) {
	pos := p.cur.Pos
	p.advance()
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	params, err := p.parseOptionalParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	locals, err := p.parseVarsDecl()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return ast.NewProcedureDecl(name, params, locals, body, pos), nil
}

// function ::= 'function' ident ('(' params ')')? (':' type_spec)? ';' vars_decl body ';'
func (p *Parser) parseFunctionDecl() (*ast.FunctionDecl, error) {
	pos := p.cur.Pos
	p.advance()
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	params, err := p.parseOptionalParamList()
	if err != nil {
		return nil, err
	}
	var returnType *ast.TypeSpec
	if p.at(lexer.COLON) {
		p.advance()
		returnType, err = p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	locals, err := p.parseVarsDecl()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return ast.NewFunctionDecl(name, params, returnType, locals, body, pos), nil
}
