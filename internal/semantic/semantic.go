// Package semantic walks the AST once, resolving names against nested
// scopes, checking operator and assignment type compatibility, and
// emitting the corresponding assembly instructions as it goes. Analysis
// and emission are not two passes: each AST node is both checked and
// turned into code in the same visit.
package semantic

import (
	"fmt"

	"github.com/pasc-lang/pasc/internal/ast"
	"github.com/pasc-lang/pasc/internal/emitter"
	"github.com/pasc-lang/pasc/internal/errors"
	"github.com/pasc-lang/pasc/internal/lexer"
	"github.com/pasc-lang/pasc/internal/symbols"
)

// assemblerLetter maps a built-in type name to its JVM-family signature letter.
var assemblerLetter = map[string]string{
	"integer": "I", "char": "C", "boolean": "Z",
}

// categoryAlias translates a literal's dynamic value category to the
// built-in type name it corresponds to.
var categoryAlias = map[string]string{
	"int": "integer", "str": "char", "bool": "boolean",
}

func alias(t string) string {
	if a, ok := categoryAlias[t]; ok {
		return a
	}
	return t
}

// binOpArgTypes lists the operand types each operator accepts.
var binOpArgTypes = map[ast.Op][]string{
	ast.ADD: {"integer", "char"}, ast.SUB: {"integer"}, ast.MUL: {"integer"},
	ast.DIVISION: {"integer"}, ast.DIV: {"integer"}, ast.MOD: {"integer"},
	ast.GE: {"integer", "char"}, ast.LE: {"integer", "char"}, ast.GT: {"integer", "char"}, ast.LT: {"integer", "char"},
	ast.NE: {"integer", "char", "boolean"}, ast.EQ: {"integer", "char", "boolean"},
	ast.LOGICAL_AND: {"boolean"}, ast.LOGICAL_OR: {"boolean"},
}

// binOpReturnType is the operator's result type, or "" when the result
// follows the (already alias-translated) operand type.
var binOpReturnType = map[ast.Op]string{
	ast.GE: "boolean", ast.LE: "boolean", ast.GT: "boolean", ast.LT: "boolean",
	ast.NE: "boolean", ast.EQ: "boolean", ast.LOGICAL_AND: "boolean", ast.LOGICAL_OR: "boolean",
}

func isValidOperand(op ast.Op, t string) bool {
	for _, allowed := range binOpArgTypes[op] {
		if allowed == t {
			return true
		}
	}
	return false
}

func returnType(op ast.Op, operandType string) string {
	if t, ok := binOpReturnType[op]; ok {
		return t
	}
	return operandType
}

// typeCheck mirrors the reference type checker: unknown (empty) types are
// always compatible, and a raw category is compatible with its aliased
// built-in type as well as with itself.
func typeCheck(a, b string) bool {
	if a == "" || b == "" || a == b {
		return true
	}
	if alias(a) == b || alias(b) == a {
		return true
	}
	return false
}

// Visitor performs the combined semantic analysis and code emission walk.
type Visitor struct {
	scope       *symbols.Scope
	globalScope *symbols.Scope
	emitter     *emitter.Emitter
	arraysInit  []string
	source      string
	file        string
}

// programName is the class name every getstatic/putstatic/invokestatic
// target is qualified with: the name of the outermost (Program) scope.
func (v *Visitor) programName() string { return v.globalScope.Name() }

// AnalyzeAndEmit walks prog, type-checking and resolving names against
// nested scopes, and returns the finalized assembly listing. source and
// file are used only to annotate diagnostics with source context.
func AnalyzeAndEmit(prog *ast.Program, source, file string) ([]string, error) {
	v := &Visitor{emitter: emitter.New(), source: source, file: file}
	if err := v.visitProgram(prog); err != nil {
		return nil, err
	}
	return v.emitter.Lines(), nil
}

func (v *Visitor) errf(kind errors.Kind, pos lexer.Position, format string, args ...any) error {
	return errors.New(kind, pos, fmt.Sprintf(format, args...), v.source, v.file)
}

func (v *Visitor) enter(name string) { v.scope = v.scope.Enter(name) }
func (v *Visitor) leave()            { v.scope = v.scope.Leave() }

func (v *Visitor) visitProgram(p *ast.Program) error {
	v.scope = symbols.NewScope(p.Name.Name, 1, nil)
	v.globalScope = v.scope

	v.emitter.Addf(".class public %s", p.Name.Name)
	v.emitter.Add(".super java/lang/Object")

	if err := v.visitVarsDecl(p.Globals); err != nil {
		return err
	}

	v.emitter.Add(".method public static main([Ljava/lang/String;)V")
	v.emitter.Add(".limit stack 100")
	v.emitter.Add(".limit locals 100")
	for _, line := range v.arraysInit {
		v.emitter.Add(line)
	}
	if err := v.visitStmtList(p.Body.Stmts); err != nil {
		return err
	}
	v.emitter.Add("return")
	v.emitter.Add(".end method")

	v.leave()
	return nil
}

func (v *Visitor) visitVarsDecl(decl *ast.VarsDecl) error {
	for _, d := range decl.Decls {
		if err := v.visitDecl(d); err != nil {
			return err
		}
	}
	return nil
}

func (v *Visitor) visitDecl(node ast.Node) error {
	switch n := node.(type) {
	case *ast.VarDecl:
		return v.visitVarDecl(n)
	case *ast.ArrayDecl:
		return v.visitArrayDecl(n)
	case *ast.ProcedureDecl:
		return v.visitProcedureDecl(n)
	case *ast.FunctionDecl:
		return v.visitFunctionDecl(n)
	}
	return v.errf(errors.ParseError, node.Pos(), "unexpected declaration node %T", node)
}

func builtinTypeFor(name ast.BuiltinTypeName) *symbols.BuiltinType {
	switch name {
	case ast.TypeInteger:
		return symbols.Integer
	case ast.TypeChar:
		return symbols.Char
	case ast.TypeBoolean:
		return symbols.Boolean
	}
	return nil
}

func (v *Visitor) visitVarDecl(decl *ast.VarDecl) error {
	typ := builtinTypeFor(decl.Type.Name)
	isField := v.scope.Level() == 1
	for _, ident := range decl.Idents.Idents {
		if v.scope.Lookup(ident.Name, true) != nil {
			return v.errf(errors.DuplicateIdentifier, ident.Pos(), "Duplicate identifier '%s' found", ident.Name)
		}
		sym := &symbols.Var{Name: ident.Name, Type: typ, Index: v.scope.NextIndex(), IsField: isField}
		if err := v.scope.Define(sym); err != nil {
			return v.errf(errors.DuplicateIdentifier, ident.Pos(), "%s", err)
		}
		if isField {
			v.emitter.Addf(".field public static %s %s", ident.Name, assemblerLetter[typ.Name])
		}
	}
	return nil
}

func (v *Visitor) visitArrayDecl(decl *ast.ArrayDecl) error {
	typ := builtinTypeFor(decl.Type.Name)
	isField := v.scope.Level() == 1
	for _, ident := range decl.Idents.Idents {
		if v.scope.Lookup(ident.Name, true) != nil {
			return v.errf(errors.DuplicateIdentifier, ident.Pos(), "Duplicate identifier '%s' found", ident.Name)
		}
		sym := &symbols.Array{
			Var:  symbols.Var{Name: ident.Name, Type: typ, Index: v.scope.NextIndex(), IsField: isField},
			From: decl.From.Lexeme,
			To:   decl.To.Lexeme,
		}
		if err := v.scope.Define(sym); err != nil {
			return v.errf(errors.DuplicateIdentifier, ident.Pos(), "%s", err)
		}
		if isField {
			letter := assemblerLetter[typ.Name]
			v.emitter.Addf(".field public static %s [%s", ident.Name, letter)
			v.arraysInit = append(v.arraysInit,
				fmt.Sprintf("ldc %s", decl.To.Lexeme),
				"newarray int",
				fmt.Sprintf("putstatic %s/%s [%s", v.programName(), ident.Name, letter))
		}
	}
	return nil
}

func (v *Visitor) visitProcedureDecl(decl *ast.ProcedureDecl) error {
	procSym := &symbols.Procedure{Name: decl.Name.Name}
	if err := v.scope.Define(procSym); err != nil {
		return v.errf(errors.DuplicateIdentifier, decl.Name.Pos(), "%s", err)
	}

	v.enter(decl.Name.Name)
	for _, group := range decl.Params.Groups {
		typ := builtinTypeFor(group.Type.Name)
		for _, ident := range group.Idents.Idents {
			param := &symbols.Var{Name: ident.Name, Type: typ, Index: v.scope.NextIndex()}
			if err := v.scope.Define(param); err != nil {
				return v.errf(errors.DuplicateIdentifier, ident.Pos(), "%s", err)
			}
			procSym.Params = append(procSym.Params, param)
		}
	}

	v.emitter.Addf(".method public static %s(%s)V", decl.Name.Name, paramSignature(procSym.Params))
	v.emitter.Add(".limit stack 100")
	v.emitter.Add(".limit locals 100")

	if err := v.visitVarsDecl(decl.Locals); err != nil {
		return err
	}
	if err := v.visitStmtList(decl.Body.Stmts); err != nil {
		return err
	}

	v.emitter.Add("return")
	v.emitter.Add(".end method")
	v.leave()
	return nil
}

// visitFunctionDecl follows the reference convention that a function's
// result is whatever its body's final statement assigned, not an explicit
// return expression.
func (v *Visitor) visitFunctionDecl(decl *ast.FunctionDecl) error {
	if decl.ReturnType == nil {
		return v.errf(errors.ParseError, decl.Pos(), "function '%s' has no return type", decl.Name.Name)
	}
	retType := builtinTypeFor(decl.ReturnType.Name)
	funcSym := &symbols.Function{Procedure: symbols.Procedure{Name: decl.Name.Name}, ReturnType: retType}
	if err := v.scope.Define(funcSym); err != nil {
		return v.errf(errors.DuplicateIdentifier, decl.Name.Pos(), "%s", err)
	}

	v.enter(decl.Name.Name)
	for _, group := range decl.Params.Groups {
		typ := builtinTypeFor(group.Type.Name)
		for _, ident := range group.Idents.Idents {
			param := &symbols.Var{Name: ident.Name, Type: typ, Index: v.scope.NextIndex()}
			if err := v.scope.Define(param); err != nil {
				return v.errf(errors.DuplicateIdentifier, ident.Pos(), "%s", err)
			}
			funcSym.Params = append(funcSym.Params, param)
		}
	}

	v.emitter.Addf(".method public static %s(%s)%s", decl.Name.Name, paramSignature(funcSym.Params), assemblerLetter[retType.Name])
	v.emitter.Add(".limit stack 100")
	v.emitter.Add(".limit locals 100")

	if err := v.visitVarsDecl(decl.Locals); err != nil {
		return err
	}
	if err := v.visitStmtList(decl.Body.Stmts); err != nil {
		return err
	}

	stmts := decl.Body.Stmts.Stmts
	if len(stmts) == 0 {
		return v.errf(errors.ParseError, decl.Pos(), "function '%s' has an empty body; no value to return", decl.Name.Name)
	}
	last, ok := stmts[len(stmts)-1].(*ast.Assign)
	if !ok {
		return v.errf(errors.ParseError, decl.Pos(), "function '%s' must end with an assignment to yield its result", decl.Name.Name)
	}
	resultName := last.Var.(*ast.Ident).Name
	resultSym := v.scope.Lookup(resultName, false)
	resultVar, ok := resultSym.(*symbols.Var)
	if !ok {
		return v.errf(errors.UndefinedSymbol, decl.Pos(), "undefined symbol '%s'", resultName)
	}
	if resultVar.IsField {
		v.emitter.Addf("getstatic %s/%s %s", v.programName(), resultName, assemblerLetter[resultVar.Type.Name])
	} else {
		v.emitter.Addf("%sload_%d", lowerLetter(resultVar.Type.Name), resultVar.Index)
	}
	v.emitter.Addf("%sreturn", lowerLetter(retType.Name))
	v.emitter.Add(".end method")
	v.leave()
	return nil
}

func lowerLetter(typeName string) string {
	l := assemblerLetter[typeName]
	if l == "" {
		return ""
	}
	return string(l[0] + ('a' - 'A'))
}

func paramSignature(params []*symbols.Var) string {
	sig := ""
	for _, p := range params {
		sig += assemblerLetter[p.Type.Name]
	}
	return sig
}

func (v *Visitor) visitStmtList(list *ast.StmtList) error {
	for _, stmt := range list.Stmts {
		if err := v.visitStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (v *Visitor) visitStmt(node ast.Node) error {
	switch n := node.(type) {
	case *ast.Assign:
		return v.visitAssign(n)
	case *ast.Call:
		_, err := v.visitCall(n)
		return err
	case *ast.If:
		return v.visitIf(n)
	case *ast.While:
		return v.visitWhile(n)
	case *ast.Repeat:
		return v.visitRepeat(n)
	case *ast.For:
		return v.visitFor(n)
	case *ast.StmtList:
		return v.visitStmtList(n)
	case *ast.Body:
		return v.visitStmtList(n.Stmts)
	}
	return v.errf(errors.ParseError, node.Pos(), "unexpected statement node %T", node)
}

// resolveTarget looks up the symbol a scalar or array assignment target
// refers to, failing with UndefinedSymbol if it is not declared.
func (v *Visitor) resolveTarget(target ast.Target) (string, symbols.Symbol, error) {
	switch t := target.(type) {
	case *ast.Ident:
		sym := v.scope.Lookup(t.Name, false)
		if sym == nil {
			return "", nil, v.errf(errors.UndefinedSymbol, t.Pos(), "Undefined variable '%s' found", t.Name)
		}
		return t.Name, sym, nil
	case *ast.ArrayIdent:
		sym := v.scope.Lookup(t.Name.Name, false)
		if sym == nil {
			return "", nil, v.errf(errors.UndefinedSymbol, t.Pos(), "Undefined variable '%s' found", t.Name.Name)
		}
		return t.Name.Name, sym, nil
	}
	return "", nil, v.errf(errors.ParseError, target.Pos(), "unexpected assignment target %T", target)
}

func (v *Visitor) checkArrayBounds(arr *symbols.Array, index *ast.Literal) error {
	lit, ok := index.Value.(int64)
	if !ok {
		return nil
	}
	lo := parseBound(arr.From)
	hi := parseBound(arr.To)
	if lit < lo || lit > hi {
		return v.errf(errors.ArrayIndexOutOfRange, index.Pos(), "Out of range '%d'", lit)
	}
	return nil
}

func parseBound(lexeme string) int64 {
	var n int64
	for _, r := range lexeme {
		if r >= '0' && r <= '9' {
			n = n*10 + int64(r-'0')
		}
	}
	return n
}

func (v *Visitor) visitAssign(a *ast.Assign) error {
	name, sym, err := v.resolveTarget(a.Var)
	if err != nil {
		return err
	}

	var targetType string
	switch target := a.Var.(type) {
	case *ast.ArrayIdent:
		arr, ok := sym.(*symbols.Array)
		if !ok {
			return v.errf(errors.UndefinedSymbol, target.Pos(), "'%s' is not an array", name)
		}
		if err := v.checkArrayBounds(arr, target.Index); err != nil {
			return err
		}
		letter := assemblerLetter[arr.Type.Name]
		v.emitter.Addf("getstatic %s/%s [%s", v.programName(), name, letter)
		v.emitter.Addf("ldc %s", target.Index.Lexeme)
		targetType = arr.Type.Name
	case *ast.Ident:
		scalar, ok := sym.(*symbols.Var)
		if !ok {
			return v.errf(errors.UndefinedSymbol, target.Pos(), "'%s' is not a variable", name)
		}
		targetType = scalar.Type.Name
	}

	valType, err := v.visitExpr(a.Val)
	if err != nil {
		return err
	}
	if !typeCheck(valType, targetType) {
		return v.errf(errors.WrongAssignmentType, a.Pos(), "Wrong type '%s' found", name)
	}

	switch target := a.Var.(type) {
	case *ast.ArrayIdent:
		arr := sym.(*symbols.Array)
		v.emitter.Addf("%sastore", lowerLetter(arr.Type.Name))
	case *ast.Ident:
		scalar := sym.(*symbols.Var)
		if scalar.IsField {
			v.emitter.Addf("putstatic %s/%s %s", v.programName(), target.Name, assemblerLetter[scalar.Type.Name])
		} else {
			v.emitter.Addf("%sstore_%d", lowerLetter(scalar.Type.Name), scalar.Index)
		}
	}
	return nil
}

// visitExpr evaluates an expression node, emitting the instructions that
// push its value and returning its resolved type (or raw literal category).
func (v *Visitor) visitExpr(node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return v.visitLiteral(n)
	case *ast.Ident:
		return v.visitIdent(n)
	case *ast.ArrayIdent:
		return v.visitArrayIdent(n)
	case *ast.BinOp:
		return v.visitBinOp(n)
	case *ast.Call:
		return v.visitCall(n)
	}
	return "", v.errf(errors.ParseError, node.Pos(), "unexpected expression node %T", node)
}

func (v *Visitor) visitLiteral(lit *ast.Literal) (string, error) {
	switch lit.Category {
	case ast.CategoryBool:
		if lit.Value == true {
			v.emitter.Add("ldc 1")
		} else {
			v.emitter.Add("ldc 0")
		}
		return "bool", nil
	case ast.CategoryStr:
		return "str", nil
	default:
		v.emitter.Addf("ldc %s", lit.Lexeme)
		return "int", nil
	}
}

func (v *Visitor) visitIdent(id *ast.Ident) (string, error) {
	sym := v.scope.Lookup(id.Name, false)
	if sym == nil {
		return "", v.errf(errors.UndefinedSymbol, id.Pos(), "Symbol(identifier) not found '%s'", id.Name)
	}
	scalar, ok := sym.(*symbols.Var)
	if !ok {
		return "", v.errf(errors.UndefinedSymbol, id.Pos(), "'%s' is not a variable", id.Name)
	}
	if scalar.IsField {
		v.emitter.Addf("getstatic %s/%s %s", v.programName(), id.Name, assemblerLetter[scalar.Type.Name])
	} else {
		v.emitter.Addf("%sload_%d", lowerLetter(scalar.Type.Name), scalar.Index)
	}
	return scalar.Type.Name, nil
}

func (v *Visitor) visitArrayIdent(a *ast.ArrayIdent) (string, error) {
	sym := v.scope.Lookup(a.Name.Name, false)
	if sym == nil {
		return "", v.errf(errors.UndefinedSymbol, a.Pos(), "Symbol(identifier) not found '%s'", a.Name.Name)
	}
	arr, ok := sym.(*symbols.Array)
	if !ok {
		return "", v.errf(errors.UndefinedSymbol, a.Pos(), "'%s' is not an array", a.Name.Name)
	}
	letter := assemblerLetter[arr.Type.Name]
	v.emitter.Addf("getstatic %s/%s [%s", v.programName(), a.Name.Name, letter)
	if _, err := v.visitExpr(a.Index); err != nil {
		return "", err
	}
	v.emitter.Addf("%saload", lowerLetter(arr.Type.Name))
	if err := v.checkArrayBounds(arr, a.Index); err != nil {
		return "", err
	}
	return arr.Type.Name, nil
}

func (v *Visitor) visitBinOp(b *ast.BinOp) (string, error) {
	type1, err := v.visitExpr(b.Arg1)
	if err != nil {
		return "", err
	}
	type2, err := v.visitExpr(b.Arg2)
	if err != nil {
		return "", err
	}

	switch b.Operator {
	case ast.ADD:
		v.emitter.Add("iadd")
	case ast.SUB:
		v.emitter.Add("isub")
	case ast.MUL:
		v.emitter.Add("imul")
	case ast.DIVISION:
		v.emitter.Add("idiv")
	case ast.LOGICAL_AND:
		v.emitter.Add("iand")
	case ast.LOGICAL_OR:
		v.emitter.Add("ior")
	case ast.DIV:
		v.emitter.Add("irem")
	default:
		// Comparison operators: a real branch is emitted by the
		// consuming if/while, not here. See the design notes on the
		// reference's placeholder comparison opcode.
		v.emitter.Add("swap")
	}

	if !typeCheck(type1, type2) {
		return "", v.errf(errors.IncompatibleTypes, b.Pos(), "Incompatible types in binary operation")
	}
	operandType := alias(type1)
	if !isValidOperand(b.Operator, operandType) {
		return "", v.errf(errors.IncompatibleTypes, b.Pos(),
			"Operation %s not supported for type %s", b.Operator, operandType)
	}
	return returnType(b.Operator, operandType), nil
}

func (v *Visitor) visitCall(c *ast.Call) (string, error) {
	sym := v.scope.Lookup(c.Func.Name, false)
	if sym == nil {
		return "", v.errf(errors.UndefinedSymbol, c.Pos(), "Undefined function '%s'", c.Func.Name)
	}

	switch fn := sym.(type) {
	case *symbols.Procedure:
		if len(c.Args) != len(fn.Params) {
			return "", v.errf(errors.WrongCallArity, c.Pos(), "Wrong number of parameters specified for call to '%s'", c.Func.Name)
		}
		for _, arg := range c.Args {
			if _, err := v.visitExpr(arg); err != nil {
				return "", err
			}
		}
		v.emitter.Addf("invokestatic %s/%s(%s)V", v.programName(), c.Func.Name, paramSignature(fn.Params))
		return "", nil
	case *symbols.Function:
		if len(c.Args) != len(fn.Params) {
			return "", v.errf(errors.WrongCallArity, c.Pos(), "Wrong number of parameters specified for call to '%s'", c.Func.Name)
		}
		for _, arg := range c.Args {
			if _, err := v.visitExpr(arg); err != nil {
				return "", err
			}
		}
		v.emitter.Addf("invokestatic %s/%s(%s)%s", v.programName(), c.Func.Name, paramSignature(fn.Params), assemblerLetter[fn.ReturnType.Name])
		return fn.ReturnType.Name, nil
	case *symbols.BuiltinFunction:
		return v.visitBuiltinCall(fn, c)
	}
	return "", v.errf(errors.UndefinedSymbol, c.Pos(), "'%s' is not callable", c.Func.Name)
}

// visitBuiltinCall follows the reference convention that Write/WriteLn
// always call println(I)V regardless of the pushed argument's real type.
func (v *Visitor) visitBuiltinCall(fn *symbols.BuiltinFunction, c *ast.Call) (string, error) {
	switch fn.Name {
	case "Write", "WriteLn":
		v.emitter.Add("getstatic java/lang/System/out Ljava/io/PrintStream;")
		for _, arg := range c.Args {
			if _, err := v.visitExpr(arg); err != nil {
				return "", err
			}
		}
		v.emitter.Add("invokevirtual java/io/PrintStream/println(I)V")
		return "", nil
	case "Read", "ReadLn":
		v.emitter.Add("getstatic java/lang/System/in Ljava/io/InputStream;")
		sig := ""
		var stores []string
		for _, arg := range c.Args {
			ident, ok := arg.(*ast.Ident)
			if !ok {
				return "", v.errf(errors.ParseError, arg.Pos(), "%s argument must be a variable", fn.Name)
			}
			sym := v.scope.Lookup(ident.Name, false)
			scalar, ok := sym.(*symbols.Var)
			if !ok {
				return "", v.errf(errors.UndefinedSymbol, ident.Pos(), "Undefined variable '%s' found", ident.Name)
			}
			sig += assemblerLetter[scalar.Type.Name]
			if scalar.IsField {
				stores = append(stores, fmt.Sprintf("putstatic %s/%s %s", v.programName(), ident.Name, assemblerLetter[scalar.Type.Name]))
			} else {
				stores = append(stores, fmt.Sprintf("%sstore_%d", lowerLetter(scalar.Type.Name), scalar.Index))
			}
		}
		v.emitter.Addf("invokevirtual java/io/InputStream/read()%s", sig)
		for _, s := range stores {
			v.emitter.Add(s)
		}
		return "", nil
	}
	return "", v.errf(errors.UndefinedSymbol, c.Pos(), "unknown built-in '%s'", fn.Name)
}

func (v *Visitor) visitIf(n *ast.If) error {
	cond, ok := n.Cond.(*ast.BinOp)
	if !ok || !cond.Operator.IsComparison() {
		return v.errf(errors.ConditionNotBoolean, n.Cond.Pos(), "if condition must be a comparison")
	}
	condType, err := v.visitExpr(n.Cond)
	if err != nil {
		return err
	}
	ifIndex := v.emitter.LastIndex()
	suffix, _ := cond.Operator.IcmpSuffix()
	if n.Else == nil {
		v.emitter.Addf("if_icmp%s", suffix)
	} else {
		v.emitter.Addf("if_icmp%s else_%d", suffix, ifIndex)
	}
	if alias(condType) != "boolean" {
		return v.errf(errors.ConditionNotBoolean, n.Cond.Pos(), "Wrong type of if condition '%s'", condType)
	}

	if err := v.visitStmt(n.Then); err != nil {
		return err
	}
	v.emitter.Addf("goto endif_%d", ifIndex)
	v.emitter.NextLabel()

	if n.Else != nil {
		v.emitter.Addf("else_%d:", ifIndex)
		if err := v.visitStmt(n.Else); err != nil {
			return err
		}
	}
	v.emitter.Addf("endif_%d:", ifIndex)
	return nil
}

func (v *Visitor) visitWhile(n *ast.While) error {
	cond, ok := n.Cond.(*ast.BinOp)
	if !ok || !cond.Operator.IsComparison() {
		return v.errf(errors.ConditionNotBoolean, n.Cond.Pos(), "while condition must be a comparison")
	}
	whileIndex := v.emitter.NextLabel()
	v.emitter.Addf("while_%d:", whileIndex)
	condType, err := v.visitExpr(n.Cond)
	if err != nil {
		return err
	}
	suffix, _ := cond.Operator.IcmpSuffix()
	v.emitter.Addf("if_icmp%s done_%d", suffix, whileIndex)
	if alias(condType) != "boolean" {
		return v.errf(errors.ConditionNotBoolean, n.Cond.Pos(), "Wrong type of while condition '%s'", condType)
	}
	if err := v.visitStmt(n.Body); err != nil {
		return err
	}
	v.emitter.Addf("goto while_%d", whileIndex)
	v.emitter.Addf("done_%d:", whileIndex)
	return nil
}

// visitRepeat accepts the repeat/until construct syntactically; the
// reference leaves its code generation undefined, so the body and
// condition are analyzed for errors but no loop opcodes are emitted.
func (v *Visitor) visitRepeat(n *ast.Repeat) error {
	if err := v.visitStmt(n.Body); err != nil {
		return err
	}
	_, err := v.visitExpr(n.Cond)
	return err
}

// visitFor preserves the reference's upper-bound check against the raw
// "int" literal category rather than the aliased "integer" type name.
func (v *Visitor) visitFor(n *ast.For) error {
	if err := v.visitAssign(n.Init); err != nil {
		return err
	}
	toType, err := v.visitExpr(n.To)
	if err != nil {
		return err
	}
	if toType != "int" {
		return v.errf(errors.UnknownForUpperBound, n.To.Pos(), "Wrong type of for condition '%s'", toType)
	}
	return v.visitStmt(n.Body)
}
