package jack

import (
	"strconv"

	"github.com/strager/jackc/vm"
)

// generator emits one unit's instructions. Label counters come from the
// session so that a batch of units shares them.
type generator struct {
	session *Session
	class   string
	out     *vm.Program
}

func (g *generator) emit(in ...vm.Instruction) {
	g.out.Append(in...)
}

func (g *generator) genClass(class *Class) error {
	g.class = class.Name.Text
	st := NewSymbolTable(g.class)
	var err error
	for _, decl := range class.Declarations {
		kind := StaticVar
		if decl.Keyword.Text == "field" {
			kind = FieldVar
		}
		if st, err = declareAll(st, kind, decl); err != nil {
			return err
		}
	}
	for _, sub := range class.Subroutines {
		if err := g.genSubroutine(sub, st); err != nil {
			return err
		}
	}
	return nil
}

func declareAll(st SymbolTable, kind VarKind, decl *Declaration) (SymbolTable, error) {
	var err error
	for _, name := range decl.Names {
		if st, err = st.Declare(kind, decl.Type, name); err != nil {
			return st, err
		}
	}
	return st, nil
}

func (g *generator) genSubroutine(sub *Subroutine, st SymbolTable) error {
	fieldCount := st.Count(FieldVar)

	argBase := 0
	if sub.Keyword.Text == "method" {
		argBase = 1
	}
	st = st.EnterSubroutine(argBase)
	var err error
	for _, p := range sub.Params {
		if st, err = st.Declare(ArgumentVar, p.Type, p.Name); err != nil {
			return err
		}
	}
	for _, decl := range sub.Locals {
		if st, err = declareAll(st, LocalVar, decl); err != nil {
			return err
		}
	}

	g.emit(vm.FunctionOf(g.class+"."+sub.Name.Text, st.Count(LocalVar)))
	switch sub.Keyword.Text {
	case "constructor":
		g.emit(
			vm.PushOf(vm.Constant, fieldCount),
			vm.CallOf("Memory.alloc", 1),
			vm.PopOf(vm.Pointer, 0),
		)
	case "method":
		g.emit(
			vm.PushOf(vm.Argument, 0),
			vm.PopOf(vm.Pointer, 0),
		)
	}
	if _, err = g.genStatements(sub.Body, st); err != nil {
		return err
	}
	if !containsReturn(sub.Body) {
		return &StructuralError{Line: sub.Name.Line, Subroutine: g.class + "." + sub.Name.Text}
	}
	return nil
}

// containsReturn reports whether any statement, including those nested in if
// and while bodies, is a return.
func containsReturn(stmts []Statement) bool {
	for _, s := range stmts {
		switch s := s.(type) {
		case *ReturnValue, *ReturnVoid:
			return true
		case *If:
			if containsReturn(s.Then) {
				return true
			}
		case *IfElse:
			if containsReturn(s.Then) || containsReturn(s.Else) {
				return true
			}
		case *While:
			if containsReturn(s.Body) {
				return true
			}
		}
	}
	return false
}

func (g *generator) genStatements(stmts []Statement, st SymbolTable) (SymbolTable, error) {
	var err error
	for _, s := range stmts {
		if st, err = g.genStatement(s, st); err != nil {
			return st, err
		}
	}
	return st, nil
}

func (g *generator) genStatement(stmt Statement, st SymbolTable) (SymbolTable, error) {
	switch s := stmt.(type) {
	case *LetVar:
		if err := g.genExpression(s.Value, st); err != nil {
			return st, err
		}
		sym, err := st.Resolve(s.Name)
		if err != nil {
			return st, err
		}
		g.emit(vm.PopOf(sym.Kind.Segment(), sym.Index))

	case *LetIndex:
		if err := g.genExpression(s.Value, st); err != nil {
			return st, err
		}
		sym, err := st.Resolve(s.Name)
		if err != nil {
			return st, err
		}
		g.emit(vm.PushOf(sym.Kind.Segment(), sym.Index))
		if err := g.genExpression(s.Index, st); err != nil {
			return st, err
		}
		g.emit(
			vm.Arith(vm.Add),
			vm.PopOf(vm.Pointer, 1),
			vm.PopOf(vm.That, 0),
		)

	case *If:
		k := strconv.Itoa(g.session.nextIf())
		if err := g.genExpression(s.Cond, st); err != nil {
			return st, err
		}
		g.emit(
			vm.IfGotoOf("IF"+k),
			vm.GotoOf("END_IF"+k),
			vm.LabelOf("IF"+k),
		)
		if _, err := g.genStatements(s.Then, st); err != nil {
			return st, err
		}
		g.emit(vm.LabelOf("END_IF" + k))

	case *IfElse:
		k := strconv.Itoa(g.session.nextIf())
		if err := g.genExpression(s.Cond, st); err != nil {
			return st, err
		}
		g.emit(vm.IfGotoOf("IF" + k))
		if _, err := g.genStatements(s.Else, st); err != nil {
			return st, err
		}
		g.emit(
			vm.GotoOf("END_IF"+k),
			vm.LabelOf("IF"+k),
		)
		if _, err := g.genStatements(s.Then, st); err != nil {
			return st, err
		}
		g.emit(vm.LabelOf("END_IF" + k))

	case *While:
		k := strconv.Itoa(g.session.nextWhile())
		g.emit(vm.LabelOf("WHILE" + k))
		if err := g.genExpression(s.Cond, st); err != nil {
			return st, err
		}
		g.emit(
			vm.IfGotoOf("WHILE_BODY"+k),
			vm.GotoOf("END_WHILE"+k),
			vm.LabelOf("WHILE_BODY"+k),
		)
		if _, err := g.genStatements(s.Body, st); err != nil {
			return st, err
		}
		g.emit(
			vm.GotoOf("WHILE"+k),
			vm.LabelOf("END_WHILE"+k),
		)

	case *Do:
		if err := g.genCall(s.Call, st); err != nil {
			return st, err
		}
		g.emit(vm.PopOf(vm.Temp, 0))

	case *ReturnValue:
		if err := g.genExpression(s.Value, st); err != nil {
			return st, err
		}
		g.emit(vm.ReturnOf())

	case *ReturnVoid:
		g.emit(vm.PushOf(vm.Constant, 0), vm.ReturnOf())

	default:
		panic("genStatement: unexpected statement type")
	}
	return st, nil
}

var binaryOps = map[string]vm.Instruction{
	"+": vm.Arith(vm.Add),
	"-": vm.Arith(vm.Sub),
	"*": vm.CallOf("Math.multiply", 2),
	"/": vm.CallOf("Math.divide", 2),
	"&": vm.Arith(vm.And),
	"|": vm.Arith(vm.Or),
	"<": vm.Arith(vm.Lt),
	">": vm.Arith(vm.Gt),
	"=": vm.Arith(vm.Eq),
}

func (g *generator) genExpression(expr Expression, st SymbolTable) error {
	switch e := expr.(type) {
	case *UnaryExpr:
		return g.genTerm(e.Term, st)
	case *BinaryExpr:
		if err := g.genTerm(e.Left, st); err != nil {
			return err
		}
		if err := g.genTerm(e.Right, st); err != nil {
			return err
		}
		g.emit(binaryOps[e.Op.Text])
		return nil
	}
	panic("genExpression: unexpected expression type")
}

func (g *generator) genTerm(term Term, st SymbolTable) error {
	switch t := term.(type) {
	case *SingleTerm:
		return g.genSingle(t.Token, st)

	case *IndexTerm:
		sym, err := st.Resolve(t.Name)
		if err != nil {
			return err
		}
		g.emit(vm.PushOf(sym.Kind.Segment(), sym.Index))
		if err := g.genExpression(t.Index, st); err != nil {
			return err
		}
		g.emit(
			vm.Arith(vm.Add),
			vm.PopOf(vm.Pointer, 1),
			vm.PushOf(vm.That, 0),
		)
		return nil

	case *CallTerm:
		return g.genCall(t.Call, st)

	case *ParenTerm:
		return g.genExpression(t.Expr, st)

	case *NestedTerm:
		return g.genExpression(t.Expr, st)

	case *UnaryOpTerm:
		if err := g.genTerm(t.Term, st); err != nil {
			return err
		}
		if t.Op.Text == "-" {
			g.emit(vm.Arith(vm.Neg))
		} else {
			g.emit(vm.Arith(vm.Not))
		}
		return nil
	}
	panic("genTerm: unexpected term type")
}

func (g *generator) genSingle(tok Token, st SymbolTable) error {
	switch tok.Kind {
	case IntegerConstant:
		n, _ := strconv.Atoi(tok.Text)
		g.emit(vm.PushOf(vm.Constant, n))
	case StringConstant:
		g.emit(
			vm.PushOf(vm.Constant, len(tok.Text)),
			vm.CallOf("String.new", 1),
		)
		for i := 0; i < len(tok.Text); i++ {
			g.emit(
				vm.PushOf(vm.Constant, int(tok.Text[i])),
				vm.CallOf("String.appendChar", 2),
			)
		}
	case Keyword:
		switch tok.Text {
		case "true":
			g.emit(vm.PushOf(vm.Constant, 1), vm.Arith(vm.Neg))
		case "this":
			g.emit(vm.PushOf(vm.Pointer, 0))
		default:
			g.emit(vm.PushOf(vm.Constant, 0))
		}
	default:
		sym, err := st.Resolve(tok)
		if err != nil {
			return err
		}
		g.emit(vm.PushOf(sym.Kind.Segment(), sym.Index))
	}
	return nil
}

// genCall emits a subroutine call. A direct call always passes the current
// object as an implicit receiver. An indirect call through a variable passes
// that variable as receiver and dispatches on its declared type; otherwise the
// qualifier is taken as a class name.
func (g *generator) genCall(call SubroutineCall, st SymbolTable) error {
	switch c := call.(type) {
	case *DirectCall:
		g.emit(vm.PushOf(vm.Pointer, 0))
		if err := g.genArguments(c.Arguments, st); err != nil {
			return err
		}
		g.emit(vm.CallOf(g.class+"."+c.Name.Text, len(c.Arguments)+1))
		return nil

	case *IndirectCall:
		if sym, ok := st.Lookup(c.Qualifier.Text); ok {
			g.emit(vm.PushOf(sym.Kind.Segment(), sym.Index))
			if err := g.genArguments(c.Arguments, st); err != nil {
				return err
			}
			g.emit(vm.CallOf(sym.Type.Text+"."+c.Name.Text, len(c.Arguments)+1))
			return nil
		}
		if err := g.genArguments(c.Arguments, st); err != nil {
			return err
		}
		g.emit(vm.CallOf(c.Qualifier.Text+"."+c.Name.Text, len(c.Arguments)))
		return nil
	}
	panic("genCall: unexpected call type")
}

func (g *generator) genArguments(args []Expression, st SymbolTable) error {
	for _, a := range args {
		if err := g.genExpression(a, st); err != nil {
			return err
		}
	}
	return nil
}
