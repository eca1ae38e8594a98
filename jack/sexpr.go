package jack

import (
	"strconv"
	"strings"
)

// ToSExpr renders an AST node, expression, term or call as an s-expression.
func ToSExpr(n any) string {
	switch n := n.(type) {
	case *Class:
		result := "(class " + quote(n.Name.Text)
		for _, d := range n.Declarations {
			result += " " + ToSExpr(d)
		}
		for _, s := range n.Subroutines {
			result += " " + ToSExpr(s)
		}
		return result + ")"
	case *Declaration:
		result := "(" + n.Keyword.Text + " " + quote(n.Type.Text)
		for _, name := range n.Names {
			result += " " + quote(name.Text)
		}
		return result + ")"
	case *Subroutine:
		result := "(" + n.Keyword.Text + " " + quote(n.ReturnType.Text) + " " + quote(n.Name.Text) + " (params"
		for _, p := range n.Params {
			result += " (" + quote(p.Type.Text) + " " + quote(p.Name.Text) + ")"
		}
		result += ")"
		for _, d := range n.Locals {
			result += " " + ToSExpr(d)
		}
		return result + " " + block("body", n.Body) + ")"

	case *LetVar:
		return "(let " + quote(n.Name.Text) + " " + ToSExpr(n.Value) + ")"
	case *LetIndex:
		return "(let-index " + quote(n.Name.Text) + " " + ToSExpr(n.Index) + " " + ToSExpr(n.Value) + ")"
	case *If:
		return "(if " + ToSExpr(n.Cond) + " " + block("then", n.Then) + ")"
	case *IfElse:
		return "(if " + ToSExpr(n.Cond) + " " + block("then", n.Then) + " " + block("else", n.Else) + ")"
	case *While:
		return "(while " + ToSExpr(n.Cond) + " " + block("body", n.Body) + ")"
	case *Do:
		return "(do " + ToSExpr(n.Call) + ")"
	case *ReturnValue:
		return "(return " + ToSExpr(n.Value) + ")"
	case *ReturnVoid:
		return "(return)"

	case *UnaryExpr:
		return ToSExpr(n.Term)
	case *BinaryExpr:
		return "(binary " + quote(n.Op.Text) + " " + ToSExpr(n.Left) + " " + ToSExpr(n.Right) + ")"

	case *SingleTerm:
		switch n.Token.Kind {
		case IntegerConstant:
			return "(integer " + n.Token.Text + ")"
		case StringConstant:
			return "(string " + quote(n.Token.Text) + ")"
		case Keyword:
			return "(keyword " + quote(n.Token.Text) + ")"
		default:
			return "(ident " + quote(n.Token.Text) + ")"
		}
	case *IndexTerm:
		return "(index " + quote(n.Name.Text) + " " + ToSExpr(n.Index) + ")"
	case *CallTerm:
		return ToSExpr(n.Call)
	case *ParenTerm:
		return "(paren " + ToSExpr(n.Expr) + ")"
	case *NestedTerm:
		return ToSExpr(n.Expr)
	case *UnaryOpTerm:
		return "(unary " + quote(n.Op.Text) + " " + ToSExpr(n.Term) + ")"

	case *DirectCall:
		return "(call " + quote(n.Name.Text) + arguments(n.Arguments) + ")"
	case *IndirectCall:
		return "(call (dot " + quote(n.Qualifier.Text) + " " + quote(n.Name.Text) + ")" + arguments(n.Arguments) + ")"
	}
	panic("ToSExpr: unexpected node type")
}

// TokensToSExpr renders tokens as `(tokens (kind "text" line) ...)`.
func TokensToSExpr(tokens []Token) string {
	var sb strings.Builder
	sb.WriteString("(tokens")
	for _, t := range tokens {
		sb.WriteString(" (")
		sb.WriteString(t.Kind.String())
		sb.WriteByte(' ')
		sb.WriteString(quote(t.Text))
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(t.Line))
		sb.WriteByte(')')
	}
	sb.WriteByte(')')
	return sb.String()
}

func block(head string, stmts []Statement) string {
	result := "(" + head
	for _, s := range stmts {
		result += " " + ToSExpr(s)
	}
	return result + ")"
}

func arguments(args []Expression) string {
	result := ""
	for _, a := range args {
		result += " " + ToSExpr(a)
	}
	return result
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
