// Package jack compiles single-class source units into stack-machine
// instructions: it tokenizes, parses into an immutable AST, resolves names
// through a scoped symbol table and generates vm instructions.
package jack

// TokenKind classifies a Token.
type TokenKind int

const (
	IntegerConstant TokenKind = iota
	StringConstant
	Identifier
	Keyword
	Symbol
)

func (k TokenKind) String() string {
	switch k {
	case IntegerConstant:
		return "int"
	case StringConstant:
		return "string"
	case Identifier:
		return "ident"
	case Keyword:
		return "keyword"
	case Symbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// Token is one classified lexeme. Line is 1-based.
type Token struct {
	Kind TokenKind
	Text string
	Line int
}

// IsKeyword reports whether t is the keyword kw, or any keyword when kw is
// empty.
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == Keyword && (kw == "" || t.Text == kw)
}

// IsSymbol reports whether t is the symbol sym.
func (t Token) IsSymbol(sym byte) bool {
	return t.Kind == Symbol && t.Text[0] == sym
}

func (t Token) IsUnaryOp() bool {
	return t.Kind == Symbol && (t.Text == "-" || t.Text == "~")
}

func (t Token) IsBinaryOp() bool {
	if t.Kind != Symbol {
		return false
	}
	switch t.Text[0] {
	case '+', '-', '*', '/', '&', '|', '<', '>', '=':
		return true
	}
	return false
}

// describe renders t for diagnostics.
func (t Token) describe() string {
	switch t.Kind {
	case StringConstant:
		return `string "` + t.Text + `"`
	case IntegerConstant:
		return "integer " + t.Text
	default:
		return t.Kind.String() + " '" + t.Text + "'"
	}
}
