package jack

// NodeKind discriminates class-level and statement nodes.
type NodeKind string

const (
	KindClass       NodeKind = "class"
	KindSubroutine  NodeKind = "subroutine"
	KindDeclaration NodeKind = "declaration"
	KindLet         NodeKind = "let"
	KindIf          NodeKind = "if"
	KindWhile       NodeKind = "while"
	KindDo          NodeKind = "do"
	KindReturn      NodeKind = "return"
)

// Node is a class, subroutine, declaration or statement. Nodes are built once
// by the parser and never modified, so subtrees may be shared freely.
type Node interface {
	Kind() NodeKind
	Line() int
}

// Class is a whole source unit.
type Class struct {
	Keyword      Token
	Name         Token
	Declarations []*Declaration
	Subroutines  []*Subroutine
}

// Declaration is a static, field or var declaration of one or more names.
type Declaration struct {
	Keyword Token
	Type    Token
	Names   []Token
}

type Param struct {
	Type Token
	Name Token
}

// Subroutine is a constructor, function or method.
type Subroutine struct {
	Keyword    Token
	ReturnType Token
	Name       Token
	Params     []Param
	Locals     []*Declaration
	Body       []Statement
}

func (n *Class) Kind() NodeKind       { return KindClass }
func (n *Subroutine) Kind() NodeKind  { return KindSubroutine }
func (n *Declaration) Kind() NodeKind { return KindDeclaration }

func (n *Class) Line() int       { return n.Keyword.Line }
func (n *Subroutine) Line() int  { return n.Keyword.Line }
func (n *Declaration) Line() int { return n.Keyword.Line }

// Statement is one of *LetVar, *LetIndex, *If, *IfElse, *While, *Do,
// *ReturnValue or *ReturnVoid.
type Statement interface {
	Node
	statementNode()
}

// LetVar is `let name = value;`.
type LetVar struct {
	Let   Token
	Name  Token
	Value Expression
}

// LetIndex is `let name[index] = value;`.
type LetIndex struct {
	Let   Token
	Name  Token
	Index Expression
	Value Expression
}

type If struct {
	Keyword Token
	Cond    Expression
	Then    []Statement
}

type IfElse struct {
	Keyword Token
	Cond    Expression
	Then    []Statement
	Else    []Statement
}

type While struct {
	Keyword Token
	Cond    Expression
	Body    []Statement
}

type Do struct {
	Keyword Token
	Call    SubroutineCall
}

type ReturnValue struct {
	Keyword Token
	Value   Expression
}

type ReturnVoid struct {
	Keyword Token
}

func (*LetVar) Kind() NodeKind      { return KindLet }
func (*LetIndex) Kind() NodeKind    { return KindLet }
func (*If) Kind() NodeKind          { return KindIf }
func (*IfElse) Kind() NodeKind      { return KindIf }
func (*While) Kind() NodeKind       { return KindWhile }
func (*Do) Kind() NodeKind          { return KindDo }
func (*ReturnValue) Kind() NodeKind { return KindReturn }
func (*ReturnVoid) Kind() NodeKind  { return KindReturn }

func (s *LetVar) Line() int      { return s.Let.Line }
func (s *LetIndex) Line() int    { return s.Let.Line }
func (s *If) Line() int          { return s.Keyword.Line }
func (s *IfElse) Line() int      { return s.Keyword.Line }
func (s *While) Line() int       { return s.Keyword.Line }
func (s *Do) Line() int          { return s.Keyword.Line }
func (s *ReturnValue) Line() int { return s.Keyword.Line }
func (s *ReturnVoid) Line() int  { return s.Keyword.Line }

func (*LetVar) statementNode()      {}
func (*LetIndex) statementNode()    {}
func (*If) statementNode()          {}
func (*IfElse) statementNode()      {}
func (*While) statementNode()       {}
func (*Do) statementNode()          {}
func (*ReturnValue) statementNode() {}
func (*ReturnVoid) statementNode()  {}

// Expression is *UnaryExpr or *BinaryExpr. There is no operator precedence:
// `a + b * c` is (a + b) * c, with the inner binary wrapped in a *NestedTerm.
type Expression interface {
	expressionNode()
}

// UnaryExpr is an expression consisting of a single term.
type UnaryExpr struct {
	Term Term
}

type BinaryExpr struct {
	Left  Term
	Op    Token
	Right Term
}

func (*UnaryExpr) expressionNode()  {}
func (*BinaryExpr) expressionNode() {}

// Term is one of *SingleTerm, *IndexTerm, *CallTerm, *ParenTerm, *NestedTerm
// or *UnaryOpTerm.
type Term interface {
	termNode()
}

// SingleTerm is an integer, string or keyword constant, or a variable name.
type SingleTerm struct {
	Token Token
}

// IndexTerm is `name[index]`.
type IndexTerm struct {
	Name  Token
	Index Expression
}

type CallTerm struct {
	Call SubroutineCall
}

// ParenTerm is a parenthesized expression in the source.
type ParenTerm struct {
	Expr Expression
}

// NestedTerm holds the left-hand binary expression of a longer operator
// chain. It has no parentheses in the source.
type NestedTerm struct {
	Expr Expression
}

type UnaryOpTerm struct {
	Op   Token
	Term Term
}

func (*SingleTerm) termNode()  {}
func (*IndexTerm) termNode()   {}
func (*CallTerm) termNode()    {}
func (*ParenTerm) termNode()   {}
func (*NestedTerm) termNode()  {}
func (*UnaryOpTerm) termNode() {}

// SubroutineCall is *DirectCall (`name(args)`) or *IndirectCall
// (`qualifier.name(args)`).
type SubroutineCall interface {
	callNode()
	line() int
}

type DirectCall struct {
	Name      Token
	Arguments []Expression
}

type IndirectCall struct {
	Qualifier Token
	Name      Token
	Arguments []Expression
}

func (*DirectCall) callNode()   {}
func (*IndirectCall) callNode() {}

func (c *DirectCall) line() int   { return c.Name.Line }
func (c *IndirectCall) line() int { return c.Qualifier.Line }
