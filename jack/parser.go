package jack

import (
	"fmt"
	"strconv"

	"github.com/golang/glog"
)

// MaxInteger is the largest integer constant the target machine can load.
const MaxInteger = 32767

// cursor is a read position within a token slice. Parse functions take a
// cursor by value and return the advanced one; the slice is never modified.
type cursor struct {
	toks []Token
	pos  int
	end  int
}

func newCursor(toks []Token) cursor {
	return cursor{toks: toks, end: len(toks)}
}

func (c cursor) done() bool { return c.pos >= c.end }

// at returns the token k positions ahead, or the zero Token past the end.
func (c cursor) at(k int) Token {
	if c.pos+k >= c.end {
		return Token{}
	}
	return c.toks[c.pos+k]
}

func (c cursor) peek() Token { return c.at(0) }

func (c cursor) next() cursor {
	c.pos++
	return c
}

func (c cursor) isSymbol(sym byte) bool {
	return !c.done() && c.peek().IsSymbol(sym)
}

func (c cursor) isKeyword(kw ...string) bool {
	if c.done() {
		return false
	}
	for _, k := range kw {
		if c.peek().IsKeyword(k) {
			return true
		}
	}
	return false
}

// line is the line of the current token, or of the last token at end of
// input.
func (c cursor) line() int {
	if !c.done() {
		return c.peek().Line
	}
	if c.end > 0 {
		return c.toks[c.end-1].Line
	}
	return 1
}

func (c cursor) found() string {
	if c.done() {
		return "end of input"
	}
	return c.peek().describe()
}

func (c cursor) errorf(format string, args ...any) *ParseError {
	return &ParseError{Line: c.line(), Msg: fmt.Sprintf(format, args...)}
}

func (c cursor) expected(what string) *ParseError {
	return c.errorf("expected %s, found %s", what, c.found())
}

func expectSymbol(c cursor, sym byte) (Token, cursor, error) {
	if !c.isSymbol(sym) {
		return Token{}, c, c.expected("'" + string(sym) + "'")
	}
	return c.peek(), c.next(), nil
}

func expectKeyword(c cursor, kw string) (Token, cursor, error) {
	if !c.isKeyword(kw) {
		return Token{}, c, c.expected("'" + kw + "'")
	}
	return c.peek(), c.next(), nil
}

func expectIdentifier(c cursor, what string) (Token, cursor, error) {
	if c.done() || c.peek().Kind != Identifier {
		return Token{}, c, c.expected(what)
	}
	return c.peek(), c.next(), nil
}

// ParseClass parses a complete source unit. Tokens after the class body are
// an error.
func ParseClass(tokens []Token) (*Class, error) {
	class, c, err := parseClass(newCursor(tokens))
	if err != nil {
		return nil, err
	}
	if !c.done() {
		return nil, c.errorf("unexpected %s after end of class", c.found())
	}
	return class, nil
}

// ParseExpression parses tokens as a single expression.
func ParseExpression(tokens []Token) (Expression, error) {
	expr, c, err := parseExpression(newCursor(tokens))
	if err != nil {
		return nil, err
	}
	if !c.done() {
		return nil, c.errorf("unexpected %s after expression", c.found())
	}
	return expr, nil
}

func parseClass(c cursor) (*Class, cursor, error) {
	class := &Class{}
	var err error
	if class.Keyword, c, err = expectKeyword(c, "class"); err != nil {
		return nil, c, err
	}
	if class.Name, c, err = expectIdentifier(c, "class name"); err != nil {
		return nil, c, err
	}
	if _, c, err = expectSymbol(c, '{'); err != nil {
		return nil, c, err
	}
	for !c.isSymbol('}') {
		switch {
		case c.isKeyword("static", "field"):
			if len(class.Subroutines) > 0 {
				return nil, c, c.errorf("class variable declaration '%s' after subroutine declarations", c.peek().Text)
			}
			var decl *Declaration
			if decl, c, err = parseVarDecl(c); err != nil {
				return nil, c, err
			}
			class.Declarations = append(class.Declarations, decl)
		case c.isKeyword("constructor", "function", "method"):
			var sub *Subroutine
			if sub, c, err = parseSubroutine(c); err != nil {
				return nil, c, err
			}
			glog.V(5).Infof("parsed %s %s.%s", sub.Keyword.Text, class.Name.Text, sub.Name.Text)
			class.Subroutines = append(class.Subroutines, sub)
		default:
			return nil, c, c.expected("class variable or subroutine declaration or '}'")
		}
	}
	return class, c.next(), nil
}

// parseType accepts int, char, boolean or a class name, and void when
// allowVoid is set.
func parseType(c cursor, allowVoid bool) (Token, cursor, error) {
	if c.isKeyword("int", "char", "boolean") || (allowVoid && c.isKeyword("void")) {
		return c.peek(), c.next(), nil
	}
	if !c.done() && c.peek().Kind == Identifier {
		return c.peek(), c.next(), nil
	}
	if allowVoid {
		return Token{}, c, c.expected("return type")
	}
	return Token{}, c, c.expected("type")
}

// parseVarDecl parses static, field and var declarations; the current token
// is the declaring keyword.
func parseVarDecl(c cursor) (*Declaration, cursor, error) {
	decl := &Declaration{Keyword: c.peek()}
	c = c.next()
	var err error
	if decl.Type, c, err = parseType(c, false); err != nil {
		return nil, c, err
	}
	for {
		var name Token
		if name, c, err = expectIdentifier(c, "variable name"); err != nil {
			return nil, c, err
		}
		decl.Names = append(decl.Names, name)
		if !c.isSymbol(',') {
			break
		}
		c = c.next()
	}
	if _, c, err = expectSymbol(c, ';'); err != nil {
		return nil, c, err
	}
	return decl, c, nil
}

func parseSubroutine(c cursor) (*Subroutine, cursor, error) {
	sub := &Subroutine{Keyword: c.peek()}
	c = c.next()
	var err error
	if sub.ReturnType, c, err = parseType(c, true); err != nil {
		return nil, c, err
	}
	if sub.Name, c, err = expectIdentifier(c, "subroutine name"); err != nil {
		return nil, c, err
	}
	if _, c, err = expectSymbol(c, '('); err != nil {
		return nil, c, err
	}
	if sub.Params, c, err = parseParams(c); err != nil {
		return nil, c, err
	}
	if _, c, err = expectSymbol(c, ')'); err != nil {
		return nil, c, err
	}
	if _, c, err = expectSymbol(c, '{'); err != nil {
		return nil, c, err
	}
	for c.isKeyword("var") {
		var decl *Declaration
		if decl, c, err = parseVarDecl(c); err != nil {
			return nil, c, err
		}
		sub.Locals = append(sub.Locals, decl)
	}
	if sub.Body, c, err = parseStatements(c); err != nil {
		return nil, c, err
	}
	return sub, c, nil
}

func parseParams(c cursor) ([]Param, cursor, error) {
	var params []Param
	if c.isSymbol(')') {
		return params, c, nil
	}
	for {
		var p Param
		var err error
		if p.Type, c, err = parseType(c, false); err != nil {
			return nil, c, err
		}
		if p.Name, c, err = expectIdentifier(c, "parameter name"); err != nil {
			return nil, c, err
		}
		params = append(params, p)
		if !c.isSymbol(',') {
			return params, c, nil
		}
		c = c.next()
	}
}

// parseStatements parses statements up to and including the closing '}'.
func parseStatements(c cursor) ([]Statement, cursor, error) {
	var stmts []Statement
	for !c.isSymbol('}') {
		stmt, next, err := parseStatement(c)
		if err != nil {
			return nil, next, err
		}
		stmts = append(stmts, stmt)
		c = next
	}
	return stmts, c.next(), nil
}

func parseStatement(c cursor) (Statement, cursor, error) {
	switch {
	case c.isKeyword("let"):
		return parseLet(c)
	case c.isKeyword("if"):
		return parseIf(c)
	case c.isKeyword("while"):
		return parseWhile(c)
	case c.isKeyword("do"):
		return parseDo(c)
	case c.isKeyword("return"):
		return parseReturn(c)
	case c.isKeyword("var"):
		return nil, c, c.errorf("variable declaration after statements")
	}
	return nil, c, c.expected("statement or '}'")
}

func parseLet(c cursor) (Statement, cursor, error) {
	let := c.peek()
	c = c.next()
	name, c, err := expectIdentifier(c, "variable name")
	if err != nil {
		return nil, c, err
	}
	var index Expression
	if c.isSymbol('[') {
		if index, c, err = parseExpression(c.next()); err != nil {
			return nil, c, err
		}
		if _, c, err = expectSymbol(c, ']'); err != nil {
			return nil, c, err
		}
	}
	if _, c, err = expectSymbol(c, '='); err != nil {
		return nil, c, err
	}
	value, c, err := parseExpression(c)
	if err != nil {
		return nil, c, err
	}
	if _, c, err = expectSymbol(c, ';'); err != nil {
		return nil, c, err
	}
	if index != nil {
		return &LetIndex{Let: let, Name: name, Index: index, Value: value}, c, nil
	}
	return &LetVar{Let: let, Name: name, Value: value}, c, nil
}

// parseCondition parses `( expr )`.
func parseCondition(c cursor) (Expression, cursor, error) {
	_, c, err := expectSymbol(c, '(')
	if err != nil {
		return nil, c, err
	}
	cond, c, err := parseExpression(c)
	if err != nil {
		return nil, c, err
	}
	if _, c, err = expectSymbol(c, ')'); err != nil {
		return nil, c, err
	}
	return cond, c, nil
}

// parseBlock parses `{ statement* }`.
func parseBlock(c cursor) ([]Statement, cursor, error) {
	_, c, err := expectSymbol(c, '{')
	if err != nil {
		return nil, c, err
	}
	return parseStatements(c)
}

func parseIf(c cursor) (Statement, cursor, error) {
	kw := c.peek()
	cond, c, err := parseCondition(c.next())
	if err != nil {
		return nil, c, err
	}
	then, c, err := parseBlock(c)
	if err != nil {
		return nil, c, err
	}
	if !c.isKeyword("else") {
		return &If{Keyword: kw, Cond: cond, Then: then}, c, nil
	}
	els, c, err := parseBlock(c.next())
	if err != nil {
		return nil, c, err
	}
	return &IfElse{Keyword: kw, Cond: cond, Then: then, Else: els}, c, nil
}

func parseWhile(c cursor) (Statement, cursor, error) {
	kw := c.peek()
	cond, c, err := parseCondition(c.next())
	if err != nil {
		return nil, c, err
	}
	body, c, err := parseBlock(c)
	if err != nil {
		return nil, c, err
	}
	return &While{Keyword: kw, Cond: cond, Body: body}, c, nil
}

func parseDo(c cursor) (Statement, cursor, error) {
	kw := c.peek()
	call, c, err := parseSubroutineCall(c.next())
	if err != nil {
		return nil, c, err
	}
	if _, c, err = expectSymbol(c, ';'); err != nil {
		return nil, c, err
	}
	return &Do{Keyword: kw, Call: call}, c, nil
}

func parseReturn(c cursor) (Statement, cursor, error) {
	kw := c.peek()
	c = c.next()
	if c.isSymbol(';') {
		return &ReturnVoid{Keyword: kw}, c.next(), nil
	}
	value, c, err := parseExpression(c)
	if err != nil {
		return nil, c, err
	}
	if _, c, err = expectSymbol(c, ';'); err != nil {
		return nil, c, err
	}
	return &ReturnValue{Keyword: kw, Value: value}, c, nil
}

func parseSubroutineCall(c cursor) (SubroutineCall, cursor, error) {
	first, c, err := expectIdentifier(c, "subroutine name")
	if err != nil {
		return nil, c, err
	}
	var call SubroutineCall
	switch {
	case c.isSymbol('('):
		direct := &DirectCall{Name: first}
		if direct.Arguments, c, err = parseExpressionList(c.next()); err != nil {
			return nil, c, err
		}
		call = direct
	case c.isSymbol('.'):
		indirect := &IndirectCall{Qualifier: first}
		if indirect.Name, c, err = expectIdentifier(c.next(), "subroutine name"); err != nil {
			return nil, c, err
		}
		if _, c, err = expectSymbol(c, '('); err != nil {
			return nil, c, err
		}
		if indirect.Arguments, c, err = parseExpressionList(c); err != nil {
			return nil, c, err
		}
		call = indirect
	default:
		return nil, c, c.expected("'(' or '.'")
	}
	return call, c, nil
}

// parseExpressionList parses comma-separated arguments up to and including
// the closing ')'.
func parseExpressionList(c cursor) ([]Expression, cursor, error) {
	var args []Expression
	if c.isSymbol(')') {
		return args, c.next(), nil
	}
	for {
		arg, next, err := parseExpression(c)
		if err != nil {
			return nil, next, err
		}
		args = append(args, arg)
		c = next
		if !c.isSymbol(',') {
			break
		}
		c = c.next()
	}
	_, c, err := expectSymbol(c, ')')
	if err != nil {
		return nil, c, err
	}
	return args, c, nil
}

// parseExpression parses a left-to-right operator chain with no precedence.
// Each extra operator wraps the expression so far in a NestedTerm.
func parseExpression(c cursor) (Expression, cursor, error) {
	left, c, err := parseTerm(c)
	if err != nil {
		return nil, c, err
	}
	if c.done() || !c.peek().IsBinaryOp() {
		return &UnaryExpr{Term: left}, c, nil
	}
	var expr *BinaryExpr
	for !c.done() && c.peek().IsBinaryOp() {
		op := c.peek()
		var right Term
		if right, c, err = parseTerm(c.next()); err != nil {
			return nil, c, err
		}
		if expr != nil {
			left = &NestedTerm{Expr: expr}
		}
		expr = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return expr, c, nil
}

func parseTerm(c cursor) (Term, cursor, error) {
	if c.done() {
		return nil, c, c.expected("term")
	}
	tok := c.peek()
	switch tok.Kind {
	case IntegerConstant:
		if n, err := strconv.Atoi(tok.Text); err != nil || n > MaxInteger {
			return nil, c, c.errorf("integer constant %s out of range 0..%d", tok.Text, MaxInteger)
		}
		return &SingleTerm{Token: tok}, c.next(), nil
	case StringConstant:
		return &SingleTerm{Token: tok}, c.next(), nil
	case Keyword:
		if c.isKeyword("true", "false", "null", "this") {
			return &SingleTerm{Token: tok}, c.next(), nil
		}
	case Identifier:
		switch {
		case c.at(1).IsSymbol('['):
			index, next, err := parseExpression(c.next().next())
			if err != nil {
				return nil, next, err
			}
			if _, next, err = expectSymbol(next, ']'); err != nil {
				return nil, next, err
			}
			return &IndexTerm{Name: tok, Index: index}, next, nil
		case c.at(1).IsSymbol('(') || c.at(1).IsSymbol('.'):
			call, next, err := parseSubroutineCall(c)
			if err != nil {
				return nil, next, err
			}
			return &CallTerm{Call: call}, next, nil
		}
		return &SingleTerm{Token: tok}, c.next(), nil
	case Symbol:
		if tok.IsSymbol('(') {
			expr, next, err := parseExpression(c.next())
			if err != nil {
				return nil, next, err
			}
			if _, next, err = expectSymbol(next, ')'); err != nil {
				return nil, next, err
			}
			return &ParenTerm{Expr: expr}, next, nil
		}
		if tok.IsUnaryOp() {
			operand, next, err := parseTerm(c.next())
			if err != nil {
				return nil, next, err
			}
			return &UnaryOpTerm{Op: tok, Term: operand}, next, nil
		}
	}
	return nil, c, c.expected("term")
}
