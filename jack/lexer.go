package jack

import (
	"errors"
)

// ErrTokenizerNotInitialized is returned by a zero-value Tokenizer.
var ErrTokenizerNotInitialized = errors.New("tokenizer used before initialization; construct it with NewTokenizer")

var reservedWords = []string{
	"class", "constructor", "method", "function",
	"int", "boolean", "char", "void",
	"var", "static", "field",
	"let", "do", "if", "else", "while", "return",
	"true", "false", "null", "this",
}

const symbolChars = "()[]{},;=.+-*/&|~><"

// Tokenizer splits source text into tokens. Build one with NewTokenizer; the
// reserved-word and symbol sets are fixed at construction.
type Tokenizer struct {
	keywords map[string]bool
	symbols  [256]bool
	ready    bool
}

func NewTokenizer() *Tokenizer {
	tz := &Tokenizer{keywords: make(map[string]bool, len(reservedWords))}
	for _, kw := range reservedWords {
		tz.keywords[kw] = true
	}
	for i := 0; i < len(symbolChars); i++ {
		tz.symbols[symbolChars[i]] = true
	}
	tz.ready = true
	return tz
}

var defaultTokenizer = NewTokenizer()

// Tokenize splits src with the default tokenizer.
func Tokenize(src string) ([]Token, error) {
	return defaultTokenizer.Tokenize(src)
}

// IsReserved reports whether word is a reserved word.
func IsReserved(word string) bool {
	return defaultTokenizer.keywords[word]
}

type lexer struct {
	tz   *Tokenizer
	src  string
	pos  int
	line int
}

// Tokenize splits src into tokens. Whitespace and comments are dropped. An
// unterminated block comment or string runs to the end of input.
func (tz *Tokenizer) Tokenize(src string) ([]Token, error) {
	if tz == nil || !tz.ready {
		return nil, ErrTokenizerNotInitialized
	}
	l := &lexer{tz: tz, src: src, line: 1}
	var tokens []Token
	for {
		l.skipBlanks()
		if l.pos >= len(l.src) {
			return tokens, nil
		}
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok != nil {
			tokens = append(tokens, *tok)
		}
	}
}

func (l *lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
	}
	l.pos++
}

func (l *lexer) skipBlanks() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			l.advance()
		default:
			return
		}
	}
}

// next scans one lexeme. Comments yield a nil token.
func (l *lexer) next() (*Token, error) {
	c := l.src[l.pos]
	switch {
	case c == '/' && l.peekAt(1) == '/':
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.pos++
		}
		return nil, nil
	case c == '/' && l.peekAt(1) == '*':
		l.pos += 2
		for l.pos < len(l.src) && !(l.src[l.pos] == '*' && l.peekAt(1) == '/') {
			l.advance()
		}
		l.pos = min(l.pos+2, len(l.src))
		return nil, nil
	case isDigit(c):
		return l.scan(IntegerConstant, isDigit), nil
	case c == '"':
		line := l.line
		l.pos++
		start := l.pos
		for l.pos < len(l.src) && l.src[l.pos] != '"' {
			l.advance()
		}
		tok := &Token{Kind: StringConstant, Text: l.src[start:l.pos], Line: line}
		if l.pos < len(l.src) {
			l.pos++
		}
		return tok, nil
	case isIdentStart(c):
		tok := l.scan(Identifier, isIdentPart)
		if l.tz.keywords[tok.Text] {
			tok.Kind = Keyword
		}
		return tok, nil
	case l.tz.symbols[c]:
		l.pos++
		return &Token{Kind: Symbol, Text: string(c), Line: l.line}, nil
	}
	return nil, &LexError{Line: l.line, Char: rune(c)}
}

func (l *lexer) scan(kind TokenKind, part func(byte) bool) *Token {
	start := l.pos
	for l.pos < len(l.src) && part(l.src[l.pos]) {
		l.pos++
	}
	return &Token{Kind: kind, Text: l.src[start:l.pos], Line: l.line}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
