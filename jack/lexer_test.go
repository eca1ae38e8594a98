package jack

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestTokenizeKinds(t *testing.T) {
	tokens, err := Tokenize(`let x = "hi" + 42;`)
	be.Err(t, err, nil)
	be.Equal(t, tokens, []Token{
		{Kind: Keyword, Text: "let", Line: 1},
		{Kind: Identifier, Text: "x", Line: 1},
		{Kind: Symbol, Text: "=", Line: 1},
		{Kind: StringConstant, Text: "hi", Line: 1},
		{Kind: Symbol, Text: "+", Line: 1},
		{Kind: IntegerConstant, Text: "42", Line: 1},
		{Kind: Symbol, Text: ";", Line: 1},
	})
}

func TestTokenizeLineNumbers(t *testing.T) {
	src := "class\n// comment\nMain /* a\nb\n*/ {\n}"
	tokens, err := Tokenize(src)
	be.Err(t, err, nil)
	be.Equal(t, TokensToSExpr(tokens),
		`(tokens (keyword "class" 1) (ident "Main" 3) (symbol "{" 5) (symbol "}" 6))`)
}

func TestTokenizeAllSymbols(t *testing.T) {
	tokens, err := Tokenize("()[]{},;=.+-*/&|~><")
	be.Err(t, err, nil)
	be.Equal(t, len(tokens), 19)
	for _, tok := range tokens {
		be.Equal(t, tok.Kind, Symbol)
	}
}

func TestTokenizeReservedWords(t *testing.T) {
	for _, word := range reservedWords {
		tokens, err := Tokenize(word)
		be.Err(t, err, nil)
		be.Equal(t, tokens[0].Kind, Keyword)
		be.True(t, IsReserved(word))
	}
	tokens, err := Tokenize("classy _x1 While")
	be.Err(t, err, nil)
	for _, tok := range tokens {
		be.Equal(t, tok.Kind, Identifier)
	}
}

func TestTokenizeDigitsThenLetters(t *testing.T) {
	tokens, err := Tokenize("12ab")
	be.Err(t, err, nil)
	be.Equal(t, TokensToSExpr(tokens), `(tokens (int "12" 1) (ident "ab" 1))`)
}

func TestTokenizeUnterminated(t *testing.T) {
	tokens, err := Tokenize(`x "abc`)
	be.Err(t, err, nil)
	be.Equal(t, tokens[1], Token{Kind: StringConstant, Text: "abc", Line: 1})

	tokens, err = Tokenize("x /* never closed\n y")
	be.Err(t, err, nil)
	be.Equal(t, len(tokens), 1)
}

func TestTokenizeInvalidCharacter(t *testing.T) {
	_, err := Tokenize("let x\n= 1 @ 2;")
	lexErr, ok := err.(*LexError)
	be.True(t, ok)
	be.Equal(t, lexErr.Line, 2)
	be.Equal(t, lexErr.Char, '@')
	be.Equal(t, err.Error(), `line 2: invalid token '@'`)
}

func TestZeroTokenizer(t *testing.T) {
	var tz Tokenizer
	_, err := tz.Tokenize("class")
	be.Err(t, err, ErrTokenizerNotInitialized)

	tokens, err := NewTokenizer().Tokenize("class")
	be.Err(t, err, nil)
	be.Equal(t, len(tokens), 1)
}

func TestTokenOperators(t *testing.T) {
	tokens, err := Tokenize("+ - * / & | < > = ~ .")
	be.Err(t, err, nil)
	for _, tok := range tokens[:9] {
		be.True(t, tok.IsBinaryOp())
	}
	be.True(t, tokens[1].IsUnaryOp())
	be.True(t, tokens[9].IsUnaryOp())
	be.True(t, !tokens[9].IsBinaryOp())
	be.True(t, !tokens[10].IsBinaryOp())
	be.True(t, !tokens[10].IsUnaryOp())
}
