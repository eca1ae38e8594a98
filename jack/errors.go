package jack

import (
	"fmt"
	"strconv"
)

// CompileError is implemented by every error the compiler reports for a
// source unit.
type CompileError interface {
	error
	Position() (filename string, line int)
	setFilename(name string)
}

// LexError reports a character that starts no token.
type LexError struct {
	Filename string
	Line     int
	Char     rune
}

func (e *LexError) Error() string {
	return location(e.Filename, e.Line) + "invalid token " + strconv.QuoteRune(e.Char)
}

// ParseError reports a grammar violation.
type ParseError struct {
	Filename string
	Line     int
	Msg      string
}

func (e *ParseError) Error() string {
	return location(e.Filename, e.Line) + e.Msg
}

// SymbolError reports a name that is undeclared in every scope, or declared
// twice in one.
type SymbolError struct {
	Filename  string
	Line      int
	Name      string
	Duplicate bool
}

func (e *SymbolError) Error() string {
	if e.Duplicate {
		return location(e.Filename, e.Line) + fmt.Sprintf("%q is already declared", e.Name)
	}
	return location(e.Filename, e.Line) + fmt.Sprintf("%q is undefined", e.Name)
}

// StructuralError reports a subroutine without any return statement.
type StructuralError struct {
	Filename   string
	Line       int
	Subroutine string
}

func (e *StructuralError) Error() string {
	return location(e.Filename, e.Line) + fmt.Sprintf("subroutine %q has no return statement", e.Subroutine)
}

func (e *LexError) Position() (string, int)        { return e.Filename, e.Line }
func (e *ParseError) Position() (string, int)      { return e.Filename, e.Line }
func (e *SymbolError) Position() (string, int)     { return e.Filename, e.Line }
func (e *StructuralError) Position() (string, int) { return e.Filename, e.Line }

func (e *LexError) setFilename(name string)        { e.Filename = name }
func (e *ParseError) setFilename(name string)      { e.Filename = name }
func (e *SymbolError) setFilename(name string)     { e.Filename = name }
func (e *StructuralError) setFilename(name string) { e.Filename = name }

func location(filename string, line int) string {
	if filename == "" {
		return "line " + strconv.Itoa(line) + ": "
	}
	return filename + ":" + strconv.Itoa(line) + ": "
}

// withFilename attaches filename to err if it is a CompileError.
func withFilename(err error, filename string) error {
	if ce, ok := err.(CompileError); ok && filename != "" {
		ce.setFilename(filename)
	}
	return err
}
