package jack

import (
	"maps"

	"github.com/strager/jackc/vm"
)

// VarKind is the scope a variable was declared in.
type VarKind int

const (
	StaticVar VarKind = iota
	FieldVar
	ArgumentVar
	LocalVar
)

func (k VarKind) String() string {
	switch k {
	case StaticVar:
		return "static"
	case FieldVar:
		return "field"
	case ArgumentVar:
		return "argument"
	case LocalVar:
		return "local"
	}
	return "unknown"
}

// Segment is the vm segment variables of kind k live in.
func (k VarKind) Segment() vm.Segment {
	switch k {
	case StaticVar:
		return vm.Static
	case FieldVar:
		return vm.This
	case ArgumentVar:
		return vm.Argument
	default:
		return vm.Local
	}
}

// Var is one declared name: its declared type, kind and slot index.
type Var struct {
	Type  Token
	Kind  VarKind
	Index int
}

// SymbolTable maps names to slots in four independent scopes. It is a value:
// Declare returns an updated table and leaves the receiver unchanged, so a
// table can be threaded through code generation without aliasing.
type SymbolTable struct {
	class   string
	argBase int
	scopes  [4]map[string]Var
}

// NewSymbolTable starts a class scope with no variables.
func NewSymbolTable(class string) SymbolTable {
	return SymbolTable{class: class}
}

func (st SymbolTable) Class() string { return st.class }

// EnterSubroutine clears the argument and local scopes. Arguments will be
// numbered from argBase, which is 1 for methods (argument 0 is the receiver).
func (st SymbolTable) EnterSubroutine(argBase int) SymbolTable {
	st.argBase = argBase
	st.scopes[ArgumentVar] = nil
	st.scopes[LocalVar] = nil
	return st
}

// Count is the number of variables declared with kind in the current scope.
func (st SymbolTable) Count(kind VarKind) int {
	return len(st.scopes[kind])
}

// Declare adds name with the next free index of kind. Declaring a name twice
// in the same scope is a *SymbolError.
func (st SymbolTable) Declare(kind VarKind, typ, name Token) (SymbolTable, error) {
	if _, dup := st.scopes[kind][name.Text]; dup {
		return st, &SymbolError{Line: name.Line, Name: name.Text, Duplicate: true}
	}
	index := len(st.scopes[kind])
	if kind == ArgumentVar {
		index += st.argBase
	}
	scope := maps.Clone(st.scopes[kind])
	if scope == nil {
		scope = map[string]Var{}
	}
	scope[name.Text] = Var{Type: typ, Kind: kind, Index: index}
	st.scopes[kind] = scope
	return st, nil
}

// Lookup searches local, argument, field and static scopes in that order.
func (st SymbolTable) Lookup(name string) (Var, bool) {
	for _, kind := range [...]VarKind{LocalVar, ArgumentVar, FieldVar, StaticVar} {
		if sym, ok := st.scopes[kind][name]; ok {
			return sym, true
		}
	}
	return Var{}, false
}

// Resolve is Lookup reporting a *SymbolError for undeclared names.
func (st SymbolTable) Resolve(name Token) (Var, error) {
	sym, ok := st.Lookup(name.Text)
	if !ok {
		return Var{}, &SymbolError{Line: name.Line, Name: name.Text}
	}
	return sym, nil
}
