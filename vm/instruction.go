// Package vm models the stack-machine instruction stream produced by the
// compiler: instructions, linkable programs, the text format exchanged with the
// downstream translator, and a reference interpreter.
package vm

import (
	"fmt"
	"strconv"
)

// Op identifies the operation of an Instruction.
type Op int

const (
	Add Op = iota
	Sub
	Neg
	Eq
	Gt
	Lt
	And
	Or
	Not
	Push
	Pop
	Label
	Goto
	IfGoto
	Function
	Call
	Return
)

var opNames = [...]string{
	Add:      "add",
	Sub:      "sub",
	Neg:      "neg",
	Eq:       "eq",
	Gt:       "gt",
	Lt:       "lt",
	And:      "and",
	Or:       "or",
	Not:      "not",
	Push:     "push",
	Pop:      "pop",
	Label:    "label",
	Goto:     "goto",
	IfGoto:   "if-goto",
	Function: "function",
	Call:     "call",
	Return:   "return",
}

func (op Op) String() string {
	if op >= 0 && int(op) < len(opNames) {
		return opNames[op]
	}
	return "Op(" + strconv.Itoa(int(op)) + ")"
}

// IsArithmetic reports whether op takes no operands and works purely on the
// stack (add through not).
func (op Op) IsArithmetic() bool {
	return op >= Add && op <= Not
}

// IsJump reports whether op names a label operand that must be resolved.
func (op Op) IsJump() bool {
	return op == Goto || op == IfGoto
}

// Segment is a named VM memory region addressed by small offsets.
type Segment int

const (
	Static Segment = iota
	This
	Local
	Argument
	That
	Constant
	Pointer
	Temp
)

var segmentNames = [...]string{
	Static:   "static",
	This:     "this",
	Local:    "local",
	Argument: "argument",
	That:     "that",
	Constant: "constant",
	Pointer:  "pointer",
	Temp:     "temp",
}

func (s Segment) String() string {
	if s >= 0 && int(s) < len(segmentNames) {
		return segmentNames[s]
	}
	return "Segment(" + strconv.Itoa(int(s)) + ")"
}

var (
	opsByName      = map[string]Op{}
	segmentsByName = map[string]Segment{}
)

func init() {
	for op, name := range opNames {
		opsByName[name] = Op(op)
	}
	for seg, name := range segmentNames {
		segmentsByName[name] = Segment(seg)
	}
}

// LookupOp returns the Op spelled name in the text format.
func LookupOp(name string) (Op, bool) {
	op, ok := opsByName[name]
	return op, ok
}

// LookupSegment returns the Segment spelled name in the text format.
func LookupSegment(name string) (Segment, bool) {
	seg, ok := segmentsByName[name]
	return seg, ok
}

// Instruction is a single VM instruction. Which fields are meaningful depends
// on Op:
//
//	push/pop           Segment, N (offset)
//	label/goto/if-goto Name
//	function           Name, N (local count)
//	call               Name, N (argument count)
type Instruction struct {
	Op      Op
	Segment Segment
	Name    string
	N       int
}

// Arith builds an operand-less instruction (add, sub, ..., return).
func Arith(op Op) Instruction { return Instruction{Op: op} }

func PushOf(seg Segment, offset int) Instruction {
	return Instruction{Op: Push, Segment: seg, N: offset}
}

func PopOf(seg Segment, offset int) Instruction {
	return Instruction{Op: Pop, Segment: seg, N: offset}
}

func LabelOf(name string) Instruction { return Instruction{Op: Label, Name: name} }
func GotoOf(name string) Instruction { return Instruction{Op: Goto, Name: name} }
func IfGotoOf(name string) Instruction { return Instruction{Op: IfGoto, Name: name} }

func FunctionOf(name string, nLocals int) Instruction {
	return Instruction{Op: Function, Name: name, N: nLocals}
}

func CallOf(name string, nArgs int) Instruction {
	return Instruction{Op: Call, Name: name, N: nArgs}
}

func ReturnOf() Instruction { return Instruction{Op: Return} }

// String renders the instruction in the text format, without a newline.
func (in Instruction) String() string {
	switch in.Op {
	case Push, Pop:
		return fmt.Sprintf("%s %s %d", in.Op, in.Segment, in.N)
	case Label, Goto, IfGoto:
		return in.Op.String() + " " + in.Name
	case Function, Call:
		return fmt.Sprintf("%s %s %d", in.Op, in.Name, in.N)
	default:
		return in.Op.String()
	}
}
