package vm

import (
	"fmt"
	"math"

	"github.com/golang/glog"
)

// Memory layout of the reference machine.
const (
	MemorySize = 24577

	SP   = 0
	LCL  = 1
	ARG  = 2
	THIS = 3
	THAT = 4

	TempBase   = 5
	TempSize   = 8
	StaticBase = 16
	StaticSize = 240
	StackBase  = 256
	HeapBase   = 2048
	KBD        = 24576
)

// EntryFunction is where execution starts. HaltFunction stops the machine as
// soon as it is called; its first argument becomes the exit value.
const (
	EntryFunction = "Sys.init"
	HaltFunction  = "Sys.halt"
)

// RuntimeError is a machine fault at a given instruction.
type RuntimeError struct {
	PC  int
	Msg string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("instruction %d: %s", e.PC, e.Msg)
}

// Machine interprets a resolved program over a 16-bit word memory.
type Machine struct {
	img   *Image
	entry int
	mem   [MemorySize]int16
	pc    int
	depth int
	steps int

	halted bool
	exit   int16
}

// NewMachine prepares img for execution. img must define EntryFunction.
func NewMachine(img *Image) (*Machine, error) {
	entry, ok := img.Functions[EntryFunction]
	if !ok {
		return nil, &UnresolvedError{Op: Call, Name: EntryFunction, Index: -1}
	}
	if img.Program.Len() > math.MaxInt16 {
		return nil, &RuntimeError{PC: -1, Msg: "program too large for 16-bit return addresses"}
	}
	m := &Machine{img: img, entry: entry}
	m.Reset()
	return m, nil
}

// Reset clears memory and rewinds to the entry function.
func (m *Machine) Reset() {
	m.mem = [MemorySize]int16{}
	m.mem[SP] = StackBase
	m.mem[LCL] = StackBase
	m.mem[ARG] = StackBase
	m.pc = m.entry
	m.depth = 0
	m.steps = 0
	m.halted = false
	m.exit = 0
}

func (m *Machine) Halted() bool { return m.halted }

// ExitValue is the first argument passed to HaltFunction, or the value
// returned by the entry function if it returned instead.
func (m *Machine) ExitValue() int16 { return m.exit }

// Steps counts instructions executed since the last Reset.
func (m *Machine) Steps() int { return m.steps }

// Peek reads a memory word.
func (m *Machine) Peek(addr int) (int16, error) {
	if addr < 0 || addr >= MemorySize {
		return 0, &RuntimeError{PC: m.pc, Msg: fmt.Sprintf("address %d out of range", addr)}
	}
	return m.mem[addr], nil
}

// Static reads static slot i.
func (m *Machine) Static(i int) (int16, error) {
	if i < 0 || i >= StaticSize {
		return 0, &RuntimeError{PC: m.pc, Msg: fmt.Sprintf("static %d out of range", i)}
	}
	return m.mem[StaticBase+i], nil
}

// StackTop returns the top word of the working stack, if any.
func (m *Machine) StackTop() (int16, bool) {
	sp := int(m.mem[SP])
	if sp <= StackBase || sp > HeapBase {
		return 0, false
	}
	return m.mem[sp-1], true
}

// SetKey stores the currently pressed key code in the keyboard register.
func (m *Machine) SetKey(code int16) {
	m.mem[KBD] = code
}

// Run executes until the machine halts or maxSteps instructions have run.
// maxSteps <= 0 means no limit.
func (m *Machine) Run(maxSteps int) (bool, error) {
	for n := 0; !m.halted && (maxSteps <= 0 || n < maxSteps); n++ {
		if err := m.Step(); err != nil {
			return false, err
		}
	}
	return m.halted, nil
}

// Step executes one instruction. Stepping a halted machine does nothing.
func (m *Machine) Step() error {
	if m.halted {
		return nil
	}
	instrs := m.img.Program.Instructions()
	if m.pc < 0 || m.pc >= len(instrs) {
		return m.fault("program counter %d out of range", m.pc)
	}
	in := instrs[m.pc]
	if glog.V(7) {
		glog.Infof("step %d pc %d sp %d: %s", m.steps, m.pc, m.mem[SP], in)
	}
	m.steps++
	next := m.pc + 1

	switch in.Op {
	case Add, Sub, And, Or, Eq, Gt, Lt:
		y, err := m.pop()
		if err != nil {
			return err
		}
		x, err := m.pop()
		if err != nil {
			return err
		}
		if err := m.push(binary(in.Op, x, y)); err != nil {
			return err
		}
	case Neg, Not:
		x, err := m.pop()
		if err != nil {
			return err
		}
		if in.Op == Neg {
			x = -x
		} else {
			x = ^x
		}
		if err := m.push(x); err != nil {
			return err
		}
	case Push:
		var v int16
		if in.Segment == Constant {
			v = int16(in.N)
		} else {
			addr, err := m.address(in.Segment, in.N)
			if err != nil {
				return err
			}
			v = m.mem[addr]
		}
		if err := m.push(v); err != nil {
			return err
		}
	case Pop:
		if in.Segment == Constant {
			return m.fault("cannot pop into constant")
		}
		addr, err := m.address(in.Segment, in.N)
		if err != nil {
			return err
		}
		v, err := m.pop()
		if err != nil {
			return err
		}
		m.mem[addr] = v
	case Label:
	case Goto:
		next = m.img.Targets[m.pc]
	case IfGoto:
		v, err := m.pop()
		if err != nil {
			return err
		}
		if v != 0 {
			next = m.img.Targets[m.pc]
		}
	case Function:
		for i := 0; i < in.N; i++ {
			if err := m.push(0); err != nil {
				return err
			}
		}
	case Call:
		for _, v := range []int16{int16(next), m.mem[LCL], m.mem[ARG], m.mem[THIS], m.mem[THAT]} {
			if err := m.push(v); err != nil {
				return err
			}
		}
		m.mem[ARG] = m.mem[SP] - int16(in.N) - 5
		m.mem[LCL] = m.mem[SP]
		m.depth++
		next = m.img.Targets[m.pc]
		if in.Name == HaltFunction {
			if in.N > 0 {
				m.exit = m.mem[int(m.mem[ARG])]
			}
			m.halted = true
		}
	case Return:
		v, err := m.pop()
		if err != nil {
			return err
		}
		if m.depth == 0 {
			m.exit = v
			m.halted = true
			return nil
		}
		frame := int(m.mem[LCL])
		if frame-5 < StackBase {
			return m.fault("return with corrupt frame at %d", frame)
		}
		ret := m.mem[frame-5]
		arg := int(m.mem[ARG])
		if arg < StackBase || arg >= HeapBase {
			return m.fault("return with argument pointer %d outside the stack", arg)
		}
		m.mem[arg] = v
		m.mem[SP] = int16(arg + 1)
		m.mem[THAT] = m.mem[frame-1]
		m.mem[THIS] = m.mem[frame-2]
		m.mem[ARG] = m.mem[frame-3]
		m.mem[LCL] = m.mem[frame-4]
		m.depth--
		next = int(ret)
	default:
		return m.fault("unknown operation %s", in.Op)
	}
	m.pc = next
	return nil
}

func binary(op Op, x, y int16) int16 {
	switch op {
	case Add:
		return x + y
	case Sub:
		return x - y
	case And:
		return x & y
	case Or:
		return x | y
	case Eq:
		return truth(x == y)
	case Gt:
		return truth(x > y)
	case Lt:
		return truth(x < y)
	}
	panic("unreachable")
}

func truth(b bool) int16 {
	if b {
		return -1
	}
	return 0
}

func (m *Machine) address(seg Segment, offset int) (int, error) {
	var addr int
	switch seg {
	case Local:
		addr = int(m.mem[LCL]) + offset
	case Argument:
		addr = int(m.mem[ARG]) + offset
	case This:
		addr = int(m.mem[THIS]) + offset
	case That:
		addr = int(m.mem[THAT]) + offset
	case Pointer:
		if offset > 1 {
			return 0, m.fault("pointer %d out of range", offset)
		}
		addr = THIS + offset
	case Temp:
		if offset >= TempSize {
			return 0, m.fault("temp %d out of range", offset)
		}
		addr = TempBase + offset
	case Static:
		if offset >= StaticSize {
			return 0, m.fault("static %d out of range", offset)
		}
		addr = StaticBase + offset
	default:
		return 0, m.fault("segment %s has no address", seg)
	}
	if offset < 0 || addr < 0 || addr >= MemorySize {
		return 0, m.fault("%s %d resolves to address %d, out of range", seg, offset, addr)
	}
	return addr, nil
}

func (m *Machine) push(v int16) error {
	sp := int(m.mem[SP])
	if sp < StackBase || sp >= HeapBase {
		return m.fault("stack overflow")
	}
	m.mem[sp] = v
	m.mem[SP]++
	return nil
}

func (m *Machine) pop() (int16, error) {
	sp := int(m.mem[SP])
	if sp <= StackBase || sp > HeapBase {
		return 0, m.fault("stack underflow")
	}
	m.mem[SP]--
	return m.mem[sp-1], nil
}

func (m *Machine) fault(format string, args ...any) error {
	return &RuntimeError{PC: m.pc, Msg: fmt.Sprintf(format, args...)}
}
