package vm

import (
	"bufio"
	"io"
	"strings"

	"github.com/golang/glog"
)

// Program is an ordered, appendable sequence of instructions. The zero value is
// an empty program ready to use.
//
// Besides the instructions, a Program remembers how many static slots earlier
// Link calls have allocated, so that independently compiled units can share
// one static segment.
type Program struct {
	instrs  []Instruction
	statics int
}

func NewProgram(instrs ...Instruction) *Program {
	p := &Program{}
	p.Append(instrs...)
	return p
}

// Append adds instructions verbatim, without any relinking.
func (p *Program) Append(instrs ...Instruction) {
	p.instrs = append(p.instrs, instrs...)
}

// Instructions returns the program's instructions. The slice aliases the
// program's storage and must not be modified.
func (p *Program) Instructions() []Instruction {
	return p.instrs
}

func (p *Program) Len() int {
	return len(p.instrs)
}

// Statics is the number of static slots allocated by the units linked so far.
func (p *Program) Statics() int {
	return p.statics
}

// Link appends unit's instructions and relinks the appended range in a single
// pass:
//
//   - every label, goto and if-goto operand is prefixed with the name of the
//     most recent function declaration, giving each function its own label
//     namespace;
//   - every static push/pop is shifted by the number of static slots already
//     allocated by earlier units.
//
// Afterwards the allocated static count grows by the highest static offset the
// unit referenced, plus one. unit itself is not modified.
func (p *Program) Link(unit *Program) {
	begin := len(p.instrs)
	p.instrs = append(p.instrs, unit.instrs...)

	maxStatic := -1
	function := ""
	for i := begin; i < len(p.instrs); i++ {
		in := &p.instrs[i]
		switch {
		case in.Op == Function:
			function = in.Name
		case in.Op == Label || in.Op.IsJump():
			in.Name = function + in.Name
		case (in.Op == Push || in.Op == Pop) && in.Segment == Static:
			if in.N > maxStatic {
				maxStatic = in.N
			}
			in.N += p.statics
		}
	}

	glog.V(5).Infof("linked %d instructions at %d, static base %d, unit statics %d",
		len(p.instrs)-begin, begin, p.statics, maxStatic+1)
	p.statics += maxStatic + 1
}

// Reset empties the program and forgets all allocated static slots, so it can
// host an unrelated batch of units.
func (p *Program) Reset() {
	p.instrs = nil
	p.statics = 0
}

// WriteTo writes the program in the text format, one instruction per line.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, in := range p.instrs {
		m, err := bw.WriteString(in.String())
		n += int64(m)
		if err != nil {
			return n, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}

func (p *Program) String() string {
	var sb strings.Builder
	p.WriteTo(&sb)
	return sb.String()
}
