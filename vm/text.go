package vm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SyntaxError reports a malformed line in instruction text.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// ParseProgram reads instruction text, one instruction per line. Blank lines
// and `//` comments are ignored. The returned program is unlinked.
func ParseProgram(r io.Reader) (*Program, error) {
	p := &Program{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.Index(text, "//"); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		in, err := parseInstruction(fields)
		if err != nil {
			return nil, &SyntaxError{Line: line, Msg: err.Error()}
		}
		p.Append(in)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseInstruction(fields []string) (Instruction, error) {
	op, ok := LookupOp(fields[0])
	if !ok {
		return Instruction{}, fmt.Errorf("unknown operation %q", fields[0])
	}
	want := 1
	switch op {
	case Push, Pop, Function, Call:
		want = 3
	case Label, Goto, IfGoto:
		want = 2
	}
	if len(fields) != want {
		return Instruction{}, fmt.Errorf("%s takes %d operand(s), found %d", op, want-1, len(fields)-1)
	}

	in := Instruction{Op: op}
	switch op {
	case Push, Pop:
		seg, ok := LookupSegment(fields[1])
		if !ok {
			return Instruction{}, fmt.Errorf("unknown segment %q", fields[1])
		}
		n, err := parseCount(fields[2])
		if err != nil {
			return Instruction{}, err
		}
		if op == Pop && seg == Constant {
			return Instruction{}, fmt.Errorf("cannot pop into constant")
		}
		in.Segment, in.N = seg, n
	case Label, Goto, IfGoto:
		in.Name = fields[1]
	case Function, Call:
		n, err := parseCount(fields[2])
		if err != nil {
			return Instruction{}, err
		}
		in.Name, in.N = fields[1], n
	}
	return in, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("expected a non-negative integer, found %q", s)
	}
	return n, nil
}
