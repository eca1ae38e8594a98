package vm

import "fmt"

// Image is a linked program with every call and jump target resolved to an
// instruction position.
type Image struct {
	Program   *Program
	Functions map[string]int
	Labels    map[string]int

	// Targets[i] is the resolved position for a call, goto or if-goto at i,
	// and -1 for every other instruction.
	Targets []int
}

// UnresolvedError names a call or jump whose target is not defined anywhere in
// the program.
type UnresolvedError struct {
	Op    Op
	Name  string
	Index int
}

func (e *UnresolvedError) Error() string {
	kind := "Label"
	if e.Op == Call {
		kind = "Function"
	}
	return fmt.Sprintf("%s %q is undefined (instruction %d)", kind, e.Name, e.Index)
}

// Resolve builds the function and label tables and checks every call, goto
// and if-goto operand against them. Duplicate definitions keep the first.
func (p *Program) Resolve() (*Image, error) {
	img := &Image{
		Program:   p,
		Functions: map[string]int{},
		Labels:    map[string]int{},
		Targets:   make([]int, len(p.instrs)),
	}
	for i, in := range p.instrs {
		switch in.Op {
		case Function:
			if _, ok := img.Functions[in.Name]; !ok {
				img.Functions[in.Name] = i
			}
		case Label:
			if _, ok := img.Labels[in.Name]; !ok {
				img.Labels[in.Name] = i
			}
		}
	}
	for i, in := range p.instrs {
		img.Targets[i] = -1
		var table map[string]int
		switch {
		case in.Op == Call:
			table = img.Functions
		case in.Op.IsJump():
			table = img.Labels
		default:
			continue
		}
		pos, ok := table[in.Name]
		if !ok {
			return nil, &UnresolvedError{Op: in.Op, Name: in.Name, Index: i}
		}
		img.Targets[i] = pos
	}
	return img, nil
}
