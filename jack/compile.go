package jack

import (
	"github.com/golang/glog"

	"github.com/strager/jackc/vm"
)

// Session owns the if/while label counters shared by every unit it compiles.
// The zero value is ready to use.
type Session struct {
	ifLabels    int
	whileLabels int
}

func NewSession() *Session {
	return &Session{}
}

// Reset restarts the label counters for an unrelated batch.
func (s *Session) Reset() {
	s.ifLabels = 0
	s.whileLabels = 0
}

func (s *Session) nextIf() int {
	k := s.ifLabels
	s.ifLabels++
	return k
}

func (s *Session) nextWhile() int {
	k := s.whileLabels
	s.whileLabels++
	return k
}

// Compile tokenizes, parses and generates one source unit. filename is used
// only to annotate errors. The returned program is unlinked. On error nothing
// is returned and the label counters may have advanced.
func (s *Session) Compile(filename string, src string) (*vm.Program, error) {
	class, err := ParseUnit(filename, src)
	if err != nil {
		return nil, err
	}
	prog, err := s.CompileClass(class)
	if err != nil {
		return nil, withFilename(err, filename)
	}
	glog.V(3).Infof("compiled %s: class %s, %d instructions", filename, class.Name.Text, prog.Len())
	return prog, nil
}

// CompileClass generates instructions for an already parsed class.
func (s *Session) CompileClass(class *Class) (*vm.Program, error) {
	g := &generator{session: s, out: &vm.Program{}}
	if err := g.genClass(class); err != nil {
		return nil, err
	}
	return g.out, nil
}

// ParseUnit tokenizes and parses one source unit, annotating errors with
// filename.
func ParseUnit(filename string, src string) (*Class, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, withFilename(err, filename)
	}
	class, err := ParseClass(tokens)
	if err != nil {
		return nil, withFilename(err, filename)
	}
	return class, nil
}

// Compile compiles a single unit in a fresh session.
func Compile(filename string, src string) (*vm.Program, error) {
	return NewSession().Compile(filename, src)
}
