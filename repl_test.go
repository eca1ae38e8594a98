package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestComplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"", true},
		{"class A {", false},
		{"class A {\n function void f() {", false},
		{"class A {\n function void f() { return; }\n}", true},
		{`class A { function void f() { do B.g("}"); `, false},
		{"class A { /* } */", false},
		{"class # {", true},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			be.Equal(t, complete(test.src), test.want)
		})
	}
}

func TestReplEval(t *testing.T) {
	var out, errOut bytes.Buffer
	r := &repl{out: &out, errOut: &errOut}
	class := "class A { function void f(int a) { if (a) { let a = 0; } return; } }"

	be.Equal(t, r.eval(class), false)
	be.True(t, strings.HasPrefix(out.String(), "function A.f 0\npush argument 0\nif-goto IF0\n"))

	out.Reset()
	r.eval(class)
	be.True(t, strings.Contains(out.String(), "if-goto IF1\n"))

	out.Reset()
	r.eval(":reset")
	be.Equal(t, out.String(), "label counters reset\n")
	out.Reset()
	r.eval(class)
	be.True(t, strings.Contains(out.String(), "if-goto IF0\n"))

	be.Equal(t, r.eval("class A { function int f() { return x; } }"), false)
	be.Equal(t, errOut.String(), "error: line 1: \"x\" is undefined\n")

	errOut.Reset()
	r.eval(":bogus")
	be.True(t, strings.Contains(errOut.String(), "unknown command"))

	be.Equal(t, r.eval("   "), false)
	be.Equal(t, r.eval(":quit"), true)
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestReplEvalReportsWriteErrors(t *testing.T) {
	var errOut bytes.Buffer
	r := &repl{out: brokenWriter{}, errOut: &errOut}
	be.Equal(t, r.eval("class A { function void f() { return; } }"), false)
	be.Equal(t, errOut.String(), "error: disk full\n")
}
