package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const classA = `class A {
    static int x;

    function int f() {
        if (x) {
            let x = 1;
        }
        return x;
    }
}
`

const classB = `class B {
    static int y, z;

    function int g() {
        if (y) {
            let z = y;
        }
        return z;
    }
}
`

const linkedAB = `function A.f 0
push static 0
if-goto A.fIF0
goto A.fEND_IF0
label A.fIF0
push constant 1
pop static 0
label A.fEND_IF0
push static 0
return
function B.g 0
push static 1
if-goto B.gIF1
goto B.gEND_IF1
label B.gIF1
push static 1
pop static 2
label B.gEND_IF1
push static 2
return
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		be.Err(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644), nil)
	}
	return dir
}

func TestBatchLinksUnitsInOrder(t *testing.T) {
	b := NewBatch(false)
	be.Err(t, b.AddSource("A.jack", classA), nil)
	be.Err(t, b.AddSource("B.jack", classB), nil)

	be.Equal(t, b.Program().String(), linkedAB)
	be.Equal(t, b.Program().Statics(), 3)
	be.Equal(t, b.Units(), []string{"A.jack", "B.jack"})

	unit, ok := b.Unit("B.jack")
	be.True(t, ok)
	be.True(t, strings.Contains(unit, "label IF1\n"))
	be.True(t, strings.Contains(unit, "pop static 1\n"))
	_, ok = b.Unit("C.jack")
	be.True(t, !ok)
}

func TestBatchSummary(t *testing.T) {
	b := NewBatch(false)
	be.Err(t, b.AddSource("A.jack", classA), nil)
	be.True(t, strings.HasPrefix(b.Summary(), "1 unit, 10 instructions, 1 statics, "))
	be.Err(t, b.AddSource("B.jack", classB), nil)
	be.True(t, strings.HasPrefix(b.Summary(), "2 units, 20 instructions, 3 statics, "))
}

func TestBatchBuildExpandsDirectories(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"B.jack":    classB,
		"A.jack":    classA,
		"notes.txt": "not a class",
	})
	b := NewBatch(false)
	be.Err(t, b.Build([]string{dir}), nil)
	be.Equal(t, b.Program().String(), linkedAB)
	be.Equal(t, b.Units(), []string{filepath.Join(dir, "A.jack"), filepath.Join(dir, "B.jack")})
}

func TestBatchBuildStopsAtFirstFailure(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"A.jack": "class A { function int f() { return p; } }",
		"B.jack": "class B { function int g() { return q; } }",
	})
	err := NewBatch(false).Build([]string{dir})
	be.Err(t, err, `A.jack:1: "p" is undefined`)
	be.True(t, !strings.Contains(err.Error(), `"q"`))
}

func TestBatchBuildKeepGoingReportsEveryFailure(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"A.jack": "class A { function int f() { return p; } }",
		"B.jack": "class B { function int g() { return 1; } }",
		"C.jack": "class C { function int h() { return q; } }",
	})
	b := NewBatch(true)
	err := b.Build([]string{dir})
	be.Err(t, err, `A.jack:1: "p" is undefined`)
	be.Err(t, err, `C.jack:1: "q" is undefined`)
	be.Err(t, err, "2 errors occurred")
	be.Equal(t, b.Units(), []string{filepath.Join(dir, "B.jack")})
}

func TestBatchBuildErrors(t *testing.T) {
	empty := t.TempDir()
	be.Err(t, NewBatch(false).Build([]string{empty}), "no .jack files in")
	be.Err(t, NewBatch(false).Build([]string{filepath.Join(empty, "missing.jack")}), "cannot open")

	dir := writeFiles(t, map[string]string{"A.txt": "class A {}"})
	be.Err(t, NewBatch(false).AddFile(filepath.Join(dir, "A.txt")), "expected a .jack or .vm file")
}

func TestBatchAddsInstructionFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"A.vm":   "function A.f 0\npush static 0\nreturn\n",
		"B.vm":   "// comment\nfunction B.g 0\npush static 4\nreturn\n",
		"Bad.vm": "push nowhere 1\n",
	})
	b := NewBatch(false)
	be.Err(t, b.AddFile(filepath.Join(dir, "A.vm")), nil)
	be.Err(t, b.AddFile(filepath.Join(dir, "B.vm")), nil)
	be.Equal(t, b.Program().String(), "function A.f 0\npush static 0\nreturn\nfunction B.g 0\npush static 5\nreturn\n")
	be.Equal(t, b.Program().Statics(), 6)

	be.Err(t, b.AddFile(filepath.Join(dir, "Bad.vm")), `Bad.vm: line 1: unknown segment "nowhere"`)
}

func TestBatchWriteUnits(t *testing.T) {
	b := NewBatch(false)
	be.Err(t, b.AddSource(filepath.Join("src", "A.jack"), classA), nil)
	be.Err(t, b.AddSource(filepath.Join("src", "B.jack"), classB), nil)

	out := filepath.Join(t.TempDir(), "units")
	be.Err(t, b.WriteUnits(out), nil)

	for _, name := range []string{"A", "B"} {
		got, err := os.ReadFile(filepath.Join(out, name+".vm"))
		be.Err(t, err, nil)
		want, _ := b.Unit(filepath.Join("src", name+".jack"))
		be.Equal(t, string(got), want)
	}
}
