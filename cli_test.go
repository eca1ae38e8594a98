package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func runJackc(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(Config{MaxSteps: defaultMaxSteps})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const fibMain = `class Main {
    function int main() {
        var int a, b, t, i;
        let b = 1;
        while (i < 10) {
            let t = a + b;
            let a = b;
            let b = t;
            let i = i + 1;
        }
        return a;
    }
}
`

func TestBuildCommandWritesLinkedProgram(t *testing.T) {
	dir := writeFiles(t, map[string]string{"A.jack": classA, "B.jack": classB})
	out, err := runJackc(t, "build", dir)
	be.Err(t, err, nil)
	be.Equal(t, out, linkedAB)
}

func TestBuildCommandWritesFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{"A.jack": classA, "B.jack": classB})
	output := filepath.Join(t.TempDir(), "linked.vm")
	units := filepath.Join(t.TempDir(), "units")

	out, err := runJackc(t, "build", "-o", output, "--out-dir", units,
		filepath.Join(dir, "A.jack"), filepath.Join(dir, "B.jack"))
	be.Err(t, err, nil)
	be.Equal(t, out, "")

	linked, err := os.ReadFile(output)
	be.Err(t, err, nil)
	be.Equal(t, string(linked), linkedAB)

	unitB, err := os.ReadFile(filepath.Join(units, "B.vm"))
	be.Err(t, err, nil)
	be.True(t, strings.Contains(string(unitB), "if-goto IF1\n"))
}

func TestBuildCommandKeepGoing(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"A.jack": "class A { function int f() { return p; } }",
		"B.jack": "class B { function int g() { return q; } }",
	})

	_, err := runJackc(t, "build", dir)
	be.Err(t, err, `"p" is undefined`)
	be.True(t, !strings.Contains(err.Error(), `"q"`))

	_, err = runJackc(t, "build", "--keep-going", dir)
	be.Err(t, err, `"p" is undefined`)
	be.Err(t, err, `"q" is undefined`)
}

func TestBuildCommandNeedsInput(t *testing.T) {
	_, err := runJackc(t, "build")
	be.Err(t, err, "requires at least 1 arg")
}

func TestCheckCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{"A.jack": classA})
	out, err := runJackc(t, "check", dir)
	be.Err(t, err, nil)
	be.Equal(t, out, "")

	bad := writeFiles(t, map[string]string{"A.jack": "class A {"})
	_, err = runJackc(t, "check", bad)
	be.Err(t, err, "found end of input")
}

func TestTokensCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{"A.jack": "class A {\n}\n"})
	out, err := runJackc(t, "tokens", filepath.Join(dir, "A.jack"))
	be.Err(t, err, nil)
	be.Equal(t, out, `(tokens (keyword "class" 1) (ident "A" 1) (symbol "{" 1) (symbol "}" 2))`+"\n")

	bad := writeFiles(t, map[string]string{"A.jack": "class $"})
	_, err = runJackc(t, "tokens", filepath.Join(bad, "A.jack"))
	be.Err(t, err, "A.jack: line 1: invalid token '$'")
}

func TestAstCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{"A.jack": "class A { field int x; }"})
	out, err := runJackc(t, "ast", filepath.Join(dir, "A.jack"))
	be.Err(t, err, nil)
	be.Equal(t, out, `(class "A" (field "int" "x"))`+"\n")

	_, err = runJackc(t, "ast", filepath.Join(dir, "missing.jack"))
	be.Err(t, err, "cannot read")
}

func TestLinkCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"A.vm": "function A.f 0\nlabel LOOP\ngoto LOOP\npop static 1\n",
		"B.vm": "function B.g 0\npush static 0\n",
	})
	out, err := runJackc(t, "link", filepath.Join(dir, "A.vm"), filepath.Join(dir, "B.vm"))
	be.Err(t, err, nil)
	be.Equal(t, out, "function A.f 0\nlabel A.fLOOP\ngoto A.fLOOP\npop static 1\nfunction B.g 0\npush static 2\n")
}

func TestRunCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{"Main.jack": fibMain})
	out, err := runJackc(t, "run", runtimeDir, filepath.Join(dir, "Main.jack"))
	be.Err(t, err, nil)
	be.Equal(t, out, "55\n")
}

func TestRunCommandStepLimit(t *testing.T) {
	dir := writeFiles(t, map[string]string{"Main.jack": fibMain})
	_, err := runJackc(t, "run", "--steps", "10", runtimeDir, filepath.Join(dir, "Main.jack"))
	be.Err(t, err, "program did not halt within 10 steps")
}

func TestRunCommandUnresolvedCall(t *testing.T) {
	dir := writeFiles(t, map[string]string{"Main.jack": fibMain})
	_, err := runJackc(t, "run", filepath.Join(dir, "Main.jack"))
	be.Err(t, err, `Function "Sys.init" is undefined`)
}
