package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/strager/jackc/jack"
)

const (
	promptMain = "jack> "
	promptCont = "....> "
)

func newReplCmd(cfg Config) *cobra.Command {
	history := cfg.History
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Compile classes interactively",
		Long: "Compile classes interactively.\n" +
			"\n" +
			"Enter a class; input continues until its braces balance, then the class's\n" +
			"instructions are printed. :reset restarts label numbering and :quit exits.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(history, &repl{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()})
		},
	}

	cmd.Flags().StringVar(
		&history, "history", history,
		"Load and save line history in this file (empty to disable)")

	return cmd
}

type repl struct {
	session jack.Session
	out     io.Writer
	errOut  io.Writer
}

// eval handles one complete input. It reports whether the loop should stop.
func (r *repl) eval(input string) (quit bool) {
	trimmed := strings.TrimSpace(input)
	switch {
	case trimmed == "":
		return false
	case strings.HasPrefix(trimmed, ":"):
		switch strings.ToLower(trimmed) {
		case ":quit", ":q":
			return true
		case ":reset":
			r.session.Reset()
			fmt.Fprintln(r.out, "label counters reset")
		default:
			fmt.Fprintln(r.errOut, "unknown command; try :reset or :quit")
		}
		return false
	}

	prog, err := r.session.Compile("", input)
	if err != nil {
		fmt.Fprintf(r.errOut, "error: %v\n", err)
		return false
	}
	if _, err := prog.WriteTo(r.out); err != nil {
		fmt.Fprintf(r.errOut, "error: %v\n", err)
	}
	return false
}

// complete reports whether src can be compiled as is: every '{' has been
// closed, or the text cannot be tokenized at all.
func complete(src string) bool {
	tokens, err := jack.Tokenize(src)
	if err != nil {
		return true
	}
	depth := 0
	for _, tok := range tokens {
		switch {
		case tok.IsSymbol('{'):
			depth++
		case tok.IsSymbol('}'):
			depth--
		}
	}
	return depth <= 0
}

func runRepl(history string, r *repl) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if history != "" {
		if f, err := os.Open(history); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				glog.Warningf("cannot read history %s: %v", history, err)
			}
			f.Close()
		}
		defer func() {
			if f, err := os.Create(history); err == nil {
				ln.WriteHistory(f)
				f.Close()
			}
		}()
	}

	for {
		input, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(r.out)
			return nil
		}
		if r.eval(input) {
			return nil
		}
		if strings.TrimSpace(input) != "" {
			ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		}
	}
}

// readInput reads lines until they form a complete input. ok is false at
// end of input or when the prompt is aborted.
func readInput(ln *liner.State) (input string, ok bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if complete(b.String()) {
			return b.String(), true
		}
	}
}
