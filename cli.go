package main

import (
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/strager/jackc/jack"
	"github.com/strager/jackc/vm"
)

func newBuildCmd(cfg Config) *cobra.Command {
	var output string
	var outDir string
	keepGoing := cfg.KeepGoing
	cmd := &cobra.Command{
		Use:   "build <file.jack|dir>...",
		Short: "Compile and link Jack classes into one instruction file",
		Long: "Compile and link Jack classes into one instruction file.\n" +
			"\n" +
			"Directories are replaced by the .jack files they contain, in name order. The\n" +
			"linked program is written to stdout unless -o is given. With --out-dir, each\n" +
			"unit's unlinked instructions are also written there as <name>.vm.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := NewBatch(keepGoing)
			if err := b.Build(args); err != nil {
				return err
			}
			if outDir != "" {
				if err := b.WriteUnits(outDir); err != nil {
					return err
				}
			}
			if err := writeProgram(cmd.OutOrStdout(), output, b.Program()); err != nil {
				return err
			}
			glog.V(1).Infof("built %s", b.Summary())
			return nil
		},
	}

	cmd.Flags().StringVarP(
		&output, "output", "o", "",
		"Write the linked program to this file instead of stdout")
	cmd.Flags().StringVar(
		&outDir, "out-dir", cfg.OutDir,
		"Also write each unit's unlinked instructions into this directory")
	cmd.Flags().BoolVar(
		&keepGoing, "keep-going", keepGoing,
		"Compile every unit and report all failures instead of stopping at the first")

	return cmd
}

func newCheckCmd(cfg Config) *cobra.Command {
	keepGoing := cfg.KeepGoing
	cmd := &cobra.Command{
		Use:   "check <file.jack|dir>...",
		Short: "Compile Jack classes without writing any output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := NewBatch(keepGoing)
			if err := b.Build(args); err != nil {
				return err
			}
			glog.V(1).Infof("checked %s", b.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(
		&keepGoing, "keep-going", keepGoing,
		"Check every unit and report all failures instead of stopping at the first")

	return cmd
}

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file.jack>",
		Short: "Print the tokens of a Jack file as an s-expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			tokens, err := jack.Tokenize(src)
			if err != nil {
				return errors.Wrap(err, args[0])
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), jack.TokensToSExpr(tokens))
			return err
		},
	}
}

func newAstCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ast <file.jack>",
		Short: "Print the syntax tree of a Jack file as an s-expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			class, err := jack.ParseUnit(args[0], src)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), jack.ToSExpr(class))
			return err
		},
	}
}

func newLinkCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "link <file.vm>...",
		Short: "Link instruction files into one program",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := NewBatch(false)
			for _, path := range args {
				if err := b.AddFile(path); err != nil {
					return err
				}
			}
			return writeProgram(cmd.OutOrStdout(), output, b.Program())
		},
	}

	cmd.Flags().StringVarP(
		&output, "output", "o", "",
		"Write the linked program to this file instead of stdout")

	return cmd
}

func newRunCmd(cfg Config) *cobra.Command {
	steps := cfg.MaxSteps
	cmd := &cobra.Command{
		Use:   "run <file.jack|file.vm|dir>...",
		Short: "Compile, link and execute a program",
		Long: "Compile, link and execute a program.\n" +
			"\n" +
			"Execution starts at Sys.init and ends when Sys.halt is called or Sys.init\n" +
			"returns. The exit value (the argument of Sys.halt, or the value Sys.init\n" +
			"returned) is printed.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := NewBatch(false)
			if err := b.Build(args); err != nil {
				return err
			}
			value, err := execute(b.Program(), steps)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
			return err
		},
	}

	cmd.Flags().IntVar(
		&steps, "steps", steps,
		"Stop with an error after this many instructions (0 for no limit)")

	return cmd
}

// execute resolves and runs a linked program, returning its exit value.
func execute(prog *vm.Program, steps int) (int16, error) {
	img, err := prog.Resolve()
	if err != nil {
		return 0, err
	}
	m, err := vm.NewMachine(img)
	if err != nil {
		return 0, err
	}
	halted, err := m.Run(steps)
	if err != nil {
		return 0, err
	}
	if !halted {
		return 0, errors.Errorf("program did not halt within %d steps", steps)
	}
	glog.V(1).Infof("halted after %d steps", m.Steps())
	return m.ExitValue(), nil
}

func readSource(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "cannot read %s", path)
	}
	return string(src), nil
}

// writeProgram writes prog to the file named output, or to stdout if output
// is empty.
func writeProgram(stdout io.Writer, output string, prog *vm.Program) error {
	if output == "" {
		_, err := prog.WriteTo(stdout)
		return err
	}
	f, err := os.Create(output)
	if err != nil {
		return errors.Wrapf(err, "cannot create %s", output)
	}
	if _, err := prog.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "cannot write %s", output)
	}
	return errors.Wrapf(f.Close(), "cannot write %s", output)
}
