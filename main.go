// jackc compiles Jack classes to stack-machine instruction text, links the
// units of a program together, and can run the result on a reference
// machine.
package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(LoadConfig()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}
}

func newRootCmd(cfg Config) *cobra.Command {
	var logToStderr bool
	verbose := cfg.Verbose
	cmd := &cobra.Command{
		Use:   "jackc",
		Short: "Jack compiler and stack machine",
		Long: "jackc compiles Jack classes into stack-machine instructions.\n" +
			"\n" +
			"Each .jack file holds one class and is compiled into one unit. Units are linked\n" +
			"in command-line order: static slots are renumbered so units never share them,\n" +
			"and labels are namespaced by their enclosing function.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging(logToStderr, verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			glog.Flush()
		},
	}

	cmd.PersistentFlags().BoolVar(
		&logToStderr, "logtostderr", false,
		"Log to stderr instead of to files")
	cmd.PersistentFlags().IntVarP(
		&verbose, "verbose", "v", verbose,
		"Enable verbose logging (e.g., v=3); anything >3 is very verbose")

	cmd.AddCommand(newBuildCmd(cfg))
	cmd.AddCommand(newCheckCmd(cfg))
	cmd.AddCommand(newTokensCmd())
	cmd.AddCommand(newAstCmd())
	cmd.AddCommand(newLinkCmd())
	cmd.AddCommand(newRunCmd(cfg))
	cmd.AddCommand(newReplCmd(cfg))

	return cmd
}
