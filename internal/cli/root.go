// Package cli provides the command-line interface for outcheck.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/outcheck/internal/cli/commands"
	"github.com/ccollicutt/outcheck/internal/cli/plugins"
)

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return run(NewRootCommand(), os.Args[1:])
}

func run(rootCmd *cobra.Command, args []string) int {
	commands.ExitCode = 0

	candidate := pluginCandidate(rootCmd, args)
	if candidate != "" {
		if pluginPath, err := plugins.FindPlugin(candidate); err == nil {
			return plugins.Execute(pluginPath, args[1:])
		}
	}

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		if candidate != "" {
			_, _ = fmt.Fprintln(os.Stderr, plugins.FormatNotFoundError(candidate))
			return 2
		}
		// SilenceErrors keeps cobra from printing this itself.
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// pluginCandidate returns the first argument when it names a command that is
// not built in, or "" otherwise.
func pluginCandidate(rootCmd *cobra.Command, args []string) string {
	if len(args) == 0 || args[0] == "" || strings.HasPrefix(args[0], "-") {
		return ""
	}
	if isBuiltinCommand(rootCmd, args[0]) {
		return ""
	}
	return args[0]
}

func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "outcheck",
		Short: "Scan finite element solver output logs for trouble",
		Long: `outcheck scans the output log of a finite element solver run and reports
what went wrong: separating or penetrating contact nodes, distorted elements,
failed tyings, singularities, and where the wall time went.

It writes a selection script (Mentat .proc or Patran .ses) that turns every
reported node, element and face into a named set in the pre-processor.

PLUGINS:
  Unknown commands are run as standalone binaries named outcheck-<command>.

  Plugin locations (searched in order):
    1. Same directory as the outcheck binary
    2. ~/.outcheck/plugins/
    3. Anywhere in PATH

  Known plugins:
    clean    Remove check output from a job directory
    report   Collect check reports of several jobs
    h5       Read wall times from solver result files`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewCategoriesCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
