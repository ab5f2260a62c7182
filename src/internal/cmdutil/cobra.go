// Package cmdutil provides helpers for writing command line tools.
package cmdutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/shale-scm/shale/src/internal/errors"
	"github.com/spf13/cobra"
)

// PrintErrorStacks should be set to true if you want to print out a stack
// for errors that are returned by the run commands.
var PrintErrorStacks bool

// RunFixedArgs wraps a function in a function that checks its exact argument
// count.
func RunFixedArgs(numArgs int, run func([]string) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if len(args) != numArgs {
			fmt.Printf("expected %d arguments, got %d\n\n", numArgs, len(args))
			cmd.Usage() //nolint:errcheck
		} else {
			if err := run(args); err != nil {
				ErrorAndExit("%v", err)
			}
		}
	}
}

// RunBoundedArgs wraps a function in a function that checks its argument
// count is within a range.
func RunBoundedArgs(min int, max int, run func([]string) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if len(args) < min || len(args) > max {
			fmt.Printf("expected %d to %d arguments, got %d\n\n", min, max, len(args))
			cmd.Usage() //nolint:errcheck
		} else {
			if err := run(args); err != nil {
				ErrorAndExit("%v", err)
			}
		}
	}
}

// Run makes a new cobra run function that wraps the given function.
func Run(run func(args []string) error) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, args []string) {
		if err := run(args); err != nil {
			ErrorAndExit("%v", err)
		}
	}
}

// ErrorAndExit errors with the given format and args, and then exits.
func ErrorAndExit(format string, args ...interface{}) {
	if errString := strings.TrimSpace(fmt.Sprintf(format, args...)); errString != "" {
		fmt.Fprintf(os.Stderr, "%s\n", errString)
	}
	if len(args) > 0 && PrintErrorStacks {
		if err, ok := args[0].(error); ok {
			errors.ForEachStackFrame(err, func(frame errors.Frame) {
				fmt.Fprintf(os.Stderr, "%+v\n", frame)
			})
		}
	}
	os.Exit(1)
}
