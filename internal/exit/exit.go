// Package exit carries a process outcome from setup code to main
// without calling os.Exit deep in the call stack.
package exit

import (
	"fmt"
	"io"
	"os"
)

// Result holds the message, destination and exit code for process
// termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the result message to its destination.
func (r *Result) Print() {
	fmt.Fprintln(r.Output, r.Message)
}

// Failure builds an error result that prints to stderr with exit code 1.
func Failure(message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: 1,
		Message:  message,
	}
}

// Failuref builds an error result with a formatted message.
func Failuref(format string, a ...any) *Result {
	return Failure(fmt.Sprintf(format, a...))
}
