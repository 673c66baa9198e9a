package toolexec

import (
	"context"
	"fmt"
	"strings"
)

// Invocation describes a single external process.
type Invocation struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
}

// Argv returns the full argument vector, name first.
func (inv Invocation) Argv() []string {
	return append([]string{inv.Name}, inv.Args...)
}

// String renders the invocation the way a shell trace would.
func (inv Invocation) String() string {
	return strings.Join(inv.Argv(), " ")
}

// Runner executes invocations.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// ExitError reports a child process that exited with a non-zero status.
type ExitError struct {
	Invocation Invocation
	Code       int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Invocation.Name, e.Code)
}

// ExitCode returns the child's exit status.
func (e *ExitError) ExitCode() int { return e.Code }
