package toolexec

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	ferrors "git.home.luguber.info/inful/docsmake/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmake/internal/logfields"
)

// ExecRunner runs invocations as child processes.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	// LookPath resolves executables; defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// NewExecRunner returns a runner attached to the process's standard streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Stdin:    os.Stdin,
		LookPath: exec.LookPath,
	}
}

// Run starts the child and waits for it. A missing executable is a
// not-found error; a non-zero exit is returned as *ExitError.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) error {
	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(inv.Name)
	if err != nil {
		return ferrors.NotFoundError("executable not found").
			WithContext("path", inv.Name).
			WithCause(err).
			Build()
	}

	// #nosec G204 -- the tool and its arguments come from operator configuration
	cmd := exec.CommandContext(ctx, path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Stdin = r.Stdin

	slog.Debug("Running tool", logfields.Tool(inv.Name), logfields.Args(inv.Args), logfields.Path(inv.Dir))
	start := time.Now()
	err = cmd.Run()
	elapsed := logfields.DurationMS(float64(time.Since(start).Microseconds()) / 1000)

	if err == nil {
		slog.Debug("Tool finished", logfields.Tool(inv.Name), elapsed)
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		slog.Debug("Tool failed", logfields.Tool(inv.Name), logfields.ExitCode(exitErr.ExitCode()), elapsed)
		return &ExitError{Invocation: inv, Code: exitErr.ExitCode()}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ferrors.ToolError("tool interrupted").
			WithCause(ctxErr).
			WithContext("path", inv.Name).
			Build()
	}
	return ferrors.ToolError("failed to run tool").
		WithCause(err).
		WithContext("path", inv.Name).
		Build()
}
