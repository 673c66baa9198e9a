package toolexec

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docsmake/internal/foundation/errors"
)

// fakeTool writes an executable shell script that echoes its arguments and
// exits with the status given in FAKE_EXIT.
func fakeTool(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-tool")
	script := "#!/bin/sh\necho \"args: $*\"\necho \"cwd: $(pwd)\"\necho oops >&2\nexit ${FAKE_EXIT:-0}\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755)) // #nosec G306 -- test executable
	return path
}

func newTestRunner() (*ExecRunner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	r := NewExecRunner()
	r.Stdout = &stdout
	r.Stderr = &stderr
	r.Stdin = nil
	return r, &stdout, &stderr
}

func TestExecRunner_Success(t *testing.T) {
	tool := fakeTool(t)
	dir := t.TempDir()
	r, stdout, stderr := newTestRunner()

	err := r.Run(context.Background(), Invocation{Name: tool, Args: []string{"-M", "html", "source", "build"}, Dir: dir})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "args: -M html source build")
	assert.Contains(t, stdout.String(), "cwd: ")
	assert.Equal(t, "oops\n", stderr.String(), "tool output is passed through unframed")
}

func TestExecRunner_ExitCodePropagates(t *testing.T) {
	tool := fakeTool(t)
	t.Setenv("FAKE_EXIT", "3")
	r, _, _ := newTestRunner()

	err := r.Run(context.Background(), Invocation{Name: tool})
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.ExitCode())
	assert.Equal(t, 3, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestExecRunner_MissingExecutable(t *testing.T) {
	r, _, _ := newTestRunner()

	err := r.Run(context.Background(), Invocation{Name: "docsmake-definitely-not-installed"})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
	assert.Equal(t, ferrors.ExitNotFound, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestExecRunner_CustomLookPath(t *testing.T) {
	tool := fakeTool(t)
	r, stdout, _ := newTestRunner()
	r.LookPath = func(string) (string, error) { return tool, nil }

	require.NoError(t, r.Run(context.Background(), Invocation{Name: "sphinx-build", Args: []string{"x"}}))
	assert.Contains(t, stdout.String(), "args: x")
}

func TestDryRunner(t *testing.T) {
	var out bytes.Buffer
	d := &DryRunner{Out: &out}

	require.NoError(t, d.Run(context.Background(), Invocation{Name: "m2r", Args: []string{"../README.md"}}))
	assert.Equal(t, "+ m2r ../README.md\n", out.String())
}

func TestRecorder(t *testing.T) {
	boom := errors.New("boom")
	r := &Recorder{Func: func(inv Invocation) error {
		if inv.Name == "fail" {
			return boom
		}
		return nil
	}}

	require.NoError(t, r.Run(context.Background(), Invocation{Name: "ok"}))
	require.ErrorIs(t, r.Run(context.Background(), Invocation{Name: "fail", Args: []string{"a"}}), boom)

	calls := r.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "fail a", calls[1].String())
}

func TestInvocation_Argv(t *testing.T) {
	inv := Invocation{Name: "sphinx-build", Args: []string{"-M", "help"}}
	assert.Equal(t, []string{"sphinx-build", "-M", "help"}, inv.Argv())
	assert.Equal(t, "sphinx-build -M help", inv.String())
}
