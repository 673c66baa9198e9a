package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docsmake/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmake/internal/toolexec"
)

func parse(t *testing.T, args ...string) *CLI {
	t.Helper()
	var cli CLI
	var stderr bytes.Buffer
	cli.Stderr = &stderr
	parser, err := kong.New(&cli,
		kong.Name("docsmake"),
		kong.Exit(func(int) { t.Fatalf("unexpected exit while parsing %v", args) }),
		kong.Vars{"version": "test"},
	)
	require.NoError(t, err)
	head, extra := SplitArgs(args)
	_, err = parser.Parse(head)
	require.NoError(t, err)
	cli.Extra = extra
	return &cli
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SPHINXBUILD", "SPHINXOPTS", "SPHINXAPIDOC", "M2R"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Chdir(t.TempDir())
}

func TestParse_Defaults(t *testing.T) {
	cli := parse(t)
	assert.Empty(t, cli.Action)
	assert.Empty(t, cli.Extra)
	assert.False(t, cli.DryRun)
	assert.NotEmpty(t, cli.RunID())
}

func TestParse_ActionWithPassthrough(t *testing.T) {
	cli := parse(t, "-v", "html", "--keep-going", "-D", "language=de")
	assert.True(t, cli.Verbose)
	assert.Equal(t, "html", cli.Action)
	assert.Equal(t, []string{"--keep-going", "-D", "language=de"}, cli.Extra)
}

func TestParse_BuilderFlagsAfterActionAreNotDocsmakeFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		extra []string
	}{
		{"nitpicky", []string{"html", "-n"}, []string{"-n"}},
		{"warning file", []string{"html", "-w", "warn.txt"}, []string{"-w", "warn.txt"}},
		{"verbose and config", []string{"html", "-v", "-c", "conf"}, []string{"-v", "-c", "conf"}},
		{"separator dropped", []string{"html", "--", "-n"}, []string{"-n"}},
		{"later separator kept", []string{"html", "-n", "--", "x"}, []string{"-n", "--", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := parse(t, tt.args...)
			assert.Equal(t, "html", cli.Action)
			assert.False(t, cli.DryRun)
			assert.False(t, cli.Watch)
			assert.False(t, cli.Verbose)
			assert.Empty(t, cli.Config)
			assert.Equal(t, tt.extra, cli.Extra)
		})
	}
}

func TestParse_FlagsBeforeAction(t *testing.T) {
	cli := parse(t, "-c", "docs.yaml", "-n", "--env-file=a.env", "html", "-n")
	assert.Equal(t, "docs.yaml", filepath.Base(cli.Config))
	assert.True(t, cli.DryRun)
	assert.Equal(t, []string{"a.env"}, mapBase(cli.EnvFile))
	assert.Equal(t, "html", cli.Action)
	assert.Equal(t, []string{"-n"}, cli.Extra)
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		args  []string
		head  []string
		extra []string
	}{
		{nil, nil, nil},
		{[]string{"-v"}, []string{"-v"}, nil},
		{[]string{"-vc", "d.yaml", "html", "-j", "4"}, []string{"-vc", "d.yaml", "html"}, []string{"-j", "4"}},
		{[]string{"-cd.yaml", "html"}, []string{"-cd.yaml", "html"}, nil},
		{[]string{"--config", "html", "latex"}, []string{"--config", "html", "latex"}, nil},
		{[]string{"--", "-odd-mode", "-n"}, []string{"--", "-odd-mode"}, []string{"-n"}},
		{[]string{"html", "--"}, []string{"html"}, nil},
	}
	for _, tt := range tests {
		head, extra := SplitArgs(tt.args)
		assert.Equal(t, tt.head, head, "%v", tt.args)
		assert.Equal(t, tt.extra, extra, "%v", tt.args)
	}
}

func mapBase(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, filepath.Base(p))
	}
	return out
}

func TestParse_Flags(t *testing.T) {
	cli := parse(t, "--dry-run", "--config", "docs.yaml", "--env-file", "a.env", "--env-file", "b.env", "copy-examples")
	assert.True(t, cli.DryRun)
	assert.Equal(t, "docs.yaml", filepath.Base(cli.Config))
	require.Len(t, cli.EnvFile, 2)
	assert.Equal(t, "copy-examples", cli.Action)
}

func TestRun_NoActionRunsHelp(t *testing.T) {
	clearEnv(t)
	rec := &toolexec.Recorder{}
	cli := parse(t)
	cli.Runner = rec

	require.NoError(t, cli.Run(context.Background()))
	require.Len(t, rec.Calls(), 1)
	assert.Equal(t, []string{"sphinx-build", "-M", "help", "source", "build", "-W"}, rec.Calls()[0].Argv())
}

func TestRun_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPHINXBUILD", "/venv/bin/sphinx-build")
	t.Setenv("SPHINXOPTS", "-n -j auto")
	rec := &toolexec.Recorder{}
	cli := parse(t, "html", "--fresh-env")
	cli.Runner = rec

	require.NoError(t, cli.Run(context.Background()))
	assert.Equal(t,
		[]string{"/venv/bin/sphinx-build", "-M", "html", "source", "build", "-n", "-j", "auto", "--fresh-env"},
		rec.Calls()[0].Argv())
}

func TestRun_BuilderFlagsReachBuilderUnchanged(t *testing.T) {
	for _, args := range [][]string{{"html", "-n"}, {"html", "--", "-n"}} {
		clearEnv(t)
		rec := &toolexec.Recorder{}
		cli := parse(t, args...)
		cli.Runner = rec

		require.NoError(t, cli.Run(context.Background()), "%v", args)
		require.Len(t, rec.Calls(), 1)
		assert.Equal(t, []string{"sphinx-build", "-M", "html", "source", "build", "-W", "-n"}, rec.Calls()[0].Argv())
	}
}

func TestRun_BuilderExitCodePropagates(t *testing.T) {
	clearEnv(t)
	cli := parse(t, "html")
	cli.Runner = &toolexec.Recorder{Func: func(inv toolexec.Invocation) error {
		return &toolexec.ExitError{Invocation: inv, Code: 2}
	}}

	err := cli.Run(context.Background())
	assert.Equal(t, 2, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestRun_WatchRejectsNonBuilderActions(t *testing.T) {
	clearEnv(t)
	for _, action := range []string{"generate", "readme", "copy-examples"} {
		cli := parse(t, "--watch", action)
		cli.Runner = &toolexec.Recorder{}

		err := cli.Run(context.Background())
		require.Error(t, err, action)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	}
}

func TestRun_DryRunPrintsInvocation(t *testing.T) {
	clearEnv(t)
	var stderr bytes.Buffer
	cli := parse(t, "-n", "linkcheck")
	cli.Stderr = &stderr

	require.NoError(t, cli.Run(context.Background()))
	assert.Contains(t, stderr.String(), "+ sphinx-build -M linkcheck source build -W\n")
}

func TestRun_ConfigErrors(t *testing.T) {
	clearEnv(t)
	cli := parse(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "html")
	cli.Runner = &toolexec.Recorder{}

	err := cli.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, ferrors.ExitConfig, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestRun_ConfigFile(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile("docsmake.yaml", []byte("source_dir: src\nbuild_dir: _build\nbuilder_opts: []\n"), 0o600))
	rec := &toolexec.Recorder{}
	cli := parse(t, "html")
	cli.Runner = rec

	require.NoError(t, cli.Run(context.Background()))
	assert.Equal(t, []string{"sphinx-build", "-M", "html", "src", "_build"}, rec.Calls()[0].Argv())
}
