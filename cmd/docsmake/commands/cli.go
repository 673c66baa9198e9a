package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsmake/internal/config"
	"git.home.luguber.info/inful/docsmake/internal/dispatch"
	ferrors "git.home.luguber.info/inful/docsmake/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmake/internal/logfields"
	"git.home.luguber.info/inful/docsmake/internal/toolexec"
	"git.home.luguber.info/inful/docsmake/internal/watch"
)

// CLI definition. There are no subcommands: the single positional action is
// resolved by the dispatcher, so arbitrary builder modes pass straight through.
// Flags must come before the action; see SplitArgs.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (defaults to docsmake.yaml when present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	DryRun  bool             `name:"dry-run" short:"n" help:"Print the commands instead of running them"`
	Watch   bool             `short:"w" help:"Rebuild whenever the source directory changes (builder modes only)"`
	EnvFile []string         `name:"env-file" help:"Load environment variables from this file (repeatable)" type:"path"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Action string `arg:"" optional:"" help:"help, generate, readme, copy-examples, or any builder mode such as html or linkcheck. Defaults to help. Arguments after the action go to the builder unchanged."`

	// Extra holds the arguments after the action, set from SplitArgs.
	Extra []string `kong:"-"`

	// Runner replaces the process runner; used by tests.
	Runner toolexec.Runner `kong:"-"`
	Stdout io.Writer       `kong:"-"`
	Stderr io.Writer       `kong:"-"`

	runID string
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	c.runID = uuid.NewString()
	logger := slog.New(slog.NewTextHandler(c.stderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger.With(logfields.RunID(c.runID)))
	return nil
}

// RunID identifies this invocation in log output.
func (c *CLI) RunID() string { return c.runID }

// Run loads configuration and dispatches the action exactly once, or
// repeatedly under --watch.
func (c *CLI) Run(ctx context.Context) error {
	cfg, err := config.Load(c.Config, c.EnvFile...)
	if err != nil {
		return err
	}

	if c.Watch && !dispatch.IsBuilderMode(c.Action) {
		return ferrors.ValidationError("--watch only applies to builder modes").
			WithContext("action", c.Action).
			Build()
	}

	d := dispatch.New(cfg, c.runner(), dispatch.WithDryRun(c.DryRun), dispatch.WithTrace(c.stderr()))

	if !c.Watch {
		return d.Dispatch(ctx, c.Action, c.Extra)
	}

	w := &watch.Watcher{
		Root:    cfg.SourceDir,
		Exclude: []string{cfg.BuildDir},
		Build: func(ctx context.Context) error {
			return d.Dispatch(ctx, c.Action, c.Extra)
		},
	}
	return w.Run(ctx)
}

func (c *CLI) runner() toolexec.Runner {
	switch {
	case c.Runner != nil:
		return c.Runner
	case c.DryRun:
		return &toolexec.DryRunner{Out: c.stderr()}
	default:
		r := toolexec.NewExecRunner()
		if c.Stdout != nil {
			r.Stdout = c.Stdout
		}
		r.Stderr = c.stderr()
		return r
	}
}

func (c *CLI) stderr() io.Writer {
	if c.Stderr != nil {
		return c.Stderr
	}
	return os.Stderr
}
