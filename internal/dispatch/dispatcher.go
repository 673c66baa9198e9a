package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"git.home.luguber.info/inful/docsmake/internal/config"
	"git.home.luguber.info/inful/docsmake/internal/logfields"
	"git.home.luguber.info/inful/docsmake/internal/toolexec"
)

// Reserved action names.
const (
	ActionHelp         = "help"
	ActionGenerate     = "generate"
	ActionReadme       = "readme"
	ActionCopyExamples = "copy-examples"
)

type actionFunc func(ctx context.Context, extra []string) error

// Dispatcher runs one action per call. It holds no state between calls.
type Dispatcher struct {
	cfg    *config.Config
	runner toolexec.Runner
	dryRun bool
	trace  io.Writer

	actions map[string]actionFunc
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDryRun makes file-system actions print what they would do instead of
// doing it. Pair it with a toolexec.DryRunner for the external tools.
func WithDryRun(enabled bool) Option {
	return func(d *Dispatcher) { d.dryRun = enabled }
}

// WithTrace sets where dry-run lines are written. Defaults to stderr.
func WithTrace(w io.Writer) Option {
	return func(d *Dispatcher) {
		if w != nil {
			d.trace = w
		}
	}
}

// New returns a dispatcher for cfg that runs external tools through runner.
func New(cfg *config.Config, runner toolexec.Runner, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		cfg:    cfg,
		runner: runner,
		trace:  os.Stderr,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.actions = map[string]actionFunc{
		ActionHelp:         d.help,
		ActionGenerate:     d.generate,
		ActionReadme:       d.readme,
		ActionCopyExamples: d.copyExamples,
	}
	return d
}

// Actions lists the reserved action names in sorted order.
func (d *Dispatcher) Actions() []string {
	return slices.Sorted(maps.Keys(d.actions))
}

// Normalize maps the empty action to help.
func Normalize(action string) string {
	if action == "" {
		return ActionHelp
	}
	return action
}

// IsBuilderMode reports whether action is run by the documentation builder,
// either as help or through the catch-all.
func IsBuilderMode(action string) bool {
	switch Normalize(action) {
	case ActionGenerate, ActionReadme, ActionCopyExamples:
		return false
	default:
		return true
	}
}

// Dispatch runs the behavior for action. extra is forwarded to builder modes.
func (d *Dispatcher) Dispatch(ctx context.Context, action string, extra []string) error {
	action = Normalize(action)

	fn, ok := d.actions[action]
	if !ok {
		fn = func(ctx context.Context, extra []string) error {
			return d.build(ctx, action, extra)
		}
	}

	slog.Info("Dispatching action", logfields.Action(action), slog.Bool("builtin", ok), slog.Bool("dry_run", d.dryRun))
	return fn(ctx, extra)
}

// BuilderInvocation is the builder command for a build mode:
// <builder> -M <mode> <source> <build> <opts...> <extra...>.
func (d *Dispatcher) BuilderInvocation(mode string, extra []string) toolexec.Invocation {
	args := make([]string, 0, 4+len(d.cfg.BuilderOpts)+len(extra))
	args = append(args, "-M", mode, d.cfg.SourceDir, d.cfg.BuildDir)
	args = append(args, d.cfg.BuilderOpts...)
	args = append(args, extra...)
	return toolexec.Invocation{Name: d.cfg.Builder, Args: args}
}

func (d *Dispatcher) help(ctx context.Context, extra []string) error {
	return d.build(ctx, ActionHelp, extra)
}

// build is the catch-all. The mode is never inspected.
func (d *Dispatcher) build(ctx context.Context, mode string, extra []string) error {
	inv := d.BuilderInvocation(mode, extra)
	slog.Debug("Invoking documentation builder", logfields.Mode(mode), logfields.Tool(inv.Name), logfields.Args(inv.Args))
	return d.runner.Run(ctx, inv)
}

// ignoreExtra warns when extra arguments are given to an action that has no
// place for them.
func ignoreExtra(action string, extra []string) {
	if len(extra) > 0 {
		slog.Warn("Ignoring extra arguments", logfields.Action(action), logfields.Args(extra))
	}
}

func (d *Dispatcher) tracef(format string, args ...any) {
	_, _ = fmt.Fprintf(d.trace, "+ "+format+"\n", args...)
}
