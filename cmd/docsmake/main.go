package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsmake/cmd/docsmake/commands"
	ferrors "git.home.luguber.info/inful/docsmake/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmake/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Must(&cli,
		kong.Name("docsmake"),
		kong.Description("Build Sphinx documentation: run a builder mode, generate API pages, convert the readme or copy examples."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	head, extra := commands.SplitArgs(os.Args[1:])
	_, err := parser.Parse(head)
	parser.FatalIfErrorf(err)
	cli.Extra = extra

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = cli.Run(ctx)
	stop()

	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
