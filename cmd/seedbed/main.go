// cmd/seedbed/main.go
//
// Entry point for the seedbed CLI. Commands live in ./commands; main only
// parses flags, wires signal handling and reports the exit status.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/kingrea/seedbed/cmd/seedbed/commands"
)

var version = "dev"

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("seedbed"),
		kong.Description("Generate and remove placeholder content from weighted providers."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := parser.Run(&commands.Global{Ctx: ctx, Out: os.Stdout}, &cli)
	stop()
	parser.FatalIfErrorf(err)
}
