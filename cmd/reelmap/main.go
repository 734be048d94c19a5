// Command reelmap fetches the movie datasets and reconciles them into one table.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentstation/reelmap/cmd/reelmap/app"
)

// Set by goreleaser through -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	a, err := app.New(version, commit, date, builtBy)
	app.ExitOnError(err)

	// Ctrl-C cancels a download or build in progress.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Execute(ctx, os.Args[1:]); err != nil {
		a.Logger().Debug().Err(err).Msg("command failed")
		stop()
		app.ExitOnError(err)
	}
}
