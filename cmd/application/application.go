// Package application is the seam between the reelmap root command and its
// subcommands. Subcommands receive an Application instead of the concrete
// app so tests can hand them a Mock with a temporary data directory:
//
//	mock := &application.Mock{
//	    ConfigFunc: func() config.Config {
//	        cfg := config.Default()
//	        cfg.DataDir = t.TempDir()
//	        return cfg
//	    },
//	}
//	cmd := build.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/reelmap/pkg/config"
)

// Application is what a subcommand may ask of the running CLI.
// Implementations must be safe for concurrent use.
type Application interface {
	// Config is the pipeline configuration after defaults, config file,
	// environment and flags are merged. Callers get their own copy.
	Config() config.Config

	Logger() *zerolog.Logger

	// OutputFormat is the value of --format: table, wide, json or yaml.
	OutputFormat() string

	// Build metadata stamped in by the release pipeline.
	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
