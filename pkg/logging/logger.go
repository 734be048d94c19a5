// Package logging is the zerolog setup shared by the reelmap stages and CLI.
//
// A process-wide logger is built from the environment at init and replaced by
// the CLI once flags are parsed. Stages never touch it directly: they log
// through FromContext, which carries the run id, stage and dataset fields the
// caller attached.
//
//	ctx = logging.WithStage(ctx, "normalize")
//	logging.FromContext(ctx).Debug().Int("rows", n).Msg("filtered catalog")
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger = NewLoggerFromConfig(FromEnv())

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger, including zerolog's log.Logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}
