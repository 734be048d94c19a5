package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/reelmap/pkg/logging"
)

// NewLogger builds the CLI logger. The level comes from --log-level (or
// REELMAP_LOG_LEVEL), then -q, then -v, and is info otherwise.
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:      level.String(),
		Format:     config.LogFormat,
		Output:     config.LogOutput,
		TimeFormat: "kitchen",
		NoColor:    config.NoColor || os.Getenv("NO_COLOR") != "",
		AddCaller:  level <= zerolog.DebugLevel,
	})
}

func determineLogLevel(config *Config) zerolog.Level {
	switch {
	case config.LogLevel != "":
		level := logging.ParseLevel(config.LogLevel)
		if level == zerolog.InfoLevel && !strings.EqualFold(config.LogLevel, "info") {
			fmt.Fprintf(os.Stderr, "Warning: unknown log level %q, using info\n", config.LogLevel)
		}
		return level
	case config.Verbose && config.Quiet:
		fmt.Fprintln(os.Stderr, "Warning: --verbose and --quiet both set, using --quiet")
		return zerolog.WarnLevel
	case config.Quiet:
		return zerolog.WarnLevel
	case config.Verbose:
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
