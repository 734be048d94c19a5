// Package app wires the reelmap CLI: it loads configuration, builds the
// logger and hands both to the subcommands through application.Application.
package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/reelmap/cmd/application"
	"github.com/agentstation/reelmap/pkg/config"
	"github.com/agentstation/reelmap/pkg/errors"
)

// App holds the resolved settings and build metadata for one CLI process.
type App struct {
	build  application.BuildInfo
	config *Config
	logger *zerolog.Logger
}

var _ application.Application = (*App)(nil)

// Option customizes New. Options run before any config is loaded, so a
// WithConfig option skips reading files and the environment entirely.
type Option func(*App) error

// WithConfig uses cfg instead of loading one. cfg must be valid.
func WithConfig(cfg *Config) Option {
	return func(a *App) error {
		if cfg == nil {
			return &errors.ValidationError{Field: "config", Message: "cannot be nil"}
		}
		if err := cfg.Pipeline.Validate(); err != nil {
			return err
		}
		a.config = cfg
		return nil
	}
}

// WithLogger uses logger instead of building one from the settings.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// New returns an App for the given build. Configuration is loaded here, so
// a broken config file or .env entry fails before any command runs.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	a := &App{build: application.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
		BuiltBy: builtBy,
	}}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.config == nil {
		cfg, err := LoadConfig("")
		if err != nil {
			return nil, errors.WrapResource("load", "config", "", err)
		}
		a.config = cfg
	}
	if a.logger == nil {
		logger := NewLogger(a.config)
		a.logger = &logger
	}
	return a, nil
}

func (a *App) Version() string { return a.build.Version }
func (a *App) Commit() string  { return a.build.Commit }
func (a *App) Date() string    { return a.build.Date }
func (a *App) BuiltBy() string { return a.build.BuiltBy }

// Config returns a copy of the pipeline settings.
func (a *App) Config() config.Config { return a.config.Pipeline }

// Settings exposes the full CLI settings, including the flag-only ones.
func (a *App) Settings() *Config { return a.config }

func (a *App) Logger() *zerolog.Logger { return a.logger }

func (a *App) OutputFormat() string { return a.config.Format }
