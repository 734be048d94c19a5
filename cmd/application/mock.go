package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/reelmap/pkg/config"
)

// BuildInfo is the release metadata a Mock reports. Empty fields read as
// "dev" for the version and "unknown" otherwise.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
	BuiltBy string
}

// Mock is an Application for command tests. Nil funcs fall back to
// config.Default(), a discarding logger and the table format.
type Mock struct {
	ConfigFunc       func() config.Config
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	Build            BuildInfo
}

var _ Application = (*Mock)(nil)

func (m *Mock) Config() config.Config {
	if m.ConfigFunc == nil {
		return config.Default()
	}
	return m.ConfigFunc()
}

func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return m.LoggerFunc()
}

func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc == nil {
		return "table"
	}
	return m.OutputFormatFunc()
}

func (m *Mock) Version() string { return orDefault(m.Build.Version, "dev") }
func (m *Mock) Commit() string  { return orDefault(m.Build.Commit, "unknown") }
func (m *Mock) Date() string    { return orDefault(m.Build.Date, "unknown") }
func (m *Mock) BuiltBy() string { return orDefault(m.Build.BuiltBy, "unknown") }

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
