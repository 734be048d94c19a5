package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		want   zerolog.Level
	}{
		{"no flags", &Config{}, zerolog.InfoLevel},
		{"verbose", &Config{Verbose: true}, zerolog.DebugLevel},
		{"quiet", &Config{Quiet: true}, zerolog.WarnLevel},
		{"explicit level beats verbose", &Config{LogLevel: "error", Verbose: true}, zerolog.ErrorLevel},
		{"explicit level beats quiet", &Config{LogLevel: "trace", Quiet: true}, zerolog.TraceLevel},
		{"quiet beats verbose", &Config{Verbose: true, Quiet: true}, zerolog.WarnLevel},
		{"warning alias", &Config{LogLevel: "WARNING"}, zerolog.WarnLevel},
		{"unknown level", &Config{LogLevel: "loud"}, zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineLogLevel(tt.config))
		})
	}
}

func TestNewLogger(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	logger := NewLogger(&Config{Verbose: true, LogFormat: "json", LogOutput: "discard"})
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())

	logger = NewLogger(&Config{Quiet: true, LogFormat: "json", LogOutput: "discard"})
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}
