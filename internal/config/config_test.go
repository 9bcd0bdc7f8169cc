package config

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, NewDefault().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "table output", mutate: func(c *Config) { c.Output.Format = "TABLE" }},
		{name: "json logs", mutate: func(c *Config) { c.Log.Format = "json" }},
		{name: "many workers", mutate: func(c *Config) { c.Processing.Workers = 8 }},
		{name: "unknown output", mutate: func(c *Config) { c.Output.Format = "xml" }, wantErr: "invalid output format"},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "logfmt" }, wantErr: "invalid log format"},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "invalid log level"},
		{name: "zero workers", mutate: func(c *Config) { c.Processing.Workers = 0 }, wantErr: "workers must be at least 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefault()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	cfg := NewDefault()
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	assert.Equal(t, pterm.LogLevelWarn, logger.Level)

	logger.Info("hidden")
	logger.Warn("shown", logger.Args("client", 1))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
