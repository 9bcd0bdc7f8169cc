package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/hance08/ledgerd/internal/constants"
	"github.com/pterm/pterm"
)

func ParseLogLevel(level string) (pterm.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return pterm.LogLevelTrace, nil
	case "debug":
		return pterm.LogLevelDebug, nil
	case "", "info":
		return pterm.LogLevelInfo, nil
	case "warn", "warning":
		return pterm.LogLevelWarn, nil
	case "error":
		return pterm.LogLevelError, nil
	case "off", "disabled":
		return pterm.LogLevelDisabled, nil
	default:
		return pterm.LogLevelInfo, fmt.Errorf("invalid log level '%s'", level)
	}
}

// NewLogger builds the run logger. Diagnostics go to w (stderr in the CLI)
// so stdout stays reserved for the account CSV.
func (c *Config) NewLogger(w io.Writer) *pterm.Logger {
	level, err := ParseLogLevel(c.Log.Level)
	if err != nil {
		level = pterm.LogLevelInfo
	}

	formatter := pterm.LogFormatterColorful
	if strings.ToLower(c.Log.Format) == constants.LogFormatJSON {
		formatter = pterm.LogFormatterJSON
	}

	return pterm.DefaultLogger.
		WithLevel(level).
		WithFormatter(formatter).
		WithWriter(w)
}
