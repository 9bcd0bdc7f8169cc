package config

import (
	"fmt"
	"strings"

	"github.com/hance08/ledgerd/internal/constants"
)

type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Output     OutputConfig     `mapstructure:"output"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Export     ExportConfig     `mapstructure:"export"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	ConfigPath string           `mapstructure:"-"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

type ProcessingConfig struct {
	Workers int `mapstructure:"workers"`
}

type ExportConfig struct {
	SQLite    string `mapstructure:"sqlite"`
	Overwrite bool   `mapstructure:"overwrite"`
}

type MetricsConfig struct {
	File string `mapstructure:"file"`
}

func NewDefault() *Config {
	return &Config{
		Log:        LogConfig{Level: "info", Format: constants.LogFormatColor},
		Output:     OutputConfig{Format: constants.FormatCSV},
		Processing: ProcessingConfig{Workers: 1},
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Output.Format) {
	case constants.FormatCSV, constants.FormatTable:
	default:
		return fmt.Errorf("invalid output format '%s' (must be csv or table)", c.Output.Format)
	}

	switch strings.ToLower(c.Log.Format) {
	case constants.LogFormatColor, constants.LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format '%s' (must be color or json)", c.Log.Format)
	}

	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}

	if c.Processing.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got %d)", c.Processing.Workers)
	}

	return nil
}
