package cmd

import (
	"io"
	"os"

	"github.com/hance08/ledgerd/internal/app"
	"github.com/hance08/ledgerd/internal/config"
	"github.com/hance08/ledgerd/internal/ui"
	"github.com/hance08/ledgerd/internal/ui/views"
	"github.com/spf13/cobra"
)

type infoRunner struct {
	cfg *config.Config
	out io.Writer
}

func NewInfoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display application information",
		Long:  `Display current configuration, export target and metrics destination.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &infoRunner{
				cfg: opts.cfg,
				out: cmd.OutOrStdout(),
			}

			return runner.Run()
		},
	}
}

func (r *infoRunner) Run() error {
	configPath := r.cfg.ConfigPath
	if configPath == "" {
		configPath = "(None, using defaults)"
	}

	exportExists := false
	if r.cfg.Export.SQLite != "" {
		if _, err := os.Stat(r.cfg.Export.SQLite); err == nil {
			exportExists = true
		}
	}

	items := views.SystemInfoItem{
		ConfigPath:   configPath,
		AppDataDir:   appDataDirOrUnknown(),
		OutputFormat: r.cfg.Output.Format,
		Workers:      r.cfg.Processing.Workers,
		LogLevel:     r.cfg.Log.Level,
		LogFormat:    r.cfg.Log.Format,
		ExportPath:   r.cfg.Export.SQLite,
		ExportExists: exportExists,
		MetricsFile:  r.cfg.Metrics.File,
	}

	ui.PrintTitle(r.out, "ledgerd")
	return views.RenderSystemInfo(r.out, items)
}

func appDataDirOrUnknown() string {
	dir, err := app.DataDir()
	if err != nil {
		return "Unknown"
	}
	return dir
}
