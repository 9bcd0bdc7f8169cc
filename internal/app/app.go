package app

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hance08/ledgerd/internal/config"
	"github.com/hance08/ledgerd/internal/constants"
	"github.com/hance08/ledgerd/internal/service"
	"github.com/hance08/ledgerd/internal/store"
)

type App struct {
	Service *service.Service
	// Exporter is nil unless a SQLite export target is configured and could be opened.
	Exporter store.SnapshotExporter
}

// NewApp builds the logger, processor and optional exporter for one run.
// A failure to open the exporter is logged and the run goes on without it.
func NewApp(cfg *config.Config, migrationFS fs.FS, logWriter io.Writer) (*App, func()) {
	logger := cfg.NewLogger(logWriter)
	svc := service.NewService(cfg, logger)

	a := &App{Service: svc}

	if path := cfg.Export.SQLite; path != "" {
		exporter, err := store.NewSQLiteExporter(path, migrationFS)
		if err != nil {
			logger.Error("cannot open export database", logger.Args("path", path, "error", err.Error()))
		} else {
			a.Exporter = exporter
		}
	}

	cleanup := func() {
		if a.Exporter == nil {
			return
		}
		if err := a.Exporter.Close(); err != nil {
			logger.Error("cannot close export database", logger.Args("error", err.Error()))
		}
	}

	return a, cleanup
}

// DataDir is where the optional config.yaml is looked up.
func DataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, "."+constants.AppName), nil
	}

	return filepath.Join(configDir, constants.AppName), nil
}
