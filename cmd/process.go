package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/hance08/ledgerd/internal/app"
	"github.com/hance08/ledgerd/internal/config"
	"github.com/hance08/ledgerd/internal/constants"
	"github.com/hance08/ledgerd/internal/csvio"
	"github.com/hance08/ledgerd/internal/model"
	"github.com/hance08/ledgerd/internal/store"
	"github.com/hance08/ledgerd/internal/ui/prompts"
	"github.com/hance08/ledgerd/internal/ui/views"
	"github.com/mattn/go-isatty"
)

type processRunner struct {
	cfg        *config.Config
	migrations fs.FS
	in         io.Reader
	out        io.Writer
	errOut     io.Writer
}

func (r *processRunner) Run(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open transactions file: %w", err)
	}
	defer f.Close()

	skipped, err := r.confirmExport()
	if err != nil {
		return err
	}

	application, cleanup := app.NewApp(r.cfg, r.migrations, r.errOut)
	defer cleanup()

	svc := application.Service
	logger := svc.Logger

	if skipped != nil {
		logger.Warn("skipping sqlite export", logger.Args("error", skipped.Error()))
	}

	if err := svc.Processor.Run(ctx, csvio.NewReader(f).Records()); err != nil {
		return fmt.Errorf("failed to process %s: %w", path, err)
	}

	snaps := svc.Processor.Snapshots()
	stats := svc.Processor.Stats()
	logger.Info("processed transactions", logger.Args(
		"records", stats.Records,
		"applied", stats.Applied,
		"rejected", stats.Rejected,
		"malformed", stats.Malformed,
		"accounts", len(snaps),
	))

	if err := r.writeSnapshots(snaps); err != nil {
		logger.Error("cannot write accounts", logger.Args("error", err.Error()))
	}

	if application.Exporter != nil {
		if err := application.Exporter.Export(ctx, snaps); err != nil {
			logger.Error("cannot export accounts", logger.Args("path", r.cfg.Export.SQLite, "error", err.Error()))
		} else {
			logger.Info("exported accounts", logger.Args("path", r.cfg.Export.SQLite, "accounts", len(snaps)))
		}
	}

	if file := r.cfg.Metrics.File; file != "" {
		if err := svc.Metrics.WriteTextfile(file); err != nil {
			logger.Error("cannot write metrics", logger.Args("path", file, "error", err.Error()))
		}
	}

	return nil
}

func (r *processRunner) writeSnapshots(snaps []model.AccountSnapshot) error {
	if strings.ToLower(r.cfg.Output.Format) == constants.FormatTable {
		return views.NewAccountListView(r.out).Render(snaps)
	}
	return csvio.NewWriter(r.out).WriteAll(snaps)
}

// confirmExport decides whether an existing export file may be replaced.
// When it may not, the export is disabled for this run and the reason is
// returned for logging. Only a prompt abort is a hard error.
func (r *processRunner) confirmExport() (skipped error, err error) {
	path := r.cfg.Export.SQLite
	if path == "" || r.cfg.Export.Overwrite {
		return nil, nil
	}

	if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
		return nil, nil
	}

	exists := fmt.Errorf("%w: %s", store.ErrExportExists, path)
	if !r.interactive() {
		r.cfg.Export.SQLite = ""
		return exists, nil
	}

	confirm, err := prompts.PromptConfirm(r.errOut, fmt.Sprintf("%s already exists. Replace it?", path), false)
	if err != nil {
		return nil, err
	}
	if !confirm {
		r.cfg.Export.SQLite = ""
		return exists, nil
	}
	return nil, nil
}

func (r *processRunner) interactive() bool {
	f, ok := r.in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
