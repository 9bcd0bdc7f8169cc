package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/hance08/ledgerd/internal/model"
	"github.com/hance08/ledgerd/internal/utils"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteExporter writes the final account snapshots of a run into a SQLite
// file. Each export replaces the previous contents; a run never reads it back.
type SQLiteExporter struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteExporter(dbPath string, migrationsFS fs.FS) (*SQLiteExporter, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("can not create database directory %s: %w", dbDir, err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("can not open database : %w", err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("can not connect with database : %w", err)
	}
	if err := runMigrations(db, migrationsFS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database : %w", err)
	}

	return &SQLiteExporter{db: db, now: time.Now}, nil
}

func runMigrations(db *sql.DB, migrationsFS fs.FS) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to set up migrate driver : %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create iofs source driver : %w", err)
	}

	m, err := migrate.NewWithInstance(
		"iofs",
		sourceDriver,
		"sqlite3",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to set up migrate instance : %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migration(up) : %w", err)
	}

	return nil
}

// Export replaces the stored snapshots with snaps in a single transaction.
func (e *SQLiteExporter) Export(ctx context.Context, snaps []model.AccountSnapshot) error {
	if e.db == nil {
		return ErrExportClosed
	}

	return e.execTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM account_snapshots`); err != nil {
			return fmt.Errorf("failed to clear snapshots: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO account_snapshots (client, available, held, total, locked, exported_at)
			VALUES (?, ?, ?, ?, ?, ?);
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare snapshot SQL : %w", err)
		}
		defer func() {
			_ = stmt.Close()
		}()

		exportedAt := e.now().Unix()
		for _, snap := range snaps {
			_, err := stmt.ExecContext(ctx,
				int64(snap.Client),
				utils.FormatAmount(snap.Available),
				utils.FormatAmount(snap.Held),
				utils.FormatAmount(snap.Total),
				snap.Locked,
				exportedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert snapshot for client %d: %w", snap.Client, err)
			}
		}
		return nil
	})
}

func (e *SQLiteExporter) execTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction : %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (e *SQLiteExporter) Close() error {
	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db = nil
	return err
}
