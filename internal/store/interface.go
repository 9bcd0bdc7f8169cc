package store

import (
	"context"

	"github.com/hance08/ledgerd/internal/ledger"
	"github.com/hance08/ledgerd/internal/model"
)

// AccountStore is the account table a processor routes records through.
type AccountStore interface {
	// GetOrCreate returns the account, creating an empty one on first reference.
	GetOrCreate(id model.AccountID) *ledger.Ledger
	All() []*ledger.Ledger
}

// SnapshotExporter persists the final snapshots of a run.
type SnapshotExporter interface {
	Export(ctx context.Context, snaps []model.AccountSnapshot) error
	Close() error
}
