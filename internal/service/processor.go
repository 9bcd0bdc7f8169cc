package service

import (
	"context"
	"errors"
	"iter"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hance08/ledgerd/internal/csvio"
	"github.com/hance08/ledgerd/internal/ledger"
	"github.com/hance08/ledgerd/internal/model"
	"github.com/hance08/ledgerd/internal/store"
	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"
)

const shardQueueSize = 256

// Stats summarises a run.
type Stats struct {
	Records   int64
	Applied   int64
	Rejected  int64
	Malformed int64
}

// Processor routes records to per-account ledgers. With more than one worker
// the accounts are split into shards by client id; each shard is owned by a
// single goroutine and sees its records in input order.
type Processor struct {
	shards  []store.AccountStore
	logger  *pterm.Logger
	metrics *Metrics
	logMu   sync.Mutex

	records   atomic.Int64
	applied   atomic.Int64
	rejected  atomic.Int64
	malformed atomic.Int64
}

func NewProcessor(workers int, logger *pterm.Logger, metrics *Metrics) *Processor {
	if workers < 1 {
		workers = 1
	}
	if metrics == nil {
		metrics = NewMetrics()
	}

	shards := make([]store.AccountStore, workers)
	for i := range shards {
		shards[i] = store.NewMemoryStore()
	}

	return &Processor{
		shards:  shards,
		logger:  logger,
		metrics: metrics,
	}
}

func (p *Processor) shard(id model.AccountID) store.AccountStore {
	return p.shards[int(id)%len(p.shards)]
}

// Apply routes rec to its account, creating the account on first reference.
// A rejection is logged and counted; the account is left unchanged.
func (p *Processor) Apply(rec model.TransactionRecord) error {
	p.records.Add(1)

	account := p.shard(rec.Account).GetOrCreate(rec.Account)
	if err := account.Apply(rec); err != nil {
		p.rejected.Add(1)
		p.metrics.records.WithLabelValues(rec.Kind.String(), outcomeRejected).Inc()
		p.metrics.rejections.WithLabelValues(ledger.Reason(err)).Inc()
		p.warn("cannot apply transaction",
			"client", rec.Account,
			"tx", rec.ID,
			"type", rec.Kind.String(),
			"reason", ledger.Reason(err),
			"error", err.Error(),
		)
		return err
	}

	p.applied.Add(1)
	p.metrics.records.WithLabelValues(rec.Kind.String(), outcomeApplied).Inc()
	return nil
}

// Run consumes records until the sequence ends. Row errors are logged and
// skipped; any other error from the sequence stops the run and is returned.
func (p *Processor) Run(ctx context.Context, records iter.Seq2[model.TransactionRecord, error]) error {
	var err error
	if len(p.shards) == 1 {
		err = p.runSequential(ctx, records)
	} else {
		err = p.runSharded(ctx, records)
	}

	p.observeAccounts()
	return err
}

func (p *Processor) runSequential(ctx context.Context, records iter.Seq2[model.TransactionRecord, error]) error {
	for rec, err := range records {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if !p.skipMalformed(err) {
				return err
			}
			continue
		}
		_ = p.Apply(rec)
	}
	return nil
}

func (p *Processor) runSharded(ctx context.Context, records iter.Seq2[model.TransactionRecord, error]) error {
	g, gctx := errgroup.WithContext(ctx)

	queues := make([]chan model.TransactionRecord, len(p.shards))
	for i := range queues {
		queue := make(chan model.TransactionRecord, shardQueueSize)
		queues[i] = queue

		g.Go(func() error {
			for rec := range queue {
				_ = p.Apply(rec)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, queue := range queues {
				close(queue)
			}
		}()

		for rec, err := range records {
			if ctxErr := gctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				if !p.skipMalformed(err) {
					return err
				}
				continue
			}

			select {
			case queues[int(rec.Account)%len(queues)] <- rec:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	return g.Wait()
}

func (p *Processor) skipMalformed(err error) bool {
	var rowErr *csvio.RowError
	if !errors.As(err, &rowErr) {
		return false
	}

	p.malformed.Add(1)
	p.metrics.malformed.Inc()
	p.warn("cannot parse transaction", "line", rowErr.Line, "error", rowErr.Err.Error())
	return true
}

func (p *Processor) warn(msg string, args ...any) {
	if p.logger == nil {
		return
	}
	p.logMu.Lock()
	defer p.logMu.Unlock()
	p.logger.Warn(msg, p.logger.Args(args...))
}

func (p *Processor) observeAccounts() {
	var accounts, locked int
	for _, s := range p.shards {
		for _, l := range s.All() {
			accounts++
			if l.Locked() {
				locked++
			}
		}
	}
	p.metrics.accounts.Set(float64(accounts))
	p.metrics.locked.Set(float64(locked))
}

// Snapshots returns every account's balances ordered by client id.
func (p *Processor) Snapshots() []model.AccountSnapshot {
	var snaps []model.AccountSnapshot
	for _, s := range p.shards {
		for _, l := range s.All() {
			snaps = append(snaps, l.Snapshot())
		}
	}

	slices.SortFunc(snaps, func(a, b model.AccountSnapshot) int {
		return int(a.Client) - int(b.Client)
	})
	return snaps
}

func (p *Processor) Stats() Stats {
	return Stats{
		Records:   p.records.Load(),
		Applied:   p.applied.Load(),
		Rejected:  p.rejected.Load(),
		Malformed: p.malformed.Load(),
	}
}
