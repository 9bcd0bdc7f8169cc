package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hance08/ledgerd/internal/csvio"
	"github.com/hance08/ledgerd/internal/ledger"
	"github.com/hance08/ledgerd/internal/model"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(buf *bytes.Buffer) *pterm.Logger {
	return pterm.DefaultLogger.
		WithWriter(buf).
		WithFormatter(pterm.LogFormatterJSON).
		WithLevel(pterm.LogLevelWarn)
}

func records(input string) iter.Seq2[model.TransactionRecord, error] {
	return csvio.NewReader(strings.NewReader(input)).Records()
}

func renderCSV(t *testing.T, snaps []model.AccountSnapshot) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, csvio.NewWriter(&buf).WriteAll(snaps))
	return buf.String()
}

const sampleInput = `type, client, tx, amount
deposit, 1, 1, 1.0
deposit, 2, 2, 2.0
deposit, 1, 3, 2.0
withdrawal, 1, 4, 1.5
withdrawal, 2, 5, 3.0
dispute, 2, 2,
bogus, 2, 6, 1.0
chargeback, 2, 2,
deposit, 2, 7, 10.0
dispute, 1, 3, 1.0
`

func TestProcessorRun(t *testing.T) {
	var logs bytes.Buffer
	metrics := NewMetrics()
	p := NewProcessor(1, testLogger(&logs), metrics)

	require.NoError(t, p.Run(context.Background(), records(sampleInput)))

	assert.Equal(t, "client,available,held,total,locked\n"+
		"1,1.5,0.0,1.5,false\n"+
		"2,0.0,0.0,0.0,true\n", renderCSV(t, p.Snapshots()))

	assert.Equal(t, Stats{Records: 9, Applied: 6, Rejected: 3, Malformed: 1}, p.Stats())

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.records.WithLabelValues("deposit", outcomeApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.records.WithLabelValues("deposit", outcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.rejections.WithLabelValues("insufficient_funds")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.rejections.WithLabelValues("account_locked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.rejections.WithLabelValues("amount_ambiguous")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.malformed))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.accounts))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.locked))

	out := logs.String()
	assert.Contains(t, out, "cannot parse transaction")
	assert.Contains(t, out, "insufficient_funds")
	assert.Contains(t, out, "account_locked")
}

func TestProcessorApplyCreatesAccountsLazily(t *testing.T) {
	p := NewProcessor(1, nil, nil)
	assert.Empty(t, p.Snapshots())

	// A rejected first reference still creates the (empty) account.
	err := p.Apply(model.TransactionRecord{ID: 1, Account: 5, Kind: model.KindWithdrawal,
		Amount: decimal.NewNullDecimal(decimal.RequireFromString("1"))})
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	snaps := p.Snapshots()
	require.Len(t, snaps, 1)
	assert.EqualValues(t, 5, snaps[0].Client)
	assert.True(t, snaps[0].Total.IsZero())
}

func TestProcessorStopsOnFatalError(t *testing.T) {
	errBoom := errors.New("boom")
	seq := func(yield func(model.TransactionRecord, error) bool) {
		rec := model.TransactionRecord{ID: 1, Account: 1, Kind: model.KindDeposit,
			Amount: decimal.NewNullDecimal(decimal.RequireFromString("1"))}
		if !yield(rec, nil) {
			return
		}
		if !yield(model.TransactionRecord{}, errBoom) {
			return
		}
		yield(model.TransactionRecord{ID: 2, Account: 2, Kind: model.KindDeposit,
			Amount: decimal.NewNullDecimal(decimal.RequireFromString("1"))}, nil)
	}

	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			p := NewProcessor(workers, nil, nil)
			require.ErrorIs(t, p.Run(context.Background(), seq), errBoom)
			assert.EqualValues(t, 1, p.Stats().Applied)
		})
	}
}

func TestProcessorHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 2} {
		p := NewProcessor(workers, nil, nil)
		err := p.Run(ctx, records(sampleInput))
		require.ErrorIs(t, err, context.Canceled)
		assert.EqualValues(t, 0, p.Stats().Records)
	}
}

// generateInput builds a long stream mixing every kind, including plenty of
// invalid references, across a handful of clients.
func generateInput(n int) string {
	rng := rand.New(rand.NewPCG(7, 11))
	kinds := []string{"deposit", "deposit", "deposit", "withdrawal", "withdrawal", "dispute", "resolve", "chargeback"}

	var b strings.Builder
	b.WriteString("type,client,tx,amount\n")
	for tx := 1; tx <= n; tx++ {
		kind := kinds[rng.IntN(len(kinds))]
		client := rng.IntN(12) + 1
		switch kind {
		case "deposit", "withdrawal":
			fmt.Fprintf(&b, "%s,%d,%d,%d.%04d\n", kind, client, tx, rng.IntN(50), rng.IntN(10000))
		default:
			fmt.Fprintf(&b, "%s,%d,%d,\n", kind, client, rng.IntN(tx)+1)
		}
	}
	return b.String()
}

func TestShardedRunMatchesSequential(t *testing.T) {
	input := generateInput(5000)

	sequential := NewProcessor(1, nil, nil)
	require.NoError(t, sequential.Run(context.Background(), records(input)))
	want := renderCSV(t, sequential.Snapshots())

	for _, workers := range []int{2, 4, 7} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			sharded := NewProcessor(workers, nil, nil)
			require.NoError(t, sharded.Run(context.Background(), records(input)))
			assert.Equal(t, want, renderCSV(t, sharded.Snapshots()))
			assert.Equal(t, sequential.Stats(), sharded.Stats())
		})
	}
}

func TestTotalEqualsAvailablePlusHeld(t *testing.T) {
	p := NewProcessor(1, nil, nil)
	require.NoError(t, p.Run(context.Background(), records(generateInput(3000))))

	for _, snap := range p.Snapshots() {
		assert.True(t, snap.Total.Equal(snap.Available.Add(snap.Held)), "client %d", snap.Client)
	}
}

func TestMetricsWriteTextfile(t *testing.T) {
	p := NewProcessor(1, nil, nil)
	require.NoError(t, p.Run(context.Background(), records(sampleInput)))

	path := filepath.Join(t.TempDir(), "ledgerd.prom")
	require.NoError(t, p.metrics.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ledgerd_rejections_total{reason="insufficient_funds"} 1`)
	assert.Contains(t, string(data), "ledgerd_accounts 2")
}
