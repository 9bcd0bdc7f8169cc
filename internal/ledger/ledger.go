// Package ledger holds the per-account balance state machine.
package ledger

import (
	"fmt"

	"github.com/hance08/ledgerd/internal/model"
	"github.com/shopspring/decimal"
)

// Ledger is one client account: its balances and the deposits and
// withdrawals it has accepted. total always equals available + held.
type Ledger struct {
	id        model.AccountID
	available decimal.Decimal
	held      decimal.Decimal
	total     decimal.Decimal
	locked    bool

	transactions map[model.TransactionID]*model.StoredTransaction
}

// New creates an empty, unlocked account.
func New(id model.AccountID) *Ledger {
	return &Ledger{
		id:           id,
		transactions: make(map[model.TransactionID]*model.StoredTransaction),
	}
}

func (l *Ledger) ID() model.AccountID { return l.id }

func (l *Ledger) Locked() bool { return l.locked }

// Apply validates rec against the account and mutates the balances.
// A rejected record leaves the account exactly as it was.
func (l *Ledger) Apply(rec model.TransactionRecord) error {
	if l.locked {
		return fmt.Errorf("client %d: %w", l.id, ErrAccountLocked)
	}
	if !rec.Kind.Valid() {
		return fmt.Errorf("tx %d: %w: %s", rec.ID, ErrUnknownKind, rec.Kind)
	}

	if rec.Kind.RequiresAmount() {
		if !rec.Amount.Valid {
			return fmt.Errorf("tx %d: %w", rec.ID, ErrAmountMissing)
		}
		if rec.Amount.Decimal.IsNegative() {
			return fmt.Errorf("tx %d: %w", rec.ID, ErrNegativeAmount)
		}
		if _, ok := l.transactions[rec.ID]; ok {
			return fmt.Errorf("tx %d: %w", rec.ID, ErrDuplicateTransaction)
		}
	} else if rec.Amount.Valid {
		return fmt.Errorf("tx %d: %w", rec.ID, ErrAmountAmbiguous)
	}

	switch rec.Kind {
	case model.KindDeposit:
		return l.deposit(rec.ID, rec.Amount.Decimal)
	case model.KindWithdrawal:
		return l.withdraw(rec.ID, rec.Amount.Decimal)
	case model.KindDispute:
		return l.dispute(rec.ID)
	case model.KindResolve:
		return l.resolve(rec.ID)
	case model.KindChargeback:
		return l.chargeback(rec.ID)
	default:
		return fmt.Errorf("tx %d: %w: %s", rec.ID, ErrUnknownKind, rec.Kind)
	}
}

func (l *Ledger) deposit(id model.TransactionID, amount decimal.Decimal) error {
	l.available = l.available.Add(amount)
	l.total = l.total.Add(amount)
	l.store(id, model.KindDeposit, amount)
	return nil
}

func (l *Ledger) withdraw(id model.TransactionID, amount decimal.Decimal) error {
	available := l.available.Sub(amount)
	if available.IsNegative() {
		return fmt.Errorf("client %d: %w", l.id, ErrInsufficientFunds)
	}

	l.available = available
	l.total = l.total.Sub(amount)
	l.store(id, model.KindWithdrawal, amount)
	return nil
}

func (l *Ledger) dispute(id model.TransactionID) error {
	tx, err := l.lookup(id)
	if err != nil {
		return err
	}
	if tx.Disputed {
		return fmt.Errorf("tx %d already disputed: %w", id, ErrInvalidState)
	}
	// Only a credit can be held back and later charged back.
	if tx.Kind != model.KindDeposit {
		return fmt.Errorf("tx %d is a %s: %w", id, tx.Kind, ErrInvalidKind)
	}

	tx.Disputed = true
	l.available = l.available.Sub(tx.Amount)
	l.held = l.held.Add(tx.Amount)
	return nil
}

func (l *Ledger) resolve(id model.TransactionID) error {
	tx, err := l.lookupDisputed(id)
	if err != nil {
		return err
	}

	tx.Disputed = false
	l.available = l.available.Add(tx.Amount)
	l.held = l.held.Sub(tx.Amount)
	return nil
}

func (l *Ledger) chargeback(id model.TransactionID) error {
	tx, err := l.lookupDisputed(id)
	if err != nil {
		return err
	}

	tx.Disputed = false
	l.held = l.held.Sub(tx.Amount)
	l.total = l.total.Sub(tx.Amount)
	l.locked = true
	return nil
}

func (l *Ledger) store(id model.TransactionID, kind model.Kind, amount decimal.Decimal) {
	l.transactions[id] = &model.StoredTransaction{
		ID:     id,
		Kind:   kind,
		Amount: amount,
	}
}

func (l *Ledger) lookup(id model.TransactionID) (*model.StoredTransaction, error) {
	tx, ok := l.transactions[id]
	if !ok {
		return nil, fmt.Errorf("client %d tx %d: %w", l.id, id, ErrTransactionNotFound)
	}
	return tx, nil
}

func (l *Ledger) lookupDisputed(id model.TransactionID) (*model.StoredTransaction, error) {
	tx, err := l.lookup(id)
	if err != nil {
		return nil, err
	}
	if !tx.Disputed {
		return nil, fmt.Errorf("tx %d not disputed: %w", id, ErrInvalidState)
	}
	return tx, nil
}

// Snapshot returns the current balances. Amounts are not rounded here.
func (l *Ledger) Snapshot() model.AccountSnapshot {
	return model.AccountSnapshot{
		Client:    l.id,
		Available: l.available,
		Held:      l.held,
		Total:     l.total,
		Locked:    l.locked,
	}
}
