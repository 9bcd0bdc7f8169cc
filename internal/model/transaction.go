package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionID identifies a transaction. It is `tx` in the CSV input.
type TransactionID uint32

type Kind uint8

const (
	KindDeposit Kind = iota + 1
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

var kindNames = map[Kind]string{
	KindDeposit:    "deposit",
	KindWithdrawal: "withdrawal",
	KindDispute:    "dispute",
	KindResolve:    "resolve",
	KindChargeback: "chargeback",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the five known kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// RequiresAmount reports whether records of this kind carry their own amount.
// Dispute, resolve and chargeback only reference an earlier transaction.
func (k Kind) RequiresAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// ParseKind matches the canonical lowercase names, ignoring case and surrounding space.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown transaction type %q", s)
}

// TransactionRecord is one decoded input row.
type TransactionRecord struct {
	ID      TransactionID
	Account AccountID
	Kind    Kind
	Amount  decimal.NullDecimal
}

// StoredTransaction is the part of an accepted deposit or withdrawal an
// account keeps so later disputes can reference it.
type StoredTransaction struct {
	ID       TransactionID
	Kind     Kind
	Amount   decimal.Decimal
	Disputed bool
}
