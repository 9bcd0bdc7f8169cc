package model

import "github.com/shopspring/decimal"

// AccountID identifies a client account. It is `client` in the CSV input.
type AccountID uint16

// AccountSnapshot is the final state of one account handed to the output writers.
type AccountSnapshot struct {
	Client    AccountID
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}
