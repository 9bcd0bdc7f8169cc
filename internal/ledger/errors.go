package ledger

import "errors"

var (
	ErrAccountLocked        = errors.New("account is locked")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrAmountMissing        = errors.New("amount is required")
	ErrAmountAmbiguous      = errors.New("amount must be omitted")
	ErrInvalidState         = errors.New("invalid transaction state")
	ErrInvalidKind          = errors.New("invalid transaction type")
	ErrNegativeAmount       = errors.New("amount must not be negative")
	ErrDuplicateTransaction = errors.New("transaction already exists")
	ErrUnknownKind          = errors.New("unknown transaction type")
)

var reasons = []struct {
	err    error
	reason string
}{
	{ErrAccountLocked, "account_locked"},
	{ErrTransactionNotFound, "transaction_not_found"},
	{ErrInsufficientFunds, "insufficient_funds"},
	{ErrAmountMissing, "amount_missing"},
	{ErrAmountAmbiguous, "amount_ambiguous"},
	{ErrInvalidState, "invalid_state"},
	{ErrInvalidKind, "invalid_kind"},
	{ErrNegativeAmount, "negative_amount"},
	{ErrDuplicateTransaction, "duplicate_transaction"},
	{ErrUnknownKind, "unknown_kind"},
}

// Reason returns a short stable label for a rejection, used for log fields
// and metric labels. Errors not produced by this package map to "other".
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "other"
}
