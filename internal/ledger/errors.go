package ledger

import "errors"

// Settlement failures callers are expected to branch on with errors.Is.
var (
	// ErrWalletNotFound means no wallet row exists. The service never
	// auto-creates one; Deposit (or the config seed) has to run first.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrHoldingNotFound means a sell referenced a ticker that is not held.
	ErrHoldingNotFound = errors.New("item not found")

	// ErrInsufficientFunds means a buy's cost exceeds the wallet balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientQty means a sell asked for more shares than are held.
	ErrInsufficientQty = errors.New("insufficient quantity")

	// ErrInvalidArgument means a non-positive quantity, negative price or
	// negative deposit. Checked before any funds or holdings lookup.
	ErrInvalidArgument = errors.New("invalid argument")
)
