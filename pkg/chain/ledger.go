package chain

import (
	"errors"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownMint       = errors.New("unknown mint")
	ErrUnknownAccount    = errors.New("unknown account")
)

// Ledger is the set of capabilities the engine consumes from the underlying
// chain: opaque "move value" primitives. The engine validates and books
// everything itself; the ledger only executes effects.
//
// MemoryLedger implements this for development and tests. A production
// deployment plugs a Solana RPC implementation in here.
type Ledger interface {
	// MintUnits mints amount token units of mint to the destination account.
	MintUnits(mint string, amount uint64, destination string) error
	// BurnUnits burns amount token units of mint from the source account.
	BurnUnits(mint string, amount uint64, source string) error
	// TransferCurrency moves native currency between accounts.
	TransferCurrency(from, to string, amount uint64) error
	// CreateAssociatedAccountIfMissing ensures owner has a token account for
	// mint. Reports whether the account was created by this call.
	CreateAssociatedAccountIfMissing(owner, mint string) (created bool, err error)
	// CurrencyBalance returns the native balance of an account.
	CurrencyBalance(account string) uint64
	// TokenBalance returns owner's balance of mint.
	TokenBalance(owner, mint string) uint64
}
