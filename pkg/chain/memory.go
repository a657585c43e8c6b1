package chain

import (
	"sync"
)

// MemoryLedger is an in-process Ledger. All balances live in maps guarded by
// one mutex; every call either fully applies or fully fails.
type MemoryLedger struct {
	mu     sync.Mutex
	native map[string]uint64
	// mint -> owner -> balance
	tokens map[string]map[string]uint64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		native: make(map[string]uint64),
		tokens: make(map[string]map[string]uint64),
	}
}

// Credit funds an account with native currency. Development/test faucet.
func (l *MemoryLedger) Credit(account string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.native[account] += amount
}

func (l *MemoryLedger) MintUnits(mint string, amount uint64, destination string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	holders, ok := l.tokens[mint]
	if !ok {
		return ErrUnknownMint
	}
	holders[destination] += amount
	return nil
}

func (l *MemoryLedger) BurnUnits(mint string, amount uint64, source string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	holders, ok := l.tokens[mint]
	if !ok {
		return ErrUnknownMint
	}
	if holders[source] < amount {
		return ErrInsufficientFunds
	}
	holders[source] -= amount
	return nil
}

func (l *MemoryLedger) TransferCurrency(from, to string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.native[from] < amount {
		return ErrInsufficientFunds
	}
	l.native[from] -= amount
	l.native[to] += amount
	return nil
}

func (l *MemoryLedger) CreateAssociatedAccountIfMissing(owner, mint string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	holders, ok := l.tokens[mint]
	if !ok {
		// First touch of a mint registers it.
		holders = make(map[string]uint64)
		l.tokens[mint] = holders
	}
	if _, exists := holders[owner]; exists {
		return false, nil
	}
	holders[owner] = 0
	return true, nil
}

func (l *MemoryLedger) CurrencyBalance(account string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.native[account]
}

func (l *MemoryLedger) TokenBalance(owner, mint string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	holders, ok := l.tokens[mint]
	if !ok {
		return 0
	}
	return holders[owner]
}
