package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivedAddresses(t *testing.T) {
	// Derivation is deterministic.
	assert.Equal(t, StateAddress(), StateAddress())
	assert.Equal(t, FeeVaultAddress(), FeeVaultAddress())
	assert.Equal(t, CurveAddress(7), CurveAddress(7))
	assert.Equal(t, MintAddress(7), MintAddress(7))

	// Distinct tokens derive distinct accounts.
	assert.NotEqual(t, CurveAddress(1), CurveAddress(2))
	assert.NotEqual(t, MintAddress(1), MintAddress(2))
	assert.NotEqual(t, CurveAddress(1), MintAddress(1))

	// Every derived address is a parseable public key.
	for _, addr := range []string{
		StateAddress(),
		FeeVaultAddress(),
		CurveAddress(42),
		MintAddress(42),
	} {
		assert.True(t, ValidAddress(addr), "address %s should be valid", addr)
	}
}

func TestTradeAddress(t *testing.T) {
	a := TradeAddress("some-user", 1, 1)
	assert.Equal(t, a, TradeAddress("some-user", 1, 1))
	assert.NotEqual(t, a, TradeAddress("some-user", 1, 2))
	assert.NotEqual(t, a, TradeAddress("some-user", 2, 1))
	assert.NotEqual(t, a, TradeAddress("other-user", 1, 1))
	assert.True(t, ValidAddress(a))

	// Base58 user identities derive too.
	b := TradeAddress("So11111111111111111111111111111111111111112", 1, 1)
	assert.True(t, ValidAddress(b))
}

func TestValidAddress(t *testing.T) {
	assert.True(t, ValidAddress("So11111111111111111111111111111111111111112"))
	assert.False(t, ValidAddress(""))
	assert.False(t, ValidAddress("not-base58-0OIl"))
}

func TestMemoryLedgerCurrency(t *testing.T) {
	l := NewMemoryLedger()

	l.Credit("a", 100)
	assert.Equal(t, uint64(100), l.CurrencyBalance("a"))

	require.NoError(t, l.TransferCurrency("a", "b", 60))
	assert.Equal(t, uint64(40), l.CurrencyBalance("a"))
	assert.Equal(t, uint64(60), l.CurrencyBalance("b"))

	err := l.TransferCurrency("a", "b", 41)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	// Failed transfer moves nothing.
	assert.Equal(t, uint64(40), l.CurrencyBalance("a"))
	assert.Equal(t, uint64(60), l.CurrencyBalance("b"))
}

func TestMemoryLedgerTokens(t *testing.T) {
	l := NewMemoryLedger()

	err := l.MintUnits("mint-x", 10, "a")
	assert.ErrorIs(t, err, ErrUnknownMint)

	created, err := l.CreateAssociatedAccountIfMissing("a", "mint-x")
	require.NoError(t, err)
	assert.True(t, created)

	// Second touch is a no-op.
	created, err = l.CreateAssociatedAccountIfMissing("a", "mint-x")
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, l.MintUnits("mint-x", 10, "a"))
	assert.Equal(t, uint64(10), l.TokenBalance("a", "mint-x"))

	err = l.BurnUnits("mint-x", 11, "a")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	require.NoError(t, l.BurnUnits("mint-x", 4, "a"))
	assert.Equal(t, uint64(6), l.TokenBalance("a", "mint-x"))

	assert.Equal(t, uint64(0), l.TokenBalance("a", "mint-y"))
}

func TestOperatorKeystore(t *testing.T) {
	dir := t.TempDir()
	ks := NewOperatorKeystore(dir)

	address, err := ks.LoadOrCreate("operator", "test-password")
	require.NoError(t, err)
	assert.True(t, ValidAddress(address))

	// A second load returns the same identity.
	again, err := ks.LoadOrCreate("operator", "test-password")
	require.NoError(t, err)
	assert.Equal(t, address, again)

	// The wrong password cannot unlock the stored key.
	_, err = ks.LoadOrCreate("operator", "wrong-password")
	assert.Error(t, err)
	_, err = ks.Unlock("operator", "wrong-password")
	assert.Error(t, err)

	account, err := ks.Unlock("operator", "test-password")
	require.NoError(t, err)
	assert.Equal(t, address, account.PublicKey.ToBase58())
	assert.Len(t, account.PrivateKey, 64)
}
