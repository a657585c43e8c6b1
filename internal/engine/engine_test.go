package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"launchcontrol/internal/models"
	"launchcontrol/pkg/chain"
)

const (
	deployer = "deployer-wallet"
	alice    = "alice-wallet"
	bob      = "bob-wallet"

	oneSol = uint64(1_000_000_000)

	// A syntactically valid base58 public key, for the address-validated
	// admin operations.
	validAddress = "So11111111111111111111111111111111111111112"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	eng    *Engine
	ledger *chain.MemoryLedger
	clock  *fakeClock
	events []TradeEvent
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive for the test.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.PlatformState{},
		&models.TokenInfo{},
		&models.BondingCurve{},
		&models.TradeRecord{},
		&models.TokenStat{},
	))

	f := &fixture{
		ledger: chain.NewMemoryLedger(),
		clock:  &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
	f.eng = New(db, f.ledger,
		WithClock(f.clock.Now),
		WithNotifier(func(event TradeEvent) { f.events = append(f.events, event) }),
	)
	return f
}

func (f *fixture) initialize(t *testing.T) {
	t.Helper()
	_, err := f.eng.Initialize(deployer)
	require.NoError(t, err)
}

func (f *fixture) createToken(t *testing.T, creator string) uint64 {
	t.Helper()
	token, _, err := f.eng.CreateToken(creator, CreateTokenParams{
		Name:          "Test Token",
		Symbol:        "TEST",
		URI:           "https://example.com/meta.json",
		Decimals:      6,
		InitialSupply: MaxTokenSupply,
	})
	require.NoError(t, err)
	return token.TokenID
}

func TestInitialize(t *testing.T) {
	f := newFixture(t)

	state, err := f.eng.Initialize(deployer)
	require.NoError(t, err)
	assert.True(t, state.Initialized)
	assert.Equal(t, uint64(0), state.TokenCount)
	assert.Equal(t, uint64(DefaultPlatformFeeRate), state.PlatformFeeRate)
	assert.Equal(t, uint64(DefaultLaunchThreshold), state.LaunchThreshold)
	assert.Equal(t, deployer, state.Authority)
	assert.Equal(t, deployer, state.Treasury)
	assert.False(t, state.IsPaused)

	_, err = f.eng.Initialize(deployer)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	// The failed second call must not have touched the stored state.
	stored, err := f.eng.State()
	require.NoError(t, err)
	assert.Equal(t, deployer, stored.Authority)
}

func TestInitializeEmptySigner(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Initialize("")
	assert.ErrorIs(t, err, ErrInvalidSigner)
}

func TestOperationsBeforeInitialize(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.eng.CreateToken(alice, CreateTokenParams{
		Name: "T", Symbol: "T", Decimals: 6, InitialSupply: 1000,
	})
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = f.eng.BuyToken(alice, BuyParams{TokenID: 1, SolAmount: oneSol, TokenCreator: bob})
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = f.eng.State()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestCreateTokenValidation(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)

	base := CreateTokenParams{Name: "Token", Symbol: "TKN", Decimals: 6, InitialSupply: 1000}

	tests := []struct {
		name   string
		mutate func(*CreateTokenParams)
		want   error
	}{
		{"name too long", func(p *CreateTokenParams) { p.Name = "123456789012345678901234567890123" }, ErrTokenNameTooLong},
		{"symbol too long", func(p *CreateTokenParams) { p.Symbol = "123456789" }, ErrTokenSymbolTooLong},
		{"uri too long", func(p *CreateTokenParams) { p.URI = string(make([]byte, 257)) }, ErrTokenURITooLong},
		{"decimals too high", func(p *CreateTokenParams) { p.Decimals = 10 }, ErrInvalidDecimals},
		{"zero supply", func(p *CreateTokenParams) { p.InitialSupply = 0 }, ErrInvalidInitialSupply},
		{"supply above cap", func(p *CreateTokenParams) { p.InitialSupply = MaxTokenSupply + 1 }, ErrInvalidInitialSupply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := base
			tt.mutate(&params)
			_, _, err := f.eng.CreateToken(alice, params)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, _, err := f.eng.CreateToken("", base)
	assert.ErrorIs(t, err, ErrInvalidSigner)
}

func TestCreateToken(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)

	token, bc, err := f.eng.CreateToken(alice, CreateTokenParams{
		Name:          "First",
		Symbol:        "FST",
		URI:           "ipfs://meta",
		Decimals:      6,
		InitialSupply: MaxTokenSupply,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), token.TokenID)
	assert.Equal(t, chain.MintAddress(1), token.Mint)
	assert.Equal(t, alice, token.Creator)
	assert.Equal(t, uint64(MaxTokenSupply), token.TotalSupply)
	assert.Equal(t, uint64(0), token.CirculatingSupply)
	assert.True(t, token.TradingActive)
	assert.False(t, token.LaunchedToDex)

	assert.Equal(t, uint64(InitialVirtualSolReserves), bc.VirtualSolReserves)
	assert.Equal(t, uint64(InitialVirtualTokenReserves), bc.VirtualTokenReserves)
	assert.Equal(t, uint64(0), bc.RealSolReserves)
	assert.Equal(t, uint64(MaxTokenSupply), bc.RealTokenReserves)
	assert.True(t, bc.Active)
	assert.NotZero(t, bc.CurrentPrice)

	second, _, err := f.eng.CreateToken(bob, CreateTokenParams{
		Name: "Second", Symbol: "SND", Decimals: 6, InitialSupply: 1_000_000,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.TokenID)
	assert.NotEqual(t, token.Mint, second.Mint)

	state, err := f.eng.State()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), state.TokenCount)
}

func TestBuyToken(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	tokenID := f.createToken(t, alice)
	f.ledger.Credit(bob, 5*oneSol)

	record, err := f.eng.BuyToken(bob, BuyParams{
		TokenID:      tokenID,
		SolAmount:    oneSol,
		TokenCreator: alice,
	})
	require.NoError(t, err)

	// 2.5% platform + 1% creator fee leaves 0.965 SOL for the curve.
	const wantTokens = uint64(64_603_423_219_765)
	assert.Equal(t, uint64(1), record.TransactionID)
	assert.Equal(t, models.TradeKindBuy, record.Kind)
	assert.Equal(t, oneSol, record.SolAmount)
	assert.Equal(t, wantTokens, record.TokenAmount)
	assert.Equal(t, uint64(25_000_000), record.PlatformFee)
	assert.Equal(t, uint64(10_000_000), record.CreatorFee)
	assert.Equal(t, uint64(15), record.Price)
	assert.Len(t, record.Signature, 128)

	bc, err := f.eng.Curve(tokenID)
	require.NoError(t, err)
	assert.Equal(t, uint64(965_000_000), bc.RealSolReserves)
	assert.Equal(t, uint64(MaxTokenSupply)-wantTokens, bc.RealTokenReserves)
	assert.Equal(t, oneSol, bc.TotalSolVolume)
	assert.Equal(t, wantTokens, bc.TotalTokenVolume)

	token, err := f.eng.Token(tokenID)
	require.NoError(t, err)
	assert.Equal(t, wantTokens, token.CirculatingSupply)
	assert.Equal(t, oneSol, token.TotalSolRaised)
	assert.Equal(t, uint64(1), token.HolderCount)
	assert.Equal(t, uint64(1), token.TransactionCount)
	assert.Equal(t, uint64(10_000_000), token.CreatorFeesCollected)

	state, err := f.eng.State()
	require.NoError(t, err)
	assert.Equal(t, uint64(25_000_000), state.TotalFeesCollected)

	assert.Equal(t, 4*oneSol, f.ledger.CurrencyBalance(bob))
	assert.Equal(t, uint64(965_000_000), f.ledger.CurrencyBalance(chain.CurveAddress(tokenID)))
	assert.Equal(t, uint64(25_000_000), f.ledger.CurrencyBalance(chain.FeeVaultAddress()))
	assert.Equal(t, uint64(10_000_000), f.ledger.CurrencyBalance(alice))
	assert.Equal(t, wantTokens, f.ledger.TokenBalance(bob, token.Mint))

	// A second buy from the same holder must not bump the holder count.
	_, err = f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: alice})
	require.NoError(t, err)
	token, err = f.eng.Token(tokenID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), token.HolderCount)
	assert.Equal(t, uint64(2), token.TransactionCount)
}

func TestBuyTokenValidation(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	tokenID := f.createToken(t, alice)
	f.ledger.Credit(bob, 100*oneSol)

	_, err := f.eng.BuyToken("", BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: alice})
	assert.ErrorIs(t, err, ErrInvalidSigner)

	_, err = f.eng.BuyToken(bob, BuyParams{TokenID: 99, SolAmount: oneSol, TokenCreator: alice})
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: bob})
	assert.ErrorIs(t, err, ErrInvalidCreator)

	_, err = f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: 0, TokenCreator: alice})
	assert.ErrorIs(t, err, ErrInvalidPurchaseAmount)

	_, err = f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: MinTokenPurchase - 1, TokenCreator: alice})
	assert.ErrorIs(t, err, ErrPurchaseAmountTooSmall)

	_, err = f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: MaxTokenPurchase + 1, TokenCreator: alice})
	assert.ErrorIs(t, err, ErrPurchaseAmountTooLarge)

	broke := "no-funds-wallet"
	_, err = f.eng.BuyToken(broke, BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: alice})
	assert.ErrorIs(t, err, ErrInsufficientSolBalance)

	// Validation failures must leave no trace.
	bc, err := f.eng.Curve(tokenID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bc.RealSolReserves)
	token, err := f.eng.Token(tokenID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), token.TransactionCount)
}

func TestBuyTokenSlippage(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	tokenID := f.createToken(t, alice)
	f.ledger.Credit(bob, 5*oneSol)

	_, err := f.eng.BuyToken(bob, BuyParams{
		TokenID:      tokenID,
		SolAmount:    oneSol,
		TokenCreator: alice,
		MinTokensOut: MaxTokenSupply, // unreachable
	})
	assert.ErrorIs(t, err, ErrSlippageExceeded)
	assert.Equal(t, 5*oneSol, f.ledger.CurrencyBalance(bob))
}

func TestSellToken(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	tokenID := f.createToken(t, alice)
	f.ledger.Credit(bob, 5*oneSol)

	buy, err := f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: alice})
	require.NoError(t, err)

	sellAmount := buy.TokenAmount / 2
	balanceBefore := f.ledger.CurrencyBalance(bob)
	curveBefore := f.ledger.CurrencyBalance(chain.CurveAddress(tokenID))

	sell, err := f.eng.SellToken(bob, SellParams{
		TokenID:      tokenID,
		TokenAmount:  sellAmount,
		TokenCreator: alice,
	})
	require.NoError(t, err)

	assert.Equal(t, models.TradeKindSell, sell.Kind)
	assert.Equal(t, uint64(2), sell.TransactionID)
	assert.Equal(t, sellAmount, sell.TokenAmount)
	assert.NotZero(t, sell.SolAmount)

	netOut := sell.SolAmount - sell.PlatformFee - sell.CreatorFee
	assert.Equal(t, balanceBefore+netOut, f.ledger.CurrencyBalance(bob))
	assert.Equal(t, curveBefore-sell.SolAmount, f.ledger.CurrencyBalance(chain.CurveAddress(tokenID)))

	bc, err := f.eng.Curve(tokenID)
	require.NoError(t, err)
	assert.Equal(t, uint64(965_000_000)-sell.SolAmount, bc.RealSolReserves)

	token, err := f.eng.Token(tokenID)
	require.NoError(t, err)
	assert.Equal(t, buy.TokenAmount-sellAmount, token.CirculatingSupply)
	assert.Equal(t, buy.TokenAmount-sellAmount, f.ledger.TokenBalance(bob, token.Mint))
}

func TestSellTokenValidation(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	tokenID := f.createToken(t, alice)

	_, err := f.eng.SellToken(bob, SellParams{TokenID: tokenID, TokenAmount: 0, TokenCreator: alice})
	assert.ErrorIs(t, err, ErrInvalidPurchaseAmount)

	_, err = f.eng.SellToken(bob, SellParams{TokenID: tokenID, TokenAmount: 1000, TokenCreator: alice})
	assert.ErrorIs(t, err, ErrInsufficientTokenBalance)

	_, err = f.eng.SellToken(bob, SellParams{TokenID: tokenID, TokenAmount: 1000, TokenCreator: bob})
	assert.ErrorIs(t, err, ErrInvalidCreator)
}

func TestSellTokenSlippage(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	tokenID := f.createToken(t, alice)
	f.ledger.Credit(bob, 5*oneSol)

	buy, err := f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: alice})
	require.NoError(t, err)

	_, err = f.eng.SellToken(bob, SellParams{
		TokenID:      tokenID,
		TokenAmount:  buy.TokenAmount,
		TokenCreator: alice,
		MinSolOut:    10 * oneSol, // unreachable
	})
	assert.ErrorIs(t, err, ErrSlippageExceeded)

	// The rejected sell must not have burned anything.
	token, err := f.eng.Token(tokenID)
	require.NoError(t, err)
	assert.Equal(t, buy.TokenAmount, f.ledger.TokenBalance(bob, token.Mint))
}

func TestFeeRateChangeAppliesToLaterTrades(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	tokenID := f.createToken(t, alice)
	f.ledger.Credit(bob, 10*oneSol)

	first, err := f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: alice})
	require.NoError(t, err)
	assert.Equal(t, uint64(25_000_000), first.PlatformFee)

	_, err = f.eng.UpdatePlatformSettings(deployer, 300, DefaultLaunchThreshold)
	require.NoError(t, err)

	second, err := f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: alice})
	require.NoError(t, err)
	assert.Equal(t, uint64(30_000_000), second.PlatformFee)

	state, err := f.eng.State()
	require.NoError(t, err)
	assert.Equal(t, uint64(55_000_000), state.TotalFeesCollected)
}

func TestUpdatePlatformSettingsValidation(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)

	_, err := f.eng.UpdatePlatformSettings(alice, 300, DefaultLaunchThreshold)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.eng.UpdatePlatformSettings(deployer, MaxPlatformFeeRate+1, DefaultLaunchThreshold)
	assert.ErrorIs(t, err, ErrInvalidFeeRate)

	_, err = f.eng.UpdatePlatformSettings(deployer, 300, MinLaunchThreshold-1)
	assert.ErrorIs(t, err, ErrInvalidLaunchThreshold)

	state, err := f.eng.State()
	require.NoError(t, err)
	assert.Equal(t, uint64(DefaultPlatformFeeRate), state.PlatformFeeRate)
}

func TestUpdateAuthorityAndTreasury(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)

	err := f.eng.UpdateAuthority(deployer, "not-a-pubkey")
	assert.ErrorIs(t, err, ErrInvalidAccount)

	err = f.eng.UpdateAuthority(alice, validAddress)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, f.eng.UpdateAuthority(deployer, validAddress))

	// The old authority is out.
	_, err = f.eng.UpdatePlatformSettings(deployer, 300, DefaultLaunchThreshold)
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = f.eng.UpdateTreasury(validAddress, "also-not-a-pubkey")
	assert.ErrorIs(t, err, ErrInvalidAccount)
	require.NoError(t, f.eng.UpdateTreasury(validAddress, validAddress))
}

func TestTogglePause(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	tokenID := f.createToken(t, alice)
	f.ledger.Credit(bob, 5*oneSol)

	_, err := f.eng.TogglePause(alice)
	assert.ErrorIs(t, err, ErrUnauthorized)

	paused, err := f.eng.TogglePause(deployer)
	require.NoError(t, err)
	assert.True(t, paused)

	_, err = f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: alice})
	assert.ErrorIs(t, err, ErrTradingNotActive)

	_, _, err = f.eng.CreateToken(bob, CreateTokenParams{
		Name: "Paused", Symbol: "PSD", Decimals: 6, InitialSupply: 1000,
	})
	assert.ErrorIs(t, err, ErrTradingNotActive)

	paused, err = f.eng.TogglePause(deployer)
	require.NoError(t, err)
	assert.False(t, paused)

	_, err = f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: alice})
	require.NoError(t, err)
}

func TestWithdrawPlatformFees(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	tokenID := f.createToken(t, alice)
	f.ledger.Credit(bob, 5*oneSol)

	_, err := f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: alice})
	require.NoError(t, err)

	err = f.eng.WithdrawPlatformFees(alice, 1)
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = f.eng.WithdrawPlatformFees(deployer, 26_000_000)
	assert.ErrorIs(t, err, ErrInsufficientSolBalance)

	require.NoError(t, f.eng.WithdrawPlatformFees(deployer, 25_000_000))
	// Treasury defaults to the deployer.
	assert.Equal(t, uint64(25_000_000), f.ledger.CurrencyBalance(deployer))
	assert.Equal(t, uint64(0), f.ledger.CurrencyBalance(chain.FeeVaultAddress()))
}

// pushToThreshold seeds the curve record and the ledger so the token sits
// exactly at the launch threshold.
func (f *fixture) pushToThreshold(t *testing.T, tokenID, threshold uint64) {
	t.Helper()
	bc, err := f.eng.Curve(tokenID)
	require.NoError(t, err)
	require.LessOrEqual(t, bc.RealSolReserves, threshold)
	f.ledger.Credit(chain.CurveAddress(tokenID), threshold-bc.RealSolReserves)
	require.NoError(t, f.eng.db.Model(&models.BondingCurve{}).
		Where("token_id = ?", tokenID).
		UpdateColumn("real_sol_reserves", threshold).Error)
}

func TestLaunchToDex(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	_, err := f.eng.UpdatePlatformSettings(deployer, DefaultPlatformFeeRate, MinLaunchThreshold)
	require.NoError(t, err)

	tokenID := f.createToken(t, alice)
	f.ledger.Credit(bob, 5*oneSol)
	_, err = f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: alice})
	require.NoError(t, err)

	// Threshold not met yet.
	f.clock.Advance(LaunchCooldown)
	_, err = f.eng.LaunchToDex(alice, tokenID, 2)
	assert.ErrorIs(t, err, ErrLaunchThresholdNotMet)

	f.pushToThreshold(t, tokenID, MinLaunchThreshold)

	// Wrong sequence number.
	_, err = f.eng.LaunchToDex(alice, tokenID, 99)
	assert.ErrorIs(t, err, ErrInvalidTransactionID)

	creatorBefore := f.ledger.CurrencyBalance(alice)
	vaultBefore := f.ledger.CurrencyBalance(chain.FeeVaultAddress())

	record, err := f.eng.LaunchToDex(alice, tokenID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.TradeKindLaunch, record.Kind)
	assert.Equal(t, uint64(MinLaunchThreshold), record.SolAmount)

	// 80% to the creator for liquidity, 20% platform launch fee.
	liquidity := uint64(MinLaunchThreshold) * 8 / 10
	launchFee := uint64(MinLaunchThreshold) - liquidity
	assert.Equal(t, launchFee, record.PlatformFee)
	assert.Equal(t, creatorBefore+liquidity, f.ledger.CurrencyBalance(alice))
	assert.Equal(t, vaultBefore+launchFee, f.ledger.CurrencyBalance(chain.FeeVaultAddress()))
	assert.Equal(t, uint64(0), f.ledger.CurrencyBalance(chain.CurveAddress(tokenID)))

	token, err := f.eng.Token(tokenID)
	require.NoError(t, err)
	assert.True(t, token.LaunchedToDex)
	assert.NotNil(t, token.LaunchedAt)
	assert.False(t, token.TradingActive)
	assert.Equal(t, uint64(2), token.TransactionCount)

	bc, err := f.eng.Curve(tokenID)
	require.NoError(t, err)
	assert.False(t, bc.Active)

	// Post-launch trading and re-launch are rejected as already launched.
	_, err = f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: alice})
	assert.ErrorIs(t, err, ErrTokenAlreadyLaunched)
	_, err = f.eng.SellToken(bob, SellParams{TokenID: tokenID, TokenAmount: 1, TokenCreator: alice})
	assert.ErrorIs(t, err, ErrTokenAlreadyLaunched)
	_, err = f.eng.LaunchToDex(alice, tokenID, 3)
	assert.ErrorIs(t, err, ErrTokenAlreadyLaunched)
}

func TestLaunchCooldown(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	_, err := f.eng.UpdatePlatformSettings(deployer, DefaultPlatformFeeRate, MinLaunchThreshold)
	require.NoError(t, err)

	tokenID := f.createToken(t, alice)
	f.pushToThreshold(t, tokenID, MinLaunchThreshold)

	_, err = f.eng.LaunchToDex(alice, tokenID, 1)
	assert.ErrorIs(t, err, ErrLaunchCooldownActive)

	f.clock.Advance(LaunchCooldown - time.Second)
	_, err = f.eng.LaunchToDex(alice, tokenID, 1)
	assert.ErrorIs(t, err, ErrLaunchCooldownActive)

	f.clock.Advance(time.Second)
	_, err = f.eng.LaunchToDex(alice, tokenID, 1)
	require.NoError(t, err)
}

func TestDeleteToken(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	tokenID := f.createToken(t, alice)

	err := f.eng.DeleteToken(bob, tokenID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, f.eng.DeleteToken(alice, tokenID))
	_, err = f.eng.Token(tokenID)
	assert.ErrorIs(t, err, ErrTokenNotFound)
	_, err = f.eng.Curve(tokenID)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestDeleteTokenWithHolders(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	tokenID := f.createToken(t, alice)
	f.ledger.Credit(bob, 5*oneSol)

	_, err := f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: alice})
	require.NoError(t, err)

	err = f.eng.DeleteToken(alice, tokenID)
	assert.ErrorIs(t, err, ErrTradingNotActive)
}

func TestLaunchProgress(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	_, err := f.eng.UpdatePlatformSettings(deployer, DefaultPlatformFeeRate, MinLaunchThreshold)
	require.NoError(t, err)

	tokenID := f.createToken(t, alice)

	progress, err := f.eng.LaunchProgress(tokenID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), progress)

	f.pushToThreshold(t, tokenID, MinLaunchThreshold/2)
	progress, err = f.eng.LaunchProgress(tokenID)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), progress)

	_, err = f.eng.LaunchProgress(99)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestReserveConservation(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	tokenID := f.createToken(t, alice)
	f.ledger.Credit(bob, 50*oneSol)
	f.ledger.Credit("carol-wallet", 50*oneSol)

	token, err := f.eng.Token(tokenID)
	require.NoError(t, err)

	check := func() {
		bc, err := f.eng.Curve(tokenID)
		require.NoError(t, err)
		// The curve account's native balance always equals the real SOL
		// reserves on record.
		assert.Equal(t, bc.RealSolReserves, f.ledger.CurrencyBalance(chain.CurveAddress(tokenID)))

		info, err := f.eng.Token(tokenID)
		require.NoError(t, err)
		held := f.ledger.TokenBalance(bob, token.Mint) + f.ledger.TokenBalance("carol-wallet", token.Mint)
		assert.Equal(t, info.CirculatingSupply, held)
		assert.Equal(t, uint64(MaxTokenSupply), bc.RealTokenReserves+info.CirculatingSupply)
	}

	for i := 0; i < 5; i++ {
		_, err := f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: 2 * oneSol, TokenCreator: alice})
		require.NoError(t, err)
		check()

		_, err = f.eng.BuyToken("carol-wallet", BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: alice})
		require.NoError(t, err)
		check()

		held := f.ledger.TokenBalance(bob, token.Mint)
		_, err = f.eng.SellToken(bob, SellParams{TokenID: tokenID, TokenAmount: held / 3, TokenCreator: alice})
		require.NoError(t, err)
		check()
	}

	// Sequence numbers are strictly increasing with no gaps.
	var records []models.TradeRecord
	require.NoError(t, f.eng.db.Where("token_id = ?", tokenID).Order("transaction_id").Find(&records).Error)
	require.Len(t, records, 15)
	for i, record := range records {
		assert.Equal(t, uint64(i+1), record.TransactionID)
	}
}

func TestNotifierReceivesCommittedTrades(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	tokenID := f.createToken(t, alice)
	f.ledger.Credit(bob, 5*oneSol)

	_, err := f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: oneSol, TokenCreator: alice})
	require.NoError(t, err)

	// Rejected trades emit nothing.
	_, err = f.eng.BuyToken(bob, BuyParams{TokenID: tokenID, SolAmount: 1, TokenCreator: alice})
	assert.ErrorIs(t, err, ErrPurchaseAmountTooSmall)

	require.Len(t, f.events, 1)
	event := f.events[0]
	assert.Equal(t, tokenID, event.TokenID)
	assert.Equal(t, models.TradeKindBuy, event.Kind)
	assert.Equal(t, bob, event.User)
	assert.NotEmpty(t, event.RecordAddress)
}
