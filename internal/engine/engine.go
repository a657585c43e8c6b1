// Package engine implements the bonding-curve launchpad state machine:
// token creation, buy/sell pricing with fee settlement, and the
// threshold-gated graduation to external liquidity. Every operation runs as
// one database transaction and either fully commits or leaves no trace.
package engine

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"launchcontrol/internal/models"
	"launchcontrol/pkg/chain"
)

// Platform defaults and hard limits, in lamports / basis points.
const (
	DefaultPlatformFeeRate = 250 // 2.5%
	DefaultCreatorFeeRate  = 100 // 1%
	DefaultLaunchThreshold = 1_000_000_000_000
	MinLaunchThreshold     = 100_000_000_000
	MaxPlatformFeeRate     = 1000
	FeeDenominator         = 10000

	MinTokenPurchase = 100_000_000    // 0.1 SOL per trade
	MaxTokenPurchase = 10_000_000_000 // 10 SOL per trade

	TokenNameMaxLen   = 32
	TokenSymbolMaxLen = 8
	TokenURIMaxLen    = 256
	MaxDecimals       = 9
	MaxTokenSupply    = 1_000_000_000_000_000

	// Virtual reserve constants establishing the initial price point.
	// Deliberately independent of the token's initial supply.
	InitialVirtualSolReserves   = 30_000_000_000
	InitialVirtualTokenReserves = 1_073_000_000_000_000

	// Share of real reserves that seeds external liquidity at launch;
	// the remainder is the platform launch fee.
	LaunchLiquidityBps = 8000
)

// LaunchCooldown is the minimum time a token must exist before it may
// graduate, measured from creation.
const LaunchCooldown = time.Hour

// TradeEvent is emitted after a trade or launch commits.
type TradeEvent struct {
	TokenID       uint64    `json:"token_id"`
	TransactionID uint64    `json:"transaction_id"`
	User          string    `json:"user"`
	Kind          string    `json:"kind"`
	SolAmount     uint64    `json:"sol_amount"`
	TokenAmount   uint64    `json:"token_amount"`
	Price         uint64    `json:"price"`
	PlatformFee   uint64    `json:"platform_fee"`
	CreatorFee    uint64    `json:"creator_fee"`
	RecordAddress string    `json:"record_address"`
	Timestamp     time.Time `json:"timestamp"`
}

// Engine executes launchpad operations against the record store and the
// ledger. Per-token mutexes serialize operations on the same token; the
// enclosing database transaction makes each operation all-or-nothing.
type Engine struct {
	db             *gorm.DB
	ledger         chain.Ledger
	creatorFeeRate uint64
	now            func() time.Time
	notify         func(TradeEvent)

	platformMu sync.Mutex
	tokenMu    sync.Map // token id -> *sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithNotifier registers a callback invoked after each committed trade.
func WithNotifier(notify func(TradeEvent)) Option {
	return func(e *Engine) { e.notify = notify }
}

// WithCreatorFeeRate overrides the creator fee share in basis points.
func WithCreatorFeeRate(bps uint64) Option {
	return func(e *Engine) { e.creatorFeeRate = bps }
}

func New(db *gorm.DB, ledger chain.Ledger, opts ...Option) *Engine {
	e := &Engine{
		db:             db,
		ledger:         ledger,
		creatorFeeRate: DefaultCreatorFeeRate,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreatorFeeRate reports the configured creator fee share in basis points.
func (e *Engine) CreatorFeeRate() uint64 {
	return e.creatorFeeRate
}

// lockToken serializes operations on one token's record tuple.
func (e *Engine) lockToken(tokenID uint64) func() {
	v, _ := e.tokenMu.LoadOrStore(tokenID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (e *Engine) emit(event TradeEvent) {
	if e.notify != nil {
		e.notify(event)
	}
}

func loadState(tx *gorm.DB) (*models.PlatformState, error) {
	var state models.PlatformState
	if err := tx.First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}
	if !state.Initialized {
		return nil, ErrNotInitialized
	}
	return &state, nil
}

func loadToken(tx *gorm.DB, tokenID uint64) (*models.TokenInfo, error) {
	var token models.TokenInfo
	if err := tx.Where("token_id = ?", tokenID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func loadCurve(tx *gorm.DB, tokenID uint64) (*models.BondingCurve, error) {
	var bc models.BondingCurve
	if err := tx.Where("token_id = ?", tokenID).First(&bc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &bc, nil
}

// addFeesCollected bumps the hot platform counter with an in-database
// increment so concurrent trades on different tokens never lose an update.
func addFeesCollected(tx *gorm.DB, amount uint64) error {
	if amount == 0 {
		return nil
	}
	return tx.Model(&models.PlatformState{}).
		Where("initialized = ?", true).
		UpdateColumn("total_fees_collected", gorm.Expr("total_fees_collected + ?", amount)).Error
}

// commitProof is the 64-byte opaque reference stored with every trade
// record, binding it to the committing (user, token, sequence, time) tuple.
func commitProof(user string, tokenID, txID uint64, ts time.Time) string {
	sum := sha512.Sum512([]byte(fmt.Sprintf("%s|%d|%d|%d", user, tokenID, txID, ts.UnixNano())))
	return hex.EncodeToString(sum[:])
}
