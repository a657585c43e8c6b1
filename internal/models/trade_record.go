package models

import (
	"time"
)

// Trade kinds.
const (
	TradeKindBuy    = "buy"
	TradeKindSell   = "sell"
	TradeKindLaunch = "launch"
)

// TradeRecord is the append-only audit record of one executed buy, sell or
// launch. Keyed by (user, token, per-token sequence number); never mutated
// after creation.
type TradeRecord struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	TransactionID uint64    `gorm:"not null;uniqueIndex:idx_trade_user_token_seq,priority:3" json:"transaction_id"`
	TokenID       uint64    `gorm:"not null;index;uniqueIndex:idx_trade_user_token_seq,priority:2" json:"token_id"`
	User          string    `gorm:"size:64;not null;uniqueIndex:idx_trade_user_token_seq,priority:1" json:"user"`
	Kind          string    `gorm:"size:8;not null" json:"kind"`
	SolAmount     uint64    `gorm:"not null" json:"sol_amount"`
	TokenAmount   uint64    `gorm:"not null" json:"token_amount"`
	Price         uint64    `gorm:"not null" json:"price"`
	PlatformFee   uint64    `gorm:"not null" json:"platform_fee"`
	CreatorFee    uint64    `gorm:"not null" json:"creator_fee"`
	Timestamp     time.Time `gorm:"not null" json:"timestamp"`
	Signature     string    `gorm:"size:128;not null" json:"signature"` // hex commit proof, 64 bytes
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TradeRecord) TableName() string {
	return "trade_records"
}
