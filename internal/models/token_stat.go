package models

import (
	"time"
)

// TokenStat is the worker-maintained trade aggregate per token. It is derived
// data: the consumer increments it per event and the cron job recomputes it
// from trade_records, so it can always be rebuilt.
type TokenStat struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	TokenID       uint64    `gorm:"uniqueIndex;not null" json:"token_id"`
	TradeCount    uint64    `gorm:"not null;default:0" json:"trade_count"`
	BuyVolumeSol  uint64    `gorm:"not null;default:0" json:"buy_volume_sol"`
	SellVolumeSol uint64    `gorm:"not null;default:0" json:"sell_volume_sol"`
	LastPrice     uint64    `gorm:"not null;default:0" json:"last_price"`
	LastTradeAt   time.Time `json:"last_trade_at"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TokenStat) TableName() string {
	return "token_stats"
}
