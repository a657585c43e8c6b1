package models

import (
	"time"
)

// BondingCurve is the per-token reserve state. Created together with the
// token's TokenInfo, mutated by every trade, deactivated exactly once at
// launch. Reserve figures are retained after launch; Active flips to false
// and the funds themselves move out through the ledger.
type BondingCurve struct {
	ID                   uint      `gorm:"primarykey" json:"id"`
	TokenID              uint64    `gorm:"uniqueIndex;not null" json:"token_id"`
	VirtualSolReserves   uint64    `gorm:"not null" json:"virtual_sol_reserves"`
	VirtualTokenReserves uint64    `gorm:"not null" json:"virtual_token_reserves"`
	RealSolReserves      uint64    `gorm:"not null;default:0" json:"real_sol_reserves"`
	RealTokenReserves    uint64    `gorm:"not null" json:"real_token_reserves"`
	TotalSolVolume       uint64    `gorm:"not null;default:0" json:"total_sol_volume"`
	TotalTokenVolume     uint64    `gorm:"not null;default:0" json:"total_token_volume"`
	CurrentPrice         uint64    `gorm:"not null;default:0" json:"current_price"` // lamports per whole token
	MarketCap            uint64    `gorm:"not null;default:0" json:"market_cap"`
	Active               bool      `gorm:"not null;default:true" json:"active"`
	LastUpdated          time.Time `json:"last_updated"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BondingCurve) TableName() string {
	return "bonding_curves"
}
