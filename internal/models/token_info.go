package models

import (
	"time"
)

// TokenInfo is the identity and lifecycle record of one issued token.
// TokenID is assigned from the platform counter at creation and never changes.
type TokenInfo struct {
	ID                   uint       `gorm:"primarykey" json:"id"`
	TokenID              uint64     `gorm:"uniqueIndex;not null" json:"token_id"`
	Mint                 string     `gorm:"size:64;uniqueIndex;not null" json:"mint"`
	Creator              string     `gorm:"size:64;not null;index" json:"creator"`
	Name                 string     `gorm:"size:32;not null" json:"name"`
	Symbol               string     `gorm:"size:8;not null" json:"symbol"`
	URI                  string     `gorm:"size:256" json:"uri"`
	Decimals             uint8      `gorm:"not null" json:"decimals"`
	TotalSupply          uint64     `gorm:"not null" json:"total_supply"`
	CirculatingSupply    uint64     `gorm:"not null;default:0" json:"circulating_supply"`
	LaunchedToDex        bool       `gorm:"not null;default:false" json:"launched_to_dex"`
	LaunchedAt           *time.Time `json:"launched_at"`
	TotalSolRaised       uint64     `gorm:"not null;default:0" json:"total_sol_raised"`
	HolderCount          uint64     `gorm:"not null;default:0" json:"holder_count"`
	TransactionCount     uint64     `gorm:"not null;default:0" json:"transaction_count"`
	TradingActive        bool       `gorm:"not null;default:true" json:"trading_active"`
	CreatorFeesCollected uint64     `gorm:"not null;default:0" json:"creator_fees_collected"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TokenInfo) TableName() string {
	return "token_info"
}
