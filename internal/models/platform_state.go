package models

import (
	"time"
)

// PlatformState is the singleton platform registry. Exactly one row exists
// after initialization; every trade that collects a platform fee touches it.
type PlatformState struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	Initialized        bool      `gorm:"not null;default:false" json:"initialized"`
	TokenCount         uint64    `gorm:"not null;default:0" json:"token_count"`
	PlatformFeeRate    uint64    `gorm:"not null;default:250" json:"platform_fee_rate"` // basis points
	LaunchThreshold    uint64    `gorm:"not null" json:"launch_threshold"`              // lamports
	Authority          string    `gorm:"size:64;not null" json:"authority"`
	Treasury           string    `gorm:"size:64;not null" json:"treasury"`
	TotalFeesCollected uint64    `gorm:"not null;default:0" json:"total_fees_collected"`
	IsPaused           bool      `gorm:"not null;default:false" json:"is_paused"`
	InitializedAt      time.Time `json:"initialized_at"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PlatformState) TableName() string {
	return "platform_state"
}
