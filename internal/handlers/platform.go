package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// InitializePlatformRequest represents the request body for platform initialization
type InitializePlatformRequest struct {
	Deployer string `json:"deployer" binding:"required"`
}

// InitializePlatform creates the platform state with default settings.
// The deployer becomes both authority and treasury.
func InitializePlatform(c *gin.Context) {
	var req InitializePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := eng.Initialize(req.Deployer)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, state)
}

// GetPlatformState returns the platform state record
func GetPlatformState(c *gin.Context) {
	state, err := eng.State()
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// UpdatePlatformSettingsRequest represents the request body for settings updates
type UpdatePlatformSettingsRequest struct {
	Authority       string `json:"authority" binding:"required"`
	FeeRate         uint64 `json:"fee_rate"`
	LaunchThreshold uint64 `json:"launch_threshold" binding:"required"`
}

// UpdatePlatformSettings updates the fee rate and launch threshold together
func UpdatePlatformSettings(c *gin.Context) {
	var req UpdatePlatformSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := eng.UpdatePlatformSettings(req.Authority, req.FeeRate, req.LaunchThreshold)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// UpdateAuthorityRequest represents the request body for authority transfer
type UpdateAuthorityRequest struct {
	Authority    string `json:"authority" binding:"required"`
	NewAuthority string `json:"new_authority" binding:"required"`
}

// UpdateAuthority transfers platform control to a new authority
func UpdateAuthority(c *gin.Context) {
	var req UpdateAuthorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := eng.UpdateAuthority(req.Authority, req.NewAuthority); err != nil {
		abortWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Authority updated successfully"})
}

// UpdateTreasuryRequest represents the request body for treasury updates
type UpdateTreasuryRequest struct {
	Authority   string `json:"authority" binding:"required"`
	NewTreasury string `json:"new_treasury" binding:"required"`
}

// UpdateTreasury changes the fee withdrawal destination
func UpdateTreasury(c *gin.Context) {
	var req UpdateTreasuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := eng.UpdateTreasury(req.Authority, req.NewTreasury); err != nil {
		abortWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Treasury updated successfully"})
}

// TogglePauseRequest represents the request body for the emergency pause
type TogglePauseRequest struct {
	Authority string `json:"authority" binding:"required"`
}

// TogglePause flips the emergency pause flag
func TogglePause(c *gin.Context) {
	var req TogglePauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paused, err := eng.TogglePause(req.Authority)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paused": paused})
}

// WithdrawFeesRequest represents the request body for fee withdrawal
type WithdrawFeesRequest struct {
	Authority string `json:"authority" binding:"required"`
	Amount    uint64 `json:"amount" binding:"required"`
}

// WithdrawPlatformFees moves collected fees from the fee vault to the treasury
func WithdrawPlatformFees(c *gin.Context) {
	var req WithdrawFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := eng.WithdrawPlatformFees(req.Authority, req.Amount); err != nil {
		abortWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fees withdrawn successfully", "amount": req.Amount})
}
