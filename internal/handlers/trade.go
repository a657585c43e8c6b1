package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"launchcontrol/internal/engine"
	"launchcontrol/internal/models"
	dbconfig "launchcontrol/pkg/config"
)

// BuyTokenRequest represents the request body for a buy
type BuyTokenRequest struct {
	Buyer        string `json:"buyer" binding:"required"`
	TokenID      uint64 `json:"token_id" binding:"required"`
	SolAmount    uint64 `json:"sol_amount" binding:"required"`
	TokenCreator string `json:"token_creator" binding:"required"`
	MinTokensOut uint64 `json:"min_tokens_out"`
}

// BuyToken executes a buy along the bonding curve
func BuyToken(c *gin.Context) {
	var req BuyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := eng.BuyToken(req.Buyer, engine.BuyParams{
		TokenID:      req.TokenID,
		SolAmount:    req.SolAmount,
		TokenCreator: req.TokenCreator,
		MinTokensOut: req.MinTokensOut,
	})
	if err != nil {
		abortWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// SellTokenRequest represents the request body for a sell
type SellTokenRequest struct {
	Seller       string `json:"seller" binding:"required"`
	TokenID      uint64 `json:"token_id" binding:"required"`
	TokenAmount  uint64 `json:"token_amount" binding:"required"`
	TokenCreator string `json:"token_creator" binding:"required"`
	MinSolOut    uint64 `json:"min_sol_out"`
}

// SellToken executes a sell back into the bonding curve
func SellToken(c *gin.Context) {
	var req SellTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := eng.SellToken(req.Seller, engine.SellParams{
		TokenID:      req.TokenID,
		TokenAmount:  req.TokenAmount,
		TokenCreator: req.TokenCreator,
		MinSolOut:    req.MinSolOut,
	})
	if err != nil {
		abortWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// LaunchToDexRequest represents the request body for graduation
type LaunchToDexRequest struct {
	Launcher string `json:"launcher" binding:"required"`
	TokenID  uint64 `json:"token_id" binding:"required"`
	NextTxID uint64 `json:"next_tx_id" binding:"required"`
}

// LaunchToDex graduates a token off the bonding curve
func LaunchToDex(c *gin.Context) {
	var req LaunchToDexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := eng.LaunchToDex(req.Launcher, req.TokenID, req.NextTxID)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListTrades returns a paginated slice of trade records, optionally filtered
// by token or user.
func ListTrades(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("page_size", "20")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := dbconfig.DB.Model(&models.TradeRecord{})
	if tokenIDStr := c.Query("token_id"); tokenIDStr != "" {
		tokenID, err := strconv.ParseUint(tokenIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token_id format"})
			return
		}
		query = query.Where("token_id = ?", tokenID)
	}
	if user := c.Query("user"); user != "" {
		query = query.Where("\"user\" = ?", user)
	}
	if kind := c.Query("kind"); kind != "" {
		if kind != models.TradeKindBuy && kind != models.TradeKindSell && kind != models.TradeKindLaunch {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid kind, must be buy, sell or launch"})
			return
		}
		query = query.Where("kind = ?", kind)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	offset := (page - 1) * pageSize
	var trades []models.TradeRecord
	if err := query.Order("timestamp desc").Offset(offset).Limit(pageSize).Find(&trades).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(pageSize)))

	c.JSON(http.StatusOK, gin.H{
		"data": trades,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total_count": totalCount,
			"total_pages": totalPages,
			"has_next":    page < totalPages,
			"has_prev":    page > 1,
		},
	})
}
