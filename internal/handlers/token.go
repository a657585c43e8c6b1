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

// CreateTokenRequest represents the request body for token creation
type CreateTokenRequest struct {
	Creator       string `json:"creator" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Symbol        string `json:"symbol" binding:"required"`
	URI           string `json:"uri"`
	Decimals      uint8  `json:"decimals"`
	InitialSupply uint64 `json:"initial_supply" binding:"required"`
}

// CreateToken issues a new token and seeds its bonding curve
func CreateToken(c *gin.Context) {
	var req CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, bc, err := eng.CreateToken(req.Creator, engine.CreateTokenParams{
		Name:          req.Name,
		Symbol:        req.Symbol,
		URI:           req.URI,
		Decimals:      req.Decimals,
		InitialSupply: req.InitialSupply,
	})
	if err != nil {
		abortWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"curve": bc,
	})
}

// ListTokens returns a paginated, sorted slice of tokens
func ListTokens(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("page_size", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	orderField := c.DefaultQuery("order_field", "created_at")
	orderType := c.DefaultQuery("order_type", "desc")

	// Whitelist allowed fields for security
	allowedFields := map[string]bool{
		"id":                true,
		"token_id":          true,
		"name":              true,
		"symbol":            true,
		"total_supply":      true,
		"total_sol_raised":  true,
		"holder_count":      true,
		"transaction_count": true,
		"created_at":        true,
		"launched_at":       true,
	}

	if !allowedFields[orderField] {
		orderField = "created_at"
	}
	if orderType != "asc" && orderType != "desc" {
		orderType = "desc"
	}

	orderClause := orderField + " " + orderType
	offset := (page - 1) * pageSize

	query := dbconfig.DB.Model(&models.TokenInfo{})
	if creator := c.Query("creator"); creator != "" {
		query = query.Where("creator = ?", creator)
	}
	if launched := c.Query("launched"); launched != "" {
		query = query.Where("launched_to_dex = ?", launched == "true")
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var tokens []models.TokenInfo
	if err := query.Order(orderClause).Offset(offset).Limit(pageSize).Find(&tokens).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(pageSize)))

	c.JSON(http.StatusOK, gin.H{
		"data": tokens,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total_count": totalCount,
			"total_pages": totalPages,
			"has_next":    page < totalPages,
			"has_prev":    page > 1,
		},
		"sorting": gin.H{
			"order_field": orderField,
			"order_type":  orderType,
		},
	})
}

func tokenIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token ID format"})
		return 0, false
	}
	return id, true
}

// GetToken returns a specific token by its token ID
func GetToken(c *gin.Context) {
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}

	token, err := eng.Token(id)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// GetBondingCurve returns a token's reserve state
func GetBondingCurve(c *gin.Context) {
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}

	bc, err := eng.Curve(id)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, bc)
}

// GetLaunchProgress returns how close a token is to graduation
func GetLaunchProgress(c *gin.Context) {
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}

	progress, err := eng.LaunchProgress(id)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token_id": id, "progress": progress})
}

// GetTokenStat returns the aggregated trade statistics for a token
func GetTokenStat(c *gin.Context) {
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}

	var stat models.TokenStat
	if err := dbconfig.DB.Where("token_id = ?", id).First(&stat).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Token stat not found"})
		return
	}
	c.JSON(http.StatusOK, stat)
}

// DeleteTokenRequest represents the request body for token deletion
type DeleteTokenRequest struct {
	Creator string `json:"creator" binding:"required"`
}

// DeleteToken removes an unlaunched token with no circulating supply
func DeleteToken(c *gin.Context) {
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}

	var req DeleteTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := eng.DeleteToken(req.Creator, id); err != nil {
		abortWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Token deleted successfully"})
}
