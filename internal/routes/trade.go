package routes

import (
	"launchcontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupTradeRoutes sets up all routes related to trading
func SetupTradeRoutes(r *gin.Engine) {
	trade := r.Group("/trade")
	{
		trade.POST("/buy", handlers.BuyToken)
		trade.POST("/sell", handlers.SellToken)
		trade.POST("/launch", handlers.LaunchToDex)
		trade.GET("/records", handlers.ListTrades)
		trade.POST("/simulate-buy", handlers.SimulateBuyHandler)
		trade.POST("/simulate-sell", handlers.SimulateSellHandler)
	}
}
