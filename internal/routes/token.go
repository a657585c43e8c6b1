package routes

import (
	"launchcontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupTokenRoutes sets up all routes related to token management
func SetupTokenRoutes(r *gin.Engine) {
	token := r.Group("/tokens")
	{
		token.POST("", handlers.CreateToken)
		token.GET("", handlers.ListTokens)
		token.GET("/:id", handlers.GetToken)
		token.GET("/:id/curve", handlers.GetBondingCurve)
		token.GET("/:id/progress", handlers.GetLaunchProgress)
		token.GET("/:id/stats", handlers.GetTokenStat)
		token.DELETE("/:id", handlers.DeleteToken)
	}
}
