package routes

import (
	"launchcontrol/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPlatformRoutes sets up all routes related to platform administration
func SetupPlatformRoutes(r *gin.Engine) {
	platform := r.Group("/platform")
	{
		platform.POST("/initialize", handlers.InitializePlatform)
		platform.GET("/state", handlers.GetPlatformState)
		platform.PUT("/settings", handlers.UpdatePlatformSettings)
		platform.PUT("/authority", handlers.UpdateAuthority)
		platform.PUT("/treasury", handlers.UpdateTreasury)
		platform.POST("/toggle-pause", handlers.TogglePause)
		platform.POST("/withdraw-fees", handlers.WithdrawPlatformFees)
	}
}
