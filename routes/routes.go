package routes

import (
	"skillswap/handlers"
	"skillswap/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every endpoint group on the router.
func RegisterRoutes(r *gin.Engine) {
	RegisterBookingRoutes(r)

	wallet := r.Group("/api/wallet", middleware.JWTAuthMiddleware())
	{
		wallet.POST("", handlers.OpenWallet)
		wallet.GET("", handlers.GetWallet)
		wallet.GET("/history", handlers.GetWalletHistory)
	}

	availability := r.Group("/api/availability")
	{
		availability.PUT("", middleware.JWTAuthMiddleware(), handlers.SetAvailability)
		availability.GET("/:teacherID", handlers.GetAvailability)
	}

	webhooks := r.Group("/api/webhooks")
	{
		webhooks.POST("/stripe", handlers.StripeWebhook)
	}
}
