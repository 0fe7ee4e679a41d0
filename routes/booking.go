package routes

import (
	"skillswap/handlers"
	"skillswap/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the session lifecycle.
func RegisterBookingRoutes(r *gin.Engine) {
	booking := r.Group("/api/bookings", middleware.JWTAuthMiddleware())
	{
		booking.POST("", handlers.CreateBooking)
		booking.GET("", handlers.ListBookings)
		booking.GET("/:id", handlers.GetBooking)
		booking.POST("/:id/cancel", handlers.CancelBooking)
		booking.POST("/:id/join", handlers.JoinBooking)
		booking.POST("/:id/rate", handlers.RateBooking)
		booking.POST("/:id/summary", handlers.RequestSummary)
		booking.GET("/:id/summary", handlers.GetSummary)
	}

	// Collaborator-facing status operations.
	operator := r.Group("/api/bookings", middleware.OperatorAuthMiddleware())
	{
		operator.POST("/:id/complete", handlers.CompleteBooking)
		operator.POST("/:id/no-show", handlers.MarkBookingNoShow)
	}
}
