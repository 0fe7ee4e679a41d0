package handlers

import (
	"net/http"
	"time"

	"skillswap/services/booking"
	"skillswap/utils"

	"github.com/gin-gonic/gin"
)

var bookingService booking.BookingService

// SetBookingService wires the booking service used by the handlers.
func SetBookingService(svc booking.BookingService) {
	bookingService = svc
}

// CreateBooking handles POST /api/bookings.
func CreateBooking(c *gin.Context) {
	var input struct {
		TeacherID       string    `json:"teacherId" binding:"required"`
		StartTime       time.Time `json:"startTime" binding:"required"`
		DurationMinutes int       `json:"durationMinutes" binding:"required"`
		PriceTokens     int64     `json:"priceTokens"`
		IsSkillExchange bool      `json:"isSkillExchange"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := bookingService.Create(c.Request.Context(), booking.CreateRequest{
		TeacherID:       input.TeacherID,
		LearnerID:       c.GetString("userID"),
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
		PriceTokens:     input.PriceTokens,
		IsSkillExchange: input.IsSkillExchange,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// CancelBooking handles POST /api/bookings/:id/cancel.
func CancelBooking(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input)

	b, err := bookingService.Cancel(c.Request.Context(), c.Param("id"), c.GetString("userID"), input.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// JoinBooking handles POST /api/bookings/:id/join.
func JoinBooking(c *gin.Context) {
	result, err := bookingService.Join(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking":    result.Booking,
		"credential": result.Credential,
	})
}

// CompleteBooking handles POST /api/bookings/:id/complete (operator only).
func CompleteBooking(c *gin.Context) {
	b, err := bookingService.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// MarkBookingNoShow handles POST /api/bookings/:id/no-show (operator only).
func MarkBookingNoShow(c *gin.Context) {
	b, err := bookingService.MarkNoShow(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// RateBooking handles POST /api/bookings/:id/rate.
func RateBooking(c *gin.Context) {
	var input struct {
		Value  int    `json:"value" binding:"required"`
		Review string `json:"review"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := bookingService.Rate(c.Request.Context(), c.Param("id"), c.GetString("userID"), input.Value, input.Review)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBooking handles GET /api/bookings/:id.
func GetBooking(c *gin.Context) {
	b, err := bookingService.GetByID(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookings handles GET /api/bookings.
func ListBookings(c *gin.Context) {
	bookings, err := bookingService.ListForUser(c.Request.Context(), c.GetString("userID"), 100)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
