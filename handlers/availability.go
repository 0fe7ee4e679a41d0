package handlers

import (
	"net/http"
	"time"

	"skillswap/models"
	"skillswap/services/availability"
	"skillswap/utils"

	"github.com/gin-gonic/gin"
)

var availabilityService availability.Service

// SetAvailabilityService wires the availability service used by the handlers.
func SetAvailabilityService(svc availability.Service) {
	availabilityService = svc
}

// SetAvailability handles PUT /api/availability: a teacher declares their
// bookable windows.
func SetAvailability(c *gin.Context) {
	var input struct {
		Windows []models.AvailabilityWindow `json:"windows" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := availabilityService.SetWindows(c.Request.Context(), c.GetString("userID"), input.Windows); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "availability updated"})
}

// GetAvailability handles GET /api/availability/:teacherID. Without a date
// query it returns the raw declared windows; with ?date=2006-01-02 it returns
// the single window governing that date, override rules applied.
func GetAvailability(c *gin.Context) {
	teacherID := c.Param("teacherID")

	if date := c.Query("date"); date != "" {
		at, err := time.Parse("2006-01-02", date)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "date must be formatted as 2006-01-02")
			return
		}
		window, err := availabilityService.ResolveForDate(c.Request.Context(), teacherID, at)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"date": date, "window": window})
		return
	}

	windows, err := availabilityService.WindowsForTeacher(c.Request.Context(), teacherID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"windows": windows})
}
