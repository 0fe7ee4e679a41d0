package handlers

import (
	"net/http"

	"skillswap/services/summary"
	"skillswap/utils"

	"github.com/gin-gonic/gin"
)

var summaryService summary.Service

// SetSummaryService wires the summary pipeline used by the handlers.
func SetSummaryService(svc summary.Service) {
	summaryService = svc
}

// RequestSummary handles POST /api/bookings/:id/summary.
func RequestSummary(c *gin.Context) {
	var input struct {
		Transcript string `json:"transcript"`
	}
	_ = c.ShouldBindJSON(&input)

	// Only participants may ask for a report on their session.
	if _, err := bookingService.GetByID(c.Request.Context(), c.Param("id"), c.GetString("userID")); err != nil {
		utils.RespondError(c, err)
		return
	}

	if err := summaryService.Request(c.Request.Context(), c.Param("id"), input.Transcript); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "summary generation queued"})
}

// GetSummary handles GET /api/bookings/:id/summary.
func GetSummary(c *gin.Context) {
	b, err := bookingService.GetByID(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if b.Summary == nil {
		utils.JSONError(c, http.StatusNotFound, "summary not ready", "no summary has been generated for this session yet")
		return
	}
	c.JSON(http.StatusOK, b.Summary)
}
