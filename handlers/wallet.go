package handlers

import (
	"net/http"
	"time"

	"skillswap/models"
	"skillswap/services/ledger"
	"skillswap/utils"

	"github.com/gin-gonic/gin"
)

var ledgerService ledger.Service

// SetLedgerService wires the ledger service used by the wallet handlers.
func SetLedgerService(svc ledger.Service) {
	ledgerService = svc
}

// OpenWallet handles POST /api/wallet: creates the caller's token account
// and records the welcome bonus as its first ledger entry.
func OpenWallet(c *gin.Context) {
	acc, err := ledgerService.OpenAccount(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, acc)
}

// GetWallet handles GET /api/wallet.
func GetWallet(c *gin.Context) {
	acc, err := ledgerService.GetAccount(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

// GetWalletHistory handles GET /api/wallet/history with optional reason,
// direction, from and to query filters.
func GetWalletHistory(c *gin.Context) {
	filter := models.LedgerFilter{
		Reason:    c.Query("reason"),
		Direction: c.Query("direction"),
		Limit:     200,
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "from must be RFC3339")
			return
		}
		filter.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "to must be RFC3339")
			return
		}
		filter.To = t
	}

	entries, err := ledgerService.History(c.Request.Context(), c.GetString("userID"), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
