package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"skillswap/config"
	"skillswap/models"
	"skillswap/services/ledger"
	"skillswap/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// StripeWebhook handles POST /api/webhooks/stripe, the payment-gateway event
// source. A completed checkout credits the purchased tokens; a failed payment
// is only logged. Event IDs are deduplicated so gateway retries stay safe on
// top of the ledger's own idempotency key.
func StripeWebhook(c *gin.Context) {
	logger := utils.GetLogger()

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 65536))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid signature", err.Error())
		return
	}

	// First delivery wins; replays of the same event are acknowledged and
	// dropped.
	seenKey := "stripe_event:" + event.ID
	fresh, err := utils.GetCacheClient().SetNX(c.Request.Context(), seenKey, 1, 72*time.Hour).Result()
	if err != nil {
		logger.Error("webhook dedup check failed", zap.Error(err))
	} else if !fresh {
		c.JSON(http.StatusOK, gin.H{"status": "duplicate ignored"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid event payload", err.Error())
			return
		}
		userID := session.Metadata["user_id"]
		tokens, perr := strconv.ParseInt(session.Metadata["tokens"], 10, 64)
		if userID == "" || perr != nil || tokens <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid event payload", "missing user_id or tokens metadata")
			return
		}

		if _, err := ledgerService.Credit(c.Request.Context(), ledger.EntryRequest{
			UserID:         userID,
			Amount:         tokens,
			Reason:         models.ReasonPurchase,
			IdempotencyKey: "purchase:" + event.ID,
		}); err != nil && err != ledger.ErrAlreadyApplied {
			// Ask the gateway to retry later.
			utils.RespondError(c, err)
			return
		}
		logger.Info("purchase credited",
			zap.String("userId", userID),
			zap.Int64("tokens", tokens),
			zap.String("eventId", event.ID),
		)

	case "payment_intent.payment_failed":
		logger.Warn("purchase failed", zap.String("eventId", event.ID))

	default:
		// Unhandled event types are acknowledged so Stripe stops resending.
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
