package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"casabook/server/internal/payments"
)

// The two payment-proxy endpoints keep the processor's secret key on the
// server: the client only ever sees a client secret for one intent.

type createIntentRequest struct {
	Amount     float64 `json:"amount"`
	PropertyID string  `json:"propertyId"`
	OwnerID    string  `json:"ownerId"`
}

// CreatePaymentIntent creates an escrow payment intent. Amount arrives
// in major currency units; when an owner payout account is given the
// intent routes funds there with the platform fee retained.
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var req createIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount and propertyId are required"})
		return
	}
	if req.Amount <= 0 || req.PropertyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount and propertyId are required"})
		return
	}
	if _, err := strconv.Atoi(req.PropertyID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid propertyId"})
		return
	}

	// JS clients stringify a missing owner as "undefined"; treat it as
	// absent so the intent is created without a destination.
	ownerID := strings.TrimSpace(req.OwnerID)
	if ownerID == "undefined" || ownerID == "null" {
		ownerID = ""
	}

	intent, err := h.payments.CreateIntent(c.Request.Context(), payments.IntentParams{
		Amount:         req.Amount,
		Currency:       h.currency,
		PropertyID:     req.PropertyID,
		OwnerAccountID: ownerID,
		FeeRate:        h.feeRate,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to create payment intent")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clientSecret":    intent.ClientSecret,
		"paymentIntentId": intent.ID,
	})
}

// CheckTransfers runs one payout scan over pending reservations; wired
// both to the in-process scheduler and to this endpoint for external
// cron triggers.
func (h *Handler) CheckTransfers(c *gin.Context) {
	report, err := h.payouts.Run(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Payout scan failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": report.Message(),
		"report":  report,
	})
}
