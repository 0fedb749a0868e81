package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/services"
)

type PaymentHandler struct {
	payments services.PaymentService
}

func NewPaymentHandler(payments services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type initiateRequest struct {
	PermitID int `json:"permit_id" binding:"required"`
}

// @Summary      Initiate a permit payment
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        request  body      initiateRequest  true  "Permit to pay for"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Failure      502      {object}  map[string]string
// @Router       /payments/initiate [post]
func (h *PaymentHandler) Initiate(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req initiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authURL, err := h.payments.Initiate(c.Request.Context(), ownerID, req.PermitID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPermitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Permit not found"})
		case errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Permit is not awaiting payment"})
		case errors.Is(err, services.ErrGatewayError):
			// permit state is untouched; the citizen may retry
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable, please retry"})
		default:
			log.Printf("[payments][initiate] service error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate payment"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"authorization_url": authURL})
}

// @Summary      Gateway webhook
// @Description  Gateway-originated; authenticated by HMAC signature, not a session
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable body"})
		return
	}

	signature := c.GetHeader("X-Paystack-Signature")
	if signature == "" {
		signature = c.GetHeader("X-Signature")
	}
	if err := h.payments.VerifyWebhook(rawBody, signature); err != nil {
		// discarded, never processed; the gateway gets no retry trigger
		// from us beyond the status code
		log.Printf("[payments][webhook] signature mismatch from %s", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	if err := h.payments.HandleEvent(rawBody); err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event"})
			return
		}
		log.Printf("[payments][webhook] handle event failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
