package api

import (
	"errors"
	"fmt"
	"net/http"

	"fittracker/server/internal/service"

	"github.com/gin-gonic/gin"
)

// BillingHandler holds the billing service dependency.
type BillingHandler struct {
	billingService service.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

type CheckoutSessionRequest struct {
	PriceID string `json:"priceId"`
}

// CreateCheckoutSession starts a hosted subscription checkout on the plan
// the request selects and returns the session ID plus redirect URL. The
// customer email and name come from the authenticated coach, not the body.
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	// An empty body selects the configured default plan.
	var req CheckoutSessionRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
			return
		}
	}

	sess, err := h.billingService.CreateCheckoutSession(c.Request.Context(), coachID, req.PriceID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create checkout session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sess.ID, "url": sess.URL})
}

// SubscriptionSuccess confirms a completed checkout, identified by the
// session_id query parameter the success redirect carries, and marks the
// coach's account as paid.
func (h *BillingHandler) SubscriptionSuccess(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		abortWithError(c, http.StatusBadRequest, "session_id query parameter is required")
		return
	}

	user, err := h.billingService.ConfirmSubscription(c.Request.Context(), coachID, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrCheckoutIncomplete) {
			abortWithError(c, http.StatusPaymentRequired, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to confirm subscription")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}
