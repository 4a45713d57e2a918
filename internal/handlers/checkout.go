package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiendamasiva/storefront-service/internal/service"
)

type quickPurchaseRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
	// UserID lets an admin record an over-the-counter sale against another
	// account. Ignored for non-admin sessions.
	UserID int64 `json:"user_id"`
}

// Checkout converts the session cart into a persisted order. On success
// the cart and coupon are gone; on any failure they survive for a retry.
func (h *Handlers) Checkout(c *gin.Context) {
	state := h.state(c)
	result, err := h.checkout.Confirm(c.Request.Context(), state)

	// The session mirrors whatever the sequencer decided, success or not.
	if saveErr := h.saveSession(c); saveErr != nil {
		handleError(c, saveErr)
		return
	}

	if err != nil {
		h.respondCheckoutFailure(c, result, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// QuickPurchase buys a single product directly, bypassing the cart.
func (h *Handlers) QuickPurchase(c *gin.Context) {
	var req quickPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id and quantity are required"})
		return
	}

	state := h.state(c)
	buyerID := state.UserID
	if req.UserID != 0 && state.IsAdmin() {
		buyerID = req.UserID
	}

	result, err := h.checkout.QuickPurchase(c.Request.Context(), buyerID, req.ProductID, req.Quantity)
	if err != nil {
		h.respondCheckoutFailure(c, result, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// respondCheckoutFailure reports a failed attempt. The status code comes
// from the error; the outcome field lets clients tell a pre-write
// rejection from a rolled-back transaction.
func (h *Handlers) respondCheckoutFailure(c *gin.Context, result *service.CheckoutResult, err error) {
	status, body := errorResponse(err)
	if result != nil {
		body["outcome"] = result.Outcome
	}
	c.JSON(status, body)
}
