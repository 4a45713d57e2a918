package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

type couponRequest struct {
	Code string `json:"code" binding:"required"`
}

// ViewCart returns the cart lines and server-computed totals.
func (h *Handlers) ViewCart(c *gin.Context) {
	state := h.state(c)
	c.JSON(http.StatusOK, gin.H{
		"items":  state.Cart,
		"totals": h.cart.Totals(state),
	})
}

// AddToCart appends a line item to the session cart.
func (h *Handlers) AddToCart(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id and quantity are required"})
		return
	}

	state := h.state(c)
	item, err := h.cart.Add(c.Request.Context(), state, req.ProductID, req.Quantity)
	if err != nil {
		handleError(c, err)
		return
	}

	if err := h.saveSession(c); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item":   item,
		"totals": h.cart.Totals(state),
	})
}

// ClearCart empties the cart. Clearing an empty cart succeeds.
func (h *Handlers) ClearCart(c *gin.Context) {
	state := h.state(c)
	h.cart.Clear(state)

	if err := h.saveSession(c); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totals": h.cart.Totals(state)})
}

// ApplyCoupon resolves a coupon code against the discount table. An
// unknown code clears any previously applied discount and reports 404.
func (h *Handlers) ApplyCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	state := h.state(c)
	rate, ok := h.coupons.Apply(state, req.Code)

	if err := h.saveSession(c); err != nil {
		handleError(c, err)
		return
	}

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "unknown coupon code",
			"totals": h.cart.Totals(state),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":   state.CouponCode,
		"rate":   rate,
		"totals": h.cart.Totals(state),
	})
}
