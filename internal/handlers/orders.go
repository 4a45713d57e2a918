package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetReceipt returns one order's receipt. Customers only see their own;
// admins see any.
func (h *Handlers) GetReceipt(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	receipt, err := h.orders.Receipt(c.Request.Context(), orderID, h.state(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// OrderHistory lists the session user's orders, newest first.
func (h *Handlers) OrderHistory(c *gin.Context) {
	summaries, err := h.orders.History(c.Request.Context(), h.state(c).UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": summaries})
}
