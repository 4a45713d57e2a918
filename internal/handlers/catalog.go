package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Browse lists in-stock products, optionally filtered by ?q=substring.
func (h *Handlers) Browse(c *gin.Context) {
	products, err := h.catalog.Browse(c.Request.Context(), c.Query("q"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct returns one catalog entry.
func (h *Handlers) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	product, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
