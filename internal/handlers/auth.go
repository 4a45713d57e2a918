package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiendamasiva/storefront-service/internal/session"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a customer account. It does not log the user in; the
// client follows up with a login call.
func (h *Handlers) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":   user.ID,
		"name": user.Name,
		"role": user.Role,
	})
}

// Login authenticates and binds the account to the session. The session
// identifier is rotated on login so a pre-login cookie cannot be replayed
// as an authenticated one.
func (h *Handlers) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	oldID := h.sessionID(c)
	state := h.state(c)
	state.UserID = user.ID
	state.Username = user.Name
	state.Role = user.Role

	newID := session.NewID()
	if err := h.sessions.Save(c.Request.Context(), newID, state); err != nil {
		handleError(c, err)
		return
	}
	if oldID != "" {
		if err := h.sessions.Delete(c.Request.Context(), oldID); err != nil {
			h.logger.WithError(err).Warn("stale session not deleted")
		}
	}
	c.Set(ctxKeySessionID, newID)
	h.setSessionCookie(c, newID)

	c.JSON(http.StatusOK, gin.H{
		"id":   user.ID,
		"name": user.Name,
		"role": user.Role,
	})
}

// Logout destroys the session. The cart and any coupon go with it.
func (h *Handlers) Logout(c *gin.Context) {
	if id := h.sessionID(c); id != "" {
		if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
			h.logger.WithError(err).Warn("session not deleted on logout")
		}
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Profile returns the session's identity.
func (h *Handlers) Profile(c *gin.Context) {
	state := h.state(c)
	c.JSON(http.StatusOK, gin.H{
		"id":   state.UserID,
		"name": state.Username,
		"role": state.Role,
	})
}
