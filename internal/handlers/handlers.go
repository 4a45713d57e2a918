package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/tiendamasiva/storefront-service/internal/apperrors"
	"github.com/tiendamasiva/storefront-service/internal/config"
	"github.com/tiendamasiva/storefront-service/internal/service"
	"github.com/tiendamasiva/storefront-service/internal/session"
)

const (
	ctxKeySessionID    = "session_id"
	ctxKeySessionState = "session_state"
)

// Handlers holds all HTTP handlers for the storefront.
type Handlers struct {
	catalog   *service.CatalogService
	cart      *service.CartService
	coupons   *service.CouponEngine
	checkout  *service.CheckoutService
	accounts  *service.AccountService
	orders    *service.OrderQueryService
	dashboard *service.DashboardService
	sessions  session.Store
	config    *config.Config
	readiness map[string]Pinger
	logger    *log.Entry
}

// NewHandlers creates a handlers instance.
func NewHandlers(
	catalog *service.CatalogService,
	cart *service.CartService,
	coupons *service.CouponEngine,
	checkout *service.CheckoutService,
	accounts *service.AccountService,
	orders *service.OrderQueryService,
	dashboard *service.DashboardService,
	sessions session.Store,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		catalog:   catalog,
		cart:      cart,
		coupons:   coupons,
		checkout:  checkout,
		accounts:  accounts,
		orders:    orders,
		dashboard: dashboard,
		sessions:  sessions,
		config:    cfg,
		logger:    log.WithField("component", "handlers"),
	}
}

// Session resolves the request's session, creating an anonymous one on
// first access.
func (h *Handlers) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		var state *session.State

		id, err := c.Cookie(h.config.Session.CookieName)
		if err == nil && id != "" {
			if loaded, err := h.sessions.Get(c.Request.Context(), id); err == nil {
				state = loaded
			}
		}

		if state == nil {
			id = session.NewID()
			state = session.New()
			h.setSessionCookie(c, id)
		}

		c.Set(ctxKeySessionID, id)
		c.Set(ctxKeySessionState, state)
		c.Next()
	}
}

// RequireUser gates routes to authenticated sessions.
func (h *Handlers) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.state(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin gates routes to admin sessions.
func (h *Handlers) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := h.state(c)
		if !state.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		if !state.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func (h *Handlers) state(c *gin.Context) *session.State {
	if v, ok := c.Get(ctxKeySessionState); ok {
		if state, ok := v.(*session.State); ok {
			return state
		}
	}
	return session.New()
}

func (h *Handlers) sessionID(c *gin.Context) string {
	return c.GetString(ctxKeySessionID)
}

// saveSession persists the mutated session state. Handlers call it after
// every state change; a failed save is a storage failure for the caller.
func (h *Handlers) saveSession(c *gin.Context) error {
	return h.sessions.Save(c.Request.Context(), h.sessionID(c), h.state(c))
}

func (h *Handlers) setSessionCookie(c *gin.Context, id string) {
	c.SetCookie(h.config.Session.CookieName, id, int(h.config.Session.TTL.Seconds()), "/", "", false, true)
}

func (h *Handlers) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.config.Session.CookieName, "", -1, "/", "", false, true)
}

// handleError maps the error taxonomy onto HTTP statuses. Everything
// unrecognized is a storage failure and surfaces as a generic 500.
func handleError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	c.JSON(status, body)
}

func errorResponse(err error) (int, gin.H) {
	var validationErr *apperrors.ValidationError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, gin.H{"error": "not found"}
	case errors.Is(err, apperrors.ErrInsufficientStock):
		return http.StatusConflict, gin.H{"error": "insufficient stock"}
	case errors.Is(err, apperrors.ErrCartEmpty):
		return http.StatusBadRequest, gin.H{"error": "cart is empty"}
	case errors.Is(err, apperrors.ErrUserExists):
		return http.StatusConflict, gin.H{"error": "username already taken"}
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, gin.H{"error": "invalid username or password"}
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusForbidden, gin.H{"error": "access denied"}
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		}
	default:
		return http.StatusInternalServerError, gin.H{"error": "internal server error"}
	}
}
