// Package session holds per-browser transient state: identity, role, the
// shopping cart and any active coupon. State is addressed by an opaque
// session identifier and lives only as long as the session does.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tiendamasiva/storefront-service/internal/models"
)

// ErrNotFound is returned when a session id has no stored state.
var ErrNotFound = errors.New("session not found")

// State is everything a session carries. A zero UserID means anonymous.
type State struct {
	UserID       int64             `json:"user_id"`
	Username     string            `json:"username"`
	Role         models.Role       `json:"role"`
	Cart         []models.CartItem `json:"cart"`
	DiscountRate decimal.Decimal   `json:"discount_rate"`
	CouponCode   string            `json:"coupon_code"`
}

// New returns empty anonymous state.
func New() *State {
	return &State{Cart: []models.CartItem{}}
}

// Authenticated reports whether a user is logged in.
func (s *State) Authenticated() bool {
	return s.UserID != 0
}

// IsAdmin reports whether the session belongs to an admin account.
func (s *State) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// ClearCart replaces the cart with an empty sequence. Safe to call twice.
func (s *State) ClearCart() {
	s.Cart = []models.CartItem{}
}

// ClearCoupon revokes any active discount.
func (s *State) ClearCoupon() {
	s.DiscountRate = decimal.Zero
	s.CouponCode = ""
}

// NewID generates an opaque session identifier.
func NewID() string {
	return uuid.NewString()
}

// Store persists session state by identifier.
type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, id string, state *State) error
	Delete(ctx context.Context, id string) error
}
