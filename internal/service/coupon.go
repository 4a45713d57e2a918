package service

import (
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/tiendamasiva/storefront-service/internal/config"
	"github.com/tiendamasiva/storefront-service/internal/session"
)

// CouponEngine resolves coupon codes against the configured discount
// table. Only one coupon is active per session; an unknown code revokes
// whatever was applied before, which keeps a mistyped code from silently
// riding on an earlier discount.
type CouponEngine struct {
	coupons map[string]decimal.Decimal
	logger  *log.Entry
}

// NewCouponEngine creates a coupon engine from the configured table.
func NewCouponEngine(cfg config.DiscountConfig) *CouponEngine {
	return &CouponEngine{
		coupons: cfg.Coupons,
		logger:  log.WithField("component", "coupon-engine"),
	}
}

// Apply normalizes the code and updates the session discount. It returns
// the applied rate and whether the code matched.
func (e *CouponEngine) Apply(state *session.State, code string) (decimal.Decimal, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	rate, ok := e.coupons[normalized]
	if !ok {
		state.ClearCoupon()
		e.logger.WithField("code", normalized).Debug("coupon rejected")
		return decimal.Zero, false
	}

	state.DiscountRate = rate
	state.CouponCode = normalized
	e.logger.WithFields(log.Fields{"code": normalized, "rate": rate.String()}).Info("coupon applied")
	return rate, true
}
