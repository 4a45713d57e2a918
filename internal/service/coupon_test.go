package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendamasiva/storefront-service/internal/session"
)

func TestCouponApplyNormalizesCode(t *testing.T) {
	engine := NewCouponEngine(testCoupons())

	tests := []struct {
		name string
		code string
	}{
		{"exact", "PROMO2026"},
		{"lowercase", "promo2026"},
		{"mixed case with spaces", "  Promo2026  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := session.New()
			rate, ok := engine.Apply(state, tt.code)
			require.True(t, ok)
			assert.True(t, rate.Equal(decimal.RequireFromString("0.10")))
			assert.Equal(t, "PROMO2026", state.CouponCode)
		})
	}
}

func TestCouponUnknownCodeRevokesDiscount(t *testing.T) {
	engine := NewCouponEngine(testCoupons())
	state := session.New()

	_, ok := engine.Apply(state, "VERANO")
	require.True(t, ok)
	require.True(t, state.DiscountRate.Equal(decimal.RequireFromString("0.20")))

	// A bad code does not keep the previous discount alive.
	rate, ok := engine.Apply(state, "BOGUS")
	assert.False(t, ok)
	assert.True(t, rate.Equal(decimal.Zero))
	assert.True(t, state.DiscountRate.Equal(decimal.Zero))
	assert.Empty(t, state.CouponCode)
}

func TestCouponLatestCodeWins(t *testing.T) {
	engine := NewCouponEngine(testCoupons())
	state := session.New()

	_, ok := engine.Apply(state, "PROMO2026")
	require.True(t, ok)
	_, ok = engine.Apply(state, "VERANO")
	require.True(t, ok)

	assert.Equal(t, "VERANO", state.CouponCode)
	assert.True(t, state.DiscountRate.Equal(decimal.RequireFromString("0.20")))
}
