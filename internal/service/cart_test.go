package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendamasiva/storefront-service/internal/apperrors"
	"github.com/tiendamasiva/storefront-service/internal/config"
	"github.com/tiendamasiva/storefront-service/internal/models"
	"github.com/tiendamasiva/storefront-service/internal/repository"
	"github.com/tiendamasiva/storefront-service/internal/session"
)

func seedTestProduct(t *testing.T, repo *repository.Memory, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func testCoupons() config.DiscountConfig {
	return config.DiscountConfig{
		Coupons: map[string]decimal.Decimal{
			"PROMO2026": decimal.RequireFromString("0.10"),
			"VERANO":    decimal.RequireFromString("0.20"),
		},
	}
}

func TestCartAddCapturesPrice(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	cart := NewCartService(repo)
	state := session.New()

	p := seedTestProduct(t, repo, "Teclado", "45.00", 10)

	item, err := cart.Add(ctx, state, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "Teclado", item.Name)
	assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("45.00")))
	assert.True(t, item.Subtotal.Equal(decimal.RequireFromString("90.00")))
	assert.Len(t, state.Cart, 1)
}

func TestCartAddUnknownProduct(t *testing.T) {
	cart := NewCartService(repository.NewMemory())
	_, err := cart.Add(context.Background(), session.New(), 42, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartAddRejectsNonPositiveQuantity(t *testing.T) {
	repo := repository.NewMemory()
	cart := NewCartService(repo)
	p := seedTestProduct(t, repo, "Mouse", "20.00", 5)

	for _, qty := range []int{0, -1} {
		_, err := cart.Add(context.Background(), session.New(), p.ID, qty)
		assert.True(t, apperrors.IsValidation(err), "quantity %d should fail validation", qty)
	}
}

func TestCartAddIgnoresStock(t *testing.T) {
	// Stock is only enforced at checkout; adding more than is available
	// must succeed.
	ctx := context.Background()
	repo := repository.NewMemory()
	cart := NewCartService(repo)
	p := seedTestProduct(t, repo, "Mouse", "20.00", 1)

	_, err := cart.Add(ctx, session.New(), p.ID, 100)
	assert.NoError(t, err)
}

func TestCartTotalsIdentity(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	cart := NewCartService(repo)
	coupons := NewCouponEngine(testCoupons())
	state := session.New()

	a := seedTestProduct(t, repo, "Teclado", "45.00", 10)
	b := seedTestProduct(t, repo, "Mouse", "17.50", 10)

	_, err := cart.Add(ctx, state, a.ID, 2)
	require.NoError(t, err)
	_, err = cart.Add(ctx, state, b.ID, 3)
	require.NoError(t, err)

	_, ok := coupons.Apply(state, "VERANO")
	require.True(t, ok)

	totals := cart.Totals(state)
	// total = subtotal - discount must hold exactly.
	assert.True(t, totals.Total.Equal(totals.Subtotal.Sub(totals.Discount)),
		"totals identity violated: %s != %s - %s", totals.Total, totals.Subtotal, totals.Discount)
	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("142.50")))
	assert.True(t, totals.Discount.Equal(decimal.RequireFromString("28.50")))
}

func TestCartTotalsWithTenPercentCoupon(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	cart := NewCartService(repo)
	coupons := NewCouponEngine(testCoupons())
	state := session.New()

	p := seedTestProduct(t, repo, "Audifonos", "25.00", 10)
	_, err := cart.Add(ctx, state, p.ID, 1)
	require.NoError(t, err)

	_, ok := coupons.Apply(state, "PROMO2026")
	require.True(t, ok)

	totals := cart.Totals(state)
	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("25.00")))
	assert.True(t, totals.Discount.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("22.50")))
	assert.Equal(t, "PROMO2026", totals.CouponCode)
}

func TestCartClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	cart := NewCartService(repo)
	state := session.New()

	p := seedTestProduct(t, repo, "Teclado", "45.00", 10)
	_, err := cart.Add(ctx, state, p.ID, 1)
	require.NoError(t, err)

	cart.Clear(state)
	assert.Empty(t, state.Cart)
	cart.Clear(state)
	assert.Empty(t, state.Cart)

	totals := cart.Totals(state)
	assert.True(t, totals.Subtotal.Equal(decimal.Zero))
	assert.True(t, totals.Total.Equal(decimal.Zero))
}
