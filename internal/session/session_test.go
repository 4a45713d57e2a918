package session

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tiendamasiva/storefront-service/internal/models"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	state := New()
	state.UserID = 7
	state.Username = "ana"
	state.Role = models.RoleCustomer
	state.Cart = append(state.Cart, models.CartItem{
		ProductID: 1,
		Name:      "Teclado",
		UnitPrice: decimal.RequireFromString("45.00"),
		Quantity:  2,
		Subtotal:  decimal.RequireFromString("90.00"),
	})

	id := NewID()
	if err := store.Save(ctx, id, state); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.UserID != 7 || loaded.Username != "ana" {
		t.Errorf("identity not preserved: %+v", loaded)
	}
	if len(loaded.Cart) != 1 || loaded.Cart[0].Quantity != 2 {
		t.Errorf("cart not preserved: %+v", loaded.Cart)
	}
	if !loaded.Cart[0].Subtotal.Equal(decimal.RequireFromString("90.00")) {
		t.Errorf("subtotal not preserved: %s", loaded.Cart[0].Subtotal)
	}
}

func TestMemoryStoreCopySemantics(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	state := New()
	state.Cart = append(state.Cart, models.CartItem{ProductID: 1, Quantity: 1})

	if err := store.Save(ctx, "s1", state); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Mutating the caller's state must not leak into the store.
	state.Cart[0].Quantity = 99

	loaded, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.Cart[0].Quantity != 1 {
		t.Errorf("store shares memory with caller: quantity %d", loaded.Cart[0].Quantity)
	}
}

func TestMemoryStoreMissingID(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), "missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Save(ctx, "s1", New()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting twice is fine.
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Errorf("second delete failed: %v", err)
	}
}

func TestStateHelpers(t *testing.T) {
	state := New()

	if state.Authenticated() {
		t.Error("fresh state should be anonymous")
	}
	if state.IsAdmin() {
		t.Error("fresh state should not be admin")
	}

	state.UserID = 3
	state.Role = models.RoleAdmin
	if !state.Authenticated() || !state.IsAdmin() {
		t.Error("admin identity not reflected")
	}

	state.Cart = append(state.Cart, models.CartItem{ProductID: 1})
	state.DiscountRate = decimal.RequireFromString("0.10")
	state.CouponCode = "PROMO2026"

	state.ClearCart()
	if len(state.Cart) != 0 {
		t.Error("cart not cleared")
	}
	state.ClearCart() // idempotent

	state.ClearCoupon()
	if !state.DiscountRate.Equal(decimal.Zero) || state.CouponCode != "" {
		t.Error("coupon not cleared")
	}
}
