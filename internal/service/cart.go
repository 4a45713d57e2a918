package service

import (
	"context"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/tiendamasiva/storefront-service/internal/models"
	"github.com/tiendamasiva/storefront-service/internal/repository"
	"github.com/tiendamasiva/storefront-service/internal/session"
)

// CartService mutates the session cart. Prices and names are captured at
// add time; stock is deliberately not checked here — only the checkout
// sequencer validates stock, against fresh reads.
type CartService struct {
	products repository.ProductRepository
	logger   *log.Entry
}

// NewCartService creates a cart service.
func NewCartService(products repository.ProductRepository) *CartService {
	return &CartService{
		products: products,
		logger:   log.WithField("component", "cart-service"),
	}
}

// Add appends a line item for the product to the session cart.
func (s *CartService) Add(ctx context.Context, state *session.State, productID int64, quantity int) (*models.CartItem, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	item := models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  quantity,
		Subtotal:  product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
	state.Cart = append(state.Cart, item)

	s.logger.WithFields(log.Fields{
		"product_id": product.ID,
		"quantity":   quantity,
	}).Debug("cart line added")

	return &item, nil
}

// Totals prices the cart against the session's active discount:
// subtotal = Σ line subtotals, discount = subtotal × rate,
// total = subtotal − discount.
func (s *CartService) Totals(state *session.State) models.CartTotals {
	subtotal := decimal.Zero
	for _, item := range state.Cart {
		subtotal = subtotal.Add(item.Subtotal)
	}

	discount := subtotal.Mul(state.DiscountRate)
	return models.CartTotals{
		Subtotal:   subtotal,
		Discount:   discount,
		Total:      subtotal.Sub(discount),
		CouponCode: state.CouponCode,
	}
}

// Clear empties the session cart. Calling it on an empty cart is a no-op.
func (s *CartService) Clear(state *session.State) {
	state.ClearCart()
}
