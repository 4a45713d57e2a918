package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/tiendamasiva/storefront-service/internal/apperrors"
	"github.com/tiendamasiva/storefront-service/internal/config"
	"github.com/tiendamasiva/storefront-service/internal/events"
	"github.com/tiendamasiva/storefront-service/internal/metrics"
	"github.com/tiendamasiva/storefront-service/internal/models"
	"github.com/tiendamasiva/storefront-service/internal/repository"
	"github.com/tiendamasiva/storefront-service/internal/session"
)

// Outcome is the terminal state of one checkout attempt.
type Outcome string

const (
	// OutcomeCommitted means the order and every stock decrement are durable.
	OutcomeCommitted Outcome = "committed"
	// OutcomeRejected means validation failed before any storage mutation.
	OutcomeRejected Outcome = "rejected"
	// OutcomeRolledBack means the transaction aborted; no partial order or
	// stock change is observable.
	OutcomeRolledBack Outcome = "rolled_back"
)

const (
	pathCart  = "cart"
	pathQuick = "quick"
)

// CheckoutResult reports how a checkout attempt ended.
type CheckoutResult struct {
	Outcome Outcome           `json:"outcome"`
	OrderID int64             `json:"order_id,omitempty"`
	Totals  models.CartTotals `json:"totals"`
}

// CheckoutService converts a cart (or a single product) into a persisted
// order. Totals are always recomputed server-side; client-submitted
// amounts are never trusted. On success the session cart and coupon are
// cleared; on any failure they are preserved so the user can retry.
type CheckoutService struct {
	products  repository.ProductRepository
	orders    repository.OrderRepository
	cart      *CartService
	publisher events.Publisher
	metrics   *metrics.CheckoutMetrics
	config    *config.Config
	logger    *log.Entry
}

// NewCheckoutService creates the checkout sequencer.
func NewCheckoutService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	cart *CartService,
	publisher events.Publisher,
	checkoutMetrics *metrics.CheckoutMetrics,
	cfg *config.Config,
) *CheckoutService {
	return &CheckoutService{
		products:  products,
		orders:    orders,
		cart:      cart,
		publisher: publisher,
		metrics:   checkoutMetrics,
		config:    cfg,
		logger:    log.WithField("component", "checkout-service"),
	}
}

// Confirm runs the multi-item cart checkout. The whole write — order
// header, every line, every stock decrement — happens in one storage
// transaction; a failure on any line leaves nothing behind.
func (s *CheckoutService) Confirm(ctx context.Context, state *session.State) (*CheckoutResult, error) {
	start := time.Now()
	defer s.metrics.ObserveDuration(start)

	if len(state.Cart) == 0 {
		s.metrics.Rejected(pathCart)
		return &CheckoutResult{Outcome: OutcomeRejected}, apperrors.ErrCartEmpty
	}

	totals := s.cart.Totals(state)
	orderTotal := totals.Total.Add(s.config.Checkout.ShippingCost)

	items := make([]models.OrderItem, 0, len(state.Cart))
	for _, line := range state.Cart {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	orderID, err := s.orders.CreateOrder(ctx, state.UserID, orderTotal, items)
	if err != nil {
		s.metrics.RolledBack(pathCart)
		s.logger.WithError(err).WithField("user_id", state.UserID).Warn("checkout rolled back")
		if errors.Is(err, apperrors.ErrInsufficientStock) || errors.Is(err, apperrors.ErrNotFound) {
			return &CheckoutResult{Outcome: OutcomeRolledBack, Totals: totals}, err
		}
		return &CheckoutResult{Outcome: OutcomeRolledBack, Totals: totals},
			fmt.Errorf("checkout failed: %w", err)
	}

	state.ClearCart()
	state.ClearCoupon()

	s.metrics.Committed(pathCart)
	s.publishOrder(ctx, events.EventTypeOrderCreated, orderID, state.UserID, orderTotal, len(items))

	return &CheckoutResult{
		Outcome: OutcomeCommitted,
		OrderID: orderID,
		Totals:  totals,
	}, nil
}

// QuickPurchase is the single-product path. Stock is read fresh here, not
// from any cart snapshot, and checked again atomically inside the
// transaction: the pre-check gives a friendly rejection, the conditional
// decrement closes the race two concurrent buyers would otherwise win
// together.
func (s *CheckoutService) QuickPurchase(ctx context.Context, userID, productID int64, quantity int) (*CheckoutResult, error) {
	start := time.Now()
	defer s.metrics.ObserveDuration(start)

	if err := ValidateQuantity(quantity); err != nil {
		s.metrics.Rejected(pathQuick)
		return &CheckoutResult{Outcome: OutcomeRejected}, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		s.metrics.Rejected(pathQuick)
		return &CheckoutResult{Outcome: OutcomeRejected}, err
	}

	// Boundary is inclusive: quantity == stock passes.
	if quantity > product.Stock {
		s.metrics.Rejected(pathQuick)
		return &CheckoutResult{Outcome: OutcomeRejected}, apperrors.ErrInsufficientStock
	}

	orderID, total, err := s.orders.QuickPurchase(ctx, userID, productID, quantity)
	if err != nil {
		s.metrics.RolledBack(pathQuick)
		s.logger.WithError(err).WithFields(log.Fields{
			"user_id":    userID,
			"product_id": productID,
		}).Warn("quick purchase rolled back")
		if errors.Is(err, apperrors.ErrInsufficientStock) || errors.Is(err, apperrors.ErrNotFound) {
			return &CheckoutResult{Outcome: OutcomeRolledBack}, err
		}
		return &CheckoutResult{Outcome: OutcomeRolledBack}, fmt.Errorf("quick purchase failed: %w", err)
	}

	s.metrics.Committed(pathQuick)
	s.publishOrder(ctx, events.EventTypeQuickPurchase, orderID, userID, total, 1)

	return &CheckoutResult{
		Outcome: OutcomeCommitted,
		OrderID: orderID,
		Totals:  models.CartTotals{Subtotal: total, Total: total},
	}, nil
}

func (s *CheckoutService) publishOrder(ctx context.Context, eventType events.EventType, orderID, userID int64, total decimal.Decimal, lines int) {
	event := events.OrderEvent{
		Type:      eventType,
		OrderID:   orderID,
		UserID:    userID,
		Total:     total,
		Currency:  s.config.Checkout.Currency,
		LineCount: lines,
		Timestamp: time.Now(),
	}

	if err := s.publisher.PublishOrder(ctx, event); err != nil {
		// Event delivery never fails a committed checkout.
		s.logger.WithError(err).WithField("order_id", orderID).Error("order event not published")
	}
}
