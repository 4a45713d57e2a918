package service

import (
	"context"

	"github.com/tiendamasiva/storefront-service/internal/apperrors"
	"github.com/tiendamasiva/storefront-service/internal/models"
	"github.com/tiendamasiva/storefront-service/internal/repository"
	"github.com/tiendamasiva/storefront-service/internal/session"
)

// OrderQueryService serves receipts and purchase history.
type OrderQueryService struct {
	orders repository.OrderRepository
}

// NewOrderQueryService creates an order query service.
func NewOrderQueryService(orders repository.OrderRepository) *OrderQueryService {
	return &OrderQueryService{orders: orders}
}

// Receipt returns one order's receipt. Customers can only read their own
// receipts; admins can read any.
func (s *OrderQueryService) Receipt(ctx context.Context, orderID int64, requester *session.State) (*models.Receipt, error) {
	receipt, err := s.orders.GetReceipt(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !requester.IsAdmin() && receipt.UserID != requester.UserID {
		return nil, apperrors.ErrUnauthorized
	}
	return receipt, nil
}

// History lists a user's orders, newest first.
func (s *OrderQueryService) History(ctx context.Context, userID int64) ([]models.OrderSummary, error) {
	return s.orders.ListByUser(ctx, userID)
}
