package service

import (
	"context"

	"github.com/tiendamasiva/storefront-service/internal/models"
	"github.com/tiendamasiva/storefront-service/internal/repository"
)

const (
	recentSalesLimit = 10
	topProductsLimit = 5
)

// DashboardService assembles the back-office landing page aggregates.
type DashboardService struct {
	users  repository.UserRepository
	orders repository.OrderRepository
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(users repository.UserRepository, orders repository.OrderRepository) *DashboardService {
	return &DashboardService{users: users, orders: orders}
}

// Stats gathers user/order counts, the last sales and the best sellers.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalOrders, err := s.orders.Count(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.orders.RecentSales(ctx, recentSalesLimit)
	if err != nil {
		return nil, err
	}

	top, err := s.orders.TopProducts(ctx, topProductsLimit)
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalUsers:  totalUsers,
		TotalOrders: totalOrders,
		RecentSales: recent,
		TopProducts: top,
	}, nil
}
