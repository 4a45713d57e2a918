package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tiendamasiva/storefront-service/internal/models"
)

// ProductRepository is read/write access to the catalog.
type ProductRepository interface {
	// GetByID returns a product or apperrors.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Product, error)

	// List returns in-stock products, optionally filtered by a
	// case-insensitive name substring, ordered by price descending.
	List(ctx context.Context, search string) ([]models.Product, error)

	// ListAll returns every product newest first, including out-of-stock
	// ones. Used by the admin screens.
	ListAll(ctx context.Context) ([]models.Product, error)

	Create(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository is access to registered accounts.
type UserRepository interface {
	// Create inserts a new account and fills in its ID. A duplicate name
	// returns apperrors.ErrUserExists.
	Create(ctx context.Context, u *models.User) error

	GetByName(ctx context.Context, name string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

// OrderRepository persists orders. Both write paths are atomic: either the
// header, every line item and every stock decrement land, or none do.
type OrderRepository interface {
	// CreateOrder writes the order header and line items and decrements
	// stock for each line inside one transaction. A line whose decrement
	// would drive stock negative aborts the whole transaction with
	// apperrors.ErrInsufficientStock.
	CreateOrder(ctx context.Context, userID int64, total decimal.Decimal, items []models.OrderItem) (int64, error)

	// QuickPurchase is the single-product path: one transaction inserting
	// the header plus one line at the product's current price and
	// conditionally decrementing stock. Same atomicity contract as
	// CreateOrder.
	QuickPurchase(ctx context.Context, userID, productID int64, quantity int) (int64, decimal.Decimal, error)

	GetReceipt(ctx context.Context, orderID int64) (*models.Receipt, error)
	ListByUser(ctx context.Context, userID int64) ([]models.OrderSummary, error)
	Count(ctx context.Context) (int, error)
	RecentSales(ctx context.Context, limit int) ([]models.SaleRow, error)
	TopProducts(ctx context.Context, limit int) ([]models.TopProduct, error)
}
