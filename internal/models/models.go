package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is the access level attached to a user account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User is a registered account. PasswordHash never leaves the service.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// Product is a sellable catalog entry. Stock is kept non-negative by the
// storage layer; the cart never enforces it.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	ImageURL string          `json:"image_url"`
}

// CartItem is one line in a session cart. Name and UnitPrice are captured
// at add time and are not re-priced at checkout.
type CartItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartTotals is the priced summary of a cart plus any active coupon.
type CartTotals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	CouponCode string          `json:"coupon_code,omitempty"`
}

// OrderItem is one persisted order line: quantity and the unit price at
// the time of sale.
type OrderItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Order is a persisted purchase. The identifier is assigned by storage.
type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	Total     decimal.Decimal `json:"total"`
	Items     []OrderItem     `json:"items,omitempty"`
}

// ReceiptLine is an order line joined with its product name for display.
type ReceiptLine struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Receipt is the customer-facing view of a completed order.
type Receipt struct {
	OrderID      int64           `json:"order_id"`
	UserID       int64           `json:"-"`
	CustomerName string          `json:"customer_name"`
	CreatedAt    time.Time       `json:"created_at"`
	Total        decimal.Decimal `json:"total"`
	Lines        []ReceiptLine   `json:"lines"`
}

// OrderSummary is one row of a user's purchase history.
type OrderSummary struct {
	OrderID   int64           `json:"order_id"`
	CreatedAt time.Time       `json:"created_at"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// SaleRow is one row of the dashboard recent-sales table.
type SaleRow struct {
	OrderID      int64           `json:"order_id"`
	CreatedAt    time.Time       `json:"created_at"`
	CustomerName string          `json:"customer_name"`
	Products     string          `json:"products"`
	Total        decimal.Decimal `json:"total"`
}

// TopProduct is one row of the dashboard best-sellers table.
type TopProduct struct {
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url"`
	UnitsSold int64           `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// DashboardStats aggregates the back-office landing page numbers.
type DashboardStats struct {
	TotalUsers  int          `json:"total_users"`
	TotalOrders int          `json:"total_orders"`
	RecentSales []SaleRow    `json:"recent_sales"`
	TopProducts []TopProduct `json:"top_products"`
}
