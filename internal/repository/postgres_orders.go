package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/tiendamasiva/storefront-service/internal/apperrors"
	"github.com/tiendamasiva/storefront-service/internal/models"
)

// PostgresOrderRepository implements OrderRepository on PostgreSQL.
//
// Stock decrements use a conditional update checking the affected-row
// count, so two concurrent checkouts against the same product cannot both
// pass a stale stock read: the second one finds stock short and the whole
// transaction rolls back.
type PostgresOrderRepository struct {
	db     *sql.DB
	logger *log.Entry
}

// NewPostgresOrderRepository creates a PostgreSQL order repository.
func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db:     db,
		logger: log.WithField("component", "order-repository"),
	}
}

const decrementStock = `UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2`

func (r *PostgresOrderRepository) CreateOrder(ctx context.Context, userID int64, total decimal.Decimal, items []models.OrderItem) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin checkout transaction: %w", err)
	}
	defer tx.Rollback()

	var orderID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, created_at, total) VALUES ($1, NOW(), $2) RETURNING id`,
		userID, total,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("insert order header: %w", err)
	}

	for _, item := range items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			 VALUES ($1, $2, $3, $4)`,
			orderID, item.ProductID, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return 0, fmt.Errorf("insert order line for product %d: %w", item.ProductID, err)
		}

		result, err := tx.ExecContext(ctx, decrementStock, item.ProductID, item.Quantity)
		if err != nil {
			return 0, fmt.Errorf("decrement stock for product %d: %w", item.ProductID, err)
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			return 0, apperrors.ErrInsufficientStock
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit checkout transaction: %w", err)
	}

	r.logger.WithFields(log.Fields{
		"order_id": orderID,
		"user_id":  userID,
		"lines":    len(items),
		"total":    total.String(),
	}).Info("order committed")

	return orderID, nil
}

func (r *PostgresOrderRepository) QuickPurchase(ctx context.Context, userID, productID int64, quantity int) (int64, decimal.Decimal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("begin quick purchase: %w", err)
	}
	defer tx.Rollback()

	var price decimal.Decimal
	err = tx.QueryRowContext(ctx,
		`SELECT price FROM products WHERE id = $1`, productID,
	).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, decimal.Zero, apperrors.ErrNotFound
	}
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("read product price: %w", err)
	}

	result, err := tx.ExecContext(ctx, decrementStock, productID, quantity)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("decrement stock: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return 0, decimal.Zero, apperrors.ErrInsufficientStock
	}

	total := price.Mul(decimal.NewFromInt(int64(quantity)))

	var orderID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, created_at, total) VALUES ($1, NOW(), $2) RETURNING id`,
		userID, total,
	).Scan(&orderID)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("insert order header: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		 VALUES ($1, $2, $3, $4)`,
		orderID, productID, quantity, price,
	)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("insert order line: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, decimal.Zero, fmt.Errorf("commit quick purchase: %w", err)
	}

	r.logger.WithFields(log.Fields{
		"order_id":   orderID,
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	}).Info("quick purchase committed")

	return orderID, total, nil
}

func (r *PostgresOrderRepository) GetReceipt(ctx context.Context, orderID int64) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.QueryRowContext(ctx,
		`SELECT o.id, o.user_id, o.created_at, o.total, u.name
		 FROM orders o
		 JOIN users u ON o.user_id = u.id
		 WHERE o.id = $1`,
		orderID,
	).Scan(&receipt.OrderID, &receipt.UserID, &receipt.CreatedAt, &receipt.Total, &receipt.CustomerName)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT p.name, d.quantity, d.unit_price
		 FROM order_items d
		 JOIN products p ON d.product_id = p.id
		 WHERE d.order_id = $1
		 ORDER BY d.id`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line models.ReceiptLine
		if err := rows.Scan(&line.ProductName, &line.Quantity, &line.UnitPrice); err != nil {
			return nil, err
		}
		receipt.Lines = append(receipt.Lines, line)
	}
	return &receipt, rows.Err()
}

func (r *PostgresOrderRepository) ListByUser(ctx context.Context, userID int64) ([]models.OrderSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.created_at, o.total, COUNT(d.id)
		 FROM orders o
		 LEFT JOIN order_items d ON o.id = d.order_id
		 WHERE o.user_id = $1
		 GROUP BY o.id
		 ORDER BY o.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.OrderSummary, 0)
	for rows.Next() {
		var s models.OrderSummary
		if err := rows.Scan(&s.OrderID, &s.CreatedAt, &s.Total, &s.ItemCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *PostgresOrderRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PostgresOrderRepository) RecentSales(ctx context.Context, limit int) ([]models.SaleRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.created_at, u.name,
		        STRING_AGG(p.name, ', ' ORDER BY d.id), o.total
		 FROM orders o
		 JOIN users u ON o.user_id = u.id
		 JOIN order_items d ON o.id = d.order_id
		 JOIN products p ON d.product_id = p.id
		 GROUP BY o.id, u.name
		 ORDER BY o.created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]models.SaleRow, 0, limit)
	for rows.Next() {
		var s models.SaleRow
		if err := rows.Scan(&s.OrderID, &s.CreatedAt, &s.CustomerName, &s.Products, &s.Total); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *PostgresOrderRepository) TopProducts(ctx context.Context, limit int) ([]models.TopProduct, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.name, p.image_url, SUM(d.quantity) AS units,
		        SUM(d.quantity * d.unit_price) AS revenue
		 FROM order_items d
		 JOIN products p ON d.product_id = p.id
		 GROUP BY p.id
		 ORDER BY units DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := make([]models.TopProduct, 0, limit)
	for rows.Next() {
		var t models.TopProduct
		if err := rows.Scan(&t.Name, &t.ImageURL, &t.UnitsSold, &t.Revenue); err != nil {
			return nil, err
		}
		top = append(top, t)
	}
	return top, rows.Err()
}
