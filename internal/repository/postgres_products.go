package repository

import (
	"context"
	"database/sql"

	log "github.com/sirupsen/logrus"

	"github.com/tiendamasiva/storefront-service/internal/apperrors"
	"github.com/tiendamasiva/storefront-service/internal/models"
)

// PostgresProductRepository implements ProductRepository on PostgreSQL.
type PostgresProductRepository struct {
	db     *sql.DB
	logger *log.Entry
}

// NewPostgresProductRepository creates a PostgreSQL product repository.
func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{
		db:     db,
		logger: log.WithField("component", "product-repository"),
	}
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, price, stock, image_url FROM products WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.ImageURL)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		r.logger.WithError(err).WithField("product_id", id).Error("product lookup failed")
		return nil, err
	}
	return &p, nil
}

func (r *PostgresProductRepository) List(ctx context.Context, search string) ([]models.Product, error) {
	query := `SELECT id, name, price, stock, image_url FROM products WHERE stock > 0`
	args := make([]interface{}, 0, 1)
	if search != "" {
		query += ` AND name ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}
	query += ` ORDER BY price DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, price, stock, image_url FROM products ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresProductRepository) Create(ctx context.Context, p *models.Product) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO products (name, price, stock, image_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		p.Name, p.Price, p.Stock, p.ImageURL,
	).Scan(&p.ID)
	if err != nil {
		r.logger.WithError(err).WithField("name", p.Name).Error("product insert failed")
		return err
	}

	r.logger.WithFields(log.Fields{"product_id": p.ID, "name": p.Name}).Info("product created")
	return nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return apperrors.ErrNotFound
	}

	r.logger.WithField("product_id", id).Info("product deleted")
	return nil
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.ImageURL); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
