package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/tiendamasiva/storefront-service/internal/config"
	"github.com/tiendamasiva/storefront-service/internal/models"
	"github.com/tiendamasiva/storefront-service/internal/repository"
)

// CatalogService serves product browsing and the admin product screens.
type CatalogService struct {
	products repository.ProductRepository
	config   *config.Config
	logger   *log.Entry
}

// NewCatalogService creates a catalog service.
func NewCatalogService(products repository.ProductRepository, cfg *config.Config) *CatalogService {
	return &CatalogService{
		products: products,
		config:   cfg,
		logger:   log.WithField("component", "catalog-service"),
	}
}

// Browse lists in-stock products, optionally filtered by name substring.
func (s *CatalogService) Browse(ctx context.Context, query string) ([]models.Product, error) {
	return s.products.List(ctx, strings.TrimSpace(query))
}

// Get returns one product.
func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

// ListAll returns every product for the admin list, newest first.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.products.ListAll(ctx)
}

// Create adds a product. A blank image reference falls back to the
// configured default.
func (s *CatalogService) Create(ctx context.Context, name string, price decimal.Decimal, stock int, imageURL string) (*models.Product, error) {
	if err := ValidateProductInput(name, price, stock); err != nil {
		return nil, err
	}

	if strings.TrimSpace(imageURL) == "" {
		imageURL = s.config.Discounts.DefaultImageURL
	}

	product := &models.Product{
		Name:     strings.TrimSpace(name),
		Price:    price,
		Stock:    stock,
		ImageURL: imageURL,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.WithFields(log.Fields{"product_id": product.ID, "name": product.Name}).Info("product added")
	return product, nil
}

// Delete removes a product from the catalog.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}
