package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/storefrontlabs/storefront-api/internal/errors"
	"github.com/storefrontlabs/storefront-api/internal/models"
	repository "github.com/storefrontlabs/storefront-api/internal/repositories"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, page, size int) ([]models.Product, int, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo      repository.ProductRepository
	sanitizer *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{
		repo:      repo,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// CreateProduct implements ProductService. Free-text fields are
// sanitized before they ever hit storage.
func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	if req.Price.IsNegative() {
		return nil, errors.ValidationError("Price must not be negative")
	}

	product := &models.Product{
		ID:            uuid.New(),
		Name:          s.sanitizer.Sanitize(req.Name),
		Description:   s.sanitizer.Sanitize(req.Description),
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      s.sanitizer.Sanitize(req.Category),
		ImageURL:      req.ImageURL,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

// GetProductByID implements ProductService.
func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	return product, nil
}

// ListProducts implements ProductService.
func (s *productService) ListProducts(ctx context.Context, page, size int) ([]models.Product, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 10
	}

	products, total, err := s.repo.ListProducts(ctx, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list products").WithError(err)
	}

	return products, total, nil
}

// UpdateProduct implements ProductService. Only the fields present in
// the request change.
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = s.sanitizer.Sanitize(*req.Name)
	}

	if req.Description != nil {
		product.Description = s.sanitizer.Sanitize(*req.Description)
	}

	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, errors.ValidationError("Price must not be negative")
		}

		product.Price = *req.Price
	}

	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}

	if req.Category != nil {
		product.Category = s.sanitizer.Sanitize(*req.Category)
	}

	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	product.UpdatedAt = time.Now()

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	return product, nil
}

// DeleteProduct implements ProductService.
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFoundError("Product not found")
		}

		return errors.DatabaseError("Failed to delete product").WithError(err)
	}

	return nil
}
