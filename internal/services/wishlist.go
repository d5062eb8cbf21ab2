package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-api/internal/errors"
	"github.com/storefrontlabs/storefront-api/internal/models"
	repository "github.com/storefrontlabs/storefront-api/internal/repositories"
)

type WishlistService interface {
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddWishlistItemRequest) (*models.WishlistItem, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) WishlistService {
	return &wishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

// AddItem implements WishlistService. Adding an item twice is a no-op.
func (s *wishlistService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddWishlistItemRequest) (*models.WishlistItem, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to read product").WithError(err)
	}

	item := &models.WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: req.ProductID,
		Product:   product,
	}

	if err := s.wishlistRepo.AddItem(ctx, item); err != nil {
		return nil, errors.DatabaseError("Failed to add wishlist item").WithError(err)
	}

	return item, nil
}

// RemoveItem implements WishlistService.
func (s *wishlistService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {

	if err := s.wishlistRepo.RemoveItem(ctx, userID, productID); err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFoundError("Item not found in the wishlist")
		}

		return errors.DatabaseError("Failed to remove wishlist item").WithError(err)
	}

	return nil
}

// ListByUser implements WishlistService.
func (s *wishlistService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {

	items, err := s.wishlistRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list wishlist").WithError(err)
	}

	return items, nil
}
