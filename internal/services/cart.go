package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefrontlabs/storefront-api/internal/errors"
	"github.com/storefrontlabs/storefront-api/internal/models"
	repository "github.com/storefrontlabs/storefront-api/internal/repositories"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.CartResponse, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.CartResponse, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart implements CartService. The total reflects current catalog
// prices; nothing is frozen until an order is built.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.CartResponse, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Cart not found")
		}

		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	total := decimal.Zero

	for _, item := range cart.Items {
		if item.Product != nil {
			total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(item.Quantity)))
		}
	}

	return &models.CartResponse{Cart: cart, Total: total}, nil
}

// AddItem implements CartService. The cart is created lazily on the
// first add.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.CartResponse, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to read product").WithError(err)
	}

	if product.StockQuantity < req.Quantity {
		return nil, errors.BadRequestError("Insufficient stock for product: " + product.Name)
	}

	cart, err := s.cartRepo.UpsertCart(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to create cart").WithError(err)
	}

	if err := s.cartRepo.AddItem(ctx, cart.ID, req.ProductID, req.Quantity); err != nil {
		return nil, errors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem implements CartService.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFoundError("Cart not found")
		}

		return errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if err := s.cartRepo.RemoveItem(ctx, cart.ID, productID); err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFoundError("Item not found in the cart")
		}

		return errors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	return nil
}
