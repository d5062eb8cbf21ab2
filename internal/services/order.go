package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefrontlabs/storefront-api/internal/errors"
	"github.com/storefrontlabs/storefront-api/internal/models"
	repository "github.com/storefrontlabs/storefront-api/internal/repositories"
)

type OrderService interface {
	// PlaceOrder materializes the user's cart into a PENDING order and
	// clears the cart, atomically.
	PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	// BuildOrderFromCart materializes the cart into a PENDING order but
	// leaves the cart untouched; checkout uses this so the cart survives
	// until payment is confirmed.
	BuildOrderFromCart(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	GetOrderByID(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository) OrderService {
	return &orderService{orderRepo: orderRepo, cartRepo: cartRepo}
}

// PlaceOrder implements OrderService.
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error) {

	order, cart, err := s.buildOrder(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.CreateOrderAndClearCart(ctx, order, cart.ID); err != nil {
		return nil, errors.DatabaseError("Failed to create order").WithError(err)
	}

	return order, nil
}

// BuildOrderFromCart implements OrderService.
func (s *orderService) BuildOrderFromCart(ctx context.Context, userID uuid.UUID) (*models.Order, error) {

	order, _, err := s.buildOrder(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, errors.DatabaseError("Failed to create order").WithError(err)
	}

	return order, nil
}

// buildOrder reads the cart at current catalog prices and freezes every
// line into an immutable order: price and quantity are copied at this
// instant and never change afterwards.
func (s *orderService) buildOrder(ctx context.Context, userID uuid.UUID) (*models.Order, *models.Cart, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, errors.BadRequestError("Cart is empty")
		}

		return nil, nil, errors.DatabaseError("Failed to read cart").WithError(err)
	}

	if len(cart.Items) == 0 {
		return nil, nil, errors.BadRequestError("Cart is empty")
	}

	orderID := uuid.New()
	total := decimal.Zero

	items := make([]models.OrderItem, 0, len(cart.Items))

	for _, item := range cart.Items {

		// A product removed from the catalog after being added to the cart
		// is an explicit failure, never silently skipped.
		if item.Product == nil {
			return nil, nil, errors.NotFoundError("Product not found: " + item.ProductID.String())
		}

		lineTotal := item.Product.Price.Mul(decimal.NewFromInt(item.Quantity))
		total = total.Add(lineTotal)

		items = append(items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
			CreatedAt: time.Now(),
		})
	}

	order := &models.Order{
		ID:        orderID,
		UserID:    userID,
		Status:    models.OrderStatusPending,
		Total:     total,
		Items:     items,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	return order, cart, nil
}

// GetOrderByID implements OrderService.
func (s *orderService) GetOrderByID(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Order not found")
		}

		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.UserID != userID {
		return nil, errors.ForbiddenError("You can only view your own orders")
	}

	return order, nil
}

// ListOrdersByUser implements OrderService.
func (s *orderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 10
	}

	orders, total, err := s.orderRepo.ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}
