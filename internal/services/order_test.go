package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appErrors "github.com/storefrontlabs/storefront-api/internal/errors"
	"github.com/storefrontlabs/storefront-api/internal/models"
	repoMocks "github.com/storefrontlabs/storefront-api/internal/repositories/mocks"
	service "github.com/storefrontlabs/storefront-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func cartWithItems(userID uuid.UUID, items ...models.CartItem) *models.Cart {
	return &models.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items:  items,
	}
}

func TestPlaceOrder(t *testing.T) {
	testUserID := uuid.New()

	t.Run("FreezesPricesAndClearsCart", func(t *testing.T) {
		// Arrange
		orderRepo := repoMocks.NewOrderRepository(t)
		cartRepo := repoMocks.NewCartRepository(t)
		svc := service.NewOrderService(orderRepo, cartRepo)

		bookID := uuid.New()
		mugID := uuid.New()

		cart := cartWithItems(testUserID,
			models.CartItem{
				ProductID: bookID,
				Quantity:  2,
				Product:   &models.Product{ID: bookID, Name: "Go Book", Price: decimal.RequireFromString("19.99")},
			},
			models.CartItem{
				ProductID: mugID,
				Quantity:  1,
				Product:   &models.Product{ID: mugID, Name: "Mug", Price: decimal.RequireFromString("5.00")},
			},
		)

		cartRepo.On("GetCartByUserID", mock.Anything, testUserID).Return(cart, nil).Once()
		orderRepo.On("CreateOrderAndClearCart", mock.Anything, mock.Anything, cart.ID).Return(nil).Once()

		// Act
		order, err := svc.PlaceOrder(context.Background(), testUserID)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.True(t, order.Total.Equal(decimal.RequireFromString("44.98")),
			"expected 44.98, got %s", order.Total)
		assert.Len(t, order.Items, 2)
		assert.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("19.99")))
		assert.Equal(t, int64(2), order.Items[0].Quantity)
	})

	t.Run("EmptyCartIsRejected", func(t *testing.T) {
		// Arrange
		orderRepo := repoMocks.NewOrderRepository(t)
		cartRepo := repoMocks.NewCartRepository(t)
		svc := service.NewOrderService(orderRepo, cartRepo)

		cartRepo.On("GetCartByUserID", mock.Anything, testUserID).
			Return(cartWithItems(testUserID), nil).Once()

		// Act
		order, err := svc.PlaceOrder(context.Background(), testUserID)

		// Assert
		assert.Nil(t, order)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
		orderRepo.AssertNotCalled(t, "CreateOrderAndClearCart", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingCartIsRejected", func(t *testing.T) {
		// Arrange
		orderRepo := repoMocks.NewOrderRepository(t)
		cartRepo := repoMocks.NewCartRepository(t)
		svc := service.NewOrderService(orderRepo, cartRepo)

		cartRepo.On("GetCartByUserID", mock.Anything, testUserID).Return(nil, sql.ErrNoRows).Once()

		// Act
		order, err := svc.PlaceOrder(context.Background(), testUserID)

		// Assert
		assert.Nil(t, order)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
	})

	t.Run("DeletedProductFailsOrder", func(t *testing.T) {
		// Arrange
		orderRepo := repoMocks.NewOrderRepository(t)
		cartRepo := repoMocks.NewCartRepository(t)
		svc := service.NewOrderService(orderRepo, cartRepo)

		goneID := uuid.New()

		cart := cartWithItems(testUserID,
			models.CartItem{ProductID: goneID, Quantity: 1, Product: nil},
		)

		cartRepo.On("GetCartByUserID", mock.Anything, testUserID).Return(cart, nil).Once()

		// Act
		order, err := svc.PlaceOrder(context.Background(), testUserID)

		// Assert
		assert.Nil(t, order)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestBuildOrderFromCart(t *testing.T) {
	testUserID := uuid.New()

	t.Run("LeavesCartIntact", func(t *testing.T) {
		// Arrange
		orderRepo := repoMocks.NewOrderRepository(t)
		cartRepo := repoMocks.NewCartRepository(t)
		svc := service.NewOrderService(orderRepo, cartRepo)

		productID := uuid.New()
		cart := cartWithItems(testUserID,
			models.CartItem{
				ProductID: productID,
				Quantity:  3,
				Product:   &models.Product{ID: productID, Name: "Widget", Price: decimal.RequireFromString("2.50")},
			},
		)

		cartRepo.On("GetCartByUserID", mock.Anything, testUserID).Return(cart, nil).Once()
		orderRepo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil).Once()

		// Act
		order, err := svc.BuildOrderFromCart(context.Background(), testUserID)

		// Assert
		assert.NoError(t, err)
		assert.True(t, order.Total.Equal(decimal.RequireFromString("7.50")))
		orderRepo.AssertNotCalled(t, "CreateOrderAndClearCart", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetOrderByID(t *testing.T) {
	testUserID := uuid.New()

	t.Run("OwnerCanRead", func(t *testing.T) {
		// Arrange
		orderRepo := repoMocks.NewOrderRepository(t)
		cartRepo := repoMocks.NewCartRepository(t)
		svc := service.NewOrderService(orderRepo, cartRepo)

		order := &models.Order{ID: uuid.New(), UserID: testUserID, Status: models.OrderStatusPaid}

		orderRepo.On("GetOrderByID", mock.Anything, order.ID).Return(order, nil).Once()

		// Act
		got, err := svc.GetOrderByID(context.Background(), testUserID, order.ID)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("OtherUsersOrderIsForbidden", func(t *testing.T) {
		// Arrange
		orderRepo := repoMocks.NewOrderRepository(t)
		cartRepo := repoMocks.NewCartRepository(t)
		svc := service.NewOrderService(orderRepo, cartRepo)

		order := &models.Order{ID: uuid.New(), UserID: uuid.New()}

		orderRepo.On("GetOrderByID", mock.Anything, order.ID).Return(order, nil).Once()

		// Act
		got, err := svc.GetOrderByID(context.Background(), testUserID, order.ID)

		// Assert
		assert.Nil(t, got)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeForbidden, appErr.Code)
	})

	t.Run("UnknownOrderIsNotFound", func(t *testing.T) {
		// Arrange
		orderRepo := repoMocks.NewOrderRepository(t)
		cartRepo := repoMocks.NewCartRepository(t)
		svc := service.NewOrderService(orderRepo, cartRepo)

		orderID := uuid.New()

		orderRepo.On("GetOrderByID", mock.Anything, orderID).Return(nil, sql.ErrNoRows).Once()

		// Act
		got, err := svc.GetOrderByID(context.Background(), testUserID, orderID)

		// Assert
		assert.Nil(t, got)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}
