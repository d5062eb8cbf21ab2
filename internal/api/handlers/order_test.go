package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefrontlabs/storefront-api/internal/api/handlers"
	appErrors "github.com/storefrontlabs/storefront-api/internal/errors"
	"github.com/storefrontlabs/storefront-api/internal/models"
	"github.com/storefrontlabs/storefront-api/internal/services/mocks"
	"github.com/storefrontlabs/storefront-api/internal/testutils"
	"github.com/storefrontlabs/storefront-api/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestPlaceOrderHandler(t *testing.T) {
	mockOrderService := new(mocks.OrderService)
	orderHandler := handlers.NewOrderHandler(mockOrderService)
	testUserID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		expectedOrder := &models.Order{
			ID:     uuid.New(),
			UserID: testUserID,
			Status: models.OrderStatusPending,
			Total:  decimal.RequireFromString("44.98"),
		}

		mockOrderService.On("PlaceOrder", mock.Anything, testUserID).Return(expectedOrder, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/orders", nil, testUserID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler := orderHandler.PlaceOrder()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp *response.APIResponse
		err := json.Unmarshal(rr.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.True(t, resp.Success)

		orderBytes, err := json.Marshal(resp.Data)
		assert.NoError(t, err)

		var respOrder *models.Order
		err = json.Unmarshal(orderBytes, &respOrder)
		assert.NoError(t, err)
		assert.Equal(t, expectedOrder.ID, respOrder.ID)
		assert.Equal(t, models.OrderStatusPending, respOrder.Status)

		mockOrderService.AssertExpectations(t)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		// Arrange
		mockOrderService.On("PlaceOrder", mock.Anything, testUserID).
			Return(nil, appErrors.BadRequestError("Cart is empty")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/orders", nil, testUserID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler := orderHandler.PlaceOrder()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		// Arrange
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/orders", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler := orderHandler.PlaceOrder()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestGetOrderHandler(t *testing.T) {
	mockOrderService := new(mocks.OrderService)
	orderHandler := handlers.NewOrderHandler(mockOrderService)
	testUserID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		orderID := uuid.New()
		expectedOrder := &models.Order{ID: orderID, UserID: testUserID, Status: models.OrderStatusPaid}

		mockOrderService.On("GetOrderByID", mock.Anything, testUserID, orderID).Return(expectedOrder, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders/"+orderID.String(), nil, testUserID,
			map[string]string{"id": orderID.String()})
		rr := httptest.NewRecorder()

		// Act
		handler := orderHandler.GetOrder()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("InvalidID", func(t *testing.T) {
		// Arrange
		mockOrderService.Calls = nil // clear calls recorded by earlier subtests
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders/not-a-uuid", nil, testUserID,
			map[string]string{"id": "not-a-uuid"})
		rr := httptest.NewRecorder()

		// Act
		handler := orderHandler.GetOrder()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockOrderService.AssertNotCalled(t, "GetOrderByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NotFound", func(t *testing.T) {
		// Arrange
		orderID := uuid.New()

		mockOrderService.On("GetOrderByID", mock.Anything, testUserID, orderID).
			Return(nil, appErrors.NotFoundError("Order not found")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders/"+orderID.String(), nil, testUserID,
			map[string]string{"id": orderID.String()})
		rr := httptest.NewRecorder()

		// Act
		handler := orderHandler.GetOrder()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockOrderService.AssertExpectations(t)
	})
}

func TestListOrdersHandler(t *testing.T) {
	mockOrderService := new(mocks.OrderService)
	orderHandler := handlers.NewOrderHandler(mockOrderService)
	testUserID := uuid.New()

	t.Run("DefaultsPagination", func(t *testing.T) {
		// Arrange
		orders := []models.Order{{ID: uuid.New(), UserID: testUserID, Status: models.OrderStatusPaid}}

		mockOrderService.On("ListOrdersByUser", mock.Anything, testUserID, 1, 10).Return(orders, 1, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders", nil, testUserID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler := orderHandler.ListOrders()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("ClampsOversizedPage", func(t *testing.T) {
		// Arrange
		mockOrderService.On("ListOrdersByUser", mock.Anything, testUserID, 2, 10).Return([]models.Order{}, 0, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders?page=2&pageSize=9999", nil, testUserID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler := orderHandler.ListOrders()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		mockOrderService.AssertExpectations(t)
	})
}
