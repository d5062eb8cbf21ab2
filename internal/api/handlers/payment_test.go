package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-api/internal/api/handlers"
	appErrors "github.com/storefrontlabs/storefront-api/internal/errors"
	"github.com/storefrontlabs/storefront-api/internal/models"
	"github.com/storefrontlabs/storefront-api/internal/services/mocks"
	"github.com/storefrontlabs/storefront-api/internal/testutils"
	"github.com/storefrontlabs/storefront-api/internal/utils/response"
	paymentclient "github.com/storefrontlabs/storefront-api/pkg/stripe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCheckout(t *testing.T) {
	mockPaymentService := new(mocks.PaymentService)
	paymentHandler := handlers.NewPaymentHandler(mockPaymentService)
	testUserID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		expectedResp := &models.CheckoutResponse{
			SessionID: "cs_test_123",
			URL:       "https://checkout.stripe.com/pay/cs_test_123",
		}

		mockPaymentService.On("InitiateCheckout", mock.Anything, testUserID).Return(expectedResp, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/payments/checkout", nil, testUserID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler := paymentHandler.Checkout()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp *response.APIResponse
		err := json.Unmarshal(rr.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.True(t, resp.Success)

		checkoutBytes, err := json.Marshal(resp.Data)
		assert.NoError(t, err)

		var respCheckout *models.CheckoutResponse
		err = json.Unmarshal(checkoutBytes, &respCheckout)
		assert.NoError(t, err)
		assert.Equal(t, expectedResp.SessionID, respCheckout.SessionID)
		assert.Equal(t, expectedResp.URL, respCheckout.URL)

		mockPaymentService.AssertExpectations(t)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		// Arrange
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/payments/checkout", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler := paymentHandler.Checkout()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		// Arrange
		mockPaymentService.On("InitiateCheckout", mock.Anything, testUserID).
			Return(nil, appErrors.BadRequestError("Cart is empty")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/payments/checkout", nil, testUserID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler := paymentHandler.Checkout()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp *response.APIResponse
		err := json.Unmarshal(rr.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, appErrors.ErrCodeBadRequest, resp.Error.Code)

		mockPaymentService.AssertExpectations(t)
	})
}

func TestWebhook(t *testing.T) {
	mockPaymentService := new(mocks.PaymentService)
	paymentHandler := handlers.NewPaymentHandler(mockPaymentService)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		payload := []byte(`{"id":"evt_test_123","type":"checkout.session.completed"}`)
		event := paymentclient.Event{ID: "evt_test_123", Type: "checkout.session.completed"}

		mockPaymentService.On("ProcessWebhook", mock.Anything, payload, "sig_header").Return(event, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/payments/webhook", bytes.NewReader(payload), nil)
		req.Header.Set("Stripe-Signature", "sig_header")
		rr := httptest.NewRecorder()

		// Act
		handler := paymentHandler.Webhook()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp *response.APIResponse
		err := json.Unmarshal(rr.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.True(t, resp.Success)

		data, ok := resp.Data.(map[string]any)
		assert.True(t, ok)
		assert.Equal(t, true, data["received"])

		mockPaymentService.AssertExpectations(t)
	})

	t.Run("MissingSignatureHeader", func(t *testing.T) {
		// Arrange
		mockPaymentService.Calls = nil // clear calls recorded by earlier subtests
		payload := []byte(`{"id":"evt_test_123"}`)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/payments/webhook", bytes.NewReader(payload), nil)
		rr := httptest.NewRecorder()

		// Act
		handler := paymentHandler.Webhook()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockPaymentService.AssertNotCalled(t, "ProcessWebhook", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidSignature", func(t *testing.T) {
		// Arrange
		payload := []byte(`{"id":"evt_test_123"}`)

		mockPaymentService.On("ProcessWebhook", mock.Anything, payload, "sig_bad").
			Return(paymentclient.Event{}, appErrors.BadRequestError("Webhook signature verification failed")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/payments/webhook", bytes.NewReader(payload), nil)
		req.Header.Set("Stripe-Signature", "sig_bad")
		rr := httptest.NewRecorder()

		// Act
		handler := paymentHandler.Webhook()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockPaymentService.AssertExpectations(t)
	})

	t.Run("ReconcileFailureReturns500ForRedelivery", func(t *testing.T) {
		// Arrange
		payload := []byte(`{"id":"evt_test_123","type":"checkout.session.completed"}`)

		mockPaymentService.On("ProcessWebhook", mock.Anything, payload, "sig_header").
			Return(paymentclient.Event{ID: "evt_test_123", Type: "checkout.session.completed"},
				appErrors.DatabaseError("Failed to reconcile order")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/payments/webhook", bytes.NewReader(payload), nil)
		req.Header.Set("Stripe-Signature", "sig_header")
		rr := httptest.NewRecorder()

		// Act
		handler := paymentHandler.Webhook()
		handler.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockPaymentService.AssertExpectations(t)
	})
}
