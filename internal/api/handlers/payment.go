package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/storefrontlabs/storefront-api/internal/api/middleware"
	"github.com/storefrontlabs/storefront-api/internal/errors"
	service "github.com/storefrontlabs/storefront-api/internal/services"
	"github.com/storefrontlabs/storefront-api/internal/utils/response"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Checkout opens a processor checkout session for the caller's order.
func (h *PaymentHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized checkout attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		checkout, err := h.paymentService.InitiateCheckout(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to initiate checkout",
				slog.String("userId", claims.UserID.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Checkout session created",
			slog.String("sessionId", checkout.SessionID),
			slog.String("userId", claims.UserID.String()))
		response.Success(w, http.StatusOK, checkout)
	}
}

// Webhook receives payment processor events. The body is read raw
// before any decoding because signature verification is byte-exact.
func (h *PaymentHandler) Webhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Failed to read request body"))
			return
		}

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			logger.Warn("Webhook received without signature header")
			response.Error(w, errors.BadRequestError("Missing signature header"))
			return
		}

		event, err := h.paymentService.ProcessWebhook(r.Context(), payload, signature)
		if err != nil {
			logger.Error("Webhook processing failed",
				slog.String("eventType", string(event.Type)),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Webhook processed",
			slog.String("eventId", event.ID),
			slog.String("eventType", string(event.Type)))
		response.Success(w, http.StatusOK, map[string]bool{"received": true})
	}
}
