package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-api/internal/api/middleware"
	"github.com/storefrontlabs/storefront-api/internal/errors"
	"github.com/storefrontlabs/storefront-api/internal/models"
	service "github.com/storefrontlabs/storefront-api/internal/services"
	"github.com/storefrontlabs/storefront-api/internal/utils"
	"github.com/storefrontlabs/storefront-api/internal/utils/response"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to fetch cart",
				slog.String("userId", claims.UserID.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.AddCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to add cart item",
				slog.String("userId", claims.UserID.String()),
				slog.String("productId", req.ProductID.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item added",
			slog.String("userId", claims.UserID.String()),
			slog.String("productId", req.ProductID.String()))
		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		productID, err := uuid.Parse(r.PathValue("productId"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product ID"))
			return
		}

		if err := h.cartService.RemoveItem(r.Context(), claims.UserID, productID); err != nil {
			logger.Error("Failed to remove cart item",
				slog.String("userId", claims.UserID.String()),
				slog.String("productId", productID.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item removed",
			slog.String("userId", claims.UserID.String()),
			slog.String("productId", productID.String()))
		response.Success(w, http.StatusOK, map[string]string{"productId": productID.String()})
	}
}
