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

type WishlistHandler struct {
	wishlistService service.WishlistService
	validator       *validator.Validate
}

func NewWishlistHandler(wishlistService service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService, validator: validator.New()}
}

func (h *WishlistHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized wishlist access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.AddWishlistItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		item, err := h.wishlistService.AddItem(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to add wishlist item",
				slog.String("userId", claims.UserID.String()),
				slog.String("productId", req.ProductID.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Wishlist item added",
			slog.String("userId", claims.UserID.String()),
			slog.String("productId", req.ProductID.String()))
		response.Success(w, http.StatusCreated, item)
	}
}

func (h *WishlistHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized wishlist access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		productID, err := uuid.Parse(r.PathValue("productId"))
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid product ID"))
			return
		}

		if err := h.wishlistService.RemoveItem(r.Context(), claims.UserID, productID); err != nil {
			logger.Error("Failed to remove wishlist item",
				slog.String("userId", claims.UserID.String()),
				slog.String("productId", productID.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]string{"productId": productID.String()})
	}
}

func (h *WishlistHandler) ListItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized wishlist access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		items, err := h.wishlistService.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to list wishlist",
				slog.String("userId", claims.UserID.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, items)
	}
}
