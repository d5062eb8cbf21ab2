package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/storefrontlabs/storefront-api/internal/errors"
	"github.com/storefrontlabs/storefront-api/internal/models"
	repository "github.com/storefrontlabs/storefront-api/internal/repositories"
)

type ReviewService interface {
	CreateReview(ctx context.Context, userID, productID uuid.UUID, req *models.CreateReviewRequest) (*models.Review, error)
	ListReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	sanitizer   *bluemonday.Policy
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		sanitizer:   bluemonday.UGCPolicy(),
	}
}

// CreateReview implements ReviewService.
func (s *reviewService) CreateReview(ctx context.Context, userID, productID uuid.UUID, req *models.CreateReviewRequest) (*models.Review, error) {

	if _, err := s.productRepo.GetProductByID(ctx, productID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to read product").WithError(err)
	}

	review := &models.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   s.sanitizer.Sanitize(req.Comment),
	}

	if err := s.reviewRepo.CreateReview(ctx, review); err != nil {
		return nil, errors.DatabaseError("Failed to create review").WithError(err)
	}

	return review, nil
}

// ListReviewsByProduct implements ReviewService.
func (s *reviewService) ListReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {

	reviews, err := s.reviewRepo.ListReviewsByProduct(ctx, productID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list reviews").WithError(err)
	}

	return reviews, nil
}
