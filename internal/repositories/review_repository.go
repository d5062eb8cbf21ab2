package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-api/internal/models"
	"github.com/storefrontlabs/storefront-api/internal/utils"
)

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *models.Review) error
	ListReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
}

type reviewRepository struct {
	DB *sql.DB
}

func NewReviewRepo(db *sql.DB) ReviewRepository {
	return &reviewRepository{DB: db}
}

func (r *reviewRepository) CreateReview(ctx context.Context, review *models.Review) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO reviews (id, product_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		review.ID, review.ProductID, review.UserID, review.Rating, review.Comment).
		Scan(&review.CreatedAt)
}

func (r *reviewRepository) ListReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, product_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(dbCtx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	defer rows.Close()

	var reviews []models.Review

	for rows.Next() {

		var review models.Review

		err := rows.Scan(&review.ID, &review.ProductID, &review.UserID, &review.Rating, &review.Comment, &review.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}

		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}
