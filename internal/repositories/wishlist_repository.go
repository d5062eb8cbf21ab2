package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-api/internal/models"
	"github.com/storefrontlabs/storefront-api/internal/utils"
)

type WishlistRepository interface {
	AddItem(ctx context.Context, item *models.WishlistItem) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
}

type wishlistRepository struct {
	DB *sql.DB
}

func NewWishlistRepo(db *sql.DB) WishlistRepository {
	return &wishlistRepository{DB: db}
}

func (r *wishlistRepository) AddItem(ctx context.Context, item *models.WishlistItem) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO wishlist_items (id, user_id, product_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, product_id) DO NOTHING
	`

	if _, err := r.DB.ExecContext(dbCtx, query, item.ID, item.UserID, item.ProductID); err != nil {
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

func (r *wishlistRepository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}

	deletedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deletedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *wishlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT w.id, w.user_id, w.product_id, w.created_at,
		       p.name, p.price, p.category, p.image_url
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}

	defer rows.Close()

	var items []models.WishlistItem

	for rows.Next() {

		var item models.WishlistItem
		var product models.Product

		err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt,
			&product.Name, &product.Price, &product.Category, &product.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}

		product.ID = item.ProductID
		item.Product = &product

		items = append(items, item)
	}

	return items, rows.Err()
}
