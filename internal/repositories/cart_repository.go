package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-api/internal/models"
	"github.com/storefrontlabs/storefront-api/internal/utils"
)

type CartRepository interface {
	// GetCartByUserID returns the cart with items and their products joined
	// in at current catalog prices. Items whose product has been deleted
	// come back with a nil Product; callers decide how to handle that.
	GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	UpsertCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int64) error
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	cart := &models.Cart{}

	err := r.DB.QueryRowContext(dbCtx, query, userID).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	itemsQuery := `
		SELECT ci.product_id, ci.quantity,
		       p.id, p.name, p.description, p.price, p.stock_quantity, p.category, p.image_url
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
	`

	rows, err := r.DB.QueryContext(dbCtx, itemsQuery, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	defer rows.Close()

	for rows.Next() {

		var item models.CartItem
		var productID sql.Null[uuid.UUID]
		var product models.Product

		var name, description, category, imageURL sql.NullString
		var price sql.NullString
		var stock sql.NullInt64

		err := rows.Scan(&item.ProductID, &item.Quantity,
			&productID, &name, &description, &price, &stock, &category, &imageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		if productID.Valid {
			product.ID = productID.V
			product.Name = name.String
			product.Description = description.String
			product.StockQuantity = stock.Int64
			product.Category = category.String
			product.ImageURL = imageURL.String

			if err := product.Price.Scan(price.String); err != nil {
				return nil, fmt.Errorf("failed to parse product price: %w", err)
			}

			item.Product = &product
		}

		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cart, nil
}

// UpsertCart lazily creates the user's cart on first write. A user has at
// most one cart at any time.
func (r *cartRepository) UpsertCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, user_id, created_at, updated_at
	`

	cart := &models.Cart{}

	err := r.DB.QueryRowContext(dbCtx, query, uuid.New(), userID).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cart: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int64) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	if _, err := r.DB.ExecContext(dbCtx, query, cartID, productID, quantity); err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, cartID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
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
