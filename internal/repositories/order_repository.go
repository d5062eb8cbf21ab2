package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefrontlabs/storefront-api/internal/models"
	"github.com/storefrontlabs/storefront-api/internal/utils"
)

type OrderRepository interface {
	// CreateOrder inserts the order and its items in one transaction.
	CreateOrder(ctx context.Context, order *models.Order) error
	// CreateOrderAndClearCart additionally deletes the cart's items inside
	// the same transaction, so a concurrent cart mutation can never be
	// half-applied.
	CreateOrderAndClearCart(ctx context.Context, order *models.Order, cartID uuid.UUID) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// GetPendingOrderByUser returns the user's most recent PENDING order,
	// or sql.ErrNoRows.
	GetPendingOrderByUser(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
	// MarkOrderPaidAndClearCart locks the order row, transitions
	// PENDING -> PAID and clears the user's cart, all in one transaction.
	// A redelivered event finds the order already PAID and the call is a
	// no-op that still succeeds.
	MarkOrderPaidAndClearCart(ctx context.Context, orderID, userID uuid.UUID) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	if err := insertOrder(dbCtx, tx, order); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *orderRepository) CreateOrderAndClearCart(ctx context.Context, order *models.Order, cartID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	if err := insertOrder(dbCtx, tx, order); err != nil {
		return err
	}

	if _, err := tx.ExecContext(dbCtx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return tx.Commit()
}

func insertOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {

	query := `
		INSERT INTO orders (id, user_id, status, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`

	if _, err := tx.ExecContext(ctx, query, order.ID, order.UserID, order.Status, order.Total); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, itemQuery, item.ID, order.ID, item.ProductID, item.Quantity, item.Price); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, status, total, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	order := &models.Order{}

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&order.ID, &order.UserID, &order.Status, &order.Total, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.getOrderItems(dbCtx, order.ID)
	if err != nil {
		return nil, err
	}

	order.Items = items

	return order, nil
}

func (r *orderRepository) GetPendingOrderByUser(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, status, total, created_at, updated_at
		FROM orders
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	order := &models.Order{}

	err := r.DB.QueryRowContext(dbCtx, query, userID, models.OrderStatusPending).
		Scan(&order.ID, &order.UserID, &order.Status, &order.Total, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get pending order: %w", err)
	}

	items, err := r.getOrderItems(dbCtx, order.ID)
	if err != nil {
		return nil, err
	}

	order.Items = items

	return order, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM orders WHERE user_id = $1`
	if err := r.DB.QueryRowContext(dbCtx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * size

	query := `
		SELECT id, user_id, status, total, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {

		var order models.Order

		err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.Total, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {

		items, err := r.getOrderItems(dbCtx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}

		orders[i].Items = items
	}

	return orders, total, nil
}

func (r *orderRepository) getOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {

	query := `
		SELECT id, product_id, quantity, price, created_at
		FROM order_items
		WHERE order_id = $1
	`

	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}

	defer rows.Close()

	var items []models.OrderItem

	for rows.Next() {

		var item models.OrderItem

		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Price, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		item.OrderID = orderID

		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *orderRepository) MarkOrderPaidAndClearCart(ctx context.Context, orderID, userID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	// Row lock serializes the webhook against checkout retries and against
	// a redelivery of the same event.
	var status models.OrderStatus

	err = tx.QueryRowContext(dbCtx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}

		return fmt.Errorf("failed to lock order: %w", err)
	}

	if status == models.OrderStatusPending {
		_, err = tx.ExecContext(dbCtx,
			`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
			models.OrderStatusPaid, time.Now(), orderID)
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
	} else if status != models.OrderStatusPaid {
		return fmt.Errorf("order %s is %s, cannot mark paid", orderID, status)
	}

	// Clears the user's whole current cart; tolerant of it already being
	// empty so webhook redelivery stays safe.
	_, err = tx.ExecContext(dbCtx,
		`DELETE FROM cart_items USING carts
		 WHERE cart_items.cart_id = carts.id AND carts.user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return tx.Commit()
}
