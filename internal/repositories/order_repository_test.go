package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefrontlabs/storefront-api/internal/models"
	repository "github.com/storefrontlabs/storefront-api/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderRepo(t *testing.T) (repository.OrderRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return repository.NewOrderRepo(db), mock
}

func sampleOrder(userID uuid.UUID) *models.Order {
	orderID := uuid.New()

	return &models.Order{
		ID:     orderID,
		UserID: userID,
		Status: models.OrderStatusPending,
		Total:  decimal.RequireFromString("44.98"),
		Items: []models.OrderItem{
			{ID: uuid.New(), OrderID: orderID, ProductID: uuid.New(), Quantity: 2, Price: decimal.RequireFromString("19.99")},
			{ID: uuid.New(), OrderID: orderID, ProductID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("5.00")},
		},
	}
}

func TestCreateOrderAndClearCart(t *testing.T) {
	userID := uuid.New()
	cartID := uuid.New()

	t.Run("CommitsOrderItemsAndCartClearTogether", func(t *testing.T) {
		repo, mock := newOrderRepo(t)
		order := sampleOrder(userID)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO orders").
			WithArgs(order.ID, order.UserID, order.Status, order.Total).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(order.Items[0].ID, order.ID, order.Items[0].ProductID, order.Items[0].Quantity, order.Items[0].Price).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(order.Items[1].ID, order.ID, order.Items[1].ProductID, order.Items[1].Quantity, order.Items[1].Price).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("DELETE FROM cart_items WHERE cart_id").
			WithArgs(cartID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := repo.CreateOrderAndClearCart(context.Background(), order, cartID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ItemInsertFailureRollsBackOrder", func(t *testing.T) {
		repo, mock := newOrderRepo(t)
		order := sampleOrder(userID)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO orders").
			WithArgs(order.ID, order.UserID, order.Status, order.Total).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO order_items").
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		err := repo.CreateOrderAndClearCart(context.Background(), order, cartID)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMarkOrderPaidAndClearCart(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()

	t.Run("PendingOrderTransitionsToPaid", func(t *testing.T) {
		repo, mock := newOrderRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM orders WHERE id = (.+) FOR UPDATE").
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("PENDING"))
		mock.ExpectExec("UPDATE orders SET status").
			WithArgs(models.OrderStatusPaid, sqlmock.AnyArg(), orderID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM cart_items USING carts").
			WithArgs(userID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := repo.MarkOrderPaidAndClearCart(context.Background(), orderID, userID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyPaidOrderIsNoOp", func(t *testing.T) {
		repo, mock := newOrderRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM orders WHERE id = (.+) FOR UPDATE").
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("PAID"))
		mock.ExpectExec("DELETE FROM cart_items USING carts").
			WithArgs(userID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.MarkOrderPaidAndClearCart(context.Background(), orderID, userID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CancelledOrderCannotBePaid", func(t *testing.T) {
		repo, mock := newOrderRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM orders WHERE id = (.+) FOR UPDATE").
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("CANCELLED"))
		mock.ExpectRollback()

		err := repo.MarkOrderPaidAndClearCart(context.Background(), orderID, userID)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownOrderReturnsNoRows", func(t *testing.T) {
		repo, mock := newOrderRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM orders WHERE id = (.+) FOR UPDATE").
			WithArgs(orderID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.MarkOrderPaidAndClearCart(context.Background(), orderID, userID)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetPendingOrderByUser(t *testing.T) {
	userID := uuid.New()

	t.Run("ReturnsMostRecentPendingOrder", func(t *testing.T) {
		repo, mock := newOrderRepo(t)

		orderID := uuid.New()
		productID := uuid.New()
		itemID := uuid.New()

		now := time.Now()

		mock.ExpectQuery("SELECT id, user_id, status, total, created_at, updated_at FROM orders").
			WithArgs(userID, models.OrderStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status", "total", "created_at", "updated_at"}).
				AddRow(orderID.String(), userID.String(), "PENDING", "44.98", now, now))

		mock.ExpectQuery("SELECT id, product_id, quantity, price, created_at FROM order_items").
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity", "price", "created_at"}).
				AddRow(itemID.String(), productID.String(), 2, "19.99", now))

		order, err := repo.GetPendingOrderByUser(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, orderID, order.ID)
		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.Len(t, order.Items, 1)
		assert.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("19.99")))
	})

	t.Run("NoPendingOrderReturnsNoRows", func(t *testing.T) {
		repo, mock := newOrderRepo(t)

		mock.ExpectQuery("SELECT id, user_id, status, total, created_at, updated_at FROM orders").
			WithArgs(userID, models.OrderStatusPending).
			WillReturnError(sql.ErrNoRows)

		order, err := repo.GetPendingOrderByUser(context.Background(), userID)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}
