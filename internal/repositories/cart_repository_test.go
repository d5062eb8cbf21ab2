package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	repository "github.com/storefrontlabs/storefront-api/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartRepo(t *testing.T) (repository.CartRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return repository.NewCartRepo(db), mock
}

func TestGetCartByUserID(t *testing.T) {
	userID := uuid.New()
	cartID := uuid.New()

	t.Run("JoinsProductsAtCurrentPrices", func(t *testing.T) {
		repo, mock := newCartRepo(t)

		productID := uuid.New()
		now := time.Now()

		mock.ExpectQuery("SELECT id, user_id, created_at, updated_at FROM carts").
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at", "updated_at"}).
				AddRow(cartID.String(), userID.String(), now, now))

		mock.ExpectQuery("SELECT ci.product_id, ci.quantity").
			WithArgs(cartID).
			WillReturnRows(sqlmock.NewRows([]string{
				"product_id", "quantity", "id", "name", "description", "price", "stock_quantity", "category", "image_url",
			}).AddRow(productID.String(), 2, productID.String(), "Go Book", "A book", "19.99", 10, "books", ""))

		cart, err := repo.GetCartByUserID(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, cartID, cart.ID)
		require.Len(t, cart.Items, 1)
		require.NotNil(t, cart.Items[0].Product)
		assert.True(t, cart.Items[0].Product.Price.Equal(decimal.RequireFromString("19.99")))
		assert.Equal(t, int64(2), cart.Items[0].Quantity)
	})

	t.Run("DeletedProductYieldsNilProduct", func(t *testing.T) {
		repo, mock := newCartRepo(t)

		productID := uuid.New()
		now := time.Now()

		mock.ExpectQuery("SELECT id, user_id, created_at, updated_at FROM carts").
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at", "updated_at"}).
				AddRow(cartID.String(), userID.String(), now, now))

		mock.ExpectQuery("SELECT ci.product_id, ci.quantity").
			WithArgs(cartID).
			WillReturnRows(sqlmock.NewRows([]string{
				"product_id", "quantity", "id", "name", "description", "price", "stock_quantity", "category", "image_url",
			}).AddRow(productID.String(), 1, nil, nil, nil, nil, nil, nil, nil))

		cart, err := repo.GetCartByUserID(context.Background(), userID)

		assert.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Nil(t, cart.Items[0].Product)
		assert.Equal(t, productID, cart.Items[0].ProductID)
	})

	t.Run("MissingCartReturnsNoRows", func(t *testing.T) {
		repo, mock := newCartRepo(t)

		mock.ExpectQuery("SELECT id, user_id, created_at, updated_at FROM carts").
			WithArgs(userID).
			WillReturnError(sql.ErrNoRows)

		cart, err := repo.GetCartByUserID(context.Background(), userID)

		assert.Nil(t, cart)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestCartAddItem(t *testing.T) {
	cartID := uuid.New()
	productID := uuid.New()

	t.Run("UpsertsQuantityOnConflict", func(t *testing.T) {
		repo, mock := newCartRepo(t)

		mock.ExpectExec("INSERT INTO cart_items").
			WithArgs(cartID, productID, int64(2)).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.AddItem(context.Background(), cartID, productID, 2)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCartRemoveItem(t *testing.T) {
	cartID := uuid.New()
	productID := uuid.New()

	t.Run("MissingItemReturnsNoRows", func(t *testing.T) {
		repo, mock := newCartRepo(t)

		mock.ExpectExec("DELETE FROM cart_items").
			WithArgs(cartID, productID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RemoveItem(context.Background(), cartID, productID)

		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}
