package repositories

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"shop-api/config"
	"shop-api/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_URL, migrates it and empties every
// table. Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := &config.Config{DatabaseURL: url, DBMaxConns: 10, MigrationsDir: "../database/migration"}
	require.NoError(t, config.RunMigrations(cfg))

	pool, err := config.ConnectDB(cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `
		TRUNCATE order_items, orders, cart_items, carts, comments, products, categories, users
		RESTART IDENTITY CASCADE
	`)
	require.NoError(t, err)
	return pool
}

func seed(t *testing.T, pool *pgxpool.Pool) (models.User, models.Product) {
	t.Helper()
	ctx := context.Background()

	user := models.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, NewUserRepository(pool).CreateUser(ctx, &user))

	products := NewProductRepository(pool)
	cat := models.Category{Name: "Coffee"}
	require.NoError(t, products.CreateCategory(ctx, &cat))

	p := models.Product{Name: "Latte", Price: decimal.RequireFromString("4.50"), Stock: 3, CategoryID: cat.ID}
	require.NoError(t, products.CreateProduct(ctx, &p))
	return user, p
}

func TestPostgres_GetOrCreateCartConcurrent(t *testing.T) {
	pool := openTestDB(t)
	user, product := seed(t, pool)
	carts := NewCartRepository(pool)
	ctx := context.Background()

	const workers = 8
	ids := make([]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cart, err := carts.GetOrCreateCart(ctx, user.ID)
			if assert.NoError(t, err) {
				ids[i] = cart.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	var n int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM carts WHERE user_id = $1`, user.ID).Scan(&n))
	assert.Equal(t, 1, n)

	first, err := carts.UpsertCartItem(ctx, ids[0], product.ID, 2)
	require.NoError(t, err)
	second, err := carts.UpsertCartItem(ctx, ids[0], product.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	items, err := carts.ListCartItems(ctx, ids[0])
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.True(t, product.Price.Equal(items[0].Product.Price))
}

func TestPostgres_OrderTransactionRollsBack(t *testing.T) {
	pool := openTestDB(t)
	user, product := seed(t, pool)
	orders := NewOrderRepository(pool)
	ctx := context.Background()

	boom := errors.New("boom")
	err := orders.InTx(ctx, func(tx OrderTx) error {
		o := &models.Order{UserID: user.ID, TotalPrice: product.Price, Status: models.OrderStatusPending}
		if err := tx.InsertOrder(ctx, o); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, total, err := orders.ListOrders(ctx, models.OrderFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)

	var created *models.Order
	err = orders.InTx(ctx, func(tx OrderTx) error {
		locked, err := tx.LockProducts(ctx, []int{product.ID})
		if err != nil {
			return err
		}
		price := locked[product.ID].Price
		o := &models.Order{
			UserID:     user.ID,
			TotalPrice: price.Mul(decimal.NewFromInt(2)),
			Status:     models.OrderStatusPending,
		}
		if err := tx.InsertOrder(ctx, o); err != nil {
			return err
		}
		items := []models.OrderItem{{ProductID: product.ID, Quantity: 2, UnitPrice: price}}
		if err := tx.InsertOrderItems(ctx, o.ID, items); err != nil {
			return err
		}
		created = o
		return nil
	})
	require.NoError(t, err)

	got, err := orders.GetOrderByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("9.00").Equal(got.TotalPrice))
	require.Len(t, got.Items, 1)

	_, err = orders.UpdateOrderStatus(ctx, created.ID, models.OrderStatusShipped, models.OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrConflict)

	shipped, err := orders.UpdateOrderStatus(ctx, created.ID, models.OrderStatusPending, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, shipped.Status)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	other := errors.New("other")
	assert.Equal(t, other, mapError(other))
	assert.ErrorIs(t, mapError(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}), ErrConflict)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23503", ConstraintName: "carts_user_id_fkey"}), ErrNotFound)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23514", ConstraintName: "order_items_quantity_check"}), ErrInvalid)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "22003", Message: "numeric field overflow"}), ErrInvalid)
}

func TestPostgres_UserUniquenessIgnoresCase(t *testing.T) {
	pool := openTestDB(t)
	seed(t, pool)
	users := NewUserRepository(pool)
	ctx := context.Background()

	err := users.CreateUser(ctx, &models.User{Username: "ALICE", Email: "other@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrConflict)
	err = users.CreateUser(ctx, &models.User{Username: "bob", Email: "Alice@Example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrConflict)

	exists, err := users.EmailExists(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}
