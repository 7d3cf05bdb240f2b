package memstore

import (
	"context"
	"errors"
	"math"
	"testing"

	"shop-api/models"
	"shop-api/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInTxDiscardsWritesOnError(t *testing.T) {
	s := New()
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, s.CreateUser(ctx, user))

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx repositories.OrderTx) error {
		o := &models.Order{UserID: user.ID, TotalPrice: decimal.NewFromInt(1), Status: models.OrderStatusPending}
		if err := tx.InsertOrder(ctx, o); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, s.CountOrders())
}

func TestUniqueConstraints(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &models.User{Username: "alice", Email: "a@example.com"}))
	err := s.CreateUser(ctx, &models.User{Username: "ALICE", Email: "b@example.com"})
	assert.ErrorIs(t, err, repositories.ErrConflict)
	err = s.CreateUser(ctx, &models.User{Username: "bob", Email: "A@Example.com"})
	assert.ErrorIs(t, err, repositories.ErrConflict)

	_, err = s.GetOrCreateCart(ctx, 9999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestPageOutOfRange(t *testing.T) {
	all := []int{1, 2, 3}

	assert.Equal(t, []int{2, 3}, page(all, 10, 1))
	assert.Equal(t, []int{1}, page(all, 1, 0))
	assert.Empty(t, page(all, 10, 3))
	assert.Empty(t, page(all, 10, -5))
	assert.Equal(t, []int{3}, page(all, math.MaxInt, 2))
}
