package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"shop-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	sent []int
	err  error
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, _ models.User, order models.Order) error {
	n.sent = append(n.sent, order.ID)
	return n.err
}

func statusPtr(s models.OrderStatus) *models.OrderStatus { return &s }

func TestOrderService_CreateComputesTotalAndSnapshotsPrices(t *testing.T) {
	f := newFixture(t)
	notifier := &recordingNotifier{}
	svc := NewOrderService(f.store, f.store, notifier)
	products := NewProductService(f.store, nil)
	ctx := context.Background()

	latte := f.addProduct(t, "Latte", "4.50")
	beans := f.addProduct(t, "Beans", "12.25")

	order, err := svc.Create(ctx, f.alice, models.CreateOrderRequest{Items: []models.OrderItemRequest{
		{ProductID: latte.ID, Quantity: 2},
		{ProductID: beans.ID, Quantity: 1},
		{ProductID: latte.ID, Quantity: 1},
	}})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, f.alice.UserID, order.UserID)
	assert.True(t, decimal.RequireFromString("25.75").Equal(order.TotalPrice), order.TotalPrice.String())
	require.Len(t, order.Items, 2)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, []int{order.ID}, notifier.sent)

	newPrice := decimal.RequireFromString("9.99")
	_, err = products.UpdateProduct(ctx, latte.ID, models.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)

	stored, err := svc.Get(ctx, f.alice, order.ID)
	require.NoError(t, err)
	assert.True(t, order.TotalPrice.Equal(stored.TotalPrice))
	assert.True(t, decimal.RequireFromString("4.50").Equal(stored.Items[0].UnitPrice))
}

func TestOrderService_CreateRejectsInvalidOrdersWithoutWriting(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.store, f.store, nil)
	ctx := context.Background()

	latte := f.addProduct(t, "Latte", "4.50")
	retired := f.addProduct(t, "Retired", "2.00")
	require.NoError(t, f.store.DeactivateProduct(ctx, retired.ID))
	espresso := f.addProduct(t, "Espresso Machine", "99999999.99")

	tests := []struct {
		name  string
		items []models.OrderItemRequest
	}{
		{name: "empty", items: nil},
		{name: "zero quantity", items: []models.OrderItemRequest{{ProductID: latte.ID, Quantity: 0}}},
		{name: "missing product id", items: []models.OrderItemRequest{{Quantity: 1}}},
		{name: "unknown product", items: []models.OrderItemRequest{
			{ProductID: latte.ID, Quantity: 1},
			{ProductID: 9999, Quantity: 1},
		}},
		{name: "inactive product", items: []models.OrderItemRequest{{ProductID: retired.ID, Quantity: 1}}},
		{name: "quantity above column range", items: []models.OrderItemRequest{
			{ProductID: latte.ID, Quantity: math.MaxInt32 + 1},
		}},
		{name: "merged quantity overflows", items: []models.OrderItemRequest{
			{ProductID: latte.ID, Quantity: math.MaxInt},
			{ProductID: latte.ID, Quantity: 2},
		}},
		{name: "merged quantity above column range", items: []models.OrderItemRequest{
			{ProductID: latte.ID, Quantity: math.MaxInt32},
			{ProductID: latte.ID, Quantity: 1},
		}},
		{name: "total above money range", items: []models.OrderItemRequest{
			{ProductID: espresso.ID, Quantity: 2},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, f.alice, models.CreateOrderRequest{Items: tt.items})
			assert.ErrorIs(t, err, ErrValidation)
			assert.Zero(t, f.store.CountOrders())
			assert.Zero(t, f.store.CountOrderItems())
		})
	}
}

func TestOrderService_NotifierFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t)
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	svc := NewOrderService(f.store, f.store, notifier)
	latte := f.addProduct(t, "Latte", "4.50")

	order, err := svc.Create(context.Background(), f.alice, models.CreateOrderRequest{
		Items: []models.OrderItemRequest{{ProductID: latte.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{order.ID}, notifier.sent)
	assert.Equal(t, 1, f.store.CountOrders())
}

func TestOrderService_ListIsScopedToPrincipal(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.store, f.store, nil)
	ctx := context.Background()
	latte := f.addProduct(t, "Latte", "4.50")

	place := func(p models.Principal, qty int) *models.Order {
		o, err := svc.Create(ctx, p, models.CreateOrderRequest{
			Items: []models.OrderItemRequest{{ProductID: latte.ID, Quantity: qty}},
		})
		require.NoError(t, err)
		return o
	}
	a1 := place(f.alice, 1)
	place(f.bob, 2)
	a2 := place(f.alice, 3)

	page := NewPage(1, 10)

	res, err := svc.List(ctx, f.alice, "", "", page)
	require.NoError(t, err)
	orders := res.Data.([]models.Order)
	require.Len(t, orders, 2)
	assert.Equal(t, a2.ID, orders[0].ID)
	assert.Equal(t, a1.ID, orders[1].ID)
	assert.Equal(t, 2, res.Meta.TotalItems)

	res, err = svc.List(ctx, f.staff, "", "total_price", page)
	require.NoError(t, err)
	orders = res.Data.([]models.Order)
	require.Len(t, orders, 3)
	assert.Equal(t, a1.ID, orders[0].ID)

	res, err = svc.List(ctx, f.alice, "", "", NewPage(100000000000000000, 100))
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Equal(t, 2, res.Meta.TotalItems)

	_, err = svc.List(ctx, f.alice, "Lost", "", page)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Get(ctx, f.bob, a1.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Get(ctx, f.staff, a1.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, f.alice, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderService_StatusMovesForwardOnly(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.store, f.store, nil)
	ctx := context.Background()
	latte := f.addProduct(t, "Latte", "4.50")

	order, err := svc.Create(ctx, f.alice, models.CreateOrderRequest{
		Items: []models.OrderItemRequest{{ProductID: latte.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	same, err := svc.Update(ctx, f.alice, order.ID, models.UpdateOrderRequest{Status: statusPtr(models.OrderStatusPending)})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, same.Status)

	_, err = svc.Update(ctx, f.alice, order.ID, models.UpdateOrderRequest{Status: statusPtr("Cancelled")})
	assert.ErrorIs(t, err, ErrValidation)

	shipped, err := svc.Update(ctx, f.staff, order.ID, models.UpdateOrderRequest{Status: statusPtr(models.OrderStatusShipped)})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, shipped.Status)

	_, err = svc.Update(ctx, f.alice, order.ID, models.UpdateOrderRequest{Status: statusPtr(models.OrderStatusPending)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, f.bob, order.ID, models.UpdateOrderRequest{Status: statusPtr(models.OrderStatusDelivered)})
	assert.ErrorIs(t, err, ErrForbidden)

	delivered, err := svc.Update(ctx, f.alice, order.ID, models.UpdateOrderRequest{Status: statusPtr(models.OrderStatusDelivered)})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, delivered.Status)
	assert.True(t, order.TotalPrice.Equal(delivered.TotalPrice))
}

func TestOrderService_RecomputeTotalIsStaffOnly(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.store, f.store, nil)
	products := NewProductService(f.store, nil)
	ctx := context.Background()
	latte := f.addProduct(t, "Latte", "4.50")

	order, err := svc.Create(ctx, f.alice, models.CreateOrderRequest{
		Items: []models.OrderItemRequest{{ProductID: latte.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("5.00")
	_, err = products.UpdateProduct(ctx, latte.ID, models.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)

	_, err = svc.Update(ctx, f.alice, order.ID, models.UpdateOrderRequest{RecomputeTotal: true})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(ctx, f.staff, order.ID, models.UpdateOrderRequest{RecomputeTotal: true})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("10.00").Equal(updated.TotalPrice), updated.TotalPrice.String())
	assert.True(t, newPrice.Equal(updated.Items[0].UnitPrice))

	topPrice := decimal.RequireFromString("99999999.99")
	_, err = products.UpdateProduct(ctx, latte.ID, models.UpdateProductRequest{Price: &topPrice})
	require.NoError(t, err)

	_, err = svc.Update(ctx, f.staff, order.ID, models.UpdateOrderRequest{RecomputeTotal: true})
	assert.ErrorIs(t, err, ErrValidation)
	kept, err := svc.Get(ctx, f.staff, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("10.00").Equal(kept.TotalPrice), kept.TotalPrice.String())
}
