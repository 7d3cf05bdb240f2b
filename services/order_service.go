package services

import (
	"context"
	"errors"
	"fmt"

	"shop-api/models"
	"shop-api/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderNotifier is told about every committed order.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, user models.User, order models.Order) error
}

type OrderService struct {
	orders   repositories.OrderStore
	users    repositories.UserStore
	notifier OrderNotifier
}

// NewOrderService wires the order engine. notifier may be nil.
func NewOrderService(orders repositories.OrderStore, users repositories.UserStore, notifier OrderNotifier) *OrderService {
	return &OrderService{orders: orders, users: users, notifier: notifier}
}

// Create prices and stores an order in one transaction. Lines naming the
// same product are merged before pricing.
func (s *OrderService) Create(ctx context.Context, principal models.Principal, req models.CreateOrderRequest) (*models.Order, error) {
	lines, err := mergeOrderLines(req.Items)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.orders.InTx(ctx, func(tx repositories.OrderTx) error {
		ids := make([]int, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ProductID)
		}

		products, err := tx.LockProducts(ctx, ids)
		if err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, l := range lines {
			p, ok := products[l.ProductID]
			if !ok {
				return validationError("items", fmt.Sprintf("Product %d does not exist", l.ProductID))
			}
			total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
			items = append(items, models.OrderItem{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: p.Price,
			})
		}

		if err := checkOrderTotal(total); err != nil {
			return err
		}

		o := &models.Order{
			UserID:     principal.UserID,
			TotalPrice: total,
			Status:     models.OrderStatusPending,
		}
		if err := tx.InsertOrder(ctx, o); err != nil {
			return err
		}
		if err := tx.InsertOrderItems(ctx, o.ID, items); err != nil {
			return err
		}
		o.Items = items
		order = o
		return nil
	})
	if err != nil {
		return nil, asServiceError("create order", err)
	}

	zap.L().Info("order placed",
		zap.Int("order_id", order.ID),
		zap.Int("user_id", order.UserID),
		zap.String("total_price", order.TotalPrice.StringFixed(2)),
	)
	s.notify(ctx, *order)
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, principal models.Principal, id int) (*models.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Order not found")
		}
		return nil, internalFault("get order", err)
	}
	if !principal.CanAccess(order.UserID) {
		return nil, forbidden("You do not have permission to access this order")
	}
	return order, nil
}

// Update applies a partial update. Status may only stay or move forward.
// RecomputeTotal re-prices the items at current product prices and is
// reserved to staff.
func (s *OrderService) Update(ctx context.Context, principal models.Principal, id int, req models.UpdateOrderRequest) (*models.Order, error) {
	order, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if req.RecomputeTotal && !principal.IsStaff {
		return nil, forbidden("Only staff can recompute an order total")
	}

	if req.Status != nil && *req.Status != order.Status {
		next := *req.Status
		if !next.Valid() {
			return nil, validationError("status", fmt.Sprintf("%q is not a valid status", next))
		}
		if !order.Status.CanTransitionTo(next) {
			return nil, validationError("status", fmt.Sprintf("Cannot change status from %s to %s", order.Status, next))
		}

		order, err = s.orders.UpdateOrderStatus(ctx, id, order.Status, next)
		if err != nil {
			if errors.Is(err, repositories.ErrConflict) {
				return nil, validationError("status", "Order status changed concurrently, retry")
			}
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, notFound("Order not found")
			}
			return nil, internalFault("update order status", err)
		}
	}

	if req.RecomputeTotal {
		if err := s.recomputeTotal(ctx, id); err != nil {
			return nil, err
		}
		return s.Get(ctx, principal, id)
	}
	return order, nil
}

func (s *OrderService) recomputeTotal(ctx context.Context, id int) error {
	err := s.orders.InTx(ctx, func(tx repositories.OrderTx) error {
		order, err := tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}

		ids := make([]int, 0, len(order.Items))
		for _, it := range order.Items {
			ids = append(ids, it.ProductID)
		}
		products, err := tx.LockProducts(ctx, ids)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for i, it := range order.Items {
			// deactivated products keep the price captured at placement
			if p, ok := products[it.ProductID]; ok {
				order.Items[i].UnitPrice = p.Price
			}
			total = total.Add(order.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		if err := checkOrderTotal(total); err != nil {
			return err
		}
		return tx.UpdateOrderTotal(ctx, id, total, order.Items)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("Order not found")
		}
		return asServiceError("recompute order total", err)
	}
	return nil
}

// List returns the principal's orders, or every order for staff.
func (s *OrderService) List(ctx context.Context, principal models.Principal, status models.OrderStatus, ordering string, page Page) (*models.PaginationResponse, error) {
	if status != "" && !status.Valid() {
		return nil, validationError("status", fmt.Sprintf("%q is not a valid status", status))
	}

	filter := models.OrderFilter{
		Status:   status,
		Ordering: ordering,
		Limit:    page.Limit,
		Offset:   page.Offset(),
	}
	if !principal.IsStaff {
		userID := principal.UserID
		filter.UserID = &userID
	}

	orders, total, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		return nil, internalFault("list orders", err)
	}

	return &models.PaginationResponse{
		Success: true,
		Message: "Orders retrieved successfully",
		Data:    orders,
		Meta:    page.Meta(total),
	}, nil
}

func (s *OrderService) notify(ctx context.Context, order models.Order) {
	if s.notifier == nil {
		return
	}

	user, err := s.users.FindUserByID(ctx, order.UserID)
	if err == nil {
		err = s.notifier.OrderPlaced(ctx, *user, order)
	}
	if err != nil {
		zap.L().Warn("order confirmation not sent", zap.Int("order_id", order.ID), zap.Error(err))
	}
}

func mergeOrderLines(items []models.OrderItemRequest) ([]models.OrderLine, error) {
	if len(items) == 0 {
		return nil, validationError("items", "Order must contain at least one item")
	}

	lines := make([]models.OrderLine, 0, len(items))
	index := make(map[int]int, len(items))
	for _, it := range items {
		if it.ProductID <= 0 {
			return nil, validationError("items", "Every item needs a product_id")
		}
		if it.Quantity <= 0 {
			return nil, validationError("items", "Quantity must be greater than zero")
		}
		if i, ok := index[it.ProductID]; ok {
			if it.Quantity > maxQuantity-lines[i].Quantity {
				return nil, quantityTooLarge(it.ProductID)
			}
			lines[i].Quantity += it.Quantity
			continue
		}
		if it.Quantity > maxQuantity {
			return nil, quantityTooLarge(it.ProductID)
		}
		index[it.ProductID] = len(lines)
		lines = append(lines, models.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines, nil
}

func quantityTooLarge(productID int) error {
	return validationError("items", fmt.Sprintf("Quantity of product %d must not exceed %d", productID, maxQuantity))
}

func checkOrderTotal(total decimal.Decimal) error {
	if total.GreaterThan(maxAmount) {
		return validationError("items", fmt.Sprintf("Order total must not exceed %s", maxAmount.StringFixed(2)))
	}
	return nil
}

// asServiceError passes service errors raised inside a transaction through
// and wraps anything else as an internal fault.
func asServiceError(op string, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, repositories.ErrInvalid) {
		return validationError("items", "Order values are out of range")
	}
	return internalFault(op, err)
}
