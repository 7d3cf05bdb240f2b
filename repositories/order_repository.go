package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shop-api/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, total_price, status, created_at, updated_at`

var orderOrderings = map[string]string{
	"created_at":   "created_at ASC, id ASC",
	"-created_at":  "created_at DESC, id DESC",
	"total_price":  "total_price ASC, id ASC",
	"-total_price": "total_price DESC, id DESC",
}

func scanOrder(row pgx.Row, o *models.Order) error {
	return row.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.CreatedAt, &o.UpdatedAt)
}

func (r *OrderRepository) InTx(ctx context.Context, fn func(tx OrderTx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&orderTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order transaction: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id int) (*models.Order, error) {
	var o models.Order
	if err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), &o); err != nil {
		return nil, mapError(err)
	}

	items, err := loadOrderItems(ctx, r.db, []int{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = orEmpty(items[o.ID])
	return &o, nil
}

func (r *OrderRepository) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	where := []string{}
	args := []any{}

	// Ownership scoping is always the first predicate.
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy, ok := orderOrderings[filter.Ordering]
	if !ok {
		orderBy = orderOrderings["-created_at"]
	}
	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + orderColumns + ` FROM orders` + whereClause +
		" ORDER BY " + orderBy +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []models.Order{}
	ids := []int{}
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	if len(ids) == 0 {
		return orders, total, nil
	}

	items, err := loadOrderItems(ctx, r.db, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = orEmpty(items[orders[i].ID])
	}
	return orders, total, nil
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id int, current, next models.OrderStatus) (*models.Order, error) {
	query := `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING ` + orderColumns

	var o models.Order
	err := scanOrder(r.db.QueryRow(ctx, query, string(next), id, string(current)), &o)
	if err != nil {
		err = mapError(err)
		if errors.Is(err, ErrNotFound) {
			// either the order vanished or its status moved under us
			if _, getErr := r.GetOrderByID(ctx, id); getErr == nil {
				return nil, fmt.Errorf("%w: order %d status changed", ErrConflict, id)
			}
		}
		return nil, err
	}

	items, err := loadOrderItems(ctx, r.db, []int{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = orEmpty(items[o.ID])
	return &o, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadOrderItems(ctx context.Context, q querier, orderIDs []int) (map[int][]models.OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byOrder := make(map[int][]models.OrderItem, len(orderIDs))
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	return byOrder, rows.Err()
}

func orEmpty(items []models.OrderItem) []models.OrderItem {
	if items == nil {
		return []models.OrderItem{}
	}
	return items
}

type orderTx struct {
	tx pgx.Tx
}

func (t *orderTx) LockProducts(ctx context.Context, ids []int) (map[int]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE id = ANY($1) AND is_active = true
		ORDER BY id
		FOR SHARE`

	rows, err := t.tx.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make(map[int]models.Product, len(ids))
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		products[p.ID] = p
	}
	return products, rows.Err()
}

func (t *orderTx) InsertOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (user_id, total_price, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := t.tx.QueryRow(ctx, query, order.UserID, order.TotalPrice, string(order.Status)).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	return mapError(err)
}

func (t *orderTx) InsertOrderItems(ctx context.Context, orderID int, items []models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	for i := range items {
		items[i].OrderID = orderID
		err := t.tx.QueryRow(ctx, query, orderID, items[i].ProductID, items[i].Quantity, items[i].UnitPrice).
			Scan(&items[i].ID)
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (t *orderTx) GetOrderForUpdate(ctx context.Context, id int) (*models.Order, error) {
	var o models.Order
	err := scanOrder(t.tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id), &o)
	if err != nil {
		return nil, mapError(err)
	}

	items, err := loadOrderItems(ctx, t.tx, []int{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = orEmpty(items[o.ID])
	return &o, nil
}

func (t *orderTx) UpdateOrderTotal(ctx context.Context, id int, total decimal.Decimal, items []models.OrderItem) error {
	tag, err := t.tx.Exec(ctx, `UPDATE orders SET total_price = $1, updated_at = NOW() WHERE id = $2`, total, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	for _, it := range items {
		_, err := t.tx.Exec(ctx, `UPDATE order_items SET unit_price = $1 WHERE id = $2 AND order_id = $3`,
			it.UnitPrice, it.ID, id)
		if err != nil {
			return err
		}
	}
	return nil
}
