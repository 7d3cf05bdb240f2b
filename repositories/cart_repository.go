package repositories

import (
	"context"

	"shop-api/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CartRepository struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{db: db}
}

const cartItemColumns = `id, cart_id, product_id, quantity, created_at, updated_at`

func (r *CartRepository) GetOrCreateCart(ctx context.Context, userID int) (*models.Cart, error) {
	// The no-op update makes RETURNING yield the existing row on conflict,
	// so the unique index on user_id is the only arbiter between racing requests.
	query := `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at
	`
	cart := &models.Cart{Items: []models.CartItem{}}
	if err := r.db.QueryRow(ctx, query, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return cart, nil
}

func (r *CartRepository) GetCartByID(ctx context.Context, id int) (*models.Cart, error) {
	cart := &models.Cart{Items: []models.CartItem{}}
	err := r.db.QueryRow(ctx, `SELECT id, user_id, created_at FROM carts WHERE id = $1`, id).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return cart, nil
}

func (r *CartRepository) UpsertCartItem(ctx context.Context, cartID, productID, quantity int) (*models.CartItem, error) {
	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()
		RETURNING ` + cartItemColumns

	item := &models.CartItem{}
	err := r.db.QueryRow(ctx, query, cartID, productID, quantity).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

func (r *CartRepository) GetCartItem(ctx context.Context, id int) (*models.CartItem, error) {
	item := &models.CartItem{}
	err := r.db.QueryRow(ctx, `SELECT `+cartItemColumns+` FROM cart_items WHERE id = $1`, id).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

func (r *CartRepository) UpdateCartItemQuantity(ctx context.Context, id, quantity int) (*models.CartItem, error) {
	query := `
		UPDATE cart_items SET quantity = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + cartItemColumns

	item := &models.CartItem{}
	err := r.db.QueryRow(ctx, query, quantity, id).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

func (r *CartRepository) DeleteCartItem(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CartRepository) ListCartItems(ctx context.Context, cartID int) ([]models.CartItem, error) {
	query := `
		SELECT
			ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
			p.id, p.name, p.description, p.price, p.stock, p.category_id,
			p.image_url, p.is_active, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`
	rows, err := r.db.Query(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		p := &models.Product{}
		err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID,
			&p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		item.Product = p
		items = append(items, item)
	}
	return items, rows.Err()
}
