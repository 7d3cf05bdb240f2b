package repositories

import (
	"context"
	"errors"

	"shop-api/models"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflict")
	// ErrInvalid is a value the schema rejects.
	ErrInvalid  = errors.New("record invalid")
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id int) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type ProductFilter struct {
	CategoryID  int
	NewestFirst bool
	Limit       int
	Offset      int
}

type ProductStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	CategoryExists(ctx context.Context, id int) (bool, error)

	// ListProducts returns active products only.
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int, error)
	// GetProductByID returns the product whether or not it is active.
	GetProductByID(ctx context.Context, id int) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeactivateProduct(ctx context.Context, id int) error
}

// ProductCache is an optional read-through cache for single products.
type ProductCache interface {
	GetProduct(ctx context.Context, id int) (*models.Product, bool)
	SetProduct(ctx context.Context, product *models.Product)
	InvalidateProduct(ctx context.Context, id int)
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id int) (*models.Comment, error)
	ListComments(ctx context.Context, filter models.CommentFilter) ([]models.Comment, int, error)
	DeleteComment(ctx context.Context, id int) error
}

type CartStore interface {
	// GetOrCreateCart must be atomic: concurrent callers for the same user
	// observe the same cart.
	GetOrCreateCart(ctx context.Context, userID int) (*models.Cart, error)
	GetCartByID(ctx context.Context, id int) (*models.Cart, error)

	// UpsertCartItem sets the quantity of (cartID, productID), creating the
	// row if needed, in a single atomic step.
	UpsertCartItem(ctx context.Context, cartID, productID, quantity int) (*models.CartItem, error)
	GetCartItem(ctx context.Context, id int) (*models.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, id, quantity int) (*models.CartItem, error)
	DeleteCartItem(ctx context.Context, id int) error
	// ListCartItems embeds the current product row in every item.
	ListCartItems(ctx context.Context, cartID int) ([]models.CartItem, error)
}

// OrderTx is the set of writes available inside an order transaction.
type OrderTx interface {
	// LockProducts returns the active products among ids, keyed by id,
	// and keeps them from changing until the transaction ends.
	LockProducts(ctx context.Context, ids []int) (map[int]models.Product, error)
	InsertOrder(ctx context.Context, order *models.Order) error
	InsertOrderItems(ctx context.Context, orderID int, items []models.OrderItem) error
	GetOrderForUpdate(ctx context.Context, id int) (*models.Order, error)
	UpdateOrderTotal(ctx context.Context, id int, total decimal.Decimal, items []models.OrderItem) error
}

type OrderStore interface {
	// InTx runs fn in a transaction. Returning an error from fn discards
	// every write made through tx.
	InTx(ctx context.Context, fn func(tx OrderTx) error) error
	GetOrderByID(ctx context.Context, id int) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error)
	// UpdateOrderStatus writes next only if the stored status still equals
	// current, otherwise it returns ErrConflict.
	UpdateOrderStatus(ctx context.Context, id int, current, next models.OrderStatus) (*models.Order, error)
}

var (
	_ UserStore    = (*UserRepository)(nil)
	_ ProductStore = (*ProductRepository)(nil)
	_ ProductCache = (*RedisProductCache)(nil)
	_ CommentStore = (*CommentRepository)(nil)
	_ CartStore    = (*CartRepository)(nil)
	_ OrderStore   = (*OrderRepository)(nil)
)
