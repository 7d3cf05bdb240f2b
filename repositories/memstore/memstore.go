// Package memstore implements the repository interfaces in process memory.
// It backs the service and controller tests and the STORE_DRIVER=memory
// mode used for local runs without Postgres. Unique constraints and
// transactions follow the same rules as the Postgres schema.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"shop-api/models"
	"shop-api/repositories"

	"github.com/shopspring/decimal"
)

type cartKey struct {
	cartID    int
	productID int
}

type Store struct {
	mu sync.Mutex

	seq int

	users      map[int]models.User
	categories map[int]models.Category
	products   map[int]models.Product
	comments   map[int]models.Comment
	carts      map[int]models.Cart
	cartByUser map[int]int
	cartItems  map[int]models.CartItem
	itemByKey  map[cartKey]int
	orders     map[int]models.Order
	orderItems map[int][]models.OrderItem

	now func() time.Time
}

var (
	_ repositories.UserStore    = (*Store)(nil)
	_ repositories.ProductStore = (*Store)(nil)
	_ repositories.CommentStore = (*Store)(nil)
	_ repositories.CartStore    = (*Store)(nil)
	_ repositories.OrderStore   = (*Store)(nil)
)

func New() *Store {
	return &Store{
		users:      map[int]models.User{},
		categories: map[int]models.Category{},
		products:   map[int]models.Product{},
		comments:   map[int]models.Comment{},
		carts:      map[int]models.Cart{},
		cartByUser: map[int]int{},
		cartItems:  map[int]models.CartItem{},
		itemByKey:  map[cartKey]int{},
		orders:     map[int]models.Order{},
		orderItems: map[int][]models.OrderItem{},
		now:        time.Now,
	}
}

func (s *Store) nextID() int {
	s.seq++
	return s.seq
}

// Users

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("%w: users", repositories.ErrConflict)
		}
	}
	now := s.now()
	user.ID = s.nextID()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	return nil
}

func (s *Store) FindUserByID(_ context.Context, id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *Store) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// Catalog

func (s *Store) ListCategories(_ context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateCategory(_ context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category.ID = s.nextID()
	category.CreatedAt = s.now()
	s.categories[category.ID] = *category
	return nil
}

func (s *Store) CategoryExists(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.categories[id]
	return ok, nil
}

func (s *Store) ListProducts(_ context.Context, filter repositories.ProductFilter) ([]models.Product, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := []models.Product{}
	for _, p := range s.products {
		if !p.IsActive {
			continue
		}
		if filter.CategoryID > 0 && p.CategoryID != filter.CategoryID {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if filter.NewestFirst {
			if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].CreatedAt.After(all[j].CreatedAt)
			}
			return all[i].ID > all[j].ID
		}
		return all[i].ID < all[j].ID
	})
	return page(all, filter.Limit, filter.Offset), len(all), nil
}

func (s *Store) GetProductByID(_ context.Context, id int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (s *Store) CreateProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[product.CategoryID]; !ok {
		return fmt.Errorf("%w: products_category_id_fkey", repositories.ErrNotFound)
	}
	now := s.now()
	product.ID = s.nextID()
	product.IsActive = true
	product.CreatedAt, product.UpdatedAt = now, now
	s.products[product.ID] = *product
	return nil
}

func (s *Store) UpdateProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	product.IsActive = existing.IsActive
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = s.now()
	s.products[product.ID] = *product
	return nil
}

func (s *Store) DeactivateProduct(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.IsActive = false
	p.UpdatedAt = s.now()
	s.products[id] = p
	return nil
}

// Comments

func (s *Store) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[comment.ProductID]; !ok {
		return fmt.Errorf("%w: comments_product_id_fkey", repositories.ErrNotFound)
	}
	comment.ID = s.nextID()
	comment.CreatedAt = s.now()
	s.comments[comment.ID] = *comment
	return nil
}

func (s *Store) GetCommentByID(_ context.Context, id int) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListComments(_ context.Context, filter models.CommentFilter) ([]models.Comment, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := []models.Comment{}
	for _, c := range s.comments {
		if filter.ProductID > 0 && c.ProductID != filter.ProductID {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return page(all, filter.Limit, filter.Offset), len(all), nil
}

func (s *Store) DeleteComment(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

// Carts

func (s *Store) GetOrCreateCart(_ context.Context, userID int) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.cartByUser[userID]; ok {
		c := s.carts[id]
		c.Items = []models.CartItem{}
		return &c, nil
	}
	if _, ok := s.users[userID]; !ok {
		return nil, fmt.Errorf("%w: carts_user_id_fkey", repositories.ErrNotFound)
	}

	c := models.Cart{ID: s.nextID(), UserID: userID, CreatedAt: s.now()}
	s.carts[c.ID] = c
	s.cartByUser[userID] = c.ID
	c.Items = []models.CartItem{}
	return &c, nil
}

func (s *Store) GetCartByID(_ context.Context, id int) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c.Items = []models.CartItem{}
	return &c, nil
}

func (s *Store) UpsertCartItem(_ context.Context, cartID, productID, quantity int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[cartID]; !ok {
		return nil, fmt.Errorf("%w: cart_items_cart_id_fkey", repositories.ErrNotFound)
	}
	if _, ok := s.products[productID]; !ok {
		return nil, fmt.Errorf("%w: cart_items_product_id_fkey", repositories.ErrNotFound)
	}

	now := s.now()
	key := cartKey{cartID: cartID, productID: productID}
	if id, ok := s.itemByKey[key]; ok {
		item := s.cartItems[id]
		item.Quantity = quantity
		item.UpdatedAt = now
		s.cartItems[id] = item
		return &item, nil
	}

	item := models.CartItem{
		ID:        s.nextID(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.cartItems[item.ID] = item
	s.itemByKey[key] = item.ID
	return &item, nil
}

func (s *Store) GetCartItem(_ context.Context, id int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cartItems[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &item, nil
}

func (s *Store) UpdateCartItemQuantity(_ context.Context, id, quantity int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cartItems[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	item.Quantity = quantity
	item.UpdatedAt = s.now()
	s.cartItems[id] = item
	return &item, nil
}

func (s *Store) DeleteCartItem(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cartItems[id]
	if !ok {
		return repositories.ErrNotFound
	}
	delete(s.cartItems, id)
	delete(s.itemByKey, cartKey{cartID: item.CartID, productID: item.ProductID})
	return nil
}

func (s *Store) ListCartItems(_ context.Context, cartID int) ([]models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := []models.CartItem{}
	for _, item := range s.cartItems {
		if item.CartID != cartID {
			continue
		}
		p := s.products[item.ProductID]
		item.Product = &p
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// CountCarts reports how many carts exist for userID.
func (s *Store) CountCarts(userID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, c := range s.carts {
		if c.UserID == userID {
			n++
		}
	}
	return n
}

// Orders

// InTx holds the store lock for the whole transaction, so transactions are
// serialized. Writes are staged in the tx and applied only when fn succeeds.
func (s *Store) InTx(ctx context.Context, fn func(tx repositories.OrderTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s, orders: map[int]models.Order{}, items: map[int][]models.OrderItem{}}
	if err := fn(tx); err != nil {
		return err
	}

	for id, o := range tx.orders {
		s.orders[id] = o
	}
	for id, items := range tx.items {
		s.orderItems[id] = items
	}
	return nil
}

func (s *Store) GetOrderByID(_ context.Context, id int) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.orderLocked(id)
}

func (s *Store) orderLocked(id int) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	o.Items = slices.Clone(s.orderItems[id])
	if o.Items == nil {
		o.Items = []models.OrderItem{}
	}
	return &o, nil
}

func (s *Store) ListOrders(_ context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := []models.Order{}
	for id := range s.orders {
		o, _ := s.orderLocked(id)
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		all = append(all, *o)
	}

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		switch filter.Ordering {
		case "created_at":
			return a.ID < b.ID
		case "total_price":
			if !a.TotalPrice.Equal(b.TotalPrice) {
				return a.TotalPrice.LessThan(b.TotalPrice)
			}
			return a.ID < b.ID
		case "-total_price":
			if !a.TotalPrice.Equal(b.TotalPrice) {
				return a.TotalPrice.GreaterThan(b.TotalPrice)
			}
			return a.ID > b.ID
		default:
			return a.ID > b.ID
		}
	})
	return page(all, filter.Limit, filter.Offset), len(all), nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id int, current, next models.OrderStatus) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if o.Status != current {
		return nil, fmt.Errorf("%w: order %d status changed", repositories.ErrConflict, id)
	}
	o.Status = next
	o.UpdatedAt = s.now()
	s.orders[id] = o
	return s.orderLocked(id)
}

// CountOrders reports the number of committed orders.
func (s *Store) CountOrders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// CountOrderItems reports the number of committed order items.
func (s *Store) CountOrderItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, items := range s.orderItems {
		n += len(items)
	}
	return n
}

// memTx reads through to the store and stages its writes. Like Postgres
// sequences, ids consumed by a failed transaction are not reused.
type memTx struct {
	store  *Store
	orders map[int]models.Order
	items  map[int][]models.OrderItem
}

func (t *memTx) nextID() int {
	return t.store.nextID()
}

func (t *memTx) LockProducts(_ context.Context, ids []int) (map[int]models.Product, error) {
	out := make(map[int]models.Product, len(ids))
	for _, id := range ids {
		if p, ok := t.store.products[id]; ok && p.IsActive {
			out[id] = p
		}
	}
	return out, nil
}

func (t *memTx) InsertOrder(_ context.Context, order *models.Order) error {
	if _, ok := t.store.users[order.UserID]; !ok {
		return fmt.Errorf("%w: orders_user_id_fkey", repositories.ErrNotFound)
	}
	now := t.store.now()
	order.ID = t.nextID()
	order.CreatedAt, order.UpdatedAt = now, now

	stored := *order
	stored.Items = nil
	t.orders[order.ID] = stored
	return nil
}

func (t *memTx) InsertOrderItems(_ context.Context, orderID int, items []models.OrderItem) error {
	if _, ok := t.orders[orderID]; !ok {
		if _, ok := t.store.orders[orderID]; !ok {
			return fmt.Errorf("%w: order_items_order_id_fkey", repositories.ErrNotFound)
		}
	}
	for i := range items {
		if _, ok := t.store.products[items[i].ProductID]; !ok {
			return fmt.Errorf("%w: order_items_product_id_fkey", repositories.ErrNotFound)
		}
		items[i].ID = t.nextID()
		items[i].OrderID = orderID
	}
	t.items[orderID] = append(t.items[orderID], items...)
	return nil
}

func (t *memTx) GetOrderForUpdate(_ context.Context, id int) (*models.Order, error) {
	if o, ok := t.orders[id]; ok {
		o.Items = slices.Clone(t.items[id])
		return &o, nil
	}
	return t.store.orderLocked(id)
}

func (t *memTx) UpdateOrderTotal(_ context.Context, id int, total decimal.Decimal, items []models.OrderItem) error {
	o, ok := t.orders[id]
	if !ok {
		o, ok = t.store.orders[id]
		if !ok {
			return repositories.ErrNotFound
		}
	}
	o.TotalPrice = total
	o.UpdatedAt = t.store.now()
	t.orders[id] = o

	staged := slices.Clone(t.items[id])
	if staged == nil {
		staged = slices.Clone(t.store.orderItems[id])
	}
	for _, it := range items {
		for i := range staged {
			if staged[i].ID == it.ID {
				staged[i].UnitPrice = it.UnitPrice
			}
		}
	}
	t.items[id] = staged
	return nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset < 0 || offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return all[offset:end]
}
