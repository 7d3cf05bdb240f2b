package services

import (
	"context"
	"errors"
	"fmt"

	"shop-api/models"
	"shop-api/repositories"
)

type CartService struct {
	carts    repositories.CartStore
	products repositories.ProductStore
}

func NewCartService(carts repositories.CartStore, products repositories.ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

// GetOrCreate returns the caller's cart, creating it on first access.
func (s *CartService) GetOrCreate(ctx context.Context, principal models.Principal) (*models.Cart, error) {
	cart, err := s.carts.GetOrCreateCart(ctx, principal.UserID)
	if err != nil {
		return nil, internalFault("get or create cart", err)
	}
	return s.withItems(ctx, cart)
}

func (s *CartService) Get(ctx context.Context, principal models.Principal, cartID int) (*models.Cart, error) {
	cart, err := s.visibleCart(ctx, principal, cartID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, cart)
}

// AddOrUpdateItem sets the quantity of a product in a cart. Repeating the
// call with the same product replaces the quantity.
func (s *CartService) AddOrUpdateItem(ctx context.Context, principal models.Principal, req models.AddToCartRequest) (*models.CartItem, error) {
	if err := validateQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if req.Cart == nil {
		return nil, validationError("cart", "Cart is required")
	}
	if req.Product == nil {
		return nil, validationError("product", "Product is required")
	}

	cart, err := s.ownedCart(ctx, principal, *req.Cart)
	if err != nil {
		return nil, err
	}
	return s.upsert(ctx, cart.ID, *req.Product, *req.Quantity)
}

// AddToMyCart upserts an item into the caller's own cart.
func (s *CartService) AddToMyCart(ctx context.Context, principal models.Principal, req models.CartItemRequest) (*models.CartItem, error) {
	if err := validateQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if req.Product == nil {
		return nil, validationError("product", "Product is required")
	}

	cart, err := s.carts.GetOrCreateCart(ctx, principal.UserID)
	if err != nil {
		return nil, internalFault("get or create cart", err)
	}
	return s.upsert(ctx, cart.ID, *req.Product, *req.Quantity)
}

func (s *CartService) ListItems(ctx context.Context, principal models.Principal) ([]models.CartItem, error) {
	cart, err := s.carts.GetOrCreateCart(ctx, principal.UserID)
	if err != nil {
		return nil, internalFault("get or create cart", err)
	}

	items, err := s.carts.ListCartItems(ctx, cart.ID)
	if err != nil {
		return nil, internalFault("list cart items", err)
	}
	return items, nil
}

func (s *CartService) UpdateItem(ctx context.Context, principal models.Principal, itemID int, req models.UpdateCartItemRequest) (*models.CartItem, error) {
	if err := validateQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if _, err := s.ownedItem(ctx, principal, itemID); err != nil {
		return nil, err
	}

	item, err := s.carts.UpdateCartItemQuantity(ctx, itemID, *req.Quantity)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Cart item not found")
		}
		return nil, internalFault("update cart item", err)
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, principal models.Principal, itemID int) error {
	if _, err := s.ownedItem(ctx, principal, itemID); err != nil {
		return err
	}

	if err := s.carts.DeleteCartItem(ctx, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("Cart item not found")
		}
		return internalFault("delete cart item", err)
	}
	return nil
}

func (s *CartService) upsert(ctx context.Context, cartID, productID, quantity int) (*models.CartItem, error) {
	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, internalFault("get product", err)
	}
	if err != nil || !product.IsActive {
		return nil, notFound("Product not found")
	}

	item, err := s.carts.UpsertCartItem(ctx, cartID, product.ID, quantity)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Product not found")
		}
		return nil, internalFault("upsert cart item", err)
	}
	item.Product = product
	return item, nil
}

// visibleCart lets staff read any cart.
func (s *CartService) visibleCart(ctx context.Context, principal models.Principal, cartID int) (*models.Cart, error) {
	cart, err := s.findCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccess(cart.UserID) {
		return nil, forbidden("You do not have permission to view this cart")
	}
	return cart, nil
}

// ownedCart admits the owner only. Staff get no write access to other carts.
func (s *CartService) ownedCart(ctx context.Context, principal models.Principal, cartID int) (*models.Cart, error) {
	cart, err := s.findCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.UserID != principal.UserID {
		return nil, forbidden("You do not have permission to modify this cart")
	}
	return cart, nil
}

func (s *CartService) findCart(ctx context.Context, cartID int) (*models.Cart, error) {
	cart, err := s.carts.GetCartByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Cart not found")
		}
		return nil, internalFault("get cart", err)
	}
	return cart, nil
}

func (s *CartService) ownedItem(ctx context.Context, principal models.Principal, itemID int) (*models.CartItem, error) {
	item, err := s.carts.GetCartItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Cart item not found")
		}
		return nil, internalFault("get cart item", err)
	}
	if _, err := s.ownedCart(ctx, principal, item.CartID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) withItems(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	items, err := s.carts.ListCartItems(ctx, cart.ID)
	if err != nil {
		return nil, internalFault("list cart items", err)
	}
	cart.Items = items
	return cart, nil
}

func validateQuantity(quantity *int) error {
	if quantity == nil {
		return validationError("quantity", "Quantity is required")
	}
	if *quantity <= 0 {
		return validationError("quantity", "Quantity must be greater than zero")
	}
	if *quantity > maxQuantity {
		return validationError("quantity", fmt.Sprintf("Quantity must not exceed %d", maxQuantity))
	}
	return nil
}
