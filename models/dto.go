package models

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	IsStaff  bool   `json:"is_staff"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CheckEmailRequest struct {
	Email string `json:"email"`
}

type CategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image"`
}

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  int             `json:"category" binding:"required"`
	ImageURL    *string         `json:"image"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	CategoryID  *int             `json:"category"`
	ImageURL    *string          `json:"image"`
}

// Pointer fields distinguish an absent value from a zero value.
type CreateCommentRequest struct {
	Product *int   `json:"product"`
	Text    string `json:"text"`
	Rating  *int   `json:"rating"`
}

type AddToCartRequest struct {
	Cart     *int `json:"cart"`
	Product  *int `json:"product"`
	Quantity *int `json:"quantity"`
}

type CartItemRequest struct {
	Product  *int `json:"product"`
	Quantity *int `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}

type OrderItemRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

type UpdateOrderRequest struct {
	Status         *OrderStatus `json:"status"`
	RecomputeTotal bool         `json:"recompute_total"`
}
