package models

import "time"

type Cart struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

type CartItem struct {
	ID        int       `json:"id"`
	CartID    int       `json:"cart"`
	ProductID int       `json:"-"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
